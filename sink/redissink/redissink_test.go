package redissink

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-mcprotocol/mc"
	"github.com/arloliu/go-mcprotocol/sink"
)

type hsetCall struct {
	key    string
	values []any
}

type publishCall struct {
	channel string
	message any
}

type fakeClient struct {
	hsets     []hsetCall
	publishes []publishCall
	hsetErr   error
	closed    bool
}

func (f *fakeClient) HSet(ctx context.Context, key string, values ...any) *redis.IntCmd {
	f.hsets = append(f.hsets, hsetCall{key: key, values: values})
	cmd := redis.NewIntCmd(ctx)
	if f.hsetErr != nil {
		cmd.SetErr(f.hsetErr)
	} else {
		cmd.SetVal(int64(len(values) / 2))
	}

	return cmd
}

func (f *fakeClient) Publish(ctx context.Context, channel string, message any) *redis.IntCmd {
	f.publishes = append(f.publishes, publishCall{channel: channel, message: message})
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(1)

	return cmd
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func TestSink_WriteEntries(t *testing.T) {
	require := require.New(t)

	client := &fakeClient{}
	s := NewWithClient(client, Config{KeyPrefix: "plc1:", Channel: "plc1-values"})

	ts := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	entries := sink.Expand("D", []mc.Word{1, -2}, 2, 1000, ts)
	entries = append(entries, sink.Expand("W", []mc.Word{3}, 1, 0x10, ts)...)

	require.NoError(s.WriteEntries(context.Background(), entries))
	require.Equal([]hsetCall{
		{key: "plc1:D", values: []any{"D1000", int64(1), "D1001", int64(-2)}},
		{key: "plc1:W", values: []any{"W10", int64(3)}},
	}, client.hsets)

	require.Len(client.publishes, 1)
	require.Equal("plc1-values", client.publishes[0].channel)

	var published []sink.Entry
	require.NoError(json.Unmarshal(client.publishes[0].message.([]byte), &published))
	require.Equal(entries, published)

	require.NoError(s.Close())
	require.True(client.closed)
}

func TestSink_NoChannel(t *testing.T) {
	require := require.New(t)

	client := &fakeClient{}
	s := NewWithClient(client, Config{})

	require.NoError(s.WriteEntries(context.Background(), sink.Expand("R", []mc.Word{5}, 1, 0, time.Now())))
	require.Equal("R", client.hsets[0].key)
	require.Empty(client.publishes)

	require.NoError(s.WriteEntries(context.Background(), nil))
	require.Len(client.hsets, 1)
}

func TestSink_HSetError(t *testing.T) {
	require := require.New(t)

	errDown := errors.New("server down")
	client := &fakeClient{hsetErr: errDown}
	s := NewWithClient(client, Config{Channel: "values"})

	err := s.WriteEntries(context.Background(), sink.Expand("D", []mc.Word{1}, 1, 0, time.Now()))
	require.ErrorIs(err, errDown)
	require.Empty(client.publishes)
}

func TestNew_EmptyAddress(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.ErrorIs(t, err, ErrAddressEmpty)
}

func TestJoinKey(t *testing.T) {
	require := require.New(t)

	require.Equal("a:b", joinKey("a", "b"))
	require.Equal("a:b", joinKey(":a:", "", "b:"))
	require.Equal("D", joinKey("", "D"))
}
