package mcsim

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/arloliu/go-mcprotocol/mc"
	"github.com/arloliu/go-mcprotocol/mcclient"
	"github.com/arloliu/go-mcprotocol/mcconn"
	"github.com/arloliu/go-mcprotocol/mcdata"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) *Server {
	t.Helper()

	srv := New()
	require.NoError(t, srv.Start(context.Background(), "127.0.0.1:0"))
	t.Cleanup(func() { _ = srv.Close() })

	return srv
}

func openClient(t *testing.T, addr net.Addr, opts ...mcclient.Option) *mcclient.Client {
	t.Helper()

	host, portText, err := net.SplitHostPort(addr.String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portText)
	require.NoError(t, err)

	cfg, err := mcconn.NewConnectionConfig(host, port, mcconn.WithReceiveTimeout(500*time.Millisecond))
	require.NoError(t, err)

	client, err := mcclient.Open(context.Background(), cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(client.Close)

	return client
}

func TestServer_ReadWord(t *testing.T) {
	require := require.New(t)

	srv := startServer(t)
	srv.Set(mc.Device{Type: "D", Address: 1000}, 1)

	client := openClient(t, srv.Addr())
	require.True(client.IsConnected())

	values, status, err := client.ExecuteRead(context.Background(), mc.Device{Type: "D", Address: 1000}, 1)
	require.NoError(err)
	require.Equal(mcclient.StatusSuccess, status)
	require.Equal([]mc.Word{1}, values)

	reqs := srv.Requests()
	require.Len(reqs, 1)
	require.Equal(mc.CmdBatchRead, reqs[0].Command)
	require.Equal(mc.SubCmdWord, reqs[0].SubCommand)
}

func TestServer_WriteTypedValue(t *testing.T) {
	require := require.New(t)

	srv := startServer(t)
	client := openClient(t, srv.Addr())

	words, err := mcdata.FromString(mcdata.KindInt16, "1")
	require.NoError(err)

	status, err := client.ExecuteWrite(context.Background(), mc.Device{Type: "D", Address: 1000}, words)
	require.NoError(err)
	require.Equal(mcclient.StatusSuccess, status)

	reqs := srv.Requests()
	require.Len(reqs, 1)
	require.Equal("0001", reqs[0].Data)

	written, err := reqs[0].Values()
	require.NoError(err)
	v, err := mcdata.WordsToInt16(written)
	require.NoError(err)
	require.Equal(int16(1), v)

	require.Equal([]mc.Word{1}, srv.Get(mc.Device{Type: "D", Address: 1000}, 1))
}

func TestServer_TypedRoundTrip(t *testing.T) {
	require := require.New(t)

	srv := startServer(t)
	client := openClient(t, srv.Addr())
	ctx := context.Background()

	tests := []struct {
		kind mcdata.Kind
		text string
	}{
		{mcdata.KindInt32, "-123456"},
		{mcdata.KindFloat32, "3.25"},
		{mcdata.KindFloat64, "-0.5"},
		{mcdata.KindUint64, "18446744073709551615"},
		{mcdata.KindASCII, "LOT-42"},
		{mcdata.KindBCDTime, "2024-03-15 12:34:56"},
	}

	for i, tt := range tests {
		dev := mc.Device{Type: "D", Address: 2000 + i*10}

		words, err := mcdata.FromString(tt.kind, tt.text)
		require.NoError(err)

		status, err := client.ExecuteWrite(ctx, dev, words)
		require.NoError(err)
		require.True(status.IsSuccess())

		values, status, err := client.ExecuteRead(ctx, dev, len(words))
		require.NoError(err)
		require.True(status.IsSuccess())

		text, err := mcdata.ToString(tt.kind, values)
		require.NoError(err)
		require.Equal(tt.text, text, tt.kind)
	}
}

func TestServer_BitRoundTrip(t *testing.T) {
	require := require.New(t)

	srv := startServer(t)
	client := openClient(t, srv.Addr())
	ctx := context.Background()

	status, err := client.ExecuteWrite(ctx, mc.Device{Type: "Y", Address: 0x1A0}, []mc.Word{1, 0, 7, 1})
	require.NoError(err)
	require.True(status.IsSuccess())

	values, status, err := client.ExecuteRead(ctx, mc.Device{Type: "Y", Address: 0x1A0}, 4)
	require.NoError(err)
	require.True(status.IsSuccess())
	require.Equal([]mc.Word{1, 0, 1, 1}, values)

	reqs := srv.Requests()
	require.Len(reqs, 2)
	require.Equal(mc.SubCmdBit, reqs[0].SubCommand)
	require.Equal(mc.Device{Type: "Y", Address: 0x1A0}, reqs[0].Device)
}

func TestServer_ChunkedWrite(t *testing.T) {
	require := require.New(t)

	srv := startServer(t)
	client := openClient(t, srv.Addr())

	values := make([]mc.Word, 2000)
	for i := range values {
		values[i] = mc.Word(i * 3)
	}

	status, err := client.ExecuteWrite(context.Background(), mc.Device{Type: "ZR", Address: 0x100}, values)
	require.NoError(err)
	require.True(status.IsSuccess())

	reqs := srv.Requests()
	require.Len(reqs, 3)
	require.Equal(0x100, reqs[0].Device.Address)
	require.Equal(0x100+960, reqs[1].Device.Address)
	require.Equal(0x100+1920, reqs[2].Device.Address)
	require.Equal(80, reqs[2].Points)

	require.Equal(values, srv.Get(mc.Device{Type: "ZR", Address: 0x100}, 2000))
}

func TestServer_ChunkedRead(t *testing.T) {
	require := require.New(t)

	srv := startServer(t)
	values := make([]mc.Word, 1500)
	for i := range values {
		values[i] = mc.Word(-i)
	}
	srv.Set(mc.Device{Type: "R", Address: 0}, values...)

	client := openClient(t, srv.Addr(), mcclient.WithChunkedRead(true))

	got, status, err := client.ExecuteRead(context.Background(), mc.Device{Type: "R", Address: 0}, 1500)
	require.NoError(err)
	require.True(status.IsSuccess())
	require.Equal(values, got)
	require.Len(srv.Requests(), 2)
}

func TestServer_DeviceError(t *testing.T) {
	require := require.New(t)

	srv := startServer(t)
	srv.SetFault(func(req *mc.Request) uint16 {
		if req.Device.Type == "D" && req.Device.Address >= 9000 {
			return CodeAddressOutOfRange
		}
		return 0
	})

	client := openClient(t, srv.Addr())

	_, status, err := client.ExecuteRead(context.Background(), mc.Device{Type: "D", Address: 9000}, 1)
	require.NoError(err)
	require.Equal(mcclient.Status(CodeAddressOutOfRange), status)
	require.Len(srv.Requests(), 2)
	require.True(client.IsConnected())

	srv.SetFault(nil)
	_, status, err = client.ExecuteRead(context.Background(), mc.Device{Type: "D", Address: 9000}, 1)
	require.NoError(err)
	require.True(status.IsSuccess())
}

func TestServer_ReconnectAfterServerClose(t *testing.T) {
	require := require.New(t)

	srv := startServer(t)
	srv.Set(mc.Device{Type: "W", Address: 0x10}, 42)

	client := openClient(t, srv.Addr())
	ctx := context.Background()

	values, status, err := client.ExecuteRead(ctx, mc.Device{Type: "W", Address: 0x10}, 1)
	require.NoError(err)
	require.True(status.IsSuccess())
	require.Equal([]mc.Word{42}, values)

	srv.DropConnections()

	values, status, err = client.ExecuteRead(ctx, mc.Device{Type: "W", Address: 0x10}, 1)
	require.NoError(err)
	require.True(status.IsSuccess())
	require.Equal([]mc.Word{42}, values)
	require.Equal(uint64(1), client.GetMetrics().ReconnectCount.Load())
	require.True(client.IsConnected())
}

func TestServer_ServerDown(t *testing.T) {
	require := require.New(t)

	srv := startServer(t)
	addr := srv.Addr()
	client := openClient(t, addr)
	require.NoError(srv.Close())

	status, err := client.ExecuteWrite(context.Background(), mc.Device{Type: "D", Address: 0}, []mc.Word{1})
	require.NoError(err)
	require.Equal(mcclient.StatusLocalFailure, status)
	require.False(client.IsConnected())
}

func TestServer_Handle(t *testing.T) {
	require := require.New(t)

	srv := New()
	profile := mc.DefaultFrameProfile()

	code, _ := srv.handle("garbage")
	require.Equal(CodeMalformed, code)

	frame, err := mc.BuildCommand(profile, mc.CmdRandomRead, mc.SubCmdWord, mc.Device{Type: "D"}, 1, nil)
	require.NoError(err)
	code, _ = srv.handle(frame)
	require.Equal(CodeUnsupported, code)

	frame, err = mc.BuildCommand(profile, mc.CmdBatchRead, mc.SubCmdWord, mc.Device{Type: "D"}, 961, nil)
	require.NoError(err)
	code, _ = srv.handle(frame)
	require.Equal(CodePointsOutOfRange, code)

	frame, err = mc.BuildCommand(profile, mc.CmdBatchRead, mc.SubCmdWord, mc.Device{Type: "D", Address: 999999}, 2, nil)
	require.NoError(err)
	code, _ = srv.handle(frame)
	require.Equal(CodeAddressOutOfRange, code)

	srv.Set(mc.Device{Type: "D", Address: 5}, 0x1234)
	frame, err = mc.BuildRead(profile, mc.Device{Type: "D", Address: 5}, 1)
	require.NoError(err)
	code, payload := srv.handle(frame)
	require.Equal(uint16(0), code)
	require.Equal("1234", payload)

	require.Len(srv.Requests(), 4)
}
