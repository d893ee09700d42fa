// Package redissink stores read values in Redis (or Valkey) hashes.
//
// Each device type gets one hash, "<prefix>:<device>", whose fields are entry names and whose values
// are the word values. When a channel is configured the entries of every read are also published
// there as one JSON array.
package redissink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/arloliu/go-mcprotocol/logger"
	"github.com/arloliu/go-mcprotocol/sink"
)

// ErrAddressEmpty is returned by New when no server address is configured.
var ErrAddressEmpty = errors.New("redis address is empty")

// Client is the subset of the go-redis client the sink uses.
type Client interface {
	HSet(ctx context.Context, key string, values ...any) *redis.IntCmd
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
	Close() error
}

// Config configures the Redis sink.
type Config struct {
	Address   string `yaml:"address" toml:"address"`
	Password  string `yaml:"password" toml:"password"`
	DB        int    `yaml:"db" toml:"db"`
	KeyPrefix string `yaml:"key_prefix" toml:"key_prefix"`
	Channel   string `yaml:"channel" toml:"channel"`
}

// Sink writes entries to Redis. It implements sink.EntryWriter.
type Sink struct {
	client    Client
	keyPrefix string
	channel   string
	logger    logger.Logger
}

var _ sink.EntryWriter = (*Sink)(nil)

// New connects to the configured server and verifies the connection with PING.
func New(ctx context.Context, cfg Config) (*Sink, error) {
	if cfg.Address == "" {
		return nil, ErrAddressEmpty
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Address, err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a sink on top of an existing client.
func NewWithClient(client Client, cfg Config) *Sink {
	return &Sink{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		channel:   cfg.Channel,
		logger:    logger.GetLogger().With("sink", "redis"),
	}
}

// WriteEntries stores the entries, grouped into one HSET per device type.
func (s *Sink) WriteEntries(ctx context.Context, entries []sink.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	var order []string
	fields := make(map[string][]any)
	for _, e := range entries {
		if _, ok := fields[e.Device]; !ok {
			order = append(order, e.Device)
		}
		fields[e.Device] = append(fields[e.Device], e.Name, int64(e.Value))
	}

	for _, device := range order {
		key := joinKey(s.keyPrefix, device)
		if err := s.client.HSet(ctx, key, fields[device]...).Err(); err != nil {
			return fmt.Errorf("hset %s: %w", key, err)
		}
	}

	if s.channel == "" {
		return nil
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	if err := s.client.Publish(ctx, s.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", s.channel, err)
	}

	s.logger.Debug("entries published", "channel", s.channel, "count", len(entries))

	return nil
}

// Close closes the underlying client.
func (s *Sink) Close() error {
	return s.client.Close()
}

// joinKey joins key segments with colons, dropping empty segments and stray colons.
func joinKey(segments ...string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		s = strings.Trim(s, ":")
		if s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, ":")
}
