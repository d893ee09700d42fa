// Package kafkasink produces read values to a Kafka topic, one JSON message per entry keyed by entry name.
package kafkasink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/arloliu/go-mcprotocol/sink"
)

var (
	// ErrNoBrokers is returned by New when the broker list is empty.
	ErrNoBrokers = errors.New("no kafka brokers configured")
	// ErrTopicEmpty is returned by New when no topic is configured.
	ErrTopicEmpty = errors.New("kafka topic is empty")
)

// MessageWriter is the subset of kafka.Writer the sink uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Config configures the Kafka sink.
type Config struct {
	Brokers []string `yaml:"brokers" toml:"brokers"`
	Topic   string   `yaml:"topic" toml:"topic"`
	// RequiredAcks is -1 for all replicas, 0 for none and 1 for the leader only.
	RequiredAcks     int  `yaml:"required_acks" toml:"required_acks"`
	MaxAttempts      int  `yaml:"max_attempts" toml:"max_attempts"`
	AutoCreateTopics bool `yaml:"auto_create_topics" toml:"auto_create_topics"`
}

// Sink writes entries to Kafka. It implements sink.EntryWriter.
type Sink struct {
	writer MessageWriter
	now    func() time.Time
}

var _ sink.EntryWriter = (*Sink)(nil)

// New creates a synchronous batching writer for the configured topic.
// The writer connects lazily on the first write.
func New(cfg Config) (*Sink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}
	if cfg.Topic == "" {
		return nil, ErrTopicEmpty
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequiredAcks(cfg.RequiredAcks),
		MaxAttempts:            maxAttempts,
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: cfg.AutoCreateTopics,
	}

	return NewWithWriter(writer), nil
}

// NewWithWriter creates a sink on top of an existing writer.
func NewWithWriter(w MessageWriter) *Sink {
	return &Sink{writer: w, now: time.Now}
}

// WriteEntries produces one message per entry in a single batch.
func (s *Sink) WriteEntries(ctx context.Context, entries []sink.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	now := s.now()
	msgs := make([]kafka.Message, len(entries))
	for i, e := range entries {
		value, err := json.Marshal(e)
		if err != nil {
			return err
		}
		msgs[i] = kafka.Message{Key: []byte(e.Name), Value: value, Time: now}
	}

	if err := s.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("produce %d messages: %w", len(msgs), err)
	}

	return nil
}

// Close flushes pending messages and closes the writer.
func (s *Sink) Close() error {
	return s.writer.Close()
}
