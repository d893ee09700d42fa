// Package mqttsink publishes read values to an MQTT broker.
//
// Every entry is published as a retained JSON message on "<root>/<device>/<name>", e.g. "plant/plc1/D/D1000".
package mqttsink

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/arloliu/go-mcprotocol/sink"
)

var (
	// ErrBrokerEmpty is returned by New when no broker host is configured.
	ErrBrokerEmpty = errors.New("mqtt broker is empty")
	// ErrPublishTimeout is returned when the broker does not acknowledge a publish in time.
	ErrPublishTimeout = errors.New("mqtt publish timeout")
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 2 * time.Second
)

// Publisher is the subset of the paho client the sink uses.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) pahomqtt.Token
	Disconnect(quiesce uint)
}

// Config configures the MQTT sink.
type Config struct {
	Broker    string `yaml:"broker" toml:"broker"`
	Port      int    `yaml:"port" toml:"port"`
	ClientID  string `yaml:"client_id" toml:"client_id"`
	Username  string `yaml:"username" toml:"username"`
	Password  string `yaml:"password" toml:"password"`
	RootTopic string `yaml:"root_topic" toml:"root_topic"`
	QoS       byte   `yaml:"qos" toml:"qos"`
}

// Sink publishes entries to MQTT. It implements sink.EntryWriter.
type Sink struct {
	client    Publisher
	rootTopic string
	qos       byte
}

var _ sink.EntryWriter = (*Sink)(nil)

// New connects to the broker. The client reconnects automatically after the first connection.
func New(cfg Config) (*Sink, error) {
	if cfg.Broker == "" {
		return nil, ErrBrokerEmpty
	}

	port := cfg.Port
	if port == 0 {
		port = 1883
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, port))
	if cfg.ClientID != "" {
		opts.SetClientID(cfg.ClientID)
	}
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(30 * time.Second)

	client := pahomqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect to mqtt broker %s:%d: timeout", cfg.Broker, port)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s:%d: %w", cfg.Broker, port, err)
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a sink on top of a connected client.
func NewWithClient(client Publisher, cfg Config) *Sink {
	return &Sink{
		client:    client,
		rootTopic: strings.Trim(cfg.RootTopic, "/"),
		qos:       cfg.QoS,
	}
}

// Topic returns the topic of an entry.
func (s *Sink) Topic(e sink.Entry) string {
	if s.rootTopic == "" {
		return e.Device + "/" + e.Name
	}

	return s.rootTopic + "/" + e.Device + "/" + e.Name
}

// WriteEntries publishes every entry and waits for each acknowledgement.
func (s *Sink) WriteEntries(ctx context.Context, entries []sink.Entry) error {
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		payload, err := json.Marshal(e)
		if err != nil {
			return err
		}

		topic := s.Topic(e)
		token := s.client.Publish(topic, s.qos, true, payload)
		if !token.WaitTimeout(publishTimeout) {
			return fmt.Errorf("%w: %s", ErrPublishTimeout, topic)
		}
		if err := token.Error(); err != nil {
			return fmt.Errorf("publish %s: %w", topic, err)
		}
	}

	return nil
}

// Close disconnects from the broker.
func (s *Sink) Close() error {
	s.client.Disconnect(250)
	return nil
}
