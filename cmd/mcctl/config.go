package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/go-mcprotocol/mc"
	"github.com/arloliu/go-mcprotocol/sink/kafkasink"
	"github.com/arloliu/go-mcprotocol/sink/mqttsink"
	"github.com/arloliu/go-mcprotocol/sink/redissink"
)

var errUnknownConfigFormat = errors.New("unknown config file format")

// Config is the mcctl configuration file.
type Config struct {
	Host             string          `yaml:"host" toml:"host"`
	Port             int             `yaml:"port" toml:"port"`
	ReceiveTimeoutMs int             `yaml:"receive_timeout_ms" toml:"receive_timeout_ms"`
	SendTimeoutMs    int             `yaml:"send_timeout_ms" toml:"send_timeout_ms"`
	ConnectTimeoutMs int             `yaml:"connect_timeout_ms" toml:"connect_timeout_ms"`
	MaxRetry         int             `yaml:"max_retry" toml:"max_retry"`
	ChunkedRead      bool            `yaml:"chunked_read" toml:"chunked_read"`
	LogLevel         string          `yaml:"log_level" toml:"log_level"`
	Frame            mc.FrameProfile `yaml:"frame" toml:"frame"`
	Sinks            SinkConfig      `yaml:"sinks" toml:"sinks"`
}

// SinkConfig selects the recorders attached to reads. A nil backend section disables it.
type SinkConfig struct {
	Log   bool              `yaml:"log" toml:"log"`
	Redis *redissink.Config `yaml:"redis" toml:"redis"`
	Kafka *kafkasink.Config `yaml:"kafka" toml:"kafka"`
	MQTT  *mqttsink.Config  `yaml:"mqtt" toml:"mqtt"`
}

func defaultConfig() *Config {
	return &Config{
		Host:             "127.0.0.1",
		Port:             5000,
		ReceiveTimeoutMs: 2500,
		SendTimeoutMs:    2500,
		ConnectTimeoutMs: 3000,
		MaxRetry:         1,
		LogLevel:         "info",
		Frame:            mc.DefaultFrameProfile(),
	}
}

// loadConfig reads path over the defaults; the format follows the file extension.
// An empty path returns the defaults.
func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	case ".toml":
		_, err = toml.Decode(string(data), cfg)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownConfigFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) receiveTimeout() time.Duration {
	return time.Duration(c.ReceiveTimeoutMs) * time.Millisecond
}

func (c *Config) sendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutMs) * time.Millisecond
}

func (c *Config) connectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutMs) * time.Millisecond
}
