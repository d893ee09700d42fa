package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-mcprotocol/mc"
)

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_Default(t *testing.T) {
	require := require.New(t)

	cfg, err := loadConfig("")
	require.NoError(err)
	require.Equal(defaultConfig(), cfg)
	require.Equal(mc.DefaultFrameProfile(), cfg.Frame)
	require.Equal(1, cfg.MaxRetry)
}

func TestLoadConfig_YAML(t *testing.T) {
	require := require.New(t)

	path := writeFile(t, "mcctl.yaml", `
host: 192.168.0.10
port: 5001
receive_timeout_ms: 1000
max_retry: 3
log_level: debug
frame:
  network: 1
  pc_number: 2
sinks:
  log: true
  redis:
    address: localhost:6379
    key_prefix: plc1
  kafka:
    brokers: [localhost:9092]
    topic: plc-values
`)

	cfg, err := loadConfig(path)
	require.NoError(err)
	require.Equal("192.168.0.10", cfg.Host)
	require.Equal(5001, cfg.Port)
	require.Equal(1000, cfg.ReceiveTimeoutMs)
	require.Equal(2500, cfg.SendTimeoutMs)
	require.Equal(3, cfg.MaxRetry)
	require.Equal("debug", cfg.LogLevel)

	// unset frame fields keep their defaults
	require.Equal(uint8(1), cfg.Frame.Network)
	require.Equal(uint8(2), cfg.Frame.PCNumber)
	require.Equal(uint16(0x03FF), cfg.Frame.IONumber)
	require.Equal(uint16(0x5000), cfg.Frame.Subheader)

	require.True(cfg.Sinks.Log)
	require.NotNil(cfg.Sinks.Redis)
	require.Equal("plc1", cfg.Sinks.Redis.KeyPrefix)
	require.NotNil(cfg.Sinks.Kafka)
	require.Equal([]string{"localhost:9092"}, cfg.Sinks.Kafka.Brokers)
	require.Nil(cfg.Sinks.MQTT)
}

func TestLoadConfig_TOML(t *testing.T) {
	require := require.New(t)

	path := writeFile(t, "mcctl.toml", `
host = "10.0.0.5"
port = 6000
chunked_read = true

[frame]
timer = 32

[sinks.mqtt]
broker = "localhost"
root_topic = "plant/plc1"
qos = 1
`)

	cfg, err := loadConfig(path)
	require.NoError(err)
	require.Equal("10.0.0.5", cfg.Host)
	require.Equal(6000, cfg.Port)
	require.True(cfg.ChunkedRead)
	require.Equal(uint16(32), cfg.Frame.Timer)
	require.Equal(uint8(0xFF), cfg.Frame.PCNumber)
	require.NotNil(cfg.Sinks.MQTT)
	require.Equal("plant/plc1", cfg.Sinks.MQTT.RootTopic)
	require.Equal(byte(1), cfg.Sinks.MQTT.QoS)
}

func TestLoadConfig_Errors(t *testing.T) {
	require := require.New(t)

	_, err := loadConfig(writeFile(t, "mcctl.json", `{}`))
	require.ErrorIs(err, errUnknownConfigFormat)

	_, err = loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(err, os.ErrNotExist)

	_, err = loadConfig(writeFile(t, "bad.yaml", "port: [1"))
	require.Error(err)

	_, err = loadConfig(writeFile(t, "bad.toml", "port = "))
	require.Error(err)
}

func TestParsePreset(t *testing.T) {
	require := require.New(t)

	dev, v, err := parsePreset("D1000=12")
	require.NoError(err)
	require.Equal(mc.Device{Type: "D", Address: 1000}, dev)
	require.Equal(mc.Word(12), v)

	_, v, err = parsePreset("W1F=-1")
	require.NoError(err)
	require.Equal(mc.Word(-1), v)

	_, _, err = parsePreset("D1000")
	require.Error(err)
	_, _, err = parsePreset("D1000=70000")
	require.Error(err)
	_, _, err = parsePreset("=1")
	require.Error(err)
}
