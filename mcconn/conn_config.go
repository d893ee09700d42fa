package mcconn

import (
	"errors"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/go-mcprotocol/logger"
)

// ConnectionConfig represents the configuration parameters for a PLC connection.
type ConnectionConfig struct {
	// host specifies the host of the remote PLC.
	host string

	// port specifies the TCP port number of the PLC's MC protocol port.
	port int

	// receiveTimeout bounds every single read. It should be between 100 milliseconds and 60 seconds.
	// Defaults to 2500 milliseconds.
	receiveTimeout time.Duration

	// sendTimeout bounds every write. It should be between 100 milliseconds and 60 seconds.
	// Defaults to 2500 milliseconds.
	sendTimeout time.Duration

	// connectTimeout defines the timeout for establishing a connection. It should be between 1 and 30 seconds.
	// Defaults to 3 seconds.
	connectTimeout time.Duration

	// linger is passed to SetLinger when the connection is established. A negative value disables lingering
	// and lets the operating system complete the close in the background. It should be between -1 and 60.
	// Defaults to -1.
	linger int

	// logger provides a logger instance for logging connection events and errors.
	logger logger.Logger
}

// NewConnectionConfig creates a new connection configuration with the given host, port number, and optional functional options.
//
// The host parameter is an IP address or a resolvable host name of the PLC.
// The port parameter specifies the TCP port number configured for MC protocol communication on the PLC.
//
// Returns a pointer to the initialized ConnectionConfig and an error if any option is invalid.
func NewConnectionConfig(host string, port int, opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := &ConnectionConfig{
		receiveTimeout: 2500 * time.Millisecond,
		sendTimeout:    2500 * time.Millisecond,
		connectTimeout: 3 * time.Second,
		linger:         -1,
		logger:         logger.GetLogger(),
	}

	if err := withRemoteHost(host).apply(cfg); err != nil {
		return cfg, err
	}

	if err := withPort(port).apply(cfg); err != nil {
		return cfg, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// Host returns the remote host.
func (cfg *ConnectionConfig) Host() string { return cfg.host }

// Port returns the remote port.
func (cfg *ConnectionConfig) Port() int { return cfg.port }

// Address returns the "host:port" dial address.
func (cfg *ConnectionConfig) Address() string {
	return net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port))
}

// ReceiveTimeout returns the per-read timeout.
func (cfg *ConnectionConfig) ReceiveTimeout() time.Duration { return cfg.receiveTimeout }

// SendTimeout returns the per-write timeout.
func (cfg *ConnectionConfig) SendTimeout() time.Duration { return cfg.sendTimeout }

// ConnectTimeout returns the dial timeout.
func (cfg *ConnectionConfig) ConnectTimeout() time.Duration { return cfg.connectTimeout }

// Linger returns the linger setting in seconds.
func (cfg *ConnectionConfig) Linger() int { return cfg.linger }

// ConnOption represents a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc struct {
	name      string
	applyFunc func(*ConnectionConfig) error
}

func (c *connOptFunc) apply(cfg *ConnectionConfig) error { return c.applyFunc(cfg) }

func newConnOptFunc(name string, f func(*ConnectionConfig) error) *connOptFunc {
	return &connOptFunc{
		name:      name,
		applyFunc: f,
	}
}

// withRemoteHost sets the host for the PLC connection.
// Accepts an IP address or a host name that resolves.
func withRemoteHost(host string) ConnOption {
	return newConnOptFunc("withRemoteHost", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}

		// Check if it's a valid IP address
		if ip := net.ParseIP(host); ip != nil {
			cfg.host = host
			return nil
		}

		// If not an IP, check if it's a valid domain name
		host = strings.TrimPrefix(host, ".")
		host = strings.TrimSuffix(host, ".")
		if host != "" {
			if _, err := net.LookupHost(host); err == nil {
				cfg.host = host
				return nil
			}
		}

		return errors.New("invalid host")
	})
}

// withPort sets the TCP port number for the PLC connection.
// An error is returned if the port number is out of the valid range (1-65535).
func withPort(port int) ConnOption {
	return newConnOptFunc("withPort", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}

		if port < 1 || port > 65535 {
			return errors.New("port is out of range [1, 65535]")
		}
		cfg.port = port

		return nil
	})
}

// WithReceiveTimeout sets the timeout of every single read from the PLC.
// An error is returned if the timeout is outside the valid range (100 milliseconds - 60 seconds).
//
// The default value is 2500 milliseconds.
func WithReceiveTimeout(val time.Duration) ConnOption {
	return newConnOptFunc("WithReceiveTimeout", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}

		if val < 100*time.Millisecond || val > 60*time.Second {
			return errors.New("receive timeout out of range [0.1, 60]")
		}
		cfg.receiveTimeout = val

		return nil
	})
}

// WithSendTimeout sets the timeout of every write to the PLC.
// An error is returned if the timeout is outside the valid range (100 milliseconds - 60 seconds).
//
// The default value is 2500 milliseconds.
func WithSendTimeout(val time.Duration) ConnOption {
	return newConnOptFunc("WithSendTimeout", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}

		if val < 100*time.Millisecond || val > 60*time.Second {
			return errors.New("send timeout out of range [0.1, 60]")
		}
		cfg.sendTimeout = val

		return nil
	})
}

// WithConnectTimeout sets the timeout for establishing the TCP connection.
// An error is returned if the timeout is outside the valid range (1-30 seconds).
//
// The default value is 3 seconds.
func WithConnectTimeout(val time.Duration) ConnOption {
	return newConnOptFunc("WithConnectTimeout", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}

		if val < 1*time.Second || val > 30*time.Second {
			return errors.New("connect timeout out of range [1, 30]")
		}
		cfg.connectTimeout = val

		return nil
	})
}

// WithLinger sets the SO_LINGER behaviour of the socket in seconds.
// A negative value disables lingering, 0 discards unsent data on close.
// An error is returned if the value is outside the valid range (-1 to 60).
//
// The default value is -1.
func WithLinger(sec int) ConnOption {
	return newConnOptFunc("WithLinger", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}

		if sec < -1 || sec > 60 {
			return errors.New("linger out of range [-1, 60]")
		}
		cfg.linger = sec

		return nil
	})
}

// WithLogger sets the logger of the connection.
//
// The default value is the package default logger, see logger.GetLogger.
func WithLogger(l logger.Logger) ConnOption {
	return newConnOptFunc("WithLogger", func(cfg *ConnectionConfig) error {
		if cfg == nil {
			return ErrConnConfigNil
		}

		if l == nil {
			return errors.New("logger is nil")
		}
		cfg.logger = l

		return nil
	})
}
