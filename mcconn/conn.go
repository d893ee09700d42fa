package mcconn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-mcprotocol/logger"
)

// Connection represents one TCP connection to a PLC.
//
// The raw socket never leaves the Connection: callers only see Send, Receive and the
// lifecycle methods.
type Connection struct {
	cfg    *ConnectionConfig
	logger logger.Logger

	connMutex sync.Mutex // guards conn
	conn      net.Conn
	state     atomic.Uint32

	metrics ConnectionMetrics
}

// NewConnection creates a disconnected Connection with the given configuration.
func NewConnection(cfg *ConnectionConfig) (*Connection, error) {
	if cfg == nil {
		return nil, ErrConnConfigNil
	}

	return &Connection{
		cfg:    cfg,
		logger: cfg.logger.With("remote", cfg.Address()),
	}, nil
}

// GetLogger returns the logger associated with the connection.
func (c *Connection) GetLogger() logger.Logger {
	return c.logger
}

// GetMetrics returns the metrics associated with the connection.
func (c *Connection) GetMetrics() *ConnectionMetrics {
	return &c.metrics
}

// Config returns the configuration of the connection.
func (c *Connection) Config() *ConnectionConfig {
	return c.cfg
}

// State returns the current connection state.
func (c *Connection) State() ConnState {
	return ConnState(c.state.Load())
}

// IsConnected reports whether the connection is established.
func (c *Connection) IsConnected() bool {
	return c.State().IsConnected()
}

// Connect dials the PLC. It is a no-op if the connection is already established.
//
// On failure the connection stays disconnected and the dial error is returned; the error
// is informational, callers may simply check IsConnected.
func (c *Connection) Connect(ctx context.Context) error {
	c.connMutex.Lock()
	defer c.connMutex.Unlock()

	if c.conn != nil && c.IsConnected() {
		return nil
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	c.state.Store(uint32(ConnectingState))

	dialCtx, cancel := context.WithTimeout(ctx, c.cfg.connectTimeout)
	defer cancel()

	dialer := &net.Dialer{KeepAlive: 30 * time.Second}
	conn, err := dialer.DialContext(dialCtx, "tcp", c.cfg.Address())
	if err != nil {
		c.state.Store(uint32(DisconnectedState))
		c.metrics.incConnectErrCount()
		c.logger.Warn("failed to connect to the PLC", "host", c.cfg.host, "port", c.cfg.port, "error", err)

		return fmt.Errorf("connect %s: %w", c.cfg.Address(), err)
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetLinger(c.cfg.linger); err != nil {
			c.logger.Debug("failed to set linger", "linger", c.cfg.linger, "error", err)
		}
	}

	c.conn = conn
	c.state.Store(uint32(ConnectedState))
	c.metrics.incConnectCount()

	c.logger.Info("connected to the PLC",
		"host", c.cfg.host,
		"port", c.cfg.port,
		"local_addr", conn.LocalAddr().String(),
		"remote_addr", conn.RemoteAddr().String(),
	)

	return nil
}

// Reconnect drops the current socket, if any, and dials again.
func (c *Connection) Reconnect(ctx context.Context) error {
	c.Disconnect()
	return c.Connect(ctx)
}

// Disconnect shuts down both directions of the socket and closes it.
// Calling Disconnect on a closed connection is a no-op.
func (c *Connection) Disconnect() {
	c.connMutex.Lock()
	defer c.connMutex.Unlock()

	c.closeLocked()
}

// Send writes the whole frame to the PLC within the send timeout.
// A write failure closes the connection.
func (c *Connection) Send(frame []byte) error {
	c.connMutex.Lock()
	defer c.connMutex.Unlock()

	if c.conn == nil || !c.IsConnected() {
		return ErrNotConnected
	}

	if err := c.conn.SetWriteDeadline(time.Now().Add(c.cfg.sendTimeout)); err != nil {
		c.metrics.incSendErrCount()
		c.closeLocked()

		return err
	}

	for written := 0; written < len(frame); {
		n, err := c.conn.Write(frame[written:])
		c.metrics.addBytesSent(n)
		if err != nil {
			c.metrics.incSendErrCount()
			c.logger.Debug("failed to send frame", "error", err)
			c.closeLocked()

			return err
		}
		written += n
	}

	return nil
}

// Receive performs one read into buf bounded by the receive timeout and returns the number of bytes read.
//
// A timeout, a socket fault or a remote close (zero bytes) closes the connection and returns an error,
// so the next transaction attempt starts with a reconnect.
func (c *Connection) Receive(buf []byte) (int, error) {
	c.connMutex.Lock()
	defer c.connMutex.Unlock()

	if c.conn == nil || !c.IsConnected() {
		return 0, ErrNotConnected
	}

	if err := c.conn.SetReadDeadline(time.Now().Add(c.cfg.receiveTimeout)); err != nil {
		c.metrics.incRecvErrCount()
		c.closeLocked()

		return 0, err
	}

	n, err := c.conn.Read(buf)
	c.metrics.addBytesReceived(n)

	if n > 0 {
		// data is returned even when the read also reported an error; the next read surfaces it
		return n, nil
	}

	if err == nil || errors.Is(err, io.EOF) {
		err = ErrConnClosed
	}

	c.metrics.incRecvErrCount()
	c.logger.Debug("failed to receive frame", "error", err)
	c.closeLocked()

	return 0, err
}

func (c *Connection) closeLocked() {
	if c.conn == nil {
		c.state.Store(uint32(DisconnectedState))
		return
	}

	if tcpConn, ok := c.conn.(*net.TCPConn); ok {
		_ = tcpConn.CloseWrite()
		_ = tcpConn.CloseRead()
	}

	if err := c.conn.Close(); err != nil {
		c.logger.Debug("failed to close TCP connection", "error", err)
	}

	c.conn = nil
	c.state.Store(uint32(DisconnectedState))
	c.metrics.incDisconnectCount()

	c.logger.Debug("connection closed")
}
