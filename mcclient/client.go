package mcclient

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/arloliu/go-mcprotocol/internal/pool"
	"github.com/arloliu/go-mcprotocol/internal/util"
	"github.com/arloliu/go-mcprotocol/logger"
	"github.com/arloliu/go-mcprotocol/mc"
	"github.com/arloliu/go-mcprotocol/mcconn"
)

// Client executes batch reads and writes against one PLC over one Transport.
//
// All methods are safe for concurrent use; transactions are serialized on the transport.
type Client struct {
	mu        sync.Mutex // held for a whole attempt loop
	transport Transport
	cfg       *config
	logger    logger.Logger
	metrics   *ClientMetrics
}

// New creates a Client that drives transport. The transport is not connected by New; the first
// transaction connects it, or call Connect explicitly.
func New(transport Transport, opts ...Option) (*Client, error) {
	if transport == nil {
		return nil, ErrTransportNil
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return nil, err
		}
	}

	return &Client{
		transport: transport,
		cfg:       cfg,
		logger:    cfg.logger,
		metrics:   newClientMetrics(),
	}, nil
}

// Open creates a TCP connection from connCfg, connects it and returns a Client driving it.
//
// A failed connect is logged and not returned: the client reconnects before the first transaction.
func Open(ctx context.Context, connCfg *mcconn.ConnectionConfig, opts ...Option) (*Client, error) {
	conn, err := mcconn.NewConnection(connCfg)
	if err != nil {
		return nil, err
	}

	client, err := New(conn, opts...)
	if err != nil {
		return nil, err
	}

	if err := client.Connect(ctx); err != nil {
		client.logger.Warn("initial connect failed, will reconnect on demand", "error", err)
	}

	return client, nil
}

// GetLogger returns the logger associated with the client.
func (c *Client) GetLogger() logger.Logger {
	return c.logger
}

// GetMetrics returns the metrics associated with the client.
func (c *Client) GetMetrics() *ClientMetrics {
	return c.metrics
}

// FrameProfile returns the frame profile used to build requests.
func (c *Client) FrameProfile() mc.FrameProfile {
	return c.cfg.profile
}

// Connect connects the transport.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.transport.Connect(ctx)
}

// Reconnect drops and re-establishes the transport connection.
func (c *Client) Reconnect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.transport.Reconnect(ctx)
}

// IsConnected reports whether the transport is connected.
func (c *Client) IsConnected() bool {
	return c.transport.IsConnected()
}

// Close disconnects the transport. A later transaction reconnects it.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.transport.Disconnect()
}

// ExecuteRead reads size points starting at dev.
//
// Bit devices return one word per bit, valued 0 or 1. The returned error is non-nil only for
// usage errors (invalid device, size out of range) and context cancellation; PLC and transport
// failures are reported through the Status.
func (c *Client) ExecuteRead(ctx context.Context, dev mc.Device, size int) ([]mc.Word, Status, error) {
	sub := mc.SubCommandFor(dev.Type)
	if err := c.validateRead(dev, sub, size); err != nil {
		return nil, StatusLocalFailure, err
	}

	c.metrics.ReadCount.Add(1)

	c.mu.Lock()
	values, status, err := c.attemptLoop(ctx, "read", dev, size, func() ([]mc.Word, Status) {
		return c.read(dev, sub, size)
	})
	c.mu.Unlock()

	if err != nil {
		return nil, status, err
	}

	if !status.IsSuccess() {
		c.logger.Error("read PLC value failed", "device", dev.String(), "size", size, "status", int(status))
		return nil, status, nil
	}

	c.logger.Debug("read PLC value success", "device", dev.String(), "size", size, "values", values)

	if sub == mc.SubCmdWord {
		c.record(ctx, dev, values, size)
	}

	return values, status, nil
}

// ExecuteWrite writes values starting at dev.
//
// Values are split into frames of at most the per-frame point limit, each frame addressed at the
// start address plus the number of points already written. An attempt stops at the first frame the
// PLC rejects and the whole sequence is repeated by the next attempt. For bit devices any non-zero
// value sets the bit.
func (c *Client) ExecuteWrite(ctx context.Context, dev mc.Device, values []mc.Word) (Status, error) {
	sub := mc.SubCommandFor(dev.Type)
	if err := c.validateWrite(dev, values); err != nil {
		return StatusLocalFailure, err
	}

	c.metrics.WriteCount.Add(1)

	c.mu.Lock()
	_, status, err := c.attemptLoop(ctx, "write", dev, len(values), func() ([]mc.Word, Status) {
		return nil, c.write(dev, sub, values)
	})
	c.mu.Unlock()

	if err != nil {
		return status, err
	}

	if !status.IsSuccess() {
		c.logger.Error("write PLC value failed", "device", dev.String(), "size", len(values), "status", int(status))
		return status, nil
	}

	c.logger.Debug("write PLC value success", "device", dev.String(), "size", len(values))

	return status, nil
}

func (c *Client) validateRead(dev mc.Device, sub mc.SubCommand, size int) error {
	if err := dev.Validate(); err != nil {
		return err
	}

	if size <= 0 {
		return fmt.Errorf("%w: size %d", ErrInvalidSize, size)
	}

	if limit := mc.MaxPoints(sub); !c.cfg.chunkedRead && size > limit {
		return fmt.Errorf("%w: size %d exceeds %d %s points", ErrInvalidSize, size, limit, sub)
	}

	return dev.Offset(size - 1).Validate()
}

func (c *Client) validateWrite(dev mc.Device, values []mc.Word) error {
	if err := dev.Validate(); err != nil {
		return err
	}

	if len(values) == 0 {
		return ErrNoValues
	}

	return dev.Offset(len(values) - 1).Validate()
}

// attemptLoop runs attempt until it succeeds or the retry budget is spent, reconnecting the
// transport first whenever it is not connected. The caller holds c.mu.
func (c *Client) attemptLoop(ctx context.Context, op string, dev mc.Device, size int, attempt func() ([]mc.Word, Status)) ([]mc.Word, Status, error) {
	var values []mc.Word
	status := StatusLocalFailure

	for times := 0; times <= c.cfg.maxRetry && !status.IsSuccess(); times++ {
		if err := ctx.Err(); err != nil {
			return nil, StatusLocalFailure, err
		}

		if times > 0 {
			c.metrics.incRetryCount()
		}

		if !c.transport.IsConnected() {
			c.logger.Warn("connection is not established, reconnecting", "op", op, "device", dev.String())
			c.metrics.incReconnectCount()
			if err := c.transport.Reconnect(ctx); err != nil {
				c.logger.Debug("reconnect failed", "op", op, "error", err)
			}
		}

		values, status = attempt()

		switch {
		case status.IsDeviceError():
			c.metrics.incDeviceErr(int(status))
		case status.IsLocalFailure():
			c.metrics.incLocalErr()
		}

		if !status.IsSuccess() {
			c.logger.Warn("attempt failed",
				"op", op,
				"attempt", times+1,
				"device", dev.String(),
				"size", size,
				"status", int(status),
			)
		}
	}

	return values, status, nil
}

// read performs one read attempt. Without chunked reads the span list has a single entry.
func (c *Client) read(dev mc.Device, sub mc.SubCommand, size int) ([]mc.Word, Status) {
	spans := []util.Span{{Offset: 0, Count: size}}
	if c.cfg.chunkedRead {
		spans = util.SplitSpans(size, mc.MaxPoints(sub))
	}

	values := make([]mc.Word, 0, size)
	for i, span := range spans {
		frame, err := mc.BuildCommand(c.cfg.profile, mc.CmdBatchRead, sub, dev.Offset(span.Offset), span.Count, nil)
		if err != nil {
			c.logger.Error("failed to build read frame", "device", dev.String(), "error", err)
			return nil, StatusLocalFailure
		}

		resp, status := c.exchange(frame)
		if !status.IsSuccess() {
			return nil, status
		}

		words, err := mc.DecodePayload(sub, resp.Payload, span.Count)
		if err != nil {
			c.logger.Warn("invalid read payload", "device", dev.Offset(span.Offset).String(), "error", err)
			return nil, StatusLocalFailure
		}
		values = append(values, words...)

		if len(spans) > 1 {
			c.logger.Debug("read chunk done", "chunk", i+1, "chunks", len(spans), "device", dev.Offset(span.Offset).String(), "size", span.Count)
		}
	}

	return values, StatusSuccess
}

// write performs one write attempt, aborting on the first failing chunk.
func (c *Client) write(dev mc.Device, sub mc.SubCommand, values []mc.Word) Status {
	spans := util.SplitSpans(len(values), mc.MaxPoints(sub))

	for i, span := range spans {
		target := dev.Offset(span.Offset)
		frame, err := mc.BuildCommand(c.cfg.profile, mc.CmdBatchWrite, sub, target, span.Count, values[span.Offset:span.Offset+span.Count])
		if err != nil {
			c.logger.Error("failed to build write frame", "device", target.String(), "error", err)
			return StatusLocalFailure
		}

		if _, status := c.exchange(frame); !status.IsSuccess() {
			return status
		}

		if len(spans) > 1 {
			c.logger.Debug("write chunk done", "chunk", i+1, "chunks", len(spans), "device", target.String(), "size", span.Count)
		}
	}

	return StatusSuccess
}

// exchange sends one frame and receives its response. A response is read until it holds as many
// characters as its data length field announces or the buffer is full.
func (c *Client) exchange(frame string) (*mc.Response, Status) {
	c.metrics.incFrameCount()
	c.logger.Debug("send frame", "frame", frame)

	if err := c.transport.Send([]byte(frame)); err != nil {
		c.logger.Warn("failed to send frame", "error", err)
		return nil, StatusLocalFailure
	}

	bufPtr := pool.GetBuffer(c.cfg.receiveBufferSize)
	defer pool.PutBuffer(bufPtr)
	buf := *bufPtr

	n, err := c.transport.Receive(buf)
	if err != nil || n == 0 {
		c.logger.Warn("no response received", "error", err)
		return nil, StatusLocalFailure
	}

	for n < len(buf) {
		want, err := mc.FrameLength(buf[:n])
		if err != nil && !errors.Is(err, mc.ErrShortResponse) {
			break
		}
		if err == nil && n >= want {
			break
		}

		m, err := c.transport.Receive(buf[n:])
		if err != nil || m == 0 {
			c.logger.Warn("incomplete response", "received", n, "error", err)
			return nil, StatusLocalFailure
		}
		n += m
	}

	text := string(buf[:n])
	c.logger.Debug("receive frame", "frame", text)

	resp, err := mc.ParseResponse(text)
	if err != nil {
		c.logger.Warn("invalid response", "error", err)
		return nil, StatusLocalFailure
	}

	if !resp.OK() {
		return resp, Status(resp.Code)
	}

	return resp, StatusSuccess
}

// record hands a successful word read to the recorder. Failures never reach the caller.
func (c *Client) record(ctx context.Context, dev mc.Device, values []mc.Word, size int) {
	if c.cfg.recorder == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			c.metrics.incSinkErrCount()
			c.logger.Error("recorder panicked", "device", dev.String(), "panic", r)
		}
	}()

	if err := c.cfg.recorder.Record(ctx, dev.Type, util.CloneSlice(values, 0), size, dev.Address); err != nil {
		c.metrics.incSinkErrCount()
		c.logger.Warn("failed to record values", "device", dev.String(), "error", err)
	}
}
