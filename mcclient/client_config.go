package mcclient

import (
	"errors"

	"github.com/arloliu/go-mcprotocol/logger"
	"github.com/arloliu/go-mcprotocol/mc"
)

// config holds the transaction engine settings.
type config struct {
	// maxRetry is the number of attempts after the first one. It should be between 0 and 10.
	// Defaults to 1.
	maxRetry int

	// profile holds the constant frame header fields.
	// Defaults to mc.DefaultFrameProfile().
	profile mc.FrameProfile

	// recorder receives successful word reads. Defaults to nil, nothing is recorded.
	recorder Recorder

	// chunkedRead allows reads larger than the per-frame point limit, split into consecutive frames.
	// Defaults to false, oversized reads are rejected.
	chunkedRead bool

	// receiveBufferSize is the size of the response buffer. It should be between 64 and 65536 bytes.
	// Defaults to 4999.
	receiveBufferSize int

	logger logger.Logger
}

func defaultConfig() *config {
	return &config{
		maxRetry:          1,
		profile:           mc.DefaultFrameProfile(),
		receiveBufferSize: 4999,
		logger:            logger.GetLogger(),
	}
}

// Option represents a functional option for configuring a Client.
type Option interface {
	apply(*config) error
}

type optFunc struct {
	name      string
	applyFunc func(*config) error
}

func (o *optFunc) apply(cfg *config) error { return o.applyFunc(cfg) }

func newOptFunc(name string, f func(*config) error) *optFunc {
	return &optFunc{name: name, applyFunc: f}
}

// WithMaxRetry sets the number of attempts after the first failed one.
// An error is returned if the value is outside the valid range (0-10).
//
// The default value is 1, at most 2 attempts per call.
func WithMaxRetry(n int) Option {
	return newOptFunc("WithMaxRetry", func(cfg *config) error {
		if n < 0 || n > 10 {
			return errors.New("max retry out of range [0, 10]")
		}
		cfg.maxRetry = n

		return nil
	})
}

// WithFrameProfile sets the constant header fields of request frames.
//
// The default value is mc.DefaultFrameProfile().
func WithFrameProfile(p mc.FrameProfile) Option {
	return newOptFunc("WithFrameProfile", func(cfg *config) error {
		cfg.profile = p
		return nil
	})
}

// WithRecorder sets the recorder that receives every successful word read.
// A nil recorder disables recording.
func WithRecorder(r Recorder) Option {
	return newOptFunc("WithRecorder", func(cfg *config) error {
		cfg.recorder = r
		return nil
	})
}

// WithChunkedRead allows reads larger than the per-frame point limit. Such reads are split into
// consecutive frames within one attempt; the first failing frame fails the attempt.
//
// The default value is false.
func WithChunkedRead(val bool) Option {
	return newOptFunc("WithChunkedRead", func(cfg *config) error {
		cfg.chunkedRead = val
		return nil
	})
}

// WithReceiveBufferSize sets the response buffer size.
// An error is returned if the size is outside the valid range (64-65536 bytes).
//
// The default value is 4999 bytes, enough for the largest single-frame response.
func WithReceiveBufferSize(size int) Option {
	return newOptFunc("WithReceiveBufferSize", func(cfg *config) error {
		if size < 64 || size > 65536 {
			return errors.New("receive buffer size out of range [64, 65536]")
		}
		cfg.receiveBufferSize = size

		return nil
	})
}

// WithLogger sets the logger of the client.
//
// The default value is the package default logger, see logger.GetLogger.
func WithLogger(l logger.Logger) Option {
	return newOptFunc("WithLogger", func(cfg *config) error {
		if l == nil {
			return errors.New("logger is nil")
		}
		cfg.logger = l

		return nil
	})
}
