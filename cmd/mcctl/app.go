package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arloliu/go-mcprotocol/logger"
	"github.com/arloliu/go-mcprotocol/mcclient"
	"github.com/arloliu/go-mcprotocol/mcconn"
	"github.com/arloliu/go-mcprotocol/sink"
	"github.com/arloliu/go-mcprotocol/sink/kafkasink"
	"github.com/arloliu/go-mcprotocol/sink/mqttsink"
	"github.com/arloliu/go-mcprotocol/sink/redissink"
)

// statusError reports a transaction that completed without success.
type statusError struct {
	status mcclient.Status
}

func (e *statusError) Error() string {
	return "transaction failed: " + e.status.String()
}

type app struct {
	configPath   string
	flagHost     string
	flagPort     int
	flagRetry    int
	flagLogLevel string

	cfg *Config
}

// init loads the config file and applies the flags the user set explicitly.
func (a *app) init(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host = a.flagHost
	}
	if flags.Changed("port") {
		cfg.Port = a.flagPort
	}
	if flags.Changed("retry") {
		cfg.MaxRetry = a.flagRetry
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.flagLogLevel
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLevel(level)

	a.cfg = cfg

	return nil
}

// openClient builds the client and its recorders. The returned closer releases both.
func (a *app) openClient(ctx context.Context) (*mcclient.Client, io.Closer, error) {
	connCfg, err := mcconn.NewConnectionConfig(a.cfg.Host, a.cfg.Port,
		mcconn.WithReceiveTimeout(a.cfg.receiveTimeout()),
		mcconn.WithSendTimeout(a.cfg.sendTimeout()),
		mcconn.WithConnectTimeout(a.cfg.connectTimeout()),
	)
	if err != nil {
		return nil, nil, err
	}

	recorder, sinks, err := buildRecorder(ctx, a.cfg.Sinks)
	if err != nil {
		return nil, nil, err
	}

	opts := []mcclient.Option{
		mcclient.WithMaxRetry(a.cfg.MaxRetry),
		mcclient.WithFrameProfile(a.cfg.Frame),
		mcclient.WithChunkedRead(a.cfg.ChunkedRead),
	}
	if recorder != nil {
		opts = append(opts, mcclient.WithRecorder(recorder))
	}

	client, err := mcclient.Open(ctx, connCfg, opts...)
	if err != nil {
		_ = sinks.Close()
		return nil, nil, err
	}

	return client, closerFunc(func() error {
		client.Close()
		return sinks.Close()
	}), nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

type closers []io.Closer

func (c closers) Close() error {
	var errs []error
	for _, cl := range c {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// buildRecorder connects the configured sinks. It returns a nil recorder when no sink is enabled.
func buildRecorder(ctx context.Context, cfg SinkConfig) (mcclient.Recorder, closers, error) {
	var (
		recorders []mcclient.Recorder
		opened    closers
	)

	fail := func(err error) (mcclient.Recorder, closers, error) {
		_ = opened.Close()
		return nil, nil, err
	}

	if cfg.Log {
		recorders = append(recorders, sink.NewRecorder(sink.NewLogSink(nil)))
	}

	if cfg.Redis != nil {
		s, err := redissink.New(ctx, *cfg.Redis)
		if err != nil {
			return fail(err)
		}
		opened = append(opened, s)
		recorders = append(recorders, sink.NewRecorder(s))
	}

	if cfg.Kafka != nil {
		s, err := kafkasink.New(*cfg.Kafka)
		if err != nil {
			return fail(err)
		}
		opened = append(opened, s)
		recorders = append(recorders, sink.NewRecorder(s))
	}

	if cfg.MQTT != nil {
		s, err := mqttsink.New(*cfg.MQTT)
		if err != nil {
			return fail(fmt.Errorf("mqtt sink: %w", err))
		}
		opened = append(opened, s)
		recorders = append(recorders, sink.NewRecorder(s))
	}

	switch len(recorders) {
	case 0:
		return nil, opened, nil
	case 1:
		return recorders[0], opened, nil
	default:
		return sink.Multi(recorders...), opened, nil
	}
}
