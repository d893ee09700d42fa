// Package sink holds recorders for successful word reads.
//
// A read of n words is expanded into n entries, one per address, named by device type and
// address ("D1000", "D1001", ...). Backends in the sub-packages store entries in Redis, Kafka
// or MQTT; they all plug into a Client through mcclient.WithRecorder.
package sink

import (
	"context"
	"errors"
	"time"

	"github.com/arloliu/go-mcprotocol/logger"
	"github.com/arloliu/go-mcprotocol/mc"
	"github.com/arloliu/go-mcprotocol/mcclient"
)

// Entry is the value of one device address.
type Entry struct {
	// Name is the textual device reference, e.g. "D1000".
	Name string `json:"name"`
	// Device is the device type code.
	Device string `json:"device"`
	// Address is the device address.
	Address int `json:"address"`
	// Value is the raw word value.
	Value mc.Word `json:"value"`
	// Timestamp is the time the read completed.
	Timestamp time.Time `json:"timestamp"`
}

// Expand turns a read of size words starting at startAddress into one entry per address.
// Values beyond size are ignored, missing values end the expansion.
func Expand(deviceType string, values []mc.Word, size int, startAddress int, ts time.Time) []Entry {
	n := min(size, len(values))
	if n <= 0 {
		return nil
	}

	entries := make([]Entry, n)
	for i := range entries {
		dev := mc.Device{Type: deviceType, Address: startAddress + i}
		entries[i] = Entry{
			Name:      dev.String(),
			Device:    deviceType,
			Address:   dev.Address,
			Value:     values[i],
			Timestamp: ts,
		}
	}

	return entries
}

// EntryWriter stores expanded entries.
type EntryWriter interface {
	WriteEntries(ctx context.Context, entries []Entry) error
}

// EntryWriterFunc adapts a function to the EntryWriter interface.
type EntryWriterFunc func(ctx context.Context, entries []Entry) error

// WriteEntries calls f.
func (f EntryWriterFunc) WriteEntries(ctx context.Context, entries []Entry) error {
	return f(ctx, entries)
}

type entryRecorder struct {
	w   EntryWriter
	now func() time.Time
}

// NewRecorder returns a recorder that expands every read and hands the entries to w.
func NewRecorder(w EntryWriter) mcclient.Recorder {
	return &entryRecorder{w: w, now: time.Now}
}

func (r *entryRecorder) Record(ctx context.Context, deviceType string, values []mc.Word, size int, startAddress int) error {
	entries := Expand(deviceType, values, size, startAddress, r.now().UTC())
	if len(entries) == 0 {
		return nil
	}

	return r.w.WriteEntries(ctx, entries)
}

// LogSink writes every entry to a logger at info level.
type LogSink struct {
	logger logger.Logger
}

// NewLogSink creates a LogSink; a nil logger selects the package default logger.
func NewLogSink(l logger.Logger) *LogSink {
	if l == nil {
		l = logger.GetLogger()
	}

	return &LogSink{logger: l}
}

// WriteEntries logs the entries.
func (s *LogSink) WriteEntries(_ context.Context, entries []Entry) error {
	for _, e := range entries {
		s.logger.Info("plc value", "name", e.Name, "value", e.Value, "ts", e.Timestamp)
	}

	return nil
}

// Multi returns a recorder that calls every recorder in order. All recorders run even when one
// fails; the errors are joined.
func Multi(recorders ...mcclient.Recorder) mcclient.Recorder {
	return mcclient.RecorderFunc(func(ctx context.Context, deviceType string, values []mc.Word, size int, startAddress int) error {
		var errs []error
		for _, r := range recorders {
			if r == nil {
				continue
			}
			if err := r.Record(ctx, deviceType, values, size, startAddress); err != nil {
				errs = append(errs, err)
			}
		}

		return errors.Join(errs...)
	})
}
