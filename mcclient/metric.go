package mcclient

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// ClientMetrics contains atomic metrics for a client.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type ClientMetrics struct {
	// ReadCount indicates the number of ExecuteRead calls that passed validation.
	ReadCount atomic.Uint64
	// WriteCount indicates the number of ExecuteWrite calls that passed validation.
	WriteCount atomic.Uint64
	// FrameCount indicates the number of request frames sent.
	FrameCount atomic.Uint64
	// RetryCount indicates the number of attempts after the first one.
	RetryCount atomic.Uint64
	// ReconnectCount indicates the number of reconnects issued before an attempt.
	ReconnectCount atomic.Uint64
	// DeviceErrCount indicates the number of attempts that ended with a completion code.
	DeviceErrCount atomic.Uint64
	// LocalErrCount indicates the number of attempts that ended with a local failure.
	LocalErrCount atomic.Uint64
	// SinkErrCount indicates the number of failed recorder calls.
	SinkErrCount atomic.Uint64

	codes *xsync.MapOf[int, *atomic.Uint64]
}

func newClientMetrics() *ClientMetrics {
	return &ClientMetrics{codes: xsync.NewMapOf[int, *atomic.Uint64]()}
}

// CompletionCodeCount returns how many attempts ended with the given completion code.
func (m *ClientMetrics) CompletionCodeCount(code int) uint64 {
	if counter, ok := m.codes.Load(code); ok {
		return counter.Load()
	}

	return 0
}

// CompletionCodes returns a snapshot of the per completion code counters.
func (m *ClientMetrics) CompletionCodes() map[int]uint64 {
	out := make(map[int]uint64, m.codes.Size())
	m.codes.Range(func(code int, counter *atomic.Uint64) bool {
		out[code] = counter.Load()
		return true
	})

	return out
}

func (m *ClientMetrics) incDeviceErr(code int) {
	m.DeviceErrCount.Add(1)

	counter, _ := m.codes.LoadOrCompute(code, func() *atomic.Uint64 { return &atomic.Uint64{} })
	counter.Add(1)
}

func (m *ClientMetrics) incLocalErr() {
	m.LocalErrCount.Add(1)
}

func (m *ClientMetrics) incRetryCount() {
	m.RetryCount.Add(1)
}

func (m *ClientMetrics) incReconnectCount() {
	m.ReconnectCount.Add(1)
}

func (m *ClientMetrics) incFrameCount() {
	m.FrameCount.Add(1)
}

func (m *ClientMetrics) incSinkErrCount() {
	m.SinkErrCount.Add(1)
}
