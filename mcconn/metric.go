package mcconn

import (
	"sync/atomic"
)

// ConnectionMetrics contains atomic metrics for a connection.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type ConnectionMetrics struct {
	// ConnectCount indicates the number of successful connects.
	ConnectCount atomic.Uint64
	// ConnectErrCount indicates the number of failed connects.
	ConnectErrCount atomic.Uint64
	// DisconnectCount indicates the number of closed connections, local or remote.
	DisconnectCount atomic.Uint64

	// BytesSent indicates the number of bytes written to the PLC.
	BytesSent atomic.Uint64
	// BytesReceived indicates the number of bytes read from the PLC.
	BytesReceived atomic.Uint64
	// SendErrCount indicates the number of failed writes.
	SendErrCount atomic.Uint64
	// RecvErrCount indicates the number of failed reads, including timeouts and remote closes.
	RecvErrCount atomic.Uint64
}

func (m *ConnectionMetrics) incConnectCount() {
	m.ConnectCount.Add(1)
}

func (m *ConnectionMetrics) incConnectErrCount() {
	m.ConnectErrCount.Add(1)
}

func (m *ConnectionMetrics) incDisconnectCount() {
	m.DisconnectCount.Add(1)
}

func (m *ConnectionMetrics) addBytesSent(n int) {
	m.BytesSent.Add(uint64(n))
}

func (m *ConnectionMetrics) addBytesReceived(n int) {
	m.BytesReceived.Add(uint64(n))
}

func (m *ConnectionMetrics) incSendErrCount() {
	m.SendErrCount.Add(1)
}

func (m *ConnectionMetrics) incRecvErrCount() {
	m.RecvErrCount.Add(1)
}
