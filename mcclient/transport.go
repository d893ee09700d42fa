package mcclient

import (
	"context"

	"github.com/arloliu/go-mcprotocol/mcconn"
)

// Transport is the connection a Client drives. It owns the socket; the Client never sees it.
//
// Receive performs one read into buf and reports a failure when nothing was received.
type Transport interface {
	Connect(ctx context.Context) error
	Reconnect(ctx context.Context) error
	Disconnect()
	IsConnected() bool
	Send(frame []byte) error
	Receive(buf []byte) (int, error)
}

// ensure mcconn.Connection implements Transport.
var _ Transport = (*mcconn.Connection)(nil)
