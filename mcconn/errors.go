package mcconn

import "errors"

var (
	// ErrConnConfigNil indicates that a nil ConnectionConfig was provided.
	ErrConnConfigNil = errors.New("connection config is nil")

	// ErrNotConnected indicates an I/O call on a connection that is not connected.
	ErrNotConnected = errors.New("connection is not connected")

	// ErrConnClosed indicates that the remote closed the connection.
	ErrConnClosed = errors.New("connection closed by remote")
)
