// Package mcconn manages the single TCP connection between an MC protocol client and a PLC.
//
// A Connection owns exactly one socket. It dials with linger disabled, applies a fixed receive
// timeout to every read, and drops back to the disconnected state when the peer closes the stream,
// a read times out or any other socket fault occurs. Reconnecting is always explicit: the
// transaction engine in package mcclient calls Reconnect before an attempt when IsConnected
// reports false.
//
// Connection Establishment:
//   - Create a ConnectionConfig with `NewConnectionConfig(host, port, opts...)`.
//   - Create the connection with `NewConnection(cfg)` and call `Connect(ctx)`.
//
// Data Exchange:
//   - `Send(frame)` writes the whole frame, `Receive(buf)` performs one read bounded by the receive timeout.
//
// A Connection is safe for concurrent use, but the MC protocol is strictly request/response, so callers
// serialize transactions themselves. The Client in package mcclient does that with a single lock.
package mcconn
