// Package mcclient is the transaction engine of the MC protocol client.
//
// A Client validates read and write requests, splits oversized writes into frame-sized chunks,
// drives a Transport frame by frame, and applies the retry policy: every logical call runs up to
// maxRetry+1 attempts, reconnecting the transport before an attempt whenever it is not connected.
// One lock is held for the whole attempt loop, so exactly one transaction is in flight on the
// connection at any time and concurrent callers queue.
//
// Results follow a single integer contract, see Status: 0 is success, a positive value is the
// completion code reported by the PLC and -1 is a local failure (no response, socket fault, timeout
// or an unparsable response). Local failures never surface as Go errors; the error return of
// ExecuteRead and ExecuteWrite is reserved for usage errors and context cancellation.
//
// Example:
//
//	cfg, _ := mcconn.NewConnectionConfig("192.168.3.39", 5002)
//	client, _ := mcclient.Open(ctx, cfg)
//	defer client.Close()
//
//	values, status, err := client.ExecuteRead(ctx, mc.Device{Type: "D", Address: 1000}, 1)
package mcclient
