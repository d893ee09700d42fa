package mcclient

import (
	"context"

	"github.com/arloliu/go-mcprotocol/mc"
)

// Recorder receives the values of every successful word read.
//
// Record is best effort: a returned error or a panic is logged by the Client and never affects the
// result of the read. The values slice is a copy owned by the recorder.
type Recorder interface {
	Record(ctx context.Context, deviceType string, values []mc.Word, size int, startAddress int) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, deviceType string, values []mc.Word, size int, startAddress int) error

// Record calls f.
func (f RecorderFunc) Record(ctx context.Context, deviceType string, values []mc.Word, size int, startAddress int) error {
	return f(ctx, deviceType, values, size, startAddress)
}
