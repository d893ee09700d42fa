package mcclient

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/arloliu/go-mcprotocol/mc"
	"github.com/stretchr/testify/require"
)

var errFakeIO = errors.New("fake i/o failure")

// fakeTransport answers every sent frame with handler's response. A handler error is reported by
// the next Receive and drops the connection, the way a socket fault does.
type fakeTransport struct {
	mu sync.Mutex

	connected      bool
	connectFails   bool
	connectCalls   int
	reconnectCalls int
	disconnects    int

	// maxRead limits the bytes returned by one Receive, 0 means unlimited.
	maxRead int

	handler func(frame string) (string, error)
	frames  []string
	pending []byte
	recvErr error

	inflight   bool
	overlapped bool
}

func newFakeTransport(handler func(frame string) (string, error)) *fakeTransport {
	return &fakeTransport{connected: true, handler: handler}
}

func (f *fakeTransport) Connect(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.connectCalls++
	if f.connectFails {
		return errFakeIO
	}
	f.connected = true

	return nil
}

func (f *fakeTransport) Reconnect(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reconnectCalls++
	if f.connectFails {
		f.connected = false
		return errFakeIO
	}
	f.connected = true

	return nil
}

func (f *fakeTransport) Disconnect() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.disconnects++
	f.connected = false
}

func (f *fakeTransport) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.connected
}

func (f *fakeTransport) Send(frame []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.connected {
		return errFakeIO
	}
	if f.inflight {
		f.overlapped = true
	}
	f.inflight = true

	f.frames = append(f.frames, string(frame))
	resp, err := f.handler(string(frame))
	if err != nil {
		f.recvErr = err
		return nil
	}
	f.pending = []byte(resp)

	return nil
}

func (f *fakeTransport) Receive(buf []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.recvErr != nil {
		err := f.recvErr
		f.recvErr = nil
		f.connected = false
		f.inflight = false

		return 0, err
	}

	limit := len(buf)
	if f.maxRead > 0 && f.maxRead < limit {
		limit = f.maxRead
	}

	n := copy(buf[:limit], f.pending)
	f.pending = f.pending[n:]
	if len(f.pending) == 0 {
		f.inflight = false
	}
	if n == 0 {
		f.connected = false
		return 0, io.EOF
	}

	return n, nil
}

func (f *fakeTransport) sentFrames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.frames...)
}

func (f *fakeTransport) reconnects() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.reconnectCalls
}

// okHandler answers reads with consecutive word values starting at 1, or bit values alternating
// 1 and 0, and every write with success.
func okHandler(t *testing.T) func(frame string) (string, error) {
	t.Helper()

	return func(frame string) (string, error) {
		req, err := mc.ParseRequest(frame)
		require.NoError(t, err)

		if req.Command != mc.CmdBatchRead {
			return mc.BuildResponse(mc.DefaultFrameProfile(), 0, ""), nil
		}

		values := make([]mc.Word, req.Points)
		for i := range values {
			if req.SubCommand == mc.SubCmdBit {
				values[i] = mc.Word((i + 1) % 2)
			} else {
				values[i] = mc.Word(i + 1)
			}
		}

		payload := mc.EncodeWords(values)
		if req.SubCommand == mc.SubCmdBit {
			payload = mc.EncodeBits(values)
		}

		return mc.BuildResponse(mc.DefaultFrameProfile(), 0, payload), nil
	}
}

// failOnce wraps handler so that the first frame hits a transport failure.
func failOnce(handler func(frame string) (string, error)) func(frame string) (string, error) {
	failed := false
	return func(frame string) (string, error) {
		if !failed {
			failed = true
			return "", errFakeIO
		}

		return handler(frame)
	}
}

func codeHandler(code uint16) func(frame string) (string, error) {
	return func(string) (string, error) {
		return mc.BuildResponse(mc.DefaultFrameProfile(), code, ""), nil
	}
}
