// Package mcsim is an in-memory PLC speaking MC protocol 3E ASCII frames over TCP.
//
// It answers batch read and batch write commands from a sparse device memory and is meant for
// end-to-end tests and for the `mcctl sim` command.
package mcsim

import (
	"context"
	"errors"
	"net"
	"sync"

	"github.com/arloliu/go-mcprotocol/logger"
	"github.com/arloliu/go-mcprotocol/mc"
	"github.com/puzpuzpuz/xsync/v3"
)

// Completion codes returned by the simulator.
const (
	CodePointsOutOfRange  uint16 = 0xC051
	CodeAddressOutOfRange uint16 = 0xC056
	CodeUnsupported       uint16 = 0xC059
	CodeMalformed         uint16 = 0xC05C
)

// FaultFunc decides the completion code for a request. Returning 0 lets the request execute.
type FaultFunc func(req *mc.Request) uint16

type memKey struct {
	typeCode string
	address  int
}

// Server is a simulated PLC.
type Server struct {
	profile mc.FrameProfile
	logger  logger.Logger

	memory *xsync.MapOf[memKey, mc.Word]

	mu       sync.Mutex
	listener net.Listener
	conns    map[net.Conn]struct{}
	requests []*mc.Request
	fault    FaultFunc

	wg sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithFrameProfile sets the profile used for responses. The default is mc.DefaultFrameProfile().
func WithFrameProfile(p mc.FrameProfile) Option {
	return func(s *Server) { s.profile = p }
}

// WithLogger sets the logger of the server.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a stopped Server with empty memory.
func New(opts ...Option) *Server {
	s := &Server{
		profile: mc.DefaultFrameProfile(),
		logger:  logger.GetLogger(),
		memory:  xsync.NewMapOf[memKey, mc.Word](),
		conns:   make(map[net.Conn]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start listens on addr, e.g. "127.0.0.1:0", and serves connections in the background until Close.
func (s *Server) Start(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("simulator listening", "addr", ln.Addr().String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.acceptLoop(ln)
	}()

	return nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}

	return s.listener.Addr()
}

// Close stops listening, closes every client connection and waits for the handlers to exit.
func (s *Server) Close() error {
	s.mu.Lock()
	var err error
	if s.listener != nil {
		err = s.listener.Close()
		s.listener = nil
	}
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.wg.Wait()

	if errors.Is(err, net.ErrClosed) {
		return nil
	}

	return err
}

// DropConnections closes every client connection while the server keeps listening.
func (s *Server) DropConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.conns {
		_ = conn.Close()
	}
}

// SetFault installs f; nil removes it.
func (s *Server) SetFault(f FaultFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fault = f
}

// Set stores values at consecutive addresses starting at dev. Bit devices store 0 or 1.
func (s *Server) Set(dev mc.Device, values ...mc.Word) {
	bit := dev.IsBit()
	for i, v := range values {
		if bit && v != 0 {
			v = 1
		}
		s.memory.Store(memKey{typeCode: dev.Type, address: dev.Address + i}, v)
	}
}

// Get returns n values starting at dev; unset addresses read as 0.
func (s *Server) Get(dev mc.Device, n int) []mc.Word {
	values := make([]mc.Word, n)
	for i := range values {
		values[i], _ = s.memory.Load(memKey{typeCode: dev.Type, address: dev.Address + i})
	}

	return values
}

// Requests returns the requests received so far, oldest first.
func (s *Server) Requests() []*mc.Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*mc.Request(nil), s.requests...)
}

func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if !errors.Is(err, net.ErrClosed) {
				s.logger.Warn("simulator accept failed", "error", err)
			}
			return
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.logger.Debug("simulator accepted connection", "remote_addr", conn.RemoteAddr().String())

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.serveConn(conn)
		}()
	}
}

func (s *Server) serveConn(conn net.Conn) {
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
	}()

	buf := make([]byte, 8192)
	var pending []byte

	for {
		n, err := conn.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
		}
		if err != nil {
			s.logger.Debug("simulator connection closed", "remote_addr", conn.RemoteAddr().String(), "error", err)
			return
		}

		for len(pending) >= mc.HeaderLength {
			total, err := mc.FrameLength(pending)
			if err != nil {
				// unframeable input, answer once and drop it
				pending = pending[:0]
				if !s.reply(conn, CodeMalformed, "") {
					return
				}

				break
			}
			if len(pending) < total {
				break
			}

			frame := string(pending[:total])
			pending = pending[total:]

			code, payload := s.handle(frame)
			if !s.reply(conn, code, payload) {
				return
			}
		}
	}
}

func (s *Server) reply(conn net.Conn, code uint16, payload string) bool {
	resp := mc.BuildResponse(s.profile, code, payload)
	if _, err := conn.Write([]byte(resp)); err != nil {
		s.logger.Debug("simulator write failed", "error", err)
		return false
	}

	return true
}

func (s *Server) handle(frame string) (uint16, string) {
	req, err := mc.ParseRequest(frame)
	if err != nil {
		s.logger.Debug("simulator rejected frame", "frame", frame, "error", err)
		return CodeMalformed, ""
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	fault := s.fault
	s.mu.Unlock()

	if fault != nil {
		if code := fault(req); code != 0 {
			return code, ""
		}
	}

	if req.Points > mc.MaxPoints(req.SubCommand) {
		return CodePointsOutOfRange, ""
	}
	if err := req.Device.Offset(req.Points - 1).Validate(); err != nil {
		return CodeAddressOutOfRange, ""
	}

	switch req.Command {
	case mc.CmdBatchRead:
		values := s.Get(req.Device, req.Points)
		if req.SubCommand == mc.SubCmdBit {
			return 0, mc.EncodeBits(values)
		}

		return 0, mc.EncodeWords(values)

	case mc.CmdBatchWrite:
		values, err := req.Values()
		if err != nil {
			return CodeMalformed, ""
		}
		s.Set(req.Device, values...)

		return 0, ""

	default:
		return CodeUnsupported, ""
	}
}
