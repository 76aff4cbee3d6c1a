// Package control exposes a transmitter over a line-based TCP protocol:
// clients send, replace and stop transmissions and query their status.
package control

import (
	"context"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Handler serves one accepted client. ctx is the server's context; a
// handler should return soon after it is canceled.
type Handler interface {
	Handle(ctx context.Context, conn net.Conn)
}

// Server accepts control clients and owns their connections until their
// handlers return.
type Server struct {
	listener        *net.TCPListener
	logger          Logger
	shutdownTimeout time.Duration

	mu     sync.Mutex
	conns  map[net.Conn]struct{}
	closed bool

	handlers     sync.WaitGroup
	closeNow     chan struct{} // closed by Close, skips the drain timeout
	closeOnce    sync.Once
	listenerOnce sync.Once
	listenerErr  error
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// ServerLoggerOption sets the logger for the server.
func ServerLoggerOption(logger Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// ServerShutdownTimeoutOption sets how long connected clients may keep
// running after the serve context ends. Connections still open afterwards
// are closed. Zero closes them at once; Close skips the wait.
func ServerShutdownTimeoutOption(timeout time.Duration) ServerOption {
	return func(s *Server) {
		s.shutdownTimeout = timeout
	}
}

// New binds a server to addr.
func New(addr *net.TCPAddr, opts ...ServerOption) (*Server, error) {
	listener, err := net.ListenTCP(addr.Network(), addr)
	if err != nil {
		return nil, errors.Wrapf(err, "control: listen %s", addr)
	}

	s := &Server{
		listener: listener,
		logger:   slog.Default(),
		conns:    make(map[net.Conn]struct{}),
		closeNow: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Listen resolves a host:port address and binds a server to it.
func Listen(addr string, opts ...ServerOption) (*Server, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "control: resolve %s", addr)
	}
	return New(tcpAddr, opts...)
}

// Serve accepts clients and hands each to handler on its own goroutine.
// It blocks until ctx is canceled, Close is called or accepting fails, and
// returns only after every handler has returned.
func (s *Server) Serve(ctx context.Context, handler Handler) error {
	s.logger.Info("control server started", "addr", s.Addr())

	stop := make(chan struct{})
	defer close(stop)

	go func() {
		select {
		case <-ctx.Done():
		case <-s.closeNow:
		case <-stop:
			return
		}
		// unblock Accept
		_ = s.listener.SetDeadline(time.Now())
	}()

	var err error
	for {
		conn, aerr := s.listener.AcceptTCP()
		if aerr != nil {
			if ctx.Err() != nil || s.isClosed() {
				err = ctx.Err()
				break
			}

			var netErr net.Error
			if errors.As(aerr, &netErr) && netErr.Timeout() {
				continue
			}
			s.logger.Error("accept error", "error", aerr)
			err = aerr
			break
		}

		if !s.track(conn) {
			conn.Close()
			continue
		}

		s.logger.Debug("accepted control client", "remote_addr", conn.RemoteAddr())
		_ = conn.SetNoDelay(true)

		s.handlers.Add(1)
		go func() {
			defer s.handlers.Done()
			defer s.untrack(conn)
			handler.Handle(ctx, conn)
		}()
	}

	_ = s.closeListener()
	s.drain()

	s.logger.Info("control server stopped", "addr", s.Addr())
	return err
}

// drain waits for handlers to return, closing their connections once the
// shutdown timeout expires or Close is called.
func (s *Server) drain() {
	done := make(chan struct{})
	go func() {
		s.handlers.Wait()
		close(done)
	}()

	if n := s.clients(); n > 0 && s.shutdownTimeout > 0 {
		s.logger.Info("draining control clients", "clients", n, "timeout", s.shutdownTimeout)

		timer := time.NewTimer(s.shutdownTimeout)
		defer timer.Stop()

		select {
		case <-done:
			return
		case <-timer.C:
		case <-s.closeNow:
			s.logger.Debug("shutdown timeout bypassed via Close()")
		}
	}

	if n := s.closeConns(); n > 0 {
		s.logger.Info("closed lingering control clients", "clients", n)
	}
	<-done
}

// Close stops the server and disconnects every client immediately.
func (s *Server) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.closeOnce.Do(func() { close(s.closeNow) })

	err := s.closeListener()
	s.closeConns()
	return err
}

// Addr returns the listener's network address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) closeListener() error {
	s.listenerOnce.Do(func() {
		s.listenerErr = s.listener.Close()
	})
	return s.listenerErr
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// track registers conn; it reports false once the server is closed.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.conns[conn] = struct{}{}
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

func (s *Server) clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

func (s *Server) closeConns() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.conns {
		_ = conn.Close()
	}
	return len(s.conns)
}
