package server

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"mailroom/contract"
)

// Ensure *Server implements the worker contract at compile time so it can
// run under the supervisor like any other background worker.
var _ contract.Worker = (*Server)(nil)

// Server accepts TCP connections and hands each one to a ConnectionHandler
// goroutine. Admission is bounded by a fixed-capacity slot pool: when every
// slot is taken, the accept loop blocks until one frees, which is the
// system's only back-pressure on misbehaving clients.
type Server struct {
	addr         string
	dispatcher   *CommandDispatcher
	log          *slog.Logger
	slots        chan struct{}
	drainTimeout time.Duration
	handlers     sync.WaitGroup
}

func NewServer(addr string, maxClients int, drainTimeout time.Duration, dispatcher *CommandDispatcher, log *slog.Logger) *Server {
	return &Server{
		addr:         addr,
		dispatcher:   dispatcher,
		log:          log,
		slots:        make(chan struct{}, maxClients),
		drainTimeout: drainTimeout,
	}
}

// Run binds the listening socket and serves until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.log.Info("Mail server listening", "addr", listener.Addr().String())
	return s.Serve(ctx, listener)
}

// Serve accepts connections on an existing listener. Split from Run so tests
// can bind an ephemeral port themselves and learn its address.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	// Closing the listener is the only way to unblock Accept on shutdown.
	go func() {
		<-ctx.Done()
		_ = listener.Close()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || stderrors.Is(err, net.ErrClosed) {
				s.drain()
				return nil
			}
			s.log.Warn("Accept failed", "error", err)
			continue
		}

		// Blocks when the pool is full: the connection stays accepted but
		// unserved until a slot frees, and further accepts wait behind it.
		// Cancellation must still win here, or a full pool would pin the
		// loop past listener close and skip the drain.
		select {
		case s.slots <- struct{}{}:
		case <-ctx.Done():
			_ = conn.Close()
			s.drain()
			return nil
		}

		s.handlers.Add(1)
		go func(c net.Conn) {
			defer s.handlers.Done()
			defer func() { <-s.slots }()
			NewConnectionHandler(c, s.dispatcher, s.log).Run()
		}(conn)
	}
}

// ActiveConnections reports how many pool slots are currently in use.
func (s *Server) ActiveConnections() int {
	return len(s.slots)
}

// PoolCapacity reports the fixed size of the connection pool.
func (s *Server) PoolCapacity() int {
	return cap(s.slots)
}

// drain waits briefly for connection handlers to finish. Handlers blocked on
// idle clients will not finish; after the timeout the process moves on to the
// shutdown snapshot, which the store locks keep consistent regardless.
func (s *Server) drain() {
	done := make(chan struct{})
	go func() {
		s.handlers.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("All connection handlers finished")
	case <-time.After(s.drainTimeout):
		s.log.Warn("Drain timeout reached, abandoning open connections")
	}
}
