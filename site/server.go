package site

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ZaguanLabs/lingoseo/logging"
)

// Server is an HTTP server with an explicit start and shutdown, used both
// by serve and as the prerender's temporary instance.
type Server struct {
	httpServer *http.Server
	logger     logging.Logger

	mu       sync.Mutex
	listener net.Listener
	done     chan struct{}
	serveErr error
}

// NewServer creates a server for handler on addr. Port 0 picks a free port.
func NewServer(addr string, handler http.Handler, logger logging.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logging.OrNoOp(logger),
	}
}

// Start listens and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return errors.New("server already started")
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}
	s.listener = ln
	s.done = make(chan struct{})

	s.logger.Info("server started", "addr", ln.Addr().String())
	go func() {
		err := s.httpServer.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			s.logger.Error("server error", "error", err)
		}
		s.serveErr = err
		close(s.done)
	}()
	return nil
}

// URL returns the base URL of the listening server, or "" before Start.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	addr := s.listener.Addr().(*net.TCPAddr)
	host := addr.IP.String()
	if addr.IP.IsUnspecified() {
		host = "127.0.0.1"
	}
	return "http://" + net.JoinHostPort(host, fmt.Sprint(addr.Port))
}

// Wait blocks until the server stops.
func (s *Server) Wait() error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	<-done
	return s.serveErr
}

// Shutdown stops the server gracefully. It is safe to call more than once
// and before Start.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	started := s.listener != nil
	s.mu.Unlock()
	if !started {
		return nil
	}
	err := s.httpServer.Shutdown(ctx)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	s.logger.Info("server stopped")
	return err
}
