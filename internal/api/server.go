package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Server runs the side surface in the background for the duration of a run.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
	done   chan struct{}
}

func NewServer(addr string, h http.Handler, logger *zap.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start binds the listener synchronously, so an unusable address is
// reported before the run begins, and serves in a goroutine.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.logger.Info("metrics server starting", zap.String("addr", ln.Addr().String()))

	go func() {
		defer close(s.done)
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server error", zap.Error(err))
		}
	}()
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(timeout time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error("metrics server shutdown error", zap.Error(err))
	}
	<-s.done
}
