package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"log/slog"
)

// Server wraps the stdlib http.Server with the timeouts appropriate for
// a small JSON API and logging of the lifecycle transitions.
type Server struct {
	httpSrv *http.Server
	logger  *slog.Logger
}

func New(addr string, handler http.Handler, logger *slog.Logger) *Server {
	return &Server{
		httpSrv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: logger,
	}
}

// Start blocks until the listener fails or Shutdown is called. A clean
// shutdown is not reported as an error.
func (s *Server) Start() error {
	s.logger.Info("taskforge API listening", "addr", s.httpSrv.Addr)
	if err := s.httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("taskforge API shutting down")
	return s.httpSrv.Shutdown(ctx)
}
