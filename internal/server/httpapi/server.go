// Package httpapi exposes the auth service over HTTP. Handlers are thin
// glue: they decode JSON, call the service and map sentinel errors to
// status codes.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/kartyapp/authcore/internal/logging"
	"github.com/kartyapp/authcore/internal/server/services"
)

// Server hosts the HTTP endpoints of the auth service.
type Server struct {
	address string
	auth    *services.AuthService
	logger  logging.Logger
}

// NewServer constructs a Server bound to the given address.
func NewServer(address string, auth *services.AuthService, logger logging.Logger) *Server {
	return &Server{
		address: address,
		auth:    auth,
		logger:  logger.With("module", "http_server"),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)
	mux.HandleFunc("GET /auth/me", s.requireAuth(s.handleMe))
	mux.HandleFunc("POST /auth/logout", s.requireAuth(s.handleLogout))
	mux.HandleFunc("POST /auth/password-reset/request", s.handleResetRequest)
	mux.HandleFunc("POST /auth/password-reset/confirm", s.handleResetConfirm)
	mux.HandleFunc("GET /ping", s.handlePing)

	return mux
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
