package api

import (
	"context"
	"net/http"
	"time"

	"github.com/salonops/repeat-insight/internal/archive"
	"github.com/salonops/repeat-insight/internal/config"
	"github.com/salonops/repeat-insight/internal/report"
	"github.com/salonops/repeat-insight/internal/session"
)

// Server represents the API server
type Server struct {
	config   config.ServerConfig
	handler  http.Handler
	handlers *Handlers
	server   *http.Server
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, store session.Store, arch *archive.Archive, reports *report.Generator) *Server {
	handlers := NewHandlers(cfg, store, arch, reports)
	router := SetupRoutes(handlers)

	return &Server{
		config:   cfg.Server,
		handler:  router,
		handlers: handlers,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.handler,
		// Uploads can carry many months of reservation exports at once, so
		// the read and write timeouts stay generous.
		ReadTimeout:       5 * time.Minute,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing
func (s *Server) Handler() http.Handler {
	return s.handler
}
