// Package api serves the HTTP surface of the sourcing pipeline: visual
// generation, provider listing, and project status polling.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/providers"
	"clipforge/internal/sourcing"
	"clipforge/internal/store"
)

// Generator runs visual sourcing for a project. Implemented by
// sourcing.Orchestrator.
type Generator interface {
	Generate(ctx context.Context, projectID string) (*sourcing.Outcome, error)
}

// Server is the HTTP API front end.
type Server struct {
	bind      string
	logger    *slog.Logger
	store     *store.Store
	generator Generator
	registry  *providers.Registry

	listener net.Listener
	server   *http.Server
}

// NewServer builds the API server. Returns nil when no bind address is
// configured, which disables the HTTP surface entirely.
func NewServer(cfg *config.Config, st *store.Store, generator Generator, registry *providers.Registry, logger *slog.Logger) *Server {
	if cfg == nil {
		return nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil
	}

	srv := &Server{
		bind:      bind,
		logger:    logger,
		store:     st,
		generator: generator,
		registry:  registry,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/projects/", srv.handleProjects)
	mux.HandleFunc("/api/providers", srv.handleProviders)
	mux.HandleFunc("/api/health", srv.handleHealth)

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler exposes the routing mux for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins serving in the background and shuts down when ctx ends.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr returns the bound listener address, or empty before Start.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message, code string) {
	s.writeJSON(w, status, ErrorResponse{Success: false, Error: message, Code: code})
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return logging.NewComponentLogger(s.logger, "api-server")
	}
	return logging.NewNop()
}
