// Package dashboard serves the goal-tracking panel: an embedded page
// plus the JSON API the filter, chart and analysis panels consume.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"painelmetas/internal/analysis"
	"painelmetas/internal/audit"
	"painelmetas/internal/goalstore"
	"painelmetas/internal/workspace"
)

// Config holds server configuration.
type Config struct {
	Addr            string
	Workspace       *workspace.Workspace
	Store           *goalstore.Store
	Generator       analysis.Generator
	AuditLogger     *audit.Logger
	ShutdownTimeout time.Duration
}

// Server is the long-running dashboard process.
type Server struct {
	addr            string
	workspace       *workspace.Workspace
	handlers        *Handlers
	auditLogger     *audit.Logger
	shutdownTimeout time.Duration
}

// New creates a dashboard server over an already-normalized registry.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("goal registry is required")
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Generator == nil {
		cfg.Generator = &analysis.MockGenerator{}
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	if cfg.AuditLogger == nil && cfg.Workspace != nil {
		cfg.AuditLogger = audit.NewLogger(cfg.Workspace.AuditDBPath)
	}

	return &Server{
		addr:            cfg.Addr,
		workspace:       cfg.Workspace,
		handlers:        NewHandlers(cfg.Store, cfg.Generator, cfg.AuditLogger),
		auditLogger:     cfg.AuditLogger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}

// Router assembles the chi route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/", s.handlers.IndexPage)
	r.Get("/healthz", s.handlers.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalogo", s.handlers.Catalog)
		r.Get("/metas", s.handlers.ListGoals)
		r.Get("/metas/{id}", s.handlers.GetGoal)
		r.Get("/resumo", s.handlers.Summary)
		r.Post("/analise", s.handlers.Analyze)
	})

	return r
}

// Run starts the HTTP server and blocks until the context is canceled
// or an interrupt arrives, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	httpServer := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
	}

	if s.auditLogger != nil {
		payload := map[string]any{"addr": s.addr}
		if s.workspace != nil {
			payload["workspace"] = s.workspace.Root
		}
		if err := s.auditLogger.LogEvent("painelmetas", audit.EventServeStart, payload); err != nil {
			fmt.Fprintf(os.Stderr, "audit log failed: %v\n", err)
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
