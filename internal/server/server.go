// Package server assembles the HTTP application: middleware, health routes,
// API collaborators and the chat socket, all on one listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shaharia-lab/jobportal/internal/api"
	"github.com/shaharia-lab/jobportal/internal/database"
	"github.com/shaharia-lab/jobportal/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// DatabaseStatus reports the connection state. database.Supervisor satisfies it.
type DatabaseStatus interface {
	State() database.State
}

// Config holds everything the server is built from.
type Config struct {
	Addr           string
	AllowedOrigins []string
	Collaborators  []api.Collaborator
	// Socket serves the chat websocket on /socket. Optional.
	Socket   http.HandlerFunc
	Database DatabaseStatus
	Logger   *slog.Logger
}

// Server is the HTTP server for the job portal.
type Server struct {
	logger     *slog.Logger
	db         DatabaseStatus
	httpServer *http.Server
}

// New builds the router. Nothing is bound until Run.
func New(cfg Config) *Server {
	s := &Server{
		logger: cfg.Logger,
		db:     cfg.Database,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		api.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
	})

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/health/database", s.handleDatabaseHealth)
	r.Get("/", s.handleRoot)
	r.Handle("/metrics", metrics.Handler())

	for _, c := range cfg.Collaborators {
		r.Route(c.Prefix, c.Mount)
	}
	if cfg.Socket != nil {
		r.Get("/socket", cfg.Socket)
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run binds the listener and serves until ctx is canceled. A bind failure is
// returned immediately.
func (s *Server) Run(ctx context.Context) error {
	lc := &net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on an already bound listener until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("server listening", "addr", ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down server")
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// handleHealth answers regardless of database state.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Server is running smoothly!"})
}

func (s *Server) handleDatabaseHealth(w http.ResponseWriter, _ *http.Request) {
	state := database.StatePending
	if s.db != nil {
		state = s.db.State()
	}
	status := http.StatusOK
	if state != database.StateConnected {
		status = http.StatusServiceUnavailable
	}
	api.WriteJSON(w, status, map[string]string{"state": string(state)})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the Job Portal Backend API"})
}
