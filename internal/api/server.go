// Package api holds the route collaborators mounted under /api and the
// shared helpers they use to write JSON and report errors.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Collaborator mounts a group of routes under a fixed path prefix.
type Collaborator struct {
	Prefix string
	Mount  func(r chi.Router)
}

// HandlerFunc is an HTTP handler that can fail. A returned error is rendered
// by RenderError.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts h to an http.HandlerFunc.
func Handle(logger *slog.Logger, h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			RenderError(w, r, logger, err)
		}
	}
}

// ─── Shared helpers ───────────────────────────────────────────────────────────

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"error": msg})
}

func requestAttrs(r *http.Request) []any {
	return []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	}
}
