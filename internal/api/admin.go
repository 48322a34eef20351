package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shaharia-lab/jobportal/internal/database"
	"github.com/shaharia-lab/jobportal/internal/service"
)

// AdminRoutes serves operational endpoints under /api/admin.
type AdminRoutes struct {
	notifications service.NotificationService
	logger        *slog.Logger
}

// NewAdminRoutes creates the admin collaborator.
func NewAdminRoutes(notifications service.NotificationService, logger *slog.Logger) *AdminRoutes {
	return &AdminRoutes{notifications: notifications, logger: logger}
}

// Collaborator returns the routes mounted under /api/admin.
func (a *AdminRoutes) Collaborator() Collaborator {
	return Collaborator{Prefix: "/api/admin", Mount: a.Mount}
}

// Mount registers the admin routes on r.
func (a *AdminRoutes) Mount(r chi.Router) {
	r.Get("/notifications", Handle(a.logger, a.handleListNotifications))
}

// handleListNotifications returns recent email delivery log entries.
// Accepts an optional ?limit=N query parameter (default 50).
func (a *AdminRoutes) handleListNotifications(w http.ResponseWriter, r *http.Request) error {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	entries, err := a.notifications.ListLog(r.Context(), limit)
	if errors.Is(err, database.ErrNotConnected) {
		return Unavailable("database not connected")
	}
	if err != nil {
		return err
	}
	WriteJSON(w, http.StatusOK, entries)
	return nil
}
