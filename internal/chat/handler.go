package chat

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/shaharia-lab/jobportal/internal/api"
)

// Handler upgrades /socket requests and serves the chat HTTP routes.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	allowed  map[string]struct{}
	logger   *slog.Logger
}

// NewHandler creates a handler that accepts websocket connections from the
// given browser origins.
func NewHandler(hub *Hub, allowedOrigins []string, logger *slog.Logger) *Handler {
	h := &Handler{
		hub:     hub,
		allowed: make(map[string]struct{}, len(allowedOrigins)),
		logger:  logger,
	}
	for _, o := range allowedOrigins {
		if n, ok := normalizeOrigin(o); ok {
			h.allowed[n] = struct{}{}
		}
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// ServeWS upgrades the request and hands the connection to the hub.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		h.logger.Debug("websocket upgrade failed", "addr", r.RemoteAddr, "error", err)
		return
	}

	c := newClient(conn, h.hub, r.RemoteAddr)
	if !h.hub.join(c) {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		_ = conn.Close()
	}
}

// Collaborator returns the routes mounted under /api/chat.
func (h *Handler) Collaborator() api.Collaborator {
	return api.Collaborator{Prefix: "/api/chat", Mount: h.Mount}
}

// Mount registers the chat HTTP routes on r.
func (h *Handler) Mount(r chi.Router) {
	r.Get("/rooms", h.handleListRooms)
	r.Get("/rooms/{room}", h.handleGetRoom)
	r.Post("/rooms/{room}/messages", api.Handle(h.logger, h.handlePostMessage))
}

func (h *Handler) handleListRooms(w http.ResponseWriter, _ *http.Request) {
	api.WriteJSON(w, http.StatusOK, map[string]any{"rooms": h.hub.Rooms()})
}

func (h *Handler) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	api.WriteJSON(w, http.StatusOK, h.hub.Room(chi.URLParam(r, "room")))
}

type postMessageRequest struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

func (h *Handler) handlePostMessage(w http.ResponseWriter, r *http.Request) error {
	var req postMessageRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		return api.BadRequest("invalid JSON body")
	}

	err := h.hub.Post(chi.URLParam(r, "room"), req.Sender, req.Text)
	switch {
	case errors.Is(err, ErrEmptyRoom), errors.Is(err, ErrEmptyText):
		return api.BadRequest(err.Error())
	case errors.Is(err, ErrHubClosed):
		return api.Unavailable("chat is shutting down")
	case err != nil:
		return err
	}

	api.WriteJSON(w, http.StatusAccepted, map[string]string{"message": "Message queued"})
	return nil
}

// checkOrigin allows requests without an Origin header (non-browser clients)
// and browser requests from the allow-list.
func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	n, ok := normalizeOrigin(origin)
	if ok {
		if _, allowed := h.allowed[n]; allowed {
			return true
		}
	}
	h.logger.Warn("websocket origin rejected", "origin", origin)
	return false
}

func normalizeOrigin(origin string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return strings.ToLower(u.Scheme) + "://" + strings.ToLower(u.Host), true
}
