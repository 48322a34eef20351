package notification

import (
	"context"
	"log/slog"

	"github.com/shaharia-lab/jobportal/internal/eventbus"
)

// DecisionHandler turns hiring decision events into emails.
type DecisionHandler struct {
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewDecisionHandler creates a new DecisionHandler.
func NewDecisionHandler(d *Dispatcher, logger *slog.Logger) *DecisionHandler {
	return &DecisionHandler{dispatcher: d, logger: logger}
}

// kindForEvent maps a decision event type to the notification it triggers.
func kindForEvent(eventType string) (Kind, bool) {
	switch eventType {
	case eventbus.EventApplicationAccepted:
		return KindAcceptance, true
	case eventbus.EventApplicationRejected:
		return KindRejection, true
	}
	return "", false
}

// Handle renders and dispatches the email for a decision event. Other event
// types are ignored. The outcome is only logged.
func (h *DecisionHandler) Handle(e eventbus.Event) {
	kind, ok := kindForEvent(e.Type)
	if !ok {
		return
	}

	req, err := Render(kind,
		e.Payload[eventbus.KeyCandidateEmail],
		e.Payload[eventbus.KeyJobTitle],
		e.Payload[eventbus.KeyHRName],
		e.Payload[eventbus.KeyHREmail],
	)
	if err != nil {
		h.logger.Warn("notification not rendered", "event", e.Type, "error", err)
		return
	}

	_ = h.dispatcher.Dispatch(context.Background(), req)
}
