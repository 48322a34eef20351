package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaharia-lab/jobportal/internal/metrics"
	"github.com/shaharia-lab/jobportal/internal/storage"
)

// DefaultSendTimeout bounds one delivery attempt when no timeout is configured.
const DefaultSendTimeout = 30 * time.Second

// Outcome is the result of a single delivery attempt. It exists for logging
// and tests; business logic must not branch on it.
type Outcome struct {
	Delivered bool
	MessageID string
	Err       error
}

// DispatcherConfig holds the dispatcher's collaborators.
type DispatcherConfig struct {
	Transport Transport
	// Store is optional. When set, each outcome is appended to the delivery log.
	Store       storage.NotificationStore
	Logger      *slog.Logger
	SendTimeout time.Duration
}

// Dispatcher delivers rendered notifications. Each request gets at most one
// attempt; failures are logged and returned as an Outcome, never as an error
// or panic.
type Dispatcher struct {
	transport Transport
	store     storage.NotificationStore
	logger    *slog.Logger
	timeout   time.Duration
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	timeout := cfg.SendTimeout
	if timeout <= 0 {
		timeout = DefaultSendTimeout
	}
	return &Dispatcher{
		transport: cfg.Transport,
		store:     cfg.Store,
		logger:    cfg.Logger,
		timeout:   timeout,
	}
}

// Dispatch makes one delivery attempt for req.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Err: fmt.Errorf("mail transport panicked: %v", r)}
			d.logFailure(req, out.Err)
		}
		d.record(ctx, req, out)
	}()

	if req.To == "" {
		out = Outcome{Err: ErrNoRecipient}
		d.logFailure(req, out.Err)
		return out
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	id, err := d.transport.Send(sendCtx, Message{
		To:      []string{req.To},
		Subject: req.Subject,
		HTML:    req.HTML,
		Text:    req.Text,
	})
	if err != nil {
		out = Outcome{Err: err}
		d.logFailure(req, err)
		return out
	}

	d.logger.Info("email sent",
		"to", req.To,
		"kind", string(req.Kind),
		"message_id", id,
		"transport", d.transport.Name(),
	)
	return Outcome{Delivered: true, MessageID: id}
}

func (d *Dispatcher) logFailure(req Request, err error) {
	d.logger.Warn("email delivery failed",
		"to", req.To,
		"kind", string(req.Kind),
		"error", err.Error(),
	)
}

// record updates metrics and, when a store is configured, appends the outcome
// to the delivery log. Store failures are logged and dropped.
func (d *Dispatcher) record(ctx context.Context, req Request, out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("notification log panicked", "to", req.To, "panic", fmt.Sprint(r))
		}
	}()

	status := storage.NotificationStatusSent
	if !out.Delivered {
		status = storage.NotificationStatusFailed
	}
	metrics.EmailsSent.WithLabelValues(string(req.Kind), status).Inc()

	if d.store == nil {
		return
	}

	entry := storage.NotificationLogEntry{
		Kind:      string(req.Kind),
		Recipient: req.To,
		Subject:   req.Subject,
		JobTitle:  req.JobTitle,
		Status:    status,
		MessageID: out.MessageID,
		CreatedAt: time.Now().UTC(),
	}
	if out.Err != nil {
		entry.ErrorMsg = out.Err.Error()
	}

	if err := d.store.LogNotification(context.WithoutCancel(ctx), entry); err != nil {
		d.logger.Debug("notification log skipped", "to", req.To, "error", err)
	}
}
