// Package notification renders hiring-decision emails and delivers them on a
// best-effort basis. Delivery failures are logged and reported as an Outcome;
// they never reach the caller as an error.
package notification

import "context"

// Message is the content handed to a Transport.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string // plain-text alternative, optional
}

// Transport is the interface for mail delivery backends.
type Transport interface {
	// Name returns the transport identifier (e.g. "smtp").
	Name() string
	// Send delivers msg and returns the transport's message identifier.
	Send(ctx context.Context, msg Message) (string, error)
}
