package storage

import (
	"context"
	"time"
)

// NotificationLogEntry records a single email delivery attempt.
type NotificationLogEntry struct {
	ID        string    `json:"id" bson:"_id"`
	Kind      string    `json:"kind" bson:"kind"`
	Recipient string    `json:"recipient" bson:"recipient"`
	Subject   string    `json:"subject" bson:"subject"`
	JobTitle  string    `json:"job_title" bson:"job_title"`
	Status    string    `json:"status" bson:"status"`
	MessageID string    `json:"message_id,omitempty" bson:"message_id,omitempty"`
	ErrorMsg  string    `json:"error_msg,omitempty" bson:"error_msg,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// Delivery statuses.
const (
	NotificationStatusSent   = "sent"
	NotificationStatusFailed = "failed"
)

// NotificationStore defines the interface for persisting notification delivery logs.
type NotificationStore interface {
	// LogNotification records a notification delivery attempt.
	LogNotification(ctx context.Context, entry NotificationLogEntry) error
	// ListNotifications returns the most recent notification log entries, up to limit.
	ListNotifications(ctx context.Context, limit int) ([]NotificationLogEntry, error)
}
