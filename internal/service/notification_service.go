package service

import (
	"context"
	"fmt"

	"github.com/shaharia-lab/jobportal/internal/storage"
)

const (
	defaultLogLimit = 50
	maxLogLimit     = 200
)

// NotificationService gives read access to the email delivery log.
type NotificationService interface {
	// ListLog returns the most recent notification log entries, newest first.
	// A non-positive limit means 50; limits above 200 are capped at 200.
	ListLog(ctx context.Context, limit int) ([]storage.NotificationLogEntry, error)
}

// notificationServiceImpl implements NotificationService.
type notificationServiceImpl struct {
	store storage.NotificationStore
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store storage.NotificationStore) NotificationService {
	return &notificationServiceImpl{store: store}
}

func (s *notificationServiceImpl) ListLog(ctx context.Context, limit int) ([]storage.NotificationLogEntry, error) {
	switch {
	case limit <= 0:
		limit = defaultLogLimit
	case limit > maxLogLimit:
		limit = maxLogLimit
	}
	entries, err := s.store.ListNotifications(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing notification log: %w", err)
	}
	if entries == nil {
		entries = []storage.NotificationLogEntry{}
	}
	return entries, nil
}
