package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/jobportal/internal/storage"
)

// MockNotificationService is a mock implementation of service.NotificationService.
type MockNotificationService struct {
	mock.Mock
}

//nolint:revive
func (m *MockNotificationService) ListLog(ctx context.Context, limit int) ([]storage.NotificationLogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.NotificationLogEntry), args.Error(1)
}
