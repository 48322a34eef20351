package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/jobportal/internal/notification"
)

// MockTransport is a mock implementation of notification.Transport.
type MockTransport struct {
	mock.Mock
}

//nolint:revive
func (m *MockTransport) Name() string {
	return "mock"
}

//nolint:revive
func (m *MockTransport) Send(ctx context.Context, msg notification.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}
