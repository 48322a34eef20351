package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shaharia-lab/jobportal/internal/service"
)

// MockDecisionService is a mock implementation of service.DecisionService.
type MockDecisionService struct {
	mock.Mock
}

//nolint:revive
func (m *MockDecisionService) Record(ctx context.Context, d service.Decision) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
