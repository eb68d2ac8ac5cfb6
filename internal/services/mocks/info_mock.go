// filepath: internal/services/mocks/info_mock.go
package mocks

import (
	"context"
	"pantry/internal/models"
	"pantry/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockInfoService is a mock implementation of services.InfoService
type MockInfoService struct {
	mock.Mock
}

var _ services.InfoService = (*MockInfoService)(nil)

func (m *MockInfoService) GetInfo(ctx context.Context) (*models.Info, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Info), args.Error(1)
}
