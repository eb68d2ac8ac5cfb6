// filepath: internal/services/mocks/database_mock.go
package mocks

import (
	"context"
	"io"
	"pantry/internal/models"
	"pantry/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockDatabaseService is a mock implementation of services.DatabaseService
type MockDatabaseService struct {
	mock.Mock
}

var _ services.DatabaseService = (*MockDatabaseService)(nil)

func (m *MockDatabaseService) Backup(ctx context.Context, w io.Writer) (int64, error) {
	args := m.Called(ctx, w)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDatabaseService) BackupToDir(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockDatabaseService) ListBackups() ([]models.BackupInfo, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BackupInfo), args.Error(1)
}

func (m *MockDatabaseService) Restore(ctx context.Context, r io.Reader) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockDatabaseService) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDatabaseService) Recover(ctx context.Context) (*models.RecoveryReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RecoveryReport), args.Error(1)
}
