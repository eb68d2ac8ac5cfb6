// filepath: internal/services/setup_test.go
package services

import (
	"context"
	"pantry/internal/config"
	"pantry/internal/housekeeping"
	"pantry/internal/migrator"
	"pantry/internal/repository"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// testAuditor records audit events.
type testAuditor struct {
	mock.Mock
}

func (a *testAuditor) Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{}) {
	a.Called(action, actor, resource)
}

type testEnv struct {
	Store     *repository.Store
	Auditor   *testAuditor
	Inventory *inventoryService
	Database  *databaseService
	Storage   *StorageService
	DBPath    string
}

// setupIntegrationTest creates a real Store and StorageService backed by temp files.
func setupIntegrationTest(t *testing.T) *testEnv {
	t.Helper()
	return setupIntegrationTestAt(t, "pantry_data.db")
}

// setupIntegrationTestAt is setupIntegrationTest with a chosen database file name.
func setupIntegrationTestAt(t *testing.T, dbName string) *testEnv {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Path:      filepath.Join(tmpDir, dbName),
			BackupDir: filepath.Join(tmpDir, "backups"),
		},
	}

	require.NoError(t, migrator.Migrate(context.Background(), cfg.Database.Path))
	repo, err := repository.Open(cfg.Database.Path)
	require.NoError(t, err)

	store := repository.NewStore(repo)
	t.Cleanup(func() { store.Close() })

	auditor := new(testAuditor)
	auditor.On("Log", mock.Anything, mock.Anything, mock.Anything).Return()

	storage := NewStorageService(cfg)
	return &testEnv{
		Store:     store,
		Auditor:   auditor,
		Inventory: NewInventoryService(store, auditor),
		Database:  NewDatabaseService(store, storage, auditor, housekeeping.Policy{MaxCount: 2}, cfg.Database.Path),
		Storage:   storage,
		DBPath:    cfg.Database.Path,
	}
}

func strPtr(s string) *string { return &s }
