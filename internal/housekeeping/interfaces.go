// filepath: internal/housekeeping/interfaces.go
package housekeeping

import (
	"context"
	"pantry/internal/models"
)

// StorageTX defines the storage methods required by the retention task.
type StorageTX interface {
	ListBackups() ([]models.BackupInfo, error)
	DeleteBackup(path string) error
}

// BackupTX defines the backup method required by the scheduled worker.
// This decouples the worker from the concrete database service.
type BackupTX interface {
	BackupToDir(ctx context.Context) (string, error)
}
