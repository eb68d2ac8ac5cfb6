// filepath: internal/services/database_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"pantry/internal/housekeeping"
	"pantry/internal/logging"
	"pantry/internal/migrator"
	"pantry/internal/models"
	"pantry/internal/repository"
	"pantry/internal/storage"
	"path/filepath"

	"github.com/gofrs/flock"
)

var _ DatabaseService = (*databaseService)(nil)

// databaseService handles backup, restore, reset and recovery of the store file.
type databaseService struct {
	Store     *repository.Store
	Storage   *StorageService
	Auditor   Auditor
	Retention housekeeping.Policy
	dbPath    string
}

// NewDatabaseService creates a new DatabaseService for the store file at dbPath.
func NewDatabaseService(store *repository.Store, storage *StorageService, auditor Auditor, retention housekeeping.Policy, dbPath string) *databaseService {
	return &databaseService{
		Store:     store,
		Storage:   storage,
		Auditor:   auditor,
		Retention: retention,
		dbPath:    dbPath,
	}
}

// Backup streams a consistent snapshot of the store into w.
func (s *databaseService) Backup(ctx context.Context, w io.Writer) (int64, error) {
	// 1. Snapshot next to the live file
	snapshot := storage.UploadPath(s.dbPath) + ".snapshot"
	defer func() {
		if err := storage.RemoveFile(snapshot); err != nil {
			logging.Log.Warnf("DatabaseService: Failed to remove snapshot %s: %v", snapshot, err)
		}
	}()
	if err := s.Store.Current().SnapshotTo(ctx, snapshot); err != nil {
		return 0, err
	}

	// 2. Stream it
	n, err := s.Storage.CopyFile(w, snapshot)
	if err != nil {
		return 0, fmt.Errorf("failed to stream backup: %w", err)
	}

	s.Auditor.Log(ctx, "database.backup", ActorFromContext(ctx), filepath.Base(s.dbPath), map[string]interface{}{
		"size_bytes": n,
	})
	return n, nil
}

// BackupToDir writes a snapshot into the backup directory and applies retention.
func (s *databaseService) BackupToDir(ctx context.Context) (string, error) {
	// 1. Create the target path
	path, err := s.Storage.NewBackupPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Storage.BackupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	// 2. Snapshot
	if err := s.Store.Current().SnapshotTo(ctx, path); err != nil {
		return "", err
	}
	logging.Log.Infof("DatabaseService: Backup written to %s", path)
	s.Auditor.Log(ctx, "database.backup", ActorFromContext(ctx), filepath.Base(s.dbPath), map[string]interface{}{
		"path": path,
	})

	// 3. Retention
	report, err := housekeeping.RunRetention(housekeeping.Dependencies{Storage: s.Storage}, s.Retention)
	if err != nil {
		// Log the error but don't fail the backup
		logging.Log.Warnf("DatabaseService: Backup retention failed: %v", err)
	} else if report.BackupsDeleted > 0 {
		logging.Log.Info(report.Message)
	}
	return path, nil
}

// ListBackups returns the backups in the backup directory, oldest first.
func (s *databaseService) ListBackups() ([]models.BackupInfo, error) {
	return s.Storage.ListBackups()
}

// Restore replaces the store with the uploaded file. The upload is migrated
// first; if that fails the live store is left untouched.
func (s *databaseService) Restore(ctx context.Context, r io.Reader) error {
	lock, err := s.lock()
	if err != nil {
		return err
	}
	defer lock.Unlock()

	// 1. Save the upload next to the live file
	tmp := storage.UploadPath(s.dbPath)
	size, err := s.Storage.SaveFile(r, tmp)
	if err != nil {
		storage.RemoveFile(tmp)
		return fmt.Errorf("failed to save uploaded database: %w", err)
	}

	// 2. Bring it to the current layout
	if err := migrator.Migrate(ctx, tmp); err != nil {
		if rmErr := storage.RemoveFile(tmp); rmErr != nil {
			logging.Log.Warnf("DatabaseService: Failed to remove rejected upload %s: %v", tmp, rmErr)
		}
		logging.Log.Errorf("DatabaseService: Restore rejected: %v", err)
		return fmt.Errorf("%w: uploaded database could not be migrated: %w", ErrValidation, err)
	}

	// 3. Swap it in
	err = s.Store.Swap(func() (*repository.Repository, error) {
		if err := storage.ReplaceFile(tmp, s.dbPath); err != nil {
			return nil, err
		}
		return repository.Open(s.dbPath)
	})
	if err != nil {
		storage.RemoveFile(tmp)
		logging.Log.Errorf("DatabaseService: Failed to install restored database: %v", err)
		return fmt.Errorf("failed to install restored database: %w", err)
	}

	logging.Log.Infof("DatabaseService: Database restored (%d bytes)", size)
	s.Auditor.Log(ctx, "database.restore", ActorFromContext(ctx), filepath.Base(s.dbPath), map[string]interface{}{
		"size_bytes": size,
	})
	return nil
}

// Reset replaces the store with an empty one. The live file is only
// overwritten once the empty store has been created. A concurrent reset or
// restore makes it fail with ErrConflict instead of waiting.
func (s *databaseService) Reset(ctx context.Context) error {
	lock, err := s.lock()
	if err != nil {
		return err
	}
	defer lock.Unlock()

	// 1. Build the empty store next to the live file
	tmpPath := storage.UploadPath(s.dbPath)
	if err := migrator.Migrate(ctx, tmpPath); err != nil {
		storage.RemoveFile(tmpPath)
		logging.Log.Errorf("DatabaseService: Reset failed: %v", err)
		return fmt.Errorf("failed to reset database: %w", err)
	}

	// 2. Move it over the live file and reopen
	err = s.Store.Swap(func() (*repository.Repository, error) {
		if err := storage.ReplaceFile(tmpPath, s.dbPath); err != nil {
			return nil, err
		}
		return repository.Open(s.dbPath)
	})
	if err != nil {
		storage.RemoveFile(tmpPath)
		logging.Log.Errorf("DatabaseService: Reset failed: %v", err)
		return fmt.Errorf("failed to reset database: %w", err)
	}

	logging.Log.Warnf("DatabaseService: Database reset: %s", s.dbPath)
	s.Auditor.Log(ctx, "database.reset", ActorFromContext(ctx), filepath.Base(s.dbPath), nil)
	return nil
}

// Recover repairs count rows and reports duplicate barcodes.
func (s *databaseService) Recover(ctx context.Context) (*models.RecoveryReport, error) {
	repo := s.Store.Current()
	report := &models.RecoveryReport{}

	var err error
	if report.OrphansRemoved, err = repo.RemoveOrphanCounts(ctx); err != nil {
		return nil, err
	}
	if report.CountsCreated, err = repo.FixMissingCounts(ctx); err != nil {
		return nil, err
	}
	if report.CountsClamped, err = repo.ClampNegativeCounts(ctx); err != nil {
		return nil, err
	}
	if report.DuplicateBarcodes, err = repo.DuplicateBarcodes(ctx); err != nil {
		return nil, err
	}
	if len(report.DuplicateBarcodes) > 0 {
		logging.Log.Warnf("DatabaseService: Duplicate barcodes need manual attention: %v", report.DuplicateBarcodes)
	}
	return report, nil
}

// lock takes the non-blocking file lock guarding destructive operations.
func (s *databaseService) lock() (*flock.Flock, error) {
	lock := flock.New(storage.LockPath(s.dbPath))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire database lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("%w: another reset or restore is in progress", ErrConflict)
	}
	return lock, nil
}
