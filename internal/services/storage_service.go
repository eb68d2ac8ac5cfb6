// filepath: internal/services/storage_service.go
package services

import (
	"fmt"
	"io"
	"pantry/internal/config"
	"pantry/internal/logging"
	"pantry/internal/models"
	"pantry/internal/storage"
	"path/filepath"
	"strings"
)

// StorageService provides an interface for interacting with the file system.
// It wraps the 'internal/storage' package to be injectable.
type StorageService struct {
	BackupDir string
}

// NewStorageService creates a new StorageService.
func NewStorageService(cfg *config.Config) *StorageService {
	return &StorageService{
		BackupDir: cfg.Database.BackupDir,
	}
}

// NewBackupPath returns a fresh file path inside the backup directory.
func (s *StorageService) NewBackupPath() (string, error) {
	return storage.NewBackupPath(s.BackupDir)
}

// SaveFile saves data from a reader to a specified path.
func (s *StorageService) SaveFile(data io.Reader, path string) (int64, error) {
	return storage.SaveFile(data, path)
}

// CopyFile streams the file at path into w.
func (s *StorageService) CopyFile(w io.Writer, path string) (int64, error) {
	return storage.CopyFile(w, path)
}

// ListBackups returns the backups in the backup directory, oldest first.
func (s *StorageService) ListBackups() ([]models.BackupInfo, error) {
	return storage.ListBackups(s.BackupDir)
}

// DeleteBackup deletes a backup file. Paths outside the backup directory are refused.
func (s *StorageService) DeleteBackup(path string) error {
	cleaned, err := s.validatePath(path)
	if err != nil {
		return err
	}
	return storage.RemoveFile(cleaned)
}

// validatePath cleans a path and ensures it's a backup within the backup directory.
func (s *StorageService) validatePath(path string) (string, error) {
	cleanedPath := filepath.Clean(path)
	cleanedRoot := filepath.Clean(s.BackupDir)

	if !strings.HasPrefix(cleanedPath, cleanedRoot+string(filepath.Separator)) || !storage.IsBackupName(filepath.Base(cleanedPath)) {
		logging.Log.Warnf("Refusing to touch file outside the backup directory: %s", path)
		return "", fmt.Errorf("invalid backup path: %s", path)
	}
	return cleanedPath, nil
}
