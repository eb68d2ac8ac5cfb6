// filepath: internal/storage/paths.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"pantry/internal/models"
	"sort"
	"strings"

	"github.com/oklog/ulid/v2"
)

// BackupPrefix and BackupExt frame every backup file name.
const (
	BackupPrefix = "pantry_data-"
	BackupExt    = ".db"
)

// NewBackupPath returns a fresh backup file path inside backupDir.
// ULIDs sort by creation time, so file names order like their age.
func NewBackupPath(backupDir string) (string, error) {
	name := BackupPrefix + ulid.Make().String() + BackupExt
	return safeJoin(backupDir, name)
}

// UploadPath returns a temporary sibling of dbPath used while a restore
// is being migrated.
func UploadPath(dbPath string) string {
	return fmt.Sprintf("%s.upload-%s", dbPath, ulid.Make().String())
}

// LockPath returns the lock file guarding destructive operations on dbPath.
func LockPath(dbPath string) string {
	return dbPath + ".lock"
}

// IsBackupName reports whether name looks like a file written by NewBackupPath.
func IsBackupName(name string) bool {
	if !strings.HasPrefix(name, BackupPrefix) || !strings.HasSuffix(name, BackupExt) {
		return false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(name, BackupPrefix), BackupExt)
	_, err := ulid.ParseStrict(id)
	return err == nil
}

// ListBackups returns the backups in backupDir, oldest first.
// A missing directory yields an empty list.
func ListBackups(backupDir string) ([]models.BackupInfo, error) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.BackupInfo{}, nil
		}
		return nil, fmt.Errorf("could not read backup directory: %w", err)
	}

	backups := []models.BackupInfo{}
	for _, e := range entries {
		if e.IsDir() || !IsBackupName(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		backups = append(backups, models.BackupInfo{
			Path:      filepath.Join(backupDir, e.Name()),
			SizeBytes: info.Size(),
			ModTime:   info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		if backups[i].ModTime.Equal(backups[j].ModTime) {
			return backups[i].Path < backups[j].Path
		}
		return backups[i].ModTime.Before(backups[j].ModTime)
	})
	return backups, nil
}

// safeJoin joins name onto root and rejects results that escape root.
func safeJoin(root, name string) (string, error) {
	full := filepath.Clean(filepath.Join(root, name))
	cleanedRoot := filepath.Clean(root)
	if !strings.HasPrefix(full, cleanedRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid path: potential path traversal")
	}
	return full, nil
}
