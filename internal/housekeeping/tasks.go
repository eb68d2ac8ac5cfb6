// filepath: internal/housekeeping/tasks.go
package housekeeping

import (
	"fmt"
	"pantry/internal/logging"
	"pantry/internal/models"
	"time"
)

// Dependencies defines the required services for the housekeeping tasks.
type Dependencies struct {
	Storage StorageTX
	Backup  BackupTX
}

// Policy holds the backup retention rules. Zero values disable a rule.
type Policy struct {
	MaxAge   time.Duration
	MaxCount int
}

// RunRetention deletes backups older than the max age rule and then the
// oldest backups beyond the max count rule.
func RunRetention(deps Dependencies, policy Policy) (*models.RetentionReport, error) {
	backups, err := deps.Storage.ListBackups()
	if err != nil {
		return nil, fmt.Errorf("could not list backups: %w", err)
	}

	report := &models.RetentionReport{}

	// 1. Cleanup by Age
	kept := cleanupByAge(deps, policy, backups, report)

	// 2. Cleanup by Count
	cleanupByCount(deps, policy, kept, report)

	report.Message = fmt.Sprintf("Retention complete. %d backups deleted, freeing %s.",
		report.BackupsDeleted, formatBytes(report.SpaceFreedBytes))
	return report, nil
}

// cleanupByAge deletes backups older than the max age and returns the rest, oldest first.
func cleanupByAge(deps Dependencies, policy Policy, backups []models.BackupInfo, report *models.RetentionReport) []models.BackupInfo {
	// If duration is 0, skip this check
	if policy.MaxAge == 0 {
		logging.Log.Debug("Housekeeping cleanup by age is disabled (max_age is 0).")
		return backups
	}

	cutoff := time.Now().Add(-policy.MaxAge)
	kept := make([]models.BackupInfo, 0, len(backups))
	for _, b := range backups {
		if b.ModTime.Before(cutoff) {
			if deleteBackup(deps, b, report) {
				continue
			}
		}
		kept = append(kept, b)
	}
	return kept
}

// cleanupByCount deletes the oldest backups until at most MaxCount remain.
func cleanupByCount(deps Dependencies, policy Policy, backups []models.BackupInfo, report *models.RetentionReport) {
	// If max count is 0, skip this check
	if policy.MaxCount == 0 {
		logging.Log.Debug("Housekeeping cleanup by count is disabled (max_count is 0).")
		return
	}

	excess := len(backups) - policy.MaxCount
	if excess <= 0 {
		return
	}

	logging.Log.Infof("Found %d backups beyond the limit of %d. Deleting...", excess, policy.MaxCount)
	for _, b := range backups[:excess] {
		deleteBackup(deps, b, report)
	}
}

// deleteBackup removes a single backup and records it in the report.
func deleteBackup(deps Dependencies, b models.BackupInfo, report *models.RetentionReport) bool {
	if err := deps.Storage.DeleteBackup(b.Path); err != nil {
		logging.Log.Warnf("Housekeeping: Failed to delete backup %s: %v", b.Path, err)
		return false
	}
	report.BackupsDeleted++
	report.SpaceFreedBytes += b.SizeBytes
	return true
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
