// filepath: internal/services/housekeeping_service.go
package services

import (
	"pantry/internal/housekeeping"
	"pantry/internal/models"
	"time"
)

var _ HousekeepingService = (*housekeepingService)(nil)

// housekeepingService manages the lifecycle of the background backup worker
// and provides a method for manually applying backup retention.
type housekeepingService struct {
	Policy     housekeeping.Policy
	Interval   time.Duration
	worker     *housekeeping.Service
	workerDeps housekeeping.Dependencies
}

// NewHousekeepingService creates a new HousekeepingService.
func NewHousekeepingService(database DatabaseService, storage *StorageService, policy housekeeping.Policy, interval time.Duration) *housekeepingService {
	// Create the dependencies that the background worker will use
	deps := housekeeping.Dependencies{
		Storage: storage,  // The storage service satisfies the StorageTX interface
		Backup:  database, // The database service satisfies the BackupTX interface
	}

	return &housekeepingService{
		Policy:     policy,
		Interval:   interval,
		workerDeps: deps,
	}
}

// Start begins the background backup worker.
func (s *housekeepingService) Start() {
	s.worker = housekeeping.NewService(s.workerDeps, s.Interval)
	s.worker.Start()
}

// Stop terminates the background backup worker.
func (s *housekeepingService) Stop() {
	if s.worker != nil {
		s.worker.Stop()
	}
}

// TriggerRetention applies the backup retention rules now.
func (s *housekeepingService) TriggerRetention() (*models.RetentionReport, error) {
	return housekeeping.RunRetention(s.workerDeps, s.Policy)
}
