// filepath: internal/housekeeping/service.go
package housekeeping

import (
	"context"
	"pantry/internal/logging"
	"sync"
	"time"
)

const (
	// DefaultBackupInterval is used when no interval is configured.
	DefaultBackupInterval = 24 * time.Hour
	// MinBackupInterval is the minimum time between backups to prevent busy-looping.
	MinBackupInterval = 1 * time.Minute
)

// Service provides the background worker for scheduled backups. Every run
// writes a backup to the backup directory, which in turn applies retention.
type Service struct {
	Deps     Dependencies
	Interval time.Duration
	timer    *time.Timer
	stopCh   chan struct{}
	doneCh   chan struct{}
	stopOnce sync.Once
}

// NewService creates a new housekeeping service instance.
func NewService(deps Dependencies, interval time.Duration) *Service {
	return &Service{
		Deps:     deps,
		Interval: normalizeInterval(interval),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start kicks off the background backup worker.
func (s *Service) Start() {
	select {
	case <-s.stopCh:
		return // already stopped
	default:
	}
	logging.Log.Infof("Starting background backup service (every %v).", s.Interval)
	s.timer = time.NewTimer(0) // Fire immediately on start

	go func() {
		defer close(s.doneCh)
		for {
			select {
			case <-s.timer.C:
				s.runBackup()
				s.timer.Reset(s.Interval)
				logging.Log.Infof("Next backup scheduled in %v.", s.Interval)
			case <-s.stopCh:
				s.timer.Stop()
				return
			}
		}
	}()
}

// Stop terminates the background worker and waits for a running backup to
// finish. It returns at once if the worker was never started and may be
// called more than once.
func (s *Service) Stop() {
	s.stopOnce.Do(func() {
		logging.Log.Info("Stopping background backup service.")
		close(s.stopCh)
		if s.timer == nil {
			close(s.doneCh)
		}
	})
	<-s.doneCh
}

// runBackup performs one scheduled backup.
func (s *Service) runBackup() {
	path, err := s.Deps.Backup.BackupToDir(context.Background())
	if err != nil {
		logging.Log.Errorf("Scheduled backup failed: %v", err)
		return
	}
	logging.Log.Infof("Scheduled backup written to %s", path)
}

func normalizeInterval(interval time.Duration) time.Duration {
	if interval == 0 {
		return DefaultBackupInterval
	}
	if interval < MinBackupInterval {
		return MinBackupInterval
	}
	return interval
}
