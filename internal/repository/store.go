// filepath: internal/repository/store.go
package repository

import (
	"context"
	"fmt"
	"os"
	"pantry/internal/logging"
	"pantry/internal/migrator"
	"sync"
)

// Store owns the repository currently serving requests. Restore and reset
// replace it while readers keep using the handle they obtained.
type Store struct {
	mu   sync.RWMutex
	repo *Repository
}

// NewStore wraps an open repository.
func NewStore(repo *Repository) *Store {
	return &Store{repo: repo}
}

// Current returns the live repository.
func (s *Store) Current() *Repository {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo
}

// Swap closes the live repository, runs replace and installs the repository
// it returns. If replace fails the previous file is reopened so the store
// keeps serving; a file that replace already deleted is migrated afresh first.
func (s *Store) Swap(replace func() (*Repository, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := ""
	if s.repo != nil {
		path = s.repo.Path
		if err := s.repo.Close(); err != nil {
			logging.Log.Warnf("Store: failed to close repository %s: %v", path, err)
		}
		s.repo = nil
	}

	next, err := replace()
	if err != nil {
		if path != "" {
			if reopened, openErr := reopen(path); openErr == nil {
				s.repo = reopened
			} else {
				logging.Log.Errorf("Store: failed to reopen %s after failed swap: %v", path, openErr)
			}
		}
		return err
	}

	s.repo = next
	return nil
}

// reopen opens path again after a failed swap. Opening a missing file would
// give an empty database without tables, so it is migrated first.
func reopen(path string) (*Repository, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logging.Log.Warnf("Store: %s was removed during a failed swap, recreating it.", path)
		if err := migrator.Migrate(context.Background(), path); err != nil {
			return nil, err
		}
	}
	return Open(path)
}

// Close closes the live repository.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo == nil {
		return nil
	}
	err := s.repo.Close()
	s.repo = nil
	if err != nil {
		return fmt.Errorf("failed to close repository: %w", err)
	}
	return nil
}
