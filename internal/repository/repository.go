// filepath: internal/repository/repository.go
package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"pantry/internal/shared"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/patrickmn/go-cache"
	_ "modernc.org/sqlite" // SQLite driver
)

// Repository provides access to the categories, products and counts tables
// of a single SQLite file. The file must have been migrated before Open.
type Repository struct {
	DB      *sqlx.DB
	Cache   *cache.Cache
	Builder squirrel.StatementBuilderType // SQL Query Builder
	Path    string
}

// Open opens the SQLite file at path with foreign keys enforced.
func Open(path string) (*Repository, error) {
	db, err := sqlx.Open("sqlite", shared.SQLiteDSN(path, "foreign_keys(1)", "busy_timeout(5000)"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	// SQLite allows a single writer; one connection avoids SQLITE_BUSY between our own statements.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}

	return &Repository{
		DB:      db,
		Cache:   cache.New(5*time.Minute, 10*time.Minute),
		Builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
		Path:    path,
	}, nil
}

// Close closes the underlying database handle.
func (s *Repository) Close() error {
	s.Cache.Flush()
	return s.DB.Close()
}

// mapError translates SQLite errors into shared repository errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return shared.ErrNotFound
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", shared.ErrDuplicate, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", shared.ErrInvalidReference, err)
	}
	return err
}
