// filepath: internal/migrator/migrator.go
// Package migrator brings a pantry storage file up to the current table layout.
//
// The migration is forward only: missing tables and columns are added and
// existing rows are copied across, nothing is narrowed or renamed. It is not
// safe to run against the same file from two callers at once.
package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pantry/internal/db/migrations"
	"pantry/internal/logging"
	"pantry/internal/shared"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

// Migrate guarantees on return that the file at path exists and matches the
// expected layout, preserving existing rows. Every failure is a *MigrationError
// and leaves the file as it was before the call.
func Migrate(ctx context.Context, path string) error {
	// 1. A missing file gets the full layout
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return createStore(ctx, path)
		}
		return newMigrationError(path, StepStat, err)
	}

	logging.Log.Infof("Migrator: database file %s exists. Validating schema...", path)

	db, err := openExclusive(path)
	if err != nil {
		return newMigrationError(path, StepOpen, err)
	}
	defer db.Close()

	// 2. The file exists but has no products table
	exists, err := tableExists(ctx, db, productsTable)
	if err != nil {
		return newMigrationError(path, StepInspect, err)
	}
	if !exists {
		logging.Log.Infof("Migrator: table '%s' not found in %s. Creating layout...", productsTable, path)
		if err := bootstrap(ctx, db); err != nil {
			return newMigrationError(path, StepBootstrap, err)
		}
		logging.Log.Infof("Migrator: layout created in %s.", path)
		return nil
	}

	// 3./4./5. Rebuild the products table in a single transaction
	return rebuild(ctx, db, path)
}

// createStore creates the parent directory and a fresh file with the full layout.
func createStore(ctx context.Context, path string) error {
	logging.Log.Infof("Migrator: database file %s not found. Creating a new one...", path)

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return newMigrationError(path, StepBootstrap, err)
		}
	}

	db, err := openExclusive(path)
	if err != nil {
		return newMigrationError(path, StepOpen, err)
	}

	if err := bootstrap(ctx, db); err != nil {
		db.Close()
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			logging.Log.Warnf("Migrator: failed to remove half-created database %s: %v", path, rmErr)
		}
		return newMigrationError(path, StepBootstrap, err)
	}

	if err := db.Close(); err != nil {
		return newMigrationError(path, StepCommit, err)
	}

	logging.Log.Infof("Migrator: database %s created with the required schema.", path)
	return nil
}

// openExclusive opens a single connection to path with foreign key
// enforcement off, so the products table can be dropped while counts still
// reference it.
func openExclusive(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", shared.SQLiteDSN(path, "foreign_keys(0)"))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// bootstrap applies the embedded migrations without version tracking.
// Every statement is CREATE ... IF NOT EXISTS, so it is additive.
func bootstrap(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(logging.Log)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".", goose.WithNoVersioning())
}

// rebuild recreates the products table with the expected columns and copies
// every row across. All statements share one transaction.
func rebuild(ctx context.Context, db *sql.DB, path string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return newMigrationError(path, StepInspect, err)
	}
	defer tx.Rollback() // Rollback on any error

	existing, err := tableColumns(ctx, tx, productsTable)
	if err != nil {
		return newMigrationError(path, StepInspect, err)
	}

	for _, name := range missingColumns(existing) {
		logging.Log.Warnf("Migrator: column '%s' not found in the old table. Setting default NULL.", name)
	}
	if extra := extraColumns(existing); len(extra) > 0 {
		logging.Log.Warnf("Migrator: columns %s are not part of the current layout and will not be copied.", strings.Join(extra, ", "))
	}

	logging.Log.Info("Migrator: creating a temporary table with the updated schema...")
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS \"%s\";", productsNewTable)); err != nil {
		return newMigrationError(path, StepRebuild, err)
	}
	if _, err := tx.ExecContext(ctx, createProductsTableSQL(productsNewTable)); err != nil {
		return newMigrationError(path, StepRebuild, err)
	}

	logging.Log.Info("Migrator: copying data from the old table to the new table...")
	if _, err := tx.ExecContext(ctx, copyRowsSQL(productsTable, productsNewTable, existing)); err != nil {
		return newMigrationError(path, StepCopy, err)
	}

	logging.Log.Infof("Migrator: replacing '%s' with '%s'...", productsTable, productsNewTable)
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DROP TABLE \"%s\";", productsTable)); err != nil {
		return newMigrationError(path, StepSwap, err)
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("ALTER TABLE \"%s\" RENAME TO \"%s\";", productsNewTable, productsTable)); err != nil {
		return newMigrationError(path, StepSwap, err)
	}

	if _, err := tx.ExecContext(ctx, siblingTablesDDL); err != nil {
		return newMigrationError(path, StepRebuild, err)
	}

	if err := ensureBarcodeIndex(ctx, tx); err != nil {
		return newMigrationError(path, StepIndex, err)
	}

	if err := tx.Commit(); err != nil {
		return newMigrationError(path, StepCommit, err)
	}

	logging.Log.Infof("Migrator: database migration of %s completed successfully.", path)
	return nil
}

// ensureBarcodeIndex adds the partial unique index on products.barcode.
// Legacy files may carry duplicate barcodes; those are reported and the index
// is left out so the migration itself still succeeds.
func ensureBarcodeIndex(ctx context.Context, tx *sql.Tx) error {
	duplicates, err := duplicateBarcodes(ctx, tx)
	if err != nil {
		return err
	}
	if len(duplicates) > 0 {
		logging.Log.Warnf("Migrator: duplicate barcodes %s found, unique index '%s' not created.",
			strings.Join(duplicates, ", "), barcodeIndex)
		return nil
	}

	query := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS \"%s\" ON \"%s\" (barcode) WHERE barcode IS NOT NULL;",
		barcodeIndex, productsTable)
	_, err = tx.ExecContext(ctx, query)
	return err
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func tableExists(ctx context.Context, q queryer, table string) (bool, error) {
	var name string
	err := q.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// tableColumns reads the column names of table, lower cased.
func tableColumns(ctx context.Context, q queryer, table string) (map[string]bool, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(\"%s\");", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns := map[string]bool{}
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		columns[strings.ToLower(name)] = true
	}
	return columns, rows.Err()
}

func duplicateBarcodes(ctx context.Context, q queryer) ([]string, error) {
	rows, err := q.QueryContext(ctx, fmt.Sprintf(
		"SELECT barcode FROM \"%s\" WHERE barcode IS NOT NULL GROUP BY barcode HAVING COUNT(*) > 1 ORDER BY barcode;",
		productsTable))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var duplicates []string
	for rows.Next() {
		var barcode string
		if err := rows.Scan(&barcode); err != nil {
			return nil, err
		}
		duplicates = append(duplicates, barcode)
	}
	return duplicates, rows.Err()
}
