// filepath: internal/services/database_service_test.go
package services

import (
	"bytes"
	"context"
	"errors"
	"os"
	"pantry/internal/migrator"
	"pantry/internal/models"
	"pantry/internal/storage"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeLegacyFile creates a store file in the oldest layout: products without
// barcode or image columns and no counts table.
func writeLegacyFile(t *testing.T, path string) {
	t.Helper()
	db, err := sqlx.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	for _, stmt := range []string{
		`CREATE TABLE categories (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE)`,
		`CREATE TABLE products (id INTEGER PRIMARY KEY, name TEXT NOT NULL UNIQUE, url TEXT NOT NULL, category_id INTEGER NOT NULL)`,
		`INSERT INTO categories (id, name) VALUES (1, 'Legacy')`,
		`INSERT INTO products (id, name, url, category_id) VALUES (1, 'Old Flour', 'http://x/flour.jpg', 1)`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func TestBackup_Stream(t *testing.T) {
	env := setupIntegrationTest(t)
	ctx := context.Background()
	addProduct(t, env, "Rice", "Grains", nil)

	var buf bytes.Buffer
	n, err := env.Database.Backup(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.True(t, strings.HasPrefix(buf.String(), "SQLite format 3"))
	env.Auditor.AssertCalled(t, "Log", "database.backup", DefaultActor, "pantry_data.db")

	// No snapshot leftovers next to the live file
	entries, err := os.ReadDir(filepath.Dir(env.DBPath))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".upload-")
	}
}

func TestBackupToDir_AppliesRetention(t *testing.T) {
	env := setupIntegrationTest(t)
	ctx := context.Background()

	var paths []string
	for i := 0; i < 3; i++ {
		p, err := env.Database.BackupToDir(ctx)
		require.NoError(t, err)
		assert.FileExists(t, p)
		paths = append(paths, p)
	}

	backups, err := env.Database.ListBackups()
	require.NoError(t, err)
	assert.Len(t, backups, 2, "max_count of 2 keeps the newest two")
	assert.FileExists(t, paths[2])
}

func TestRestore_RoundTrip(t *testing.T) {
	env := setupIntegrationTest(t)
	ctx := context.Background()
	addProduct(t, env, "Rice", "Grains", nil)

	// 1. Take a backup, then change the live data
	var buf bytes.Buffer
	_, err := env.Database.Backup(ctx, &buf)
	require.NoError(t, err)
	require.NoError(t, env.Inventory.DeleteProduct(ctx, "Rice"))

	// 2. Restore brings the old data back through the swapped handle
	require.NoError(t, env.Database.Restore(ctx, &buf))
	p, err := env.Inventory.GetProduct(ctx, "Rice")
	require.NoError(t, err)
	assert.Equal(t, "Grains", p.Category)
	env.Auditor.AssertCalled(t, "Log", "database.restore", DefaultActor, "pantry_data.db")
}

func TestRestore_LegacyFileIsMigrated(t *testing.T) {
	env := setupIntegrationTest(t)
	ctx := context.Background()

	legacy := filepath.Join(t.TempDir(), "legacy.db")
	writeLegacyFile(t, legacy)
	f, err := os.Open(legacy)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, env.Database.Restore(ctx, f))

	p, err := env.Inventory.GetProduct(ctx, "Old Flour")
	require.NoError(t, err)
	assert.Nil(t, p.Barcode)
	assert.Equal(t, "Legacy", p.Category)

	// The restored store accepts the new columns
	_, err = env.Inventory.UpdateProduct(ctx, "Old Flour", models.ProductUpdatePayload{Barcode: strPtr("12345678")})
	assert.NoError(t, err)
}

func TestRestore_RejectsUnmigratableFile(t *testing.T) {
	env := setupIntegrationTest(t)
	ctx := context.Background()
	addProduct(t, env, "Rice", "Grains", nil)

	err := env.Database.Restore(ctx, strings.NewReader("this is not a database, just some text padding it out to a page"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	var migErr *migrator.MigrationError
	assert.True(t, errors.As(err, &migErr))

	// Live store untouched, temp file removed
	_, err = env.Inventory.GetProduct(ctx, "Rice")
	assert.NoError(t, err)
	entries, err := os.ReadDir(filepath.Dir(env.DBPath))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".upload-")
	}
}

func TestReset(t *testing.T) {
	env := setupIntegrationTest(t)
	ctx := context.Background()
	addProduct(t, env, "Rice", "Grains", nil)

	require.NoError(t, env.Database.Reset(ctx))

	products, err := env.Inventory.ListProducts(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, products)
	categories, err := env.Inventory.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)

	// The fresh store is fully usable
	addProduct(t, env, "Oats", "Grains", nil)
	env.Auditor.AssertCalled(t, "Log", "database.reset", DefaultActor, "pantry_data.db")
}

func TestReset_LeavesNoTempFiles(t *testing.T) {
	env := setupIntegrationTest(t)
	ctx := context.Background()
	addProduct(t, env, "Rice", "Grains", nil)

	require.NoError(t, env.Database.Reset(ctx))
	require.NoError(t, env.Database.Reset(ctx))

	entries, err := os.ReadDir(filepath.Dir(env.DBPath))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".upload-")
	}
	_, err = env.Inventory.GetProduct(ctx, "Rice")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBackupResetRestore_PathWithURIReservedCharacters(t *testing.T) {
	env := setupIntegrationTestAt(t, "pan?try#1.db")
	ctx := context.Background()
	addProduct(t, env, "Rice", "Grains", nil)

	// 1. Backup, reset and restore all work on the named file
	var buf bytes.Buffer
	_, err := env.Database.Backup(ctx, &buf)
	require.NoError(t, err)
	require.NoError(t, env.Database.Reset(ctx))
	_, err = env.Inventory.GetProduct(ctx, "Rice")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, env.Database.Restore(ctx, &buf))
	p, err := env.Inventory.GetProduct(ctx, "Rice")
	require.NoError(t, err)
	assert.Equal(t, "Grains", p.Category)

	// 2. No file was created under a truncated name
	entries, err := os.ReadDir(filepath.Dir(env.DBPath))
	require.NoError(t, err)
	for _, e := range entries {
		assert.True(t, strings.HasPrefix(e.Name(), "pan?try#1.db") || e.Name() == "backups", "unexpected file %s", e.Name())
	}
}

func TestReset_ConflictWhenLocked(t *testing.T) {
	env := setupIntegrationTest(t)
	ctx := context.Background()
	addProduct(t, env, "Rice", "Grains", nil)

	held := flock.New(storage.LockPath(env.DBPath))
	locked, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer held.Unlock()

	assert.ErrorIs(t, env.Database.Reset(ctx), ErrConflict)
	assert.ErrorIs(t, env.Database.Restore(ctx, strings.NewReader("x")), ErrConflict)

	// Nothing was deleted
	_, err = env.Inventory.GetProduct(ctx, "Rice")
	assert.NoError(t, err)
}

func TestRecover(t *testing.T) {
	env := setupIntegrationTest(t)
	ctx := context.Background()
	p := addProduct(t, env, "Rice", "Grains", nil)

	db := env.Store.Current().DB
	_, err := db.Exec("DELETE FROM counts WHERE product_id = ?", p.ID)
	require.NoError(t, err)

	report, err := env.Database.Recover(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.CountsCreated)
	assert.Equal(t, 0, report.CountsClamped)
	assert.Empty(t, report.DuplicateBarcodes)
}
