// filepath: internal/repository/recovery_repo_test.go
package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixMissingCounts(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// 1. Two products, one of them loses its count row (bypassing the repository)
	milk := seedProduct(t, repo, "Milk", "Dairy", nil)
	seedProduct(t, repo, "Butter", "Dairy", nil)
	_, err := repo.DB.Exec("DELETE FROM counts WHERE product_id = ?", milk.ID)
	require.NoError(t, err)

	// 2. Run recovery
	fixed, err := repo.FixMissingCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed, "Should have created exactly 1 count row")

	// 3. Second run is a no-op
	fixed, err = repo.FixMissingCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, fixed)

	var count int
	require.NoError(t, repo.DB.Get(&count, "SELECT count FROM counts WHERE product_id = ?", milk.ID))
	assert.Equal(t, 0, count)
}

func TestClampNegativeCounts(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	p := seedProduct(t, repo, "Eggs", "Dairy", nil)
	_, err := repo.DB.Exec("UPDATE counts SET count = -4 WHERE product_id = ?", p.ID)
	require.NoError(t, err)

	n, err := repo.ClampNegativeCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := repo.GetProductByName(ctx, "Eggs")
	require.NoError(t, err)
	assert.Equal(t, 0, got.Count)
}

func TestRemoveOrphanCounts(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	seedProduct(t, repo, "Jam", "Spreads", nil)
	// Foreign keys are on; insert the orphan with them disabled for this statement batch.
	_, err := repo.DB.Exec("PRAGMA foreign_keys = OFF")
	require.NoError(t, err)
	_, err = repo.DB.Exec("INSERT INTO counts (product_id, count) VALUES (4242, 7)")
	require.NoError(t, err)
	_, err = repo.DB.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)

	n, err := repo.RemoveOrphanCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	counts, err := repo.ListCounts(ctx)
	require.NoError(t, err)
	assert.Len(t, counts, 1)
}

func TestDuplicateBarcodes(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	seedProduct(t, repo, "A", "X", strPtr("11111111"))
	seedProduct(t, repo, "B", "X", nil)
	seedProduct(t, repo, "C", "X", nil)

	dups, err := repo.DuplicateBarcodes(ctx)
	require.NoError(t, err)
	assert.Empty(t, dups, "NULL barcodes are never duplicates")

	// Legacy stores may lack the unique index; simulate one
	_, err = repo.DB.Exec("DROP INDEX ux_products_barcode")
	require.NoError(t, err)
	_, err = repo.DB.Exec("UPDATE products SET barcode = '11111111' WHERE name = 'B'")
	require.NoError(t, err)

	dups, err = repo.DuplicateBarcodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"11111111"}, dups)

	// Lowest id wins on lookup
	p, err := repo.GetProductByBarcode(ctx, "11111111")
	require.NoError(t, err)
	assert.Equal(t, "A", p.Name)
}

func TestSnapshotTo(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	seedProduct(t, repo, "Honey", "Spreads", strPtr("40001234"))
	_, err := repo.AdjustCount(ctx, "Honey", 3)
	require.NoError(t, err)

	// 1. The snapshot is a standalone database carrying the same rows
	target := filepath.Join(t.TempDir(), "snap.db")
	require.NoError(t, repo.SnapshotTo(ctx, target))

	snap, err := Open(target)
	require.NoError(t, err)
	defer snap.Close()

	p, err := snap.GetProductByName(ctx, "Honey")
	require.NoError(t, err)
	assert.Equal(t, "Spreads", p.Category)
	assert.Equal(t, 3, p.Count)

	// 2. VACUUM INTO refuses to overwrite an existing file
	assert.Error(t, repo.SnapshotTo(ctx, target))
}
