// filepath: internal/repository/repository_test.go
package repository

import (
	"context"
	"os"
	"path/filepath"
	"pantry/internal/migrator"
	"pantry/internal/models"
	"pantry/internal/shared"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "pantry_data.db")

	if err := migrator.Migrate(context.Background(), dbPath); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	repo, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open repository: %v", err)
	}

	cleanup := func() {
		repo.Close()
	}
	return repo, cleanup
}

func strPtr(s string) *string { return &s }

func seedProduct(t *testing.T, repo *Repository, name, category string, barcode *string) *models.Product {
	t.Helper()
	ctx := context.Background()
	cat, _, err := repo.EnsureCategory(ctx, category)
	require.NoError(t, err)
	p, err := repo.CreateProduct(ctx, ProductCreateArgs{
		Name:       name,
		URL:        "http://img.example/" + name + ".jpg",
		CategoryID: cat.ID,
		Barcode:    barcode,
	})
	require.NoError(t, err)
	return p
}

func TestOpen_Tables(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	for _, table := range []string{"categories", "products", "counts"} {
		var name string
		err := repo.DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s should exist", table)
	}
}

func TestCategoryCRUD(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// 1. Create
	c, err := repo.CreateCategory(ctx, "Spices")
	require.NoError(t, err)
	assert.NotZero(t, c.ID)

	// 2. Duplicate name
	_, err = repo.CreateCategory(ctx, "Spices")
	assert.ErrorIs(t, err, shared.ErrDuplicate)

	// 3. Lookup (second call is served from cache)
	got, err := repo.GetCategoryByName(ctx, "Spices")
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	_, found := repo.Cache.Get(categoryCacheKey("Spices"))
	assert.True(t, found)

	_, err = repo.GetCategoryByName(ctx, "Nope")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// 4. Ensure is get-or-create
	again, created, err := repo.EnsureCategory(ctx, "Spices")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, c.ID, again.ID)

	fresh, created, err := repo.EnsureCategory(ctx, "Grains")
	require.NoError(t, err)
	assert.True(t, created)

	list, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Spices", list[0].Name)
	assert.Equal(t, fresh.ID, list[1].ID)
}

func TestDeleteCategoryReassign(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	seedProduct(t, repo, "Pepper", "Spices", nil)
	seedProduct(t, repo, "Salt", "Spices", nil)
	seedProduct(t, repo, "Rice", "Grains", nil)
	_, err := repo.GetCategoryByName(ctx, "Spices")
	require.NoError(t, err)

	moved, err := repo.DeleteCategoryReassign(ctx, "Spices", models.UncategorizedName)
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)

	// Cache entry is invalidated
	_, err = repo.GetCategoryByName(ctx, "Spices")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	products, err := repo.ListProducts(ctx, ProductFilter{Category: models.UncategorizedName})
	require.NoError(t, err)
	assert.Len(t, products, 2)

	_, err = repo.DeleteCategoryReassign(ctx, "Spices", models.UncategorizedName)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProductCRUD(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// 1. Create with a zero count
	p := seedProduct(t, repo, "Rice", "Grains", strPtr("12345678"))
	assert.Equal(t, "Grains", p.Category)
	assert.Equal(t, 0, p.Count)
	require.NotNil(t, p.Barcode)
	assert.Equal(t, "12345678", *p.Barcode)

	// 2. Duplicate name and barcode
	_, err := repo.CreateProduct(ctx, ProductCreateArgs{Name: "Rice", URL: "http://x/a.jpg", CategoryID: p.CategoryID})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
	_, err = repo.CreateProduct(ctx, ProductCreateArgs{Name: "Oats", URL: "http://x/a.jpg", CategoryID: p.CategoryID, Barcode: strPtr("12345678")})
	assert.ErrorIs(t, err, shared.ErrDuplicate)

	// 3. Unknown category
	_, err = repo.CreateProduct(ctx, ProductCreateArgs{Name: "Oats", URL: "http://x/a.jpg", CategoryID: 999})
	assert.ErrorIs(t, err, shared.ErrInvalidReference)

	// 4. Lookups
	byBarcode, err := repo.GetProductByBarcode(ctx, "12345678")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byBarcode.ID)
	_, err = repo.GetProductByName(ctx, "Missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// 5. Update: rename and clear barcode
	newName := "Basmati"
	updated, err := repo.UpdateProduct(ctx, p.ID, ProductUpdateArgs{Name: &newName, SetBarcode: true})
	require.NoError(t, err)
	assert.Equal(t, "Basmati", updated.Name)
	assert.Nil(t, updated.Barcode)
	assert.Equal(t, p.URL, updated.URL)

	_, err = repo.UpdateProduct(ctx, 999, ProductUpdateArgs{Name: &newName})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// 6. Delete removes the count row too
	require.NoError(t, repo.DeleteProduct(ctx, "Basmati"))
	var n int
	require.NoError(t, repo.DB.Get(&n, "SELECT COUNT(*) FROM counts"))
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, repo.DeleteProduct(ctx, "Basmati"), shared.ErrNotFound)
}

func TestAdjustCount(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	p := seedProduct(t, repo, "Beans", "Cans", nil)

	v, err := repo.AdjustCount(ctx, "Beans", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	v, err = repo.AdjustCount(ctx, "Beans", -5)
	require.NoError(t, err)
	assert.Equal(t, 0, v, "count is clamped at zero")

	// Missing count row is created on demand
	_, err = repo.DB.Exec("DELETE FROM counts WHERE product_id = ?", p.ID)
	require.NoError(t, err)
	v, err = repo.AdjustCount(ctx, "Beans", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = repo.AdjustCount(ctx, "Nope", 1)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	counts, err := repo.ListCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, models.Count{ProductID: p.ID, ProductName: "Beans", Count: 2}, counts[0])
}

func TestStoreSwap(t *testing.T) {
	repo, _ := setupTestDB(t)
	store := NewStore(repo)
	defer store.Close()
	ctx := context.Background()

	seedProduct(t, store.Current(), "Tea", "Drinks", nil)

	// 1. A failed replacement keeps the previous data reachable
	err := store.Swap(func() (*Repository, error) { return nil, assert.AnError })
	assert.ErrorIs(t, err, assert.AnError)
	_, err = store.Current().GetProductByName(ctx, "Tea")
	assert.NoError(t, err)

	// 2. A successful replacement installs the new repository
	otherPath := filepath.Join(t.TempDir(), "other.db")
	require.NoError(t, migrator.Migrate(ctx, otherPath))
	err = store.Swap(func() (*Repository, error) { return Open(otherPath) })
	require.NoError(t, err)
	assert.Equal(t, otherPath, store.Current().Path)
	_, err = store.Current().GetProductByName(ctx, "Tea")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestStoreSwap_FailureAfterRemovingFile(t *testing.T) {
	repo, _ := setupTestDB(t)
	store := NewStore(repo)
	defer store.Close()
	ctx := context.Background()
	path := repo.Path

	seedProduct(t, store.Current(), "Tea", "Drinks", nil)

	// 1. The replacement deletes the live file and then fails
	err := store.Swap(func() (*Repository, error) {
		require.NoError(t, os.Remove(path))
		return nil, assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	// 2. The store serves a migrated, empty file instead of a table-less one
	require.NotNil(t, store.Current())
	_, err = os.Stat(path)
	require.NoError(t, err)
	products, err := store.Current().ListProducts(ctx, ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, products)

	cat, err := store.Current().CreateCategory(ctx, "Drinks")
	require.NoError(t, err)
	assert.Equal(t, "Drinks", cat.Name)
}

func TestOpen_PathWithURIReservedCharacters(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "pan?try#1.db")
	require.NoError(t, migrator.Migrate(ctx, path))

	repo, err := Open(path)
	require.NoError(t, err)
	seedProduct(t, repo, "Tea", "Drinks", nil)
	require.NoError(t, repo.Close())

	// The data lives in the named file and survives a reopen
	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()
	p, err := reopened.GetProductByName(ctx, "Tea")
	require.NoError(t, err)
	assert.Equal(t, "Drinks", p.Category)
}
