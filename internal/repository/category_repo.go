// filepath: internal/repository/category_repo.go
package repository

import (
	"context"
	"fmt"
	"pantry/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/patrickmn/go-cache"
)

func categoryCacheKey(name string) string {
	return "category:" + name
}

// ListCategories returns all categories ordered by id.
func (s *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	query, args, err := s.Builder.Select("id", "name").From("categories").OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	categories := []models.Category{}
	if err := s.DB.SelectContext(ctx, &categories, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetCategoryByName returns the named category or shared.ErrNotFound.
func (s *Repository) GetCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	if cached, found := s.Cache.Get(categoryCacheKey(name)); found {
		c := cached.(models.Category)
		return &c, nil
	}

	query, args, err := s.Builder.Select("id", "name").From("categories").Where(squirrel.Eq{"name": name}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var c models.Category
	if err := s.DB.GetContext(ctx, &c, query, args...); err != nil {
		return nil, mapError(err)
	}
	s.Cache.Set(categoryCacheKey(name), c, cache.DefaultExpiration)
	return &c, nil
}

// CreateCategory inserts a new category. A duplicate name yields shared.ErrDuplicate.
func (s *Repository) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	query, args, err := s.Builder.Insert("categories").Columns("name").Values(name).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read category id: %w", err)
	}
	return &models.Category{ID: id, Name: name}, nil
}

// EnsureCategory returns the named category, creating it if it does not exist.
func (s *Repository) EnsureCategory(ctx context.Context, name string) (*models.Category, bool, error) {
	var (
		id      int64
		created bool
	)
	err := s.withTx(ctx, func(tx *Tx) error {
		var err error
		id, created, err = tx.ensureCategoryInTx(ctx, name)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return &models.Category{ID: id, Name: name}, created, nil
}

// DeleteCategoryReassign deletes the named category after moving its
// products to the fallback category, which is created if missing.
// It returns the number of products that were moved.
func (s *Repository) DeleteCategoryReassign(ctx context.Context, name, fallback string) (int64, error) {
	var moved int64
	err := s.withTx(ctx, func(tx *Tx) error {
		// 1. Resolve the category being removed
		id, err := tx.categoryIDInTx(ctx, name)
		if err != nil {
			return err
		}

		// 2. Make sure the fallback exists
		fallbackID, _, err := tx.ensureCategoryInTx(ctx, fallback)
		if err != nil {
			return fmt.Errorf("failed to ensure category %q: %w", fallback, err)
		}

		// 3. Move products
		query, args, err := tx.Builder.Update("products").
			Set("category_id", fallbackID).
			Where(squirrel.Eq{"category_id": id}).ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return mapError(err)
		}
		moved, _ = res.RowsAffected()

		// 4. Delete the category
		query, args, err = tx.Builder.Delete("categories").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return mapError(err)
	})
	if err != nil {
		return 0, err
	}

	s.Cache.Delete(categoryCacheKey(name))
	return moved, nil
}
