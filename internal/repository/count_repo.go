// filepath: internal/repository/count_repo.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"pantry/internal/models"

	"github.com/Masterminds/squirrel"
)

// ListCounts returns the count of every product, ordered by product id.
// Products without a count row are reported as zero.
func (s *Repository) ListCounts(ctx context.Context) ([]models.Count, error) {
	query, args, err := s.Builder.Select(
		"p.id AS product_id",
		"p.name AS product_name",
		"COALESCE(n.count, 0) AS count",
	).
		From("products p").
		LeftJoin("counts n ON n.product_id = p.id").
		OrderBy("p.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	counts := []models.Count{}
	if err := s.DB.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list counts: %w", err)
	}
	return counts, nil
}

// AdjustCount adds delta to the count of the named product and returns the
// new value. The count never drops below zero and a missing count row is
// created on the fly.
func (s *Repository) AdjustCount(ctx context.Context, name string, delta int) (int, error) {
	var result int
	err := s.withTx(ctx, func(tx *Tx) error {
		// 1. Resolve product
		productID, err := tx.productIDInTx(ctx, name)
		if err != nil {
			return err
		}

		// 2. Read the current value
		query, args, err := tx.Builder.Select("count").From("counts").Where(squirrel.Eq{"product_id": productID}).ToSql()
		if err != nil {
			return err
		}
		var current int
		err = tx.GetContext(ctx, &current, query, args...)
		missing := errors.Is(err, sql.ErrNoRows)
		if err != nil && !missing {
			return fmt.Errorf("failed to read count: %w", err)
		}

		// 3. Clamp and write
		result = current + delta
		if result < 0 {
			result = 0
		}
		if missing {
			return tx.insertCountInTx(ctx, productID, result)
		}

		query, args, err = tx.Builder.Update("counts").
			Set("count", result).
			Where(squirrel.Eq{"product_id": productID}).ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return mapError(err)
	})
	if err != nil {
		return 0, err
	}
	return result, nil
}
