// filepath: internal/repository/recovery_repo.go
package repository

import (
	"context"
	"fmt"
	"pantry/internal/logging"
)

// FixMissingCounts creates a zero count row for every product that has none.
// It returns the number of rows created.
func (s *Repository) FixMissingCounts(ctx context.Context) (int, error) {
	result, err := s.DB.ExecContext(ctx, `
		INSERT INTO counts (product_id, count)
		SELECT p.id, 0 FROM products p
		WHERE NOT EXISTS (SELECT 1 FROM counts n WHERE n.product_id = p.id)`)
	if err != nil {
		return 0, fmt.Errorf("failed to create missing counts: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		logging.Log.Infof("Created %d missing count rows", rowsAffected)
	}
	return int(rowsAffected), nil
}

// ClampNegativeCounts resets negative counts to zero.
func (s *Repository) ClampNegativeCounts(ctx context.Context) (int, error) {
	query, args, err := s.Builder.Update("counts").Set("count", 0).Where("count < 0").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build query: %w", err)
	}
	result, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clamp counts: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		logging.Log.Infof("Reset %d negative counts to zero", rowsAffected)
	}
	return int(rowsAffected), nil
}

// RemoveOrphanCounts deletes count rows whose product no longer exists.
func (s *Repository) RemoveOrphanCounts(ctx context.Context) (int, error) {
	result, err := s.DB.ExecContext(ctx, `
		DELETE FROM counts
		WHERE NOT EXISTS (SELECT 1 FROM products p WHERE p.id = counts.product_id)`)
	if err != nil {
		return 0, fmt.Errorf("failed to remove orphan counts: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		logging.Log.Infof("Removed %d orphan count rows", rowsAffected)
	}
	return int(rowsAffected), nil
}

// SnapshotTo writes a consistent copy of the database to path.
func (s *Repository) SnapshotTo(ctx context.Context, path string) error {
	if _, err := s.DB.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return fmt.Errorf("failed to snapshot database to %s: %w", path, err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Repository) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// DuplicateBarcodes returns barcodes shared by more than one product.
func (s *Repository) DuplicateBarcodes(ctx context.Context) ([]string, error) {
	query, args, err := s.Builder.Select("barcode").From("products").
		Where("barcode IS NOT NULL").
		GroupBy("barcode").
		Having("COUNT(*) > 1").
		OrderBy("barcode").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	barcodes := []string{}
	if err := s.DB.SelectContext(ctx, &barcodes, query, args...); err != nil {
		return nil, fmt.Errorf("failed to find duplicate barcodes: %w", err)
	}
	return barcodes, nil
}
