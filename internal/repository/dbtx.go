// filepath: internal/repository/dbtx.go
package repository

import (
	"context"
	"errors"
	"fmt"
	"pantry/internal/shared"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// Tx is a wrapper around *sqlx.Tx that provides transactional database operations.
type Tx struct {
	*sqlx.Tx
	Builder squirrel.StatementBuilderType
}

// withTx runs fn in a transaction. The transaction is committed if fn
// returns nil and rolled back otherwise.
func (s *Repository) withTx(ctx context.Context, fn func(tx *Tx) error) error {
	sqlTx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback() // Rollback on any error

	if err := fn(&Tx{Tx: sqlTx, Builder: s.Builder}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// categoryIDInTx looks up a category id by name.
func (tx *Tx) categoryIDInTx(ctx context.Context, name string) (int64, error) {
	query, args, err := tx.Builder.Select("id").From("categories").Where(squirrel.Eq{"name": name}).ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// ensureCategoryInTx returns the id of the named category, creating it if needed.
func (tx *Tx) ensureCategoryInTx(ctx context.Context, name string) (int64, bool, error) {
	id, err := tx.categoryIDInTx(ctx, name)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return 0, false, err
	}

	query, args, err := tx.Builder.Insert("categories").Columns("name").Values(name).ToSql()
	if err != nil {
		return 0, false, err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, false, mapError(err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// productIDInTx looks up a product id by name.
func (tx *Tx) productIDInTx(ctx context.Context, name string) (int64, error) {
	query, args, err := tx.Builder.Select("id").From("products").Where(squirrel.Eq{"name": name}).ToSql()
	if err != nil {
		return 0, err
	}
	var id int64
	if err := tx.GetContext(ctx, &id, query, args...); err != nil {
		return 0, mapError(err)
	}
	return id, nil
}

// insertCountInTx creates the count row of a product.
func (tx *Tx) insertCountInTx(ctx context.Context, productID int64, count int) error {
	query, args, err := tx.Builder.Insert("counts").Columns("product_id", "count").Values(productID, count).ToSql()
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return mapError(err)
}
