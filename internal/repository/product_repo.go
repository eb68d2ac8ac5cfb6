// filepath: internal/repository/product_repo.go
package repository

import (
	"context"
	"fmt"
	"pantry/internal/models"
	"pantry/internal/shared"

	"github.com/Masterminds/squirrel"
)

// ProductCreateArgs holds the resolved values for a new product row.
type ProductCreateArgs struct {
	Name               string
	URL                string
	CategoryID         int64
	Barcode            *string
	ImageFrontSmallURL *string
}

// ProductUpdateArgs holds the columns to change on a product row.
// Barcode and ImageFrontSmallURL are only written when their Set flag is
// true; a nil value then stores NULL.
type ProductUpdateArgs struct {
	Name                  *string
	URL                   *string
	CategoryID            *int64
	SetBarcode            bool
	Barcode               *string
	SetImageFrontSmallURL bool
	ImageFrontSmallURL    *string
}

func (a ProductUpdateArgs) setMap() map[string]interface{} {
	m := map[string]interface{}{}
	if a.Name != nil {
		m["name"] = *a.Name
	}
	if a.URL != nil {
		m["url"] = *a.URL
	}
	if a.CategoryID != nil {
		m["category_id"] = *a.CategoryID
	}
	if a.SetBarcode {
		m["barcode"] = a.Barcode
	}
	if a.SetImageFrontSmallURL {
		m["image_front_small_url"] = a.ImageFrontSmallURL
	}
	return m
}

// ProductFilter narrows ListProducts. Empty fields match everything.
type ProductFilter struct {
	Category string
}

func (s *Repository) productSelect() squirrel.SelectBuilder {
	return s.Builder.Select(
		"p.id",
		"p.name",
		"p.url",
		"p.category_id",
		"COALESCE(c.name, '') AS category",
		"p.barcode",
		"p.image_front_small_url",
		"COALESCE(n.count, 0) AS count",
	).
		From("products p").
		LeftJoin("categories c ON c.id = p.category_id").
		LeftJoin("counts n ON n.product_id = p.id")
}

// ListProducts returns products joined with their category name and count, ordered by id.
func (s *Repository) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	qb := s.productSelect().OrderBy("p.id")
	if filter.Category != "" {
		qb = qb.Where(squirrel.Eq{"c.name": filter.Category})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	products := []models.Product{}
	if err := s.DB.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProductByName returns the named product or shared.ErrNotFound.
func (s *Repository) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	return s.getProduct(ctx, squirrel.Eq{"p.name": name})
}

// GetProductByBarcode returns the product carrying barcode or shared.ErrNotFound.
// When legacy data holds duplicates the lowest id wins.
func (s *Repository) GetProductByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	return s.getProduct(ctx, squirrel.Eq{"p.barcode": barcode})
}

func (s *Repository) getProduct(ctx context.Context, where squirrel.Sqlizer) (*models.Product, error) {
	query, args, err := s.productSelect().Where(where).OrderBy("p.id").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var p models.Product
	if err := s.DB.GetContext(ctx, &p, query, args...); err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

// CreateProduct inserts a product together with a zero count row.
func (s *Repository) CreateProduct(ctx context.Context, args ProductCreateArgs) (*models.Product, error) {
	var id int64
	err := s.withTx(ctx, func(tx *Tx) error {
		query, qargs, err := tx.Builder.Insert("products").
			Columns("name", "url", "category_id", "barcode", "image_front_small_url").
			Values(args.Name, args.URL, args.CategoryID, args.Barcode, args.ImageFrontSmallURL).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, qargs...)
		if err != nil {
			return mapError(err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return tx.insertCountInTx(ctx, id, 0)
	})
	if err != nil {
		return nil, err
	}
	return s.getProduct(ctx, squirrel.Eq{"p.id": id})
}

// UpdateProduct applies args to the product with the given id.
func (s *Repository) UpdateProduct(ctx context.Context, id int64, args ProductUpdateArgs) (*models.Product, error) {
	set := args.setMap()
	if len(set) > 0 {
		query, qargs, err := s.Builder.Update("products").SetMap(set).Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to build query: %w", err)
		}
		res, err := s.DB.ExecContext(ctx, query, qargs...)
		if err != nil {
			return nil, mapError(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, shared.ErrNotFound
		}
	}
	return s.getProduct(ctx, squirrel.Eq{"p.id": id})
}

// DeleteProduct removes the named product and its count row.
func (s *Repository) DeleteProduct(ctx context.Context, name string) error {
	return s.withTx(ctx, func(tx *Tx) error {
		id, err := tx.productIDInTx(ctx, name)
		if err != nil {
			return err
		}

		query, args, err := tx.Builder.Delete("counts").Where(squirrel.Eq{"product_id": id}).ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return mapError(err)
		}

		query, args, err = tx.Builder.Delete("products").Where(squirrel.Eq{"id": id}).ToSql()
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, args...)
		return mapError(err)
	})
}
