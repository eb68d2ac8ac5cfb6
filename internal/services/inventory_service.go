// filepath: internal/services/inventory_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"pantry/internal/logging"
	"pantry/internal/models"
	"pantry/internal/repository"
	"pantry/internal/shared"
	"strings"
)

var _ InventoryService = (*inventoryService)(nil)

// inventoryService handles business logic for categories, products and counts.
type inventoryService struct {
	Store   *repository.Store
	Auditor Auditor
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(store *repository.Store, auditor Auditor) *inventoryService {
	return &inventoryService{
		Store:   store,
		Auditor: auditor,
	}
}

// EntityID derives the sensor entity id published for a product.
func EntityID(name string) string {
	id := strings.ToLower(name)
	id = strings.ReplaceAll(id, " ", "_")
	id = strings.ReplaceAll(id, "-", "_")
	return "sensor.product_" + id
}

// === Categories ===

func (s *inventoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.Store.Current().ListCategories(ctx)
}

// AddCategory creates a category. A duplicate name yields ErrConflict.
func (s *inventoryService) AddCategory(ctx context.Context, payload models.CategoryCreatePayload) (*models.Category, error) {
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	name := strings.TrimSpace(payload.Name)

	c, err := s.Store.Current().CreateCategory(ctx, name)
	if err != nil {
		logging.Log.Warnf("InventoryService: Failed to add category '%s': %v", name, err)
		return nil, mapRepoError(err, fmt.Sprintf("category %q", name))
	}

	logging.Log.Infof("InventoryService: Added category: %s", name)
	return c, nil
}

// DeleteCategory deletes a category after moving its products to the
// Uncategorized category.
func (s *inventoryService) DeleteCategory(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if name == models.UncategorizedName {
		return fmt.Errorf("%w: the %s category cannot be deleted", ErrValidation, models.UncategorizedName)
	}

	moved, err := s.Store.Current().DeleteCategoryReassign(ctx, name, models.UncategorizedName)
	if err != nil {
		logging.Log.Warnf("InventoryService: Failed to delete category '%s': %v", name, err)
		return mapRepoError(err, fmt.Sprintf("category %q", name))
	}

	logging.Log.Infof("InventoryService: Deleted category '%s', %d products moved to '%s'", name, moved, models.UncategorizedName)
	s.Auditor.Log(ctx, "category.delete", ActorFromContext(ctx), name, map[string]interface{}{
		"products_reassigned": moved,
	})
	return nil
}

// === Products ===

func (s *inventoryService) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	return s.Store.Current().ListProducts(ctx, repository.ProductFilter{Category: category})
}

func (s *inventoryService) GetProduct(ctx context.Context, name string) (*models.Product, error) {
	p, err := s.Store.Current().GetProductByName(ctx, name)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("product %q", name))
	}
	return p, nil
}

func (s *inventoryService) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	if err := models.ValidateBarcode(barcode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	p, err := s.Store.Current().GetProductByBarcode(ctx, barcode)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("barcode %q", barcode))
	}
	return p, nil
}

// AddProduct creates a product in an existing category with a zero count.
func (s *inventoryService) AddProduct(ctx context.Context, payload models.ProductCreatePayload) (*models.Product, error) {
	// 1. Validate payload
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	repo := s.Store.Current()
	name := strings.TrimSpace(payload.Name)

	// 2. Category must exist
	category, err := repo.GetCategoryByName(ctx, payload.Category)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %q does not exist", ErrValidation, payload.Category)
		}
		return nil, err
	}

	// 3. Barcode must be unused, including on stores whose barcode index is absent
	if payload.Barcode != nil {
		if err := s.checkBarcodeFree(ctx, repo, *payload.Barcode, 0); err != nil {
			return nil, err
		}
	}

	// 4. Create the product and its count row
	p, err := repo.CreateProduct(ctx, repository.ProductCreateArgs{
		Name:               name,
		URL:                strings.TrimSpace(payload.URL),
		CategoryID:         category.ID,
		Barcode:            payload.Barcode,
		ImageFrontSmallURL: payload.ImageFrontSmallURL,
	})
	if err != nil {
		logging.Log.Warnf("InventoryService: Failed to add product '%s': %v", name, err)
		return nil, mapRepoError(err, fmt.Sprintf("product %q", name))
	}

	logging.Log.Infof("InventoryService: Added product: %s", name)
	return p, nil
}

// UpdateProduct applies a partial update to the named product. An empty
// barcode or image URL clears the stored value.
func (s *inventoryService) UpdateProduct(ctx context.Context, name string, payload models.ProductUpdatePayload) (*models.Product, error) {
	// 1. Validate payload
	if payload.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if err := payload.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	repo := s.Store.Current()

	// 2. Get existing product
	existing, err := repo.GetProductByName(ctx, name)
	if err != nil {
		return nil, mapRepoError(err, fmt.Sprintf("product %q", name))
	}

	// 3. Resolve the changes
	args := repository.ProductUpdateArgs{}
	if payload.Name != nil {
		trimmed := strings.TrimSpace(*payload.Name)
		args.Name = &trimmed
	}
	if payload.URL != nil {
		trimmed := strings.TrimSpace(*payload.URL)
		args.URL = &trimmed
	}
	if payload.Category != nil {
		category, err := repo.GetCategoryByName(ctx, *payload.Category)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, fmt.Errorf("%w: category %q does not exist", ErrValidation, *payload.Category)
			}
			return nil, err
		}
		args.CategoryID = &category.ID
	}
	if payload.Barcode != nil {
		args.SetBarcode = true
		if *payload.Barcode != "" {
			if err := s.checkBarcodeFree(ctx, repo, *payload.Barcode, existing.ID); err != nil {
				return nil, err
			}
			args.Barcode = payload.Barcode
		}
	}
	if payload.ImageFrontSmallURL != nil {
		args.SetImageFrontSmallURL = true
		if *payload.ImageFrontSmallURL != "" {
			args.ImageFrontSmallURL = payload.ImageFrontSmallURL
		}
	}

	// 4. Persist
	updated, err := repo.UpdateProduct(ctx, existing.ID, args)
	if err != nil {
		logging.Log.Warnf("InventoryService: Failed to update product '%s': %v", name, err)
		return nil, mapRepoError(err, fmt.Sprintf("product %q", name))
	}

	logging.Log.Infof("InventoryService: Updated product: %s", updated.Name)
	return updated, nil
}

// DeleteProduct deletes the named product and its count.
func (s *inventoryService) DeleteProduct(ctx context.Context, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: product name is required", ErrValidation)
	}
	if err := s.Store.Current().DeleteProduct(ctx, name); err != nil {
		logging.Log.Warnf("InventoryService: Failed to delete product '%s': %v", name, err)
		return mapRepoError(err, fmt.Sprintf("product %q", name))
	}

	logging.Log.Infof("InventoryService: Deleted product: %s", name)
	s.Auditor.Log(ctx, "product.delete", ActorFromContext(ctx), name, nil)
	return nil
}

// checkBarcodeFree fails with ErrConflict when another product holds barcode.
func (s *inventoryService) checkBarcodeFree(ctx context.Context, repo *repository.Repository, barcode string, selfID int64) error {
	holder, err := repo.GetProductByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil
		}
		return err
	}
	if holder.ID != selfID {
		return fmt.Errorf("%w: barcode %q is already used by %q", ErrConflict, barcode, holder.Name)
	}
	return nil
}

// === Counts ===

// UpdateCount increases or decreases the count of a product by amount and
// returns the new value. Decreases stop at zero.
func (s *inventoryService) UpdateCount(ctx context.Context, name string, action string, amount int) (int, error) {
	if strings.TrimSpace(name) == "" || action == "" {
		return 0, fmt.Errorf("%w: product name and action are required", ErrValidation)
	}
	if amount < 1 {
		return 0, fmt.Errorf("%w: amount must be at least 1, got %d", ErrValidation, amount)
	}

	var delta int
	switch action {
	case models.ActionIncrease:
		delta = amount
	case models.ActionDecrease:
		delta = -amount
	default:
		return 0, fmt.Errorf("%w: invalid action %q", ErrValidation, action)
	}

	count, err := s.Store.Current().AdjustCount(ctx, name, delta)
	if err != nil {
		logging.Log.Warnf("InventoryService: Failed to update count for '%s': %v", name, err)
		return 0, mapRepoError(err, fmt.Sprintf("product %q", name))
	}

	logging.Log.Infof("InventoryService: Updated count for %s: %d", name, count)
	return count, nil
}

// Counts returns every product count keyed by its entity id.
func (s *inventoryService) Counts(ctx context.Context) (map[string]int, error) {
	counts, err := s.Store.Current().ListCounts(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]int, len(counts))
	for _, c := range counts {
		result[EntityID(c.ProductName)] = c.Count
	}
	return result, nil
}
