// filepath: internal/initconfig/init.go
package initconfig

import (
	"context"
	"errors"
	"fmt"
	"os"
	"pantry/internal/logging"
	"pantry/internal/models"
	"pantry/internal/services"

	"github.com/BurntSushi/toml"
)

// Run seeds categories and products from the TOML file at configPath.
// Entries that already exist are skipped; failures are logged and skipped.
func Run(ctx context.Context, inv services.InventoryService, configPath string) (*Result, error) {
	logging.Log.Infof("Initialization file found at: %s. Processing...", configPath)

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read init file '%s': %w", configPath, err)
	}

	var config InitConfig
	if _, err := toml.Decode(string(data), &config); err != nil {
		return nil, fmt.Errorf("failed to parse TOML init file '%s': %w", configPath, err)
	}

	logging.Log.Infof("Found %d categories and %d products in init file.", len(config.Categories), len(config.Products))

	result := &Result{}
	processCategories(ctx, inv, config.Categories, result)
	processProducts(ctx, inv, config.Products, result)
	return result, nil
}

// processCategories creates the categories that don't exist yet.
func processCategories(ctx context.Context, inv services.InventoryService, categories []InitCategory, result *Result) {
	for _, c := range categories {
		if c.Name == "" {
			logging.Log.Warnf("Skipping category with empty name.")
			result.Failed++
			continue
		}

		_, err := inv.AddCategory(ctx, models.CategoryCreatePayload{Name: c.Name})
		switch {
		case err == nil:
			logging.Log.Infof("Successfully created category: '%s'", c.Name)
			result.CategoriesCreated++
		case errors.Is(err, services.ErrConflict):
			logging.Log.Infof("Skipping category: '%s' already exists.", c.Name)
			result.Skipped++
		default:
			logging.Log.Errorf("Failed to create category '%s': %v", c.Name, err)
			result.Failed++
		}
	}
}

// processProducts creates the products that don't exist yet and applies their starting count.
func processProducts(ctx context.Context, inv services.InventoryService, products []InitProduct, result *Result) {
	for _, p := range products {
		if p.Name == "" {
			logging.Log.Warnf("Skipping product with empty name.")
			result.Failed++
			continue
		}

		_, err := inv.GetProduct(ctx, p.Name)
		if err == nil {
			// No error means the product was found
			logging.Log.Infof("Skipping product: '%s' already exists.", p.Name)
			result.Skipped++
			continue
		}
		if !errors.Is(err, services.ErrNotFound) {
			logging.Log.Errorf("Failed to check if product '%s' exists: %v", p.Name, err)
			result.Failed++
			continue
		}

		payload := models.ProductCreatePayload{
			Name:               p.Name,
			URL:                p.URL,
			Category:           p.Category,
			Barcode:            p.Barcode,
			ImageFrontSmallURL: p.ImageFrontSmallURL,
		}
		if _, err := inv.AddProduct(ctx, payload); err != nil {
			// The service already did the validation, so we just log the error
			logging.Log.Errorf("Failed to create product '%s': %v", p.Name, err)
			result.Failed++
			continue
		}
		logging.Log.Infof("Successfully created product: '%s'", p.Name)
		result.ProductsCreated++

		if p.Count > 0 {
			if _, err := inv.UpdateCount(ctx, p.Name, models.ActionIncrease, p.Count); err != nil {
				logging.Log.Warnf("Failed to set starting count for '%s': %v", p.Name, err)
			}
		}
	}
}
