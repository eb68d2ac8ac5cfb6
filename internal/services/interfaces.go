// filepath: internal/services/interfaces.go
package services

import (
	"context"
	"io"
	"pantry/internal/models"
)

// Auditor defines the interface for recording state-changing events.
type Auditor interface {
	// Log records an event.
	// ctx: context carrying the actor (if available)
	// action: what happened (e.g., "category.delete", "database.reset")
	// actor: who did it
	// resource: what was affected (e.g., "Spices", "pantry_data.db")
	// details: structured metadata about the event
	Log(ctx context.Context, action string, actor string, resource string, details map[string]interface{})
}

// InfoService defines the interface for the info service.
type InfoService interface {
	GetInfo(ctx context.Context) (*models.Info, error)
}

// InventoryService defines the interface for categories, products and counts.
type InventoryService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	AddCategory(ctx context.Context, payload models.CategoryCreatePayload) (*models.Category, error)
	DeleteCategory(ctx context.Context, name string) error
	ListProducts(ctx context.Context, category string) ([]models.Product, error)
	GetProduct(ctx context.Context, name string) (*models.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	AddProduct(ctx context.Context, payload models.ProductCreatePayload) (*models.Product, error)
	UpdateProduct(ctx context.Context, name string, payload models.ProductUpdatePayload) (*models.Product, error)
	DeleteProduct(ctx context.Context, name string) error
	UpdateCount(ctx context.Context, name string, action string, amount int) (int, error)
	Counts(ctx context.Context) (map[string]int, error)
}

// DatabaseService defines the interface for whole-file operations on the store.
type DatabaseService interface {
	Backup(ctx context.Context, w io.Writer) (int64, error)
	BackupToDir(ctx context.Context) (string, error)
	ListBackups() ([]models.BackupInfo, error)
	Restore(ctx context.Context, r io.Reader) error
	Reset(ctx context.Context) error
	Recover(ctx context.Context) (*models.RecoveryReport, error)
}

// HousekeepingService defines the interface for the housekeeping service.
type HousekeepingService interface {
	Start()
	Stop()
	TriggerRetention() (*models.RetentionReport, error)
}
