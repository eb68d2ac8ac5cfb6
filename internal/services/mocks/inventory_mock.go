// filepath: internal/services/mocks/inventory_mock.go
package mocks

import (
	"context"
	"pantry/internal/models"
	"pantry/internal/services"

	"github.com/stretchr/testify/mock"
)

// MockInventoryService is a mock implementation of services.InventoryService
type MockInventoryService struct {
	mock.Mock
}

var _ services.InventoryService = (*MockInventoryService)(nil)

func (m *MockInventoryService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Category), args.Error(1)
}

func (m *MockInventoryService) AddCategory(ctx context.Context, payload models.CategoryCreatePayload) (*models.Category, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockInventoryService) DeleteCategory(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockInventoryService) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockInventoryService) GetProduct(ctx context.Context, name string) (*models.Product, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockInventoryService) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockInventoryService) AddProduct(ctx context.Context, payload models.ProductCreatePayload) (*models.Product, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockInventoryService) UpdateProduct(ctx context.Context, name string, payload models.ProductUpdatePayload) (*models.Product, error) {
	args := m.Called(ctx, name, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockInventoryService) DeleteProduct(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockInventoryService) UpdateCount(ctx context.Context, name string, action string, amount int) (int, error) {
	args := m.Called(ctx, name, action, amount)
	return args.Int(0), args.Error(1)
}

func (m *MockInventoryService) Counts(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}
