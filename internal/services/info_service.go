// filepath: internal/services/info_service.go
package services

import (
	"context"
	"pantry/internal/models"
	"pantry/internal/repository"
)

var _ InfoService = (*infoService)(nil)

type infoService struct {
	Version string
	Store   *repository.Store
}

// NewInfoService creates a new InfoService.
func NewInfoService(version string, store *repository.Store) *infoService {
	return &infoService{
		Version: version,
		Store:   store,
	}
}

// GetInfo reports the health of the store and a summary of its contents.
// An unreachable database yields status "unhealthy" together with the error.
func (s *infoService) GetInfo(ctx context.Context) (*models.Info, error) {
	repo := s.Store.Current()
	info := &models.Info{
		ServiceName:  "Pantry",
		Version:      s.Version,
		Status:       "unhealthy",
		DatabasePath: repo.Path,
	}

	if err := repo.Ping(ctx); err != nil {
		return info, err
	}

	categories, err := repo.ListCategories(ctx)
	if err != nil {
		return info, err
	}
	products, err := repo.ListProducts(ctx, repository.ProductFilter{})
	if err != nil {
		return info, err
	}
	duplicates, err := repo.DuplicateBarcodes(ctx)
	if err != nil {
		return info, err
	}

	info.Status = "healthy"
	info.Categories = len(categories)
	info.Products = len(products)
	info.DuplicateBarcodes = duplicates
	return info, nil
}
