package usecase

import (
	"context"

	"github.com/safetrack/ppeorder/internal/domain/model"
	"github.com/safetrack/ppeorder/internal/domain/repository"
)

// CatalogUseCase exposes the read-only catalog and its import path.
type CatalogUseCase struct {
	catalog repository.CatalogRepository
}

// NewCatalogUseCase constructs CatalogUseCase.
func NewCatalogUseCase(catalog repository.CatalogRepository) *CatalogUseCase {
	return &CatalogUseCase{catalog: catalog}
}

// List returns all catalog items.
func (u *CatalogUseCase) List(ctx context.Context) ([]model.CatalogItem, error) {
	return u.catalog.List(ctx)
}

// GetByReference fetches a single item by its unique reference.
func (u *CatalogUseCase) GetByReference(ctx context.Context, reference string) (*model.CatalogItem, error) {
	return u.catalog.GetByReference(ctx, reference)
}

// Import replaces or inserts the given feed items.
func (u *CatalogUseCase) Import(ctx context.Context, items []model.CatalogItem) error {
	return u.catalog.UpsertBatch(ctx, items)
}
