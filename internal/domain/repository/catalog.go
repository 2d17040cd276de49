package repository

import (
	"context"

	"github.com/safetrack/ppeorder/internal/domain/model"
)

// CatalogRepository gives read access to the imported catalog feed and
// lets the importer replace items wholesale.
type CatalogRepository interface {
	UpsertBatch(ctx context.Context, items []model.CatalogItem) error
	List(ctx context.Context) ([]model.CatalogItem, error)
	GetByReference(ctx context.Context, reference string) (*model.CatalogItem, error)
}
