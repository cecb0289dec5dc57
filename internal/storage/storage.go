package storage

import (
	"context"

	"github.com/slok/appstore/internal/model"
)

// CatalogRepository is the interface for catalog persistence.
type CatalogRepository interface {
	// SaveCatalog replaces the stored catalog.
	SaveCatalog(ctx context.Context, c model.Catalog) error
	ListItems(ctx context.Context) (model.Catalog, error)
	GetItem(ctx context.Context, name string) (*model.Item, error)
}

// OperationRepository is the interface for the operation history persistence.
type OperationRepository interface {
	CreateOperation(ctx context.Context, op model.OperationRecord) error
	// ListOperations returns the latest operations first, limit <= 0 returns all of them.
	ListOperations(ctx context.Context, limit int) ([]model.OperationRecord, error)
}

//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name Repository --filename mocks.go

// Repository is the app store persistence.
type Repository interface {
	CatalogRepository
	OperationRepository
}
