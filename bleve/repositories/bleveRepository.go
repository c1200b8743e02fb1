package repositories

import (
	"context"

	bleveindex "catalog-search-backend/bleve/services"
	"catalog-search-backend/search/models"
)

type BleveRepository struct {
	indexer *bleveindex.IndexingService
}

type BleveRepositoryInterface interface {
	// ==== Catalog Indexing ====
	RebuildCatalog(ctx context.Context, docs []models.CatalogDocument) error
	IndexCatalogDocument(ctx context.Context, doc models.CatalogDocument) error
	DeleteCatalogDocument(ctx context.Context, id string) error

	// ==== Catalog Search ====
	SearchCatalog(ctx context.Context, query string, offset, limit int) ([]models.CatalogHit, int64, error)
}

// Constructor returning both the struct and the interface
func NewBleveRepository(indexer *bleveindex.IndexingService) (*BleveRepository, BleveRepositoryInterface) {
	indexer.RegisterMapping(CatalogIndexName, NewCatalogIndexMapping())
	repo := &BleveRepository{indexer: indexer}
	return repo, repo
}
