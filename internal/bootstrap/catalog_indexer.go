package bootstrap

import (
	"context"
	"fmt"

	"catalog-search-backend/config"
	dbmodels "catalog-search-backend/db/models"
	"catalog-search-backend/search/models"

	"go.uber.org/zap"
)

// CatalogSource lists every catalog entity that belongs in the search index
type CatalogSource interface {
	ListAPIs(ctx context.Context) ([]dbmodels.API, error)
	ListAPIProducts(ctx context.Context) ([]dbmodels.APIProduct, error)
	ListDocumentation(ctx context.Context) ([]dbmodels.Documentation, error)
}

// CatalogIndexer replaces the whole catalog index in one step
type CatalogIndexer interface {
	RebuildCatalog(ctx context.Context, docs []models.CatalogDocument) error
}

// IndexCatalog rebuilds the catalog index from the store and returns the
// number of indexed documents.
func IndexCatalog(ctx context.Context, source CatalogSource, indexer CatalogIndexer) (int, error) {
	apis, err := source.ListAPIs(ctx)
	if err != nil {
		config.Logger.Error("Error fetching APIs for catalog indexing", zap.Error(err))
		return 0, fmt.Errorf("list apis: %w", err)
	}

	products, err := source.ListAPIProducts(ctx)
	if err != nil {
		config.Logger.Error("Error fetching API products for catalog indexing", zap.Error(err))
		return 0, fmt.Errorf("list api products: %w", err)
	}

	docs, err := source.ListDocumentation(ctx)
	if err != nil {
		config.Logger.Error("Error fetching documentation for catalog indexing", zap.Error(err))
		return 0, fmt.Errorf("list documentation: %w", err)
	}

	batch := make([]models.CatalogDocument, 0, len(apis)+len(products)+len(docs))
	for _, api := range apis {
		batch = append(batch, models.NewAPICatalogDocument(api))
	}
	for _, product := range products {
		batch = append(batch, models.NewAPIProductCatalogDocument(product))
	}
	for _, doc := range docs {
		batch = append(batch, models.NewDocumentationCatalogDocument(doc))
	}

	// The live index is only replaced once everything has been read
	if err := indexer.RebuildCatalog(ctx, batch); err != nil {
		config.Logger.Error("Failed to index catalog", zap.Error(err))
		return 0, fmt.Errorf("rebuild catalog index: %w", err)
	}

	config.Logger.Info("Catalog indexed",
		zap.Int("apis", len(apis)),
		zap.Int("api_products", len(products)),
		zap.Int("documents", len(docs)),
	)
	return len(batch), nil
}
