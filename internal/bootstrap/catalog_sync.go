package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"catalog-search-backend/config"
	"catalog-search-backend/search/models"
	"catalog-search-backend/search/services"

	"go.uber.org/zap"
)

// CatalogDocumentWriter updates single entries of the catalog index
type CatalogDocumentWriter interface {
	IndexCatalogDocument(ctx context.Context, doc models.CatalogDocument) error
	DeleteCatalogDocument(ctx context.Context, id string) error
}

// SyncCatalogEntity brings one index entry in line with the store: the entity
// is re-indexed when it exists and removed from the index when it does not.
// It reports whether the entry was deleted.
func SyncCatalogEntity(ctx context.Context, store services.CatalogStore, writer CatalogDocumentWriter, kind models.EntityKind, id string) (bool, error) {
	doc, err := loadCatalogDocument(ctx, store, kind, id)
	if errors.Is(err, services.ErrEntityNotFound) {
		if err := writer.DeleteCatalogDocument(ctx, id); err != nil {
			return false, fmt.Errorf("delete %s %s from index: %w", kind, id, err)
		}
		config.Logger.Info("Removed catalog entity from index", zap.String("kind", string(kind)), zap.String("id", id))
		return true, nil
	}
	if err != nil {
		return false, err
	}

	if err := writer.IndexCatalogDocument(ctx, doc); err != nil {
		return false, fmt.Errorf("index %s %s: %w", kind, id, err)
	}
	config.Logger.Info("Re-indexed catalog entity", zap.String("kind", string(kind)), zap.String("id", id))
	return false, nil
}

func loadCatalogDocument(ctx context.Context, store services.CatalogStore, kind models.EntityKind, id string) (models.CatalogDocument, error) {
	switch kind {
	case models.EntityKindAPI:
		api, err := store.GetAPI(ctx, id)
		if err != nil {
			return models.CatalogDocument{}, err
		}
		return models.NewAPICatalogDocument(*api), nil
	case models.EntityKindAPIProduct:
		product, err := store.GetAPIProduct(ctx, id)
		if err != nil {
			return models.CatalogDocument{}, err
		}
		return models.NewAPIProductCatalogDocument(*product), nil
	case models.EntityKindDocument:
		doc, err := store.GetDocumentation(ctx, id)
		if err != nil {
			return models.CatalogDocument{}, err
		}
		return models.NewDocumentationCatalogDocument(*doc), nil
	}
	return models.CatalogDocument{}, fmt.Errorf("%w: entity kind %q", services.ErrInvalidEnumValue, kind)
}
