package services

import (
	"context"
	"errors"
	"fmt"

	dbmodels "catalog-search-backend/db/models"
	"catalog-search-backend/search/models"
	"catalog-search-backend/utils/pagination"

	"go.uber.org/zap"
)

// CatalogIndex returns ranked catalog matches for one page plus the total match count
type CatalogIndex interface {
	SearchCatalog(ctx context.Context, query string, offset, limit int) ([]models.CatalogHit, int64, error)
}

// CatalogStore loads catalog entities by id. Documentation is returned with its owner loaded.
type CatalogStore interface {
	GetAPI(ctx context.Context, id string) (*dbmodels.API, error)
	GetAPIProduct(ctx context.Context, id string) (*dbmodels.APIProduct, error)
	GetDocumentation(ctx context.Context, id string) (*dbmodels.Documentation, error)
}

type SearchService struct {
	index  CatalogIndex
	store  CatalogStore
	logger *zap.Logger
}

func NewSearchService(index CatalogIndex, store CatalogStore, logger *zap.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// Search runs the query against the index and projects one page of hits.
// The result list keeps the index order. Pagination links are left for the
// caller to render from the returned window.
func (s *SearchService) Search(ctx context.Context, query string, offset, limit int) (*models.SearchResultList, pagination.Window, error) {
	// reject bad paging before touching the index
	if err := pagination.ValidateWindowInput(offset, limit, 0); err != nil {
		return nil, pagination.Window{}, err
	}

	hits, total, err := s.index.SearchCatalog(ctx, query, offset, limit)
	if err != nil {
		s.logger.Error("Catalog index search failed", zap.String("query", query), zap.Error(err))
		return nil, pagination.Window{}, fmt.Errorf("search catalog: %w", err)
	}

	results := make([]models.SearchResult, 0, len(hits))
	for _, hit := range hits {
		result, err := s.resolveHit(ctx, hit)
		if errors.Is(err, ErrEntityNotFound) {
			// the index lags behind the store
			s.logger.Warn("Skipping search hit for missing entity",
				zap.String("id", hit.ID),
				zap.String("kind", string(hit.Kind)))
			continue
		}
		if err != nil {
			s.logger.Error("Failed to project search hit",
				zap.String("id", hit.ID),
				zap.String("kind", string(hit.Kind)),
				zap.Error(err))
			return nil, pagination.Window{}, err
		}
		results = append(results, result)
	}

	window, err := pagination.ComputeWindow(offset, limit, int(total))
	if err != nil {
		return nil, pagination.Window{}, err
	}

	return &models.SearchResultList{
		Count: len(results),
		List:  results,
	}, window, nil
}

func (s *SearchService) resolveHit(ctx context.Context, hit models.CatalogHit) (models.SearchResult, error) {
	switch hit.Kind {
	case models.EntityKindAPI:
		api, err := s.store.GetAPI(ctx, hit.ID)
		if err != nil {
			return nil, err
		}
		return ProjectAPI(*api), nil

	case models.EntityKindAPIProduct:
		product, err := s.store.GetAPIProduct(ctx, hit.ID)
		if err != nil {
			return nil, err
		}
		return ProjectAPIProduct(*product), nil

	case models.EntityKindDocument:
		doc, err := s.store.GetDocumentation(ctx, hit.ID)
		if err != nil {
			return nil, err
		}
		if doc.APIProductID != nil {
			return ProjectProductDocument(*doc, doc.APIProduct)
		}
		return ProjectDocument(*doc, doc.API)

	default:
		return nil, fmt.Errorf("%w: entity kind %q", ErrInvalidEnumValue, hit.Kind)
	}
}
