package repositories

import (
	"context"
	"errors"
	"fmt"

	"catalog-search-backend/db/models"
	"catalog-search-backend/search/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogRepository interface {
	GetAPI(ctx context.Context, id string) (*models.API, error)
	GetAPIProduct(ctx context.Context, id string) (*models.APIProduct, error)
	GetDocumentation(ctx context.Context, id string) (*models.Documentation, error)

	ListAPIs(ctx context.Context) ([]models.API, error)
	ListAPIProducts(ctx context.Context) ([]models.APIProduct, error)
	ListDocumentation(ctx context.Context) ([]models.Documentation, error)
}

type catalogRepository struct {
	db *gorm.DB
}

var _ services.CatalogStore = (*catalogRepository)(nil)

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{
		db: db,
	}
}

func (r *catalogRepository) GetAPI(ctx context.Context, id string) (*models.API, error) {
	apiID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: api id %q", services.ErrEntityNotFound, id)
	}

	var api models.API
	if err := r.db.WithContext(ctx).First(&api, "id = ?", apiID).Error; err != nil {
		return nil, notFound(err, "api", id)
	}
	return &api, nil
}

func (r *catalogRepository) GetAPIProduct(ctx context.Context, id string) (*models.APIProduct, error) {
	productID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: api product id %q", services.ErrEntityNotFound, id)
	}

	var product models.APIProduct
	if err := r.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		return nil, notFound(err, "api product", id)
	}
	return &product, nil
}

// GetDocumentation loads a document together with its owning API or API product
func (r *catalogRepository) GetDocumentation(ctx context.Context, id string) (*models.Documentation, error) {
	docID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("%w: documentation id %q", services.ErrEntityNotFound, id)
	}

	var doc models.Documentation
	err = r.db.WithContext(ctx).
		Preload("API").
		Preload("APIProduct").
		First(&doc, "id = ?", docID).Error
	if err != nil {
		return nil, notFound(err, "documentation", id)
	}
	return &doc, nil
}

func (r *catalogRepository) ListAPIs(ctx context.Context) ([]models.API, error) {
	var apis []models.API
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&apis).Error
	return apis, err
}

func (r *catalogRepository) ListAPIProducts(ctx context.Context) ([]models.APIProduct, error) {
	var products []models.APIProduct
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&products).Error
	return products, err
}

func (r *catalogRepository) ListDocumentation(ctx context.Context) ([]models.Documentation, error) {
	var docs []models.Documentation
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&docs).Error
	return docs, err
}

func notFound(err error, entity, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %s", services.ErrEntityNotFound, entity, id)
	}
	return err
}
