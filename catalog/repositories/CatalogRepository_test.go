package repositories

import (
	"context"
	"errors"
	"os"
	"testing"

	"catalog-search-backend/config"
	"catalog-search-backend/db/models"
	"catalog-search-backend/search/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// openTestDB connects to the postgres named by CATALOG_TEST_DSN; tests skip without it
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("CATALOG_TEST_DSN")
	if dsn == "" {
		t.Skip("CATALOG_TEST_DSN not set")
	}

	db, err := config.OpenDatabase(dsn)
	require.NoError(t, err)
	return db
}

func TestCatalogRepository_GetDocumentationPreloadsOwner(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	api := models.API{Name: "PetStore", Version: "1.0.0", Provider: "admin", ContextTemplate: "/petstore/{version}", Status: "PUBLISHED"}
	require.NoError(t, db.Create(&api).Error)
	doc := models.Documentation{Name: "Guide", Type: "HOWTO", Visibility: "API_LEVEL", SourceType: "INLINE", APIID: &api.ID}
	require.NoError(t, db.Create(&doc).Error)
	t.Cleanup(func() {
		db.Unscoped().Delete(&doc)
		db.Unscoped().Delete(&api)
	})

	repo := NewCatalogRepository(db)

	got, err := repo.GetDocumentation(ctx, doc.ID.String())
	require.NoError(t, err)
	require.NotNil(t, got.API)
	assert.Equal(t, "PetStore", got.API.Name)
	assert.Nil(t, got.APIProduct)

	gotAPI, err := repo.GetAPI(ctx, api.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "/petstore/{version}", gotAPI.ContextTemplate)
}

func TestCatalogRepository_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	_, err := repo.GetAPI(ctx, uuid.New().String())
	assert.True(t, errors.Is(err, services.ErrEntityNotFound))

	_, err = repo.GetAPIProduct(ctx, "not-a-uuid")
	assert.True(t, errors.Is(err, services.ErrEntityNotFound))

	_, err = repo.GetDocumentation(ctx, uuid.New().String())
	assert.True(t, errors.Is(err, services.ErrEntityNotFound))
}
