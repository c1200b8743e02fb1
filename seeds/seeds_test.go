package seeds

import (
	"os"
	"testing"

	"catalog-search-backend/config"
	"catalog-search-backend/db/models"
	"catalog-search-backend/search/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedCatalogAll(t *testing.T) {
	dsn := os.Getenv("CATALOG_TEST_DSN")
	if dsn == "" {
		t.Skip("CATALOG_TEST_DSN not set")
	}
	db, err := config.OpenDatabase(dsn)
	require.NoError(t, err)

	require.NoError(t, SeedCatalogAll(db))
	// running twice must not duplicate rows
	require.NoError(t, SeedCatalogAll(db))

	var apiCount int64
	require.NoError(t, db.Model(&models.API{}).Where("name = ?", "PetStore").Count(&apiCount).Error)
	assert.Equal(t, int64(1), apiCount)

	var docs []models.Documentation
	require.NoError(t, db.Preload("API").Preload("APIProduct").Find(&docs).Error)
	require.NotEmpty(t, docs)

	// every seeded document must project cleanly
	for _, doc := range docs {
		if doc.APIProductID != nil {
			_, err = services.ProjectProductDocument(doc, doc.APIProduct)
		} else {
			_, err = services.ProjectDocument(doc, doc.API)
		}
		assert.NoError(t, err, doc.Name)
	}
}
