package repositories

import (
	"context"
	"testing"

	bleveindex "catalog-search-backend/bleve/services"
	"catalog-search-backend/search/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRepository(t *testing.T) *BleveRepository {
	t.Helper()

	indexer := bleveindex.NewIndexingService(zap.NewNop(), t.TempDir())
	t.Cleanup(func() { _ = indexer.Close() })

	repo, _ := NewBleveRepository(indexer)
	return repo
}

func catalogFixture() []models.CatalogDocument {
	return []models.CatalogDocument{
		{ID: "api-1", Kind: models.EntityKindAPI, Name: "PetStore", Version: "1.0.0", Provider: "admin", Context: "/petstore/{version}", Description: "Manage pets"},
		{ID: "api-2", Kind: models.EntityKindAPI, Name: "Weather", Version: "2.0.0", Provider: "admin", Context: "/weather/{version}", Description: "Forecasts"},
		{ID: "prod-1", Kind: models.EntityKindAPIProduct, Name: "PetBundle", Version: "1.0.0", Provider: "retail", Context: "/pets", Description: "Pet related APIs"},
		{ID: "doc-1", Kind: models.EntityKindDocument, Name: "PetStore guide", Summary: "How to adopt a pet", OwnerID: "api-1"},
		{ID: "doc-2", Kind: models.EntityKindDocument, Name: "Weather samples", Summary: "Sample forecast calls", OwnerID: "api-2"},
	}
}

func TestBleveRepository_SearchCatalog(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.RebuildCatalog(ctx, catalogFixture()))

	hits, total, err := repo.SearchCatalog(ctx, "pet", 0, 10)
	require.NoError(t, err)

	ids := make(map[string]models.EntityKind)
	for _, hit := range hits {
		ids[hit.ID] = hit.Kind
	}
	assert.Equal(t, models.EntityKindAPI, ids["api-1"])
	assert.Equal(t, models.EntityKindAPIProduct, ids["prod-1"])
	assert.Equal(t, models.EntityKindDocument, ids["doc-1"])
	assert.NotContains(t, ids, "api-2")
	assert.Equal(t, int64(len(hits)), total)
}

func TestBleveRepository_SearchCatalog_Paging(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.RebuildCatalog(ctx, catalogFixture()))

	firstPage, total, err := repo.SearchCatalog(ctx, "", 0, 2)
	require.NoError(t, err)
	assert.Len(t, firstPage, 2)
	assert.Equal(t, int64(5), total)

	lastPage, total, err := repo.SearchCatalog(ctx, "", 4, 2)
	require.NoError(t, err)
	assert.Len(t, lastPage, 1)
	assert.Equal(t, int64(5), total)

	beyond, total, err := repo.SearchCatalog(ctx, "", 10, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.Equal(t, int64(5), total)
}

func TestBleveRepository_IndexAndDelete(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.RebuildCatalog(ctx, catalogFixture()))

	require.NoError(t, repo.DeleteCatalogDocument(ctx, "api-2"))
	_, total, err := repo.SearchCatalog(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)

	// re-indexing an existing id replaces it
	updated := catalogFixture()[0]
	updated.Name = "Aquarium"
	require.NoError(t, repo.IndexCatalogDocument(ctx, updated))
	hits, _, err := repo.SearchCatalog(ctx, "aquarium", 0, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "api-1", hits[0].ID)

	_, total, err = repo.SearchCatalog(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
}

func TestBleveRepository_RebuildCatalog(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.RebuildCatalog(ctx, catalogFixture()))

	require.NoError(t, repo.RebuildCatalog(ctx, catalogFixture()[:1]))
	hits, total, err := repo.SearchCatalog(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, hits, 1)
	assert.Equal(t, "api-1", hits[0].ID)

	require.NoError(t, repo.RebuildCatalog(ctx, nil))
	hits, total, err = repo.SearchCatalog(ctx, "", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Equal(t, int64(0), total)
}
