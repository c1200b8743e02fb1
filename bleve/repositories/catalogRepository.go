// repositories/catalogRepository.go
package repositories

import (
	"context"
	"fmt"
	"strings"

	"catalog-search-backend/config"
	"catalog-search-backend/search/models"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"
)

const CatalogIndexName = "catalog"

// NewCatalogIndexMapping keeps identifiers and the entity kind unanalyzed
// so they can be matched exactly.
func NewCatalogIndexMapping() mapping.IndexMapping {
	keyword := bleve.NewKeywordFieldMapping()
	text := bleve.NewTextFieldMapping()

	catalogMapping := bleve.NewDocumentMapping()
	catalogMapping.AddFieldMappingsAt("id", keyword)
	catalogMapping.AddFieldMappingsAt("kind", keyword)
	catalogMapping.AddFieldMappingsAt("owner_id", keyword)
	catalogMapping.AddFieldMappingsAt("version", keyword)
	catalogMapping.AddFieldMappingsAt("name", text)
	catalogMapping.AddFieldMappingsAt("provider", text)
	catalogMapping.AddFieldMappingsAt("context", text)
	catalogMapping.AddFieldMappingsAt("description", text)
	catalogMapping.AddFieldMappingsAt("summary", text)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = catalogMapping
	return indexMapping
}

func (r *BleveRepository) IndexCatalogDocument(ctx context.Context, doc models.CatalogDocument) error {
	err := r.indexer.IndexDocument(CatalogIndexName, doc.ID, doc)
	if err != nil {
		config.Logger.Error("Failed to index catalog entity into Bleve",
			zap.Error(err),
			zap.String("id", doc.ID),
			zap.String("kind", string(doc.Kind)))
		return err
	}
	return nil
}

// RebuildCatalog replaces the whole catalog index; searches keep being served throughout
func (r *BleveRepository) RebuildCatalog(ctx context.Context, docs []models.CatalogDocument) error {
	docsToBleveIndex := make(map[string]interface{}, len(docs))
	for _, doc := range docs {
		docsToBleveIndex[doc.ID] = doc
	}

	config.Logger.Info("Attempting to rebuild catalog in Bleve",
		zap.Int("count", len(docsToBleveIndex)))
	if err := r.indexer.RebuildIndex(CatalogIndexName, docsToBleveIndex); err != nil {
		config.Logger.Error("Failed to rebuild catalog in Bleve", zap.Error(err))
		return err
	}
	return nil
}

func (r *BleveRepository) DeleteCatalogDocument(ctx context.Context, id string) error {
	if err := r.indexer.DeleteDocument(CatalogIndexName, id); err != nil {
		config.Logger.Error("Failed to delete catalog entity from Bleve",
			zap.Error(err),
			zap.String("id", id))
		return err
	}
	return nil
}

// SearchCatalog returns one page of ranked catalog hits and the total match count
func (r *BleveRepository) SearchCatalog(ctx context.Context, queryString string, offset, limit int) ([]models.CatalogHit, int64, error) {
	result, err := r.indexer.SearchIndex(CatalogIndexName, buildCatalogQuery(queryString), limit, offset)
	if err != nil {
		return nil, 0, err
	}

	hits := make([]models.CatalogHit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		rawKind, _ := hit.Fields["kind"].(string)
		kind, err := models.ParseEntityKind(rawKind)
		if err != nil {
			return nil, 0, fmt.Errorf("catalog index entry %s: %w", hit.ID, err)
		}
		hits = append(hits, models.CatalogHit{ID: hit.ID, Kind: kind})
	}

	return hits, int64(result.Total), nil
}

func buildCatalogQuery(queryString string) query.Query {
	queryString = strings.TrimSpace(queryString)
	if queryString == "" {
		return bleve.NewMatchAllQuery()
	}
	queryStringLower := strings.ToLower(queryString)

	booleanQuery := bleve.NewBooleanQuery()

	// 1. Analyzed matches, name first
	fieldBoosts := []struct {
		field string
		boost float64
	}{
		{"name", 10.0},
		{"provider", 6.0},
		{"context", 5.0},
		{"description", 3.0},
		{"summary", 3.0},
	}
	for _, fb := range fieldBoosts {
		matchQuery := bleve.NewMatchQuery(queryString)
		matchQuery.SetField(fb.field)
		matchQuery.SetBoost(fb.boost)
		booleanQuery.AddShould(matchQuery)
	}

	// 2. Prefix matches on the name for search-as-you-type
	namePrefix := bleve.NewPrefixQuery(queryStringLower)
	namePrefix.SetField("name")
	namePrefix.SetBoost(4.0)
	booleanQuery.AddShould(namePrefix)

	// 3. Fuzzy search for typos
	fuzzyQuery := bleve.NewFuzzyQuery(queryStringLower)
	fuzzyQuery.SetField("name")
	fuzzyQuery.SetBoost(2.0)
	fuzzyQuery.SetFuzziness(1)
	booleanQuery.AddShould(fuzzyQuery)

	return booleanQuery
}
