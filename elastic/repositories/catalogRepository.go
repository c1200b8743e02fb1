package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"catalog-search-backend/config"
	"catalog-search-backend/search/models"
	"catalog-search-backend/utils"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const DefaultCatalogIndex = "catalog"

// ElasticRepository serves the catalog index from an Elasticsearch cluster
type ElasticRepository struct {
	client    *elasticsearch.Client
	indexName string
}

func NewElasticRepository(client *elasticsearch.Client, indexName string) *ElasticRepository {
	if indexName == "" {
		indexName = DefaultCatalogIndex
	}
	return &ElasticRepository{client: client, indexName: indexName}
}

type catalogSearchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID     string                 `json:"_id"`
			Source models.CatalogDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// SearchCatalog returns one page of ranked catalog hits and the total match count
func (r *ElasticRepository) SearchCatalog(ctx context.Context, queryString string, offset, limit int) ([]models.CatalogHit, int64, error) {
	body, err := json.Marshal(buildCatalogQuery(queryString, offset, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode search request: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.indexName),
		r.client.Search.WithBody(bytes.NewReader(body)),
		r.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	if res.IsError() {
		return nil, 0, utils.EsResponseError("search", res)
	}
	defer res.Body.Close()

	var decoded catalogSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return nil, 0, fmt.Errorf("failed to decode search response: %w", err)
	}

	hits := make([]models.CatalogHit, 0, len(decoded.Hits.Hits))
	for _, hit := range decoded.Hits.Hits {
		kind, err := models.ParseEntityKind(string(hit.Source.Kind))
		if err != nil {
			return nil, 0, fmt.Errorf("catalog index entry %s: %w", hit.ID, err)
		}
		hits = append(hits, models.CatalogHit{ID: hit.ID, Kind: kind})
	}

	return hits, decoded.Hits.Total.Value, nil
}

func buildCatalogQuery(queryString string, offset, limit int) map[string]interface{} {
	queryString = strings.TrimSpace(queryString)

	var q map[string]interface{}
	if queryString == "" {
		q = map[string]interface{}{"match_all": map[string]interface{}{}}
	} else {
		q = map[string]interface{}{
			"bool": map[string]interface{}{
				"should": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":     queryString,
							"fields":    []string{"name^10", "provider^6", "context^5", "description^3", "summary^3"},
							"fuzziness": "AUTO",
						},
					},
					map[string]interface{}{
						"prefix": map[string]interface{}{
							"name": map[string]interface{}{"value": strings.ToLower(queryString), "boost": 4.0},
						},
					},
				},
				"minimum_should_match": 1,
			},
		}
	}

	return map[string]interface{}{
		"from":  offset,
		"size":  limit,
		"query": q,
	}
}

func (r *ElasticRepository) IndexCatalogDocument(ctx context.Context, doc models.CatalogDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      r.indexName,
		DocumentID: doc.ID,
		Body:       bytes.NewReader(body),
		Refresh:    "true",
	}
	res, err := req.Do(ctx, r.client)
	if err != nil {
		config.Logger.Error("Failed to index catalog entity into Elasticsearch",
			zap.Error(err), zap.String("id", doc.ID))
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return utils.EsResponseError("index", res)
	}
	return nil
}

func (r *ElasticRepository) DeleteCatalogDocument(ctx context.Context, id string) error {
	res, err := r.client.Delete(r.indexName, id,
		r.client.Delete.WithContext(ctx),
		r.client.Delete.WithRefresh("true"),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return utils.EsResponseError("delete", res)
	}
	return nil
}

const catalogIndexMapping = `{
  "mappings": {
    "properties": {
      "id":          {"type": "keyword"},
      "kind":        {"type": "keyword"},
      "owner_id":    {"type": "keyword"},
      "version":     {"type": "keyword"},
      "name":        {"type": "text"},
      "provider":    {"type": "text"},
      "context":     {"type": "text"},
      "description": {"type": "text"},
      "summary":     {"type": "text"}
    }
  }
}`

// RebuildCatalog fills a fresh physical index and then points the catalog
// alias at it in one _aliases call, so searches never see a partial catalog.
// The physical indices the alias pointed at before are deleted afterwards.
func (r *ElasticRepository) RebuildCatalog(ctx context.Context, docs []models.CatalogDocument) error {
	target := fmt.Sprintf("%s-%d", r.indexName, time.Now().UnixNano())

	if err := r.createIndex(ctx, target); err != nil {
		return err
	}
	if err := r.bulkInto(ctx, target, docs); err != nil {
		r.deleteIndices(ctx, []string{target})
		return err
	}

	previous, err := r.aliasTargets(ctx)
	if err != nil {
		r.deleteIndices(ctx, []string{target})
		return err
	}
	if err := r.swapAlias(ctx, target, previous); err != nil {
		r.deleteIndices(ctx, []string{target})
		return err
	}
	r.deleteIndices(ctx, previous.indices)

	config.Logger.Info("Successfully rebuilt catalog index in Elasticsearch",
		zap.String("index", target), zap.Int("count", len(docs)))
	return nil
}

func (r *ElasticRepository) createIndex(ctx context.Context, name string) error {
	res, err := r.client.Indices.Create(name,
		r.client.Indices.Create.WithContext(ctx),
		r.client.Indices.Create.WithBody(strings.NewReader(catalogIndexMapping)),
	)
	if err != nil {
		config.Logger.Error("Failed to create catalog index in Elasticsearch", zap.Error(err), zap.String("index", name))
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return utils.EsResponseError("create index", res)
	}
	return nil
}

// bulkInto sends all documents to index in a single _bulk request
func (r *ElasticRepository) bulkInto(ctx context.Context, index string, docs []models.CatalogDocument) error {
	if len(docs) == 0 {
		config.Logger.Info("No catalog entities to index into Elasticsearch.")
		return nil
	}

	var buf bytes.Buffer
	for _, doc := range docs {
		meta := map[string]interface{}{
			"index": map[string]interface{}{"_index": index, "_id": doc.ID},
		}
		if err := json.NewEncoder(&buf).Encode(meta); err != nil {
			return err
		}
		if err := json.NewEncoder(&buf).Encode(doc); err != nil {
			return err
		}
	}

	res, err := r.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		r.client.Bulk.WithContext(ctx),
		r.client.Bulk.WithRefresh("true"),
	)
	if err != nil {
		config.Logger.Error("Failed to bulk index catalog into Elasticsearch", zap.Error(err))
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return utils.EsResponseError("bulk", res)
	}

	var bulkResult struct {
		Errors bool `json:"errors"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkResult); err != nil {
		return fmt.Errorf("failed to decode bulk response: %w", err)
	}
	if bulkResult.Errors {
		return fmt.Errorf("bulk indexing reported item errors")
	}
	return nil
}

// aliasState is what the catalog name resolves to before a swap
type aliasState struct {
	indices []string
	// concrete is set when the catalog name is a plain index rather than an alias
	concrete bool
}

func (r *ElasticRepository) aliasTargets(ctx context.Context) (aliasState, error) {
	res, err := r.client.Indices.GetAlias(
		r.client.Indices.GetAlias.WithContext(ctx),
		r.client.Indices.GetAlias.WithName(r.indexName),
	)
	if err != nil {
		return aliasState{}, err
	}
	defer res.Body.Close()

	if res.StatusCode == 404 {
		return r.concreteIndexState(ctx)
	}
	if res.IsError() {
		return aliasState{}, utils.EsResponseError("get alias", res)
	}

	var decoded map[string]json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&decoded); err != nil {
		return aliasState{}, fmt.Errorf("failed to decode alias response: %w", err)
	}
	state := aliasState{}
	for index := range decoded {
		state.indices = append(state.indices, index)
	}
	sort.Strings(state.indices)
	return state, nil
}

// concreteIndexState handles a catalog index created before aliases were
// used, e.g. by a single-document write against an empty cluster
func (r *ElasticRepository) concreteIndexState(ctx context.Context) (aliasState, error) {
	res, err := r.client.Indices.Exists([]string{r.indexName},
		r.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return aliasState{}, err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == 404:
		return aliasState{}, nil
	case res.IsError():
		return aliasState{}, utils.EsResponseError("index exists", res)
	default:
		return aliasState{concrete: true}, nil
	}
}

func (r *ElasticRepository) swapAlias(ctx context.Context, target string, previous aliasState) error {
	actions := make([]interface{}, 0, len(previous.indices)+2)
	for _, index := range previous.indices {
		actions = append(actions, map[string]interface{}{
			"remove": map[string]interface{}{"index": index, "alias": r.indexName},
		})
	}
	if previous.concrete {
		actions = append(actions, map[string]interface{}{
			"remove_index": map[string]interface{}{"index": r.indexName},
		})
	}
	actions = append(actions, map[string]interface{}{
		"add": map[string]interface{}{"index": target, "alias": r.indexName},
	})

	body, err := json.Marshal(map[string]interface{}{"actions": actions})
	if err != nil {
		return err
	}

	res, err := r.client.Indices.UpdateAliases(bytes.NewReader(body),
		r.client.Indices.UpdateAliases.WithContext(ctx),
	)
	if err != nil {
		config.Logger.Error("Failed to swap catalog alias in Elasticsearch", zap.Error(err))
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return utils.EsResponseError("update aliases", res)
	}
	return nil
}

// deleteIndices is best effort; a leftover physical index is not served
func (r *ElasticRepository) deleteIndices(ctx context.Context, indices []string) {
	if len(indices) == 0 {
		return
	}
	res, err := r.client.Indices.Delete(indices,
		r.client.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		config.Logger.Warn("Failed to delete catalog indices", zap.Strings("indices", indices), zap.Error(err))
		return
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		config.Logger.Warn("Failed to delete catalog indices",
			zap.Strings("indices", indices), zap.Error(utils.EsResponseError("delete index", res)))
	}
}
