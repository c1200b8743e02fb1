package repositories

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"catalog-search-backend/search/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set("X-Elastic-Product", "Elasticsearch")
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *elasticsearch.Client {
	t.Helper()
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{"http://es.test:9200"},
		Transport: rt,
	})
	require.NoError(t, err)
	return client
}

func TestElasticRepository_SearchCatalog(t *testing.T) {
	var captured map[string]interface{}
	var path string

	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		path = req.URL.Path
		raw, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &captured))

		return jsonResponse(200, `{
			"hits": {
				"total": {"value": 42, "relation": "eq"},
				"hits": [
					{"_id": "doc-1", "_source": {"id": "doc-1", "kind": "document", "name": "Guide"}},
					{"_id": "api-1", "_source": {"id": "api-1", "kind": "api", "name": "PetStore"}}
				]
			}
		}`), nil
	})

	repo := NewElasticRepository(client, "")
	hits, total, err := repo.SearchCatalog(context.Background(), "pet", 20, 10)
	require.NoError(t, err)

	assert.Equal(t, "/catalog/_search", path)
	assert.Equal(t, float64(20), captured["from"])
	assert.Equal(t, float64(10), captured["size"])
	assert.Contains(t, captured["query"], "bool")

	assert.Equal(t, int64(42), total)
	assert.Equal(t, []models.CatalogHit{
		{ID: "doc-1", Kind: models.EntityKindDocument},
		{ID: "api-1", Kind: models.EntityKindAPI},
	}, hits)
}

func TestElasticRepository_SearchCatalog_MatchAllForEmptyQuery(t *testing.T) {
	var captured map[string]interface{}
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		raw, _ := io.ReadAll(req.Body)
		_ = json.Unmarshal(raw, &captured)
		return jsonResponse(200, `{"hits":{"total":{"value":0},"hits":[]}}`), nil
	})

	repo := NewElasticRepository(client, "apis")
	hits, total, err := repo.SearchCatalog(context.Background(), "  ", 0, 25)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Equal(t, int64(0), total)
	assert.Contains(t, captured["query"], "match_all")
}

func TestElasticRepository_SearchCatalog_UnknownKind(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"hits":{"total":{"value":1},"hits":[{"_id":"x","_source":{"kind":"widget"}}]}}`), nil
	})

	_, _, err := NewElasticRepository(client, "").SearchCatalog(context.Background(), "x", 0, 10)
	assert.Error(t, err)
}

func TestElasticRepository_SearchCatalog_ErrorResponse(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(400, `{"error":{"type":"parsing_exception"}}`), nil
	})

	_, _, err := NewElasticRepository(client, "").SearchCatalog(context.Background(), "x", 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing_exception")
}

// fakeCluster answers the index management calls a catalog rebuild makes
type fakeCluster struct {
	mu       sync.Mutex
	requests []string
	bulk     []string
	aliases  map[string]interface{}

	aliasStatus int
	aliasBody   string
	existsCode  int
	createCode  int
	bulkBody    string
}

func newFakeCluster() *fakeCluster {
	return &fakeCluster{
		aliasStatus: 200,
		aliasBody:   `{"catalog-1":{"aliases":{"catalog":{}}}}`,
		existsCode:  404,
		createCode:  200,
		bulkBody:    `{"errors":false,"items":[]}`,
	}
}

func (c *fakeCluster) roundTrip(req *http.Request) (*http.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = append(c.requests, req.Method+" "+req.URL.Path)
	var raw []byte
	if req.Body != nil {
		raw, _ = io.ReadAll(req.Body)
	}

	switch {
	case strings.Contains(req.URL.Path, "/_doc/"):
		return jsonResponse(200, `{"result":"ok"}`), nil
	case req.Method == http.MethodPut && strings.HasPrefix(req.URL.Path, "/catalog-"):
		return jsonResponse(c.createCode, `{"acknowledged":true}`), nil
	case req.URL.Path == "/_bulk":
		c.bulk = strings.Split(strings.TrimSpace(string(raw)), "\n")
		return jsonResponse(200, c.bulkBody), nil
	case req.Method == http.MethodGet && req.URL.Path == "/_alias/catalog":
		return jsonResponse(c.aliasStatus, c.aliasBody), nil
	case req.Method == http.MethodHead && req.URL.Path == "/catalog":
		return jsonResponse(c.existsCode, ``), nil
	case req.URL.Path == "/_aliases":
		c.aliases = map[string]interface{}{}
		_ = json.Unmarshal(raw, &c.aliases)
		return jsonResponse(200, `{"acknowledged":true}`), nil
	case req.Method == http.MethodDelete:
		return jsonResponse(200, `{"acknowledged":true}`), nil
	}
	return jsonResponse(404, `{"error":"unexpected request"}`), nil
}

func (c *fakeCluster) sent(prefix string) []string {
	var out []string
	for _, r := range c.requests {
		if strings.HasPrefix(r, prefix) {
			out = append(out, r)
		}
	}
	return out
}

func catalogDocs() []models.CatalogDocument {
	return []models.CatalogDocument{
		{ID: "api-1", Kind: models.EntityKindAPI, Name: "PetStore"},
		{ID: "doc-1", Kind: models.EntityKindDocument, Name: "Guide", OwnerID: "api-1"},
	}
}

func TestElasticRepository_RebuildCatalog_SwapsAlias(t *testing.T) {
	cluster := newFakeCluster()
	client := newTestClient(t, cluster.roundTrip)

	require.NoError(t, NewElasticRepository(client, "").RebuildCatalog(context.Background(), catalogDocs()))

	created := cluster.sent("PUT /catalog-")
	require.Len(t, created, 1)
	target := strings.TrimPrefix(created[0], "PUT /")

	require.Len(t, cluster.bulk, 4)
	assert.Contains(t, cluster.bulk[0], `"_index":"`+target+`"`)
	assert.Contains(t, cluster.bulk[0], `"_id":"api-1"`)
	assert.Contains(t, cluster.bulk[3], `"owner_id":"api-1"`)

	actions, ok := cluster.aliases["actions"].([]interface{})
	require.True(t, ok)
	require.Len(t, actions, 2)
	assert.Equal(t, map[string]interface{}{
		"remove": map[string]interface{}{"index": "catalog-1", "alias": "catalog"},
	}, actions[0])
	assert.Equal(t, map[string]interface{}{
		"add": map[string]interface{}{"index": target, "alias": "catalog"},
	}, actions[1])

	assert.Equal(t, []string{"DELETE /catalog-1"}, cluster.sent("DELETE"))
}

func TestElasticRepository_RebuildCatalog_FirstRun(t *testing.T) {
	cluster := newFakeCluster()
	cluster.aliasStatus = 404
	cluster.aliasBody = `{"error":"alias [catalog] missing","status":404}`
	client := newTestClient(t, cluster.roundTrip)

	require.NoError(t, NewElasticRepository(client, "").RebuildCatalog(context.Background(), nil))

	// no documents means no bulk request, but the alias still moves
	assert.Empty(t, cluster.sent("POST /_bulk"))
	actions, ok := cluster.aliases["actions"].([]interface{})
	require.True(t, ok)
	require.Len(t, actions, 1)
	assert.Contains(t, actions[0], "add")
	assert.Empty(t, cluster.sent("DELETE"))
}

func TestElasticRepository_RebuildCatalog_ReplacesConcreteIndex(t *testing.T) {
	cluster := newFakeCluster()
	cluster.aliasStatus = 404
	cluster.aliasBody = `{"error":"alias [catalog] missing","status":404}`
	cluster.existsCode = 200
	client := newTestClient(t, cluster.roundTrip)

	require.NoError(t, NewElasticRepository(client, "").RebuildCatalog(context.Background(), catalogDocs()))

	actions, ok := cluster.aliases["actions"].([]interface{})
	require.True(t, ok)
	require.Len(t, actions, 2)
	assert.Equal(t, map[string]interface{}{
		"remove_index": map[string]interface{}{"index": "catalog"},
	}, actions[0])
}

func TestElasticRepository_RebuildCatalog_BulkItemErrors(t *testing.T) {
	cluster := newFakeCluster()
	cluster.bulkBody = `{"errors":true,"items":[]}`
	client := newTestClient(t, cluster.roundTrip)

	err := NewElasticRepository(client, "").RebuildCatalog(context.Background(), catalogDocs())
	require.Error(t, err)

	// the half-built index is dropped and the alias never moves
	assert.Nil(t, cluster.aliases)
	created := cluster.sent("PUT /catalog-")
	require.Len(t, created, 1)
	assert.Equal(t, []string{"DELETE /" + strings.TrimPrefix(created[0], "PUT /")}, cluster.sent("DELETE"))
}

func TestElasticRepository_RebuildCatalog_CreateFails(t *testing.T) {
	cluster := newFakeCluster()
	cluster.createCode = 400
	client := newTestClient(t, cluster.roundTrip)

	err := NewElasticRepository(client, "").RebuildCatalog(context.Background(), catalogDocs())
	require.Error(t, err)
	assert.Nil(t, cluster.bulk)
	assert.Nil(t, cluster.aliases)
}

func TestElasticRepository_IndexAndDeleteCatalogDocument(t *testing.T) {
	cluster := newFakeCluster()
	client := newTestClient(t, cluster.roundTrip)
	repo := NewElasticRepository(client, "")

	require.NoError(t, repo.IndexCatalogDocument(context.Background(), catalogDocs()[0]))
	require.NoError(t, repo.DeleteCatalogDocument(context.Background(), "doc-1"))

	assert.Equal(t, []string{"PUT /catalog/_doc/api-1", "DELETE /catalog/_doc/doc-1"}, cluster.requests)
}
