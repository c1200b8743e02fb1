package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/blevesearch/bleve/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func totalOf(t *testing.T, s *IndexingService, indexName string) uint64 {
	t.Helper()
	result, err := s.SearchIndex(indexName, bleve.NewMatchAllQuery(), 10, 0)
	require.NoError(t, err)
	return result.Total
}

func TestIndexingService_IndexAndDelete(t *testing.T) {
	s := NewIndexingService(zap.NewNop(), t.TempDir())
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.IndexDocument("things", "1", testDoc{ID: "1", Name: "alpha"}))
	require.NoError(t, s.IndexDocument("things", "2", testDoc{ID: "2", Name: "beta"}))
	assert.Equal(t, uint64(2), totalOf(t, s, "things"))

	require.NoError(t, s.DeleteDocument("things", "1"))
	assert.Equal(t, uint64(1), totalOf(t, s, "things"))
}

func TestIndexingService_SearchIndexPaging(t *testing.T) {
	s := NewIndexingService(zap.NewNop(), t.TempDir())
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.RebuildIndex("things", map[string]interface{}{
		"1": testDoc{ID: "1", Name: "alpha"},
		"2": testDoc{ID: "2", Name: "beta"},
		"3": testDoc{ID: "3", Name: "gamma"},
	}))

	result, err := s.SearchIndex("things", bleve.NewMatchAllQuery(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), result.Total)
	assert.Len(t, result.Hits, 1)
}

func TestIndexingService_RebuildReplacesContents(t *testing.T) {
	dir := t.TempDir()
	s := NewIndexingService(zap.NewNop(), dir)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.IndexDocument("things", "old", testDoc{ID: "old", Name: "stale"}))
	require.NoError(t, s.RebuildIndex("things", map[string]interface{}{
		"1": testDoc{ID: "1", Name: "alpha"},
		"2": testDoc{ID: "2", Name: "beta"},
	}))
	assert.Equal(t, uint64(2), totalOf(t, s, "things"))

	// writes after the swap land in the new generation
	require.NoError(t, s.IndexDocument("things", "3", testDoc{ID: "3", Name: "gamma"}))
	assert.Equal(t, uint64(3), totalOf(t, s, "things"))

	require.NoError(t, s.RebuildIndex("things", map[string]interface{}{}))
	assert.Equal(t, uint64(0), totalOf(t, s, "things"))

	// only the live generation stays on disk
	generations, err := filepath.Glob(filepath.Join(dir, "things.*.bleve"))
	require.NoError(t, err)
	assert.Len(t, generations, 1)
}

func TestIndexingService_RebuildSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s := NewIndexingService(zap.NewNop(), dir)
	require.NoError(t, s.RebuildIndex("things", map[string]interface{}{
		"1": testDoc{ID: "1", Name: "alpha"},
	}))
	require.NoError(t, s.Close())

	// an abandoned generation from an interrupted rebuild
	abandoned := filepath.Join(dir, fmt.Sprintf("things.%019d.bleve", 1))
	require.NoError(t, os.MkdirAll(abandoned, os.ModePerm))

	reopened := NewIndexingService(zap.NewNop(), dir)
	t.Cleanup(func() { _ = reopened.Close() })
	assert.Equal(t, uint64(1), totalOf(t, reopened, "things"))

	_, err := os.Stat(abandoned)
	assert.True(t, os.IsNotExist(err))
}

func TestIndexingService_SearchDuringRebuild(t *testing.T) {
	s := NewIndexingService(zap.NewNop(), t.TempDir())
	t.Cleanup(func() { _ = s.Close() })

	docs := make(map[string]interface{}, 50)
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("%d", i)
		docs[id] = testDoc{ID: id, Name: "item"}
	}
	require.NoError(t, s.RebuildIndex("things", docs))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	errs := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			result, err := s.SearchIndex("things", bleve.NewMatchAllQuery(), 10, 0)
			if err == nil && result.Total != 50 {
				err = fmt.Errorf("search saw %d documents mid-rebuild", result.Total)
			}
			if err != nil {
				select {
				case errs <- err:
				default:
				}
				return
			}
		}
	}()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.RebuildIndex("things", docs))
	}
	close(stop)
	wg.Wait()

	select {
	case err := <-errs:
		t.Fatal(err)
	default:
	}
}
