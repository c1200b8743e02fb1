package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
	"go.uber.org/zap"
)

// batchSize bounds how many documents go into one bleve batch during a rebuild
const batchSize = 1000

// managedIndex is one logical index. Readers and writers go through alias,
// which always wraps exactly one on-disk generation.
type managedIndex struct {
	alias   bleve.IndexAlias
	current bleve.Index
	path    string
}

type IndexingService struct {
	mu        sync.Mutex
	rebuildMu sync.Mutex
	indexes   map[string]*managedIndex
	mappings  map[string]mapping.IndexMapping
	logger    *zap.Logger
	basePath  string
}

func NewIndexingService(logger *zap.Logger, basePath string) *IndexingService {
	return &IndexingService{
		indexes:  make(map[string]*managedIndex),
		mappings: make(map[string]mapping.IndexMapping),
		logger:   logger,
		basePath: basePath,
	}
}

// RegisterMapping sets the mapping used whenever a generation of indexName is created
func (s *IndexingService) RegisterMapping(indexName string, m mapping.IndexMapping) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[indexName] = m
}

func (s *IndexingService) mappingLocked(indexName string) mapping.IndexMapping {
	if m, ok := s.mappings[indexName]; ok {
		return m
	}
	return bleve.NewIndexMapping()
}

func (s *IndexingService) generationPath(indexName string) string {
	return filepath.Join(s.basePath, fmt.Sprintf("%s.%019d.bleve", indexName, time.Now().UnixNano()))
}

// pointerPath names the file recording which generation of indexName is live
func (s *IndexingService) pointerPath(indexName string) string {
	return filepath.Join(s.basePath, indexName+".current")
}

func (s *IndexingService) writePointer(indexName, generationPath string) error {
	tmp := s.pointerPath(indexName) + ".tmp"
	if err := os.WriteFile(tmp, []byte(filepath.Base(generationPath)), 0o644); err != nil {
		return fmt.Errorf("failed to write index pointer: %w", err)
	}
	if err := os.Rename(tmp, s.pointerPath(indexName)); err != nil {
		return fmt.Errorf("failed to publish index pointer: %w", err)
	}
	return nil
}

func (s *IndexingService) readPointer(indexName string) (string, bool) {
	raw, err := os.ReadFile(s.pointerPath(indexName))
	if err != nil {
		return "", false
	}
	path := filepath.Join(s.basePath, strings.TrimSpace(string(raw)))
	if _, err := os.Stat(path); err != nil {
		return "", false
	}
	return path, true
}

func (s *IndexingService) getOrCreateIndex(indexName string) (bleve.Index, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.openLocked(indexName)
	if err != nil {
		return nil, err
	}
	return m.alias, nil
}

func (s *IndexingService) openLocked(indexName string) (*managedIndex, error) {
	if m, ok := s.indexes[indexName]; ok {
		return m, nil
	}

	if err := os.MkdirAll(s.basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	var idx bleve.Index
	path, ok := s.readPointer(indexName)
	if ok {
		opened, err := bleve.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open index %s: %w", path, err)
		}
		idx = opened
	} else {
		// If index does not exist, create a new one
		path = s.generationPath(indexName)
		created, err := bleve.New(path, s.mappingLocked(indexName))
		if err != nil {
			return nil, fmt.Errorf("failed to create index %s: %w", path, err)
		}
		if err := s.writePointer(indexName, path); err != nil {
			created.Close()
			return nil, err
		}
		idx = created
	}

	s.removeStaleGenerations(indexName, path)

	m := &managedIndex{alias: bleve.NewIndexAlias(idx), current: idx, path: path}
	s.indexes[indexName] = m
	return m, nil
}

// removeStaleGenerations deletes leftovers of rebuilds that never went live
func (s *IndexingService) removeStaleGenerations(indexName, livePath string) {
	generations, err := filepath.Glob(filepath.Join(s.basePath, indexName+".*.bleve"))
	if err != nil {
		s.logger.Error("Failed to scan for index generations", zap.String("index_name", indexName), zap.Error(err))
		return
	}
	for _, generation := range generations {
		if generation == livePath {
			continue
		}
		if err := os.RemoveAll(generation); err != nil {
			s.logger.Warn("Failed to remove stale index generation", zap.String("path", generation), zap.Error(err))
			continue
		}
		s.logger.Info("Removed stale index generation", zap.String("path", generation))
	}
}

// SearchIndex performs a paged search and requests stored fields to be included
func (s *IndexingService) SearchIndex(indexName string, q query.Query, size, from int) (*bleve.SearchResult, error) {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return nil, err
	}

	searchRequest := bleve.NewSearchRequestOptions(q, size, from, false)
	searchRequest.Fields = []string{"*"} // Fetch all stored fields

	searchResult, err := idx.Search(searchRequest)
	if err != nil {
		s.logger.Error("Search failed", zap.String("index_name", indexName), zap.Error(err))
		return nil, err
	}

	return searchResult, nil
}

func (s *IndexingService) IndexDocument(indexName, id string, document interface{}) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return err
	}

	if err := idx.Index(id, document); err != nil {
		s.logger.Error("Failed to index document", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Debug("Successfully indexed document", zap.String("id", id))
	return nil
}

func (s *IndexingService) DeleteDocument(indexName, id string) error {
	idx, err := s.getOrCreateIndex(indexName)
	if err != nil {
		s.logger.Error("Could not get or create index", zap.Error(err))
		return err
	}

	if err := idx.Delete(id); err != nil {
		s.logger.Error("Failed to delete document", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Debug("Successfully deleted document", zap.String("id", id))
	return nil
}

// RebuildIndex writes documents into a new generation of indexName and swaps
// it in atomically. Searches see the old generation until the swap and the new
// one after it; single-document writes made during the rebuild are lost.
func (s *IndexingService) RebuildIndex(indexName string, documents map[string]interface{}) error {
	s.rebuildMu.Lock()
	defer s.rebuildMu.Unlock()

	s.mu.Lock()
	live, err := s.openLocked(indexName)
	indexMapping := s.mappingLocked(indexName)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	path := s.generationPath(indexName)
	fresh, err := bleve.New(path, indexMapping)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", path, err)
	}

	discard := func() {
		fresh.Close()
		os.RemoveAll(path)
	}
	if err := batchIndex(fresh, documents); err != nil {
		discard()
		s.logger.Error("Failed to build index generation", zap.String("index_name", indexName), zap.Error(err))
		return err
	}
	if err := s.writePointer(indexName, path); err != nil {
		discard()
		return err
	}

	s.mu.Lock()
	previous, previousPath := live.current, live.path
	// Swap waits for searches still running against the previous generation
	live.alias.Swap([]bleve.Index{fresh}, []bleve.Index{previous})
	live.current, live.path = fresh, path
	s.mu.Unlock()

	if err := previous.Close(); err != nil {
		s.logger.Warn("Failed to close previous index generation", zap.String("path", previousPath), zap.Error(err))
	}
	if err := os.RemoveAll(previousPath); err != nil {
		s.logger.Warn("Failed to remove previous index generation", zap.String("path", previousPath), zap.Error(err))
	}

	s.logger.Info("Successfully rebuilt index",
		zap.String("index_name", indexName),
		zap.Int("count", len(documents)))
	return nil
}

func batchIndex(idx bleve.Index, documents map[string]interface{}) error {
	batch := idx.NewBatch()
	for id, doc := range documents {
		if err := batch.Index(id, doc); err != nil {
			return fmt.Errorf("failed to add doc %s to batch: %w", id, err)
		}
		if batch.Size() >= batchSize {
			if err := idx.Batch(batch); err != nil {
				return fmt.Errorf("failed to execute batch: %w", err)
			}
			batch.Reset()
		}
	}
	if batch.Size() > 0 {
		if err := idx.Batch(batch); err != nil {
			return fmt.Errorf("failed to execute batch: %w", err)
		}
	}
	return nil
}

// Close closes every open index without deleting files
func (s *IndexingService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for name, m := range s.indexes {
		m.alias.Close()
		if err := m.current.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close index %s: %w", name, err)
		}
		delete(s.indexes, name)
	}
	return firstErr
}
