package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-search-backend/internal/bootstrap"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeCatalogReindex = "catalog:reindex"

type CatalogReindexPayload struct {
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}

// Enqueuer is satisfied by *asynq.Client
type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

func NewCatalogReindexTask(requestedBy string) (*asynq.Task, error) {
	payload, err := json.Marshal(CatalogReindexPayload{
		RequestedBy: requestedBy,
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCatalogReindex, payload, asynq.MaxRetry(3), asynq.Timeout(30*time.Minute)), nil
}

// EnqueueCatalogReindex queues a rebuild. Only one rebuild may be pending at a time.
func EnqueueCatalogReindex(client Enqueuer, requestedBy string) (*asynq.TaskInfo, error) {
	task, err := NewCatalogReindexTask(requestedBy)
	if err != nil {
		return nil, fmt.Errorf("create reindex task: %w", err)
	}
	return client.Enqueue(task, asynq.Unique(time.Hour))
}

type CatalogReindexHandler struct {
	source  bootstrap.CatalogSource
	indexer bootstrap.CatalogIndexer
	logger  *zap.Logger
}

func NewCatalogReindexHandler(source bootstrap.CatalogSource, indexer bootstrap.CatalogIndexer, logger *zap.Logger) *CatalogReindexHandler {
	return &CatalogReindexHandler{source: source, indexer: indexer, logger: logger}
}

func (h *CatalogReindexHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p CatalogReindexPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode reindex payload: %v: %w", err, asynq.SkipRetry)
	}

	start := time.Now()
	count, err := bootstrap.IndexCatalog(ctx, h.source, h.indexer)
	if err != nil {
		h.logger.Error("Catalog reindex failed", zap.String("requested_by", p.RequestedBy), zap.Error(err))
		return err
	}

	h.logger.Info("Catalog reindex finished",
		zap.String("requested_by", p.RequestedBy),
		zap.Int("documents", count),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}
