package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"catalog-search-backend/internal/bootstrap"
	"catalog-search-backend/search/models"
	"catalog-search-backend/search/services"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeCatalogSync = "catalog:sync"

// CatalogSyncPayload names the one entity whose index entry should be refreshed
type CatalogSyncPayload struct {
	Kind models.EntityKind `json:"kind"`
	ID   string            `json:"id"`
}

func NewCatalogSyncTask(kind models.EntityKind, id string) (*asynq.Task, error) {
	if _, err := models.ParseEntityKind(string(kind)); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, errors.New("entity id is required")
	}
	payload, err := json.Marshal(CatalogSyncPayload{Kind: kind, ID: id})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeCatalogSync, payload, asynq.MaxRetry(5), asynq.Timeout(time.Minute)), nil
}

// EnqueueCatalogSync queues a refresh of one entry. Repeated requests for the
// same entity within a few seconds collapse into one task.
func EnqueueCatalogSync(client Enqueuer, kind models.EntityKind, id string) (*asynq.TaskInfo, error) {
	task, err := NewCatalogSyncTask(kind, id)
	if err != nil {
		return nil, fmt.Errorf("create sync task: %w", err)
	}
	return client.Enqueue(task, asynq.Unique(10*time.Second))
}

type CatalogSyncHandler struct {
	store  services.CatalogStore
	writer bootstrap.CatalogDocumentWriter
	logger *zap.Logger
}

func NewCatalogSyncHandler(store services.CatalogStore, writer bootstrap.CatalogDocumentWriter, logger *zap.Logger) *CatalogSyncHandler {
	return &CatalogSyncHandler{store: store, writer: writer, logger: logger}
}

func (h *CatalogSyncHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p CatalogSyncPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode sync payload: %v: %w", err, asynq.SkipRetry)
	}
	kind, err := models.ParseEntityKind(string(p.Kind))
	if err != nil {
		return fmt.Errorf("sync payload: %v: %w", err, asynq.SkipRetry)
	}

	deleted, err := bootstrap.SyncCatalogEntity(ctx, h.store, h.writer, kind, p.ID)
	if err != nil {
		h.logger.Error("Catalog sync failed", zap.String("kind", string(kind)), zap.String("id", p.ID), zap.Error(err))
		return err
	}

	h.logger.Debug("Catalog sync finished",
		zap.String("kind", string(kind)),
		zap.String("id", p.ID),
		zap.Bool("deleted", deleted),
	)
	return nil
}
