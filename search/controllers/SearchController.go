package controllers

import (
	"context"
	"errors"

	"catalog-search-backend/config"
	"catalog-search-backend/internal/tasks"
	"catalog-search-backend/search/models"
	"catalog-search-backend/search/services"
	"catalog-search-backend/token"
	"catalog-search-backend/utils/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Searcher interface {
	Search(ctx context.Context, query string, offset, limit int) (*models.SearchResultList, pagination.Window, error)
}

type SearchController struct {
	Service Searcher
	Tasks   tasks.Enqueuer
}

func NewSearchController(service Searcher, taskClient tasks.Enqueuer) *SearchController {
	return &SearchController{
		Service: service,
		Tasks:   taskClient,
	}
}

// Search handles GET /api/v1/search?query=&offset=&limit=
func (sc *SearchController) Search(c *fiber.Ctx) error {
	params := pagination.ParseOffsetLimitParams(c)

	result, window, err := sc.Service.Search(c.Context(), params.Query, params.Offset, params.Limit)
	if err != nil {
		switch {
		case errors.Is(err, pagination.ErrInvalidPaginationInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrInvalidEnumValue), errors.Is(err, services.ErrMissingOwner):
			config.Logger.Error("Catalog data failed validation during search",
				zap.String("query", params.Query),
				zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Catalog data is inconsistent"})
		default:
			config.Logger.Error("Search failed", zap.String("query", params.Query), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Search failed"})
		}
	}

	services.SetPaginationParams(result, window, c.Path(), params.Query)
	return c.Status(fiber.StatusOK).JSON(result)
}

// Reindex handles POST /api/v1/search/reindex
func (sc *SearchController) Reindex(c *fiber.Ctx) error {
	requestedBy := "unknown"
	if payload, ok := c.Locals("user").(*token.Payload); ok {
		requestedBy = payload.Subject
	}

	info, err := tasks.EnqueueCatalogReindex(sc.Tasks, requestedBy)
	if err != nil {
		config.Logger.Error("Failed to enqueue catalog reindex", zap.String("requested_by", requestedBy), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to schedule reindex"})
	}

	config.Logger.Info("Catalog reindex enqueued", zap.String("task_id", info.ID), zap.String("requested_by", requestedBy))
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Reindex scheduled",
		"task_id": info.ID,
	})
}

type syncRequest struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// Sync handles POST /api/v1/search/sync and queues a refresh of one index entry
// after the entity was created, changed or deleted in the store
func (sc *SearchController) Sync(c *fiber.Ctx) error {
	var req syncRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	kind, err := models.ParseEntityKind(req.Kind)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if _, err := uuid.Parse(req.ID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "id must be a UUID"})
	}

	info, err := tasks.EnqueueCatalogSync(sc.Tasks, kind, req.ID)
	if err != nil {
		config.Logger.Error("Failed to enqueue catalog sync",
			zap.String("kind", req.Kind), zap.String("id", req.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to schedule sync"})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Sync scheduled",
		"task_id": info.ID,
	})
}
