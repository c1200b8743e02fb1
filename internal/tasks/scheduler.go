package tasks

import (
	"catalog-search-backend/config"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultReindexSchedule = "0 2 * * *"

// NewReindexScheduler returns a stopped cron that enqueues a catalog rebuild on schedule
func NewReindexScheduler(schedule string, client Enqueuer) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultReindexSchedule
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		info, err := EnqueueCatalogReindex(client, "scheduler")
		if err != nil {
			config.Logger.Error("Failed to enqueue scheduled catalog reindex", zap.Error(err))
			return
		}
		config.Logger.Info("Scheduled catalog reindex enqueued", zap.String("task_id", info.ID))
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}
