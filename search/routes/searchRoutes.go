package routes

import (
	"catalog-search-backend/middleware"
	"catalog-search-backend/search/controllers"

	"github.com/gofiber/fiber/v2"
)

func InitSearchRoutes(
	app *fiber.App,
	searchController *controllers.SearchController,
	appCtx *middleware.AppContext,
	limiter *middleware.RateLimiter,
) {
	searchRoutes := app.Group("/api/v1/search")
	searchRoutes.Get("/", limiter.Handler(), searchController.Search)
	searchRoutes.Post("/reindex", middleware.ProtectedRoute(appCtx), searchController.Reindex)
	searchRoutes.Post("/sync", middleware.ProtectedRoute(appCtx), searchController.Sync)
}
