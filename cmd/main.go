package main

import (
	"context"
	"strings"

	"catalog-search-backend/config"
	"catalog-search-backend/internal/bootstrap"
	"catalog-search-backend/internal/tasks"
	"catalog-search-backend/middleware"
	"catalog-search-backend/seeds"
	"catalog-search-backend/token"

	// Repositories
	bleveRepositories "catalog-search-backend/bleve/repositories"
	bleveServices "catalog-search-backend/bleve/services"
	catalogRepositories "catalog-search-backend/catalog/repositories"
	elasticRepositories "catalog-search-backend/elastic/repositories"

	// Search
	searchControllers "catalog-search-backend/search/controllers"
	searchRoutes "catalog-search-backend/search/routes"
	searchServices "catalog-search-backend/search/services"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// catalogBackend is the search index the service reads from and the background jobs write to
type catalogBackend interface {
	searchServices.CatalogIndex
	bootstrap.CatalogIndexer
	bootstrap.CatalogDocumentWriter
}

func main() {
	// Load environment variables
	envErr := godotenv.Load(".env")

	// Initialize Zap logger
	config.InitLogger()
	defer config.Logger.Sync()

	if envErr != nil {
		config.Logger.Warn("No .env file loaded, using process environment", zap.Error(envErr))
	}

	app := fiber.New()

	// Keep one bad request from killing the process
	middleware.InitRecover(app)

	// Apply CORS middleware from middleware package
	middleware.InitCors(app, config.GetEnv("ALLOWED_ORIGINS"))

	// Initialize database and configs
	db := config.ConfigureDatabase()
	ctx := context.Background()

	port := config.GetEnv("PORT")
	if port == "" {
		port = "8080"
		config.Logger.Warn("PORT not set, using default: 8080")
	}

	// Redis client for Asynq and session revocation
	redisAddr := config.GetEnv("REDIS_ADDRESS")
	if redisAddr == "" {
		redisAddr = "localhost:6379" // Default for development
		config.Logger.Warn("REDIS_ADDRESS not set, using default: localhost:6379")
	}
	redisClient := config.InitRedisServer(ctx, redisAddr)
	defer redisClient.Close()

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     redisAddr,
		Password: config.GetEnv("REDIS_PASSWORD"),
		DB:       0,
	}
	asynqClient := asynq.NewClient(asynqRedisOpt)
	defer asynqClient.Close()

	tokenMaker, err := token.NewPasetoMaker(config.GetEnv("TOKEN_SYMMETRIC_KEY"))
	if err != nil {
		config.Logger.Fatal("Cannot create token maker", zap.Error(err))
	}

	appCtx := &middleware.AppContext{
		PasetoMaker: tokenMaker,
		Ctx:         ctx,
		Sessions:    middleware.NewRedisSessionStore(redisClient),
	}

	// Search index backend
	var backend catalogBackend
	switch strings.ToLower(config.GetEnv("SEARCH_BACKEND")) {
	case "elasticsearch", "elastic":
		esClient := config.InitElasticsearch(ctx)
		indexName := config.GetEnv("ELASTICSEARCH_INDEX")
		if indexName == "" {
			indexName = elasticRepositories.DefaultCatalogIndex
		}
		backend = elasticRepositories.NewElasticRepository(esClient, indexName)
		config.Logger.Info("Using Elasticsearch search backend", zap.String("index", indexName))
	default:
		indexPath := config.GetEnv("BLEVE_INDEX_PATH")
		if indexPath == "" {
			indexPath = "./bleve_data" // Default for local development
			config.Logger.Warn("BLEVE_INDEX_PATH not set, using default: ./bleve_data")
		}
		bleveIndexingService := bleveServices.NewIndexingService(config.Logger, indexPath)
		defer bleveIndexingService.Close()
		_, bleveInterfaceRepo := bleveRepositories.NewBleveRepository(bleveIndexingService)
		backend = bleveInterfaceRepo
		config.Logger.Info("Using Bleve search backend", zap.String("path", indexPath))
	}

	// Repositories
	catalogRepo := catalogRepositories.NewCatalogRepository(db)

	// Services
	searchService := searchServices.NewSearchService(backend, catalogRepo, config.Logger)

	//------ Run seeders for development data ------ //
	if config.GetEnv("SEED_CATALOG") == "true" {
		if err := seeds.SeedCatalogAll(db); err != nil {
			config.Logger.Error("Catalog seeding failed", zap.Error(err))
		}
	}

	// Background reindexing
	asynqServer := asynq.NewServer(asynqRedisOpt, asynq.Config{
		Concurrency: 1,
		Queues:      map[string]int{"default": 1},
	})
	taskMux := asynq.NewServeMux()
	taskMux.Handle(tasks.TypeCatalogReindex, tasks.NewCatalogReindexHandler(catalogRepo, backend, config.Logger))
	taskMux.Handle(tasks.TypeCatalogSync, tasks.NewCatalogSyncHandler(catalogRepo, backend, config.Logger))
	if err := asynqServer.Start(taskMux); err != nil {
		config.Logger.Fatal("Failed to start task server", zap.Error(err))
	}
	defer asynqServer.Shutdown()

	scheduler, err := tasks.NewReindexScheduler(config.GetEnv("CATALOG_REINDEX_CRON"), asynqClient)
	if err != nil {
		config.Logger.Fatal("Invalid CATALOG_REINDEX_CRON", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Re-Index all data on startup
	if _, err := tasks.EnqueueCatalogReindex(asynqClient, "startup"); err != nil {
		config.Logger.Warn("Startup catalog reindex not enqueued", zap.Error(err))
	}

	// Routes
	limiter := middleware.NewRateLimiter(
		float64(config.GetEnvInt("SEARCH_RATE_LIMIT", 20)),
		config.GetEnvInt("SEARCH_RATE_BURST", 40),
	)
	searchController := searchControllers.NewSearchController(searchService, asynqClient)
	searchRoutes.InitSearchRoutes(app, searchController, appCtx, limiter)
	app.Post("/api/v1/auth/logout", middleware.ProtectedRoute(appCtx), middleware.Logout(appCtx))

	// Start the application
	config.Logger.Info("Server starting", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		config.Logger.Error("Server failed", zap.String("port", port), zap.Error(err))
	}
}
