package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/minio/minio-go/v7"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	_ "modeling-service/docs"
	"modeling-service/internal/config"
	"modeling-service/internal/handlers"
	"modeling-service/internal/metrics"
	"modeling-service/internal/models"
	"modeling-service/internal/repository"
	"modeling-service/internal/services"
	"modeling-service/internal/services/cache"
	"modeling-service/internal/services/caches"
	"modeling-service/internal/storage"
	"modeling-service/internal/viewer"
)

// @title Modeling Service API
// @version 1.0
// @description Procedural building model generation and 3D viewer sessions
// @BasePath /api/modeling
func main() {
	cfg := InitConfig()
	db := ConnectDatabase(cfg)
	MigrateDatabase(db)
	minioClient := InitMinIOClient(cfg)
	collector := metrics.NewCollector()

	cacheTTL := time.Duration(cfg.CacheTTLMinutes) * time.Minute
	cacheLayers := []cache.Layer{
		caches.NewMemoryCache(cfg.MemoryCacheBytes, cacheTTL),
		caches.NewFileSystemCache(cfg.CacheDir, cfg.FileCacheBytes, cacheTTL),
	}
	if cfg.RedisHost != "" {
		redisClient, err := storage.NewRedisClient(cfg.RedisHost, cfg.RedisPort)
		if err != nil {
			logrus.Warnf("Redis unavailable, payload cache runs without it: %v", err)
		} else {
			cacheLayers = append(cacheLayers, caches.NewRedisCache(redisClient, cacheTTL))
		}
	}
	cacheService := services.NewCacheService(collector, cacheLayers...)

	modelRepo := repository.NewModelRepository(db)
	modelService := services.NewModelService(modelRepo, minioClient, cfg.MinioBucket, cacheService, collector)
	envService := services.NewEnvironmentService(minioClient, cfg.MinioBucket)
	sessionService := services.NewSessionService(viewer.Settings{
		Quality:       cfg.ViewerQuality,
		Shadows:       cfg.ViewerShadows,
		Lighting:      cfg.ViewerLighting,
		Background:    cfg.ViewerBackground,
		FrameInterval: time.Second / time.Duration(cfg.ViewerFrameRate),
	}, envService, collector)
	defer sessionService.Shutdown()

	app := fiber.New()

	// Register Prometheus metrics endpoint
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	mh := handlers.NewModelHandler(modelService)
	sh := handlers.NewSessionHandler(sessionService, modelService)
	ch := handlers.NewCacheHandler(cacheService)

	api := app.Group("/api/modeling")
	api.Post("/models", mh.GenerateModel)
	api.Get("/models", mh.ListModels)
	api.Post("/models/import", mh.ImportModel)
	api.Get("/models/:modelId", mh.GetModel)
	api.Get("/models/:modelId/export", mh.ExportModel)
	api.Delete("/models/:id", mh.DeleteModel)

	api.Post("/sessions", sh.CreateSession)
	api.Get("/sessions/:id", sh.GetSession)
	api.Post("/sessions/:id/model", sh.LoadModel)
	api.Post("/sessions/:id/commands", sh.Command)
	api.Post("/sessions/:id/resize", sh.Resize)
	api.Post("/sessions/:id/environment", sh.LoadEnvironment)
	api.Delete("/sessions/:id", sh.CloseSession)

	api.Get("/cache/stats", ch.Statistics)
	api.Delete("/cache", ch.Clear)

	api.Get("/swagger/*", swagger.HandlerDefault)

	// Add Health check endpoint
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	routes := app.GetRoutes()
	logrus.Info("Registered routes:")
	for _, r := range routes {
		logrus.Infof("  %s %s", r.Method, r.Path)
	}

	// Start the Fiber server
	port := cfg.AppPort
	if port == "" {
		port = "8080"
		logrus.Infof("Defaulting to port %s", port)
	}
	logrus.Infof("Server listening on port %s", port)
	logrus.Fatal(app.Listen(":" + port))
}

func InitConfig() *config.Config {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Config error: %v", err)
	}
	return cfg
}

func ConnectDatabase(cfg *config.Config) *gorm.DB {
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logrus.Fatalf("Database connection failed: %v", err)
	}
	return db
}

func MigrateDatabase(db *gorm.DB) {
	err := db.AutoMigrate(&models.ModelRecord{})
	if err != nil {
		logrus.Fatalf("Database migration failed: %v", err)
	}
}

func InitMinIOClient(cfg *config.Config) *minio.Client {
	minioClient, err := storage.NewMinioClient(cfg)
	if err != nil {
		logrus.Fatalf("MinIO client initialization failed: %v", err)
	}
	return minioClient
}
