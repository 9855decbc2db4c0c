package main

import (
	"context"

	"gaugeworks/internal/handlers"
	"gaugeworks/internal/storage"
	"gaugeworks/pkg/config"
	"gaugeworks/pkg/database"
	"gaugeworks/pkg/logging"
	"gaugeworks/pkg/middleware"
	"gaugeworks/pkg/monitoring"
	"gaugeworks/pkg/redis"
	"gaugeworks/pkg/server"
	"gaugeworks/pkg/version"

	goredis "github.com/redis/go-redis/v9"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	// Setup logger
	logger := logging.NewLoggerWithService("stockroom")

	// Load environment variables
	config.LoadEnv(logger)

	build := version.GetInfo()
	logger.WithFields(logging.Fields{
		"version":    build.Version,
		"commit":     version.GetShortCommit(),
		"build_date": build.BuildDate,
	}).Info("Starting Stockroom (Storage Usage API)")

	// Connect to database
	dbConfig := database.DefaultConfig()
	dbConfig.URL = config.GetEnv("DATABASE_URL", "")
	db := database.MustConnect(dbConfig, logger)
	defer db.Close()

	// Cache backend: Redis when configured, in-process otherwise
	var redisClient goredis.UniversalClient
	var cache storage.CacheStore
	if redisURL := config.GetEnv("REDIS_URL", ""); redisURL != "" {
		client, err := redis.NewClientFromURL(context.Background(), redisURL)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to Redis")
		}
		redisClient = client
		defer client.Close()
		cache = storage.NewRedisStore(client)
	} else {
		logger.Warn("REDIS_URL not set; falling back to in-process cache")
		cache = storage.NewMemoryStore(config.GetEnvInt("CACHE_MAX_ENTRIES", 10000))
	}

	// Object store: S3 (or compatible) in production, local filesystem for
	// single-node deployments. Only S3 carries the presigned document surface.
	var objects storage.ObjectStore
	var documents storage.DocumentStore
	switch driver := config.GetEnv("STORAGE_DRIVER", "s3"); driver {
	case "s3":
		store, err := storage.NewS3Store(storage.S3Config{
			Bucket:    config.RequireEnv("S3_BUCKET"),
			Prefix:    config.GetEnv("S3_PREFIX", ""),
			Region:    config.GetEnv("S3_REGION", "us-east-1"),
			Endpoint:  config.GetEnv("S3_ENDPOINT", ""),
			AccessKey: config.GetEnv("S3_ACCESS_KEY", ""),
			SecretKey: config.GetEnv("S3_SECRET_KEY", ""),
		}, logger)
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize S3 object store")
		}
		objects = store
		documents = store
	case "local":
		store, err := storage.NewLocalStore(config.GetEnv("STORAGE_ROOT", "./data"))
		if err != nil {
			logger.WithError(err).Fatal("Failed to initialize local object store")
		}
		objects = store
	default:
		logger.WithField("driver", driver).Fatal("Unknown STORAGE_DRIVER")
	}

	// Plan catalog: YAML file when configured, built-in tiers otherwise
	plans := config.DefaultPlanCatalog()
	if path := config.GetEnv("PLAN_CATALOG_FILE", ""); path != "" {
		loaded, err := config.LoadPlanCatalog(path)
		if err != nil {
			logger.WithError(err).Fatal("Failed to load plan catalog")
		}
		plans = loaded
	}

	// Setup monitoring
	healthChecker := monitoring.NewHealthChecker("stockroom", version.Version)
	metricsCollector := monitoring.NewMetricsCollector("stockroom", version.Version, version.GitCommit)

	// Add health checks
	healthChecker.AddCheck("database", monitoring.DatabaseHealthCheck(db))
	healthChecker.AddCheck("redis", monitoring.RedisHealthCheck(redisClient))
	healthChecker.AddCheck("config", monitoring.ConfigurationHealthCheck(map[string]string{
		"DATABASE_URL":  config.GetEnv("DATABASE_URL", ""),
		"SERVICE_TOKEN": config.GetEnv("SERVICE_TOKEN", ""),
	}))

	// Usage calculator and quota layer
	calc := storage.NewCalculator(db, objects, cache, logger)
	quota := storage.NewQuotaService(db, calc, plans, logger)

	// Wire calculator metrics
	cacheLookups, calcDuration, calcPaths := metricsCollector.CreateStorageMetrics()
	calc.SetMetrics(storage.Metrics{
		OnCacheHit:  func() { cacheLookups.WithLabelValues("hit").Inc() },
		OnCacheMiss: func() { cacheLookups.WithLabelValues("miss").Inc() },
		OnCompute: func(mode string, pathCount int, seconds float64) {
			calcDuration.With(prometheus.Labels{"mode": mode}).Observe(seconds)
			calcPaths.With(prometheus.Labels{"mode": mode}).Observe(float64(pathCount))
		},
	})

	// Initialize handlers
	handlers.Init(logger, calc, quota, documents)

	// Setup router with unified monitoring
	router := server.SetupServiceRouter(logger, "stockroom", healthChecker, metricsCollector)

	// Public routes
	public := router.Group("/api")
	{
		public.GET("/tenants/:id/storage", handlers.GetStorageSummary)
	}

	// Protected routes (require service token authentication)
	protected := router.Group("/api")
	protected.Use(middleware.ServiceAuthMiddleware(config.GetEnv("SERVICE_TOKEN", "default-service-token")))
	{
		protected.POST("/tenants/:id/storage/invalidate", handlers.InvalidateStorageCache)
		protected.POST("/tenants/:id/storage/validate-upload", handlers.ValidateUpload)
		protected.POST("/tenants/:id/assets/validate-create", handlers.ValidateAssetCreate)

		// Direct document transfer (S3 driver only)
		protected.POST("/tenants/:id/documents/presign-upload", handlers.PresignDocumentUpload)
		protected.POST("/tenants/:id/documents/presign-download", handlers.PresignDocumentDownload)
		protected.POST("/tenants/:id/documents/delete", handlers.DeleteDocument)
	}

	// Start server with graceful shutdown
	serverConfig := server.DefaultConfig("stockroom", "18010")
	if err := server.Start(serverConfig, router, logger); err != nil {
		logger.WithError(err).Fatal("Server startup failed")
	}
}
