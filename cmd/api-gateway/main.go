package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/lbhackney-it/apprenticeships-api/api/swagger"
	"github.com/lbhackney-it/apprenticeships-api/internal/handler"
	"github.com/lbhackney-it/apprenticeships-api/internal/middleware"
	"github.com/lbhackney-it/apprenticeships-api/internal/repository"
	"github.com/lbhackney-it/apprenticeships-api/internal/service"
	"github.com/lbhackney-it/apprenticeships-api/pkg/cache"
	"github.com/lbhackney-it/apprenticeships-api/pkg/config"
	"github.com/lbhackney-it/apprenticeships-api/pkg/database"
	"github.com/lbhackney-it/apprenticeships-api/pkg/export"
	"github.com/lbhackney-it/apprenticeships-api/pkg/jobs"
	"github.com/lbhackney-it/apprenticeships-api/pkg/logger"
	corsmiddleware "github.com/lbhackney-it/apprenticeships-api/pkg/middleware/cors"
	reqidmiddleware "github.com/lbhackney-it/apprenticeships-api/pkg/middleware/requestid"
	"github.com/lbhackney-it/apprenticeships-api/pkg/storage"
)

// @title Apprenticeships API
// @version 1.0.0
// @description Apprenticeship levy tracking for the council: apprentices, levy transactions, CSV ingestion, analytics and exports.
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	cacheSvc := service.NewCacheService(nil, metrics, cfg.Analytics.CacheTTL, logr, false)
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, analytics caching disabled", "error", err)
	} else {
		defer redisClient.Close() //nolint:errcheck
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metrics, cfg.Analytics.CacheTTL, logr, cfg.Analytics.Enabled)
	}

	auditRepo := repository.NewAuditRepository(db)
	auditSvc := service.NewAuditService(auditRepo, logr)

	apprenticeRepo := repository.NewApprenticeRepository(db)
	apprenticeSvc := service.NewApprenticeService(apprenticeRepo, auditSvc, cacheSvc, nil, logr)

	transactionRepo := repository.NewTransactionRepository(db)
	transactionSvc := service.NewTransactionService(transactionRepo, auditSvc, cacheSvc, nil, logr)

	analyticsRepo := repository.NewAnalyticsRepository(db)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheSvc, cfg.Analytics.CacheTTL, logr)

	ingestSvc := service.NewIngestService(apprenticeSvc, transactionSvc, auditSvc, metrics, cfg.Ingest.MaxFileSizeBytes, logr)

	authSvc := service.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, logr)

	var exportJobSvc *service.ExportJobService
	if cfg.Exports.Enabled {
		localStorage, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportSvc := service.NewExportService(apprenticeRepo, transactionRepo, localStorage, signer,
			service.ExportConfig{ResultTTL: cfg.Exports.SignedURLTTL}, logr,
			export.NewCSVExporter(), export.NewPDFExporter())

		exportRepo := repository.NewExportRepository(db)
		worker := service.NewExportWorker(exportRepo, exportSvc, cfg.Exports.WorkerRetries, logr)
		queue := jobs.NewQueue("exports", worker.Handle, jobs.QueueConfig{
			Workers:    cfg.Exports.WorkerConcurrency,
			MaxRetries: cfg.Exports.WorkerRetries,
			Logger:     logr,
		})
		queue.Start(context.Background())
		defer queue.Stop()

		exportJobSvc = service.NewExportJobService(exportRepo, queue, exportSvc, nil, logr, service.ExportJobConfig{
			ResultTTL:       cfg.Exports.SignedURLTTL,
			CleanupInterval: cfg.Exports.CleanupInterval,
			MaxRetries:      cfg.Exports.WorkerRetries,
		})
		exportJobSvc.RecoverPendingJobs(context.Background())
		exportJobSvc.StartCleanup(context.Background())
	}

	apprenticeHandler := handler.NewApprenticeHandler(apprenticeSvc, ingestSvc)
	transactionHandler := handler.NewTransactionHandler(transactionSvc, ingestSvc)
	auditHandler := handler.NewAuditHandler(auditSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc)
	exportHandler := handler.NewExportHandler(exportJobSvc, cfg.Exports.Enabled)
	metricsHandler := handler.NewMetricsHandler(metrics)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authed := r.Group("/", middleware.JWT(authSvc))

	apprentices := authed.Group("/Apprentices")
	apprentices.GET("/all", apprenticeHandler.All)
	apprentices.GET("/find", apprenticeHandler.Find)
	apprentices.POST("/create", apprenticeHandler.Create)
	apprentices.POST("/upload", apprenticeHandler.Upload)
	apprentices.POST("/ingest", apprenticeHandler.Ingest)
	apprentices.PATCH("", apprenticeHandler.Update)
	apprentices.DELETE("/:id", apprenticeHandler.Delete)

	transactions := authed.Group("/Transactions")
	transactions.GET("/all", transactionHandler.All)
	transactions.GET("/find", transactionHandler.Find)
	transactions.POST("/create", transactionHandler.Create)
	transactions.POST("/upload", transactionHandler.Upload)
	transactions.POST("/ingest", transactionHandler.Ingest)
	transactions.PATCH("", transactionHandler.Update)
	transactions.DELETE("/:id", transactionHandler.Delete)

	authed.GET("/AuditLogs", auditHandler.List)
	authed.GET("/Analytics/summary", analyticsHandler.Summary)

	authed.POST("/Exports", exportHandler.Create)
	authed.GET("/Exports/:id", exportHandler.Status)
	// Downloads authenticate through the signed token instead of a session.
	r.GET("/Exports/download", exportHandler.Download)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
