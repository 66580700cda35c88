package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"appMatch/app/echo-server/router"
	"appMatch/business/abtest"
	"appMatch/business/embeddings"
	"appMatch/business/performance"
	"appMatch/business/predictor"
	"appMatch/business/similarity"
	"appMatch/internal/middleware"
	"appMatch/internal/repository/download"
	fileRepo "appMatch/internal/repository/file"
	psqlRepo "appMatch/internal/repository/postgres"
	"appMatch/internal/rest"
	"appMatch/pkg/config"
	"appMatch/pkg/database"
	"appMatch/pkg/logger"
	"appMatch/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting similarity service", "version", cfg.App.Version)

	metrics.Init()
	collector := metrics.NewCollector()

	// Fetch any data files a deployment serves from remote storage
	// before the stores attempt their first load.
	downloader := download.NewRepository()
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := downloader.EnsureAll(startupCtx, map[string]string{
		cfg.Data.EmbeddingsV1Path: cfg.Data.EmbeddingsV1URL,
		cfg.Data.EmbeddingsV2Path: cfg.Data.EmbeddingsV2URL,
		cfg.Data.AppsPath:         cfg.Data.AppsURL,
		cfg.Data.PerformancePath:  cfg.Data.PerformanceURL,
	}); err != nil {
		cancelStartup()
		logger.Fatal("Failed to fetch data files", "error", err)
	}
	cancelStartup()

	// Init repo
	embeddingsRepo := fileRepo.NewEmbeddingsRepository(cfg.Data.EmbeddingsV1Path, cfg.Data.EmbeddingsV2Path)
	appsRepo := fileRepo.NewAppsRepository(cfg.Data.AppsPath)

	var perfSource performance.EventSource
	switch cfg.Data.PerformanceSource {
	case "postgres":
		db, err := database.InitPostgres(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		logger.Info("Database connected successfully")
		perfSource = psqlRepo.NewPerformanceRepository(db)
	default:
		perfSource = fileRepo.NewPerformanceRepository(cfg.Data.PerformancePath)
	}

	// Init service
	abController := abtest.NewController(abtest.Policy{
		V1Weight: cfg.AB.V1Weight,
		Sticky:   cfg.AB.Sticky,
	})
	embeddingStore := embeddings.NewStore(embeddingsRepo)
	retrievalService := similarity.NewService(embeddingStore, appsRepo)
	perfCache := performance.NewCache(perfSource)
	predictorService := predictor.New()

	// Init handler
	similarityHandler := rest.NewSimilarityHandler(abController, embeddingStore, retrievalService, collector, cfg.AB.DefaultTopK)
	predictHandler := rest.NewPredictHandler(perfCache, predictorService, collector)
	metricsHandler := rest.NewMetricsHandler(collector)
	healthHandler := rest.NewHealthHandler(cfg.App.Name, cfg.App.Version)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.CorrelationID())
	e.Use(middleware.Metrics(collector))

	// Setup routes
	e.GET("/healthz", healthHandler.Healthz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	router.SetupRecommendationRoutes(api, similarityHandler, predictHandler)
	router.SetupMetricsRoutes(api, metricsHandler, middleware.AdminAuth(cfg.Auth.AdminJWTSecret))

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
