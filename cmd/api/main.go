package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hengshuofushi123/greenledger/internal/api/handlers"
	"github.com/hengshuofushi123/greenledger/internal/api/middleware"
	"github.com/hengshuofushi123/greenledger/internal/config"
	"github.com/hengshuofushi123/greenledger/internal/instrumentation"
	"github.com/hengshuofushi123/greenledger/internal/overview"
	"github.com/hengshuofushi123/greenledger/internal/stats"
	"github.com/hengshuofushi123/greenledger/internal/store"
	"github.com/hengshuofushi123/greenledger/internal/venue"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	configPath := os.Getenv("GREENLEDGER_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := store.Open(cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	projectStore := store.NewProjectStore(db)
	ledgerStore := store.NewLedgerStore(db)
	registryStore := store.NewRegistryStore(db)

	descriptors := venue.Descriptors()
	sources := make([]venue.Source, len(descriptors))
	for i, desc := range descriptors {
		sources[i] = venue.New(desc, store.NewFactStore(db, desc))
	}

	engine := stats.NewEngine(ledgerStore, sources, venue.NewRegistrySource(registryStore))
	metrics := instrumentation.NewMetrics()
	builder := overview.NewBuilder(projectStore, ledgerStore, engine)
	cache := overview.NewManager(builder, cfg.Cache.TTL(), logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go cache.Run(ctx, cfg.Cache.RefreshInterval())

	if os.Getenv("GREENLEDGER_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.ErrorHandler())

	statsHandler := handlers.NewStatsHandler(projectStore, engine, metrics)
	overviewHandler := handlers.NewOverviewHandler(cache)
	projectsHandler := handlers.NewProjectsHandler(projectStore)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/stats/dimensions", statsHandler.Dimensions)
		api.POST("/stats/production-periods", statsHandler.ProductionPeriods)
		api.POST("/stats/transaction-periods", statsHandler.TransactionPeriods)

		api.GET("/overview", overviewHandler.Get)
		api.POST("/overview/refresh", overviewHandler.Refresh)
		api.GET("/overview/cache", overviewHandler.CacheInfo)

		api.GET("/projects", projectsHandler.List)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
