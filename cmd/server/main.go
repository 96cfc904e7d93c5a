package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	appinv "github.com/growbro/backend/internal/application/inventory"
	"github.com/growbro/backend/internal/infrastructure/config"
	"github.com/growbro/backend/internal/infrastructure/event"
	"github.com/growbro/backend/internal/infrastructure/logger"
	"github.com/growbro/backend/internal/infrastructure/persistence"
	"github.com/growbro/backend/internal/interfaces/http/handler"
	"github.com/growbro/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting GrowBro Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	// Event bus and handlers
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(appinv.NewStockBelowThresholdHandler(log))
	if err := bus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	// Repositories and services
	itemRepo := persistence.NewGormItemRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	scope := persistence.NewGormTransactionScope(db.DB)

	catalogService := appinv.NewCatalogService(itemRepo, log)
	stockService := appinv.NewStockService(scope, movementRepo, bus, log)
	projectionService := appinv.NewProjectionService(itemRepo, batchRepo, movementRepo)
	reorderService := appinv.NewReorderService(itemRepo, movementRepo, log)

	engine := router.New(cfg, log, db, router.Handlers{
		Catalog: handler.NewCatalogHandler(catalogService),
		Stock:   handler.NewStockHandler(stockService, projectionService, reorderService, cfg.Expiry),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()
	log.Info("Server listening", zap.String("addr", srv.Addr))

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := bus.Stop(ctx); err != nil {
		log.Error("Event bus shutdown failed", zap.Error(err))
	}
	log.Info("Server exited")
}
