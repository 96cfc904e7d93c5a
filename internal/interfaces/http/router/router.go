package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/growbro/backend/internal/infrastructure/config"
	"github.com/growbro/backend/internal/infrastructure/logger"
	"github.com/growbro/backend/internal/infrastructure/persistence"
	"github.com/growbro/backend/internal/interfaces/http/handler"
	"github.com/growbro/backend/internal/interfaces/http/middleware"
)

// Handlers bundles the HTTP handlers mounted by the router
type Handlers struct {
	Catalog *handler.CatalogHandler
	Stock   *handler.StockHandler
}

// New builds the gin engine with all middleware and routes
func New(cfg *config.Config, log *zap.Logger, db *persistence.Database, h Handlers) *gin.Engine {
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))

	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/api/v1")
	h.Catalog.RegisterRoutes(v1)
	h.Stock.RegisterRoutes(v1)

	return engine
}
