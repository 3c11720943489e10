// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"recordbase/internal/domain/catalogs/counterparty"
	"recordbase/internal/infrastructure/http/v1/handlers"
	"recordbase/internal/infrastructure/http/v1/middleware"
	"recordbase/internal/infrastructure/numerator"
	"recordbase/internal/infrastructure/storage/postgres"
	"recordbase/internal/infrastructure/storage/postgres/catalog_repo"
	"recordbase/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool
	Pool *postgres.Pool

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation; nil disables auth (tests, dev)
	JWTValidator middleware.JWTValidator
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	api := router.Group("/api/v1")
	if cfg.JWTValidator != nil {
		api.Use(middleware.Auth(cfg.JWTValidator))
	}

	base := handlers.NewBaseHandler()
	codes := numerator.New(cfg.Pool)

	counterpartyRepo := catalog_repo.NewCounterpartyRepo(cfg.Pool)
	counterpartyService := counterparty.NewService(counterpartyRepo, codes)
	handlers.NewCounterpartyHandler(base, counterpartyService).RegisterRoutes(api)

	return router
}
