// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"turbostock/internal/domain/audit"
	"turbostock/internal/domain/catalogs/customer"
	"turbostock/internal/domain/catalogs/item"
	"turbostock/internal/domain/catalogs/supplier"
	"turbostock/internal/domain/documents/purchase"
	"turbostock/internal/domain/documents/sale"
	"turbostock/internal/domain/stock"
	"turbostock/internal/infrastructure/http/v1/handlers"
	"turbostock/internal/infrastructure/http/v1/middleware"
	"turbostock/pkg/logger"
)

// RouterConfig holds the wired services the router mounts.
type RouterConfig struct {
	Logger *logger.Logger

	// Pool is the database pool for readiness probes; nil in memory mode.
	Pool *pgxpool.Pool

	Items     *item.Service
	Suppliers *supplier.Service
	Customers *customer.Service
	Purchases *purchase.Service
	Sales     *sale.Service

	Reconciler   *stock.Reconciler
	Availability *stock.Availability
	ChangeLog    audit.ChangeLog
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	base := handlers.NewBaseHandler()

	api := router.Group("/api/v1")
	{
		catalogs := api.Group("/catalog")
		handlers.NewItemHandler(base, cfg.Items).RegisterRoutes(catalogs.Group("/items"))
		handlers.NewSupplierHandler(base, cfg.Suppliers).RegisterRoutes(catalogs.Group("/suppliers"))
		handlers.NewCustomerHandler(base, cfg.Customers).RegisterRoutes(catalogs.Group("/customers"))

		documents := api.Group("/document")
		handlers.NewPurchaseHandler(base, cfg.Purchases).RegisterRoutes(documents.Group("/purchases"))
		handlers.NewSaleHandler(base, cfg.Sales).RegisterRoutes(documents.Group("/sales"))

		stockHandler := handlers.NewStockHandler(base, cfg.Reconciler, cfg.Availability)
		stockHandler.RegisterRoutes(api.Group("/stock"))

		if cfg.ChangeLog != nil {
			handlers.NewAuditHandler(base, cfg.ChangeLog).RegisterRoutes(api.Group("/audit"))
		}
	}

	return router
}
