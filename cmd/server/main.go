// Package main is the entry point for the turbostock API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"turbostock/internal/config"
	"turbostock/internal/domain/catalogs/customer"
	"turbostock/internal/domain/catalogs/item"
	"turbostock/internal/domain/catalogs/supplier"
	"turbostock/internal/domain/documents/purchase"
	"turbostock/internal/domain/documents/sale"
	"turbostock/internal/domain/pricing"
	"turbostock/internal/domain/stock"
	v1 "turbostock/internal/infrastructure/http/v1"
	"turbostock/internal/infrastructure/storage/postgres"
	"turbostock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting turbostock server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.DSN)
	poolCfg.MaxConns = cfg.Database.MaxConns
	poolCfg.MinConns = cfg.Database.MinConns
	poolCfg.MaxConnLifetime = cfg.Database.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txm := postgres.NewTxManager(pool)

	// --- Repositories ---
	itemRepo := postgres.NewItemRepository(txm)
	supplierRepo := postgres.NewSupplierRepository(txm)
	customerRepo := postgres.NewCustomerRepository(txm)
	purchaseRepo := postgres.NewPurchaseRepository(txm)
	saleRepo := postgres.NewSaleRepository(txm)
	ledgerRepo := postgres.NewLedgerRepository(txm)
	summaryRepo := postgres.NewSummaryRepository(txm)

	changeLog, err := postgres.NewChangeLogRepository(txm)
	if err != nil {
		log.Fatalw("failed to create change log", "error", err)
	}

	// --- Domain services ---
	pricePolicy, err := pricing.FromConfig(cfg.Pricing.Markup, cfg.Pricing.Rule)
	if err != nil {
		log.Fatalw("failed to build pricing policy", "error", err)
	}

	reconciler := stock.NewReconciler(itemRepo, ledgerRepo, summaryRepo, cfg.Repair.Parallelism)
	availability := stock.NewAvailability(ledgerRepo, pricePolicy)

	itemService := item.NewService(itemRepo)
	supplierService := supplier.NewService(supplierRepo)
	customerService := customer.NewService(customerRepo)
	purchaseService := purchase.NewService(purchaseRepo, reconciler, changeLog, txm)
	saleService := sale.NewService(saleRepo, reconciler, availability, changeLog, txm)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:       log,
		Pool:         pool.Pool,
		Items:        itemService,
		Suppliers:    supplierService,
		Customers:    customerService,
		Purchases:    purchaseService,
		Sales:        saleService,
		Reconciler:   reconciler,
		Availability: availability,
		ChangeLog:    changeLog,
	})

	// --- HTTP server ---
	server := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.HTTP.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
