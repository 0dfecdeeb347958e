// Package main is the admin CLI for stock repair procedures.
//
// Usage:
//
//	recalc all            recalculate every active item
//	recalc item <id>      recalculate one item
//	recalc drift <id>     compare cached vs recomputed figures
//	recalc reset          clear the summary cache and rebuild
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"turbostock/internal/config"
	"turbostock/internal/core/id"
	"turbostock/internal/domain/stock"
	"turbostock/internal/infrastructure/storage/postgres"
	"turbostock/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Development: cfg.IsDevelopment()})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithLogger(ctx, log)

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.DSN))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	reconciler := stock.NewReconciler(
		postgres.NewItemRepository(txm),
		postgres.NewLedgerRepository(txm),
		postgres.NewSummaryRepository(txm),
		cfg.Repair.Parallelism,
	)

	switch os.Args[1] {
	case "all":
		report, err := reconciler.RecalculateAll(ctx)
		exit(report, err)

	case "item":
		itemID := mustID(os.Args[2:])
		summary, err := reconciler.RecalculateItemStock(ctx, itemID)
		exit(summary, err)

	case "drift":
		itemID := mustID(os.Args[2:])
		drift, err := reconciler.DebugItemStock(ctx, itemID)
		exit(drift, err)

	case "reset":
		report, err := reconciler.ResetAllStockData(ctx)
		exit(report, err)

	default:
		usage()
		os.Exit(2)
	}
}

func mustID(args []string) id.ID {
	if len(args) < 1 {
		usage()
		os.Exit(2)
	}
	itemID, err := id.Parse(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid item id %q: %v\n", args[0], err)
		os.Exit(2)
	}
	return itemID
}

func exit(result any, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: recalc all | item <id> | drift <id> | reset")
}
