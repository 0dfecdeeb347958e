package stock

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/id"
	"turbostock/pkg/logger"
)

// Repair procedures, ordered by invasiveness:
//
//  1. RecalculateItemStock: one item, recompute and persist the cache.
//  2. RecalculateAll: every item, per-item failures isolated.
//  3. ResetAllStockData: clear the cache, then rebuild from scratch.
//
// All three are idempotent and only ever write cache fields. The purchase
// and sale ledgers are the source of truth and are never touched here.

// RecalculateItemStock recomputes one item's summary from the ledgers and
// persists it to the cache. Safe to re-run; two calls with no intervening
// ledger change produce identical summaries.
func (r *Reconciler) RecalculateItemStock(ctx context.Context, itemID id.ID) (*ItemStockSummary, error) {
	s, err := r.SummaryForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Upsert(ctx, s); err != nil {
		return nil, err
	}

	logger.Info(ctx, "item stock recalculated",
		"item_id", itemID,
		"current_stock", s.CurrentStock,
		"status", s.Status,
	)
	return s, nil
}

// RecalculationReport is the outcome of a bulk repair.
type RecalculationReport struct {
	Recalculated int `json:"recalculated"`

	// Failed maps item id to the failure cause. Individual failures never
	// abort the rest of the batch; there is no transactional boundary
	// spanning items.
	Failed map[string]string `json:"failed,omitempty"`
}

// PartialError returns a PARTIAL_RECALCULATION apperror when any item
// failed, nil otherwise.
func (rep *RecalculationReport) PartialError() error {
	if len(rep.Failed) == 0 {
		return nil
	}
	return apperror.NewPartialRecalculation(rep.Failed).
		WithDetail("recalculated", rep.Recalculated)
}

// RecalculateAll recomputes and persists the summary for every active item.
// The ledgers are fetched once as a consistent snapshot; per-item writes run
// with bounded parallelism and failures are collected, not propagated.
func (r *Reconciler) RecalculateAll(ctx context.Context) (*RecalculationReport, error) {
	items, err := r.items.ListActive(ctx)
	if err != nil {
		return nil, apperror.NewDataUnavailable("item catalog", err)
	}

	purchases, sales, err := r.fetchLedgers(ctx)
	if err != nil {
		return nil, err
	}

	report := &RecalculationReport{Failed: make(map[string]string)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)

	for _, it := range items {
		g.Go(func() error {
			s := Summarize(it, purchases, sales)
			err := r.cache.Upsert(gctx, s)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed[it.ID.String()] = err.Error()
				logger.Warn(gctx, "item recalculation failed",
					"item_id", it.ID,
					"error", err,
				)
				return nil
			}
			report.Recalculated++
			return nil
		})
	}

	// Workers report failures through the map and always return nil.
	_ = g.Wait()

	logger.Info(ctx, "bulk recalculation finished",
		"recalculated", report.Recalculated,
		"failed", len(report.Failed),
	)
	return report, nil
}

// ResetAllStockData clears every cached summary, then rebuilds the cache
// from a blank slate. Destructive to cache fields only.
func (r *Reconciler) ResetAllStockData(ctx context.Context) (*RecalculationReport, error) {
	if err := r.cache.Clear(ctx); err != nil {
		return nil, apperror.NewInternal(err).WithDetail("operation", "clear summary cache")
	}

	logger.Warn(ctx, "stock summary cache cleared, rebuilding")
	return r.RecalculateAll(ctx)
}

// StockDrift is the side-by-side output of the drift diagnostic.
type StockDrift struct {
	ItemID   id.ID  `json:"itemId"`
	ItemName string `json:"itemName"`

	// Stored is the cached summary; nil when nothing is cached yet.
	Stored *ItemStockSummary `json:"stored,omitempty"`

	// Expected is the freshly recomputed summary from the ledgers.
	Expected *ItemStockSummary `json:"expected"`

	// StockDelta is stored minus expected current stock (0 when no cache).
	StockDelta int64 `json:"stockDelta"`
	InSync     bool  `json:"inSync"`
}

// DebugItemStock compares the cached stock figures against a fresh
// recomputation without mutating anything. Used to decide whether a repair
// is needed before invoking one.
func (r *Reconciler) DebugItemStock(ctx context.Context, itemID id.ID) (*StockDrift, error) {
	expected, err := r.SummaryForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	drift := &StockDrift{
		ItemID:   itemID,
		ItemName: expected.ItemName,
		Expected: expected,
	}

	stored, err := r.cache.Get(ctx, itemID)
	switch {
	case apperror.IsNotFound(err):
		drift.InSync = false
	case err != nil:
		return nil, err
	default:
		drift.Stored = stored
		drift.StockDelta = stored.CurrentStock - expected.CurrentStock
		drift.InSync = stored.Equal(expected)
	}

	return drift, nil
}
