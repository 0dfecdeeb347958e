package stock

import (
	"context"

	"golang.org/x/sync/errgroup"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/id"
	"turbostock/internal/domain/catalogs/item"
	"turbostock/pkg/logger"
)

// Reconciler derives stock summaries from the ledgers and keeps the summary
// cache in step. Reads always recompute; the cache serves the denormalized
// overview endpoint and the drift diagnostic.
type Reconciler struct {
	items  ItemReader
	ledger LedgerReader
	cache  SummaryStore

	// parallelism bounds concurrent per-item repairs in RecalculateAll.
	parallelism int
}

// NewReconciler creates a reconciler. parallelism <= 0 falls back to serial.
func NewReconciler(items ItemReader, ledger LedgerReader, cache SummaryStore, parallelism int) *Reconciler {
	if parallelism <= 0 {
		parallelism = 1
	}
	return &Reconciler{
		items:       items,
		ledger:      ledger,
		cache:       cache,
		parallelism: parallelism,
	}
}

// fetchLedgers loads both ledgers in parallel. Failure of either aborts the
// whole fetch: a summary built from a partial ledger would understate stock.
func fetchLedgers(ctx context.Context, ledger LedgerReader) ([]PurchaseLine, []SaleLine, error) {
	var (
		purchases []PurchaseLine
		sales     []SaleLine
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if purchases, err = ledger.PurchaseLines(gctx); err != nil {
			return apperror.NewDataUnavailable("purchase", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if sales, err = ledger.SaleLines(gctx); err != nil {
			return apperror.NewDataUnavailable("sale", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return purchases, sales, nil
}

func (r *Reconciler) fetchLedgers(ctx context.Context) ([]PurchaseLine, []SaleLine, error) {
	return fetchLedgers(ctx, r.ledger)
}

// SummaryForItem recomputes the summary for one catalog item from the
// ledgers. Read-only.
func (r *Reconciler) SummaryForItem(ctx context.Context, itemID id.ID) (*ItemStockSummary, error) {
	it, err := r.items.GetByID(ctx, itemID)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewNotFound("item", itemID.String()).WithCause(err)
	}

	purchases, sales, err := r.fetchLedgers(ctx)
	if err != nil {
		return nil, err
	}

	return Summarize(it, purchases, sales), nil
}

// StockOverview is the full reconciled view the admin overview renders.
type StockOverview struct {
	Summaries []*ItemStockSummary `json:"summaries"`
	Warnings  []Warning           `json:"warnings,omitempty"`
}

// AllSummaries recomputes every item summary, sorted by item name, together
// with data-quality warnings. All-or-nothing on ledger availability.
func (r *Reconciler) AllSummaries(ctx context.Context) (*StockOverview, error) {
	items, err := r.items.ListActive(ctx)
	if err != nil {
		return nil, apperror.NewDataUnavailable("item catalog", err)
	}

	purchases, sales, err := r.fetchLedgers(ctx)
	if err != nil {
		return nil, err
	}

	overview := &StockOverview{
		Summaries: SummarizeAll(items, purchases, sales),
		Warnings:  CollectWarnings(items, purchases, sales),
	}

	for _, s := range overview.Summaries {
		if s.Status == StatusNegative {
			logger.Warn(ctx, "negative stock detected",
				"item_id", s.ItemID,
				"item_name", s.ItemName,
				"current_stock", s.CurrentStock,
			)
		}
	}

	return overview, nil
}

// --- Incremental update-on-write path ---
//
// Applied right after a new purchase or sale is created, so a single write
// does not trigger a full ledger replay. The deltas adjust the cached
// aggregates only; derived fields recompute from the aggregates, which keeps
// this path convergent with Summarize. Any divergence is repaired by
// RecalculateItemStock and caught by DebugItemStock.

// ApplyPurchase folds freshly created purchase lines into the cached
// summaries of every catalog item they resolve to.
func (r *Reconciler) ApplyPurchase(ctx context.Context, lines []PurchaseLine) error {
	return r.applyLines(ctx, lines, nil)
}

// ApplySale folds freshly created sale lines into the cached summaries.
func (r *Reconciler) ApplySale(ctx context.Context, lines []SaleLine) error {
	return r.applyLines(ctx, nil, lines)
}

func (r *Reconciler) applyLines(ctx context.Context, plines []PurchaseLine, slines []SaleLine) error {
	items, err := r.items.ListActive(ctx)
	if err != nil {
		return apperror.NewDataUnavailable("item catalog", err)
	}

	for _, it := range affectedItems(items, plines, slines) {
		cached, err := r.cache.Get(ctx, it.ID)
		if apperror.IsNotFound(err) {
			// No cached aggregates to adjust: seed from a full replay.
			if _, err := r.RecalculateItemStock(ctx, it.ID); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}

		for _, line := range plines {
			if !MatchesItem(line.ItemID, line.ItemName, it) {
				continue
			}
			cached.TotalPurchased += line.Quantity
			cached.TotalPurchaseCost = cached.TotalPurchaseCost.Add(line.TotalCost)
		}
		for _, line := range slines {
			if !MatchesItem(line.ItemID, line.ItemName, it) {
				continue
			}
			cached.TotalSold += line.Quantity
			cached.TotalSaleRevenue = cached.TotalSaleRevenue.Add(line.TotalPrice)
		}

		cached.derive(it.ReorderLevel)
		if err := r.cache.Upsert(ctx, cached); err != nil {
			return err
		}

		logger.Debug(ctx, "incremental stock update applied",
			"item_id", it.ID,
			"current_stock", cached.CurrentStock,
		)
	}

	return nil
}

// RecalculateForLines runs a full per-item recompute for every catalog item
// the given lines resolve to. Called after a purchase or sale is edited or
// deleted, where an incremental adjustment would be unsafe once other
// documents of the same item may have landed out of chronological order.
func (r *Reconciler) RecalculateForLines(ctx context.Context, plines []PurchaseLine, slines []SaleLine) error {
	items, err := r.items.ListActive(ctx)
	if err != nil {
		return apperror.NewDataUnavailable("item catalog", err)
	}

	for _, it := range affectedItems(items, plines, slines) {
		if _, err := r.RecalculateItemStock(ctx, it.ID); err != nil {
			return err
		}
	}
	return nil
}

// affectedItems resolves the union of catalog items the lines belong to,
// preserving catalog order and deduplicating by id.
func affectedItems(items []*item.Item, plines []PurchaseLine, slines []SaleLine) []*item.Item {
	seen := make(map[id.ID]bool)
	var affected []*item.Item

	add := func(matched []*item.Item) {
		for _, it := range matched {
			if !seen[it.ID] {
				seen[it.ID] = true
				affected = append(affected, it)
			}
		}
	}

	for _, line := range plines {
		add(ResolveLineToItems(line.ItemID, line.ItemName, items))
	}
	for _, line := range slines {
		add(ResolveLineToItems(line.ItemID, line.ItemName, items))
	}

	return affected
}
