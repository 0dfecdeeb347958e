package stock_test

import (
	"context"
	"errors"
	"testing"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/id"
	"turbostock/internal/core/types"
	"turbostock/internal/domain/catalogs/item"
	"turbostock/internal/domain/documents/purchase"
	"turbostock/internal/domain/documents/sale"
	"turbostock/internal/domain/stock"
	"turbostock/internal/infrastructure/storage/memory"
)

// testEnv wires a reconciler over the in-memory store. The ledger reader is
// kept around so tests can inject read failures.
type testEnv struct {
	store  *memory.Store
	ledger *memory.LedgerReader
	rec    *stock.Reconciler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	ledger := store.Ledger()
	return &testEnv{
		store:  store,
		ledger: ledger,
		rec:    stock.NewReconciler(store.Items(), ledger, store.Summaries(), 4),
	}
}

func (e *testEnv) addItem(t *testing.T, code, name string, reorderLevel int64) *item.Item {
	t.Helper()
	it := newItem(code, name, reorderLevel)
	if err := e.store.Items().Create(context.Background(), it); err != nil {
		t.Fatalf("create item %s: %v", code, err)
	}
	return it
}

type docLine struct {
	itemID *id.ID
	name   string
	qty    int64
	price  string
}

func (e *testEnv) addPurchase(t *testing.T, lines ...docLine) *purchase.Purchase {
	t.Helper()
	doc := purchase.New(id.New())
	doc.Number = "PUR-TEST"
	for _, l := range lines {
		doc.AddLine(l.itemID, l.name, l.qty, types.MustMoney(l.price))
	}
	if err := e.store.Purchases().Create(context.Background(), doc); err != nil {
		t.Fatalf("create purchase: %v", err)
	}
	return doc
}

func (e *testEnv) addSale(t *testing.T, lines ...docLine) *sale.Sale {
	t.Helper()
	doc := sale.New(id.New())
	doc.Number = "SAL-TEST"
	for _, l := range lines {
		doc.AddLine(l.itemID, l.name, l.qty, types.MustMoney(l.price))
	}
	if err := e.store.Sales().Create(context.Background(), doc); err != nil {
		t.Fatalf("create sale: %v", err)
	}
	return doc
}

func TestAllSummaries(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	turbo := env.addItem(t, "T-001", "Turbo GT1749V", 2)
	gasket := env.addItem(t, "T-002", "Gasket kit", 0)

	env.addPurchase(t,
		docLine{&turbo.ID, turbo.Name, 5, "100"},
		docLine{&gasket.ID, gasket.Name, 10, "3"},
	)
	env.addSale(t, docLine{&turbo.ID, turbo.Name, 2, "150"})

	overview, err := env.rec.AllSummaries(ctx)
	if err != nil {
		t.Fatalf("AllSummaries: %v", err)
	}

	if len(overview.Summaries) != 2 {
		t.Fatalf("len(Summaries) = %d, want 2", len(overview.Summaries))
	}
	if len(overview.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", overview.Warnings)
	}

	// Sorted by name: gasket before turbo.
	g, tb := overview.Summaries[0], overview.Summaries[1]
	if g.ItemID != gasket.ID || tb.ItemID != turbo.ID {
		t.Fatalf("summaries out of order: %s, %s", g.ItemName, tb.ItemName)
	}
	if g.CurrentStock != 10 {
		t.Errorf("gasket CurrentStock = %d, want 10", g.CurrentStock)
	}
	if tb.CurrentStock != 3 {
		t.Errorf("turbo CurrentStock = %d, want 3", tb.CurrentStock)
	}
	if !tb.TotalProfit.Equal(types.MustMoney("100")) {
		t.Errorf("turbo TotalProfit = %s, want 100", tb.TotalProfit)
	}
}

func TestAllSummariesLedgerUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		inject func(env *testEnv)
	}{
		{"purchase ledger down", func(env *testEnv) {
			env.ledger.FailPurchases = errors.New("connection refused")
		}},
		{"sale ledger down", func(env *testEnv) {
			env.ledger.FailSales = errors.New("connection refused")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.addItem(t, "T-001", "Turbo GT1749V", 0)
			tt.inject(env)

			_, err := env.rec.AllSummaries(context.Background())
			if !apperror.IsDataUnavailable(err) {
				t.Fatalf("err = %v, want DATA_UNAVAILABLE", err)
			}
		})
	}
}

func TestSummaryForItemUnknownItem(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.rec.SummaryForItem(context.Background(), id.New())
	if !apperror.IsNotFound(err) {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestApplyPurchaseConvergesWithReplay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	it := env.addItem(t, "T-001", "Turbo GT1749V", 0)
	env.addPurchase(t, docLine{&it.ID, it.Name, 2, "100"})

	// Seed the cache from the initial ledger state.
	if _, err := env.rec.RecalculateItemStock(ctx, it.ID); err != nil {
		t.Fatalf("seed recalculation: %v", err)
	}

	// New purchase lands, applied incrementally.
	doc := env.addPurchase(t, docLine{&it.ID, it.Name, 1, "130"})
	if err := env.rec.ApplyPurchase(ctx, doc.StockLines()); err != nil {
		t.Fatalf("ApplyPurchase: %v", err)
	}

	cached, err := env.store.Summaries().Get(ctx, it.ID)
	if err != nil {
		t.Fatalf("Get cached: %v", err)
	}

	replayed, err := env.rec.SummaryForItem(ctx, it.ID)
	if err != nil {
		t.Fatalf("SummaryForItem: %v", err)
	}
	if !cached.Equal(replayed) {
		t.Errorf("incremental summary diverges from replay:\n cached %+v\n replay %+v", cached, replayed)
	}
	if cached.CurrentStock != 3 {
		t.Errorf("CurrentStock = %d, want 3", cached.CurrentStock)
	}
	if !cached.AverageCostPrice.Equal(types.MustMoney("110")) {
		t.Errorf("AverageCostPrice = %s, want 110", cached.AverageCostPrice)
	}
}

func TestApplySaleConvergesWithReplay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	it := env.addItem(t, "T-001", "Turbo GT1749V", 0)
	env.addPurchase(t, docLine{&it.ID, it.Name, 5, "100"})
	if _, err := env.rec.RecalculateItemStock(ctx, it.ID); err != nil {
		t.Fatalf("seed recalculation: %v", err)
	}

	doc := env.addSale(t, docLine{&it.ID, it.Name, 2, "150"})
	if err := env.rec.ApplySale(ctx, doc.StockLines()); err != nil {
		t.Fatalf("ApplySale: %v", err)
	}

	cached, err := env.store.Summaries().Get(ctx, it.ID)
	if err != nil {
		t.Fatalf("Get cached: %v", err)
	}
	replayed, err := env.rec.SummaryForItem(ctx, it.ID)
	if err != nil {
		t.Fatalf("SummaryForItem: %v", err)
	}
	if !cached.Equal(replayed) {
		t.Errorf("incremental summary diverges from replay:\n cached %+v\n replay %+v", cached, replayed)
	}
	if cached.CurrentStock != 3 {
		t.Errorf("CurrentStock = %d, want 3", cached.CurrentStock)
	}
	if !cached.TotalProfit.Equal(types.MustMoney("100")) {
		t.Errorf("TotalProfit = %s, want 100", cached.TotalProfit)
	}
}

func TestApplyPurchaseSeedsMissingCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	it := env.addItem(t, "T-001", "Turbo GT1749V", 0)
	doc := env.addPurchase(t, docLine{&it.ID, it.Name, 2, "100"})

	// Nothing cached yet: the apply path falls back to a full replay.
	if err := env.rec.ApplyPurchase(ctx, doc.StockLines()); err != nil {
		t.Fatalf("ApplyPurchase: %v", err)
	}

	cached, err := env.store.Summaries().Get(ctx, it.ID)
	if err != nil {
		t.Fatalf("Get cached: %v", err)
	}
	if cached.CurrentStock != 2 {
		t.Errorf("CurrentStock = %d, want 2", cached.CurrentStock)
	}
}

func TestApplyPurchaseUpdatesEveryAmbiguousMatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Two catalog entries share the name; an unlinked line feeds both.
	a := env.addItem(t, "T-001", "Core cartridge", 0)
	b := env.addItem(t, "T-002", "core cartridge", 0)

	doc := env.addPurchase(t, docLine{nil, "Core Cartridge", 4, "60"})
	if err := env.rec.ApplyPurchase(ctx, doc.StockLines()); err != nil {
		t.Fatalf("ApplyPurchase: %v", err)
	}

	for _, it := range []*item.Item{a, b} {
		cached, err := env.store.Summaries().Get(ctx, it.ID)
		if err != nil {
			t.Fatalf("Get cached for %s: %v", it.Code, err)
		}
		if cached.CurrentStock != 4 {
			t.Errorf("%s CurrentStock = %d, want 4", it.Code, cached.CurrentStock)
		}
	}
}

func TestRecalculateForLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	it := env.addItem(t, "T-001", "Turbo GT1749V", 0)
	other := env.addItem(t, "T-002", "Gasket kit", 0)

	env.addPurchase(t, docLine{&it.ID, it.Name, 5, "100"})
	doc := env.addSale(t, docLine{&it.ID, it.Name, 2, "150"})

	if err := env.rec.RecalculateForLines(ctx, nil, doc.StockLines()); err != nil {
		t.Fatalf("RecalculateForLines: %v", err)
	}

	cached, err := env.store.Summaries().Get(ctx, it.ID)
	if err != nil {
		t.Fatalf("Get cached: %v", err)
	}
	if cached.CurrentStock != 3 {
		t.Errorf("CurrentStock = %d, want 3", cached.CurrentStock)
	}

	// Untouched items stay out of the cache.
	if _, err := env.store.Summaries().Get(ctx, other.ID); !apperror.IsNotFound(err) {
		t.Errorf("unrelated item cached unexpectedly, err = %v", err)
	}
}
