package stock_test

import (
	"context"
	"errors"
	"testing"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/id"
	"turbostock/internal/domain/stock"
)

func TestRecalculateItemStockIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	it := env.addItem(t, "T-001", "Turbo GT1749V", 0)
	env.addPurchase(t, docLine{&it.ID, it.Name, 3, "100"})
	env.addSale(t, docLine{&it.ID, it.Name, 1, "150"})

	first, err := env.rec.RecalculateItemStock(ctx, it.ID)
	if err != nil {
		t.Fatalf("first recalculation: %v", err)
	}
	second, err := env.rec.RecalculateItemStock(ctx, it.ID)
	if err != nil {
		t.Fatalf("second recalculation: %v", err)
	}

	if !first.Equal(second) {
		t.Errorf("repeated recalculation changed figures:\n first %+v\n second %+v", first, second)
	}
}

func TestRecalculationAfterDocumentDeletion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	it := env.addItem(t, "T-001", "Turbo GT1749V", 0)
	env.addPurchase(t, docLine{&it.ID, it.Name, 5, "100"})
	saleDoc := env.addSale(t, docLine{&it.ID, it.Name, 2, "150"})

	if _, err := env.rec.RecalculateItemStock(ctx, it.ID); err != nil {
		t.Fatalf("initial recalculation: %v", err)
	}

	// Soft-delete the sale; its lines must drop out of the replay.
	if err := env.store.Sales().Delete(ctx, saleDoc.ID); err != nil {
		t.Fatalf("delete sale: %v", err)
	}
	if err := env.rec.RecalculateForLines(ctx, nil, saleDoc.StockLines()); err != nil {
		t.Fatalf("RecalculateForLines: %v", err)
	}

	cached, err := env.store.Summaries().Get(ctx, it.ID)
	if err != nil {
		t.Fatalf("Get cached: %v", err)
	}
	if cached.CurrentStock != 5 {
		t.Errorf("CurrentStock = %d, want 5 after sale deletion", cached.CurrentStock)
	}
	if cached.TotalSold != 0 {
		t.Errorf("TotalSold = %d, want 0", cached.TotalSold)
	}
	if !cached.TotalProfit.IsZero() {
		t.Errorf("TotalProfit = %s, want 0", cached.TotalProfit)
	}
}

func TestRecalculateAll(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.addItem(t, "T-001", "Turbo GT1749V", 0)
	b := env.addItem(t, "T-002", "Gasket kit", 0)
	env.addPurchase(t,
		docLine{&a.ID, a.Name, 5, "100"},
		docLine{&b.ID, b.Name, 10, "3"},
	)

	report, err := env.rec.RecalculateAll(ctx)
	if err != nil {
		t.Fatalf("RecalculateAll: %v", err)
	}

	if report.Recalculated != 2 {
		t.Errorf("Recalculated = %d, want 2", report.Recalculated)
	}
	if len(report.Failed) != 0 {
		t.Errorf("Failed = %v, want none", report.Failed)
	}
	if err := report.PartialError(); err != nil {
		t.Errorf("PartialError() = %v, want nil", err)
	}

	for _, it := range []id.ID{a.ID, b.ID} {
		if _, err := env.store.Summaries().Get(ctx, it); err != nil {
			t.Errorf("summary missing for %s: %v", it, err)
		}
	}
}

// flakySummaryStore fails Upsert for one item, passing everything else through.
type flakySummaryStore struct {
	stock.SummaryStore
	failFor id.ID
}

func (s *flakySummaryStore) Upsert(ctx context.Context, sum *stock.ItemStockSummary) error {
	if sum.ItemID == s.failFor {
		return errors.New("disk full")
	}
	return s.SummaryStore.Upsert(ctx, sum)
}

func TestRecalculateAllPartialFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	a := env.addItem(t, "T-001", "Turbo GT1749V", 0)
	b := env.addItem(t, "T-002", "Gasket kit", 0)
	env.addPurchase(t, docLine{&a.ID, a.Name, 5, "100"})

	cache := &flakySummaryStore{SummaryStore: env.store.Summaries(), failFor: a.ID}
	rec := stock.NewReconciler(env.store.Items(), env.ledger, cache, 4)

	report, err := rec.RecalculateAll(ctx)
	if err != nil {
		t.Fatalf("RecalculateAll: %v", err)
	}

	if report.Recalculated != 1 {
		t.Errorf("Recalculated = %d, want 1", report.Recalculated)
	}
	if _, ok := report.Failed[a.ID.String()]; !ok {
		t.Errorf("Failed = %v, want entry for %s", report.Failed, a.ID)
	}

	// The healthy item was still written.
	if _, err := env.store.Summaries().Get(ctx, b.ID); err != nil {
		t.Errorf("summary missing for healthy item: %v", err)
	}

	perr := report.PartialError()
	appErr, ok := apperror.AsAppError(perr)
	if !ok || appErr.Code != apperror.CodePartialRecalculation {
		t.Errorf("PartialError() = %v, want %s", perr, apperror.CodePartialRecalculation)
	}
}

func TestResetAllStockData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	it := env.addItem(t, "T-001", "Turbo GT1749V", 0)
	env.addPurchase(t, docLine{&it.ID, it.Name, 5, "100"})

	// Poison the cache with an orphaned entry for a retired item id.
	orphan := &stock.ItemStockSummary{ItemID: id.New(), ItemName: "ghost"}
	if err := env.store.Summaries().Upsert(ctx, orphan); err != nil {
		t.Fatalf("seed orphan: %v", err)
	}

	report, err := env.rec.ResetAllStockData(ctx)
	if err != nil {
		t.Fatalf("ResetAllStockData: %v", err)
	}
	if report.Recalculated != 1 {
		t.Errorf("Recalculated = %d, want 1", report.Recalculated)
	}

	if _, err := env.store.Summaries().Get(ctx, orphan.ItemID); !apperror.IsNotFound(err) {
		t.Errorf("orphaned summary survived the reset, err = %v", err)
	}
	cached, err := env.store.Summaries().Get(ctx, it.ID)
	if err != nil {
		t.Fatalf("Get cached: %v", err)
	}
	if cached.CurrentStock != 5 {
		t.Errorf("CurrentStock = %d, want 5", cached.CurrentStock)
	}
}

func TestDebugItemStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	it := env.addItem(t, "T-001", "Turbo GT1749V", 0)
	env.addPurchase(t, docLine{&it.ID, it.Name, 5, "100"})

	t.Run("nothing cached", func(t *testing.T) {
		drift, err := env.rec.DebugItemStock(ctx, it.ID)
		if err != nil {
			t.Fatalf("DebugItemStock: %v", err)
		}
		if drift.InSync {
			t.Error("InSync = true, want false with empty cache")
		}
		if drift.Stored != nil {
			t.Errorf("Stored = %+v, want nil", drift.Stored)
		}
		if drift.Expected.CurrentStock != 5 {
			t.Errorf("Expected.CurrentStock = %d, want 5", drift.Expected.CurrentStock)
		}
	})

	t.Run("in sync after repair", func(t *testing.T) {
		if _, err := env.rec.RecalculateItemStock(ctx, it.ID); err != nil {
			t.Fatalf("recalculate: %v", err)
		}
		drift, err := env.rec.DebugItemStock(ctx, it.ID)
		if err != nil {
			t.Fatalf("DebugItemStock: %v", err)
		}
		if !drift.InSync {
			t.Errorf("InSync = false, want true; delta = %d", drift.StockDelta)
		}
		if drift.StockDelta != 0 {
			t.Errorf("StockDelta = %d, want 0", drift.StockDelta)
		}
	})

	t.Run("tampered cache reports drift", func(t *testing.T) {
		cached, err := env.store.Summaries().Get(ctx, it.ID)
		if err != nil {
			t.Fatalf("Get cached: %v", err)
		}
		cached.TotalPurchased += 2
		cached.CurrentStock += 2
		if err := env.store.Summaries().Upsert(ctx, cached); err != nil {
			t.Fatalf("Upsert tampered: %v", err)
		}

		drift, err := env.rec.DebugItemStock(ctx, it.ID)
		if err != nil {
			t.Fatalf("DebugItemStock: %v", err)
		}
		if drift.InSync {
			t.Error("InSync = true, want false after tampering")
		}
		if drift.StockDelta != 2 {
			t.Errorf("StockDelta = %d, want 2", drift.StockDelta)
		}
	})
}
