package stock_test

import (
	"context"
	"testing"
	"time"

	"turbostock/internal/core/types"
)

func TestItemProfitAnalysis(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	it := env.addItem(t, "T-001", "Turbo GT1749V", 0)

	// Backdate the documents so ordering is deterministic.
	p1 := env.addPurchase(t, docLine{&it.ID, it.Name, 2, "100"})
	p2 := env.addPurchase(t, docLine{&it.ID, it.Name, 1, "130"})
	s1 := env.addSale(t, docLine{&it.ID, it.Name, 1, "150"})
	s2 := env.addSale(t, docLine{&it.ID, it.Name, 1, "90"})

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p1.Date = base
	p2.Date = base.AddDate(0, 0, 1)
	s1.Date = base.AddDate(0, 0, 2)
	s2.Date = base.AddDate(0, 0, 3)
	if err := env.store.Purchases().Update(ctx, p1); err != nil {
		t.Fatalf("update p1: %v", err)
	}
	if err := env.store.Purchases().Update(ctx, p2); err != nil {
		t.Fatalf("update p2: %v", err)
	}
	if err := env.store.Sales().Update(ctx, s1); err != nil {
		t.Fatalf("update s1: %v", err)
	}
	if err := env.store.Sales().Update(ctx, s2); err != nil {
		t.Fatalf("update s2: %v", err)
	}

	analysis, err := env.rec.ItemProfitAnalysis(ctx, it.ID)
	if err != nil {
		t.Fatalf("ItemProfitAnalysis: %v", err)
	}

	if len(analysis.Purchases) != 2 {
		t.Fatalf("len(Purchases) = %d, want 2", len(analysis.Purchases))
	}
	if len(analysis.Sales) != 2 {
		t.Fatalf("len(Sales) = %d, want 2", len(analysis.Sales))
	}

	// Ordered by business date.
	if !analysis.Purchases[0].Date.Before(analysis.Purchases[1].Date) {
		t.Error("purchases not ordered by date")
	}
	if !analysis.Sales[0].Date.Before(analysis.Sales[1].Date) {
		t.Error("sales not ordered by date")
	}

	// Weighted average is 110; profits are 40 and -20 per transaction.
	if !analysis.Summary.AverageCostPrice.Equal(types.MustMoney("110")) {
		t.Errorf("AverageCostPrice = %s, want 110", analysis.Summary.AverageCostPrice)
	}
	if !analysis.Sales[0].Profit.Equal(types.MustMoney("40")) {
		t.Errorf("first sale Profit = %s, want 40", analysis.Sales[0].Profit)
	}
	if !analysis.Sales[1].Profit.Equal(types.MustMoney("-20")) {
		t.Errorf("second sale Profit = %s, want -20", analysis.Sales[1].Profit)
	}

	// Per-transaction profits sum to the summary total.
	sum := types.ZeroMoney()
	for _, tx := range analysis.Sales {
		sum = sum.Add(tx.Profit)
	}
	if !sum.Equal(analysis.Summary.TotalProfit) {
		t.Errorf("sum of transaction profits = %s, summary TotalProfit = %s",
			sum, analysis.Summary.TotalProfit)
	}
}
