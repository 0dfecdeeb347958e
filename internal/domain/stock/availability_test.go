package stock_test

import (
	"context"
	"testing"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/types"
	"turbostock/internal/domain/pricing"
	"turbostock/internal/domain/stock"
)

func newAvailability(t *testing.T, env *testEnv) *stock.Availability {
	t.Helper()
	policy, err := pricing.NewMarkupPolicy("1.2")
	if err != nil {
		t.Fatalf("markup policy: %v", err)
	}
	return stock.NewAvailability(env.ledger, policy)
}

func TestAvailabilityItems(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	avail := newAvailability(t, env)

	turbo := env.addItem(t, "T-001", "Turbo GT1749V", 0)

	// Linked purchase, an ad-hoc purchase never added to the catalog, and a
	// name that was fully sold through.
	env.addPurchase(t,
		docLine{&turbo.ID, turbo.Name, 5, "100"},
		docLine{nil, "Oil feed pipe", 3, "10"},
		docLine{nil, "Heat shield", 2, "8"},
	)
	env.addSale(t,
		docLine{&turbo.ID, turbo.Name, 2, "150"},
		docLine{nil, "Heat shield", 2, "14"},
	)

	items, err := avail.Items(ctx)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}

	// Heat shield is at zero and filtered out; sorted by name.
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2: %+v", len(items), items)
	}
	if items[0].ItemName != "Oil feed pipe" || items[1].ItemName != "Turbo GT1749V" {
		t.Fatalf("unexpected order: %q, %q", items[0].ItemName, items[1].ItemName)
	}

	pipe := items[0]
	if pipe.AvailableStock != 3 {
		t.Errorf("pipe AvailableStock = %d, want 3", pipe.AvailableStock)
	}
	if !pipe.AverageCostPrice.Equal(types.MustMoney("10")) {
		t.Errorf("pipe AverageCostPrice = %s, want 10", pipe.AverageCostPrice)
	}
	if !pipe.SuggestedSalePrice.Equal(types.MustMoney("12")) {
		t.Errorf("pipe SuggestedSalePrice = %s, want 12", pipe.SuggestedSalePrice)
	}

	tb := items[1]
	if tb.AvailableStock != 3 {
		t.Errorf("turbo AvailableStock = %d, want 3", tb.AvailableStock)
	}
	if !tb.SuggestedSalePrice.Equal(types.MustMoney("120")) {
		t.Errorf("turbo SuggestedSalePrice = %s, want 120", tb.SuggestedSalePrice)
	}
}

func TestAvailabilityAllItemsKeepsNonPositive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	avail := newAvailability(t, env)

	env.addPurchase(t, docLine{nil, "Heat shield", 2, "8"})
	env.addSale(t, docLine{nil, "Heat shield", 2, "14"})

	items, err := avail.AllItems(ctx)
	if err != nil {
		t.Fatalf("AllItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].AvailableStock != 0 {
		t.Errorf("AvailableStock = %d, want 0", items[0].AvailableStock)
	}
}

func TestAvailabilityMergesNameSpellings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	avail := newAvailability(t, env)

	env.addPurchase(t, docLine{nil, "Turbo GT2256V", 2, "100"})
	env.addPurchase(t, docLine{nil, " turbo gt2256v ", 1, "130"})

	items, err := avail.AllItems(ctx)
	if err != nil {
		t.Fatalf("AllItems: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1 merged row", len(items))
	}

	it := items[0]
	// Display name is the first spelling seen in the ledger.
	if it.ItemName != "Turbo GT2256V" {
		t.Errorf("ItemName = %q, want first spelling", it.ItemName)
	}
	if it.AvailableStock != 3 {
		t.Errorf("AvailableStock = %d, want 3", it.AvailableStock)
	}
	if !it.AverageCostPrice.Equal(types.MustMoney("110")) {
		t.Errorf("AverageCostPrice = %s, want 110", it.AverageCostPrice)
	}
}

func TestAvailabilityIgnoresSaleOnlyNames(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	avail := newAvailability(t, env)

	// Sold without any purchase history: nothing to offer.
	env.addSale(t, docLine{nil, "Mystery part", 1, "50"})

	items, err := avail.AllItems(ctx)
	if err != nil {
		t.Fatalf("AllItems: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("items = %+v, want none", items)
	}
}

func TestCheckItemStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	avail := newAvailability(t, env)

	env.addPurchase(t, docLine{nil, "Oil feed pipe", 3, "10"})
	env.addSale(t, docLine{nil, "Oil feed pipe", 1, "15"})

	tests := []struct {
		name           string
		itemName       string
		requested      int64
		wantSufficient bool
		wantAvailable  int64
		wantShortfall  int64
	}{
		{"exactly available", "Oil feed pipe", 2, true, 2, 0},
		{"less than available", "oil feed pipe", 1, true, 2, 0},
		{"more than available", "Oil feed pipe", 5, false, 2, 3},
		{"unknown name", "CHRA kit", 1, false, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check, err := avail.CheckItemStock(ctx, tt.itemName, tt.requested)
			if err != nil {
				t.Fatalf("CheckItemStock: %v", err)
			}
			if check.Sufficient != tt.wantSufficient {
				t.Errorf("Sufficient = %v, want %v", check.Sufficient, tt.wantSufficient)
			}
			if check.AvailableStock != tt.wantAvailable {
				t.Errorf("AvailableStock = %d, want %d", check.AvailableStock, tt.wantAvailable)
			}
			if check.Shortfall != tt.wantShortfall {
				t.Errorf("Shortfall = %d, want %d", check.Shortfall, tt.wantShortfall)
			}
		})
	}

	t.Run("non-positive request is rejected", func(t *testing.T) {
		for _, requested := range []int64{0, -1} {
			_, err := avail.CheckItemStock(ctx, "Oil feed pipe", requested)
			appErr, ok := apperror.AsAppError(err)
			if !ok || appErr.Code != apperror.CodeValidation {
				t.Errorf("CheckItemStock(%d) err = %v, want %s", requested, err, apperror.CodeValidation)
			}
		}
	})
}
