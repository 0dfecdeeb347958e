package purchase_test

import (
	"context"
	"strings"
	"testing"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/id"
	"turbostock/internal/core/tx"
	"turbostock/internal/core/types"
	"turbostock/internal/domain/catalogs/item"
	"turbostock/internal/domain/documents/purchase"
	"turbostock/internal/domain/stock"
	"turbostock/internal/infrastructure/storage/memory"
)

type purchaseEnv struct {
	store   *memory.Store
	service *purchase.Service
	item    *item.Item
}

func newPurchaseEnv(t *testing.T) *purchaseEnv {
	t.Helper()
	store := memory.NewStore()

	it := item.New("T-001", "Turbo GT1749V")
	if err := store.Items().Create(context.Background(), it); err != nil {
		t.Fatalf("create item: %v", err)
	}

	reconciler := stock.NewReconciler(store.Items(), store.Ledger(), store.Summaries(), 1)
	service := purchase.NewService(store.Purchases(), reconciler, store.ChangeLog(), tx.Nop{})

	return &purchaseEnv{store: store, service: service, item: it}
}

func TestPurchaseCreate(t *testing.T) {
	env := newPurchaseEnv(t)
	ctx := context.Background()

	doc := purchase.New(id.New())
	doc.AddLine(&env.item.ID, env.item.Name, 2, types.MustMoney("100"))
	doc.AddLine(nil, "Oil feed pipe", 3, types.MustMoney("10"))

	if err := env.service.Create(ctx, doc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !strings.HasPrefix(doc.Number, "PUR-") {
		t.Errorf("Number = %q, want PUR- prefix", doc.Number)
	}
	if !doc.TotalAmount.Equal(types.MustMoney("230")) {
		t.Errorf("TotalAmount = %s, want 230", doc.TotalAmount)
	}

	stored, err := env.store.Purchases().GetByID(ctx, doc.ID)
	if err != nil {
		t.Fatalf("GetByID after create: %v", err)
	}
	if len(stored.Lines) != 2 {
		t.Errorf("len(Lines) = %d, want 2", len(stored.Lines))
	}

	// The linked line lands in the summary cache; the ad-hoc line has no
	// catalog item and stays out of it.
	cached, err := env.store.Summaries().Get(ctx, env.item.ID)
	if err != nil {
		t.Fatalf("Get cached summary: %v", err)
	}
	if cached.CurrentStock != 2 {
		t.Errorf("CurrentStock = %d, want 2", cached.CurrentStock)
	}
	if !cached.AverageCostPrice.Equal(types.MustMoney("100")) {
		t.Errorf("AverageCostPrice = %s, want 100", cached.AverageCostPrice)
	}

	entries, err := env.store.ChangeLog().ListForEntity(ctx, "purchase", doc.ID)
	if err != nil {
		t.Fatalf("ListForEntity: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("audit entries = %d, want 1", len(entries))
	}
}

func TestPurchaseCreateValidation(t *testing.T) {
	env := newPurchaseEnv(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		build func() *purchase.Purchase
	}{
		{"no lines", func() *purchase.Purchase {
			return purchase.New(id.New())
		}},
		{"missing supplier", func() *purchase.Purchase {
			doc := purchase.New(id.Nil())
			doc.AddLine(&env.item.ID, env.item.Name, 1, types.MustMoney("100"))
			return doc
		}},
		{"zero quantity", func() *purchase.Purchase {
			doc := purchase.New(id.New())
			doc.AddLine(&env.item.ID, env.item.Name, 0, types.MustMoney("100"))
			return doc
		}},
		{"empty item name", func() *purchase.Purchase {
			doc := purchase.New(id.New())
			doc.AddLine(nil, "", 1, types.MustMoney("100"))
			return doc
		}},
		{"negative cost", func() *purchase.Purchase {
			doc := purchase.New(id.New())
			doc.AddLine(&env.item.ID, env.item.Name, 1, types.MustMoney("-5"))
			return doc
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := tt.build()
			err := env.service.Create(ctx, doc)
			appErr, ok := apperror.AsAppError(err)
			if !ok || appErr.Code != apperror.CodeValidation {
				t.Errorf("err = %v, want %s", err, apperror.CodeValidation)
			}
		})
	}
}

func TestPurchaseUpdateRecalculates(t *testing.T) {
	env := newPurchaseEnv(t)
	ctx := context.Background()

	doc := purchase.New(id.New())
	doc.AddLine(&env.item.ID, env.item.Name, 2, types.MustMoney("100"))
	if err := env.service.Create(ctx, doc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	doc.Lines[0].Quantity = 5
	doc.Lines[0].CostPerUnit = types.MustMoney("110")
	if err := env.service.Update(ctx, doc); err != nil {
		t.Fatalf("Update: %v", err)
	}

	cached, err := env.store.Summaries().Get(ctx, env.item.ID)
	if err != nil {
		t.Fatalf("Get cached summary: %v", err)
	}
	if cached.CurrentStock != 5 {
		t.Errorf("CurrentStock = %d, want 5 after update", cached.CurrentStock)
	}
	if !cached.AverageCostPrice.Equal(types.MustMoney("110")) {
		t.Errorf("AverageCostPrice = %s, want 110", cached.AverageCostPrice)
	}
}

func TestPurchaseUpdateCorrectsRemovedItem(t *testing.T) {
	env := newPurchaseEnv(t)
	ctx := context.Background()

	other := item.New("T-002", "Gasket kit")
	if err := env.store.Items().Create(ctx, other); err != nil {
		t.Fatalf("create item: %v", err)
	}

	doc := purchase.New(id.New())
	doc.AddLine(&env.item.ID, env.item.Name, 2, types.MustMoney("100"))
	doc.AddLine(&other.ID, other.Name, 10, types.MustMoney("3"))
	if err := env.service.Create(ctx, doc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Drop the gasket line; its summary must be corrected, not left stale.
	doc.Lines = doc.Lines[:1]
	doc.RecalculateTotals()
	if err := env.service.Update(ctx, doc); err != nil {
		t.Fatalf("Update: %v", err)
	}

	cached, err := env.store.Summaries().Get(ctx, other.ID)
	if err != nil {
		t.Fatalf("Get cached summary: %v", err)
	}
	if cached.CurrentStock != 0 {
		t.Errorf("removed item CurrentStock = %d, want 0", cached.CurrentStock)
	}
}

func TestPurchaseDelete(t *testing.T) {
	env := newPurchaseEnv(t)
	ctx := context.Background()

	doc := purchase.New(id.New())
	doc.AddLine(&env.item.ID, env.item.Name, 2, types.MustMoney("100"))
	if err := env.service.Create(ctx, doc); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := env.service.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := env.store.Purchases().GetByID(ctx, doc.ID); !apperror.IsNotFound(err) {
		t.Errorf("purchase still visible after delete, err = %v", err)
	}

	cached, err := env.store.Summaries().Get(ctx, env.item.ID)
	if err != nil {
		t.Fatalf("Get cached summary: %v", err)
	}
	if cached.CurrentStock != 0 {
		t.Errorf("CurrentStock = %d, want 0 after delete", cached.CurrentStock)
	}
	if cached.TotalPurchased != 0 {
		t.Errorf("TotalPurchased = %d, want 0 after delete", cached.TotalPurchased)
	}
}
