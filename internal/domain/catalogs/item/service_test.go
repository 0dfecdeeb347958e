package item_test

import (
	"context"
	"testing"

	"turbostock/internal/core/apperror"
	"turbostock/internal/domain/catalogs/item"
	"turbostock/internal/infrastructure/storage/memory"
)

func newItemService() (*item.Service, *memory.Store) {
	store := memory.NewStore()
	return item.NewService(store.Items()), store
}

func TestItemCreate(t *testing.T) {
	svc, _ := newItemService()
	ctx := context.Background()

	it := item.New("T-001", "Turbo GT1749V")
	it.Category = "turbocharger"
	it.ReorderLevel = 2

	if err := svc.Create(ctx, it); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.GetByCode(ctx, "T-001")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if got.Name != "Turbo GT1749V" || !got.IsActive {
		t.Errorf("got %+v, want active item with original name", got)
	}
}

func TestItemCreateDuplicateCode(t *testing.T) {
	svc, _ := newItemService()
	ctx := context.Background()

	if err := svc.Create(ctx, item.New("T-001", "Turbo GT1749V")); err != nil {
		t.Fatalf("first create: %v", err)
	}

	err := svc.Create(ctx, item.New("T-001", "Another part"))
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeDuplicate {
		t.Fatalf("err = %v, want %s", err, apperror.CodeDuplicate)
	}
}

func TestItemRetireFreesCode(t *testing.T) {
	svc, _ := newItemService()
	ctx := context.Background()

	first := item.New("T-001", "Turbo GT1749V")
	if err := svc.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Retire(ctx, first.ID); err != nil {
		t.Fatalf("retire: %v", err)
	}

	// The code is only unique among active items.
	if err := svc.Create(ctx, item.New("T-001", "Replacement part")); err != nil {
		t.Errorf("create after retire: %v", err)
	}

	got, err := svc.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID retired: %v", err)
	}
	if got.IsActive {
		t.Error("retired item still active")
	}
}

func TestItemValidation(t *testing.T) {
	svc, _ := newItemService()
	ctx := context.Background()

	tests := []struct {
		name  string
		build func() *item.Item
	}{
		{"empty code", func() *item.Item {
			return item.New("", "Nameless part")
		}},
		{"negative threshold", func() *item.Item {
			it := item.New("T-001", "Turbo")
			it.ReorderLevel = -1
			return it
		}},
		{"minimum above maximum", func() *item.Item {
			it := item.New("T-002", "Turbo")
			it.MinimumStock = 10
			it.MaximumStock = 5
			return it
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Create(ctx, tt.build())
			appErr, ok := apperror.AsAppError(err)
			if !ok || appErr.Code != apperror.CodeValidation {
				t.Errorf("err = %v, want %s", err, apperror.CodeValidation)
			}
		})
	}
}

func TestItemList(t *testing.T) {
	svc, store := newItemService()
	ctx := context.Background()

	a := item.New("T-001", "Turbo GT1749V")
	a.Category = "turbocharger"
	b := item.New("T-002", "Actuator G-271")
	b.Category = "actuator"
	retired := item.New("T-003", "Old stock")
	retired.IsActive = false

	for _, it := range []*item.Item{a, b, retired} {
		if err := store.Items().Create(ctx, it); err != nil {
			t.Fatalf("create %s: %v", it.Code, err)
		}
	}

	t.Run("active only", func(t *testing.T) {
		got, err := svc.List(ctx, item.ListFilter{ActiveOnly: true})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len(got) = %d, want 2", len(got))
		}
	})

	t.Run("by category", func(t *testing.T) {
		got, err := svc.List(ctx, item.ListFilter{Category: "actuator"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 1 || got[0].Code != "T-002" {
			t.Errorf("got = %+v, want only T-002", got)
		}
	})

	t.Run("search by name", func(t *testing.T) {
		got, err := svc.List(ctx, item.ListFilter{Search: "gt1749"})
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(got) != 1 || got[0].Code != "T-001" {
			t.Errorf("got = %+v, want only T-001", got)
		}
	})
}
