package item

import (
	"context"

	"turbostock/internal/core/id"
)

// ListFilter narrows item listing.
type ListFilter struct {
	// Search matches code or name (substring, case-insensitive)
	Search string

	// Category filters by exact category
	Category string

	// ActiveOnly excludes soft-retired items
	ActiveOnly bool

	// IncludeDeleted includes soft-deleted records
	IncludeDeleted bool

	Limit  int
	Offset int
}

// Repository defines persistence for the item catalog.
type Repository interface {
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, itemID id.ID) (*Item, error)
	GetByCode(ctx context.Context, code string) (*Item, error)
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, itemID id.ID) error
	List(ctx context.Context, filter ListFilter) ([]*Item, error)

	// ListActive returns every active, non-deleted item. The reconciliation
	// engine iterates this set for the stock overview and bulk repair.
	ListActive(ctx context.Context) ([]*Item, error)
}
