package purchase

import (
	"context"
	"time"

	"turbostock/internal/core/id"
)

// ListFilter narrows purchase listing.
type ListFilter struct {
	SupplierID     *id.ID
	DateFrom       *time.Time
	DateTo         *time.Time
	Search         string // matches document number or line item name
	IncludeDeleted bool

	Limit  int
	Offset int
}

// Repository defines persistence for purchase documents.
type Repository interface {
	Create(ctx context.Context, p *Purchase) error
	GetByID(ctx context.Context, docID id.ID) (*Purchase, error)
	Update(ctx context.Context, p *Purchase) error

	// Delete soft-deletes the document. Ledger readers exclude soft-deleted
	// documents, so deletion is visible to reconciliation immediately.
	Delete(ctx context.Context, docID id.ID) error

	List(ctx context.Context, filter ListFilter) ([]*Purchase, error)
}
