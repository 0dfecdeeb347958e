package sale

import (
	"context"
	"time"

	"turbostock/internal/core/id"
)

// ListFilter narrows sale listing.
type ListFilter struct {
	CustomerID     *id.ID
	DateFrom       *time.Time
	DateTo         *time.Time
	Search         string // matches document number or line item name
	IncludeDeleted bool

	Limit  int
	Offset int
}

// Repository defines persistence for sale documents.
type Repository interface {
	Create(ctx context.Context, s *Sale) error
	GetByID(ctx context.Context, docID id.ID) (*Sale, error)
	Update(ctx context.Context, s *Sale) error

	// Delete soft-deletes the document; ledger readers exclude it immediately.
	Delete(ctx context.Context, docID id.ID) error

	List(ctx context.Context, filter ListFilter) ([]*Sale, error)
}
