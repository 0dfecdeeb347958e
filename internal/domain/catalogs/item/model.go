// Package item provides the sellable-item catalog.
// Items supply the identity that purchase and sale line items may link to;
// the stock engine never mutates them.
package item

import (
	"context"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/entity"
)

// Item represents a catalog entry for a sellable part.
type Item struct {
	entity.Catalog

	// Category groups items for the admin views (e.g. "turbocharger", "actuator")
	Category string `db:"category" json:"category"`

	// UnitOfMeasure is the selling unit ("pcs" for almost everything here)
	UnitOfMeasure string `db:"unit_of_measure" json:"unitOfMeasure"`

	// Stock thresholds used by the overview status classification
	MinimumStock int64 `db:"minimum_stock" json:"minimumStock"`
	MaximumStock int64 `db:"maximum_stock" json:"maximumStock"`
	ReorderLevel int64 `db:"reorder_level" json:"reorderLevel"`

	// IsActive soft-retires the item without touching its ledger history
	IsActive bool `db:"is_active" json:"isActive"`
}

// New creates an active Item with the given code and name.
func New(code, name string) *Item {
	return &Item{
		Catalog:       entity.NewCatalog(code, name),
		UnitOfMeasure: "pcs",
		IsActive:      true,
	}
}

// Validate implements entity.Validatable.
func (i *Item) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if i.Code == "" {
		return apperror.NewValidation("item code is required").
			WithDetail("field", "code")
	}

	if i.MinimumStock < 0 || i.MaximumStock < 0 || i.ReorderLevel < 0 {
		return apperror.NewValidation("stock thresholds cannot be negative").
			WithDetail("field", "thresholds")
	}

	if i.MaximumStock > 0 && i.MinimumStock > i.MaximumStock {
		return apperror.NewValidation("minimum stock cannot exceed maximum stock").
			WithDetail("field", "minimumStock")
	}

	return nil
}
