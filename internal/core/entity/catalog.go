package entity

import (
	"context"

	"turbostock/internal/core/apperror"
)

// Catalog is the base type for reference data.
// Examples: Item, Supplier, Customer.
type Catalog struct {
	BaseEntity

	// Code is a human-readable identifier (unique among active entries)
	Code string `db:"code" json:"code"`

	// Name is the display name
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a Catalog with a generated ID.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseEntity: NewBaseEntity(),
		Code:       code,
		Name:       name,
	}
}

// Validate implements Validatable.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
