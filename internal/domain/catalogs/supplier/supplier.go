// Package supplier provides the supplier catalog.
package supplier

import (
	"context"
	"fmt"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/entity"
	"turbostock/internal/core/id"
)

// Supplier represents a parts supplier.
type Supplier struct {
	entity.Catalog

	ContactPerson string `db:"contact_person" json:"contactPerson,omitempty"`
	Phone         string `db:"phone" json:"phone,omitempty"`
	Email         string `db:"email" json:"email,omitempty"`
	Address       string `db:"address" json:"address,omitempty"`
}

// New creates a Supplier.
func New(code, name string) *Supplier {
	return &Supplier{Catalog: entity.NewCatalog(code, name)}
}

// ListFilter narrows supplier listing.
type ListFilter struct {
	Search         string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// Repository defines persistence for the supplier catalog.
type Repository interface {
	Create(ctx context.Context, s *Supplier) error
	GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error)
	Update(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, supplierID id.ID) error
	List(ctx context.Context, filter ListFilter) ([]*Supplier, error)
}

// Service provides supplier catalog operations.
type Service struct {
	repo Repository
}

// NewService creates a supplier service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new supplier.
func (s *Service) Create(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, sup); err != nil {
		return fmt.Errorf("create supplier: %w", err)
	}
	return nil
}

// GetByID retrieves a supplier by id.
func (s *Service) GetByID(ctx context.Context, supplierID id.ID) (*Supplier, error) {
	sup, err := s.repo.GetByID(ctx, supplierID)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewNotFound("supplier", supplierID.String()).WithCause(err)
	}
	return sup, nil
}

// Update modifies an existing supplier.
func (s *Service) Update(ctx context.Context, sup *Supplier) error {
	if err := sup.Validate(ctx); err != nil {
		return err
	}
	sup.Touch()
	return s.repo.Update(ctx, sup)
}

// Delete soft-deletes a supplier.
func (s *Service) Delete(ctx context.Context, supplierID id.ID) error {
	return s.repo.Delete(ctx, supplierID)
}

// List retrieves suppliers with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Supplier, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}
