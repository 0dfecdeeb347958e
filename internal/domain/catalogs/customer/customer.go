// Package customer provides the customer catalog.
package customer

import (
	"context"
	"fmt"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/entity"
	"turbostock/internal/core/id"
)

// Customer represents a buyer.
type Customer struct {
	entity.Catalog

	Phone   string `db:"phone" json:"phone,omitempty"`
	Email   string `db:"email" json:"email,omitempty"`
	Address string `db:"address" json:"address,omitempty"`
}

// New creates a Customer.
func New(code, name string) *Customer {
	return &Customer{Catalog: entity.NewCatalog(code, name)}
}

// ListFilter narrows customer listing.
type ListFilter struct {
	Search         string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// Repository defines persistence for the customer catalog.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, customerID id.ID) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, customerID id.ID) error
	List(ctx context.Context, filter ListFilter) ([]*Customer, error)
}

// Service provides customer catalog operations.
type Service struct {
	repo Repository
}

// NewService creates a customer service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new customer.
func (s *Service) Create(ctx context.Context, c *Customer) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// GetByID retrieves a customer by id.
func (s *Service) GetByID(ctx context.Context, customerID id.ID) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, customerID)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewNotFound("customer", customerID.String()).WithCause(err)
	}
	return c, nil
}

// Update modifies an existing customer.
func (s *Service) Update(ctx context.Context, c *Customer) error {
	if err := c.Validate(ctx); err != nil {
		return err
	}
	c.Touch()
	return s.repo.Update(ctx, c)
}

// Delete soft-deletes a customer.
func (s *Service) Delete(ctx context.Context, customerID id.ID) error {
	return s.repo.Delete(ctx, customerID)
}

// List retrieves customers with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Customer, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}
