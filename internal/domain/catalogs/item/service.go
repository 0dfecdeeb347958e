package item

import (
	"context"
	"fmt"
	"strings"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/id"
	"turbostock/pkg/logger"
)

// Service provides business operations for the item catalog.
type Service struct {
	repo Repository
}

// NewService creates a new item catalog service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create creates a new catalog item. The code must be unique among active items.
func (s *Service) Create(ctx context.Context, it *Item) error {
	if err := it.Validate(ctx); err != nil {
		return err
	}

	it.Code = strings.TrimSpace(it.Code)
	if existing, err := s.repo.GetByCode(ctx, it.Code); err == nil && existing != nil && existing.IsActive {
		return apperror.NewDuplicate("item", "code", it.Code)
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return fmt.Errorf("create item: %w", err)
	}

	logger.Info(ctx, "item created", "id", it.ID, "code", it.Code)
	return nil
}

// GetByID retrieves an item by id.
func (s *Service) GetByID(ctx context.Context, itemID id.ID) (*Item, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewNotFound("item", itemID.String()).WithCause(err)
	}
	return it, nil
}

// GetByCode retrieves an item by its user-facing code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Item, error) {
	it, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewNotFound("item", code).WithCause(err)
	}
	return it, nil
}

// Update modifies an existing item.
func (s *Service) Update(ctx context.Context, it *Item) error {
	if err := it.Validate(ctx); err != nil {
		return err
	}

	if existing, err := s.repo.GetByCode(ctx, it.Code); err == nil && existing != nil &&
		existing.ID != it.ID && existing.IsActive {
		return apperror.NewDuplicate("item", "code", it.Code)
	}

	it.Touch()
	return s.repo.Update(ctx, it)
}

// Retire soft-retires an item. Ledger history stays intact.
func (s *Service) Retire(ctx context.Context, itemID id.ID) error {
	it, err := s.GetByID(ctx, itemID)
	if err != nil {
		return err
	}

	it.IsActive = false
	it.Touch()

	if err := s.repo.Update(ctx, it); err != nil {
		return fmt.Errorf("retire item: %w", err)
	}

	logger.Info(ctx, "item retired", "id", itemID)
	return nil
}

// Delete soft-deletes an item. Existing ledger lines keep their item_id
// reference; reconciliation resolves them by name from then on.
func (s *Service) Delete(ctx context.Context, itemID id.ID) error {
	return s.repo.Delete(ctx, itemID)
}

// List retrieves items with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Item, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}
