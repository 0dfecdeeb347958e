package sale

import (
	"context"
	"encoding/json"
	"fmt"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/id"
	"turbostock/internal/core/tx"
	"turbostock/internal/domain/audit"
	"turbostock/internal/domain/stock"
	"turbostock/pkg/logger"
)

const auditEntity = "sale"

// Service provides business operations for sale documents.
// Create checks availability first, then applies the incremental stock
// decrease; Update and Delete run a scoped full recalculation.
type Service struct {
	repo         Repository
	stock        *stock.Reconciler
	availability *stock.Availability
	changeLog    audit.ChangeLog
	txm          tx.Manager
}

// NewService creates a sale service.
func NewService(
	repo Repository,
	reconciler *stock.Reconciler,
	availability *stock.Availability,
	changeLog audit.ChangeLog,
	txm tx.Manager,
) *Service {
	return &Service{
		repo:         repo,
		stock:        reconciler,
		availability: availability,
		changeLog:    changeLog,
		txm:          txm,
	}
}

// Create validates availability per line, persists the sale, and applies the
// incremental stock decrease. The availability check reads derived state:
// two concurrent sales can both pass and oversell; reconciliation surfaces
// the resulting negative stock rather than hiding it.
func (s *Service) Create(ctx context.Context, doc *Sale) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	doc.RecalculateTotals()

	for _, line := range doc.Lines {
		check, err := s.availability.CheckItemStock(ctx, line.ItemName, line.Quantity)
		if err != nil {
			return err
		}
		if !check.Sufficient {
			return apperror.NewInsufficientStock(line.ItemName, check.Requested, check.AvailableStock)
		}
	}

	if doc.Number == "" {
		doc.Number = nextNumber("SAL", doc.ID)
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, doc)
	})
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}

	if err := s.stock.ApplySale(ctx, doc.StockLines()); err != nil {
		logger.Error(ctx, "incremental stock update failed after sale create",
			"sale_id", doc.ID,
			"error", err,
		)
	}

	s.recordAudit(ctx, doc, audit.ActionCreate)

	logger.Info(ctx, "sale created",
		"id", doc.ID,
		"number", doc.Number,
		"lines", len(doc.Lines),
	)
	return nil
}

// GetByID retrieves a sale with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Sale, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewNotFound("sale", docID.String()).WithCause(err)
	}
	return doc, nil
}

// Update modifies an existing sale and recalculates every item touched by
// the old or the new lines.
func (s *Service) Update(ctx context.Context, doc *Sale) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	doc.RecalculateTotals()

	previous, err := s.GetByID(ctx, doc.ID)
	if err != nil {
		return err
	}

	doc.Touch()
	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Update(ctx, doc)
	})
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}

	touched := append(previous.StockLines(), doc.StockLines()...)
	if err := s.stock.RecalculateForLines(ctx, nil, touched); err != nil {
		logger.Error(ctx, "stock recalculation failed after sale update",
			"sale_id", doc.ID,
			"error", err,
		)
	}

	s.recordAudit(ctx, doc, audit.ActionUpdate)

	logger.Info(ctx, "sale updated", "id", doc.ID, "number", doc.Number)
	return nil
}

// Delete soft-deletes a sale and recalculates every linked item from
// scratch, same rationale as purchase deletion.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, docID)
	})
	if err != nil {
		return fmt.Errorf("delete sale: %w", err)
	}

	if err := s.stock.RecalculateForLines(ctx, nil, doc.StockLines()); err != nil {
		logger.Error(ctx, "stock recalculation failed after sale delete",
			"sale_id", docID,
			"error", err,
		)
	}

	s.recordAudit(ctx, doc, audit.ActionDelete)

	logger.Info(ctx, "sale deleted", "id", docID, "number", doc.Number)
	return nil
}

// List retrieves sales with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Sale, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) recordAudit(ctx context.Context, doc *Sale, action audit.Action) {
	if s.changeLog == nil {
		return
	}
	snapshot, err := json.Marshal(doc)
	if err != nil {
		logger.Warn(ctx, "audit snapshot failed", "sale_id", doc.ID, "error", err)
		return
	}
	if err := s.changeLog.Record(ctx, audit.NewEntry(auditEntity, doc.ID, action, snapshot)); err != nil {
		logger.Warn(ctx, "audit record failed", "sale_id", doc.ID, "error", err)
	}
}

// nextNumber derives a short document number from the UUIDv7 id.
func nextNumber(prefix string, docID id.ID) string {
	raw := docID.String()
	return prefix + "-" + raw[len(raw)-12:]
}
