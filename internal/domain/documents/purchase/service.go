package purchase

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

const auditEntity = "purchase"

// Service provides business operations for purchase documents.
// Create applies the fast incremental stock update; Update and Delete run a
// scoped full recalculation, because an in-place adjustment is unsafe once
// other documents of the same item may have landed out of order.
type Service struct {
	repo      Repository
	stock     *stock.Reconciler
	changeLog audit.ChangeLog
	txm       tx.Manager
}

// NewService creates a purchase service.
func NewService(repo Repository, reconciler *stock.Reconciler, changeLog audit.ChangeLog, txm tx.Manager) *Service {
	return &Service{
		repo:      repo,
		stock:     reconciler,
		changeLog: changeLog,
		txm:       txm,
	}
}

// Create persists a new purchase and applies the incremental stock increase
// for every catalog item its lines resolve to.
func (s *Service) Create(ctx context.Context, doc *Purchase) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	doc.RecalculateTotals()

	if doc.Number == "" {
		doc.Number = nextNumber("PUR", doc.ID)
	}

	err := s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Create(ctx, doc)
	})
	if err != nil {
		return fmt.Errorf("create purchase: %w", err)
	}

	if err := s.stock.ApplyPurchase(ctx, doc.StockLines()); err != nil {
		// The document is committed; the summary cache is behind until the
		// next recalculation. Surface the condition instead of failing the
		// already-persisted purchase.
		logger.Error(ctx, "incremental stock update failed after purchase create",
			"purchase_id", doc.ID,
			"error", err,
		)
	}

	s.recordAudit(ctx, doc, audit.ActionCreate)

	logger.Info(ctx, "purchase created",
		"id", doc.ID,
		"number", doc.Number,
		"lines", len(doc.Lines),
	)
	return nil
}

// GetByID retrieves a purchase with lines.
func (s *Service) GetByID(ctx context.Context, docID id.ID) (*Purchase, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewNotFound("purchase", docID.String()).WithCause(err)
	}
	return doc, nil
}

// Update modifies an existing purchase and recalculates every item touched
// by the old or the new lines.
func (s *Service) Update(ctx context.Context, doc *Purchase) error {
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
		return fmt.Errorf("update purchase: %w", err)
	}

	// Union of old and new lines: items removed from the document need
	// their summaries corrected too.
	touched := append(previous.StockLines(), doc.StockLines()...)
	if err := s.stock.RecalculateForLines(ctx, touched, nil); err != nil {
		logger.Error(ctx, "stock recalculation failed after purchase update",
			"purchase_id", doc.ID,
			"error", err,
		)
	}

	s.recordAudit(ctx, doc, audit.ActionUpdate)

	logger.Info(ctx, "purchase updated", "id", doc.ID, "number", doc.Number)
	return nil
}

// Delete soft-deletes a purchase and recalculates every linked item from
// scratch. A simple stock decrement would be wrong once other purchases or
// sales of the same item happened out of chronological order.
func (s *Service) Delete(ctx context.Context, docID id.ID) error {
	doc, err := s.GetByID(ctx, docID)
	if err != nil {
		return err
	}

	err = s.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.repo.Delete(ctx, docID)
	})
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}

	if err := s.stock.RecalculateForLines(ctx, doc.StockLines(), nil); err != nil {
		logger.Error(ctx, "stock recalculation failed after purchase delete",
			"purchase_id", docID,
			"error", err,
		)
	}

	s.recordAudit(ctx, doc, audit.ActionDelete)

	logger.Info(ctx, "purchase deleted", "id", docID, "number", doc.Number)
	return nil
}

// List retrieves purchases with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Purchase, error) {
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) recordAudit(ctx context.Context, doc *Purchase, action audit.Action) {
	if s.changeLog == nil {
		return
	}
	snapshot, err := json.Marshal(doc)
	if err != nil {
		logger.Warn(ctx, "audit snapshot failed", "purchase_id", doc.ID, "error", err)
		return
	}
	if err := s.changeLog.Record(ctx, audit.NewEntry(auditEntity, doc.ID, action, snapshot)); err != nil {
		logger.Warn(ctx, "audit record failed", "purchase_id", doc.ID, "error", err)
	}
}

// nextNumber derives a short document number from the UUIDv7 id.
// Good enough for a single-store tool; uniqueness follows from the id.
func nextNumber(prefix string, docID id.ID) string {
	raw := docID.String()
	return prefix + "-" + raw[len(raw)-12:]
}
