package memory

import (
	"context"
	"sort"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/id"
	"turbostock/internal/domain/audit"
	"turbostock/internal/domain/stock"
)

// LedgerReader implements stock.LedgerReader over the stored documents.
// Soft-deleted documents are excluded, matching the SQL readers.
type LedgerReader struct {
	store *Store

	// FailPurchases and FailSales, when set, are returned instead of data.
	// Used by tests to simulate an unavailable source ledger.
	FailPurchases error
	FailSales     error
}

func (r *LedgerReader) PurchaseLines(ctx context.Context) ([]stock.PurchaseLine, error) {
	if r.FailPurchases != nil {
		return nil, r.FailPurchases
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var lines []stock.PurchaseLine
	for _, p := range r.store.purchases {
		if p.DeletionMark {
			continue
		}
		lines = append(lines, p.StockLines()...)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Date.Before(lines[j].Date) })
	return lines, nil
}

func (r *LedgerReader) SaleLines(ctx context.Context) ([]stock.SaleLine, error) {
	if r.FailSales != nil {
		return nil, r.FailSales
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var lines []stock.SaleLine
	for _, s := range r.store.sales {
		if s.DeletionMark {
			continue
		}
		lines = append(lines, s.StockLines()...)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Date.Before(lines[j].Date) })
	return lines, nil
}

// SummaryStore implements stock.SummaryStore over the shared store.
type SummaryStore struct {
	store *Store
}

func cloneSummary(s *stock.ItemStockSummary) *stock.ItemStockSummary {
	c := *s
	return &c
}

func (r *SummaryStore) Get(ctx context.Context, itemID id.ID) (*stock.ItemStockSummary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	s, ok := r.store.summaries[itemID]
	if !ok {
		return nil, apperror.NewNotFound("stock summary", itemID.String())
	}
	return cloneSummary(s), nil
}

func (r *SummaryStore) Upsert(ctx context.Context, s *stock.ItemStockSummary) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.summaries[s.ItemID] = cloneSummary(s)
	return nil
}

func (r *SummaryStore) Delete(ctx context.Context, itemID id.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.summaries, itemID)
	return nil
}

func (r *SummaryStore) Clear(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.summaries = make(map[id.ID]*stock.ItemStockSummary)
	return nil
}

// ChangeLog implements audit.ChangeLog over the shared store.
// Entries are kept uncompressed; compression is a postgres concern.
type ChangeLog struct {
	store *Store
}

func (r *ChangeLog) Record(ctx context.Context, entry audit.Entry) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.auditLog = append(r.store.auditLog, entry)
	return nil
}

func (r *ChangeLog) ListForEntity(ctx context.Context, entity string, entityID id.ID) ([]audit.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []audit.Entry
	for _, e := range r.store.auditLog {
		if e.Entity == entity && e.EntityID == entityID {
			out = append(out, e)
		}
	}
	return out, nil
}
