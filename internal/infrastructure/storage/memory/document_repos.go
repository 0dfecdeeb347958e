package memory

import (
	"context"
	"sort"
	"strings"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/id"
	"turbostock/internal/domain/documents/purchase"
	"turbostock/internal/domain/documents/sale"
)

// PurchaseRepository implements purchase.Repository over the shared store.
type PurchaseRepository struct {
	store *Store
}

func clonePurchase(p *purchase.Purchase) *purchase.Purchase {
	c := *p
	c.Lines = append([]purchase.Line(nil), p.Lines...)
	return &c
}

func (r *PurchaseRepository) Create(ctx context.Context, p *purchase.Purchase) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.purchases[p.ID]; ok {
		return apperror.NewDuplicate("purchase", "id", p.ID.String())
	}
	r.store.purchases[p.ID] = clonePurchase(p)
	return nil
}

func (r *PurchaseRepository) GetByID(ctx context.Context, docID id.ID) (*purchase.Purchase, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.purchases[docID]
	if !ok || p.DeletionMark {
		return nil, apperror.NewNotFound("purchase", docID.String())
	}
	return clonePurchase(p), nil
}

func (r *PurchaseRepository) Update(ctx context.Context, p *purchase.Purchase) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.purchases[p.ID]; !ok {
		return apperror.NewNotFound("purchase", p.ID.String())
	}
	r.store.purchases[p.ID] = clonePurchase(p)
	return nil
}

func (r *PurchaseRepository) Delete(ctx context.Context, docID id.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.purchases[docID]
	if !ok {
		return apperror.NewNotFound("purchase", docID.String())
	}
	p.MarkDeleted()
	return nil
}

func (r *PurchaseRepository) List(ctx context.Context, filter purchase.ListFilter) ([]*purchase.Purchase, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*purchase.Purchase, 0, len(r.store.purchases))
	for _, p := range r.store.purchases {
		if p.DeletionMark && !filter.IncludeDeleted {
			continue
		}
		if filter.SupplierID != nil && p.SupplierID != *filter.SupplierID {
			continue
		}
		if filter.DateFrom != nil && p.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && p.Date.After(*filter.DateTo) {
			continue
		}
		if !purchaseMatchesSearch(p, filter.Search) {
			continue
		}
		out = append(out, clonePurchase(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func purchaseMatchesSearch(p *purchase.Purchase, search string) bool {
	if search == "" {
		return true
	}
	if matchesSearch(search, p.Number) {
		return true
	}
	for _, l := range p.Lines {
		if strings.Contains(strings.ToLower(l.ItemName), strings.ToLower(search)) {
			return true
		}
	}
	return false
}

// SaleRepository implements sale.Repository over the shared store.
type SaleRepository struct {
	store *Store
}

func cloneSale(s *sale.Sale) *sale.Sale {
	c := *s
	c.Lines = append([]sale.Line(nil), s.Lines...)
	return &c
}

func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.sales[s.ID]; ok {
		return apperror.NewDuplicate("sale", "id", s.ID.String())
	}
	r.store.sales[s.ID] = cloneSale(s)
	return nil
}

func (r *SaleRepository) GetByID(ctx context.Context, docID id.ID) (*sale.Sale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	s, ok := r.store.sales[docID]
	if !ok || s.DeletionMark {
		return nil, apperror.NewNotFound("sale", docID.String())
	}
	return cloneSale(s), nil
}

func (r *SaleRepository) Update(ctx context.Context, s *sale.Sale) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.sales[s.ID]; !ok {
		return apperror.NewNotFound("sale", s.ID.String())
	}
	r.store.sales[s.ID] = cloneSale(s)
	return nil
}

func (r *SaleRepository) Delete(ctx context.Context, docID id.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.sales[docID]
	if !ok {
		return apperror.NewNotFound("sale", docID.String())
	}
	s.MarkDeleted()
	return nil
}

func (r *SaleRepository) List(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*sale.Sale, 0, len(r.store.sales))
	for _, s := range r.store.sales {
		if s.DeletionMark && !filter.IncludeDeleted {
			continue
		}
		if filter.CustomerID != nil && s.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.DateFrom != nil && s.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && s.Date.After(*filter.DateTo) {
			continue
		}
		if !saleMatchesSearch(s, filter.Search) {
			continue
		}
		out = append(out, cloneSale(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func saleMatchesSearch(s *sale.Sale, search string) bool {
	if search == "" {
		return true
	}
	if matchesSearch(search, s.Number) {
		return true
	}
	for _, l := range s.Lines {
		if strings.Contains(strings.ToLower(l.ItemName), strings.ToLower(search)) {
			return true
		}
	}
	return false
}
