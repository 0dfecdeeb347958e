package memory

import (
	"context"
	"sort"
	"strings"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/id"
	"turbostock/internal/domain/catalogs/customer"
	"turbostock/internal/domain/catalogs/item"
	"turbostock/internal/domain/catalogs/supplier"
)

func matchesSearch(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

func paginate[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

// ItemRepository implements item.Repository over the shared store.
type ItemRepository struct {
	store *Store
}

func cloneItem(it *item.Item) *item.Item {
	c := *it
	return &c
}

func (r *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.items[it.ID]; ok {
		return apperror.NewDuplicate("item", "id", it.ID.String())
	}
	r.store.items[it.ID] = cloneItem(it)
	return nil
}

func (r *ItemRepository) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	it, ok := r.store.items[itemID]
	if !ok || it.DeletionMark {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	return cloneItem(it), nil
}

func (r *ItemRepository) GetByCode(ctx context.Context, code string) (*item.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, it := range r.store.items {
		if it.Code == code && !it.DeletionMark {
			return cloneItem(it), nil
		}
	}
	return nil, apperror.NewNotFound("item", code)
}

func (r *ItemRepository) Update(ctx context.Context, it *item.Item) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.items[it.ID]; !ok {
		return apperror.NewNotFound("item", it.ID.String())
	}
	r.store.items[it.ID] = cloneItem(it)
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, itemID id.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	it, ok := r.store.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	it.MarkDeleted()
	return nil
}

func (r *ItemRepository) List(ctx context.Context, filter item.ListFilter) ([]*item.Item, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*item.Item, 0, len(r.store.items))
	for _, it := range r.store.items {
		if it.DeletionMark && !filter.IncludeDeleted {
			continue
		}
		if filter.ActiveOnly && !it.IsActive {
			continue
		}
		if filter.Category != "" && it.Category != filter.Category {
			continue
		}
		if !matchesSearch(filter.Search, it.Code, it.Name) {
			continue
		}
		out = append(out, cloneItem(it))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *ItemRepository) ListActive(ctx context.Context) ([]*item.Item, error) {
	return r.List(ctx, item.ListFilter{ActiveOnly: true})
}

// SupplierRepository implements supplier.Repository over the shared store.
type SupplierRepository struct {
	store *Store
}

func cloneSupplier(s *supplier.Supplier) *supplier.Supplier {
	c := *s
	return &c
}

func (r *SupplierRepository) Create(ctx context.Context, s *supplier.Supplier) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.suppliers[s.ID]; ok {
		return apperror.NewDuplicate("supplier", "id", s.ID.String())
	}
	r.store.suppliers[s.ID] = cloneSupplier(s)
	return nil
}

func (r *SupplierRepository) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	s, ok := r.store.suppliers[supplierID]
	if !ok || s.DeletionMark {
		return nil, apperror.NewNotFound("supplier", supplierID.String())
	}
	return cloneSupplier(s), nil
}

func (r *SupplierRepository) Update(ctx context.Context, s *supplier.Supplier) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.suppliers[s.ID]; !ok {
		return apperror.NewNotFound("supplier", s.ID.String())
	}
	r.store.suppliers[s.ID] = cloneSupplier(s)
	return nil
}

func (r *SupplierRepository) Delete(ctx context.Context, supplierID id.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.suppliers[supplierID]
	if !ok {
		return apperror.NewNotFound("supplier", supplierID.String())
	}
	s.MarkDeleted()
	return nil
}

func (r *SupplierRepository) List(ctx context.Context, filter supplier.ListFilter) ([]*supplier.Supplier, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*supplier.Supplier, 0, len(r.store.suppliers))
	for _, s := range r.store.suppliers {
		if s.DeletionMark && !filter.IncludeDeleted {
			continue
		}
		if !matchesSearch(filter.Search, s.Code, s.Name) {
			continue
		}
		out = append(out, cloneSupplier(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, filter.Limit, filter.Offset), nil
}

// CustomerRepository implements customer.Repository over the shared store.
type CustomerRepository struct {
	store *Store
}

func cloneCustomer(c *customer.Customer) *customer.Customer {
	cp := *c
	return &cp
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.customers[c.ID]; ok {
		return apperror.NewDuplicate("customer", "id", c.ID.String())
	}
	r.store.customers[c.ID] = cloneCustomer(c)
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	c, ok := r.store.customers[customerID]
	if !ok || c.DeletionMark {
		return nil, apperror.NewNotFound("customer", customerID.String())
	}
	return cloneCustomer(c), nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.customers[c.ID]; !ok {
		return apperror.NewNotFound("customer", c.ID.String())
	}
	r.store.customers[c.ID] = cloneCustomer(c)
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID id.ID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.customers[customerID]
	if !ok {
		return apperror.NewNotFound("customer", customerID.String())
	}
	c.MarkDeleted()
	return nil
}

func (r *CustomerRepository) List(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	out := make([]*customer.Customer, 0, len(r.store.customers))
	for _, c := range r.store.customers {
		if c.DeletionMark && !filter.IncludeDeleted {
			continue
		}
		if !matchesSearch(filter.Search, c.Code, c.Name) {
			continue
		}
		out = append(out, cloneCustomer(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return paginate(out, filter.Limit, filter.Offset), nil
}
