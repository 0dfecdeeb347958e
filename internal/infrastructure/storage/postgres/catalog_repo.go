package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/id"
	"turbostock/internal/domain/catalogs/customer"
	"turbostock/internal/domain/catalogs/item"
	"turbostock/internal/domain/catalogs/supplier"
)

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func searchCond(search string) squirrel.Or {
	pattern := "%" + search + "%"
	return squirrel.Or{
		squirrel.ILike{"name": pattern},
		squirrel.ILike{"code": pattern},
	}
}

// ItemRepository implements item.Repository on PostgreSQL.
type ItemRepository struct {
	txm *TxManager
}

// NewItemRepository creates an item repository.
func NewItemRepository(txm *TxManager) *ItemRepository {
	return &ItemRepository{txm: txm}
}

var itemCols = []string{
	"id", "code", "name", "category", "unit_of_measure",
	"minimum_stock", "maximum_stock", "reorder_level", "is_active",
	"deletion_mark", "version", "created_at", "updated_at",
}

func itemValues(it *item.Item) map[string]any {
	return map[string]any{
		"id":              it.ID,
		"code":            it.Code,
		"name":            it.Name,
		"category":        it.Category,
		"unit_of_measure": it.UnitOfMeasure,
		"minimum_stock":   it.MinimumStock,
		"maximum_stock":   it.MaximumStock,
		"reorder_level":   it.ReorderLevel,
		"is_active":       it.IsActive,
		"deletion_mark":   it.DeletionMark,
		"version":         it.Version,
		"created_at":      it.CreatedAt,
		"updated_at":      it.UpdatedAt,
	}
}

func (r *ItemRepository) Create(ctx context.Context, it *item.Item) error {
	sql, args, err := builder().Insert("items").SetMap(itemValues(it)).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

func (r *ItemRepository) GetByID(ctx context.Context, itemID id.ID) (*item.Item, error) {
	q := builder().Select(itemCols...).From("items").
		Where(squirrel.Eq{"id": itemID, "deletion_mark": false}).
		Limit(1)
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var it item.Item
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", itemID.String())
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return &it, nil
}

func (r *ItemRepository) GetByCode(ctx context.Context, code string) (*item.Item, error) {
	q := builder().Select(itemCols...).From("items").
		Where(squirrel.Eq{"code": code, "deletion_mark": false}).
		Limit(1)
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var it item.Item
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &it, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("item", code)
		}
		return nil, fmt.Errorf("get item by code: %w", err)
	}
	return &it, nil
}

func (r *ItemRepository) Update(ctx context.Context, it *item.Item) error {
	values := itemValues(it)
	delete(values, "id")
	delete(values, "version")
	delete(values, "created_at")

	q := builder().Update("items").
		SetMap(values).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": it.ID, "version": it.Version})
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConflict("item was modified concurrently").
			WithDetail("id", it.ID.String())
	}
	return nil
}

func (r *ItemRepository) Delete(ctx context.Context, itemID id.ID) error {
	return softDelete(ctx, r.txm, "items", "item", itemID)
}

func (r *ItemRepository) List(ctx context.Context, filter item.ListFilter) ([]*item.Item, error) {
	q := builder().Select(itemCols...).From("items")

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"is_active": true})
	}
	if filter.Category != "" {
		q = q.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.Search != "" {
		q = q.Where(searchCond(filter.Search))
	}

	q = q.OrderBy("name ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*item.Item
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return items, nil
}

func (r *ItemRepository) ListActive(ctx context.Context) ([]*item.Item, error) {
	return r.List(ctx, item.ListFilter{ActiveOnly: true})
}

// softDelete marks the row instead of removing it: ledger documents keep
// referencing it and recalculation stays reproducible.
func softDelete(ctx context.Context, txm *TxManager, table, entityName string, entityID id.ID) error {
	q := builder().Update(table).
		Set("deletion_mark", true).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": entityID})
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete %s: %w", entityName, err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(entityName, entityID.String())
	}
	return nil
}

// SupplierRepository implements supplier.Repository on PostgreSQL.
type SupplierRepository struct {
	txm *TxManager
}

// NewSupplierRepository creates a supplier repository.
func NewSupplierRepository(txm *TxManager) *SupplierRepository {
	return &SupplierRepository{txm: txm}
}

var supplierCols = []string{
	"id", "code", "name", "contact_person", "phone", "email", "address",
	"deletion_mark", "version", "created_at", "updated_at",
}

func supplierValues(s *supplier.Supplier) map[string]any {
	return map[string]any{
		"id":             s.ID,
		"code":           s.Code,
		"name":           s.Name,
		"contact_person": s.ContactPerson,
		"phone":          s.Phone,
		"email":          s.Email,
		"address":        s.Address,
		"deletion_mark":  s.DeletionMark,
		"version":        s.Version,
		"created_at":     s.CreatedAt,
		"updated_at":     s.UpdatedAt,
	}
}

func (r *SupplierRepository) Create(ctx context.Context, s *supplier.Supplier) error {
	sql, args, err := builder().Insert("suppliers").SetMap(supplierValues(s)).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert supplier: %w", err)
	}
	return nil
}

func (r *SupplierRepository) GetByID(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	q := builder().Select(supplierCols...).From("suppliers").
		Where(squirrel.Eq{"id": supplierID, "deletion_mark": false}).
		Limit(1)
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s supplier.Supplier
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("supplier", supplierID.String())
		}
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return &s, nil
}

func (r *SupplierRepository) Update(ctx context.Context, s *supplier.Supplier) error {
	values := supplierValues(s)
	delete(values, "id")
	delete(values, "version")
	delete(values, "created_at")

	q := builder().Update("suppliers").
		SetMap(values).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": s.ID, "version": s.Version})
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update supplier: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConflict("supplier was modified concurrently").
			WithDetail("id", s.ID.String())
	}
	return nil
}

func (r *SupplierRepository) Delete(ctx context.Context, supplierID id.ID) error {
	return softDelete(ctx, r.txm, "suppliers", "supplier", supplierID)
}

func (r *SupplierRepository) List(ctx context.Context, filter supplier.ListFilter) ([]*supplier.Supplier, error) {
	q := builder().Select(supplierCols...).From("suppliers")

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.Search != "" {
		q = q.Where(searchCond(filter.Search))
	}

	q = q.OrderBy("name ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var suppliers []*supplier.Supplier
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &suppliers, sql, args...); err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return suppliers, nil
}

// CustomerRepository implements customer.Repository on PostgreSQL.
type CustomerRepository struct {
	txm *TxManager
}

// NewCustomerRepository creates a customer repository.
func NewCustomerRepository(txm *TxManager) *CustomerRepository {
	return &CustomerRepository{txm: txm}
}

var customerCols = []string{
	"id", "code", "name", "phone", "email", "address",
	"deletion_mark", "version", "created_at", "updated_at",
}

func customerValues(c *customer.Customer) map[string]any {
	return map[string]any{
		"id":            c.ID,
		"code":          c.Code,
		"name":          c.Name,
		"phone":         c.Phone,
		"email":         c.Email,
		"address":       c.Address,
		"deletion_mark": c.DeletionMark,
		"version":       c.Version,
		"created_at":    c.CreatedAt,
		"updated_at":    c.UpdatedAt,
	}
}

func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	sql, args, err := builder().Insert("customers").SetMap(customerValues(c)).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, customerID id.ID) (*customer.Customer, error) {
	q := builder().Select(customerCols...).From("customers").
		Where(squirrel.Eq{"id": customerID, "deletion_mark": false}).
		Limit(1)
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c customer.Customer
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("customer", customerID.String())
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c *customer.Customer) error {
	values := customerValues(c)
	delete(values, "id")
	delete(values, "version")
	delete(values, "created_at")

	q := builder().Update("customers").
		SetMap(values).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": c.ID, "version": c.Version})
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConflict("customer was modified concurrently").
			WithDetail("id", c.ID.String())
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, customerID id.ID) error {
	return softDelete(ctx, r.txm, "customers", "customer", customerID)
}

func (r *CustomerRepository) List(ctx context.Context, filter customer.ListFilter) ([]*customer.Customer, error) {
	q := builder().Select(customerCols...).From("customers")

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.Search != "" {
		q = q.Where(searchCond(filter.Search))
	}

	q = q.OrderBy("name ASC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var customers []*customer.Customer
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &customers, sql, args...); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}
