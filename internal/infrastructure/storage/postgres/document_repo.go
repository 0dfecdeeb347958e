package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/id"
	"turbostock/internal/domain/documents/purchase"
	"turbostock/internal/domain/documents/sale"
)

// PurchaseRepository implements purchase.Repository on PostgreSQL.
// Headers live in purchases, lines in purchase_lines; both are written in
// the caller's transaction.
type PurchaseRepository struct {
	txm *TxManager
}

// NewPurchaseRepository creates a purchase repository.
func NewPurchaseRepository(txm *TxManager) *PurchaseRepository {
	return &PurchaseRepository{txm: txm}
}

var purchaseCols = []string{
	"id", "number", "date", "comment", "supplier_id", "total_amount",
	"deletion_mark", "version", "created_at", "updated_at",
}

func purchaseValues(p *purchase.Purchase) map[string]any {
	return map[string]any{
		"id":            p.ID,
		"number":        p.Number,
		"date":          p.Date,
		"comment":       p.Comment,
		"supplier_id":   p.SupplierID,
		"total_amount":  p.TotalAmount,
		"deletion_mark": p.DeletionMark,
		"version":       p.Version,
		"created_at":    p.CreatedAt,
		"updated_at":    p.UpdatedAt,
	}
}

func (r *PurchaseRepository) Create(ctx context.Context, p *purchase.Purchase) error {
	sql, args, err := builder().Insert("purchases").SetMap(purchaseValues(p)).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return r.insertLines(ctx, p.ID, p.Lines)
}

func (r *PurchaseRepository) insertLines(ctx context.Context, docID id.ID, lines []purchase.Line) error {
	if len(lines) == 0 {
		return nil
	}
	q := builder().Insert("purchase_lines").
		Columns("line_id", "purchase_id", "line_no", "item_id", "item_name", "quantity", "cost_per_unit", "total_cost")
	for _, l := range lines {
		q = q.Values(l.LineID, docID, l.LineNo, l.ItemID, l.ItemName, l.Quantity, l.CostPerUnit, l.TotalCost)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert purchase lines: %w", err)
	}
	return nil
}

func (r *PurchaseRepository) GetByID(ctx context.Context, docID id.ID) (*purchase.Purchase, error) {
	q := builder().Select(purchaseCols...).From("purchases").
		Where(squirrel.Eq{"id": docID, "deletion_mark": false}).
		Limit(1)
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p purchase.Purchase
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("purchase", docID.String())
		}
		return nil, fmt.Errorf("get purchase: %w", err)
	}

	lines, err := r.linesFor(ctx, []id.ID{docID})
	if err != nil {
		return nil, err
	}
	p.Lines = lines[docID]
	return &p, nil
}

type purchaseLineRow struct {
	purchase.Line
	PurchaseID id.ID `db:"purchase_id"`
}

func (r *PurchaseRepository) linesFor(ctx context.Context, docIDs []id.ID) (map[id.ID][]purchase.Line, error) {
	q := builder().
		Select("line_id", "purchase_id", "line_no", "item_id", "item_name", "quantity", "cost_per_unit", "total_cost").
		From("purchase_lines").
		Where(squirrel.Eq{"purchase_id": docIDs}).
		OrderBy("line_no ASC")
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}

	var rows []purchaseLineRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select purchase lines: %w", err)
	}

	out := make(map[id.ID][]purchase.Line, len(docIDs))
	for _, row := range rows {
		out[row.PurchaseID] = append(out[row.PurchaseID], row.Line)
	}
	return out, nil
}

func (r *PurchaseRepository) Update(ctx context.Context, p *purchase.Purchase) error {
	values := purchaseValues(p)
	delete(values, "id")
	delete(values, "version")
	delete(values, "created_at")

	q := builder().Update("purchases").
		SetMap(values).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": p.ID, "version": p.Version})
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update purchase: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConflict("purchase was modified concurrently").
			WithDetail("id", p.ID.String())
	}

	// Lines are replaced wholesale; diffing rows buys nothing at this volume.
	delSQL, delArgs, err := builder().Delete("purchase_lines").
		Where(squirrel.Eq{"purchase_id": p.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete purchase lines: %w", err)
	}
	return r.insertLines(ctx, p.ID, p.Lines)
}

func (r *PurchaseRepository) Delete(ctx context.Context, docID id.ID) error {
	return softDelete(ctx, r.txm, "purchases", "purchase", docID)
}

func (r *PurchaseRepository) List(ctx context.Context, filter purchase.ListFilter) ([]*purchase.Purchase, error) {
	q := builder().Select(purchaseCols...).From("purchases")

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.Expr("id IN (SELECT purchase_id FROM purchase_lines WHERE item_name ILIKE ?)", pattern),
		})
	}

	q = q.OrderBy("date DESC")
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

	var docs []*purchase.Purchase
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	if len(docs) == 0 {
		return docs, nil
	}

	docIDs := make([]id.ID, len(docs))
	for i, d := range docs {
		docIDs[i] = d.ID
	}
	lines, err := r.linesFor(ctx, docIDs)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		d.Lines = lines[d.ID]
	}
	return docs, nil
}

// SaleRepository implements sale.Repository on PostgreSQL.
type SaleRepository struct {
	txm *TxManager
}

// NewSaleRepository creates a sale repository.
func NewSaleRepository(txm *TxManager) *SaleRepository {
	return &SaleRepository{txm: txm}
}

var saleCols = []string{
	"id", "number", "date", "comment", "customer_id", "total_amount",
	"deletion_mark", "version", "created_at", "updated_at",
}

func saleValues(s *sale.Sale) map[string]any {
	return map[string]any{
		"id":            s.ID,
		"number":        s.Number,
		"date":          s.Date,
		"comment":       s.Comment,
		"customer_id":   s.CustomerID,
		"total_amount":  s.TotalAmount,
		"deletion_mark": s.DeletionMark,
		"version":       s.Version,
		"created_at":    s.CreatedAt,
		"updated_at":    s.UpdatedAt,
	}
}

func (r *SaleRepository) Create(ctx context.Context, s *sale.Sale) error {
	sql, args, err := builder().Insert("sales").SetMap(saleValues(s)).ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return r.insertLines(ctx, s.ID, s.Lines)
}

func (r *SaleRepository) insertLines(ctx context.Context, docID id.ID, lines []sale.Line) error {
	if len(lines) == 0 {
		return nil
	}
	q := builder().Insert("sale_lines").
		Columns("line_id", "sale_id", "line_no", "item_id", "item_name", "quantity", "price_per_unit", "total_price")
	for _, l := range lines {
		q = q.Values(l.LineID, docID, l.LineNo, l.ItemID, l.ItemName, l.Quantity, l.PricePerUnit, l.TotalPrice)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sale lines: %w", err)
	}
	return nil
}

func (r *SaleRepository) GetByID(ctx context.Context, docID id.ID) (*sale.Sale, error) {
	q := builder().Select(saleCols...).From("sales").
		Where(squirrel.Eq{"id": docID, "deletion_mark": false}).
		Limit(1)
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s sale.Sale
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sale", docID.String())
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}

	lines, err := r.linesFor(ctx, []id.ID{docID})
	if err != nil {
		return nil, err
	}
	s.Lines = lines[docID]
	return &s, nil
}

type saleLineRow struct {
	sale.Line
	SaleID id.ID `db:"sale_id"`
}

func (r *SaleRepository) linesFor(ctx context.Context, docIDs []id.ID) (map[id.ID][]sale.Line, error) {
	q := builder().
		Select("line_id", "sale_id", "line_no", "item_id", "item_name", "quantity", "price_per_unit", "total_price").
		From("sale_lines").
		Where(squirrel.Eq{"sale_id": docIDs}).
		OrderBy("line_no ASC")
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lines query: %w", err)
	}

	var rows []saleLineRow
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("select sale lines: %w", err)
	}

	out := make(map[id.ID][]sale.Line, len(docIDs))
	for _, row := range rows {
		out[row.SaleID] = append(out[row.SaleID], row.Line)
	}
	return out, nil
}

func (r *SaleRepository) Update(ctx context.Context, s *sale.Sale) error {
	values := saleValues(s)
	delete(values, "id")
	delete(values, "version")
	delete(values, "created_at")

	q := builder().Update("sales").
		SetMap(values).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": s.ID, "version": s.Version})
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperror.NewConflict("sale was modified concurrently").
			WithDetail("id", s.ID.String())
	}

	delSQL, delArgs, err := builder().Delete("sale_lines").
		Where(squirrel.Eq{"sale_id": s.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete lines: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, delSQL, delArgs...); err != nil {
		return fmt.Errorf("delete sale lines: %w", err)
	}
	return r.insertLines(ctx, s.ID, s.Lines)
}

func (r *SaleRepository) Delete(ctx context.Context, docID id.ID) error {
	return softDelete(ctx, r.txm, "sales", "sale", docID)
}

func (r *SaleRepository) List(ctx context.Context, filter sale.ListFilter) ([]*sale.Sale, error) {
	q := builder().Select(saleCols...).From("sales")

	if !filter.IncludeDeleted {
		q = q.Where(squirrel.Eq{"deletion_mark": false})
	}
	if filter.CustomerID != nil {
		q = q.Where(squirrel.Eq{"customer_id": *filter.CustomerID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *filter.DateTo})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.Expr("id IN (SELECT sale_id FROM sale_lines WHERE item_name ILIKE ?)", pattern),
		})
	}

	q = q.OrderBy("date DESC")
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

	var docs []*sale.Sale
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if len(docs) == 0 {
		return docs, nil
	}

	docIDs := make([]id.ID, len(docs))
	for i, d := range docs {
		docIDs[i] = d.ID
	}
	lines, err := r.linesFor(ctx, docIDs)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		d.Lines = lines[d.ID]
	}
	return docs, nil
}
