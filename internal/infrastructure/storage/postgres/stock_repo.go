package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/id"
	"turbostock/internal/domain/stock"
)

// LedgerRepository implements stock.LedgerReader by joining document headers
// to their lines. Soft-deleted documents are filtered here, so every consumer
// of the ledger sees the same visibility rule.
type LedgerRepository struct {
	txm *TxManager
}

// NewLedgerRepository creates a ledger reader.
func NewLedgerRepository(txm *TxManager) *LedgerRepository {
	return &LedgerRepository{txm: txm}
}

func (r *LedgerRepository) PurchaseLines(ctx context.Context) ([]stock.PurchaseLine, error) {
	q := builder().
		Select(
			"p.id AS purchase_id",
			"p.number AS purchase_number",
			"p.supplier_id",
			"COALESCE(s.name, '') AS supplier_name",
			"p.date",
			"l.item_id",
			"l.item_name",
			"l.quantity",
			"l.cost_per_unit",
			"l.total_cost",
		).
		From("purchase_lines l").
		Join("purchases p ON p.id = l.purchase_id").
		LeftJoin("suppliers s ON s.id = p.supplier_id").
		Where(squirrel.Eq{"p.deletion_mark": false}).
		OrderBy("p.date ASC", "l.line_no ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build purchase ledger query: %w", err)
	}

	var lines []stock.PurchaseLine
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select purchase ledger: %w", err)
	}
	return lines, nil
}

func (r *LedgerRepository) SaleLines(ctx context.Context) ([]stock.SaleLine, error) {
	q := builder().
		Select(
			"s.id AS sale_id",
			"s.number AS sale_number",
			"s.customer_id",
			"COALESCE(c.name, '') AS customer_name",
			"s.date",
			"l.item_id",
			"l.item_name",
			"l.quantity",
			"l.price_per_unit",
			"l.total_price",
		).
		From("sale_lines l").
		Join("sales s ON s.id = l.sale_id").
		LeftJoin("customers c ON c.id = s.customer_id").
		Where(squirrel.Eq{"s.deletion_mark": false}).
		OrderBy("s.date ASC", "l.line_no ASC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sale ledger query: %w", err)
	}

	var lines []stock.SaleLine
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select sale ledger: %w", err)
	}
	return lines, nil
}

// SummaryRepository implements stock.SummaryStore on the stock_summaries
// table. One row per item, keyed by item_id; Upsert uses ON CONFLICT.
type SummaryRepository struct {
	txm *TxManager
}

// NewSummaryRepository creates a summary cache repository.
func NewSummaryRepository(txm *TxManager) *SummaryRepository {
	return &SummaryRepository{txm: txm}
}

var summaryCols = []string{
	"item_id", "item_code", "item_name",
	"total_purchased", "total_purchase_cost", "total_sold", "total_sale_revenue",
	"current_stock", "average_cost_price", "total_cost_value", "total_profit", "profit_margin",
	"status", "computed_at",
}

func (r *SummaryRepository) Get(ctx context.Context, itemID id.ID) (*stock.ItemStockSummary, error) {
	q := builder().Select(summaryCols...).From("stock_summaries").
		Where(squirrel.Eq{"item_id": itemID}).
		Limit(1)
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s stock.ItemStockSummary
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock summary", itemID.String())
		}
		return nil, fmt.Errorf("get stock summary: %w", err)
	}
	return &s, nil
}

func (r *SummaryRepository) Upsert(ctx context.Context, s *stock.ItemStockSummary) error {
	q := builder().Insert("stock_summaries").
		SetMap(map[string]any{
			"item_id":             s.ItemID,
			"item_code":           s.ItemCode,
			"item_name":           s.ItemName,
			"total_purchased":     s.TotalPurchased,
			"total_purchase_cost": s.TotalPurchaseCost,
			"total_sold":          s.TotalSold,
			"total_sale_revenue":  s.TotalSaleRevenue,
			"current_stock":       s.CurrentStock,
			"average_cost_price":  s.AverageCostPrice,
			"total_cost_value":    s.TotalCostValue,
			"total_profit":        s.TotalProfit,
			"profit_margin":       s.ProfitMargin,
			"status":              s.Status,
			"computed_at":         s.ComputedAt,
		}).
		Suffix(`ON CONFLICT (item_id) DO UPDATE SET
			item_code = EXCLUDED.item_code,
			item_name = EXCLUDED.item_name,
			total_purchased = EXCLUDED.total_purchased,
			total_purchase_cost = EXCLUDED.total_purchase_cost,
			total_sold = EXCLUDED.total_sold,
			total_sale_revenue = EXCLUDED.total_sale_revenue,
			current_stock = EXCLUDED.current_stock,
			average_cost_price = EXCLUDED.average_cost_price,
			total_cost_value = EXCLUDED.total_cost_value,
			total_profit = EXCLUDED.total_profit,
			profit_margin = EXCLUDED.profit_margin,
			status = EXCLUDED.status,
			computed_at = EXCLUDED.computed_at`)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert stock summary: %w", err)
	}
	return nil
}

func (r *SummaryRepository) Delete(ctx context.Context, itemID id.ID) error {
	sql, args, err := builder().Delete("stock_summaries").
		Where(squirrel.Eq{"item_id": itemID}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete stock summary: %w", err)
	}
	return nil
}

func (r *SummaryRepository) Clear(ctx context.Context) error {
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, "TRUNCATE stock_summaries"); err != nil {
		return fmt.Errorf("clear stock summaries: %w", err)
	}
	return nil
}
