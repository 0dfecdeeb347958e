package stock

import (
	"time"

	"turbostock/internal/core/id"
	"turbostock/internal/core/types"
)

// StockStatus classifies an item's on-hand quantity for the overview.
type StockStatus string

const (
	// StatusNegative marks computed stock below zero: an oversell or data
	// corruption that needs manual reconciliation. Distinct from out-of-stock
	// so it is never hidden behind a zero.
	StatusNegative StockStatus = "negative"

	StatusOutOfStock StockStatus = "out_of_stock"
	StatusLowStock   StockStatus = "low_stock"
	StatusInStock    StockStatus = "in_stock"
)

// ClassifyStock maps an on-hand quantity to a status given the item's
// reorder level.
func ClassifyStock(currentStock, reorderLevel int64) StockStatus {
	switch {
	case currentStock < 0:
		return StatusNegative
	case currentStock == 0:
		return StatusOutOfStock
	case currentStock <= reorderLevel:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// ItemStockSummary holds the derived stock and profit figures for one item.
// It is reproducible purely by replaying the two ledgers filtered by item;
// the persisted copy is a cache, never an independent source of truth.
type ItemStockSummary struct {
	ItemID   id.ID  `db:"item_id" json:"itemId"`
	ItemCode string `db:"item_code" json:"itemCode"`
	ItemName string `db:"item_name" json:"itemName"`

	// Ledger aggregates. Derived fields below recompute exactly from these,
	// which is what makes the incremental update path converge with the
	// full replay.
	TotalPurchased    int64       `db:"total_purchased" json:"totalPurchased"`
	TotalPurchaseCost types.Money `db:"total_purchase_cost" json:"totalPurchaseCost"`
	TotalSold         int64       `db:"total_sold" json:"totalSold"`
	TotalSaleRevenue  types.Money `db:"total_sale_revenue" json:"totalSaleRevenue"`

	// Derived figures
	CurrentStock     int64       `db:"current_stock" json:"currentStock"`
	AverageCostPrice types.Money `db:"average_cost_price" json:"averageCostPrice"`
	TotalCostValue   types.Money `db:"total_cost_value" json:"totalCostValue"`
	TotalProfit      types.Money `db:"total_profit" json:"totalProfit"`
	ProfitMargin     types.Money `db:"profit_margin" json:"profitMargin"`

	Status     StockStatus `db:"status" json:"status"`
	ComputedAt time.Time   `db:"computed_at" json:"computedAt"`
}

// derive recomputes every derived field from the ledger aggregates.
// reorderLevel feeds the status classification.
func (s *ItemStockSummary) derive(reorderLevel int64) {
	s.CurrentStock = s.TotalPurchased - s.TotalSold

	if s.TotalPurchased > 0 {
		s.AverageCostPrice = s.TotalPurchaseCost.Div(types.MoneyFromInt(s.TotalPurchased))
	} else {
		// No purchase history: average cost is zero, never a division by zero.
		s.AverageCostPrice = types.ZeroMoney()
	}

	s.TotalCostValue = s.AverageCostPrice.Mul(types.MoneyFromInt(s.CurrentStock))

	// Profit attribution uses the all-time weighted average cost, not a
	// point-in-time snapshot: sum((price - avg) * qty) = revenue - avg * sold.
	s.TotalProfit = s.TotalSaleRevenue.Sub(s.AverageCostPrice.Mul(types.MoneyFromInt(s.TotalSold)))

	if s.TotalSaleRevenue.IsPositive() {
		s.ProfitMargin = s.TotalProfit.Div(s.TotalSaleRevenue).Mul(types.MoneyFromInt(100))
	} else {
		s.ProfitMargin = types.ZeroMoney()
	}

	s.Status = ClassifyStock(s.CurrentStock, reorderLevel)
	s.ComputedAt = time.Now().UTC()
}

// Equal reports whether two summaries carry the same figures.
// Timestamps are ignored; used by the drift diagnostic.
func (s *ItemStockSummary) Equal(o *ItemStockSummary) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.ItemID == o.ItemID &&
		s.TotalPurchased == o.TotalPurchased &&
		s.TotalSold == o.TotalSold &&
		s.CurrentStock == o.CurrentStock &&
		s.TotalPurchaseCost.Equal(o.TotalPurchaseCost) &&
		s.TotalSaleRevenue.Equal(o.TotalSaleRevenue) &&
		s.AverageCostPrice.Equal(o.AverageCostPrice) &&
		s.TotalProfit.Equal(o.TotalProfit)
}

// Warning reports a data-quality issue found while reconciling.
type Warning struct {
	Code     string  `json:"code"`
	ItemName string  `json:"itemName,omitempty"`
	ItemIDs  []id.ID `json:"itemIds,omitempty"`
	Message  string  `json:"message"`
}
