package stock

import (
	"context"
	"sort"
	"time"

	"turbostock/internal/core/id"
	"turbostock/internal/core/types"
)

// ProfitAnalysis is the transaction-level breakdown behind one item's
// summary figures. Read-only and side-effect free.
type ProfitAnalysis struct {
	Summary *ItemStockSummary `json:"summary"`

	Purchases []PurchaseTransaction `json:"purchases"`
	Sales     []SaleTransaction     `json:"sales"`
}

// PurchaseTransaction is one matching purchase line with its document context.
type PurchaseTransaction struct {
	PurchaseID     id.ID       `json:"purchaseId"`
	PurchaseNumber string      `json:"purchaseNumber"`
	SupplierID     id.ID       `json:"supplierId"`
	SupplierName   string      `json:"supplierName,omitempty"`
	Date           time.Time   `json:"date"`
	Quantity       int64       `json:"quantity"`
	CostPerUnit    types.Money `json:"costPerUnit"`
	TotalCost      types.Money `json:"totalCost"`
}

// SaleTransaction is one matching sale line with its per-transaction profit.
type SaleTransaction struct {
	SaleID       id.ID       `json:"saleId"`
	SaleNumber   string      `json:"saleNumber"`
	CustomerID   id.ID       `json:"customerId"`
	CustomerName string      `json:"customerName,omitempty"`
	Date         time.Time   `json:"date"`
	Quantity     int64       `json:"quantity"`
	PricePerUnit types.Money `json:"pricePerUnit"`
	TotalPrice   types.Money `json:"totalPrice"`

	// Profit is (price - averageCost) * quantity using the same all-time
	// weighted average as the summary, so the rows sum to Summary.TotalProfit.
	Profit types.Money `json:"profit"`
}

// ItemProfitAnalysis builds the summary plus both transaction lists for one
// catalog item, ordered by business date.
func (r *Reconciler) ItemProfitAnalysis(ctx context.Context, itemID id.ID) (*ProfitAnalysis, error) {
	it, err := r.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	purchases, sales, err := r.fetchLedgers(ctx)
	if err != nil {
		return nil, err
	}

	summary := Summarize(it, purchases, sales)
	analysis := &ProfitAnalysis{Summary: summary}

	for _, line := range purchases {
		if !MatchesItem(line.ItemID, line.ItemName, it) {
			continue
		}
		analysis.Purchases = append(analysis.Purchases, PurchaseTransaction{
			PurchaseID:     line.PurchaseID,
			PurchaseNumber: line.PurchaseNumber,
			SupplierID:     line.SupplierID,
			SupplierName:   line.SupplierName,
			Date:           line.Date,
			Quantity:       line.Quantity,
			CostPerUnit:    line.CostPerUnit,
			TotalCost:      line.TotalCost,
		})
	}

	for _, line := range sales {
		if !MatchesItem(line.ItemID, line.ItemName, it) {
			continue
		}
		profit := line.PricePerUnit.Sub(summary.AverageCostPrice).
			Mul(types.MoneyFromInt(line.Quantity))
		analysis.Sales = append(analysis.Sales, SaleTransaction{
			SaleID:       line.SaleID,
			SaleNumber:   line.SaleNumber,
			CustomerID:   line.CustomerID,
			CustomerName: line.CustomerName,
			Date:         line.Date,
			Quantity:     line.Quantity,
			PricePerUnit: line.PricePerUnit,
			TotalPrice:   line.TotalPrice,
			Profit:       profit,
		})
	}

	sort.Slice(analysis.Purchases, func(i, j int) bool {
		return analysis.Purchases[i].Date.Before(analysis.Purchases[j].Date)
	})
	sort.Slice(analysis.Sales, func(i, j int) bool {
		return analysis.Sales[i].Date.Before(analysis.Sales[j].Date)
	})

	return analysis, nil
}
