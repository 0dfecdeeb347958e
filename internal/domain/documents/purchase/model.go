// Package purchase provides the purchase document: stock acquired from a
// supplier, one or more line items per document.
package purchase

import (
	"context"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/entity"
	"turbostock/internal/core/id"
	"turbostock/internal/core/types"
	"turbostock/internal/domain/stock"
)

// Purchase represents a supplier transaction.
type Purchase struct {
	entity.Document

	SupplierID id.ID `db:"supplier_id" json:"supplierId"`

	// TotalAmount is the sum of line totals (recalculated from lines)
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Table part: acquired stock
	Lines []Line `db:"-" json:"lines"`
}

// Line is one row within a purchase.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	// ItemID optionally links a catalog item. Nil means a free-text,
	// unlinked purchase; ItemName is then the only matching key.
	ItemID *id.ID `db:"item_id" json:"itemId,omitempty"`

	// ItemName is free text, also the fallback matching key for linked lines
	ItemName string `db:"item_name" json:"itemName"`

	Quantity    int64       `db:"quantity" json:"quantity"`
	CostPerUnit types.Money `db:"cost_per_unit" json:"costPerUnit"`
	TotalCost   types.Money `db:"total_cost" json:"totalCost"`
}

// New creates a purchase document for a supplier.
func New(supplierID id.ID) *Purchase {
	return &Purchase{
		Document:    entity.NewDocument(),
		SupplierID:  supplierID,
		TotalAmount: types.ZeroMoney(),
		Lines:       make([]Line, 0),
	}
}

// AddLine appends a line and recalculates totals.
func (p *Purchase) AddLine(itemID *id.ID, itemName string, quantity int64, costPerUnit types.Money) {
	line := Line{
		LineID:      id.New(),
		LineNo:      len(p.Lines) + 1,
		ItemID:      itemID,
		ItemName:    itemName,
		Quantity:    quantity,
		CostPerUnit: costPerUnit,
		TotalCost:   costPerUnit.Mul(types.MoneyFromInt(quantity)),
	}
	p.Lines = append(p.Lines, line)
	p.RecalculateTotals()
}

// RecalculateTotals updates document totals from lines.
func (p *Purchase) RecalculateTotals() {
	p.TotalAmount = types.ZeroMoney()
	for i := range p.Lines {
		p.Lines[i].TotalCost = p.Lines[i].CostPerUnit.Mul(types.MoneyFromInt(p.Lines[i].Quantity))
		p.TotalAmount = p.TotalAmount.Add(p.Lines[i].TotalCost)
	}
}

// Validate implements entity.Validatable.
func (p *Purchase) Validate(ctx context.Context) error {
	if err := p.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.SupplierID) {
		return apperror.NewValidation("supplier is required").
			WithDetail("field", "supplierId")
	}

	if len(p.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range p.Lines {
		if line.ItemName == "" {
			return apperror.NewValidation("item name is required").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
		if line.CostPerUnit.IsNegative() {
			return apperror.NewValidation("cost per unit cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// StockLines converts the document into the flattened ledger view consumed
// by the stock engine.
func (p *Purchase) StockLines() []stock.PurchaseLine {
	lines := make([]stock.PurchaseLine, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, stock.PurchaseLine{
			PurchaseID:     p.ID,
			PurchaseNumber: p.Number,
			SupplierID:     p.SupplierID,
			Date:           p.Date,
			ItemID:         l.ItemID,
			ItemName:       l.ItemName,
			Quantity:       l.Quantity,
			CostPerUnit:    l.CostPerUnit,
			TotalCost:      l.TotalCost,
		})
	}
	return lines
}
