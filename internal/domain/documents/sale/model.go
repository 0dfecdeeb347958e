// Package sale provides the sale document: stock sold to a customer, one or
// more line items per document.
package sale

import (
	"context"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/entity"
	"turbostock/internal/core/id"
	"turbostock/internal/core/types"
	"turbostock/internal/domain/stock"
)

// Sale represents a customer transaction.
type Sale struct {
	entity.Document

	CustomerID id.ID `db:"customer_id" json:"customerId"`

	// TotalAmount is the sum of line totals (recalculated from lines)
	TotalAmount types.Money `db:"total_amount" json:"totalAmount"`

	// Table part: sold stock
	Lines []Line `db:"-" json:"lines"`
}

// Line is one row within a sale.
type Line struct {
	LineID id.ID `db:"line_id" json:"lineId"`
	LineNo int   `db:"line_no" json:"lineNo"`

	// ItemID optionally links a catalog item; ItemName is the fallback key.
	ItemID   *id.ID `db:"item_id" json:"itemId,omitempty"`
	ItemName string `db:"item_name" json:"itemName"`

	Quantity     int64       `db:"quantity" json:"quantity"`
	PricePerUnit types.Money `db:"price_per_unit" json:"pricePerUnit"`
	TotalPrice   types.Money `db:"total_price" json:"totalPrice"`
}

// New creates a sale document for a customer.
func New(customerID id.ID) *Sale {
	return &Sale{
		Document:    entity.NewDocument(),
		CustomerID:  customerID,
		TotalAmount: types.ZeroMoney(),
		Lines:       make([]Line, 0),
	}
}

// AddLine appends a line and recalculates totals.
func (s *Sale) AddLine(itemID *id.ID, itemName string, quantity int64, pricePerUnit types.Money) {
	line := Line{
		LineID:       id.New(),
		LineNo:       len(s.Lines) + 1,
		ItemID:       itemID,
		ItemName:     itemName,
		Quantity:     quantity,
		PricePerUnit: pricePerUnit,
		TotalPrice:   pricePerUnit.Mul(types.MoneyFromInt(quantity)),
	}
	s.Lines = append(s.Lines, line)
	s.RecalculateTotals()
}

// RecalculateTotals updates document totals from lines.
func (s *Sale) RecalculateTotals() {
	s.TotalAmount = types.ZeroMoney()
	for i := range s.Lines {
		s.Lines[i].TotalPrice = s.Lines[i].PricePerUnit.Mul(types.MoneyFromInt(s.Lines[i].Quantity))
		s.TotalAmount = s.TotalAmount.Add(s.Lines[i].TotalPrice)
	}
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if err := s.Document.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(s.CustomerID) {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customerId")
	}

	if len(s.Lines) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "lines")
	}

	for i, line := range s.Lines {
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
		if line.PricePerUnit.IsNegative() {
			return apperror.NewValidation("price per unit cannot be negative").
				WithDetail("field", "lines").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}

// StockLines converts the document into the flattened ledger view consumed
// by the stock engine.
func (s *Sale) StockLines() []stock.SaleLine {
	lines := make([]stock.SaleLine, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, stock.SaleLine{
			SaleID:       s.ID,
			SaleNumber:   s.Number,
			CustomerID:   s.CustomerID,
			Date:         s.Date,
			ItemID:       l.ItemID,
			ItemName:     l.ItemName,
			Quantity:     l.Quantity,
			PricePerUnit: l.PricePerUnit,
			TotalPrice:   l.TotalPrice,
		})
	}
	return lines
}
