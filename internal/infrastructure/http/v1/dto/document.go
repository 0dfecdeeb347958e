package dto

import "time"

// DocumentLineRequest is one line of a purchase or sale document.
// ItemID is optional; ItemName is the free-text key when it is absent.
type DocumentLineRequest struct {
	ItemID   string `json:"itemId"`
	ItemName string `json:"itemName" binding:"required"`
	Quantity int64  `json:"quantity" binding:"required"`

	// PricePerUnit carries the unit cost for purchases and the unit sale
	// price for sales, as a decimal string ("125.50").
	PricePerUnit string `json:"pricePerUnit" binding:"required"`
}

// CreatePurchaseRequest creates a purchase document.
type CreatePurchaseRequest struct {
	SupplierID string                `json:"supplierId" binding:"required"`
	Date       *time.Time            `json:"date"`
	Comment    string                `json:"comment"`
	Lines      []DocumentLineRequest `json:"lines" binding:"required"`
}

// UpdatePurchaseRequest updates a purchase document.
type UpdatePurchaseRequest struct {
	SupplierID string                `json:"supplierId" binding:"required"`
	Date       *time.Time            `json:"date"`
	Comment    string                `json:"comment"`
	Version    int                   `json:"version"`
	Lines      []DocumentLineRequest `json:"lines" binding:"required"`
}

// CreateSaleRequest creates a sale document.
type CreateSaleRequest struct {
	CustomerID string                `json:"customerId" binding:"required"`
	Date       *time.Time            `json:"date"`
	Comment    string                `json:"comment"`
	Lines      []DocumentLineRequest `json:"lines" binding:"required"`
}

// UpdateSaleRequest updates a sale document.
type UpdateSaleRequest struct {
	CustomerID string                `json:"customerId" binding:"required"`
	Date       *time.Time            `json:"date"`
	Comment    string                `json:"comment"`
	Version    int                   `json:"version"`
	Lines      []DocumentLineRequest `json:"lines" binding:"required"`
}

// DocumentListQuery narrows document listing.
type DocumentListQuery struct {
	ListQuery
	CounterpartyID string     `form:"counterpartyId"`
	DateFrom       *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo         *time.Time `form:"dateTo" time_format:"2006-01-02"`
}

// StockCheckQuery asks whether a quantity of an item can be sold.
type StockCheckQuery struct {
	ItemName string `form:"itemName" binding:"required"`
	Quantity int64  `form:"quantity" binding:"required"`
}
