// Package stock derives per-item stock and profit figures from the purchase
// and sale ledgers. Every figure is a projection over the two ledgers: the
// cached copy exists for fast list reads and drift diagnostics, never as a
// source of truth.
package stock

import (
	"context"
	"time"

	"turbostock/internal/core/id"
	"turbostock/internal/core/types"
	"turbostock/internal/domain/catalogs/item"
)

// PurchaseLine is the flattened ledger view of one purchase line item.
type PurchaseLine struct {
	PurchaseID     id.ID       `db:"purchase_id" json:"purchaseId"`
	PurchaseNumber string      `db:"purchase_number" json:"purchaseNumber"`
	SupplierID     id.ID       `db:"supplier_id" json:"supplierId"`
	SupplierName   string      `db:"supplier_name" json:"supplierName,omitempty"`
	Date           time.Time   `db:"date" json:"date"`
	ItemID         *id.ID      `db:"item_id" json:"itemId,omitempty"`
	ItemName       string      `db:"item_name" json:"itemName"`
	Quantity       int64       `db:"quantity" json:"quantity"`
	CostPerUnit    types.Money `db:"cost_per_unit" json:"costPerUnit"`
	TotalCost      types.Money `db:"total_cost" json:"totalCost"`
}

// SaleLine is the flattened ledger view of one sale line item.
type SaleLine struct {
	SaleID       id.ID       `db:"sale_id" json:"saleId"`
	SaleNumber   string      `db:"sale_number" json:"saleNumber"`
	CustomerID   id.ID       `db:"customer_id" json:"customerId"`
	CustomerName string      `db:"customer_name" json:"customerName,omitempty"`
	Date         time.Time   `db:"date" json:"date"`
	ItemID       *id.ID      `db:"item_id" json:"itemId,omitempty"`
	ItemName     string      `db:"item_name" json:"itemName"`
	Quantity     int64       `db:"quantity" json:"quantity"`
	PricePerUnit types.Money `db:"price_per_unit" json:"pricePerUnit"`
	TotalPrice   types.Money `db:"total_price" json:"totalPrice"`
}

// LedgerReader fetches the full line-item view of both ledgers.
// Soft-deleted documents are excluded at the reader level.
type LedgerReader interface {
	PurchaseLines(ctx context.Context) ([]PurchaseLine, error)
	SaleLines(ctx context.Context) ([]SaleLine, error)
}

// ItemReader supplies the catalog items the engine reconciles against.
// item.Repository satisfies it.
type ItemReader interface {
	ListActive(ctx context.Context) ([]*item.Item, error)
	GetByID(ctx context.Context, itemID id.ID) (*item.Item, error)
}

// SummaryStore persists the cached per-item summaries.
// The cache is strictly subordinate to recomputation: the repair procedures
// may clear or overwrite it at any time without data loss.
type SummaryStore interface {
	// Get returns the cached summary, or a NOT_FOUND apperror when absent.
	Get(ctx context.Context, itemID id.ID) (*ItemStockSummary, error)
	Upsert(ctx context.Context, s *ItemStockSummary) error
	Delete(ctx context.Context, itemID id.ID) error

	// Clear removes every cached summary. Source ledgers are never touched.
	Clear(ctx context.Context) error
}
