// Package memory provides map-backed implementations of every repository
// interface, used by the unit tests. Behavior mirrors the postgres package,
// including soft-delete visibility.
package memory

import (
	"sync"

	"turbostock/internal/core/id"
	"turbostock/internal/domain/audit"
	"turbostock/internal/domain/catalogs/customer"
	"turbostock/internal/domain/catalogs/item"
	"turbostock/internal/domain/catalogs/supplier"
	"turbostock/internal/domain/documents/purchase"
	"turbostock/internal/domain/documents/sale"
	"turbostock/internal/domain/stock"
)

// Store holds every in-memory collection behind one lock.
type Store struct {
	mu sync.RWMutex

	items     map[id.ID]*item.Item
	suppliers map[id.ID]*supplier.Supplier
	customers map[id.ID]*customer.Customer
	purchases map[id.ID]*purchase.Purchase
	sales     map[id.ID]*sale.Sale
	summaries map[id.ID]*stock.ItemStockSummary
	auditLog  []audit.Entry
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		items:     make(map[id.ID]*item.Item),
		suppliers: make(map[id.ID]*supplier.Supplier),
		customers: make(map[id.ID]*customer.Customer),
		purchases: make(map[id.ID]*purchase.Purchase),
		sales:     make(map[id.ID]*sale.Sale),
		summaries: make(map[id.ID]*stock.ItemStockSummary),
	}
}

// Items returns the item repository view of the store.
func (s *Store) Items() *ItemRepository { return &ItemRepository{store: s} }

// Suppliers returns the supplier repository view of the store.
func (s *Store) Suppliers() *SupplierRepository { return &SupplierRepository{store: s} }

// Customers returns the customer repository view of the store.
func (s *Store) Customers() *CustomerRepository { return &CustomerRepository{store: s} }

// Purchases returns the purchase repository view of the store.
func (s *Store) Purchases() *PurchaseRepository { return &PurchaseRepository{store: s} }

// Sales returns the sale repository view of the store.
func (s *Store) Sales() *SaleRepository { return &SaleRepository{store: s} }

// Ledger returns the combined ledger reader over purchases and sales.
func (s *Store) Ledger() *LedgerReader { return &LedgerReader{store: s} }

// Summaries returns the stock summary cache view of the store.
func (s *Store) Summaries() *SummaryStore { return &SummaryStore{store: s} }

// ChangeLog returns the audit change log view of the store.
func (s *Store) ChangeLog() *ChangeLog { return &ChangeLog{store: s} }
