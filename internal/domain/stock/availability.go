package stock

import (
	"context"
	"sort"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/types"
	"turbostock/internal/domain/pricing"
	"turbostock/pkg/logger"
)

// Availability answers "how much of item X can be sold right now" for the
// sale-entry flow. It is keyed by name, not catalog id: ad-hoc purchases
// never added to the formal catalog must still be sellable, so grouping runs
// on the lowercased free-text name.
type Availability struct {
	ledger LedgerReader
	prices pricing.Policy
}

// NewAvailability creates the availability resolver.
func NewAvailability(ledger LedgerReader, prices pricing.Policy) *Availability {
	return &Availability{ledger: ledger, prices: prices}
}

// AvailableItem is one sellable name with its remaining stock.
type AvailableItem struct {
	// ItemName is the display name (first spelling seen in the ledger)
	ItemName string `json:"itemName"`

	AvailableStock     int64       `json:"availableStock"`
	AverageCostPrice   types.Money `json:"averageCostPrice"`
	SuggestedSalePrice types.Money `json:"suggestedSalePrice"`
}

// Items returns every name with positive available stock, sorted by name.
// This is what the sale-entry form offers for selection.
func (a *Availability) Items(ctx context.Context) ([]AvailableItem, error) {
	all, err := a.resolve(ctx)
	if err != nil {
		return nil, err
	}

	available := all[:0]
	for _, it := range all {
		if it.AvailableStock > 0 {
			available = append(available, it)
		}
	}
	return available, nil
}

// AllItems returns the same computation without the positive-stock filter.
// Zero and negative rows stay queryable for diagnostics.
func (a *Availability) AllItems(ctx context.Context) ([]AvailableItem, error) {
	return a.resolve(ctx)
}

// CheckResult is the outcome of a pre-sale stock check.
type CheckResult struct {
	ItemName       string `json:"itemName"`
	Requested      int64  `json:"requested"`
	AvailableStock int64  `json:"availableStock"`
	Sufficient     bool   `json:"sufficient"`

	// Shortfall is how many units the request exceeds availability by
	// (0 when sufficient).
	Shortfall int64 `json:"shortfall"`
}

// CheckItemStock reports whether requested units of the named item can be
// sold. Used to block a sale before it reaches storage. The check is a
// read of derived state: two concurrent sales can both pass and oversell;
// the resulting negative stock is surfaced by reconciliation, not hidden.
func (a *Availability) CheckItemStock(ctx context.Context, itemName string, requested int64) (*CheckResult, error) {
	if requested <= 0 {
		return nil, apperror.NewValidation("requested quantity must be positive").
			WithDetail("requested", requested)
	}

	all, err := a.resolve(ctx)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{
		ItemName:  itemName,
		Requested: requested,
	}

	key := NormalizeName(itemName)
	for _, it := range all {
		if NormalizeName(it.ItemName) == key {
			result.AvailableStock = it.AvailableStock
			break
		}
	}

	result.Sufficient = requested <= result.AvailableStock
	if !result.Sufficient {
		result.Shortfall = requested - result.AvailableStock
		logger.Debug(ctx, "stock check failed",
			"item_name", itemName,
			"requested", requested,
			"available", result.AvailableStock,
		)
	}

	return result, nil
}

// resolve groups purchase lines by normalized name, subtracts sales of the
// same name, and prices the remainder. Names that appear only in sales
// contribute nothing: without purchase history there is no stock to offer.
func (a *Availability) resolve(ctx context.Context) ([]AvailableItem, error) {
	purchases, sales, err := fetchLedgers(ctx, a.ledger)
	if err != nil {
		return nil, err
	}

	type group struct {
		displayName string
		purchased   int64
		cost        types.Money
		sold        int64
	}
	groups := make(map[string]*group)
	var order []string

	for _, line := range purchases {
		key := NormalizeName(line.ItemName)
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &group{displayName: line.ItemName, cost: types.ZeroMoney()}
			groups[key] = g
			order = append(order, key)
		}
		g.purchased += line.Quantity
		g.cost = g.cost.Add(line.TotalCost)
	}

	for _, line := range sales {
		if g, ok := groups[NormalizeName(line.ItemName)]; ok {
			g.sold += line.Quantity
		}
	}

	items := make([]AvailableItem, 0, len(order))
	for _, key := range order {
		g := groups[key]

		avgCost := types.ZeroMoney()
		if g.purchased > 0 {
			avgCost = g.cost.Div(types.MoneyFromInt(g.purchased))
		}

		suggested, err := a.prices.SuggestedPrice(avgCost)
		if err != nil {
			return nil, apperror.NewInternal(err).WithDetail("item_name", g.displayName)
		}

		items = append(items, AvailableItem{
			ItemName:           g.displayName,
			AvailableStock:     g.purchased - g.sold,
			AverageCostPrice:   avgCost,
			SuggestedSalePrice: suggested,
		})
	}

	sort.Slice(items, func(i, j int) bool {
		return NormalizeName(items[i].ItemName) < NormalizeName(items[j].ItemName)
	})
	return items, nil
}
