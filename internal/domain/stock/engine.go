package stock

import (
	"fmt"
	"sort"

	"turbostock/internal/core/apperror"
	"turbostock/internal/core/types"
	"turbostock/internal/domain/catalogs/item"
)

// Summarize replays both ledgers for one catalog item and returns its
// summary. Pure function: no side effects, no I/O. Missing optional fields
// on lines default to zero; only a nil item is a programming error.
func Summarize(it *item.Item, purchases []PurchaseLine, sales []SaleLine) *ItemStockSummary {
	s := &ItemStockSummary{
		ItemID:            it.ID,
		ItemCode:          it.Code,
		ItemName:          it.Name,
		TotalPurchaseCost: types.ZeroMoney(),
		TotalSaleRevenue:  types.ZeroMoney(),
	}

	for _, line := range purchases {
		if !MatchesItem(line.ItemID, line.ItemName, it) {
			continue
		}
		s.TotalPurchased += line.Quantity
		s.TotalPurchaseCost = s.TotalPurchaseCost.Add(line.TotalCost)
	}

	for _, line := range sales {
		if !MatchesItem(line.ItemID, line.ItemName, it) {
			continue
		}
		s.TotalSold += line.Quantity
		s.TotalSaleRevenue = s.TotalSaleRevenue.Add(line.TotalPrice)
	}

	s.derive(it.ReorderLevel)
	return s
}

// SummarizeAll computes one summary per catalog item, sorted by item name.
// This is the canonical stock overview.
func SummarizeAll(items []*item.Item, purchases []PurchaseLine, sales []SaleLine) []*ItemStockSummary {
	summaries := make([]*ItemStockSummary, 0, len(items))
	for _, it := range items {
		summaries = append(summaries, Summarize(it, purchases, sales))
	}

	sort.Slice(summaries, func(i, j int) bool {
		return NormalizeName(summaries[i].ItemName) < NormalizeName(summaries[j].ItemName)
	})

	return summaries
}

// CollectWarnings scans the catalog and ledgers for data-quality issues:
// near-duplicate catalog names and unlinked lines resolving to more than one
// item. Warnings never abort reconciliation; name-keyed consumers merge
// across ambiguous matches.
func CollectWarnings(items []*item.Item, purchases []PurchaseLine, sales []SaleLine) []Warning {
	var warnings []Warning

	// Near-duplicate catalog names make every name-keyed lookup ambiguous.
	byName := make(map[string][]*item.Item)
	for _, it := range items {
		key := NormalizeName(it.Name)
		byName[key] = append(byName[key], it)
	}
	dupNames := make(map[string]bool)
	for key, group := range byName {
		if len(group) < 2 {
			continue
		}
		dupNames[key] = true
		w := Warning{
			Code:     apperror.CodeAmbiguousMatch,
			ItemName: group[0].Name,
			Message:  fmt.Sprintf("%d catalog items share the name %q", len(group), group[0].Name),
		}
		for _, it := range group {
			w.ItemIDs = append(w.ItemIDs, it.ID)
		}
		warnings = append(warnings, w)
	}

	// Unlinked lines whose free-text name hits a duplicated catalog name.
	seen := make(map[string]bool)
	checkLine := func(lineName string) {
		key := NormalizeName(lineName)
		if !dupNames[key] || seen[key] {
			return
		}
		seen[key] = true
		warnings = append(warnings, Warning{
			Code:     apperror.CodeAmbiguousMatch,
			ItemName: lineName,
			Message:  fmt.Sprintf("ledger lines named %q merge into multiple catalog items", lineName),
		})
	}
	for _, line := range purchases {
		if line.ItemID == nil {
			checkLine(line.ItemName)
		}
	}
	for _, line := range sales {
		if line.ItemID == nil {
			checkLine(line.ItemName)
		}
	}

	return warnings
}
