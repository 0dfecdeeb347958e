package stock

import (
	"strings"

	"turbostock/internal/core/id"
	"turbostock/internal/domain/catalogs/item"
)

// Line-to-item matching is correctness-critical and must be identical for
// every consumer (reconciliation, availability, analysis, debug). All of them
// go through MatchesItem / ResolveLineToItems; the predicate is never
// duplicated at call sites.

// NormalizeName canonicalizes a free-text item name for matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// MatchesItem reports whether a ledger line belongs to the catalog item:
// either the line links the item by id, or its free-text name equals the
// item name case-insensitively. A line is evaluated once per item, so a line
// matched by id is never additionally counted through the name rule.
func MatchesItem(lineItemID *id.ID, lineName string, it *item.Item) bool {
	if lineItemID != nil && *lineItemID == it.ID {
		return true
	}
	return NormalizeName(lineName) == NormalizeName(it.Name)
}

// ResolveLineToItems returns every catalog item the line resolves to.
// More than one result means near-duplicate catalog names; consumers merge
// across matches and surface an AMBIGUOUS_MATCH warning.
func ResolveLineToItems(lineItemID *id.ID, lineName string, items []*item.Item) []*item.Item {
	var matched []*item.Item
	for _, it := range items {
		if MatchesItem(lineItemID, lineName, it) {
			matched = append(matched, it)
		}
	}
	return matched
}
