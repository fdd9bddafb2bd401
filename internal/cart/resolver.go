// Package cart implements the pricing and lifecycle engine for shopping carts:
// field resolution across the planned/actual snapshots, the status state
// machine, and the status-dependent aggregate totals.
package cart

import "github.com/harrandt/pricewise/internal/model"

// Catalog is the read side of the vault that resolution needs. The vault
// aggregate satisfies it.
type Catalog interface {
	// LookupPrice returns the current catalog price and unit for an item at a
	// store. ok is false when the item or store has no catalog entry.
	LookupPrice(itemID, store string) (price float64, unit string, ok bool)
}

// ResolvePrice returns the price to display and sum for a cart item under the
// given cart status.
//
// Precedence, first match wins: shopping-only inline data; then the snapshot
// the status prefers (planned while planning, actual while shopping or
// completed); then a fresh catalog lookup; then zero. Shopping is the only
// status where the two snapshots may legitimately disagree, so it checks
// actual before falling back through planned and the catalog.
func ResolvePrice(ci *model.CartItem, cat Catalog, status model.CartStatus) float64 {
	if ci.IsShoppingOnlyItem {
		return ci.ShoppingOnlyPrice
	}

	switch status {
	case model.CartStatusPlanning:
		if ci.PlannedPrice != nil {
			return *ci.PlannedPrice
		}
		if price, _, ok := lookup(cat, ci.ItemID, ci.PlannedStore); ok {
			return price
		}
		return 0

	case model.CartStatusShopping:
		if ci.ActualPrice != nil {
			return *ci.ActualPrice
		}
		if ci.PlannedPrice != nil {
			return *ci.PlannedPrice
		}
		if price, _, ok := lookup(cat, ci.ItemID, shoppingStore(ci)); ok {
			return price
		}
		return 0

	case model.CartStatusCompleted:
		if ci.ActualPrice != nil {
			return *ci.ActualPrice
		}
		if ci.PlannedPrice != nil {
			return *ci.PlannedPrice
		}
		return 0
	}
	return 0
}

// ResolveStore returns the store name that applies to a cart item under the
// given cart status.
func ResolveStore(ci *model.CartItem, status model.CartStatus) string {
	if ci.IsShoppingOnlyItem {
		return ci.ShoppingOnlyStore
	}

	switch status {
	case model.CartStatusPlanning:
		return ci.PlannedStore
	case model.CartStatusShopping, model.CartStatusCompleted:
		if ci.ActualStore != nil {
			return *ci.ActualStore
		}
		return ci.PlannedStore
	}
	return ci.PlannedStore
}

// ResolveUnit returns the unit string ("kg", "pcs", ...) that applies to a
// cart item under the given cart status.
func ResolveUnit(ci *model.CartItem, cat Catalog, status model.CartStatus) string {
	if ci.IsShoppingOnlyItem {
		return ci.ShoppingOnlyUnit
	}

	switch status {
	case model.CartStatusPlanning:
		if ci.PlannedUnit != nil {
			return *ci.PlannedUnit
		}
		if _, unit, ok := lookup(cat, ci.ItemID, ci.PlannedStore); ok {
			return unit
		}
		return ""

	case model.CartStatusShopping:
		if ci.ActualUnit != nil {
			return *ci.ActualUnit
		}
		if ci.PlannedUnit != nil {
			return *ci.PlannedUnit
		}
		if _, unit, ok := lookup(cat, ci.ItemID, shoppingStore(ci)); ok {
			return unit
		}
		return ""

	case model.CartStatusCompleted:
		if ci.ActualUnit != nil {
			return *ci.ActualUnit
		}
		if ci.PlannedUnit != nil {
			return *ci.PlannedUnit
		}
		return ""
	}
	return ""
}

// ResolveQuantity returns the quantity for a cart item. Quantity never
// diverges between snapshots: the planning-side Quantity field is
// authoritative in every status, ActualQuantity is only a kept-in-sync
// mirror.
func ResolveQuantity(ci *model.CartItem) float64 {
	return ci.Quantity
}

// TotalPrice is the resolved line total: resolved price times quantity.
func TotalPrice(ci *model.CartItem, cat Catalog, status model.CartStatus) float64 {
	return ResolvePrice(ci, cat, status) * ResolveQuantity(ci)
}

// shoppingStore is the lookup key while shopping: the actual store when one
// was recorded, otherwise the planned store.
func shoppingStore(ci *model.CartItem) string {
	if ci.ActualStore != nil {
		return *ci.ActualStore
	}
	return ci.PlannedStore
}

// lookup tolerates a nil catalog so that historical carts resolve from their
// snapshots alone.
func lookup(cat Catalog, itemID, store string) (float64, string, bool) {
	if cat == nil || itemID == "" {
		return 0, "", false
	}
	return cat.LookupPrice(itemID, store)
}
