package model

import "time"

// CartItem is one line in a cart. It carries two snapshots of pricing data:
// the planned snapshot captured when the item entered the cart (or when
// shopping started), and the actual snapshot captured when the item was
// fulfilled or edited at the store. Which snapshot wins depends on the owning
// cart's status; see the cart package resolver.
type CartItem struct {
	AddedAt time.Time
	ID      string

	// ItemID links back to a vault item. For shopping-only items it is a
	// synthetic ID with no vault counterpart.
	ItemID string

	// Planning snapshot. Quantity is the authoritative quantity in every
	// status; PlannedPrice and PlannedUnit are captured at most once and only
	// overwritten by an explicit change-store operation.
	PlannedStore string
	PlannedPrice *float64
	PlannedUnit  *string
	Quantity     float64

	// Actual snapshot, filled in during or after shopping. ActualQuantity is
	// a legacy mirror of Quantity and is re-synced after every mutation; it
	// never drives resolution.
	ActualStore    *string
	ActualPrice    *float64
	ActualQuantity *float64
	ActualUnit     *string

	IsFulfilled             bool
	IsSkippedDuringShopping bool
	WasEditedDuringShopping bool
	AddedDuringShopping     bool

	// Shopping-only items are ad hoc entries with no vault counterpart; all
	// of their display data lives inline and ignores cart status entirely.
	IsShoppingOnlyItem   bool
	ShoppingOnlyName     string
	ShoppingOnlyStore    string
	ShoppingOnlyPrice    float64
	ShoppingOnlyUnit     string
	ShoppingOnlyCategory string

	// OriginalPlanningQuantity is captured once when the quantity is first
	// edited mid-shopping and consumed exactly once by a restore.
	OriginalPlanningQuantity *float64
}

// SyncActualQuantity re-mirrors Quantity into ActualQuantity when the actual
// snapshot exists. Quantity stays the single source of truth for "how many".
func (ci *CartItem) SyncActualQuantity() {
	if ci.ActualQuantity != nil {
		q := ci.Quantity
		ci.ActualQuantity = &q
	}
}

// HasActualPrice reports whether an actual price snapshot was captured.
func (ci *CartItem) HasActualPrice() bool {
	return ci.ActualPrice != nil
}

// HasPlannedPrice reports whether the planned price snapshot was captured.
func (ci *CartItem) HasPlannedPrice() bool {
	return ci.PlannedPrice != nil
}
