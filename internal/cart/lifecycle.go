package cart

import (
	"log/slog"
	"time"

	"github.com/harrandt/pricewise/internal/model"
)

// The state machine: Planning -> Shopping -> Completed, with exactly one
// backward step (Shopping -> Planning) and a reopen (Completed -> Shopping).
// Every transition is a no-op from any other source state so that retried UI
// actions stay harmless. Each transition finishes its full snapshot sweep
// before returning, so a concurrent reader never observes a half-captured
// cart.

// StartShopping moves a planning cart into the shopping state and captures
// the planned snapshot of every item that is still missing one. Returns
// false without changes if the cart is not in Planning.
func StartShopping(c *model.Cart, cat Catalog) bool {
	if c.Status != model.CartStatusPlanning {
		return false
	}

	for _, ci := range c.Items {
		capturePlannedData(ci, cat)
	}

	now := time.Now()
	c.Status = model.CartStatusShopping
	c.StartedAt = &now
	slog.Debug("cart entered shopping", "cart_id", c.ID, "items", len(c.Items))
	return true
}

// CompleteShopping finishes the trip. Every unfulfilled, non-skipped item
// gets an actual snapshot defaulted from its planned data so history has a
// concrete number even for untouched items. Calling it on an already
// completed cart changes nothing, including CompletedAt.
func CompleteShopping(c *model.Cart, cat Catalog) bool {
	if c.Status != model.CartStatusShopping {
		return false
	}

	for _, ci := range c.Items {
		if ci.IsFulfilled || ci.IsSkippedDuringShopping {
			continue
		}
		captureActualData(ci, cat)
	}

	now := time.Now()
	c.Status = model.CartStatusCompleted
	c.CompletedAt = &now
	slog.Debug("cart completed", "cart_id", c.ID, "items", len(c.Items))
	return true
}

// ReturnToPlanning steps a shopping cart back to planning. Actual snapshots
// are preserved for a possible re-entry into shopping.
func ReturnToPlanning(c *model.Cart) bool {
	if c.Status != model.CartStatusShopping {
		return false
	}
	c.Status = model.CartStatusPlanning
	return true
}

// Reopen puts a completed cart back into shopping. CompletedAt is kept until
// the cart completes again, which overwrites it.
func Reopen(c *model.Cart) bool {
	if c.Status != model.CartStatusCompleted {
		return false
	}
	c.Status = model.CartStatusShopping
	return true
}

// ToggleFulfillment flips an item's checked-off state while shopping. When
// an item becomes fulfilled without an actual snapshot, one is captured from
// planned data. The toggle has no other side effects, so repeated flips are
// safe.
func ToggleFulfillment(c *model.Cart, ci *model.CartItem) bool {
	if c.Status != model.CartStatusShopping {
		return false
	}

	ci.IsFulfilled = !ci.IsFulfilled
	if ci.IsFulfilled {
		ci.IsSkippedDuringShopping = false
		if ci.ActualPrice == nil {
			captureActualData(ci, nil)
		}
	}
	return true
}

// SkipDuringShopping marks an item as deliberately not bought this trip.
func SkipDuringShopping(c *model.Cart, ci *model.CartItem) bool {
	if c.Status != model.CartStatusShopping {
		return false
	}
	ci.IsSkippedDuringShopping = true
	ci.IsFulfilled = false
	return true
}

// capturePlannedData fills the planned snapshot from the catalog if it was
// never captured. First capture wins; an existing snapshot is never
// overwritten here.
func capturePlannedData(ci *model.CartItem, cat Catalog) {
	if ci.IsShoppingOnlyItem || ci.PlannedPrice != nil {
		return
	}
	price, unit, ok := lookup(cat, ci.ItemID, ci.PlannedStore)
	if !ok {
		return
	}
	ci.PlannedPrice = &price
	ci.PlannedUnit = &unit
}

// captureActualData fills the actual snapshot, defaulting each missing field
// from the planned side. Quantity is mirrored into ActualQuantity.
func captureActualData(ci *model.CartItem, cat Catalog) {
	if ci.IsShoppingOnlyItem {
		return
	}
	capturePlannedData(ci, cat)

	if ci.ActualPrice == nil {
		price := 0.0
		if ci.PlannedPrice != nil {
			price = *ci.PlannedPrice
		}
		ci.ActualPrice = &price
	}
	if ci.ActualStore == nil {
		store := ci.PlannedStore
		ci.ActualStore = &store
	}
	if ci.ActualUnit == nil {
		unit := ""
		if ci.PlannedUnit != nil {
			unit = *ci.PlannedUnit
		}
		ci.ActualUnit = &unit
	}
	q := ci.Quantity
	ci.ActualQuantity = &q
}
