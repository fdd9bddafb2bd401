package cart

import "github.com/harrandt/pricewise/internal/model"

// TotalSpent derives the cart's aggregate total under the status-dependent
// rule. It deliberately differs from per-item resolution in the Shopping
// state: an actual price only counts toward the running total once the item
// was checked off or deliberately edited, so an unconfirmed register price
// cannot silently inflate the total mid-trip.
//
//	Planning:  planned price x quantity for every item, actual data ignored.
//	Shopping:  actual for fulfilled or edited items, planned otherwise.
//	Completed: actual, falling back to planned.
func TotalSpent(c *model.Cart, cat Catalog) float64 {
	var total float64
	for _, ci := range c.Items {
		total += lineTotal(ci, cat, c.Status)
	}
	return total
}

func lineTotal(ci *model.CartItem, cat Catalog, status model.CartStatus) float64 {
	if ci.IsShoppingOnlyItem {
		return ci.ShoppingOnlyPrice * ci.Quantity
	}

	switch status {
	case model.CartStatusPlanning:
		return plannedPrice(ci, cat) * ci.Quantity

	case model.CartStatusShopping:
		if (ci.IsFulfilled || ci.WasEditedDuringShopping) && ci.ActualPrice != nil {
			return *ci.ActualPrice * ci.Quantity
		}
		return plannedPrice(ci, cat) * ci.Quantity

	case model.CartStatusCompleted:
		// No catalog fallback here: a completed cart's total is settled
		// history and must not move when catalog prices change.
		if ci.ActualPrice != nil {
			return *ci.ActualPrice * ci.Quantity
		}
		if ci.PlannedPrice != nil {
			return *ci.PlannedPrice * ci.Quantity
		}
		return 0
	}
	return 0
}

func plannedPrice(ci *model.CartItem, cat Catalog) float64 {
	if ci.PlannedPrice != nil {
		return *ci.PlannedPrice
	}
	if price, _, ok := lookup(cat, ci.ItemID, ci.PlannedStore); ok {
		return price
	}
	return 0
}

// CompletedLineTotal exposes the Completed-state line total for read-only
// consumers such as the insights aggregator.
func CompletedLineTotal(ci *model.CartItem, cat Catalog) float64 {
	return lineTotal(ci, cat, model.CartStatusCompleted)
}
