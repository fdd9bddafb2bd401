package cart

import "github.com/harrandt/pricewise/internal/model"

// ResolvedDisplay is the read-only projection of one cart item for the
// presentation layer.
type ResolvedDisplay struct {
	Store      string
	Unit       string
	Price      float64
	Quantity   float64
	TotalPrice float64
}

// Display resolves every presentation-relevant field of a cart item at once.
func Display(ci *model.CartItem, cat Catalog, status model.CartStatus) ResolvedDisplay {
	price := ResolvePrice(ci, cat, status)
	qty := ResolveQuantity(ci)
	return ResolvedDisplay{
		Price:      price,
		Store:      ResolveStore(ci, status),
		Unit:       ResolveUnit(ci, cat, status),
		Quantity:   qty,
		TotalPrice: price * qty,
	}
}

// Summary is the read-only projection of a whole cart.
type Summary struct {
	TotalSpent       float64
	FulfilledCount   int
	TotalCount       int
	PercentFulfilled float64
}

// Summarize computes the cart-level projection: the status-dependent total
// plus fulfillment progress.
func Summarize(c *model.Cart, cat Catalog) Summary {
	s := Summary{
		TotalSpent: TotalSpent(c, cat),
		TotalCount: len(c.Items),
	}
	for _, ci := range c.Items {
		if ci.IsFulfilled {
			s.FulfilledCount++
		}
	}
	if s.TotalCount > 0 {
		s.PercentFulfilled = float64(s.FulfilledCount) / float64(s.TotalCount)
	}
	return s
}
