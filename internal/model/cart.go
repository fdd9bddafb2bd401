package model

import "time"

// Cart is one shopping trip: a named, optionally budgeted set of cart items
// moving through the Planning -> Shopping -> Completed lifecycle.
//
// Status only advances forward or reverts exactly one step backward
// (Shopping -> Planning) through the operations in the cart package; callers
// must not assign Status directly.
type Cart struct {
	CreatedAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	ID          string
	Name        string
	Status      CartStatus
	// Budget of 0 means no budget was set.
	Budget float64
	Items  []*CartItem
}

// FindItem returns the cart item with the given cart-item ID.
func (c *Cart) FindItem(id string) (*CartItem, bool) {
	for _, it := range c.Items {
		if it.ID == id {
			return it, true
		}
	}
	return nil, false
}

// IsCompleted reports whether the cart has finished its trip.
func (c *Cart) IsCompleted() bool {
	return c.Status == CartStatusCompleted
}
