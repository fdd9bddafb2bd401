package model

// CartStatus tracks where a cart is in its shopping lifecycle.
type CartStatus string

const (
	// CartStatusPlanning is the initial state: the user is assembling the list.
	CartStatusPlanning CartStatus = "planning"
	// CartStatusShopping means the user is actively in a store.
	CartStatusShopping CartStatus = "shopping"
	// CartStatusCompleted means the trip is finished and totals are historical.
	CartStatusCompleted CartStatus = "completed"
)

// IsValid reports whether the status is one of the known lifecycle states.
func (s CartStatus) IsValid() bool {
	switch s {
	case CartStatusPlanning, CartStatusShopping, CartStatusCompleted:
		return true
	}
	return false
}
