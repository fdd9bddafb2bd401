package model

import "time"

// PriceOption is one store-specific price for an item, e.g. "12.50/kg at FreshMart".
// Options are ordered; the first option matching a store is authoritative for display.
type PriceOption struct {
	Store string
	Price float64
	Unit  string
}

// Item is a catalog entry in the user's vault. An item may be sold at multiple
// stores at different unit prices.
type Item struct {
	CreatedAt    time.Time
	ID           string
	Name         string
	CategoryID   string
	PriceOptions []PriceOption
}

// PriceFor returns the first price option recorded for the given store.
func (i *Item) PriceFor(store string) (PriceOption, bool) {
	for _, opt := range i.PriceOptions {
		if opt.Store == store {
			return opt, true
		}
	}
	return PriceOption{}, false
}
