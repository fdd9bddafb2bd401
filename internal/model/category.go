package model

import "time"

// Category groups vault items for display. Categories own their items:
// deleting a category deletes every item in it.
type Category struct {
	CreatedAt time.Time
	ID        string
	Name      string
	SortOrder int
	Items     []*Item
}
