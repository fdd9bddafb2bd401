package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/harrandt/pricewise/internal/model"
)

// AddItem puts a vault item into a cart, snapshotting the planned price and
// unit for the chosen store at add time. Items added while the cart is
// already shopping are flagged as such.
func AddItem(c *model.Cart, cat Catalog, itemID, store string, quantity float64) *model.CartItem {
	ci := &model.CartItem{
		ID:                  uuid.NewString(),
		ItemID:              itemID,
		AddedAt:             time.Now(),
		PlannedStore:        store,
		Quantity:            quantity,
		AddedDuringShopping: c.Status == model.CartStatusShopping,
	}
	capturePlannedData(ci, cat)
	c.Items = append(c.Items, ci)
	return ci
}

// AddShoppingOnlyItem puts an ad hoc item into a cart. It has no vault
// counterpart; its itemID is synthetic and all display data lives inline.
func AddShoppingOnlyItem(c *model.Cart, name, store string, price float64, unit, category string, quantity float64) *model.CartItem {
	ci := &model.CartItem{
		ID:                   uuid.NewString(),
		ItemID:               uuid.NewString(),
		AddedAt:              time.Now(),
		Quantity:             quantity,
		AddedDuringShopping:  c.Status == model.CartStatusShopping,
		IsShoppingOnlyItem:   true,
		ShoppingOnlyName:     name,
		ShoppingOnlyStore:    store,
		ShoppingOnlyPrice:    price,
		ShoppingOnlyUnit:     unit,
		ShoppingOnlyCategory: category,
	}
	c.Items = append(c.Items, ci)
	return ci
}

// RemoveItem deletes a cart item from its cart.
func RemoveItem(c *model.Cart, cartItemID string) bool {
	for i, ci := range c.Items {
		if ci.ID == cartItemID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// SetQuantity updates an item's quantity. The first quantity edit made while
// shopping saves the planning quantity for a later restore. ActualQuantity
// is re-synced whenever it is present.
func SetQuantity(c *model.Cart, ci *model.CartItem, quantity float64) {
	if quantity < 0 {
		quantity = 0
	}
	if c.Status == model.CartStatusShopping && ci.OriginalPlanningQuantity == nil {
		orig := ci.Quantity
		ci.OriginalPlanningQuantity = &orig
	}
	ci.Quantity = quantity
	ci.SyncActualQuantity()
}

// RestoreToOriginalPlanningQuantity puts back the quantity the item had
// before its first mid-shopping edit. The saved value is consumed: a second
// restore returns false.
func RestoreToOriginalPlanningQuantity(ci *model.CartItem) bool {
	if ci.OriginalPlanningQuantity == nil {
		return false
	}
	ci.Quantity = *ci.OriginalPlanningQuantity
	ci.OriginalPlanningQuantity = nil
	ci.SyncActualQuantity()
	return true
}

// ActualEdit carries the register-side values recorded for an item during
// shopping. Nil fields are left untouched.
type ActualEdit struct {
	Store    *string
	Price    *float64
	Unit     *string
	Quantity *float64
}

// EditActual records actual data for an item while shopping. Editing without
// marking fulfilled flags the item as edited, which makes the running total
// trust its actual price. A quantity in the edit updates the authoritative
// Quantity and keeps the mirror in sync.
func EditActual(c *model.Cart, ci *model.CartItem, edit ActualEdit) bool {
	if c.Status != model.CartStatusShopping || ci.IsShoppingOnlyItem {
		return false
	}

	if edit.Store != nil {
		store := *edit.Store
		ci.ActualStore = &store
	}
	if edit.Price != nil {
		price := *edit.Price
		ci.ActualPrice = &price
	}
	if edit.Unit != nil {
		unit := *edit.Unit
		ci.ActualUnit = &unit
	}
	if edit.Quantity != nil {
		SetQuantity(c, ci, *edit.Quantity)
	}

	if !ci.IsFulfilled {
		ci.WasEditedDuringShopping = true
	}
	q := ci.Quantity
	ci.ActualQuantity = &q
	return true
}

// ChangePlannedStore is the one operation allowed to overwrite a captured
// planned snapshot: the user repoints the item at a different store and the
// snapshot is re-captured from the catalog for that store.
func ChangePlannedStore(ci *model.CartItem, cat Catalog, store string) {
	if ci.IsShoppingOnlyItem {
		return
	}
	ci.PlannedStore = store
	ci.PlannedPrice = nil
	ci.PlannedUnit = nil
	capturePlannedData(ci, cat)
}
