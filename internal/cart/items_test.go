package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddItemCapturesPlannedSnapshot(t *testing.T) {
	cat := newFakeCatalog()
	cat.add("milk", "FreshMart", 3.20, "l")

	c := newPlanningCart()
	ci := AddItem(c, cat, "milk", "FreshMart", 2)

	require.NotNil(t, ci.PlannedPrice)
	assert.Equal(t, 3.20, *ci.PlannedPrice)
	assert.Equal(t, "l", *ci.PlannedUnit)
	assert.False(t, ci.AddedDuringShopping)
	assert.NotEmpty(t, ci.ID)
	assert.False(t, ci.AddedAt.IsZero())
}

func TestAddItemDuringShopping(t *testing.T) {
	c := newPlanningCart()
	require.True(t, StartShopping(c, nil))

	ci := AddItem(c, nil, "milk", "FreshMart", 1)
	assert.True(t, ci.AddedDuringShopping)
}

func TestAddShoppingOnlyItem(t *testing.T) {
	c := newPlanningCart()
	require.True(t, StartShopping(c, nil))

	ci := AddShoppingOnlyItem(c, "Firewood", "Gas Station", 7.50, "bundle", "Misc", 2)
	assert.True(t, ci.IsShoppingOnlyItem)
	assert.NotEmpty(t, ci.ItemID, "shopping-only items get a synthetic item ID")
	assert.Equal(t, 15.0, TotalPrice(ci, nil, c.Status))
}

func TestRemoveItem(t *testing.T) {
	c := newPlanningCart()
	ci := AddItem(c, nil, "milk", "FreshMart", 2)
	AddItem(c, nil, "eggs", "FreshMart", 1)

	require.True(t, RemoveItem(c, ci.ID))
	assert.Len(t, c.Items, 1)
	assert.False(t, RemoveItem(c, ci.ID))
}

func TestSetQuantity(t *testing.T) {
	t.Run("planning edits do not save an original", func(t *testing.T) {
		c := newPlanningCart()
		ci := AddItem(c, nil, "milk", "FreshMart", 2)

		SetQuantity(c, ci, 5)
		assert.Equal(t, 5.0, ci.Quantity)
		assert.Nil(t, ci.OriginalPlanningQuantity)
	})

	t.Run("first shopping edit saves the planning quantity once", func(t *testing.T) {
		c := newPlanningCart()
		ci := AddItem(c, nil, "milk", "FreshMart", 2)
		require.True(t, StartShopping(c, nil))

		SetQuantity(c, ci, 5)
		require.NotNil(t, ci.OriginalPlanningQuantity)
		assert.Equal(t, 2.0, *ci.OriginalPlanningQuantity)

		SetQuantity(c, ci, 7)
		assert.Equal(t, 2.0, *ci.OriginalPlanningQuantity, "second edit keeps the first original")
	})

	t.Run("keeps the actual quantity mirror in sync", func(t *testing.T) {
		c := newPlanningCart()
		ci := AddItem(c, nil, "milk", "FreshMart", 2)
		ci.ActualQuantity = f64(2)

		SetQuantity(c, ci, 9)
		require.NotNil(t, ci.ActualQuantity)
		assert.Equal(t, 9.0, *ci.ActualQuantity)
	})

	t.Run("negative quantities clamp to zero", func(t *testing.T) {
		c := newPlanningCart()
		ci := AddItem(c, nil, "milk", "FreshMart", 2)
		SetQuantity(c, ci, -3)
		assert.Equal(t, 0.0, ci.Quantity)
	})
}

func TestRestoreToOriginalPlanningQuantity(t *testing.T) {
	c := newPlanningCart()
	ci := AddItem(c, nil, "milk", "FreshMart", 2)
	require.True(t, StartShopping(c, nil))
	SetQuantity(c, ci, 6)

	require.True(t, RestoreToOriginalPlanningQuantity(ci))
	assert.Equal(t, 2.0, ci.Quantity)
	assert.Nil(t, ci.OriginalPlanningQuantity, "the saved value is consumed")

	assert.False(t, RestoreToOriginalPlanningQuantity(ci), "second restore fails")
	assert.Equal(t, 2.0, ci.Quantity)
}

func TestRestoreWithoutSavedQuantity(t *testing.T) {
	c := newPlanningCart()
	ci := AddItem(c, nil, "milk", "FreshMart", 2)
	assert.False(t, RestoreToOriginalPlanningQuantity(ci))
}

func TestEditActual(t *testing.T) {
	t.Run("marks unfulfilled items as edited", func(t *testing.T) {
		c := newPlanningCart()
		ci := AddItem(c, nil, "milk", "FreshMart", 2)
		require.True(t, StartShopping(c, nil))

		ok := EditActual(c, ci, ActualEdit{Price: f64(3.75), Store: str("BudgetMart")})
		require.True(t, ok)
		assert.True(t, ci.WasEditedDuringShopping)
		assert.Equal(t, 3.75, *ci.ActualPrice)
		assert.Equal(t, "BudgetMart", *ci.ActualStore)
		require.NotNil(t, ci.ActualQuantity)
		assert.Equal(t, ci.Quantity, *ci.ActualQuantity)
	})

	t.Run("fulfilled items are not flagged as edited", func(t *testing.T) {
		c := newPlanningCart()
		ci := AddItem(c, nil, "milk", "FreshMart", 2)
		ci.PlannedPrice = f64(2.50)
		require.True(t, StartShopping(c, nil))
		require.True(t, ToggleFulfillment(c, ci))

		require.True(t, EditActual(c, ci, ActualEdit{Price: f64(3.10)}))
		assert.False(t, ci.WasEditedDuringShopping)
		assert.Equal(t, 3.10, *ci.ActualPrice)
	})

	t.Run("quantity edits flow through SetQuantity", func(t *testing.T) {
		c := newPlanningCart()
		ci := AddItem(c, nil, "milk", "FreshMart", 2)
		require.True(t, StartShopping(c, nil))

		require.True(t, EditActual(c, ci, ActualEdit{Quantity: f64(4)}))
		assert.Equal(t, 4.0, ci.Quantity)
		require.NotNil(t, ci.OriginalPlanningQuantity)
		assert.Equal(t, 2.0, *ci.OriginalPlanningQuantity)
		assert.Equal(t, 4.0, *ci.ActualQuantity)
	})

	t.Run("rejected outside shopping and for shopping-only items", func(t *testing.T) {
		c := newPlanningCart()
		ci := AddItem(c, nil, "milk", "FreshMart", 2)
		assert.False(t, EditActual(c, ci, ActualEdit{Price: f64(1)}))

		require.True(t, StartShopping(c, nil))
		adhoc := AddShoppingOnlyItem(c, "Gum", "Kiosk", 1.20, "pcs", "", 1)
		assert.False(t, EditActual(c, adhoc, ActualEdit{Price: f64(2)}))
	})
}

func TestChangePlannedStore(t *testing.T) {
	cat := newFakeCatalog()
	cat.add("milk", "FreshMart", 3.20, "l")
	cat.add("milk", "BudgetMart", 2.80, "l")

	c := newPlanningCart()
	ci := AddItem(c, cat, "milk", "FreshMart", 2)
	require.Equal(t, 3.20, *ci.PlannedPrice)

	ChangePlannedStore(ci, cat, "BudgetMart")
	assert.Equal(t, "BudgetMart", ci.PlannedStore)
	require.NotNil(t, ci.PlannedPrice)
	assert.Equal(t, 2.80, *ci.PlannedPrice)

	t.Run("unknown store leaves the snapshot empty", func(t *testing.T) {
		ChangePlannedStore(ci, cat, "NoSuchStore")
		assert.Nil(t, ci.PlannedPrice)
		assert.Nil(t, ci.PlannedUnit)
	})
}
