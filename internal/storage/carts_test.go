package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrandt/pricewise/internal/common"
	"github.com/harrandt/pricewise/internal/model"
	"github.com/harrandt/pricewise/internal/testutil"
)

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func newCart(status model.CartStatus) *model.Cart {
	return &model.Cart{
		ID:        uuid.NewString(),
		Name:      "Weekly shop",
		Budget:    150,
		Status:    status,
		CreatedAt: time.Now().Truncate(time.Second),
	}
}

func TestSaveCartRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	started := time.Now().Add(-time.Hour).Truncate(time.Second)
	c := newCart(model.CartStatusShopping)
	c.StartedAt = &started
	c.Items = []*model.CartItem{
		{
			ID:             uuid.NewString(),
			ItemID:         "item-1",
			AddedAt:        time.Now().Truncate(time.Second),
			PlannedStore:   "FreshMart",
			PlannedPrice:   f64(3.20),
			PlannedUnit:    str("l"),
			Quantity:       2,
			ActualStore:    str("BudgetMart"),
			ActualPrice:    f64(2.80),
			ActualQuantity: f64(2),
			ActualUnit:     str("l"),
			IsFulfilled:    true,
		},
		{
			ID:                       uuid.NewString(),
			ItemID:                   uuid.NewString(),
			AddedAt:                  time.Now().Truncate(time.Second),
			Quantity:                 1,
			IsShoppingOnlyItem:       true,
			ShoppingOnlyName:         "Firewood",
			ShoppingOnlyStore:        "Gas Station",
			ShoppingOnlyPrice:        7.50,
			ShoppingOnlyUnit:         "bundle",
			ShoppingOnlyCategory:     "Misc",
			AddedDuringShopping:      true,
			OriginalPlanningQuantity: f64(3),
		},
	}

	require.NoError(t, store.SaveCart(ctx, c))

	loaded, err := store.GetCart(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Name, loaded.Name)
	assert.Equal(t, c.Budget, loaded.Budget)
	assert.Equal(t, model.CartStatusShopping, loaded.Status)
	require.NotNil(t, loaded.StartedAt)
	assert.Nil(t, loaded.CompletedAt)
	require.Len(t, loaded.Items, 2)

	first := loaded.Items[0]
	assert.Equal(t, "item-1", first.ItemID)
	require.NotNil(t, first.PlannedPrice)
	assert.Equal(t, 3.20, *first.PlannedPrice)
	assert.Equal(t, "l", *first.PlannedUnit)
	assert.Equal(t, "BudgetMart", *first.ActualStore)
	assert.Equal(t, 2.80, *first.ActualPrice)
	assert.True(t, first.IsFulfilled)
	assert.Nil(t, first.OriginalPlanningQuantity)

	second := loaded.Items[1]
	assert.True(t, second.IsShoppingOnlyItem)
	assert.Equal(t, "Firewood", second.ShoppingOnlyName)
	assert.Equal(t, 7.50, second.ShoppingOnlyPrice)
	require.NotNil(t, second.OriginalPlanningQuantity)
	assert.Equal(t, 3.0, *second.OriginalPlanningQuantity)
}

func TestSaveCartUpsertReplacesItems(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	c := newCart(model.CartStatusPlanning)
	c.Items = []*model.CartItem{{
		ID:       uuid.NewString(),
		ItemID:   "item-1",
		AddedAt:  time.Now(),
		Quantity: 2,
	}}
	require.NoError(t, store.SaveCart(ctx, c))

	c.Items = nil
	c.Status = model.CartStatusShopping
	require.NoError(t, store.SaveCart(ctx, c))

	loaded, err := store.GetCart(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CartStatusShopping, loaded.Status)
	assert.Empty(t, loaded.Items)
}

func TestSaveCartRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	c := newCart("limbo")
	assert.Error(t, store.SaveCart(ctx, c))
}

func TestGetCartNotFound(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	_, err := store.GetCart(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetCompletedCarts(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	planning := newCart(model.CartStatusPlanning)
	require.NoError(t, store.SaveCart(ctx, planning))

	older := newCart(model.CartStatusCompleted)
	olderDone := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
	older.CompletedAt = &olderDone
	require.NoError(t, store.SaveCart(ctx, older))

	newer := newCart(model.CartStatusCompleted)
	newerDone := time.Now().Add(-24 * time.Hour).Truncate(time.Second)
	newer.CompletedAt = &newerDone
	require.NoError(t, store.SaveCart(ctx, newer))

	completed, err := store.GetCompletedCarts(ctx)
	require.NoError(t, err)
	require.Len(t, completed, 2)
	assert.Equal(t, older.ID, completed[0].ID, "ordered by completion date ascending")
	assert.Equal(t, newer.ID, completed[1].ID)
}

func TestDeleteCartLeavesTrashRecord(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	done := time.Now().Add(-time.Hour).Truncate(time.Second)
	c := newCart(model.CartStatusCompleted)
	c.CompletedAt = &done
	c.Items = []*model.CartItem{
		{ID: uuid.NewString(), ItemID: "a", AddedAt: time.Now(), Quantity: 1},
		{ID: uuid.NewString(), ItemID: "b", AddedAt: time.Now(), Quantity: 2},
	}
	require.NoError(t, store.SaveCart(ctx, c))

	require.NoError(t, store.DeleteCart(ctx, c.ID))

	_, err := store.GetCart(ctx, c.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	trash, err := store.ListDeletedCarts(ctx)
	require.NoError(t, err)
	require.Len(t, trash, 1)
	assert.Equal(t, c.ID, trash[0].CartID)
	assert.Equal(t, c.Name, trash[0].Name)
	assert.Equal(t, 2, trash[0].ItemCount)
	require.NotNil(t, trash[0].CompletedAt)
	assert.False(t, trash[0].DeletedAt.IsZero())

	t.Run("deleting a missing cart fails", func(t *testing.T) {
		assert.ErrorIs(t, store.DeleteCart(ctx, c.ID), common.ErrNotFound)
	})
}

func TestLoadVaultAssemblesEverything(t *testing.T) {
	ctx := context.Background()
	store := testutil.SetupTestDB(t)

	cat := newCategory("Dairy", 0)
	cat.Items = []*model.Item{newItem(cat.ID, "Milk", model.PriceOption{Store: "FreshMart", Price: 3.20, Unit: "l"})}
	require.NoError(t, store.SaveCategory(ctx, cat))
	require.NoError(t, store.AddStore(ctx, "FreshMart"))

	c := newCart(model.CartStatusPlanning)
	require.NoError(t, store.SaveCart(ctx, c))

	v, err := store.LoadVault(ctx)
	require.NoError(t, err)
	assert.Len(t, v.Categories, 1)
	assert.Len(t, v.Carts, 1)
	assert.Equal(t, []string{"FreshMart"}, v.ListStores())

	price, unit, ok := v.LookupPrice(cat.Items[0].ID, "FreshMart")
	require.True(t, ok)
	assert.Equal(t, 3.20, price)
	assert.Equal(t, "l", unit)
}
