package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harrandt/pricewise/internal/model"
)

// fakeCatalog maps "itemID|store" to a price option for resolver tests.
type fakeCatalog struct {
	prices map[string]model.PriceOption
}

func (f *fakeCatalog) LookupPrice(itemID, store string) (float64, string, bool) {
	opt, ok := f.prices[itemID+"|"+store]
	if !ok {
		return 0, "", false
	}
	return opt.Price, opt.Unit, true
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{prices: make(map[string]model.PriceOption)}
}

func (f *fakeCatalog) add(itemID, store string, price float64, unit string) {
	f.prices[itemID+"|"+store] = model.PriceOption{Store: store, Price: price, Unit: unit}
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func TestResolvePricePrecedence(t *testing.T) {
	cat := newFakeCatalog()
	cat.add("milk", "FreshMart", 3.20, "l")

	tests := []struct {
		name   string
		item   model.CartItem
		status model.CartStatus
		want   float64
	}{
		{
			name: "planning uses planned snapshot",
			item: model.CartItem{
				ItemID:       "milk",
				PlannedStore: "FreshMart",
				PlannedPrice: f64(2.90),
				ActualPrice:  f64(3.50),
			},
			status: model.CartStatusPlanning,
			want:   2.90,
		},
		{
			name: "planning falls back to catalog when snapshot missing",
			item: model.CartItem{
				ItemID:       "milk",
				PlannedStore: "FreshMart",
			},
			status: model.CartStatusPlanning,
			want:   3.20,
		},
		{
			name: "planning degrades to zero when catalog misses",
			item: model.CartItem{
				ItemID:       "milk",
				PlannedStore: "NoSuchStore",
			},
			status: model.CartStatusPlanning,
			want:   0,
		},
		{
			name: "shopping prefers actual over planned",
			item: model.CartItem{
				ItemID:       "milk",
				PlannedStore: "FreshMart",
				PlannedPrice: f64(2.90),
				ActualPrice:  f64(3.50),
			},
			status: model.CartStatusShopping,
			want:   3.50,
		},
		{
			name: "shopping falls back to planned without actual",
			item: model.CartItem{
				ItemID:       "milk",
				PlannedStore: "FreshMart",
				PlannedPrice: f64(2.90),
			},
			status: model.CartStatusShopping,
			want:   2.90,
		},
		{
			name: "shopping lookup keys on actual store when present",
			item: model.CartItem{
				ItemID:       "milk",
				PlannedStore: "NoSuchStore",
				ActualStore:  str("FreshMart"),
			},
			status: model.CartStatusShopping,
			want:   3.20,
		},
		{
			name: "completed prefers actual",
			item: model.CartItem{
				ItemID:       "milk",
				PlannedStore: "FreshMart",
				PlannedPrice: f64(2.90),
				ActualPrice:  f64(3.50),
			},
			status: model.CartStatusCompleted,
			want:   3.50,
		},
		{
			name: "completed never consults the catalog",
			item: model.CartItem{
				ItemID:       "milk",
				PlannedStore: "FreshMart",
			},
			status: model.CartStatusCompleted,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePrice(&tt.item, cat, tt.status)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestShoppingOnlyItemsIgnoreStatus(t *testing.T) {
	ci := &model.CartItem{
		ItemID:             "synthetic",
		IsShoppingOnlyItem: true,
		ShoppingOnlyName:   "Street tacos",
		ShoppingOnlyStore:  "Corner Stand",
		ShoppingOnlyPrice:  4.00,
		ShoppingOnlyUnit:   "pcs",
		Quantity:           3,
		// Junk in the vault-backed fields that must never win.
		PlannedPrice: f64(99),
		ActualPrice:  f64(77),
		PlannedStore: "WrongStore",
	}
	cat := newFakeCatalog()
	cat.add("synthetic", "Corner Stand", 123, "kg")

	for _, status := range []model.CartStatus{
		model.CartStatusPlanning,
		model.CartStatusShopping,
		model.CartStatusCompleted,
	} {
		t.Run(string(status), func(t *testing.T) {
			assert.Equal(t, 4.00, ResolvePrice(ci, cat, status))
			assert.Equal(t, "Corner Stand", ResolveStore(ci, status))
			assert.Equal(t, "pcs", ResolveUnit(ci, cat, status))
			assert.Equal(t, 3.0, ResolveQuantity(ci))
		})
	}
}

func TestResolveStore(t *testing.T) {
	ci := &model.CartItem{
		ItemID:       "milk",
		PlannedStore: "FreshMart",
	}

	assert.Equal(t, "FreshMart", ResolveStore(ci, model.CartStatusPlanning))
	assert.Equal(t, "FreshMart", ResolveStore(ci, model.CartStatusShopping))

	ci.ActualStore = str("BudgetMart")
	assert.Equal(t, "FreshMart", ResolveStore(ci, model.CartStatusPlanning),
		"planning ignores the actual store")
	assert.Equal(t, "BudgetMart", ResolveStore(ci, model.CartStatusShopping))
	assert.Equal(t, "BudgetMart", ResolveStore(ci, model.CartStatusCompleted))
}

func TestResolveUnit(t *testing.T) {
	cat := newFakeCatalog()
	cat.add("rice", "FreshMart", 2.10, "kg")

	ci := &model.CartItem{ItemID: "rice", PlannedStore: "FreshMart"}
	assert.Equal(t, "kg", ResolveUnit(ci, cat, model.CartStatusPlanning))

	ci.PlannedUnit = str("bag")
	assert.Equal(t, "bag", ResolveUnit(ci, cat, model.CartStatusPlanning))

	ci.ActualUnit = str("sack")
	assert.Equal(t, "bag", ResolveUnit(ci, cat, model.CartStatusPlanning))
	assert.Equal(t, "sack", ResolveUnit(ci, cat, model.CartStatusShopping))
	assert.Equal(t, "sack", ResolveUnit(ci, cat, model.CartStatusCompleted))
}

func TestResolveQuantityIgnoresActualQuantity(t *testing.T) {
	ci := &model.CartItem{
		ItemID:         "milk",
		Quantity:       2,
		ActualQuantity: f64(5),
	}
	assert.Equal(t, 2.0, ResolveQuantity(ci))
}

func TestTotalPrice(t *testing.T) {
	ci := &model.CartItem{
		ItemID:       "milk",
		PlannedStore: "FreshMart",
		PlannedPrice: f64(2.50),
		Quantity:     4,
	}
	assert.InDelta(t, 10.0, TotalPrice(ci, nil, model.CartStatusPlanning), 1e-9)
}

func TestResolverToleratesMissingCatalog(t *testing.T) {
	ci := &model.CartItem{ItemID: "ghost", PlannedStore: "FreshMart", Quantity: 2}

	// A deleted vault item must not break resolution of historical carts.
	assert.Equal(t, 0.0, ResolvePrice(ci, nil, model.CartStatusPlanning))
	assert.Equal(t, "", ResolveUnit(ci, nil, model.CartStatusShopping))
	assert.Equal(t, 0.0, TotalPrice(ci, nil, model.CartStatusShopping))
}
