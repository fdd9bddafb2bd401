// Package vault implements the user's catalog of known grocery items: categories,
// items with store-specific prices, the store-name registry, and the carts that
// draw on them. One vault per user; single-writer, single-reader.
package vault

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harrandt/pricewise/internal/common"
	"github.com/harrandt/pricewise/internal/model"
)

// Vault is the root aggregate. It owns categories (which own items), carts,
// and the registry of distinct store names. Cart items reference vault items
// by ID only, so deleting a catalog item never touches historical carts.
type Vault struct {
	ID         string
	Categories []*model.Category
	Carts      []*model.Cart
	stores     []string
}

// New creates an empty vault.
func New() *Vault {
	return &Vault{ID: uuid.NewString()}
}

// Load reassembles a vault from persisted state.
func Load(id string, categories []*model.Category, carts []*model.Cart, stores []string) *Vault {
	if id == "" {
		id = uuid.NewString()
	}
	return &Vault{
		ID:         id,
		Categories: categories,
		Carts:      carts,
		stores:     stores,
	}
}

func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// AddCategory creates a new category. The sort order is appended after any
// existing categories.
func (v *Vault) AddCategory(name string) (*model.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("category name cannot be empty")
	}
	for _, c := range v.Categories {
		if normalizeName(c.Name) == normalizeName(name) {
			return nil, common.NewUserError(
				fmt.Sprintf("a category named %q already exists", name),
				common.ErrDuplicateName)
		}
	}

	cat := &model.Category{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		SortOrder: len(v.Categories),
		CreatedAt: time.Now(),
	}
	v.Categories = append(v.Categories, cat)
	return cat, nil
}

// FindCategory returns the category with the given name (case-insensitive).
func (v *Vault) FindCategory(name string) (*model.Category, bool) {
	for _, c := range v.Categories {
		if normalizeName(c.Name) == normalizeName(name) {
			return c, true
		}
	}
	return nil, false
}

// DeleteCategory removes a category and every item it owns.
func (v *Vault) DeleteCategory(id string) bool {
	for i, c := range v.Categories {
		if c.ID == id {
			v.Categories = append(v.Categories[:i], v.Categories[i+1:]...)
			return true
		}
	}
	return false
}

// AddItem records an item priced at a store. If an item with the same
// normalized name already exists, a new price option for a new store is
// appended to it; the same (name, store) pair is a duplicate.
func (v *Vault) AddItem(name, category, store string, price float64, unit string) (*model.Item, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("item name cannot be empty")
	}

	if existing, ok := v.findItemByName(name); ok {
		if _, has := existing.PriceFor(store); has {
			return nil, common.NewUserError(
				fmt.Sprintf("%q already has a price at %q", name, store),
				common.ErrDuplicateName)
		}
		existing.PriceOptions = append(existing.PriceOptions, model.PriceOption{
			Store: store,
			Price: price,
			Unit:  unit,
		})
		v.registerStore(store)
		return existing, nil
	}

	cat, ok := v.FindCategory(category)
	if !ok {
		var err error
		cat, err = v.AddCategory(category)
		if err != nil {
			return nil, err
		}
	}

	item := &model.Item{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(name),
		CategoryID: cat.ID,
		CreatedAt:  time.Now(),
		PriceOptions: []model.PriceOption{{
			Store: store,
			Price: price,
			Unit:  unit,
		}},
	}
	cat.Items = append(cat.Items, item)
	v.registerStore(store)
	return item, nil
}

func (v *Vault) findItemByName(name string) (*model.Item, bool) {
	for _, c := range v.Categories {
		for _, it := range c.Items {
			if normalizeName(it.Name) == normalizeName(name) {
				return it, true
			}
		}
	}
	return nil, false
}

// FindItem returns the catalog item with the given ID.
func (v *Vault) FindItem(id string) (*model.Item, bool) {
	for _, c := range v.Categories {
		for _, it := range c.Items {
			if it.ID == id {
				return it, true
			}
		}
	}
	return nil, false
}

// DeleteItem removes an item from its category. Cart items referencing it
// keep their snapshots; only the catalog-lookup fallback stops resolving.
func (v *Vault) DeleteItem(id string) bool {
	for _, c := range v.Categories {
		for i, it := range c.Items {
			if it.ID == id {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
				return true
			}
		}
	}
	return false
}

// LookupPrice returns the price and unit of an item at a store. An empty
// store matches the item's first price option.
func (v *Vault) LookupPrice(itemID, store string) (float64, string, bool) {
	item, ok := v.FindItem(itemID)
	if !ok {
		return 0, "", false
	}
	if store == "" {
		if len(item.PriceOptions) == 0 {
			return 0, "", false
		}
		opt := item.PriceOptions[0]
		return opt.Price, opt.Unit, true
	}
	opt, ok := item.PriceFor(store)
	if !ok {
		return 0, "", false
	}
	return opt.Price, opt.Unit, true
}

// ItemName returns the display name of a catalog item.
func (v *Vault) ItemName(itemID string) (string, bool) {
	item, ok := v.FindItem(itemID)
	if !ok {
		return "", false
	}
	return item.Name, true
}
