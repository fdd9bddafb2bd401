package vault

import (
	"fmt"
	"sort"
	"strings"

	"github.com/harrandt/pricewise/internal/common"
)

// AddStore registers a store name for use across items.
func (v *Vault) AddStore(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("store name cannot be empty")
	}
	for _, s := range v.stores {
		if normalizeName(s) == normalizeName(name) {
			return common.NewUserError(
				fmt.Sprintf("store %q already exists", name),
				common.ErrDuplicateName)
		}
	}
	v.stores = append(v.stores, strings.TrimSpace(name))
	return nil
}

// ListStores returns the registered store names, sorted.
func (v *Vault) ListStores() []string {
	out := make([]string, len(v.stores))
	copy(out, v.stores)
	sort.Strings(out)
	return out
}

// RenameStore renames a registered store and rewrites every price option
// referencing the old name. Renaming onto an existing store merges the two
// registry entries.
func (v *Vault) RenameStore(oldName, newName string) error {
	if strings.TrimSpace(newName) == "" {
		return fmt.Errorf("store name cannot be empty")
	}

	idx := -1
	for i, s := range v.stores {
		if s == oldName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("store %q: %w", oldName, common.ErrNotFound)
	}

	newName = strings.TrimSpace(newName)
	if v.hasStore(newName) {
		// Merge: drop the old registry row, keep the existing target.
		v.stores = append(v.stores[:idx], v.stores[idx+1:]...)
	} else {
		v.stores[idx] = newName
	}

	for _, c := range v.Categories {
		for _, it := range c.Items {
			for i := range it.PriceOptions {
				if it.PriceOptions[i].Store == oldName {
					it.PriceOptions[i].Store = newName
				}
			}
		}
	}
	return nil
}

// DeleteStore removes a store from the registry along with every price
// option referencing it.
func (v *Vault) DeleteStore(name string) error {
	idx := -1
	for i, s := range v.stores {
		if s == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("store %q: %w", name, common.ErrNotFound)
	}
	v.stores = append(v.stores[:idx], v.stores[idx+1:]...)

	for _, c := range v.Categories {
		for _, it := range c.Items {
			kept := it.PriceOptions[:0]
			for _, opt := range it.PriceOptions {
				if opt.Store != name {
					kept = append(kept, opt)
				}
			}
			it.PriceOptions = kept
		}
	}
	return nil
}

func (v *Vault) hasStore(name string) bool {
	for _, s := range v.stores {
		if s == name {
			return true
		}
	}
	return false
}

func (v *Vault) registerStore(name string) {
	name = strings.TrimSpace(name)
	if name == "" || v.hasStore(name) {
		return
	}
	v.stores = append(v.stores, name)
}
