package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/harrandt/pricewise/internal/common"
	"github.com/harrandt/pricewise/internal/model"
	"github.com/harrandt/pricewise/internal/vault"
)

// SaveCategory upserts a category along with the items and price options it
// owns. Items removed from the category in memory are removed from the
// database as well.
func (s *SQLiteStorage) SaveCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO categories (id, name, sort_order, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, sort_order = excluded.sort_order
	`, category.ID, category.Name, category.SortOrder, category.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save category: %w", err)
	}

	// Reconcile owned items: anything no longer present in memory goes away.
	keep := make(map[string]bool, len(category.Items))
	for _, item := range category.Items {
		keep[item.ID] = true
		if err := saveItemTx(ctx, tx, item); err != nil {
			return err
		}
	}

	rows, err := tx.QueryContext(ctx, `SELECT id FROM items WHERE category_id = ?`, category.ID)
	if err != nil {
		return fmt.Errorf("failed to query category items: %w", err)
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan item ID: %w", err)
		}
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating category items: %w", err)
	}
	for _, id := range stale {
		if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete stale item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit category: %w", err)
	}

	slog.Debug("saved category", "category_id", category.ID, "items", len(category.Items))
	return nil
}

// DeleteCategory removes a category; its items and their price options go
// with it via the foreign keys.
func (s *SQLiteStorage) DeleteCategory(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// SaveItem upserts an item and replaces its price options.
func (s *SQLiteStorage) SaveItem(ctx context.Context, item *model.Item) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateItem(item); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveItemTx(ctx, tx, item); err != nil {
		return err
	}
	return tx.Commit()
}

func saveItemTx(ctx context.Context, tx *sql.Tx, item *model.Item) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO items (id, category_id, name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET category_id = excluded.category_id, name = excluded.name
	`, item.ID, item.CategoryID, item.Name, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save item: %w", err)
	}

	// Price options are owned wholesale: replace rather than reconcile.
	if _, err := tx.ExecContext(ctx, `DELETE FROM price_options WHERE item_id = ?`, item.ID); err != nil {
		return fmt.Errorf("failed to clear price options: %w", err)
	}
	for i, opt := range item.PriceOptions {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO price_options (item_id, store, price, unit, position)
			VALUES (?, ?, ?, ?, ?)
		`, item.ID, opt.Store, opt.Price, opt.Unit, i)
		if err != nil {
			return fmt.Errorf("failed to save price option: %w", err)
		}
	}
	return nil
}

// DeleteItem removes an item and its price options. Historical cart items
// referencing it are untouched.
func (s *SQLiteStorage) DeleteItem(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("item %s: %w", id, common.ErrNotFound)
	}
	return nil
}

// AddStore registers a store name.
func (s *SQLiteStorage) AddStore(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO stores (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("failed to add store: %w", err)
	}
	return nil
}

// ListStores returns all registered store names, sorted.
func (s *SQLiteStorage) ListStores(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM stores ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	var stores []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stores: %w", err)
	}
	return stores, nil
}

// RenameStore renames a registered store and rewrites every price option
// referencing the old name. Renaming onto an existing store merges the
// registry rows.
func (s *SQLiteStorage) RenameStore(ctx context.Context, oldName, newName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(oldName, "oldName"); err != nil {
		return err
	}
	if err := validateString(newName, "newName"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM stores WHERE name = ?`, oldName)
	if err != nil {
		return fmt.Errorf("failed to remove old store name: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rename result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("store %q: %w", oldName, common.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO stores (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, newName); err != nil {
		return fmt.Errorf("failed to add new store name: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE price_options SET store = ? WHERE store = ?`, newName, oldName); err != nil {
		return fmt.Errorf("failed to rewrite price options: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit store rename: %w", err)
	}

	slog.Debug("renamed store", "old", oldName, "new", newName)
	return nil
}

// DeleteStore removes a store from the registry along with every price
// option referencing it.
func (s *SQLiteStorage) DeleteStore(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM stores WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete store: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("store %q: %w", name, common.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM price_options WHERE store = ?`, name); err != nil {
		return fmt.Errorf("failed to delete price options: %w", err)
	}

	return tx.Commit()
}

// LoadVault reassembles the full vault aggregate from the database.
func (s *SQLiteStorage) LoadVault(ctx context.Context) (*vault.Vault, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	categories, err := s.loadCategories(ctx)
	if err != nil {
		return nil, err
	}
	carts, err := s.ListCarts(ctx)
	if err != nil {
		return nil, err
	}
	storeNames, err := s.ListStores(ctx)
	if err != nil {
		return nil, err
	}

	slog.Debug("loaded vault",
		"categories", len(categories),
		"carts", len(carts),
		"stores", len(storeNames))
	return vault.Load("", categories, carts, storeNames), nil
}

func (s *SQLiteStorage) loadCategories(ctx context.Context) ([]*model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, sort_order, created_at
		FROM categories
		ORDER BY sort_order, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	byID := make(map[string]*model.Category)
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.SortOrder, &cat.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, &cat)
		byID[cat.ID] = &cat
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	items, err := s.loadItems(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if cat, ok := byID[item.CategoryID]; ok {
			cat.Items = append(cat.Items, item)
		}
	}
	return categories, nil
}

func (s *SQLiteStorage) loadItems(ctx context.Context) ([]*model.Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category_id, name, created_at
		FROM items
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*model.Item
	byID := make(map[string]*model.Item)
	for rows.Next() {
		var item model.Item
		if err := rows.Scan(&item.ID, &item.CategoryID, &item.Name, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, &item)
		byID[item.ID] = &item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating items: %w", err)
	}

	optRows, err := s.db.QueryContext(ctx, `
		SELECT item_id, store, price, unit
		FROM price_options
		ORDER BY item_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query price options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var itemID string
		var opt model.PriceOption
		if err := optRows.Scan(&itemID, &opt.Store, &opt.Price, &opt.Unit); err != nil {
			return nil, fmt.Errorf("failed to scan price option: %w", err)
		}
		if item, ok := byID[itemID]; ok {
			item.PriceOptions = append(item.PriceOptions, opt)
		}
	}
	if err := optRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price options: %w", err)
	}

	return items, nil
}
