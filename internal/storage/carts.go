package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/harrandt/pricewise/internal/common"
	"github.com/harrandt/pricewise/internal/model"
	"github.com/harrandt/pricewise/internal/service"
)

// SaveCart upserts a cart along with all of its items. Cart items are owned
// wholesale, so the existing rows are replaced rather than reconciled.
func (s *SQLiteStorage) SaveCart(ctx context.Context, cart *model.Cart) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCart(cart); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO carts (id, name, budget, status, created_at, started_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			budget = excluded.budget,
			status = excluded.status,
			started_at = excluded.started_at,
			completed_at = excluded.completed_at
	`, cart.ID, cart.Name, cart.Budget, string(cart.Status), cart.CreatedAt, nullTime(cart.StartedAt), nullTime(cart.CompletedAt))
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cart.ID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}

	for i, ci := range cart.Items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO cart_items (
				id, cart_id, item_id, added_at,
				planned_store, planned_price, planned_unit, quantity,
				actual_store, actual_price, actual_quantity, actual_unit,
				is_fulfilled, is_skipped, was_edited, added_during_shopping,
				is_shopping_only, shopping_only_name, shopping_only_store,
				shopping_only_price, shopping_only_unit, shopping_only_category,
				original_planning_quantity, position
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			ci.ID, cart.ID, ci.ItemID, ci.AddedAt,
			ci.PlannedStore, nullFloat(ci.PlannedPrice), nullString(ci.PlannedUnit), ci.Quantity,
			nullString(ci.ActualStore), nullFloat(ci.ActualPrice), nullFloat(ci.ActualQuantity), nullString(ci.ActualUnit),
			ci.IsFulfilled, ci.IsSkippedDuringShopping, ci.WasEditedDuringShopping, ci.AddedDuringShopping,
			ci.IsShoppingOnlyItem, ci.ShoppingOnlyName, ci.ShoppingOnlyStore,
			ci.ShoppingOnlyPrice, ci.ShoppingOnlyUnit, ci.ShoppingOnlyCategory,
			nullFloat(ci.OriginalPlanningQuantity), i,
		)
		if err != nil {
			return fmt.Errorf("failed to save cart item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cart: %w", err)
	}

	slog.Debug("saved cart", "cart_id", cart.ID, "status", cart.Status, "items", len(cart.Items))
	return nil
}

// GetCart retrieves a cart and its items by ID.
func (s *SQLiteStorage) GetCart(ctx context.Context, id string) (*model.Cart, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	carts, err := s.queryCarts(ctx, `
		SELECT id, name, budget, status, created_at, started_at, completed_at
		FROM carts WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(carts) == 0 {
		return nil, fmt.Errorf("cart %s: %w", id, common.ErrNotFound)
	}
	return carts[0], nil
}

// ListCarts returns all carts, newest first.
func (s *SQLiteStorage) ListCarts(ctx context.Context) ([]*model.Cart, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryCarts(ctx, `
		SELECT id, name, budget, status, created_at, started_at, completed_at
		FROM carts ORDER BY created_at DESC`)
}

// GetCompletedCarts returns the carts the insights aggregator consumes,
// ordered by completion date ascending.
func (s *SQLiteStorage) GetCompletedCarts(ctx context.Context) ([]*model.Cart, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryCarts(ctx, `
		SELECT id, name, budget, status, created_at, started_at, completed_at
		FROM carts WHERE status = ? ORDER BY completed_at`, string(model.CartStatusCompleted))
}

func (s *SQLiteStorage) queryCarts(ctx context.Context, query string, args ...any) ([]*model.Cart, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query carts: %w", err)
	}
	defer rows.Close()

	var carts []*model.Cart
	byID := make(map[string]*model.Cart)
	for rows.Next() {
		var c model.Cart
		var status string
		var startedAt, completedAt sql.NullTime
		if err := rows.Scan(&c.ID, &c.Name, &c.Budget, &status, &c.CreatedAt, &startedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cart: %w", err)
		}
		c.Status = model.CartStatus(status)
		c.StartedAt = timePtr(startedAt)
		c.CompletedAt = timePtr(completedAt)
		carts = append(carts, &c)
		byID[c.ID] = &c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating carts: %w", err)
	}
	if len(carts) == 0 {
		return nil, nil
	}

	if err := s.attachCartItems(ctx, byID); err != nil {
		return nil, err
	}
	return carts, nil
}

func (s *SQLiteStorage) attachCartItems(ctx context.Context, carts map[string]*model.Cart) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id, cart_id, item_id, added_at,
			planned_store, planned_price, planned_unit, quantity,
			actual_store, actual_price, actual_quantity, actual_unit,
			is_fulfilled, is_skipped, was_edited, added_during_shopping,
			is_shopping_only, shopping_only_name, shopping_only_store,
			shopping_only_price, shopping_only_unit, shopping_only_category,
			original_planning_quantity
		FROM cart_items
		ORDER BY cart_id, position
	`)
	if err != nil {
		return fmt.Errorf("failed to query cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ci model.CartItem
		var cartID string
		var plannedPrice, actualPrice, actualQuantity, originalQty sql.NullFloat64
		var plannedUnit, actualStore, actualUnit sql.NullString
		err := rows.Scan(
			&ci.ID, &cartID, &ci.ItemID, &ci.AddedAt,
			&ci.PlannedStore, &plannedPrice, &plannedUnit, &ci.Quantity,
			&actualStore, &actualPrice, &actualQuantity, &actualUnit,
			&ci.IsFulfilled, &ci.IsSkippedDuringShopping, &ci.WasEditedDuringShopping, &ci.AddedDuringShopping,
			&ci.IsShoppingOnlyItem, &ci.ShoppingOnlyName, &ci.ShoppingOnlyStore,
			&ci.ShoppingOnlyPrice, &ci.ShoppingOnlyUnit, &ci.ShoppingOnlyCategory,
			&originalQty,
		)
		if err != nil {
			return fmt.Errorf("failed to scan cart item: %w", err)
		}
		ci.PlannedPrice = floatPtr(plannedPrice)
		ci.PlannedUnit = stringPtr(plannedUnit)
		ci.ActualStore = stringPtr(actualStore)
		ci.ActualPrice = floatPtr(actualPrice)
		ci.ActualQuantity = floatPtr(actualQuantity)
		ci.ActualUnit = stringPtr(actualUnit)
		ci.OriginalPlanningQuantity = floatPtr(originalQty)

		if cart, ok := carts[cartID]; ok {
			cart.Items = append(cart.Items, &ci)
		}
	}
	return rows.Err()
}

// DeleteCart removes a cart and its items, leaving a trash-log record of
// what the trip looked like.
func (s *SQLiteStorage) DeleteCart(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var name string
	var completedAt sql.NullTime
	err = tx.QueryRowContext(ctx, `SELECT name, completed_at FROM carts WHERE id = ?`, id).Scan(&name, &completedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("cart %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to load cart for deletion: %w", err)
	}

	var itemCount int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM cart_items WHERE cart_id = ?`, id).Scan(&itemCount); err != nil {
		return fmt.Errorf("failed to count cart items: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO deleted_carts (cart_id, name, item_count, completed_at)
		VALUES (?, ?, ?, ?)
	`, id, name, itemCount, completedAt)
	if err != nil {
		return fmt.Errorf("failed to record deleted cart: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM carts WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cart deletion: %w", err)
	}

	slog.Debug("deleted cart", "cart_id", id, "items", itemCount)
	return nil
}

// ListDeletedCarts returns the trash log, most recent deletion first.
func (s *SQLiteStorage) ListDeletedCarts(ctx context.Context) ([]service.DeletedCart, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, cart_id, name, item_count, completed_at, deleted_at
		FROM deleted_carts
		ORDER BY deleted_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query deleted carts: %w", err)
	}
	defer rows.Close()

	var deleted []service.DeletedCart
	for rows.Next() {
		var d service.DeletedCart
		var completedAt sql.NullTime
		if err := rows.Scan(&d.ID, &d.CartID, &d.Name, &d.ItemCount, &completedAt, &d.DeletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan deleted cart: %w", err)
		}
		d.CompletedAt = timePtr(completedAt)
		deleted = append(deleted, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deleted carts: %w", err)
	}
	return deleted, nil
}
