package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema: vault graph and carts",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS categories (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					sort_order INTEGER NOT NULL DEFAULT 0,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS items (
					id TEXT PRIMARY KEY,
					category_id TEXT NOT NULL,
					name TEXT NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_items_category ON items(category_id)`,

				`CREATE TABLE IF NOT EXISTS price_options (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					item_id TEXT NOT NULL,
					store TEXT NOT NULL,
					price REAL NOT NULL,
					unit TEXT NOT NULL DEFAULT '',
					position INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_price_options_item ON price_options(item_id)`,

				`CREATE TABLE IF NOT EXISTS stores (
					name TEXT PRIMARY KEY,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS carts (
					id TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					budget REAL NOT NULL DEFAULT 0,
					status TEXT NOT NULL,
					created_at DATETIME NOT NULL,
					started_at DATETIME,
					completed_at DATETIME
				)`,

				`CREATE TABLE IF NOT EXISTS cart_items (
					id TEXT PRIMARY KEY,
					cart_id TEXT NOT NULL,
					item_id TEXT NOT NULL,
					added_at DATETIME NOT NULL,
					planned_store TEXT NOT NULL DEFAULT '',
					planned_price REAL,
					planned_unit TEXT,
					quantity REAL NOT NULL DEFAULT 0,
					actual_store TEXT,
					actual_price REAL,
					actual_quantity REAL,
					actual_unit TEXT,
					is_fulfilled INTEGER NOT NULL DEFAULT 0,
					is_skipped INTEGER NOT NULL DEFAULT 0,
					was_edited INTEGER NOT NULL DEFAULT 0,
					added_during_shopping INTEGER NOT NULL DEFAULT 0,
					is_shopping_only INTEGER NOT NULL DEFAULT 0,
					shopping_only_name TEXT NOT NULL DEFAULT '',
					shopping_only_store TEXT NOT NULL DEFAULT '',
					shopping_only_price REAL NOT NULL DEFAULT 0,
					shopping_only_unit TEXT NOT NULL DEFAULT '',
					shopping_only_category TEXT NOT NULL DEFAULT '',
					original_planning_quantity REAL,
					position INTEGER NOT NULL DEFAULT 0,
					FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE
				)`,
				`CREATE INDEX idx_cart_items_cart ON cart_items(cart_id)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add trash log for deleted carts",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS deleted_carts (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					cart_id TEXT NOT NULL,
					name TEXT NOT NULL,
					item_count INTEGER NOT NULL DEFAULT 0,
					completed_at DATETIME,
					deleted_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)
			`)
			return err
		},
	},
	{
		Version:     3,
		Description: "Index carts by status for insights queries",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_carts_status ON carts(status)`,
				`CREATE INDEX IF NOT EXISTS idx_carts_completed_at ON carts(completed_at)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query '%s': %w", query, err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	// Get current version
	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	// Apply migrations
	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	// Verify we're at the expected schema version
	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
