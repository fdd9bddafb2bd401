// Package service defines the contracts between the domain layer and its
// persistence backend.
package service

import (
	"context"
	"time"

	"github.com/harrandt/pricewise/internal/model"
	"github.com/harrandt/pricewise/internal/vault"
)

// DeletedCart is a trash-log record of a removed cart. There is no restore;
// the record only preserves what the trip looked like when it was deleted.
type DeletedCart struct {
	DeletedAt   time.Time
	CompletedAt *time.Time
	CartID      string
	Name        string
	ID          int64
	ItemCount   int
}

// Store defines the contract for our persistence layer. The persisted shape
// is the vault object graph with cascade-delete on the stated ownerships:
// category -> items -> price options, cart -> cart items.
type Store interface {
	// Vault graph
	LoadVault(ctx context.Context) (*vault.Vault, error)
	SaveCategory(ctx context.Context, category *model.Category) error
	DeleteCategory(ctx context.Context, id string) error
	SaveItem(ctx context.Context, item *model.Item) error
	DeleteItem(ctx context.Context, id string) error

	// Stores registry
	AddStore(ctx context.Context, name string) error
	ListStores(ctx context.Context) ([]string, error)
	RenameStore(ctx context.Context, oldName, newName string) error
	DeleteStore(ctx context.Context, name string) error

	// Carts
	SaveCart(ctx context.Context, cart *model.Cart) error
	GetCart(ctx context.Context, id string) (*model.Cart, error)
	ListCarts(ctx context.Context) ([]*model.Cart, error)
	GetCompletedCarts(ctx context.Context) ([]*model.Cart, error)
	DeleteCart(ctx context.Context, id string) error
	ListDeletedCarts(ctx context.Context) ([]DeletedCart, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}
