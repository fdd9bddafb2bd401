package vault

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/harrandt/pricewise/internal/model"
)

// NewCart creates a cart in the Planning state. A budget of 0 means no
// budget was set.
func (v *Vault) NewCart(name string, budget float64) *model.Cart {
	if budget < 0 {
		budget = 0
	}
	c := &model.Cart{
		ID:        uuid.NewString(),
		Name:      name,
		Budget:    budget,
		Status:    model.CartStatusPlanning,
		CreatedAt: time.Now(),
	}
	v.Carts = append(v.Carts, c)
	slog.Debug("created cart", "cart_id", c.ID, "name", name, "budget", budget)
	return c
}

// FindCart returns the cart with the given ID.
func (v *Vault) FindCart(id string) (*model.Cart, bool) {
	for _, c := range v.Carts {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// DeleteCart removes a cart and all of its items.
func (v *Vault) DeleteCart(id string) bool {
	for i, c := range v.Carts {
		if c.ID == id {
			c.Items = nil
			v.Carts = append(v.Carts[:i], v.Carts[i+1:]...)
			slog.Debug("deleted cart", "cart_id", id)
			return true
		}
	}
	return false
}

// CompletedCarts returns the carts that have finished their trips.
func (v *Vault) CompletedCarts() []*model.Cart {
	var out []*model.Cart
	for _, c := range v.Carts {
		if c.IsCompleted() {
			out = append(out, c)
		}
	}
	return out
}
