// Package storage provides the data persistence layer for the pricewise engine.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harrandt/pricewise/internal/model"
)

// Validation errors.
var (
	ErrNilContext      = errors.New("context cannot be nil")
	ErrEmptyString     = errors.New("string parameter cannot be empty")
	ErrNilParameter    = errors.New("parameter cannot be nil")
	ErrInvalidCart     = errors.New("invalid cart")
	ErrInvalidItem     = errors.New("invalid item")
	ErrInvalidCategory = errors.New("invalid category")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateCategory validates a category before persisting it.
func validateCategory(category *model.Category) error {
	if category == nil {
		return fmt.Errorf("%w: category", ErrNilParameter)
	}
	if category.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidCategory)
	}
	if strings.TrimSpace(category.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	return nil
}

// validateItem validates an item before persisting it.
func validateItem(item *model.Item) error {
	if item == nil {
		return fmt.Errorf("%w: item", ErrNilParameter)
	}
	if item.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidItem)
	}
	if strings.TrimSpace(item.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidItem)
	}
	if item.CategoryID == "" {
		return fmt.Errorf("%w: missing category ID", ErrInvalidItem)
	}
	return nil
}

// validateCart validates a cart before persisting it.
func validateCart(cart *model.Cart) error {
	if cart == nil {
		return fmt.Errorf("%w: cart", ErrNilParameter)
	}
	if cart.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidCart)
	}
	if !cart.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidCart, cart.Status)
	}
	if cart.CreatedAt.IsZero() {
		return fmt.Errorf("%w: missing creation time", ErrInvalidCart)
	}
	return nil
}
