package repositories

import (
	"context"

	"bakery/internal/cart"
)

// CartRepository keeps one cart per ordering session between requests.
type CartRepository interface {
	// Get returns the session's cart, or an empty cart if none was saved.
	Get(ctx context.Context, sessionID string) (*cart.Cart, error)
	Save(ctx context.Context, sessionID string, c *cart.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
