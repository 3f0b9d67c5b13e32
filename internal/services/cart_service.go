package services

import (
	"context"
	"errors"

	"bakery/internal/cart"
	"bakery/internal/models"
	"bakery/internal/repositories"

	"go.uber.org/zap"
)

// CartService keeps each session's cart between requests.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
	orders   *OrderService
	logger   *zap.Logger
}

func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository, orders *OrderService, logger *zap.Logger) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		orders:   orders,
		logger:   logger,
	}
}

// Get returns the session's cart; a session without one gets an empty cart.
func (s *CartService) Get(ctx context.Context, sessionID string) (*cart.Cart, error) {
	c, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, NewStorage("failed to load cart", err)
	}
	return c, nil
}

// AddLine snapshots the current name and price of productID into the cart.
func (s *CartService) AddLine(ctx context.Context, sessionID, productID string, quantity int) (*cart.Cart, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewValidation("product %s does not exist", productID)
		}
		return nil, NewStorage("failed to load product", err)
	}
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.AddLine(*product, quantity); err != nil {
		return nil, &Error{Kind: KindValidation, Message: "cannot add line", Err: err}
	}
	if err := s.carts.Save(ctx, sessionID, c); err != nil {
		return nil, NewStorage("failed to save cart", err)
	}
	return c, nil
}

// Clear discards the session's cart.
func (s *CartService) Clear(ctx context.Context, sessionID string) error {
	if err := s.carts.Delete(ctx, sessionID); err != nil {
		return NewStorage("failed to clear cart", err)
	}
	return nil
}

// Checkout converts the session's cart into an order. The stored cart is
// removed only when the order was written.
func (s *CartService) Checkout(ctx context.Context, sessionID string, req CheckoutRequest) (*models.Order, error) {
	c, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	order, err := s.orders.Checkout(ctx, c, req)
	if err != nil {
		return nil, err
	}
	if err := s.carts.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("failed to drop cart after checkout", zap.String("session_id", sessionID), zap.Error(err))
	}
	return order, nil
}
