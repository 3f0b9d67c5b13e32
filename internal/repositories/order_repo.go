package repositories

import (
	"context"
	"time"

	"bakery/internal/models"
)

// OrderFilter narrows order listings. A zero Since means no lower bound.
type OrderFilter struct {
	Since time.Time
}

// OrderRepository defines the interface for order data access.
// Orders are always returned with their lines, in the order they were sold.
type OrderRepository interface {
	GetAll(ctx context.Context, filter OrderFilter) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// CreateWithLines stores the header and every line, or nothing.
	CreateWithLines(ctx context.Context, order *models.Order) error
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error
	// Delete removes the order together with its lines.
	Delete(ctx context.Context, id string) error
}
