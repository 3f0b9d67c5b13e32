package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"bakery/internal/models"

	"github.com/google/uuid"
)

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
// Header and lines live in one map entry, so a create or delete is atomic
// under the write lock.
type MemoryOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]models.Order),
	}
}

func copyOrder(o models.Order) models.Order {
	lines := make([]models.OrderLine, len(o.Lines))
	copy(lines, o.Lines)
	o.Lines = lines
	return o
}

// GetAll returns orders newest first.
func (r *MemoryOrderRepository) GetAll(_ context.Context, filter OrderFilter) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if !filter.Since.IsZero() && order.SoldAt.Before(filter.Since) {
			continue
		}
		orderList = append(orderList, copyOrder(order))
	}
	sort.Slice(orderList, func(i, j int) bool {
		if !orderList[i].SoldAt.Equal(orderList[j].SoldAt) {
			return orderList[i].SoldAt.After(orderList[j].SoldAt)
		}
		return orderList[i].ID < orderList[j].ID
	})
	return orderList, nil
}

// GetByID returns an order by its ID.
func (r *MemoryOrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	order = copyOrder(order)
	return &order, nil
}

// CreateWithLines stores the order and its lines.
func (r *MemoryOrderRepository) CreateWithLines(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Lines {
		if order.Lines[i].ID == "" {
			order.Lines[i].ID = uuid.New().String()
		}
		order.Lines[i].OrderID = order.ID
		order.Lines[i].Position = i
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.ID] = copyOrder(*order)
	return nil
}

// UpdateStatus updates the status of an order.
func (r *MemoryOrderRepository) UpdateStatus(_ context.Context, id string, status models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

// Delete removes the order and its lines.
func (r *MemoryOrderRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	delete(r.orders, id)
	return nil
}
