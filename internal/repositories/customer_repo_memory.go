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

// MemoryCustomerRepository is an in-memory implementation of CustomerRepository.
type MemoryCustomerRepository struct {
	customers map[string]models.Customer
	mu        sync.RWMutex
}

func NewMemoryCustomerRepository() *MemoryCustomerRepository {
	return &MemoryCustomerRepository{
		customers: make(map[string]models.Customer),
	}
}

func (r *MemoryCustomerRepository) GetAll(_ context.Context) ([]models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
	return list, nil
}

func (r *MemoryCustomerRepository) GetByID(_ context.Context, id string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[id]
	if !ok {
		return nil, fmt.Errorf("customer with ID %s: %w", id, ErrNotFound)
	}
	return &customer, nil
}

func (r *MemoryCustomerRepository) Create(_ context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if customer.ID == "" {
		customer.ID = uuid.New().String()
	}
	now := time.Now()
	customer.CreatedAt = now
	customer.UpdatedAt = now
	r.customers[customer.ID] = *customer
	return nil
}

func (r *MemoryCustomerRepository) Update(_ context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.customers[customer.ID]
	if !ok {
		return fmt.Errorf("customer with ID %s: %w", customer.ID, ErrNotFound)
	}
	customer.CreatedAt = current.CreatedAt
	customer.UpdatedAt = time.Now()
	r.customers[customer.ID] = *customer
	return nil
}

func (r *MemoryCustomerRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[id]; !ok {
		return fmt.Errorf("customer with ID %s: %w", id, ErrNotFound)
	}
	delete(r.customers, id)
	return nil
}
