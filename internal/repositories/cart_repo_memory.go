package repositories

import (
	"context"
	"sync"

	"bakery/internal/cart"
)

// MemoryCartRepository keeps carts in process memory.
type MemoryCartRepository struct {
	carts map[string][]cart.Line
	mu    sync.Mutex
}

func NewMemoryCartRepository() *MemoryCartRepository {
	return &MemoryCartRepository{carts: make(map[string][]cart.Line)}
}

func (r *MemoryCartRepository) Get(_ context.Context, sessionID string) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := cart.New()
	if lines, ok := r.carts[sessionID]; ok {
		c.Lines = append(c.Lines, lines...)
	}
	return c, nil
}

func (r *MemoryCartRepository) Save(_ context.Context, sessionID string, c *cart.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c.IsEmpty() {
		delete(r.carts, sessionID)
		return nil
	}
	r.carts[sessionID] = c.Snapshot()
	return nil
}

func (r *MemoryCartRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, sessionID)
	return nil
}
