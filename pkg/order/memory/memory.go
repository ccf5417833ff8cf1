// Package memory implements an in-memory order repository.
package memory

import (
	"context"
	"sync"
	"time"

	"storefront/pkg/order"
)

// Repository provides an in-memory implementation of order.Repository.
type Repository struct {
	mu     sync.RWMutex
	nextID int64
	orders map[int64]order.Order
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{orders: make(map[int64]order.Order)}
}

// Create stores the order, assigning the next id and the current time.
func (r *Repository) Create(ctx context.Context, o *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	o.ID = r.nextID
	o.CreatedAt = time.Now().UTC()
	r.orders[o.ID] = *o
	return nil
}

// Get retrieves an order by id.
func (r *Repository) Get(ctx context.Context, id int64) (order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orders[id]
	if !ok {
		return order.Order{}, order.ErrNotFound
	}
	return o, nil
}

// List returns all orders, oldest first.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]order.Order, 0, len(r.orders))
	for id := int64(1); id <= r.nextID; id++ {
		if o, ok := r.orders[id]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}
