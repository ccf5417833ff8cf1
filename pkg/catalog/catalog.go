// Package catalog holds the products available for sale.
package catalog

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates the requested product does not exist. The store is
// seeded once at startup, so hitting this is a caller bug, not a user error.
var ErrNotFound = errors.New("product not found")

// Product is an item for sale. Only Stock changes after seeding, and only
// through Store.DecrementStock.
type Product struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description"`
}

// Store provides safe concurrent access to the product list.
type Store struct {
	mu       sync.RWMutex
	products []*Product
	byID     map[int]*Product
}

// NewStore returns a Store over the given products. Product ids must be
// unique; the store does not re-check this.
func NewStore(products []*Product) *Store {
	byID := make(map[int]*Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Store{products: products, byID: byID}
}

// Get returns the product with the given id.
func (s *Store) Get(id int) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// List returns all products in seed order.
func (s *Store) List() []*Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Product, len(s.products))
	copy(out, s.products)
	return out
}

// Search returns products matching a case-insensitive substring query over
// name and description, optionally restricted to a category. Empty query and
// empty (or "All") category match everything.
func (s *Store) Search(query, category string) []*Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q := strings.ToLower(strings.TrimSpace(query))
	var out []*Product
	for _, p := range s.products {
		if category != "" && category != "All" && p.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Categories returns the distinct product categories, sorted.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	var out []string
	for _, p := range s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// DecrementStock reduces a product's stock by qty. It refuses to drive stock
// negative; callers are expected to have validated qty against stock already,
// so a failure here means an invariant was broken upstream.
func (s *Store) DecrementStock(id, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if qty > p.Stock {
		return errors.New("stock underflow: quantity exceeds available stock")
	}
	p.Stock -= qty
	return nil
}
