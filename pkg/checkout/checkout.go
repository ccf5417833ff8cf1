// Package checkout ties the cart ledger to the order repository: it validates
// the customer's details, persists the order, and only then mutates stock and
// clears the cart.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"storefront/pkg/cart"
	"storefront/pkg/catalog"
	"storefront/pkg/order"
)

var (
	// ErrEmptyCart indicates checkout was attempted with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidInput indicates one or more required customer fields were
	// blank. The concrete error is an *InputError naming them.
	ErrInvalidInput = errors.New("missing required field")
)

// InputError lists the customer fields that were empty after trimming.
type InputError struct {
	Fields []string
}

func (e *InputError) Error() string {
	return "missing required field(s): " + strings.Join(e.Fields, ", ")
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// Customer carries the checkout form fields.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Service orchestrates order placement for one shopping session.
type Service struct {
	mu      sync.Mutex
	catalog *catalog.Store
	cart    *cart.Cart
	repo    order.Repository
}

// New returns a checkout service over the session's catalog, cart and
// order repository.
func New(cs *catalog.Store, c *cart.Cart, repo order.Repository) *Service {
	return &Service{catalog: cs, cart: c, repo: repo}
}

// Cart exposes the session's ledger.
func (s *Service) Cart() *cart.Cart { return s.cart }

// PlaceOrder runs the checkout sequence: reject an empty cart, validate the
// customer fields, persist the order, then decrement stock and clear the
// cart. Persistence comes strictly before any local mutation, so a failed
// write leaves cart and stock exactly as they were.
func (s *Service) PlaceOrder(ctx context.Context, cust Customer) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.IsEmpty() {
		return order.Order{}, ErrEmptyCart
	}
	cust.Name = strings.TrimSpace(cust.Name)
	cust.Email = strings.TrimSpace(cust.Email)
	cust.Address = strings.TrimSpace(cust.Address)
	var missing []string
	if cust.Name == "" {
		missing = append(missing, "name")
	}
	if cust.Email == "" {
		missing = append(missing, "email")
	}
	if cust.Address == "" {
		missing = append(missing, "address")
	}
	if len(missing) > 0 {
		return order.Order{}, &InputError{Fields: missing}
	}

	items := s.cart.Items()
	o := order.Order{
		CustomerName: cust.Name,
		Email:        cust.Email,
		Address:      cust.Address,
		Total:        s.cart.Subtotal(),
		Details:      summarize(items),
	}
	if err := s.repo.Create(ctx, &o); err != nil {
		return order.Order{}, fmt.Errorf("persist order: %w", err)
	}

	// The order is durable; now apply the local side of the checkout.
	for _, it := range items {
		if err := s.catalog.DecrementStock(it.Product.ID, it.Quantity); err != nil {
			// The ledger invariant (quantity <= stock) makes this
			// unreachable; if it trips, the aggregate state is corrupt.
			return o, fmt.Errorf("decrement stock for product %d: %w", it.Product.ID, err)
		}
	}
	s.cart.Clear()
	return o, nil
}

func summarize(items []*cart.Item) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%dx %s @ %s = %s",
			it.Quantity, it.Product.Name, usd(it.Product.Price), usd(it.LineTotal())))
	}
	return strings.Join(lines, "\n")
}

func usd(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
