// Package cart implements the shopping cart ledger: a mapping from product id
// to a requested quantity, with decimal money arithmetic for line and order
// totals.
package cart

import (
	"errors"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"storefront/pkg/catalog"
)

var (
	// ErrInsufficientStock indicates the requested quantity exceeds the
	// product's available stock. The ledger is left unchanged.
	ErrInsufficientStock = errors.New("not enough stock for that quantity")
	// ErrInvalidQuantity indicates a non-positive quantity.
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	// ErrNotFound indicates the cart has no entry for the product id.
	ErrNotFound = errors.New("cart item not found")
)

// Item is one cart entry. It references the catalog's product rather than
// copying it, so price and stock are never stale.
type Item struct {
	Product  *catalog.Product `json:"product"`
	Quantity int              `json:"quantity"`
}

// LineTotal is unit price times quantity, rounded half-up to 2 decimals.
func (i *Item) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity))).Round(2)
}

// Cart is the ledger of items a customer intends to buy. At most one entry
// exists per product id, and every entry's quantity is positive and within
// the product's stock. A single mutex guards the session's ledger.
type Cart struct {
	mu    sync.Mutex
	items map[int]*Item
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{items: make(map[int]*Item)}
}

// Add puts qty units of the product in the cart. If the product already has
// an entry the quantities are summed; the combined quantity must still fit in
// stock or the call fails with ErrInsufficientStock and the existing entry is
// untouched. SetQuantity overwrites instead of summing; both are kept because
// the storefront exposes both gestures (add-to-cart buttons vs editing a
// quantity in the cart view).
func (c *Cart) Add(p *catalog.Product, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if it, ok := c.items[p.ID]; ok {
		if it.Quantity+qty > p.Stock {
			return ErrInsufficientStock
		}
		it.Quantity += qty
		return nil
	}
	if qty > p.Stock {
		return ErrInsufficientStock
	}
	c.items[p.ID] = &Item{Product: p, Quantity: qty}
	return nil
}

// SetQuantity overwrites the entry's quantity. Zero is not accepted; removal
// is Remove's job.
func (c *Cart) SetQuantity(productID, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	it, ok := c.items[productID]
	if !ok {
		return ErrNotFound
	}
	if qty > it.Product.Stock {
		return ErrInsufficientStock
	}
	it.Quantity = qty
	return nil
}

// Remove deletes the entry for the product id. Removing an absent id is a
// no-op.
func (c *Cart) Remove(productID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, productID)
}

// Items returns the cart entries ordered by product id so renders are stable.
func (c *Cart) Items() []*Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.ID < out[j].Product.ID })
	return out
}

// Subtotal sums the line totals. Each line is already at 2 decimals; the sum
// is re-quantized anyway to rule out drift.
func (c *Cart) Subtotal() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.LineTotal())
	}
	return sum.Round(2)
}

// Count returns the total number of units across all entries.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no entries.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items) == 0
}

// Clear removes all entries.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[int]*Item)
}
