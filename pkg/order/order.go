// Package order defines the persisted order record and its repository.
package order

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Order is an immutable snapshot of a completed checkout. ID and CreatedAt
// are assigned by the repository on Create; Details is a human-readable
// line-item breakdown kept for audit, not for re-parsing.
type Order struct {
	ID           int64           `json:"id"`
	CustomerName string          `json:"customer_name"`
	Email        string          `json:"email"`
	Address      string          `json:"address"`
	Total        decimal.Decimal `json:"total"`
	Details      string          `json:"details"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Repository defines behavior for persisting orders. The table is
// append-only: records are never updated or deleted.
type Repository interface {
	// Create appends a new order and fills in o.ID and o.CreatedAt.
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id int64) (Order, error)
	List(ctx context.Context) ([]Order, error)
}

// ErrNotFound indicates the requested order does not exist.
var ErrNotFound = errors.New("order not found")
