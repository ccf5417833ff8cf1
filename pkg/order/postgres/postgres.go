// Package postgres implements an order repository backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"storefront/pkg/order"
)

// Repository persists orders in PostgreSQL.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository and ensures the orders table exists.
func New(db *sql.DB) (*Repository, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		customer_name TEXT NOT NULL,
		email TEXT NOT NULL,
		address TEXT NOT NULL,
		total NUMERIC(12,2) NOT NULL,
		details TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		return nil, fmt.Errorf("create orders table: %w", err)
	}
	return &Repository{db: db}, nil
}

// Create appends a new order row.
func (r *Repository) Create(ctx context.Context, o *order.Order) error {
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO orders (customer_name, email, address, total, details) VALUES ($1,$2,$3,$4,$5) RETURNING id, created_at",
		o.CustomerName, o.Email, o.Address, o.Total, o.Details).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Get retrieves an order by id.
func (r *Repository) Get(ctx context.Context, id int64) (order.Order, error) {
	var o order.Order
	err := r.db.QueryRowContext(ctx,
		"SELECT id, customer_name, email, address, total, details, created_at FROM orders WHERE id=$1", id).
		Scan(&o.ID, &o.CustomerName, &o.Email, &o.Address, &o.Total, &o.Details, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return order.Order{}, order.ErrNotFound
	}
	if err != nil {
		return order.Order{}, fmt.Errorf("select order: %w", err)
	}
	return o, nil
}

// List fetches all orders, oldest first.
func (r *Repository) List(ctx context.Context) ([]order.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, customer_name, email, address, total, details, created_at FROM orders ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()
	var orders []order.Order
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.Email, &o.Address, &o.Total, &o.Details, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
