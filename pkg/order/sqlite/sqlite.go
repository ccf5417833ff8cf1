// Package sqlite implements an order repository backed by a local SQLite
// database file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"storefront/pkg/order"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	customer_name TEXT NOT NULL,
	email TEXT NOT NULL,
	address TEXT NOT NULL,
	total TEXT NOT NULL,
	details TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// Repository persists orders in SQLite.
type Repository struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and ensures the
// orders table exists.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create orders table: %w", err)
	}
	return &Repository{db: db}, nil
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Create appends a new order row, assigning the id and creation time.
func (r *Repository) Create(ctx context.Context, o *order.Order) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO orders (customer_name, email, address, total, details, created_at) VALUES (?,?,?,?,?,?)",
		o.CustomerName, o.Email, o.Address, o.Total.StringFixed(2), o.Details, now)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("order id: %w", err)
	}
	o.ID = id
	o.CreatedAt = now
	return nil
}

// Get retrieves an order by id.
func (r *Repository) Get(ctx context.Context, id int64) (order.Order, error) {
	var o order.Order
	var total string
	err := r.db.QueryRowContext(ctx,
		"SELECT id, customer_name, email, address, total, details, created_at FROM orders WHERE id=?", id).
		Scan(&o.ID, &o.CustomerName, &o.Email, &o.Address, &total, &o.Details, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return order.Order{}, order.ErrNotFound
	}
	if err != nil {
		return order.Order{}, fmt.Errorf("select order: %w", err)
	}
	if err := scanTotal(&o, total); err != nil {
		return order.Order{}, err
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
		var total string
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.Email, &o.Address, &total, &o.Details, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := scanTotal(&o, total); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func scanTotal(o *order.Order, s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("parse total %q: %w", s, err)
	}
	o.Total = d
	return nil
}
