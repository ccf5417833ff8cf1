package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/pkg/order"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	o := order.Order{
		CustomerName: "Ada Lovelace",
		Email:        "ada@example.com",
		Address:      "12 Analytical Row",
		Total:        decimal.RequireFromString("59.97"),
		Details:      "3x Classic White T-Shirt @ $19.99 = $59.97",
	}
	if err := repo.Create(ctx, &o); err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.ID != 1 {
		t.Fatalf("expected id 1, got %d", o.ID)
	}
	if o.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}
	got, err := repo.Get(ctx, o.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CustomerName != "Ada Lovelace" {
		t.Fatalf("unexpected customer: %s", got.CustomerName)
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	if _, err := repo.Get(ctx, 99); err != order.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIDsAreMonotonic(t *testing.T) {
	ctx := context.Background()
	repo := New()
	for want := int64(1); want <= 3; want++ {
		o := order.Order{CustomerName: "Ada", Email: "a@b.c", Address: "x", Total: decimal.New(1, 0)}
		if err := repo.Create(ctx, &o); err != nil {
			t.Fatalf("create: %v", err)
		}
		if o.ID != want {
			t.Fatalf("expected id %d, got %d", want, o.ID)
		}
	}
}
