package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/order"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	o := order.Order{
		CustomerName: "Ada Lovelace",
		Email:        "ada@example.com",
		Address:      "12 Analytical Row",
		Total:        decimal.RequireFromString("105.22"),
		Details:      "3x Classic White T-Shirt @ $19.99 = $59.97\n1x Bluetooth Speaker @ $45.25 = $45.25",
	}
	require.NoError(t, repo.Create(ctx, &o))
	assert.Equal(t, int64(1), o.ID)
	assert.False(t, o.CreatedAt.IsZero())

	got, err := repo.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.CustomerName)
	assert.Equal(t, o.Details, got.Details)
	assert.True(t, got.Total.Equal(o.Total), "total %s", got.Total)
}

func TestGetMissing(t *testing.T) {
	repo := openTestRepo(t)
	_, err := repo.Get(context.Background(), 42)
	assert.ErrorIs(t, err, order.ErrNotFound)
}

func TestListOrderedByID(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	for i, total := range []string{"10.00", "20.50", "30.99"} {
		o := order.Order{
			CustomerName: "Customer",
			Email:        "c@example.com",
			Address:      "Somewhere",
			Total:        decimal.RequireFromString(total),
			Details:      "items",
		}
		require.NoError(t, repo.Create(ctx, &o))
		assert.Equal(t, int64(i+1), o.ID)
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.True(t, list[2].Total.Equal(decimal.RequireFromString("30.99")))
}

func TestTableSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "orders.db")

	repo, err := Open(path)
	require.NoError(t, err)
	o := order.Order{CustomerName: "Ada", Email: "a@b.c", Address: "x", Total: decimal.RequireFromString("1.00"), Details: "d"}
	require.NoError(t, repo.Create(ctx, &o))
	require.NoError(t, repo.Close())

	repo, err = Open(path)
	require.NoError(t, err)
	defer repo.Close()
	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
