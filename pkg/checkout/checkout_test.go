package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/cart"
	"storefront/pkg/catalog"
	"storefront/pkg/order"
	"storefront/pkg/order/memory"
)

// failRepo simulates a storage outage.
type failRepo struct{}

func (failRepo) Create(ctx context.Context, o *order.Order) error {
	return errors.New("database is locked")
}

func (failRepo) Get(ctx context.Context, id int64) (order.Order, error) {
	return order.Order{}, order.ErrNotFound
}

func (failRepo) List(ctx context.Context) ([]order.Order, error) {
	return nil, errors.New("database is locked")
}

func newService(t *testing.T, repo order.Repository) (*Service, *catalog.Store) {
	t.Helper()
	cs := catalog.NewStore(catalog.Seed())
	return New(cs, cart.New(), repo), cs
}

var customer = Customer{Name: "Ada Lovelace", Email: "ada@example.com", Address: "12 Analytical Row"}

func TestPlaceOrderEmptyCart(t *testing.T) {
	repo := memory.New()
	svc, _ := newService(t, repo)

	_, err := svc.PlaceOrder(context.Background(), customer)
	require.ErrorIs(t, err, ErrEmptyCart)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPlaceOrderMissingFields(t *testing.T) {
	repo := memory.New()
	svc, cs := newService(t, repo)
	p, err := cs.Get(1)
	require.NoError(t, err)
	require.NoError(t, svc.Cart().Add(p, 2))

	_, err = svc.PlaceOrder(context.Background(), Customer{Name: "   ", Email: "ada@example.com", Address: "12 Analytical Row"})
	require.ErrorIs(t, err, ErrInvalidInput)

	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, []string{"name"}, inputErr.Fields)

	// No order persisted, cart untouched.
	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, 2, svc.Cart().Count())
}

func TestPlaceOrderMissingFieldsNamesAll(t *testing.T) {
	repo := memory.New()
	svc, cs := newService(t, repo)
	p, err := cs.Get(1)
	require.NoError(t, err)
	require.NoError(t, svc.Cart().Add(p, 1))

	_, err = svc.PlaceOrder(context.Background(), Customer{})
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, []string{"name", "email", "address"}, inputErr.Fields)
}

func TestPlaceOrder(t *testing.T) {
	repo := memory.New()
	svc, cs := newService(t, repo)

	shirt, err := cs.Get(1)
	require.NoError(t, err)
	speaker, err := cs.Get(5)
	require.NoError(t, err)
	require.NoError(t, svc.Cart().Add(shirt, 3))
	require.NoError(t, svc.Cart().Add(speaker, 1))

	o, err := svc.PlaceOrder(context.Background(), customer)
	require.NoError(t, err)

	assert.Equal(t, int64(1), o.ID)
	assert.False(t, o.CreatedAt.IsZero())
	assert.True(t, o.Total.Equal(decimal.RequireFromString("105.22")), "total %s", o.Total)
	assert.Equal(t, "3x Classic White T-Shirt @ $19.99 = $59.97\n1x Bluetooth Speaker @ $45.25 = $45.25", o.Details)

	// Stock reduced by exactly the purchased quantities.
	assert.Equal(t, 22, shirt.Stock)
	assert.Equal(t, 14, speaker.Stock)

	// Ledger emptied.
	assert.True(t, svc.Cart().IsEmpty())

	stored, err := repo.Get(context.Background(), o.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(o.Total))
}

func TestPlaceOrderPersistFailure(t *testing.T) {
	svc, cs := newService(t, failRepo{})

	p, err := cs.Get(2)
	require.NoError(t, err)
	require.NoError(t, svc.Cart().Add(p, 4))

	_, err = svc.PlaceOrder(context.Background(), customer)
	require.Error(t, err)

	// Cart and stock are exactly as before the attempt.
	assert.Equal(t, 4, svc.Cart().Count())
	assert.Equal(t, 10, p.Stock)
}

func TestPlaceOrderTrimsCustomerFields(t *testing.T) {
	repo := memory.New()
	svc, cs := newService(t, repo)
	p, err := cs.Get(6)
	require.NoError(t, err)
	require.NoError(t, svc.Cart().Add(p, 1))

	o, err := svc.PlaceOrder(context.Background(), Customer{Name: "  Ada  ", Email: " ada@example.com ", Address: " 12 Analytical Row\n"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", o.CustomerName)
	assert.Equal(t, "ada@example.com", o.Email)
	assert.Equal(t, "12 Analytical Row", o.Address)
}
