package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-demo/internal/cart"
	"storefront-demo/internal/model"
	"storefront-demo/internal/storage"
)

type fakePlacer struct {
	orders []model.OrderRequest
	err    error
}

func (f *fakePlacer) PlaceOrder(_ context.Context, order model.OrderRequest) error {
	f.orders = append(f.orders, order)
	return f.err
}

func newCart(t *testing.T) *cart.Store {
	t.Helper()
	store := cart.NewStore(storage.NewMemory(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(store.Close)
	return store
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	placer := &fakePlacer{}

	err := PlaceOrder(context.Background(), placer, newCart(t), Details{Name: "A"})

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, placer.orders)
}

func TestPlaceOrderComposesRequest(t *testing.T) {
	placer := &fakePlacer{}
	store := newCart(t)
	store.AddOrToggle(model.Product{ID: "1", Name: "Rice", Price: 10})
	store.ChangeQuantity("1", 1)
	store.AddOrToggle(model.Product{ID: "2", Name: "Milk", Price: 5})

	details := Details{
		Name:          "A Rahman",
		Address:       "12 Gulshan Ave",
		MobileNumber:  "+8801712345678",
		PaymentMethod: "card",
	}
	require.NoError(t, PlaceOrder(context.Background(), placer, store, details))

	require.Len(t, placer.orders, 1)
	order := placer.orders[0]
	assert.Equal(t, "A Rahman", order.Name)
	assert.Equal(t, "card", order.PaymentMethod)
	assert.Equal(t, []model.OrderItem{
		{ProductID: "1", Quantity: 2, Price: 10},
		{ProductID: "2", Quantity: 1, Price: 5},
	}, order.Items)
	// subtotal 25 + delivery 5
	assert.Equal(t, 30.0, order.Total)
}

func TestPlaceOrderSuccessClearsCart(t *testing.T) {
	placer := &fakePlacer{}
	store := newCart(t)
	store.AddOrToggle(model.Product{ID: "1", Price: 10})

	require.NoError(t, PlaceOrder(context.Background(), placer, store, Details{}))

	assert.Empty(t, store.Snapshot().Items)
}

func TestPlaceOrderFailureLeavesCartUntouched(t *testing.T) {
	placer := &fakePlacer{err: errors.New("server down")}
	store := newCart(t)
	store.AddOrToggle(model.Product{ID: "1", Price: 10})
	store.AddOrToggle(model.Product{ID: "2", Price: 5})
	before := store.Snapshot()

	err := PlaceOrder(context.Background(), placer, store, Details{})

	require.Error(t, err)
	assert.Equal(t, before.Items, store.Snapshot().Items)
}
