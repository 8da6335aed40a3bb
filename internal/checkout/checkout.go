package checkout

import (
	"context"
	"errors"

	"storefront-demo/internal/cart"
	"storefront-demo/internal/model"
)

// ErrEmptyCart rejects checkout before any request is made.
var ErrEmptyCart = errors.New("cart is empty")

// OrderPlacer is the slice of the API client checkout needs.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order model.OrderRequest) error
}

// Details are the delivery fields the user fills in on the checkout
// screen.
type Details struct {
	Name          string
	Address       string
	MobileNumber  string
	PaymentMethod string
}

// PlaceOrder composes an order from a fresh cart snapshot and submits
// it. The cart is cleared only after the server accepts the order; a
// failed placement leaves it untouched so the user can retry.
func PlaceOrder(ctx context.Context, client OrderPlacer, store *cart.Store, d Details) error {
	snap := store.Snapshot()
	if len(snap.Items) == 0 {
		return ErrEmptyCart
	}

	items := make([]model.OrderItem, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, model.OrderItem{
			ProductID: it.ID,
			Quantity:  it.Quantity,
			Price:     it.Price,
		})
	}

	order := model.OrderRequest{
		Name:          d.Name,
		Address:       d.Address,
		MobileNumber:  d.MobileNumber,
		PaymentMethod: d.PaymentMethod,
		Items:         items,
		Total:         snap.Total,
	}

	if err := client.PlaceOrder(ctx, order); err != nil {
		return err
	}

	store.Clear()
	return nil
}
