package api

import (
	"context"
	"net/http"

	"storefront-demo/internal/model"
)

// PlaceOrder submits the composed order. The caller decides what to do
// with the cart afterwards; a failed placement must leave it intact.
func (c *Client) PlaceOrder(ctx context.Context, order model.OrderRequest) error {
	return c.do(ctx, http.MethodPost, "/api/order/add", order, nil, true)
}

// OrderHistory lists the caller's past orders.
func (c *Client) OrderHistory(ctx context.Context) ([]model.OrderSummary, error) {
	var orders []model.OrderSummary
	if err := c.do(ctx, http.MethodGet, "/api/order-history/all", nil, &orders, true); err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderDetail fetches one past order including its line items.
func (c *Client) OrderDetail(ctx context.Context, id string) (*model.OrderDetail, error) {
	var detail model.OrderDetail
	if err := c.do(ctx, http.MethodGet, "/api/order-history/"+id, nil, &detail, true); err != nil {
		return nil, err
	}
	return &detail, nil
}
