package api

import (
	"context"
	"net/http"

	"storefront-demo/internal/model"
)

// Products fetches the full product catalog.
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/api/product", nil, &products, true); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductByID fetches a single product.
func (c *Client) ProductByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, "/api/product/"+id, nil, &product, true); err != nil {
		return nil, err
	}
	return &product, nil
}
