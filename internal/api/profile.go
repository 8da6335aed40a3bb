package api

import (
	"context"
	"net/http"

	"storefront-demo/internal/model"
)

// GetProfile fetches the signed-in user's profile.
func (c *Client) GetProfile(ctx context.Context) (*model.UserProfile, error) {
	var profile model.UserProfile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &profile, true); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile replaces the profile fields. Callers keep their
// in-memory state unchanged until this succeeds.
func (c *Client) UpdateProfile(ctx context.Context, profile model.UserProfile) error {
	return c.do(ctx, http.MethodPut, "/api/profile", profile, nil, true)
}

// AddAddress creates a delivery address and returns it with the
// server-assigned id.
func (c *Client) AddAddress(ctx context.Context, addr model.DeliveryAddress) (*model.DeliveryAddress, error) {
	var created model.DeliveryAddress
	if err := c.do(ctx, http.MethodPost, "/api/profile/addresses", addr, &created, true); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateAddress(ctx context.Context, id string, addr model.DeliveryAddress) error {
	return c.do(ctx, http.MethodPut, "/api/profile/addresses/"+id, addr, nil, true)
}

func (c *Client) DeleteAddress(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/profile/addresses/"+id, nil, nil, true)
}

func (c *Client) SetDefaultAddress(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/api/profile/addresses/"+id+"/default", nil, nil, true)
}
