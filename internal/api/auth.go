package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type otpRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type verifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	OTP         string `json:"otp"`
}

type verifyOTPResponse struct {
	Token string `json:"token"`
}

// RequestOTP asks the server to send a one-time code to the phone
// number. No token is attached and no local state changes on success.
func (c *Client) RequestOTP(ctx context.Context, phoneNumber string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/request-otp",
		otpRequest{PhoneNumber: phoneNumber}, nil, false)
}

// VerifyOTP exchanges the code for a bearer token. A rejected code is
// reported as ErrInvalidOTP.
func (c *Client) VerifyOTP(ctx context.Context, phoneNumber, otp string) (string, error) {
	var res verifyOTPResponse
	err := c.do(ctx, http.MethodPost, "/api/auth/verify-otp",
		verifyOTPRequest{PhoneNumber: phoneNumber, OTP: otp}, &res, false)

	var se *StatusError
	if errors.As(err, &se) {
		return "", fmt.Errorf("%w: %s", ErrInvalidOTP, se.Body)
	}
	if err != nil {
		return "", err
	}
	return res.Token, nil
}
