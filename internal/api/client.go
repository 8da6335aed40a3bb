package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TokenSource supplies the current bearer token, or "" when the user
// is not signed in.
type TokenSource func(ctx context.Context) string

// Client talks to the remote catalog & order API. Requests carry the
// bearer token when one is available; a 401 response invokes the
// OnUnauthorized hook exactly once for that request and is then
// returned to the caller as a StatusError. The failed request is never
// retried automatically.
type Client struct {
	httpClient *http.Client
	baseURL    string

	tokenSource    TokenSource
	onUnauthorized func(ctx context.Context)
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
	}
}

// SetTokenSource wires the token provider. Must be called before the
// client is shared; the session manager does this at startup.
func (c *Client) SetTokenSource(ts TokenSource) { c.tokenSource = ts }

// SetOnUnauthorized wires the passive 401 handler.
func (c *Client) SetOnUnauthorized(fn func(ctx context.Context)) { c.onUnauthorized = fn }

// do issues one request. withAuth is false only for the two OTP
// endpoints, which must never carry a token.
func (c *Client) do(ctx context.Context, method, path string, payload, out any, withAuth bool) error {
	op := method + " " + path

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewBuffer(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: new request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	if withAuth && c.tokenSource != nil {
		if token := c.tokenSource(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &StatusError{Op: op, Code: resp.StatusCode, Body: string(b)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}

	return nil
}
