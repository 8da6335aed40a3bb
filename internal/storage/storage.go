package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("storage: key not found")

// Keys used by the client. The cart store owns the first two, the
// session manager owns the token key.
const (
	KeyCart     = "cart"
	KeyCartView = "cartItems"
	KeyToken    = "token"
)

// Store is a string-keyed, string-valued persistent store. Same-key
// writes are expected to be serialized by the implementation.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}
