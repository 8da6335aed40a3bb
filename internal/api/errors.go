package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrInvalidOTP is returned by VerifyOTP when the server rejects the
// code.
var ErrInvalidOTP = errors.New("invalid otp")

// NetworkError wraps a transport failure: the request never produced a
// response (connection refused, timeout, DNS, ...).
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response from the server.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: server returned %d: %s", e.Op, e.Code, e.Body)
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusUnauthorized
}
