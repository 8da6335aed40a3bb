package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"storefront-demo/internal/api"
	"storefront-demo/internal/storage"
)

const (
	// CountryCode is prepended to the 10-digit local number before any
	// request. The phone number travels between screens as a plain
	// parameter.
	CountryCode    = "+880"
	localNumberLen = 10
	otpLen         = 6

	// ResendCooldown disables further OTP requests after each attempt,
	// successful or not.
	ResendCooldown = 30 * time.Second
)

// ValidationError reports malformed input caught before any network
// call is made.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

const (
	ErrPhoneLength ValidationError = "mobile number must be 10 digits after +880"
	ErrOTPLength   ValidationError = "otp must be 6 digits"
)

// ErrResendCooldown is returned while the resend window is still open.
var ErrResendCooldown = errors.New("otp recently requested, wait before resending")

// OTPClient is the slice of the API client the manager needs.
type OTPClient interface {
	RequestOTP(ctx context.Context, phoneNumber string) error
	VerifyOTP(ctx context.Context, phoneNumber, otp string) (string, error)
}

// Manager holds the current bearer token and drives the OTP handshake.
// It is constructed once at process start and lives for the process
// lifetime.
type Manager struct {
	mu          sync.RWMutex
	token       string
	loading     bool
	lastRequest time.Time

	client OTPClient
	store  storage.Store
	logger *slog.Logger
	now    func() time.Time
}

func NewManager(client OTPClient, store storage.Store, logger *slog.Logger) *Manager {
	return &Manager{
		client:  client,
		store:   store,
		logger:  logger,
		loading: true,
		now:     time.Now,
	}
}

// Attach wires the manager into the API client as its token source and
// passive 401 handler.
func (m *Manager) Attach(c *api.Client) {
	c.SetTokenSource(m.Token)
	c.SetOnUnauthorized(m.HandleUnauthorized)
}

// Rehydrate loads a previously persisted token. Storage failures leave
// the session unauthenticated; they are never surfaced.
func (m *Manager) Rehydrate(ctx context.Context) {
	token, err := m.store.Get(ctx, storage.KeyToken)
	if err != nil && err != storage.ErrNotFound {
		m.logger.Warn("token rehydrate failed, starting signed out", "error", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		m.token = token
	}
	m.loading = false
}

// Token returns the current bearer token, or "" when signed out.
func (m *Manager) Token(_ context.Context) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// IsAuthenticated reports whether a token is present.
func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token != ""
}

// Loading is true only before the initial rehydration completes.
func (m *Manager) Loading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// RequestOTP validates the local number, assembles the full phone
// number and asks the server to dispatch a code. The 30 second resend
// window is armed on every attempt regardless of outcome. Returns the
// assembled phone number for the verify step; no session state changes
// on success.
func (m *Manager) RequestOTP(ctx context.Context, localNumber string) (string, error) {
	if len(localNumber) != localNumberLen || localNumber != digitsOnly(localNumber) {
		return "", ErrPhoneLength
	}

	m.mu.Lock()
	if since := m.now().Sub(m.lastRequest); since < ResendCooldown {
		m.mu.Unlock()
		return "", ErrResendCooldown
	}
	m.lastRequest = m.now()
	m.mu.Unlock()

	phone := CountryCode + localNumber
	if err := m.client.RequestOTP(ctx, phone); err != nil {
		return "", err
	}
	return phone, nil
}

// VerifyOTP exchanges the 6-digit code for a token and signs the
// session in. Non-digit characters in the code are stripped before
// validation.
func (m *Manager) VerifyOTP(ctx context.Context, phoneNumber, code string) error {
	code = digitsOnly(code)
	if len(code) != otpLen {
		return ErrOTPLength
	}

	token, err := m.client.VerifyOTP(ctx, phoneNumber, code)
	if err != nil {
		return err
	}

	if err := m.store.Set(ctx, storage.KeyToken, token); err != nil {
		// The session still works for this run; only the restart
		// survival is lost.
		m.logger.Warn("persist token failed", "error", err)
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

// Logout clears the token from storage and memory. Once it returns, no
// subsequent request attaches a token.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.store.Remove(ctx, storage.KeyToken); err != nil {
		m.logger.Warn("remove persisted token failed", "error", err)
	}

	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
}

// HandleUnauthorized is the passive 401 transition: the token is
// cleared and the user must re-authenticate. Idempotent; the failing
// request is still reported to its caller by the API client.
func (m *Manager) HandleUnauthorized(ctx context.Context) {
	m.mu.Lock()
	hadToken := m.token != ""
	m.token = ""
	m.mu.Unlock()

	if !hadToken {
		return
	}

	if err := m.store.Remove(ctx, storage.KeyToken); err != nil {
		m.logger.Warn("remove persisted token failed", "error", err)
	}
	m.logger.Info("session expired, signed out")
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
