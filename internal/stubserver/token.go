package stubserver

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// TokenService mints and validates the bearer tokens handed out after
// OTP verification. HS256, subject = phone number.
type TokenService struct {
	secretKey []byte
	expiry    time.Duration
}

func NewTokenService(secretKey string, expiry time.Duration) *TokenService {
	return &TokenService{secretKey: []byte(secretKey), expiry: expiry}
}

func (s *TokenService) Generate(phone string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   phone,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.expiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// Validate returns the phone number the token was issued for.
func (s *TokenService) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secretKey, nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
