// Package jwtx verifies the marketplace session tokens presented to the
// admin service. Sessions are minted by the platform's auth subsystem and
// shared with this service through an HS256 secret; this package only reads
// them. Role membership is deliberately NOT taken from token claims - the
// authorization gate re-checks the store on every privileged call.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken reports a token that failed signature or structural
	// validation.
	ErrInvalidToken = errors.New("jwtx: invalid token")
	// ErrExpiredToken reports a structurally valid but expired token.
	ErrExpiredToken = errors.New("jwtx: token expired")
)

// Claims is the subset of session claims the admin service consumes.
type Claims struct {
	jwt.RegisteredClaims

	Email string `json:"email,omitempty"`
}

// Verifier validates a raw bearer token and returns its claims.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

// HSVerifier verifies HS256-signed session tokens with a shared secret.
type HSVerifier struct {
	secret []byte
}

// NewHSVerifier returns a Verifier for the given shared secret.
func NewHSVerifier(secret string) *HSVerifier {
	return &HSVerifier{secret: []byte(secret)}
}

func (v *HSVerifier) Verify(raw string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// Sign mints an HS256 session token for the given subject. The platform's
// auth service is the production issuer; this exists for tests and local
// tooling.
func Sign(secret, subject, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
