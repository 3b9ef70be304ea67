package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the exp claim from a JWT without verifying its
// signature. Verification is the backend's job; the client only needs the
// expiry to decide whether a token is worth sending at all.
func TokenExpiry(token string) (time.Time, error) {
	parser := jwt.NewParser()
	claims := jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token: %w", err)
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token has no exp claim")
	}
	return claims.ExpiresAt.Time, nil
}

// ExpiresWithin reports whether the access token expires inside the given
// window (or is malformed / already expired). Callers can use this to
// refresh proactively instead of waiting for a 401 round trip.
func ExpiresWithin(token string, window time.Duration) bool {
	exp, err := TokenExpiry(token)
	if err != nil {
		return true
	}
	return time.Until(exp) <= window
}
