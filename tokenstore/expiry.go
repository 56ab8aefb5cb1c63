package tokenstore

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IsExpired reports whether token is already expired right now.
func IsExpired(token string) bool {
	return IsExpiredAt(token, time.Now())
}

// IsExpiredAt reports whether a JWT bearer token carries an exp claim that is
// not after now. The signature is not checked. Opaque tokens and tokens
// without exp are never considered expired.
func IsExpiredAt(token string, now time.Time) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}
