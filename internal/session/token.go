package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenValid reports whether token carries an exp claim strictly in the
// future. The signature is deliberately not checked: the holder only decides
// whether a cached token is worth presenting, the identity provider remains
// the authority on acceptance. Any malformed input yields false.
func TokenValid(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.After(now)
}
