package directory

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "shopfolio/pkg/domain-errors"
)

// Token lifetimes. Verify/reset wording in the emails must match these.
const (
	accessTokenTTL  = time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
	verifyTokenTTL  = 24 * time.Hour
	resetTokenTTL   = time.Hour
)

// Single-purpose tokens carry a purpose claim so a reset token can never pass
// as an access token.
const (
	purposeRefresh = "refresh"
	purposeVerify  = "verify"
	purposeReset   = "reset"
)

type tokenClaims struct {
	Purpose string `json:"purpose,omitempty"`
	jwt.RegisteredClaims
}

func (p *Provider) issueToken(userID, purpose string, ttl time.Duration) (string, error) {
	now := p.clock()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "shopfolio-directory",
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(p.signingKey)
}

// ValidateAccessToken checks an access token presented by a client and
// returns the subject user id. Refresh, verify, and reset tokens are rejected.
func (p *Provider) ValidateAccessToken(token string) (string, error) {
	return p.parseToken(token, "")
}

// parseToken validates signature and expiry and returns the subject user id.
func (p *Provider) parseToken(token, wantPurpose string) (string, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return p.signingKey, nil
	}, jwt.WithTimeFunc(p.clock))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid || claims.Purpose != wantPurpose {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	return claims.Subject, nil
}
