package implicit

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is what a JWT shaped access token says about itself.
type TokenClaims struct {
	Subject   string
	Issuer    string
	Audience  []string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// InspectToken reads the registered claims of raw without verifying its
// signature. It reports false for opaque tokens.
func InspectToken(raw string) (*TokenClaims, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, false
	}

	tc := &TokenClaims{
		Subject:  claims.Subject,
		Issuer:   claims.Issuer,
		Audience: claims.Audience,
	}
	if claims.IssuedAt != nil {
		tc.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		tc.ExpiresAt = claims.ExpiresAt.Time
	}
	return tc, true
}
