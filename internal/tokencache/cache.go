// Package tokencache keeps harvested access tokens between runs.
package tokencache

import (
	"time"

	ierrors "github.com/jrsteele09/go-implicit-auth/internal/errors"
	"golang.org/x/oauth2"
)

var (
	ErrNotFound = ierrors.ErrNotFound
	ErrExpired  = ierrors.ErrCacheExpired
)

// Key identifies the account a token was issued for.
type Key struct {
	ClientID string
	Username string
}

func (k Key) validate() error {
	if k.ClientID == "" {
		return ierrors.Wrapf(ierrors.ErrConfiguration, "client id is required")
	}
	if k.Username == "" {
		return ierrors.Wrapf(ierrors.ErrConfiguration, "username is required")
	}
	return nil
}

// Cache stores one token per Key.
type Cache interface {
	Get(key Key) (*oauth2.Token, error)
	Set(key Key, token *oauth2.Token) error
	Delete(key Key) error
}

type entry struct {
	Token     *oauth2.Token `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// newEntry uses the token's own expiry, or now+ttl when it has none.
func newEntry(token *oauth2.Token, now time.Time, ttl time.Duration) entry {
	expiresAt := token.Expiry
	if expiresAt.IsZero() {
		expiresAt = now.Add(ttl)
	}
	return entry{Token: token, ExpiresAt: expiresAt}
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
