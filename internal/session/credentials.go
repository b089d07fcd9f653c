package session

import (
	"time"

	"shopfolio/internal/identity"
	"shopfolio/internal/storage/kv"
)

// Persisted key names. The identity snapshot lives next to the tokens so
// ClearAll wipes the whole cached session in one place.
const (
	accessTokenKey  = "auth_token"
	refreshTokenKey = "refresh_token"
	identityKey     = "user_data"
)

type storedToken struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Credentials holds the access/refresh token pair and the cached identity
// snapshot in the local store. Entries carry their own TTL and read as absent
// once past it.
type Credentials struct {
	store kv.Store
	clock func() time.Time
}

// NewCredentials builds a holder over the given store. clock may be nil for
// real time.
func NewCredentials(store kv.Store, clock func() time.Time) *Credentials {
	if clock == nil {
		clock = time.Now
	}
	return &Credentials{store: store, clock: clock}
}

func (c *Credentials) AccessToken() string { return c.read(accessTokenKey) }

func (c *Credentials) SetAccessToken(token string, ttl time.Duration) {
	c.write(accessTokenKey, token, ttl)
}

func (c *Credentials) RefreshToken() string { return c.read(refreshTokenKey) }

func (c *Credentials) SetRefreshToken(token string, ttl time.Duration) {
	c.write(refreshTokenKey, token, ttl)
}

// IdentitySnapshot returns the cached identity, or nil when none is stored.
func (c *Credentials) IdentitySnapshot() *identity.User {
	return kv.Get[*identity.User](c.store, identityKey, nil)
}

func (c *Credentials) SetIdentitySnapshot(user *identity.User) {
	if user == nil {
		c.store.Delete(identityKey)
		return
	}
	kv.Set(c.store, identityKey, user)
}

// ClearAll removes both tokens and the cached identity snapshot. Safe to call
// repeatedly.
func (c *Credentials) ClearAll() {
	c.store.Delete(accessTokenKey)
	c.store.Delete(refreshTokenKey)
	c.store.Delete(identityKey)
}

func (c *Credentials) read(key string) string {
	entry := kv.Get(c.store, key, storedToken{})
	if entry.Value == "" {
		return ""
	}
	if !entry.ExpiresAt.IsZero() && !entry.ExpiresAt.After(c.clock()) {
		return ""
	}
	return entry.Value
}

func (c *Credentials) write(key, token string, ttl time.Duration) {
	if token == "" {
		c.store.Delete(key)
		return
	}
	entry := storedToken{Value: token}
	if ttl > 0 {
		entry.ExpiresAt = c.clock().Add(ttl)
	}
	kv.Set(c.store, key, entry)
}
