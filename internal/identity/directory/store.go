// Package directory is the first-party identity provider: accounts live in a
// UserStore, passwords are bcrypt hashes, and tokens are signed JWTs. It
// implements the full identity.Provider contract including live auth-state
// subscription.
package directory

import (
	"context"
	"time"

	"shopfolio/internal/identity"
)

// Record is a stored account. The embedded User is what leaves the provider;
// the credential material never does.
type Record struct {
	User          identity.User
	PasswordHash  []byte
	EmailVerified bool
	CreatedAt     time.Time
}

// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound (wrapped) when the requested account does not exist
// - Return ErrConflict (wrapped) when a create collides on email
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures
type Store interface {
	Create(ctx context.Context, rec *Record) error
	FindByID(ctx context.Context, id string) (*Record, error)
	FindByEmail(ctx context.Context, email string) (*Record, error)
	Update(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Record, error)
}
