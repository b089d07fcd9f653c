package identity

import "context"

// Callback receives auth-state pushes. A nil user means signed out.
type Callback func(*User)

// Provider is the full capability set every identity backend must implement.
// Operations a backend cannot serve return sentinel.ErrUnsupported rather
// than being silently absent, so callers can distinguish "not possible here"
// from "failed".
type Provider interface {
	// Register creates an account without signing it in. The returned string
	// is a user-facing confirmation message.
	Register(ctx context.Context, profile Profile) (string, error)

	// Login exchanges credentials for a user record plus token pair.
	Login(ctx context.Context, email, password string) (*Login, error)

	// Logout signs out the provider-side session.
	Logout(ctx context.Context) error

	// CurrentUser returns the signed-in user, or an error when there is none.
	CurrentUser(ctx context.Context) (*User, error)

	// Subscribe registers a live auth-state listener and returns its
	// unsubscribe function. Implementations deliver the current state
	// immediately on subscribe.
	Subscribe(cb Callback) (func(), error)

	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	VerifyEmail(ctx context.Context, token string) error
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
}
