package app

import (
	"context"
	"time"

	"shopfolio/internal/cart"
	"shopfolio/internal/identity"
	"shopfolio/internal/session"
	dErrors "shopfolio/pkg/domain-errors"
)

// SessionExpiredMessage is the fixed error-slot message after a timeout
// forces logout.
const SessionExpiredMessage = "Your session has expired. Please log in again."

// Local token retention mirrors the original cookie lifetimes: one day for
// the access token, seven for the refresh token.
const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// FederatedProvider is implemented by identity providers that support a
// federated (popup-style) sign-in flow in addition to password login.
type FederatedProvider interface {
	LoginFederated(ctx context.Context) (*identity.Login, error)
}

// Login exchanges credentials for a session: tokens stored, identity cached,
// timer started, cart scope switched. On failure the error slot carries the
// provider's message and the session state is untouched.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	seq := c.beginAuthAttempt()
	res, err := c.provider.Login(ctx, email, password)
	if err != nil {
		c.failAuthAttempt(seq, "login", err)
		return err
	}
	return c.completeLogin(seq, "login", res)
}

// LoginWithFederatedProvider runs the federated flow when the provider
// supports one, with the same session effects as Login.
func (c *Controller) LoginWithFederatedProvider(ctx context.Context) error {
	seq := c.beginAuthAttempt()
	fp, ok := c.provider.(FederatedProvider)
	if !ok {
		err := dErrors.New(dErrors.CodeBadRequest, "federated sign-in is not available")
		c.failAuthAttempt(seq, "login_federated", err)
		return err
	}
	res, err := fp.LoginFederated(ctx)
	if err != nil {
		c.failAuthAttempt(seq, "login_federated", err)
		return err
	}
	return c.completeLogin(seq, "login_federated", res)
}

func (c *Controller) completeLogin(seq uint64, op string, res *identity.Login) error {
	c.mu.Lock()
	stale := seq != c.authSeq
	c.mu.Unlock()
	if stale {
		// A later attempt or logout superseded this resolution; applying it
		// would resurrect a session the user already left.
		c.log.Info("discarding stale sign-in result", "operation", op)
		return dErrors.New(dErrors.CodeConflict, "sign-in was superseded by a later operation")
	}

	c.creds.SetAccessToken(res.AccessToken, accessTokenTTL)
	if res.RefreshToken != "" {
		c.creds.SetRefreshToken(res.RefreshToken, refreshTokenTTL)
	}
	c.adoptIdentity(res.User)
	c.metrics.AuthAttempts.WithLabelValues(op, "success").Inc()
	return nil
}

// Register creates an account without signing it in.
func (c *Controller) Register(ctx context.Context, profile identity.Profile) (string, error) {
	seq := c.beginAuthAttempt()
	msg, err := c.provider.Register(ctx, profile)
	if err != nil {
		c.failAuthAttempt(seq, "register", err)
		return "", err
	}
	c.metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	return msg, nil
}

// Logout signs out remotely best-effort, then unconditionally clears
// credentials, identity, timer and error slot. Local cleanup happens even
// when the remote sign-out fails.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	c.authSeq++ // fence out any in-flight sign-in resolution
	c.mu.Unlock()

	// Clearing credentials first keeps an interleaved "signed out" push from
	// falling back onto the cached token.
	c.creds.ClearAll()

	if err := c.provider.Logout(ctx); err != nil {
		c.log.Error("remote sign-out failed", "error", err)
	}

	c.clearSession()
	return nil
}

// RequestPasswordReset asks the provider to dispatch a reset email.
func (c *Controller) RequestPasswordReset(ctx context.Context, email string) error {
	return c.runAuthOp("password_reset_request", func() error {
		return c.provider.RequestPasswordReset(ctx, email)
	})
}

// ResetPassword completes a reset flow with the emailed token.
func (c *Controller) ResetPassword(ctx context.Context, token, newPassword string) error {
	return c.runAuthOp("password_reset", func() error {
		return c.provider.ResetPassword(ctx, token, newPassword)
	})
}

// VerifyEmail completes a verification flow with the emailed token.
func (c *Controller) VerifyEmail(ctx context.Context, token string) error {
	return c.runAuthOp("verify_email", func() error {
		return c.provider.VerifyEmail(ctx, token)
	})
}

// ActivityKind is a user-interaction category that counts as session
// activity.
type ActivityKind string

const (
	ActivityPointerPress ActivityKind = "pointer_press"
	ActivityPointerMove  ActivityKind = "pointer_move"
	ActivityKeyPress     ActivityKind = "key_press"
	ActivityScroll       ActivityKind = "scroll"
	ActivityTouchStart   ActivityKind = "touch_start"
)

// Activity slides the session window. Only meaningful while authenticated;
// otherwise a no-op, so callers can wire listeners unconditionally and tear
// them down on whatever path exits the authenticated state.
func (c *Controller) Activity(kind ActivityKind) {
	c.mu.Lock()
	authenticated := c.authenticated
	c.mu.Unlock()
	if !authenticated {
		return
	}
	_ = kind
	c.timer.Reset(c.sessionTimedOut)
}

// onAuthState handles pushes from the provider's live subscription. The
// stream is authoritative: a user adopts immediately, an empty push falls
// back to the locally cached token and snapshot before clearing everything.
func (c *Controller) onAuthState(user *identity.User) {
	if user != nil {
		c.adoptIdentity(user)
		return
	}

	token := c.creds.AccessToken()
	snapshot := c.creds.IdentitySnapshot()
	if token != "" && snapshot != nil && session.TokenValid(token, c.clock()) {
		c.adoptIdentity(snapshot)
		return
	}
	c.clearSession()
}

// adoptIdentity makes user the authenticated identity: snapshot cached,
// timer started, cart swapped to the identity's scope with a remote-wins
// subscription when a document store is configured.
func (c *Controller) adoptIdentity(user *identity.User) {
	c.creds.SetIdentitySnapshot(user)

	newScope := cart.ScopeFor(user.ID)

	c.mu.Lock()
	cp := *user
	c.user = &cp
	c.authenticated = true
	c.authErr = ""
	scopeChanged := newScope != c.scope
	if scopeChanged {
		c.switchScopeLocked(newScope)
	}
	c.mu.Unlock()

	if scopeChanged {
		c.subscribeRemoteCart(newScope, user.ID)
	}
	c.timer.Start(c.sessionTimedOut)
}

// clearSession destroys the session: credentials, identity, timer, error
// slot, and the cart swaps back to the guest scope. Idempotent.
func (c *Controller) clearSession() {
	c.creds.ClearAll()
	c.timer.Clear()

	c.mu.Lock()
	c.user = nil
	c.authenticated = false
	c.authErr = ""
	if c.scope != cart.GuestScope {
		c.switchScopeLocked(cart.GuestScope)
	}
	c.mu.Unlock()
}

func (c *Controller) sessionTimedOut() {
	c.log.Info("session expired after inactivity")
	_ = c.Logout(context.Background())
	c.mu.Lock()
	c.authErr = SessionExpiredMessage
	c.mu.Unlock()
	c.metrics.SessionTimeouts.Inc()
}

// beginAuthAttempt clears the error slot and fences the attempt with a fresh
// sequence number. Resolutions carrying an older number are discarded.
func (c *Controller) beginAuthAttempt() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authErr = ""
	c.authSeq++
	return c.authSeq
}

// failAuthAttempt records the failure in the error slot unless a later
// attempt already took over.
func (c *Controller) failAuthAttempt(seq uint64, op string, err error) {
	c.mu.Lock()
	if seq == c.authSeq {
		c.authErr = dErrors.Message(err)
	}
	c.mu.Unlock()
	c.metrics.AuthAttempts.WithLabelValues(op, "failure").Inc()
}

func (c *Controller) runAuthOp(op string, fn func() error) error {
	seq := c.beginAuthAttempt()
	if err := fn(); err != nil {
		c.failAuthAttempt(seq, op, err)
		return err
	}
	c.metrics.AuthAttempts.WithLabelValues(op, "success").Inc()
	return nil
}
