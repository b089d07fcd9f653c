// Package app implements the session/state controller: one authoritative
// in-memory model of identity, authentication status, preferences, the
// transaction ledger and the shopping cart. Mutations persist the relevant
// slice to the local store and, for the cart, mirror it to the remote
// document store keyed by the active identity.
package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"shopfolio/internal/cart"
	"shopfolio/internal/docstore"
	"shopfolio/internal/identity"
	"shopfolio/internal/ledger"
	"shopfolio/internal/platform/metrics"
	"shopfolio/internal/session"
	"shopfolio/internal/storage/kv"
	"shopfolio/pkg/platform/sentinel"
)

// Local persistence keys owned by the controller. Cart keys are derived per
// scope via cart.Scope.Key.
const (
	keyTheme  = "theme"
	keyLocale = "locale"
	keyMotion = "reduced_motion"
	keyLedger = "transactions"
)

// cartCollection is the remote document-store collection holding one cart
// document per identity.
const cartCollection = "carts"

// Controller composes the credential holder, session timer, local store and
// the external identity/document providers into one session-scoped state
// machine. Construct one per session; there is no package-level state.
type Controller struct {
	provider identity.Provider
	docs     docstore.Store
	store    kv.Store
	creds    *session.Credentials
	timer    *session.Timer
	log      *slog.Logger
	metrics  *metrics.Metrics
	clock    func() time.Time

	mu            sync.Mutex
	user          *identity.User
	authenticated bool
	authErr       string
	settled       bool
	prefs         Preferences
	transactions  []ledger.Transaction
	cartItems     []cart.LineItem
	scope         cart.Scope
	authSeq       uint64
	unsubAuth     func()
	unsubCart     func()
}

// Option configures a Controller.
type Option func(*Controller)

// WithDocStore enables remote cart mirroring.
func WithDocStore(docs docstore.Store) Option {
	return func(c *Controller) { c.docs = docs }
}

// WithSessionTimeout overrides the inactivity window.
func WithSessionTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timer = session.NewTimer(d) }
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Controller) { c.metrics = m }
}

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// New constructs a controller over the given identity provider and local
// store.
func New(provider identity.Provider, store kv.Store, log *slog.Logger, opts ...Option) *Controller {
	c := &Controller{
		provider: provider,
		store:    store,
		log:      log,
		timer:    session.NewTimer(session.DefaultTimeout),
		metrics:  metrics.NewForTest(),
		clock:    time.Now,
		scope:    cart.GuestScope,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.creds = session.NewCredentials(store, c.clock)
	return c
}

// Start restores persisted state and reconciles the cached session with the
// identity provider. The live auth-state subscription is authoritative when
// the provider offers one; otherwise a validated local token triggers a
// one-shot current-user fetch. Either way the controller settles exactly once.
func (c *Controller) Start(ctx context.Context) {
	c.mu.Lock()
	c.prefs = loadPreferences(c.store)
	c.transactions = kv.Get(c.store, keyLedger, []ledger.Transaction(nil))
	c.scope = cart.GuestScope
	c.cartItems = kv.Get(c.store, c.scope.Key(), []cart.LineItem(nil))
	c.mu.Unlock()

	unsub, err := c.provider.Subscribe(c.onAuthState)
	if err == nil {
		c.mu.Lock()
		c.unsubAuth = unsub
		c.mu.Unlock()
		c.settle()
		return
	}
	if !errors.Is(err, sentinel.ErrUnsupported) {
		c.log.Error("auth-state subscription failed", "error", err)
	}

	// One-shot path: trust the cached token only if it still validates.
	token := c.creds.AccessToken()
	if token != "" {
		if session.TokenValid(token, c.clock()) {
			user, err := c.provider.CurrentUser(ctx)
			if err == nil {
				c.adoptIdentity(user)
			} else {
				c.log.Info("cached session rejected by provider", "error", err)
				c.clearSession()
			}
		} else {
			c.clearSession()
		}
	}
	c.settle()
}

// Close releases the subscriptions and the timer. Safe to call repeatedly.
func (c *Controller) Close() {
	c.timer.Clear()
	c.mu.Lock()
	unsubAuth := c.unsubAuth
	unsubCart := c.unsubCart
	c.unsubAuth = nil
	c.unsubCart = nil
	c.mu.Unlock()
	if unsubCart != nil {
		unsubCart()
	}
	if unsubAuth != nil {
		unsubAuth()
	}
}

func (c *Controller) settle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settled = true
}

// Settled reports whether initialization has completed.
func (c *Controller) Settled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settled
}

// User returns the cached identity, or nil when unauthenticated.
func (c *Controller) User() *identity.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return nil
	}
	cp := *c.user
	return &cp
}

// IsAuthenticated reports whether a validated session is active.
func (c *Controller) IsAuthenticated() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticated
}

// AuthError returns the last authentication failure message, or "".
func (c *Controller) AuthError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authErr
}

// Scope returns the active cart scope.
func (c *Controller) Scope() cart.Scope {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scope
}
