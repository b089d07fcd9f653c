package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"shopfolio/internal/cart"
	"shopfolio/internal/catalog"
	"shopfolio/internal/docstore"
	"shopfolio/internal/identity"
	"shopfolio/internal/identity/directory"
	"shopfolio/internal/ledger"
	"shopfolio/internal/platform/logger"
	"shopfolio/internal/session"
	"shopfolio/internal/storage/kv"
	dErrors "shopfolio/pkg/domain-errors"
	"shopfolio/pkg/platform/sentinel"
)

const (
	testEmail    = "ada@example.com"
	testPassword = "Sup3r$ecret"
)

// oneShotProvider strips the live subscription capability so the fallback
// init path is exercised.
type oneShotProvider struct {
	*directory.Provider
}

func (p *oneShotProvider) Subscribe(identity.Callback) (func(), error) {
	return nil, sentinel.ErrUnsupported
}

type ControllerSuite struct {
	suite.Suite
	ctx        context.Context
	store      *kv.Memory
	users      *directory.InMemoryStore
	provider   *directory.Provider
	docs       *docstore.InMemoryStore
	controller *Controller
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = kv.NewMemory()
	s.users = directory.NewInMemoryStore()
	s.provider = directory.New(s.users, "test-signing-key", logger.Discard())
	s.docs = docstore.NewInMemory()
	s.controller = s.newController()

	_, err := s.provider.Register(s.ctx, identity.Profile{
		Name:     "Ada",
		Email:    testEmail,
		Password: testPassword,
	})
	s.Require().NoError(err)
}

func (s *ControllerSuite) TearDownTest() {
	s.controller.Close()
}

func (s *ControllerSuite) newController(opts ...Option) *Controller {
	opts = append([]Option{WithDocStore(s.docs)}, opts...)
	c := New(s.provider, s.store, logger.Discard(), opts...)
	c.Start(s.ctx)
	return c
}

func (s *ControllerSuite) login() *identity.User {
	s.Require().NoError(s.controller.Login(s.ctx, testEmail, testPassword))
	user := s.controller.User()
	s.Require().NotNil(user)
	return user
}

func (s *ControllerSuite) product(id string) catalog.Product {
	p, ok := catalog.Default().Find(id)
	s.Require().True(ok)
	return p
}

func (s *ControllerSuite) TestStartSettlesUnauthenticated() {
	s.True(s.controller.Settled())
	s.False(s.controller.IsAuthenticated())
	s.Nil(s.controller.User())
	s.Equal(cart.Scope(cart.GuestScope), s.controller.Scope())
}

func (s *ControllerSuite) TestStartRestoresPersistedState() {
	s.controller.SetTheme(ThemeDark)
	s.controller.SetLocale("fr")
	_, err := s.controller.AddTransaction(ledger.Transaction{
		Type: ledger.TypeIncome, Amount: 50000, Category: "Salary",
	})
	s.Require().NoError(err)
	s.controller.AddToCart(s.product("4"))
	s.controller.Close()

	restarted := s.newController()
	defer restarted.Close()
	s.Equal(ThemeDark, restarted.Preferences().Theme)
	s.Equal("fr", restarted.Preferences().Locale)
	s.Len(restarted.Transactions(), 1)
	s.Equal(1, restarted.CartItemCount())
}

func (s *ControllerSuite) TestLogin() {
	s.Run("success adopts the identity", func() {
		user := s.login()
		s.True(s.controller.IsAuthenticated())
		s.Equal("Ada", user.Name)
		s.Equal(cart.ScopeFor(user.ID), s.controller.Scope())
		s.Empty(s.controller.AuthError())
	})

	s.Run("failure sets the error slot and leaves state alone", func() {
		err := s.controller.Login(s.ctx, testEmail, "Wr0ng!pass")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		s.Equal("invalid email or password", s.controller.AuthError())
		// The previous session survives a failed re-login attempt's error,
		// but the error slot reflects the failure.
		s.True(s.controller.IsAuthenticated())
	})

	s.Run("next attempt clears the error slot", func() {
		s.Require().NoError(s.controller.Login(s.ctx, testEmail, testPassword))
		s.Empty(s.controller.AuthError())
	})
}

func (s *ControllerSuite) TestLogoutClearsSession() {
	s.login()
	s.Require().NoError(s.controller.Logout(s.ctx))

	s.False(s.controller.IsAuthenticated())
	s.Nil(s.controller.User())
	s.Equal(cart.Scope(cart.GuestScope), s.controller.Scope())
	s.Empty(s.controller.AuthError())

	// A fresh controller over the same store must not resurrect the session.
	restarted := s.newController()
	defer restarted.Close()
	s.False(restarted.IsAuthenticated())
}

func (s *ControllerSuite) TestOneShotInitPath() {
	// Sign in with a subscription-capable controller to cache credentials.
	s.login()

	oneShot := &oneShotProvider{Provider: s.provider}
	c := New(oneShot, s.store, logger.Discard(), WithDocStore(s.docs))
	c.Start(s.ctx)
	defer c.Close()

	s.True(c.Settled())
	s.True(c.IsAuthenticated())
	s.Require().NotNil(c.User())
	s.Equal("Ada", c.User().Name)
}

func (s *ControllerSuite) TestOneShotInitRejectsStaleToken() {
	s.login()
	// The provider-side session is gone; the cached token alone is not enough
	// once the provider rejects it.
	s.Require().NoError(s.provider.Logout(s.ctx))

	oneShot := &oneShotProvider{Provider: s.provider}
	c := New(oneShot, s.store, logger.Discard())
	c.Start(s.ctx)
	defer c.Close()

	s.True(c.Settled())
	s.False(c.IsAuthenticated())
}

func (s *ControllerSuite) TestAddToCartIncrementsExistingLine() {
	headphones := s.product("1")
	s.controller.AddToCart(headphones)
	s.controller.AddToCart(headphones)

	items := s.controller.CartItems()
	s.Require().Len(items, 1)
	s.Equal(2, items[0].Quantity)
	s.Equal(headphones.ID, items[0].ProductRef)
}

func (s *ControllerSuite) TestUpdateQuantityFloor() {
	s.controller.AddToCart(s.product("1"))

	s.controller.UpdateQuantity("1", 0)
	s.Empty(s.controller.CartItems())

	s.controller.AddToCart(s.product("1"))
	s.controller.UpdateQuantity("1", -5)
	s.Empty(s.controller.CartItems())
}

func (s *ControllerSuite) TestCartTotalIsExact() {
	mug := s.product("4") // 12.99
	s.controller.AddToCart(mug)
	s.controller.AddToCart(mug)
	s.controller.AddToCart(catalog.Product{ID: "x", Name: "Sticker", Price: 300})

	s.Equal(ledger.Cents(2898), s.controller.CartTotal())
	s.Equal("28.98", s.controller.CartTotal().String())
}

func (s *ControllerSuite) TestCartScenarioAddTwiceThenSetQuantity() {
	headphones := s.product("1") // 79.99
	s.controller.AddToCart(headphones)
	s.controller.AddToCart(headphones)
	s.controller.UpdateQuantity(headphones.ID, 5)

	s.Equal(5, s.controller.CartItemCount())
	s.Equal(ledger.Cents(39995), s.controller.CartTotal())
	s.Len(s.controller.CartItems(), 1)
}

func (s *ControllerSuite) TestRemoveFromCart() {
	s.controller.AddToCart(s.product("1"))
	s.controller.AddToCart(s.product("2"))

	s.controller.RemoveFromCart("1")
	items := s.controller.CartItems()
	s.Require().Len(items, 1)
	s.Equal("2", items[0].ProductRef)

	// Removing an absent item is a no-op.
	s.controller.RemoveFromCart("nope")
	s.Len(s.controller.CartItems(), 1)
}

func (s *ControllerSuite) TestGuestCartSurvivesLoginAndLogout() {
	s.controller.AddToCart(s.product("1"))
	s.controller.AddToCart(s.product("2"))

	s.login()
	// The authenticated scope starts from its own (empty) cart; scopes never
	// merge.
	s.Empty(s.controller.CartItems())

	s.controller.AddToCart(s.product("4"))
	s.Require().NoError(s.controller.Logout(s.ctx))

	items := s.controller.CartItems()
	s.Len(items, 2)
	s.Equal(2, s.controller.CartItemCount())
}

func (s *ControllerSuite) TestRemoteCartWinsOnLogin() {
	remote := []cart.LineItem{{ProductRef: "9", Name: "Remote Item", UnitPrice: 100, Quantity: 3}}
	rec, err := s.users.FindByEmail(s.ctx, testEmail)
	s.Require().NoError(err)
	s.Require().NoError(s.docs.UpsertMerge(s.ctx, "carts", rec.User.ID, docstore.Document{
		"items": remote,
	}))

	s.login()
	items := s.controller.CartItems()
	s.Require().Len(items, 1)
	s.Equal("Remote Item", items[0].Name)
	s.Equal(3, items[0].Quantity)
}

func (s *ControllerSuite) TestRemoteCartPushUpdatesActiveCart() {
	user := s.login()
	s.controller.AddToCart(s.product("1"))

	// Another device rewrites the cart document.
	remote := []cart.LineItem{{ProductRef: "2", Name: "Elsewhere", UnitPrice: 2499, Quantity: 1}}
	s.Require().NoError(s.docs.UpsertMerge(s.ctx, "carts", user.ID, docstore.Document{
		"items": remote,
	}))

	items := s.controller.CartItems()
	s.Require().Len(items, 1)
	s.Equal("2", items[0].ProductRef)
}

func (s *ControllerSuite) TestCartMirrorsToDocumentStore() {
	user := s.login()
	s.controller.AddToCart(s.product("1"))

	doc, err := s.docs.Get(s.ctx, "carts", user.ID)
	s.Require().NoError(err)
	items, ok := cartItemsFromDocument(doc)
	s.Require().True(ok)
	s.Require().Len(items, 1)
	s.Equal("1", items[0].ProductRef)
}

func (s *ControllerSuite) TestGuestCartIsNeverMirrored() {
	s.controller.AddToCart(s.product("1"))
	_, err := s.docs.Get(s.ctx, "carts", cart.GuestScope)
	s.Error(err)
}

func (s *ControllerSuite) TestAddTransaction() {
	s.Run("assigns unique ids and prepends", func() {
		first, err := s.controller.AddTransaction(ledger.Transaction{
			Type: ledger.TypeIncome, Amount: 50000, Category: "Salary", Date: "2026-03-01",
		})
		s.Require().NoError(err)
		second, err := s.controller.AddTransaction(ledger.Transaction{
			Type: ledger.TypeExpense, Amount: 12000, Category: "Food", Date: "2026-03-02",
		})
		s.Require().NoError(err)
		s.NotEmpty(first.ID)
		s.NotEqual(first.ID, second.ID)

		txs := s.controller.Transactions()
		s.Require().Len(txs, 2)
		s.Equal(second.ID, txs[0].ID)
	})

	s.Run("defaults the date to today", func() {
		tx, err := s.controller.AddTransaction(ledger.Transaction{
			Type: ledger.TypeExpense, Amount: 100, Category: "Misc",
		})
		s.Require().NoError(err)
		s.Equal(time.Now().Format(ledger.DateLayout), tx.Date)
	})

	s.Run("rejects invalid entries", func() {
		_, err := s.controller.AddTransaction(ledger.Transaction{Type: "transfer", Amount: 100})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ControllerSuite) TestLedgerSummaryScenario() {
	_, err := s.controller.AddTransaction(ledger.Transaction{
		Type: ledger.TypeIncome, Amount: 50000, Category: "Salary",
	})
	s.Require().NoError(err)
	_, err = s.controller.AddTransaction(ledger.Transaction{
		Type: ledger.TypeExpense, Amount: 12000, Category: "Food",
	})
	s.Require().NoError(err)

	sum := s.controller.LedgerSummary()
	s.Equal(ledger.Cents(50000), sum.Income)
	s.Equal(ledger.Cents(12000), sum.Expenses)
	s.Equal(ledger.Cents(38000), sum.Balance)
}

func (s *ControllerSuite) TestDeleteTransactionIsIdempotent() {
	tx, err := s.controller.AddTransaction(ledger.Transaction{
		Type: ledger.TypeExpense, Amount: 100, Category: "Misc",
	})
	s.Require().NoError(err)

	s.controller.DeleteTransaction(tx.ID)
	s.Empty(s.controller.Transactions())
	s.controller.DeleteTransaction(tx.ID)
	s.Empty(s.controller.Transactions())
}

func (s *ControllerSuite) TestPreferences() {
	s.Run("defaults", func() {
		p := s.controller.Preferences()
		s.Equal(ThemeLight, p.Theme)
		s.Equal("en", p.Locale)
		s.Equal(MotionAuto, p.ReducedMotion)
	})

	s.Run("invalid values are ignored", func() {
		s.controller.SetTheme("sepia")
		s.controller.SetReducedMotion("maybe")
		s.Equal(ThemeLight, s.controller.Preferences().Theme)
		s.Equal(MotionAuto, s.controller.Preferences().ReducedMotion)
	})

	s.Run("effective reduced motion resolves the override", func() {
		s.True(s.controller.EffectiveReducedMotion(true))
		s.False(s.controller.EffectiveReducedMotion(false))

		s.controller.SetReducedMotion(MotionOn)
		s.True(s.controller.EffectiveReducedMotion(false))

		s.controller.SetReducedMotion(MotionOff)
		s.False(s.controller.EffectiveReducedMotion(true))
	})
}

func (s *ControllerSuite) TestSessionTimeout() {
	c := s.newController(WithSessionTimeout(40 * time.Millisecond))
	defer c.Close()
	s.Require().NoError(c.Login(s.ctx, testEmail, testPassword))

	s.Eventually(func() bool { return !c.IsAuthenticated() },
		time.Second, 5*time.Millisecond)
	s.Equal(SessionExpiredMessage, c.AuthError())
	s.Nil(c.User())
}

func (s *ControllerSuite) TestActivitySlidesSessionWindow() {
	c := s.newController(WithSessionTimeout(60 * time.Millisecond))
	defer c.Close()
	s.Require().NoError(c.Login(s.ctx, testEmail, testPassword))

	for i := 0; i < 3; i++ {
		time.Sleep(30 * time.Millisecond)
		c.Activity(ActivityPointerMove)
	}
	s.True(c.IsAuthenticated(), "activity inside the window keeps the session alive")

	s.Eventually(func() bool { return !c.IsAuthenticated() },
		time.Second, 5*time.Millisecond)
}

func (s *ControllerSuite) TestActivityIgnoredWhenUnauthenticated() {
	s.controller.Activity(ActivityKeyPress)
	s.False(s.controller.IsAuthenticated())
}

func (s *ControllerSuite) TestFederatedLoginUnsupported() {
	err := s.controller.LoginWithFederatedProvider(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	s.Equal("federated sign-in is not available", s.controller.AuthError())
}

// interleavingProvider signs the user out between the credential exchange and
// the controller applying its result, the way a second tab can.
type interleavingProvider struct {
	*directory.Provider
	controller *Controller
}

func (p *interleavingProvider) LoginFederated(ctx context.Context) (*identity.Login, error) {
	res, err := p.Provider.Login(ctx, testEmail, testPassword)
	if err != nil {
		return nil, err
	}
	_ = p.controller.Logout(ctx)
	return res, nil
}

func (s *ControllerSuite) TestStaleLoginResolutionIsDiscarded() {
	ip := &interleavingProvider{Provider: s.provider}
	c := New(ip, s.store, logger.Discard(), WithDocStore(s.docs))
	c.Start(s.ctx)
	defer c.Close()
	ip.controller = c

	err := c.LoginWithFederatedProvider(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	s.False(c.IsAuthenticated())
	s.Nil(c.User())
}

func (s *ControllerSuite) TestRegisterDoesNotSignIn() {
	msg, err := s.controller.Register(s.ctx, identity.Profile{
		Name:     "Bob",
		Email:    "bob@example.com",
		Password: testPassword,
	})
	s.Require().NoError(err)
	s.Contains(msg, "Registration successful")
	s.False(s.controller.IsAuthenticated())
}

func (s *ControllerSuite) TestCachedTokenValidity() {
	s.login()
	creds := session.NewCredentials(s.store, time.Now)
	token := creds.AccessToken()
	s.Require().NotEmpty(token)
	s.True(session.TokenValid(token, time.Now()))
	s.False(session.TokenValid(token, time.Now().Add(48*time.Hour)))
}
