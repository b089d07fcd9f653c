package directory

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shopfolio/internal/identity"
	dErrors "shopfolio/pkg/domain-errors"
	"shopfolio/pkg/platform/sentinel"
)

// Mailer dispatches account lifecycle emails. Nil disables dispatch.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, name, token string) error
	SendPasswordResetEmail(ctx context.Context, to, name, token string) error
}

// Provider implements identity.Provider over a user Store. It keeps the
// signed-in user as provider-side state and pushes changes to subscribers,
// mirroring the auth-state stream contract the controller consumes.
type Provider struct {
	users      Store
	mailer     Mailer
	log        *slog.Logger
	signingKey []byte
	clock      func() time.Time

	mu      sync.Mutex
	current *identity.User
	subs    map[int]identity.Callback
	nextSub int
}

// Option configures a Provider.
type Option func(*Provider)

// WithMailer enables verification/reset email dispatch.
func WithMailer(m Mailer) Option {
	return func(p *Provider) { p.mailer = m }
}

// WithClock sets the clock function for testability.
func WithClock(clock func() time.Time) Option {
	return func(p *Provider) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// New constructs the provider.
func New(users Store, signingKey string, log *slog.Logger, opts ...Option) *Provider {
	p := &Provider{
		users:      users,
		log:        log,
		signingKey: []byte(signingKey),
		clock:      time.Now,
		subs:       make(map[int]identity.Callback),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func (p *Provider) Register(ctx context.Context, profile identity.Profile) (string, error) {
	name := strings.TrimSpace(profile.Name)
	email := strings.TrimSpace(profile.Email)
	if name == "" {
		return "", dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if !ValidateEmail(email) {
		return "", dErrors.New(dErrors.CodeValidation, "invalid email address")
	}
	if err := ValidatePassword(profile.Password); err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(profile.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	role := profile.Role
	if role == "" {
		role = identity.RoleUser
	}
	rec := &Record{
		User: identity.User{
			ID:     uuid.NewString(),
			Name:   name,
			Email:  email,
			Role:   role,
			Status: identity.StatusActive,
		},
		PasswordHash: hash,
		CreatedAt:    p.clock(),
	}
	if err := p.users.Create(ctx, rec); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return "", dErrors.New(dErrors.CodeConflict, "an account with this email already exists")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to create account")
	}

	p.sendVerification(ctx, &rec.User)

	return "Registration successful! Please check your email to verify your account.", nil
}

func (p *Provider) Login(ctx context.Context, email, password string) (*identity.Login, error) {
	rec, err := p.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account")
	}
	if err := bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(password)); err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}
	if rec.User.Status != identity.StatusActive {
		return nil, dErrors.New(dErrors.CodeForbidden, "account is inactive")
	}

	access, err := p.issueToken(rec.User.ID, "", accessTokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue access token")
	}
	refresh, err := p.issueToken(rec.User.ID, purposeRefresh, refreshTokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue refresh token")
	}

	user := rec.User
	p.setCurrent(&user)

	return &identity.Login{
		User:         &user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func (p *Provider) Logout(_ context.Context) error {
	p.setCurrent(nil)
	return nil
}

func (p *Provider) CurrentUser(_ context.Context) (*identity.User, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no user signed in")
	}
	cp := *p.current
	return &cp, nil
}

// Subscribe registers cb and immediately delivers the current auth state.
func (p *Provider) Subscribe(cb identity.Callback) (func(), error) {
	p.mu.Lock()
	id := p.nextSub
	p.nextSub++
	p.subs[id] = cb
	current := p.current
	p.mu.Unlock()

	cb(copyUser(current))

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.subs, id)
	}, nil
}

func (p *Provider) RequestPasswordReset(ctx context.Context, email string) error {
	rec, err := p.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "no account found for that email")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account")
	}

	token, err := p.issueToken(rec.User.ID, purposeReset, resetTokenTTL)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue reset token")
	}
	if p.mailer != nil {
		if err := p.mailer.SendPasswordResetEmail(ctx, rec.User.Email, rec.User.Name, token); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to send reset email")
		}
	}
	return nil
}

func (p *Provider) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := p.parseToken(token, purposeReset)
	if err != nil {
		return err
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	rec, err := p.users.FindByID(ctx, userID)
	if err != nil {
		return dErrors.New(dErrors.CodeNotFound, "account no longer exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	rec.PasswordHash = hash
	if err := p.users.Update(ctx, rec); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update password")
	}
	return nil
}

func (p *Provider) VerifyEmail(ctx context.Context, token string) error {
	userID, err := p.parseToken(token, purposeVerify)
	if err != nil {
		return err
	}
	rec, err := p.users.FindByID(ctx, userID)
	if err != nil {
		return dErrors.New(dErrors.CodeNotFound, "account no longer exists")
	}
	if rec.EmailVerified {
		return nil
	}
	rec.EmailVerified = true
	if err := p.users.Update(ctx, rec); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark email verified")
	}
	return nil
}

func (p *Provider) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	p.mu.Lock()
	current := copyUser(p.current)
	p.mu.Unlock()
	if current == nil {
		return dErrors.New(dErrors.CodeUnauthorized, "no user signed in")
	}
	rec, err := p.users.FindByID(ctx, current.ID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up account")
	}
	if err := bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(oldPassword)); err != nil {
		return dErrors.New(dErrors.CodeUnauthorized, "current password is incorrect")
	}
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	rec.PasswordHash = hash
	if err := p.users.Update(ctx, rec); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update password")
	}
	return nil
}

// ResendVerification issues a fresh verification token for the signed-in user.
func (p *Provider) ResendVerification(ctx context.Context) error {
	p.mu.Lock()
	current := copyUser(p.current)
	p.mu.Unlock()
	if current == nil {
		return dErrors.New(dErrors.CodeUnauthorized, "no user signed in")
	}
	p.sendVerification(ctx, current)
	return nil
}

func (p *Provider) sendVerification(ctx context.Context, user *identity.User) {
	if p.mailer == nil {
		return
	}
	token, err := p.issueToken(user.ID, purposeVerify, verifyTokenTTL)
	if err != nil {
		p.log.Error("failed to issue verification token", "user", user.ID, "error", err)
		return
	}
	if err := p.mailer.SendVerificationEmail(ctx, user.Email, user.Name, token); err != nil {
		p.log.Error("failed to send verification email", "user", user.ID, "error", err)
	}
}

func (p *Provider) setCurrent(user *identity.User) {
	p.mu.Lock()
	p.current = copyUser(user)
	subs := make([]identity.Callback, 0, len(p.subs))
	for _, cb := range p.subs {
		subs = append(subs, cb)
	}
	p.mu.Unlock()

	for _, cb := range subs {
		cb(copyUser(user))
	}
}

func copyUser(u *identity.User) *identity.User {
	if u == nil {
		return nil
	}
	cp := *u
	return &cp
}
