// Package identity is the authentication side of the backend: credentials
// with bcrypt hashes, per-session JWT access tokens and auth-change events.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/rashad-agri/marketplace/internal/core/domain"
	"github.com/rashad-agri/marketplace/internal/core/ports"
)

// MinPasswordLength is the shortest accepted password, in characters.
const MinPasswordLength = 6

// Credentials persists logins.
type Credentials interface {
	Create(ctx context.Context, c *domain.Credential) error
	FindByEmail(ctx context.Context, email string) (*domain.Credential, error)
	FindByID(ctx context.Context, id string) (*domain.Credential, error)
	UpdateMetadata(ctx context.Context, id string, meta domain.IdentityMetadata) (*domain.Credential, error)
}

// Tokens stores the access token of each session.
type Tokens interface {
	Put(ctx context.Context, sid, uid, token string, ttl time.Duration) error
	// Get returns "" when sid holds no token.
	Get(ctx context.Context, sid string) (string, error)
	Delete(ctx context.Context, sid, uid string) error
	Sessions(ctx context.Context, uid string) ([]string, error)
}

// Publisher announces auth events for a session.
type Publisher interface {
	Publish(ctx context.Context, sid string, ev domain.AuthEvent) error
}

type claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// Provider implements sign up, sign in and session lookup for every session.
type Provider struct {
	creds    Credentials
	profiles ports.DataBackend
	tokens   Tokens
	events   Publisher
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
	log      zerolog.Logger
}

func NewProvider(creds Credentials, profiles ports.DataBackend, tokens Tokens, events Publisher, secret string, tokenTTL time.Duration, log zerolog.Logger) *Provider {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Provider{
		creds:    creds,
		profiles: profiles,
		tokens:   tokens,
		events:   events,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		now:      time.Now,
		log:      log.With().Str("component", "identity").Logger(),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignUp creates the credential and the users record of a new identity. It
// does not sign anybody in.
func (p *Provider) SignUp(ctx context.Context, email, password string, meta domain.IdentityMetadata) (*domain.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: password shorter than %d characters", domain.ErrInvalidInput, MinPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := p.now().UTC()
	cred := &domain.Credential{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Metadata:     meta,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.creds.Create(ctx, cred); err != nil {
		return nil, err
	}

	role := domain.Role(meta.UserType)
	if !role.Valid() {
		role = domain.DefaultRole
	}
	profile := domain.Profile{
		ID:        cred.ID,
		Email:     email,
		FirstName: meta.FirstName,
		LastName:  meta.LastName,
		Role:      role,
		State:     meta.State,
		Phone:     meta.Phone,
		IsActive:  true,
	}
	if err := p.profiles.Insert(ctx, ports.CollUsers, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	p.log.Info().Str("user_id", cred.ID).Str("user_type", string(role)).Msg("identity registered")
	return cred.Identity(), nil
}

// SignIn checks the password and binds a fresh access token to sid.
func (p *Provider) SignIn(ctx context.Context, sid, email, password string) (*domain.AuthSession, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	cred, err := p.creds.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	expires := p.now().Add(p.tokenTTL)
	token, err := p.generateToken(cred.ID, sid, expires)
	if err != nil {
		return nil, err
	}
	if err := p.tokens.Put(ctx, sid, cred.ID, token, p.tokenTTL); err != nil {
		return nil, err
	}

	sess := &domain.AuthSession{AccessToken: token, ExpiresAt: expires, User: *cred.Identity()}
	p.publish(ctx, sid, domain.AuthEvent{Type: domain.EventSignedIn, Session: sess})
	return sess, nil
}

// CurrentUser returns the identity signed in on sid, or nil. Expired or
// unusable tokens are discarded.
func (p *Provider) CurrentUser(ctx context.Context, sid string) (*domain.Identity, error) {
	tok, err := p.tokens.Get(ctx, sid)
	if err != nil || tok == "" {
		return nil, err
	}

	c, err := p.parseToken(tok)
	if err != nil || c.SessionID != sid {
		p.log.Debug().Str("session_id", sid).Msg("discarding stale token")
		return nil, p.tokens.Delete(ctx, sid, "")
	}

	cred, err := p.creds.FindByID(ctx, c.Subject)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, p.tokens.Delete(ctx, sid, c.Subject)
	}
	if err != nil {
		return nil, err
	}
	return cred.Identity(), nil
}

// SignOut drops the token of sid. Signing out twice is not an error.
func (p *Provider) SignOut(ctx context.Context, sid string) error {
	tok, err := p.tokens.Get(ctx, sid)
	if err != nil {
		return err
	}
	if tok == "" {
		return nil
	}

	var uid string
	if c, err := p.parseUnverifiedExpiry(tok); err == nil {
		uid = c.Subject
	}
	if err := p.tokens.Delete(ctx, sid, uid); err != nil {
		return err
	}
	p.publish(ctx, sid, domain.AuthEvent{Type: domain.EventSignedOut})
	return nil
}

// UpdateMetadata applies changes to the identity signed in on sid and
// notifies every session of that identity.
func (p *Provider) UpdateMetadata(ctx context.Context, sid string, changes domain.ProfileChanges) (*domain.Identity, error) {
	id, err := p.CurrentUser(ctx, sid)
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, domain.ErrNotAuthenticated
	}

	meta := id.Metadata
	if changes.FirstName != nil {
		meta.FirstName = *changes.FirstName
	}
	if changes.LastName != nil {
		meta.LastName = *changes.LastName
	}
	if changes.Phone != nil {
		meta.Phone = *changes.Phone
	}
	if changes.State != nil {
		meta.State = *changes.State
	}

	cred, err := p.creds.UpdateMetadata(ctx, id.ID, meta)
	if err != nil {
		return nil, err
	}
	updated := cred.Identity()

	sids, err := p.tokens.Sessions(ctx, updated.ID)
	if err != nil {
		p.log.Warn().Err(err).Str("user_id", updated.ID).Msg("listing sessions for update notice failed")
		sids = []string{sid}
	}
	ev := domain.AuthEvent{Type: domain.EventUserUpdated, Session: &domain.AuthSession{User: *updated}}
	for _, s := range sids {
		p.publish(ctx, s, ev)
	}
	return updated, nil
}

// publish logs failures and never fails the caller.
func (p *Provider) publish(ctx context.Context, sid string, ev domain.AuthEvent) {
	if err := p.events.Publish(ctx, sid, ev); err != nil {
		p.log.Error().Err(err).Str("session_id", sid).Str("event", string(ev.Type)).Msg("auth event publish failed")
	}
}

func (p *Provider) generateToken(uid, sid string, expires time.Time) (string, error) {
	c := claims{
		SessionID: sid,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(p.now()),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return t.SignedString(p.secret)
}

func (p *Provider) keyFunc(*jwt.Token) (any, error) { return p.secret, nil }

func (p *Provider) parseToken(tok string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tok, &c, p.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	return &c, nil
}

// parseUnverifiedExpiry checks the signature but accepts expired tokens.
func (p *Provider) parseUnverifiedExpiry(tok string) (*claims, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tok, &c, p.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
