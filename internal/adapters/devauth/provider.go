package devauth

// Package devauth provides a simple, config-driven AuthProvider for local development.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"time"

	domainauth "github.com/ministryofjustice/claims-ui/internal/domain/auth"
	"github.com/ministryofjustice/claims-ui/internal/ports"
)

// Config controls the dev auth provider behavior.
// UserID and Email are required.
type Config struct {
	UserID string
	Name   string
	Email  string
	// TokenLifetime is the expiry given to issued access tokens. Default 1h.
	TokenLifetime time.Duration
	// Now overrides the clock in tests.
	Now func() time.Time
}

// Provider implements ports.AuthProvider for local development.
// It short-circuits the OAuth flow by redirecting back to our own callback
// with locally generated state and nonce.
// Exchange ignores the code and returns the configured identity.
type Provider struct {
	identity domainauth.Identity
	lifetime time.Duration
	now      func() time.Time
}

// NewProvider constructs a dev auth provider from Config.
func NewProvider(cfg Config) (*Provider, error) {
	if cfg.UserID == "" {
		return nil, errors.New("dev auth: UserID is required")
	}
	if cfg.Email == "" {
		return nil, errors.New("dev auth: Email is required")
	}
	lifetime := cfg.TokenLifetime
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Provider{
		identity: domainauth.Identity{UserID: cfg.UserID, Name: cfg.Name, Email: cfg.Email},
		lifetime: lifetime,
		now:      now,
	}, nil
}

// Begin returns a local callback URL and cryptographically secure state and nonce.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (ports.BeginResult, error) {
	state, err := randomString(24)
	if err != nil {
		return ports.BeginResult{}, fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomString(24)
	if err != nil {
		return ports.BeginResult{}, fmt.Errorf("generate nonce: %w", err)
	}
	callback := in.RedirectURL
	if callback == "" {
		callback = "/auth/callback"
	}
	q := url.Values{"code": {"dev"}, "state": {state}}
	return ports.BeginResult{
		AuthURL: callback + "?" + q.Encode(),
		State:   state,
		Nonce:   nonce,
	}, nil
}

// Exchange ignores the provided code/state/nonce (validation handled by handler) and returns the dev identity.
func (p *Provider) Exchange(
	_ context.Context,
	_ ports.ExchangeInput,
) (domainauth.Identity, domainauth.Tokens, error) {
	tokens, err := p.issue()
	if err != nil {
		return domainauth.Identity{}, domainauth.Tokens{}, err
	}
	return p.identity, tokens, nil
}

// Refresh issues a new dev token set.
func (p *Provider) Refresh(_ context.Context, refreshToken string) (domainauth.Tokens, error) {
	if refreshToken == "" {
		return domainauth.Tokens{}, errors.New("dev auth: refresh token is required")
	}
	return p.issue()
}

// LogoutURL returns "" since there is no provider session to end.
func (p *Provider) LogoutURL(string, string) string { return "" }

func (p *Provider) issue() (domainauth.Tokens, error) {
	access, err := randomString(32)
	if err != nil {
		return domainauth.Tokens{}, fmt.Errorf("generate token: %w", err)
	}
	refresh, err := randomString(32)
	if err != nil {
		return domainauth.Tokens{}, fmt.Errorf("generate token: %w", err)
	}
	return domainauth.Tokens{
		AccessToken:  "dev-" + access,
		RefreshToken: "dev-" + refresh,
		TokenType:    "Bearer",
		Expiry:       p.now().Add(p.lifetime),
	}, nil
}

func randomString(n int) (string, error) {
	if n <= 0 {
		return "", nil
	}
	// Compute number of random bytes needed to produce at least n base64 URL chars
	b := make([]byte, (n*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:n], nil
}
