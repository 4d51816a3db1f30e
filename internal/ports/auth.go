package ports

// Package ports defines interfaces (hexagonal ports) for auth and the
// claims API. Implementations live in internal/adapters; orchestration in
// internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/ministryofjustice/claims-ui/internal/domain/auth"
)

// ErrSessionNotFound is returned by SessionStore.Get for unknown or
// expired ids.
var ErrSessionNotFound = errors.New("session not found")

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	// RedirectURL is the callback URL. Providers with a registered
	// redirect URI ignore it.
	RedirectURL string
}

// BeginResult is what the login handler must remember until the callback.
type BeginResult struct {
	AuthURL      string
	State        string
	Nonce        string
	CodeVerifier string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code         string
	State        string
	Nonce        string
	CodeVerifier string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL plus
	// the state, nonce and PKCE verifier to keep for the callback.
	Begin(ctx context.Context, in BeginInput) (BeginResult, error)

	// Exchange completes the login flow, verifying the ID token and nonce.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.Identity, domainauth.Tokens, error)

	// Refresh runs the refresh-token grant.
	Refresh(ctx context.Context, refreshToken string) (domainauth.Tokens, error)

	// LogoutURL returns the provider's end-session URL, or "" when the
	// provider does not advertise one.
	LogoutURL(idTokenHint, postLogoutRedirect string) string
}

// SessionStore persists and retrieves user sessions.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
