package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	domainauth "github.com/ministryofjustice/claims-ui/internal/domain/auth"
	"github.com/ministryofjustice/claims-ui/internal/ports"
)

// DefaultSessionTTL is used when SessionPolicy.TTL is not set.
const DefaultSessionTTL = 3 * time.Hour

// ErrSessionExpired is returned by GetSession for sessions past their lifetime.
var ErrSessionExpired = errors.New("session expired")

// SessionPolicy controls the lifetime of sessions created at login.
type SessionPolicy struct {
	TTL   time.Duration
	Clock clock.Clock
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Policy   SessionPolicy
}

// AuthService orchestrates authentication flows by coordinating the
// provider and session persistence.
type AuthService struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	ttl      time.Duration
	clock    clock.Clock
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	ttl := opts.Policy.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	clk := opts.Policy.Clock
	if clk == nil {
		clk = clock.New()
	}
	return &AuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
		ttl:      ttl,
		clock:    clk,
	}
}

// BeginLogin initiates an authentication flow. The returned state, nonce
// and verifier must be kept until the callback.
func (s *AuthService) BeginLogin(ctx context.Context, redirectURL string) (*ports.BeginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	res, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &res, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code         string
	State        string
	Nonce        string
	CodeVerifier string
}

// CompleteLoginResult contains the result of completing a login flow.
type CompleteLoginResult struct {
	Session domainauth.Session
}

// CompleteLogin exchanges the authorization code for an identity and
// tokens and persists a new session.
func (s *AuthService) CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginResult, error) {
	if input.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if input.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if input.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, tokens, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:         input.Code,
		State:        input.State,
		Nonce:        input.Nonce,
		CodeVerifier: input.CodeVerifier,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	now := s.clock.Now().UTC()
	session := domainauth.Session{
		ID:        generateSessionID(),
		UserID:    identity.UserID,
		Name:      identity.Name,
		Email:     identity.Email,
		Tokens:    tokens,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}

	return &CompleteLoginResult{Session: session}, nil
}

// GetSession retrieves a live session by ID.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(s.clock.Now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(ErrSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, ErrSessionExpired
	}

	return &session, nil
}

// Logout removes a session and returns the provider's end-session URL,
// or "" when the provider has none.
func (s *AuthService) Logout(ctx context.Context, sessionID, postLogoutRedirect string) (string, error) {
	var idToken string
	if sessionID != "" {
		session, err := s.sessions.Get(ctx, sessionID)
		switch {
		case err == nil:
			idToken = session.Tokens.IDToken
		case !errors.Is(err, ports.ErrSessionNotFound):
			return "", fmt.Errorf("get session: %w", err)
		}

		if err := s.sessions.Delete(ctx, sessionID); err != nil {
			return "", fmt.Errorf("delete session: %w", err)
		}
	}

	return s.provider.LogoutURL(idToken, postLogoutRedirect), nil
}

func generateSessionID() string {
	return uuid.New().String()
}
