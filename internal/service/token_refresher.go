package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/sync/singleflight"

	domainauth "github.com/ministryofjustice/claims-ui/internal/domain/auth"
	"github.com/ministryofjustice/claims-ui/internal/ports"
)

// DefaultRefreshSkew is how long before expiry an access token is refreshed.
const DefaultRefreshSkew = 30 * time.Second

// ErrNoRefreshToken is returned when an expired access token cannot be
// refreshed because the session holds no refresh token.
var ErrNoRefreshToken = errors.New("no refresh token available")

// ErrNoAccessToken is returned when the session holds no access token.
var ErrNoAccessToken = errors.New("no access token in session")

// TokenRefresherConfig tunes TokenRefresher.
type TokenRefresherConfig struct {
	Skew   time.Duration
	Clock  clock.Clock
	Logger *slog.Logger
}

// TokenRefresherOptions groups dependencies for TokenRefresher.
type TokenRefresherOptions struct {
	Provider ports.AuthProvider
	Sessions ports.SessionStore
	Config   TokenRefresherConfig
}

// TokenRefresher hands out access tokens for sessions and runs the
// refresh-token grant when they are about to expire.
type TokenRefresher struct {
	provider ports.AuthProvider
	sessions ports.SessionStore
	skew     time.Duration
	clock    clock.Clock
	logger   *slog.Logger
	parser   *jwt.Parser
	group    singleflight.Group
}

// NewTokenRefresher constructs a TokenRefresher.
func NewTokenRefresher(opts TokenRefresherOptions) (*TokenRefresher, error) {
	if opts.Provider == nil {
		return nil, errors.New("Provider is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("Sessions is required")
	}

	cfg := opts.Config
	if cfg.Skew <= 0 {
		cfg.Skew = DefaultRefreshSkew
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &TokenRefresher{
		provider: opts.Provider,
		sessions: opts.Sessions,
		skew:     cfg.Skew,
		clock:    cfg.Clock,
		logger:   cfg.Logger.With("component", "token_refresher"),
		parser:   jwt.NewParser(),
	}, nil
}

// AccessToken returns a usable access token for the session, refreshing
// it first when it expires within the skew.
func (r *TokenRefresher) AccessToken(ctx context.Context, sessionID string) (string, error) {
	session, err := r.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	if !r.needsRefresh(session.Tokens) {
		return accessToken(session.Tokens)
	}

	// The grant outlives any single request that asked for it.
	v, err, shared := r.group.Do(sessionID, func() (any, error) {
		return r.refresh(context.WithoutCancel(ctx), sessionID)
	})
	if err != nil {
		return "", err
	}
	if shared {
		r.logger.DebugContext(ctx, "shared token refresh", "session_id", sessionID)
	}
	return v.(string), nil
}

// MarkStale forces the next AccessToken call for the session to refresh.
func (r *TokenRefresher) MarkStale(ctx context.Context, sessionID string) error {
	session, err := r.sessions.Get(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	session.Tokens = session.Tokens.MarkStale()
	if err := r.sessions.Save(ctx, session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// ForSession returns a ports.TokenSource bound to one session.
func (r *TokenRefresher) ForSession(sessionID string) ports.TokenSource {
	return sessionTokens{refresher: r, sessionID: sessionID}
}

func (r *TokenRefresher) refresh(ctx context.Context, sessionID string) (string, error) {
	// Re-read: another instance may have refreshed since the first look.
	session, err := r.sessions.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}
	if !r.needsRefresh(session.Tokens) {
		return accessToken(session.Tokens)
	}
	if session.Tokens.RefreshToken == "" {
		return "", ErrNoRefreshToken
	}

	fresh, err := r.provider.Refresh(ctx, session.Tokens.RefreshToken)
	if err != nil {
		r.logger.WarnContext(ctx, "token refresh failed", "session_id", sessionID, "error", err)
		return "", fmt.Errorf("refresh token: %w", err)
	}

	session.Tokens = session.Tokens.Merge(fresh)
	if err := r.sessions.Save(ctx, session); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	r.logger.InfoContext(ctx, "access token refreshed", "session_id", sessionID)
	return accessToken(session.Tokens)
}

func accessToken(t domainauth.Tokens) (string, error) {
	if t.AccessToken == "" {
		return "", ErrNoAccessToken
	}
	return t.AccessToken, nil
}

func (r *TokenRefresher) needsRefresh(t domainauth.Tokens) bool {
	expiry, ok := r.expiry(t)
	if !ok {
		return false
	}
	return !expiry.After(r.clock.Now().Add(r.skew))
}

// expiry returns the stored expiry, falling back to the exp claim of a JWT
// access token. The token signature is not checked; the API does that.
func (r *TokenRefresher) expiry(t domainauth.Tokens) (time.Time, bool) {
	if t.HasExpiry() {
		return t.Expiry, true
	}
	if t.AccessToken == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := r.parser.ParseUnverified(t.AccessToken, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

type sessionTokens struct {
	refresher *TokenRefresher
	sessionID string
}

func (s sessionTokens) Token(ctx context.Context) (string, error) {
	return s.refresher.AccessToken(ctx, s.sessionID)
}

func (s sessionTokens) MarkStale(ctx context.Context) error {
	return s.refresher.MarkStale(ctx, s.sessionID)
}
