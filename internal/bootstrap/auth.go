package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ministryofjustice/claims-ui/config"
	"github.com/ministryofjustice/claims-ui/internal/cryptoutil"
	"github.com/ministryofjustice/claims-ui/internal/adapters/devauth"
	"github.com/ministryofjustice/claims-ui/internal/adapters/memstore"
	"github.com/ministryofjustice/claims-ui/internal/adapters/oidc"
	redisadapter "github.com/ministryofjustice/claims-ui/internal/adapters/redis"
	"github.com/ministryofjustice/claims-ui/internal/ports"
	"github.com/ministryofjustice/claims-ui/internal/service"
)

// AuthConfig contains configuration for the auth services.
type AuthConfig struct {
	Auth    config.AuthConfig
	Session config.SessionConfig
	// RedisClient is nil when Redis is disabled; sessions are then kept
	// in memory.
	RedisClient *redis.Client
	Logger      *slog.Logger
}

// AuthComponents are the services sign-in needs.
type AuthComponents struct {
	Auth   *service.AuthService
	Tokens *service.TokenRefresher
}

// BuildAuth creates the auth and token services for the configured auth
// mode. It returns nil components when sign-in is disabled.
func BuildAuth(ctx context.Context, cfg AuthConfig) (*AuthComponents, error) {
	if !cfg.Auth.Enabled {
		return nil, nil //nolint:nilnil // sign-in disabled
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	provider, err := buildProvider(ctx, cfg.Auth)
	if err != nil {
		return nil, err
	}
	sessions, err := buildSessionStore(cfg.RedisClient, cfg.Session)
	if err != nil {
		return nil, err
	}

	tokens, err := service.NewTokenRefresher(service.TokenRefresherOptions{
		Provider: provider,
		Sessions: sessions,
		Config: service.TokenRefresherConfig{
			Skew:   cfg.Auth.OIDC.RefreshSkew,
			Logger: logger.With("component", "token_refresher"),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("token refresher: %w", err)
	}

	logger.InfoContext(ctx, "auth enabled", "mode", cfg.Auth.Mode, "redis_sessions", cfg.RedisClient != nil)
	return &AuthComponents{
		Auth: service.NewAuthService(service.AuthServiceOptions{
			Provider: provider,
			Sessions: sessions,
			Policy:   service.SessionPolicy{TTL: cfg.Session.TTL},
		}),
		Tokens: tokens,
	}, nil
}

//nolint:ireturn // mode picks the provider implementation
func buildProvider(ctx context.Context, cfg config.AuthConfig) (ports.AuthProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		prov, err := devauth.NewProvider(devauth.Config{
			UserID: cfg.DevAuth.UserID,
			Name:   cfg.DevAuth.Name,
			Email:  cfg.DevAuth.Email,
		})
		if err != nil {
			return nil, fmt.Errorf("dev auth provider: %w", err)
		}
		return prov, nil

	case config.AuthModeOAuth:
		// The provider keeps ctx for later key set fetches, so it must
		// outlive startup.
		prov, err := oidc.NewProvider(ctx, oidc.ProviderConfig{
			IssuerURL:    cfg.OIDC.IssuerURL,
			ClientID:     cfg.OIDC.ClientID,
			ClientSecret: cfg.OIDC.ClientSecret,
			RedirectURL:  cfg.OIDC.RedirectURL,
			Scopes:       cfg.OIDC.Scopes,
		})
		if err != nil {
			return nil, fmt.Errorf("oidc provider: %w", err)
		}
		return prov, nil

	default:
		return nil, errors.New("unknown auth mode " + string(cfg.Mode))
	}
}

//nolint:ireturn // redis or memory store depending on configuration
func buildSessionStore(client *redis.Client, cfg config.SessionConfig) (ports.SessionStore, error) {
	if client == nil {
		return memstore.NewSessionStore(time.Now), nil
	}
	return NewRedisSessionStore(client, cfg)
}

// NewRedisSessionStore builds the Redis session store, sealing records
// when SESSION_ENCRYPTION_KEY is set.
func NewRedisSessionStore(client redis.UniversalClient, cfg config.SessionConfig) (*redisadapter.SessionStore, error) {
	store := redisadapter.NewSessionStoreWithPrefix(client, cfg.Prefix)
	key, err := cfg.Key()
	if err != nil {
		return nil, err
	}
	if key == nil {
		return store, nil
	}
	sealer, err := cryptoutil.NewAESGCM(key)
	if err != nil {
		return nil, fmt.Errorf("session sealer: %w", err)
	}
	return store.WithSealer(sealer), nil
}
