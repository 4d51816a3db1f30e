package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ministryofjustice/claims-ui/config"
	"github.com/ministryofjustice/claims-ui/internal/adapters/claimsapi"
	"github.com/ministryofjustice/claims-ui/internal/adapters/memstore"
	redisadapter "github.com/ministryofjustice/claims-ui/internal/adapters/redis"
	httpx "github.com/ministryofjustice/claims-ui/internal/http"
	"github.com/ministryofjustice/claims-ui/internal/observability/statsd"
	"github.com/ministryofjustice/claims-ui/internal/service"
)

// ServiceDeps contains dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	// RedisClient is nil when DISABLE_REDIS is set.
	RedisClient *redis.Client
	// Metrics defaults to statsd.Discard.
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// ServiceContainer holds all initialized services.
type ServiceContainer struct {
	Claims      *service.ClaimService
	Submissions *service.SubmissionService
	// Auth is nil when sign-in is disabled.
	Auth        *AuthComponents
	RateCounter httpx.RateCounter
	Redis       *redis.Client
	Metrics     statsd.Sink
}

// NewServices builds the API client and every service on top of it.
func NewServices(ctx context.Context, deps ServiceDeps) (*ServiceContainer, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sink := deps.Metrics
	if sink == nil {
		sink = statsd.Discard{}
	}

	api, err := claimsapi.New(claimsapi.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RetryMax:  cfg.API.RetryMax,
		ItemsExpr: cfg.API.ItemsExpr,
		TotalExpr: cfg.API.TotalExpr,
		Logger:    logger.With("component", "claims_api"),
		Metrics:   sink,
	})
	if err != nil {
		return nil, fmt.Errorf("claims API client: %w", err)
	}

	claims, err := service.NewClaimService(service.ClaimServiceOptions{
		API:      api,
		PageSize: cfg.Pagination.ClaimsPerPage,
		Logger:   logger.With("component", "claims"),
	})
	if err != nil {
		return nil, fmt.Errorf("claim service: %w", err)
	}
	submissions, err := service.NewSubmissionService(service.SubmissionServiceOptions{
		API:      api,
		PageSize: cfg.Pagination.ClaimsPerPage,
	})
	if err != nil {
		return nil, fmt.Errorf("submission service: %w", err)
	}

	auth, err := BuildAuth(ctx, AuthConfig{
		Auth:        cfg.Auth,
		Session:     cfg.Session,
		RedisClient: deps.RedisClient,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	return &ServiceContainer{
		Claims:      claims,
		Submissions: submissions,
		Auth:        auth,
		RateCounter: buildRateCounter(deps.RedisClient, cfg.RateLimit),
		Redis:       deps.RedisClient,
		Metrics:     sink,
	}, nil
}

//nolint:ireturn // redis or memory counter depending on configuration
func buildRateCounter(client *redis.Client, cfg config.RateLimitConfig) httpx.RateCounter {
	if !cfg.Enabled {
		return nil
	}
	if client == nil {
		return memstore.NewRateCounter(time.Now)
	}
	return redisadapter.NewRateCounter(client, cfg.KeyPrefix)
}
