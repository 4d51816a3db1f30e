package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	claimsui "github.com/ministryofjustice/claims-ui"
	"github.com/ministryofjustice/claims-ui/config"
	"github.com/ministryofjustice/claims-ui/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	if err := run(ctx); err != nil {
		slog.Default().ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	logger := bootstrap.InitLogger(cfg.Log)
	logStartupInfo(ctx, logger, &cfg)

	redisClient, err := initRedis(ctx, &cfg, logger)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	sink, closeMetrics, err := bootstrap.NewMetricsSink(ctx, cfg.Metrics, logger)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	defer closeMetrics()

	services, err := bootstrap.NewServices(ctx, bootstrap.ServiceDeps{
		Config:      &cfg,
		RedisClient: redisClient,
		Metrics:     sink,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	frontend, err := loadFrontend(cfg.IsDev)
	if err != nil {
		return err
	}
	handler, err := bootstrap.BuildHTTPHandler(bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Frontend: frontend,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	server := bootstrap.NewHTTPServer(cfg.HTTP, handler)
	return bootstrap.RunWithShutdown(ctx, server, cfg.HTTP.ShutdownTimeout, logger)
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting claims UI",
		"addr", cfg.HTTP.Addr(),
		"base_url", cfg.HTTP.BaseURL,
		"api_url", cfg.API.BaseURL,
		"auth_enabled", cfg.Auth.Enabled,
		"auth_mode", cfg.Auth.Mode,
		"redis_enabled", !cfg.Redis.Disabled,
		"dev", cfg.IsDev,
	)
}

// initRedis connects Redis unless it is disabled.
func initRedis(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*redis.Client, error) {
	if cfg.Redis.Disabled {
		logger.WarnContext(ctx, "redis disabled; sessions and rate limits are kept in memory")
		return nil, nil //nolint:nilnil // redis disabled
	}
	client, err := bootstrap.ConnectRedis(ctx, cfg.Redis, logger)
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

// loadFrontend returns the embedded frontend, with templates read from
// disk in dev mode.
func loadFrontend(isDev bool) (bootstrap.Frontend, error) {
	templates, static, locales, err := claimsui.Frontend()
	if err != nil {
		return bootstrap.Frontend{}, err
	}
	if isDev {
		templates = os.DirFS("frontend/templates")
	}
	return bootstrap.Frontend{Templates: templates, Static: static, Locales: locales}, nil
}
