package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ministryofjustice/claims-ui/config"
	httpx "github.com/ministryofjustice/claims-ui/internal/http"
	"github.com/ministryofjustice/claims-ui/internal/http/assets"
	"github.com/ministryofjustice/claims-ui/internal/http/ui/viewmodel"
	"github.com/ministryofjustice/claims-ui/internal/i18n"
	"github.com/ministryofjustice/claims-ui/internal/observability/metrics"
)

// Frontend holds the template, static and locale filesystems, each rooted
// at its own directory.
type Frontend struct {
	Templates fs.FS
	Static    fs.FS
	Locales   fs.FS
}

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services *ServiceContainer
	Frontend Frontend
	Logger   *slog.Logger
}

// BuildHTTPHandler wires the router and the middleware chain.
func BuildHTTPHandler(cfg HTTPServerConfig) (http.Handler, error) {
	if cfg.Config == nil || cfg.Services == nil {
		return nil, errors.New("config and services are required")
	}
	appCfg := cfg.Config
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	bundle, err := i18n.Load(cfg.Frontend.Locales)
	if err != nil {
		return nil, fmt.Errorf("load locales: %w", err)
	}

	static := httpx.StaticFS(cfg.Frontend.Static, appCfg.IsDev)
	resolver, err := assets.NewResolver(assets.Options{
		Static: static,
		Live:   appCfg.IsDev,
		Logger: logger.With("component", "assets"),
	})
	if err != nil {
		return nil, fmt.Errorf("asset resolver: %w", err)
	}

	services := httpx.RouterServices{
		Claims:      cfg.Services.Claims,
		Submissions: cfg.Services.Submissions,
		I18n:        bundle,
		TemplateFS:  cfg.Frontend.Templates,
		StaticFS:    static,
		Assets:      resolver,
		Readiness:   readinessChecks(cfg.Services),
		Config:      routerConfig(appCfg),
		Logger:      logger,
	}
	// Leave the interfaces nil rather than holding typed nil pointers.
	if auth := cfg.Services.Auth; auth != nil {
		services.Auth = auth.Auth
		services.Tokens = auth.Tokens
	}

	router, err := httpx.NewRouter(services)
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}

	// Order: Recover -> Logging -> Metrics -> SecurityHeaders -> Compression -> RateLimit -> Locale -> Router
	var h http.Handler = router
	h = httpx.Locale(httpx.LocaleOptions{
		Bundle:       bundle,
		CookieDomain: appCfg.HTTP.CookieDomain,
		Secure:       appCfg.SecureCookies(),
	})(h)
	if appCfg.RateLimit.Enabled {
		h = httpx.RateLimit(httpx.RateLimitOptions{
			Counter: cfg.Services.RateCounter,
			Policy: httpx.RateLimitPolicy{
				Max:     appCfg.RateLimit.Max,
				Window:  appCfg.RateLimit.Window,
				Headers: appCfg.RateLimit.HeadersEnabled,
			},
			Rejected: http.HandlerFunc(router.UI.TooManyRequests),
			Logger:   logger.With("component", "ratelimit"),
		})(h)
	}
	if appCfg.HTTP.CompressionEnabled {
		logger.Info("HTTP compression enabled", "level", appCfg.HTTP.CompressionLevel)
		h = httpx.Compression(httpx.CompressionConfig{Level: appCfg.HTTP.CompressionLevel, Logger: logger})(h)
	}
	h = httpx.SecurityHeaders()(h)
	h = metrics.Middleware(cfg.Services.Metrics)(h)
	h = httpx.Logging(logger)(h)
	h = httpx.Recover(logger)(h)
	return h, nil
}

func routerConfig(cfg *config.AppConfig) httpx.RouterConfig {
	return httpx.RouterConfig{
		AuthURLs: httpx.AuthURLs{
			Callback:   cfg.Auth.OIDC.RedirectURL,
			PostLogout: cfg.HTTP.BaseURL + "/",
		},
		Cookies: httpx.CookiePolicy{
			Domain:      cfg.HTTP.CookieDomain,
			Secure:      cfg.SecureCookies(),
			SessionName: cfg.Session.Name,
		},
		Layout: httpx.LayoutConfig{
			Service: viewmodel.Service{
				Name:           cfg.Service.Name,
				URL:            cfg.Service.URL,
				Phase:          cfg.Service.Phase,
				DepartmentName: cfg.Service.DepartmentName,
				DepartmentURL:  cfg.Service.DepartmentURL,
				ContactEmail:   cfg.Service.ContactEmail,
				ContactPhone:   cfg.Service.ContactPhone,
			},
		},
	}
}

func readinessChecks(svc *ServiceContainer) []httpx.ReadinessCheck {
	if svc.Redis == nil {
		return nil
	}
	client := svc.Redis
	return []httpx.ReadinessCheck{{
		Name:  "redis",
		Check: func(ctx context.Context) error { return client.Ping(ctx).Err() },
	}}
}

// NewHTTPServer returns an http.Server for handler on the configured address.
func NewHTTPServer(cfg config.HTTPConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// RunWithShutdown serves until SIGINT/SIGTERM or a server error, then
// drains in-flight requests for up to shutdownTimeout.
func RunWithShutdown(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serveUntilDone(ctx, server, shutdownTimeout, logger)
}

func serveUntilDone(ctx context.Context, server *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			logger.Error("HTTP server failed", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown HTTP server: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}
