package config

import (
	"errors"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Authentication configuration
//   - redis.go: Redis and session configuration
//   - http.go: HTTP server configuration
//   - api.go: Claims API client configuration
//   - service.go: GOV.UK service details shown in the layout
//   - metrics.go: StatsD sink
type AppConfig struct {
	// IsDev controls development mode behavior (template reloading, insecure cookies).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Authentication configuration
	Auth AuthConfig

	// Redis and session storage
	Redis   RedisConfig
	Session SessionConfig

	// Claims API client configuration
	API APIConfig `envPrefix:"API_"`

	// Pagination controls how many rows each list page shows.
	Pagination PaginationConfig

	RateLimit RateLimitConfig
	Log       LogConfig     `envPrefix:"LOG_"`
	Metrics   MetricsConfig `envPrefix:"STATSD_"`
	Service   ServiceConfig

	// Stub claims backend used by the admin CLI.
	Stub StubConfig `envPrefix:"STUB_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Auth.Sanitize(c.HTTP.BaseURL)
	c.Redis.Sanitize()
	c.Session.Sanitize()
	c.API.Sanitize()
	c.Pagination.Sanitize()
	c.RateLimit.Sanitize()
	c.Log.Sanitize()
	c.Metrics.Sanitize()
	c.Stub.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// Validate reports settings that are missing or unusable. It should be
// called after Sanitize.
func (c *AppConfig) Validate() error {
	return errors.Join(
		c.HTTP.Validate(),
		c.Auth.Validate(),
		c.Redis.Validate(),
		c.Session.Validate(),
		c.API.Validate(),
		c.Metrics.Validate(),
	)
}

// SecureCookies reports whether cookies must carry the Secure attribute.
func (c *AppConfig) SecureCookies() bool {
	return !c.IsDev && strings.HasPrefix(strings.ToLower(c.HTTP.BaseURL), "https://")
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
