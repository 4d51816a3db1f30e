package config

import "time"

// RateLimitConfig configures the per-client fixed window limiter.
type RateLimitConfig struct {
	Enabled bool          `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Max     int           `env:"RATE_LIMIT_MAX"     envDefault:"100"`
	Window  time.Duration `env:"RATE_WINDOW"        envDefault:"15m"`
	// HeadersEnabled adds RateLimit-* headers to every response.
	HeadersEnabled bool   `env:"RATELIMIT_HEADERS_ENABLED" envDefault:"true"`
	KeyPrefix      string `env:"RATE_LIMIT_PREFIX"         envDefault:"rl:"`
}

// Sanitize applies defaults to non-positive values.
func (r *RateLimitConfig) Sanitize() {
	if r.Max <= 0 {
		r.Max = 100
	}
	if r.Window <= 0 {
		r.Window = 15 * time.Minute
	}
}
