package config

import (
	"errors"
	"strings"
)

// MetricsConfig configures the optional StatsD sink.
type MetricsConfig struct {
	Enabled bool   `env:"ENABLED" envDefault:"false"`
	Addr    string `env:"ADDR"    envDefault:"127.0.0.1:8125"`
	Prefix  string `env:"PREFIX"  envDefault:"claims_ui"`
	// Env is added to every metric as the env tag.
	Env string `env:"ENV"`
}

// Sanitize trims values.
func (m *MetricsConfig) Sanitize() {
	m.Addr = strings.TrimSpace(m.Addr)
	m.Prefix = strings.TrimSpace(m.Prefix)
	m.Env = strings.TrimSpace(m.Env)
}

// Validate requires an address when metrics are on.
func (m *MetricsConfig) Validate() error {
	if m.Enabled && m.Addr == "" {
		return errors.New("STATSD_ADDR is required when STATSD_ENABLED=true")
	}
	return nil
}
