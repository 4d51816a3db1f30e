package config

import "strings"

// StubConfig configures the stub claims backend served by the admin CLI.
type StubConfig struct {
	Addr string `env:"ADDR" envDefault:":5001"`
	// DatabaseURL selects the Postgres store. Empty uses memory.
	DatabaseURL string `env:"DATABASE_URL"`
	SeedClaims  int    `env:"SEED_CLAIMS"  envDefault:"180"`
}

// Sanitize trims the database URL and bounds the seed size.
func (s *StubConfig) Sanitize() {
	s.DatabaseURL = strings.TrimSpace(s.DatabaseURL)
	if s.SeedClaims < 0 {
		s.SeedClaims = 0
	}
}
