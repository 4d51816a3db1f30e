package config

import (
	"errors"
	"strings"
	"time"
)

// DefaultClaimsPerPage is used when NUMBER_OF_CLAIMS_PER_PAGE is unset or invalid.
const DefaultClaimsPerPage = 20

// APIConfig configures the claims API client.
type APIConfig struct {
	BaseURL  string        `env:"URL"`
	Timeout  time.Duration `env:"TIMEOUT"   envDefault:"5s"`
	RetryMax int           `env:"RETRY_MAX" envDefault:"2"`

	// ItemsExpr and TotalExpr are JMESPath expressions applied to list
	// responses. When TotalExpr yields nothing the list is treated as
	// unpaginated.
	ItemsExpr string `env:"ITEMS_EXPR" envDefault:"data || @"`
	TotalExpr string `env:"TOTAL_EXPR" envDefault:"meta.total"`
}

// Sanitize trims the base URL and bounds retries.
func (a *APIConfig) Sanitize() {
	a.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	if a.Timeout <= 0 {
		a.Timeout = 5 * time.Second
	}
	if a.RetryMax < 0 {
		a.RetryMax = 0
	}
	if strings.TrimSpace(a.ItemsExpr) == "" {
		a.ItemsExpr = "data || @"
	}
}

// Validate requires API_URL.
func (a *APIConfig) Validate() error {
	if a.BaseURL == "" {
		return errors.New("API_URL is required")
	}
	return nil
}

// PaginationConfig holds list page sizing.
type PaginationConfig struct {
	ClaimsPerPage int `env:"NUMBER_OF_CLAIMS_PER_PAGE" envDefault:"20"`
}

// Sanitize falls back to the default page size for non-positive values.
func (p *PaginationConfig) Sanitize() {
	if p.ClaimsPerPage < 1 {
		p.ClaimsPerPage = DefaultClaimsPerPage
	}
}
