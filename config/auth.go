package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// AuthMode represents the authentication mode for the application.
type AuthMode string

const (
	// AuthModeOAuth uses OAuth/OIDC for authentication.
	AuthModeOAuth AuthMode = "oauth"
	// AuthModeMock uses mock/dev authentication (for development only).
	AuthModeMock AuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: oauth, mock)", v)
	}
}

// CallbackPath is where the identity provider sends the user back.
const CallbackPath = "/auth/callback"

// OIDCConfig contains OpenID Connect client configuration.
type OIDCConfig struct {
	IssuerURL    string   `env:"ISSUER_URL"`
	ClientID     string   `env:"CLIENT_ID"`
	ClientSecret string   `env:"CLIENT_SECRET"`
	Scopes       []string `env:"SCOPE"         envDefault:"openid profile email offline_access" envSeparator:" "`
	// RedirectURL defaults to BASE_URL + /auth/callback.
	RedirectURL string `env:"REDIRECT_URL"`
	// RefreshSkew refreshes access tokens this long before they expire.
	RefreshSkew time.Duration `env:"REFRESH_SKEW" envDefault:"30s"`
}

// DevAuthConfig controls mock/dev authentication identity.
// Used when AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	UserID string `env:"USER_ID" envDefault:"dev-user"`
	Name   string `env:"NAME"    envDefault:"Dev User"`
	Email  string `env:"EMAIL"   envDefault:"dev@example.com"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Enabled turns sign-in on. When false every page is public and API
	// requests carry no bearer token.
	Enabled bool `env:"AUTH_ENABLED" envDefault:"true"`

	// Mode determines which authentication provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"oauth"`

	// OIDC configuration (used when Mode=oauth).
	OIDC OIDCConfig `envPrefix:"OIDC_"`

	// DevAuth configuration (used when Mode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_AUTH_"`
}

// Sanitize trims values and derives the redirect URL from baseURL.
func (a *AuthConfig) Sanitize(baseURL string) {
	a.OIDC.IssuerURL = strings.TrimSpace(a.OIDC.IssuerURL)
	a.OIDC.ClientID = strings.TrimSpace(a.OIDC.ClientID)
	a.OIDC.RedirectURL = strings.TrimSpace(a.OIDC.RedirectURL)
	if a.OIDC.RedirectURL == "" {
		a.OIDC.RedirectURL = strings.TrimRight(baseURL, "/") + CallbackPath
	}
	if a.OIDC.RefreshSkew < 0 {
		a.OIDC.RefreshSkew = 0
	}
	if a.Mode == "" {
		a.Mode = AuthModeOAuth
	}
}

// UsesOIDC reports whether a real identity provider must be configured.
func (a *AuthConfig) UsesOIDC() bool {
	return a.Enabled && a.Mode == AuthModeOAuth
}

// Validate requires the OIDC client settings when sign-in uses a real provider.
func (a *AuthConfig) Validate() error {
	if !a.UsesOIDC() {
		return nil
	}
	var errs []error
	if a.OIDC.IssuerURL == "" {
		errs = append(errs, errors.New("OIDC_ISSUER_URL is required when AUTH_ENABLED=true"))
	}
	if a.OIDC.ClientID == "" {
		errs = append(errs, errors.New("OIDC_CLIENT_ID is required when AUTH_ENABLED=true"))
	}
	if a.OIDC.ClientSecret == "" {
		errs = append(errs, errors.New("OIDC_CLIENT_SECRET is required when AUTH_ENABLED=true"))
	}
	return errors.Join(errs...)
}
