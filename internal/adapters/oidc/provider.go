package oidc

// Package oidc provides the OpenID Connect AuthProvider: discovery, the
// authorization code flow with PKCE, ID token verification and refresh.

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/ministryofjustice/claims-ui/internal/domain/auth"
	"github.com/ministryofjustice/claims-ui/internal/ports"
)

// Provider implements the AuthProvider interface using OIDC/OAuth2.
type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client

	// go-oidc provider and verifier
	oidcProvider *gooidc.Provider
	verifier     *gooidc.IDTokenVerifier

	endSessionURL string
}

// ProviderConfig holds configuration for the OIDC provider.
type ProviderConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	HTTPClient   *http.Client // Optional, defaults to a client with a 30s timeout
}

// discoveryExtras are discovery fields go-oidc does not expose directly.
type discoveryExtras struct {
	EndSessionEndpoint string `json:"end_session_endpoint"`
}

// NewProvider runs OIDC discovery against the issuer and builds the provider.
func NewProvider(ctx context.Context, config ProviderConfig) (*Provider, error) {
	if config.ClientID == "" {
		return nil, errors.New("client ID is required")
	}
	if config.ClientSecret == "" {
		return nil, errors.New("client secret is required")
	}
	if config.RedirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}
	if config.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	issuer := strings.TrimSuffix(config.IssuerURL, "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	op, err := gooidc.NewProvider(gooidc.ClientContext(ctx, httpClient), issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc discovery: %w", err)
	}

	var extras discoveryExtras
	if claimsErr := op.Claims(&extras); claimsErr != nil {
		return nil, fmt.Errorf("decode discovery document: %w", claimsErr)
	}

	scopes := config.Scopes
	if len(scopes) == 0 {
		scopes = []string{gooidc.ScopeOpenID, "profile", "email", gooidc.ScopeOfflineAccess}
	}

	// Client credentials are posted in the form body (client_secret_post).
	endpoint := op.Endpoint()
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	return &Provider{
		config: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		httpClient:    httpClient,
		oidcProvider:  op,
		verifier:      op.Verifier(&gooidc.Config{ClientID: config.ClientID}),
		endSessionURL: extras.EndSessionEndpoint,
	}, nil
}

func (p *Provider) clientContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

// Begin builds the authorization URL with a fresh state, nonce and S256 PKCE challenge.
func (p *Provider) Begin(_ context.Context, _ ports.BeginInput) (ports.BeginResult, error) {
	state, err := generateRandomString(32)
	if err != nil {
		return ports.BeginResult{}, fmt.Errorf("generate state: %w", err)
	}

	nonce, err := generateRandomString(32)
	if err != nil {
		return ports.BeginResult{}, fmt.Errorf("generate nonce: %w", err)
	}

	verifier := oauth2.GenerateVerifier()
	authURL := p.config.AuthCodeURL(state,
		gooidc.Nonce(nonce),
		oauth2.S256ChallengeOption(verifier),
	)

	return ports.BeginResult{
		AuthURL:      authURL,
		State:        state,
		Nonce:        nonce,
		CodeVerifier: verifier,
	}, nil
}

// Exchange redeems the code, verifies the ID token and nonce, and fills
// missing identity fields from the UserInfo endpoint.
func (p *Provider) Exchange(
	ctx context.Context,
	in ports.ExchangeInput,
) (domainauth.Identity, domainauth.Tokens, error) {
	if in.Code == "" {
		return domainauth.Identity{}, domainauth.Tokens{}, errors.New("authorization code is required")
	}
	if in.State == "" {
		return domainauth.Identity{}, domainauth.Tokens{}, errors.New("state is required")
	}
	if in.Nonce == "" {
		return domainauth.Identity{}, domainauth.Tokens{}, errors.New("nonce is required")
	}

	ctx = p.clientContext(ctx)
	var opts []oauth2.AuthCodeOption
	if in.CodeVerifier != "" {
		opts = append(opts, oauth2.VerifierOption(in.CodeVerifier))
	}
	token, err := p.config.Exchange(ctx, in.Code, opts...)
	if err != nil {
		return domainauth.Identity{}, domainauth.Tokens{}, fmt.Errorf("exchange code for token: %w", err)
	}

	fields, rawID, err := p.extractFromIDToken(ctx, token, in.Nonce)
	if err != nil {
		return domainauth.Identity{}, domainauth.Tokens{}, fmt.Errorf("extract id_token: %w", err)
	}

	if fields.email == "" || fields.userID == "" || fields.name == "" {
		if fillErr := p.fillFromUserInfo(ctx, token.AccessToken, &fields); fillErr != nil {
			// UserInfo is optional once the ID token supplied a subject.
			if fields.userID == "" {
				return domainauth.Identity{}, domainauth.Tokens{}, fmt.Errorf("get user info: %w", fillErr)
			}
		}
	}

	tokens := tokensFrom(token)
	tokens.IDToken = rawID

	return domainauth.Identity{
		UserID: fields.userID,
		Name:   fields.name,
		Email:  fields.email,
	}, tokens, nil
}

// Refresh runs the refresh-token grant.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (domainauth.Tokens, error) {
	if refreshToken == "" {
		return domainauth.Tokens{}, errors.New("refresh token is required")
	}
	src := p.config.TokenSource(p.clientContext(ctx), &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return domainauth.Tokens{}, fmt.Errorf("refresh token grant: %w", err)
	}
	tokens := tokensFrom(token)
	if raw, ok := token.Extra("id_token").(string); ok {
		tokens.IDToken = raw
	}
	return tokens, nil
}

// LogoutURL builds the RP-initiated logout URL from the discovered
// end_session_endpoint.
func (p *Provider) LogoutURL(idTokenHint, postLogoutRedirect string) string {
	if p.endSessionURL == "" {
		return ""
	}
	u, err := url.Parse(p.endSessionURL)
	if err != nil {
		return ""
	}
	q := u.Query()
	if postLogoutRedirect != "" {
		q.Set("post_logout_redirect_uri", postLogoutRedirect)
	}
	if idTokenHint != "" {
		q.Set("id_token_hint", idTokenHint)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func tokensFrom(tok *oauth2.Token) domainauth.Tokens {
	return domainauth.Tokens{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.Type(),
		Expiry:       tok.Expiry,
	}
}

// UserInfo represents the user information from the OIDC userinfo endpoint.
type UserInfo struct {
	Subject    string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
}

func (p *Provider) getUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	ui, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken}))
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	var userInfo UserInfo
	if claimsErr := ui.Claims(&userInfo); claimsErr != nil {
		return nil, fmt.Errorf("decode user info: %w", claimsErr)
	}
	return &userInfo, nil
}

type idFields struct {
	userID string
	name   string
	email  string
}

type idTokenClaims struct {
	Sub        string `json:"sub"`
	Name       string `json:"name"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Email      string `json:"email"`
	Nonce      string `json:"nonce"`
}

func (p *Provider) extractFromIDToken(
	ctx context.Context,
	tok *oauth2.Token,
	expectedNonce string,
) (idFields, string, error) {
	var f idFields
	if !p.hasOpenIDScope() {
		return f, "", nil
	}
	rawID, err := getIDTokenFromToken(tok)
	if err != nil {
		return f, "", err
	}
	idTok, err := p.verifier.Verify(ctx, rawID)
	if err != nil {
		return f, "", fmt.Errorf("verify id_token: %w", err)
	}
	var claims idTokenClaims
	if claimsErr := idTok.Claims(&claims); claimsErr != nil {
		return f, "", fmt.Errorf("parse id_token claims: %w", claimsErr)
	}
	if expectedNonce != "" && claims.Nonce != expectedNonce {
		return f, "", errors.New("invalid nonce")
	}
	return mapIDTokenClaims(claims), rawID, nil
}

func (p *Provider) fillFromUserInfo(ctx context.Context, accessToken string, f *idFields) error {
	ui, err := p.getUserInfo(ctx, accessToken)
	if err != nil {
		return err
	}
	fillFromUserInfoClaims(f, *ui)
	return nil
}

func mapIDTokenClaims(c idTokenClaims) idFields {
	return idFields{
		userID: c.Sub,
		name:   displayName(c.Name, c.GivenName, c.FamilyName),
		email:  c.Email,
	}
}

// fillFromUserInfoClaims fills missing fields from a UserInfo payload.
func fillFromUserInfoClaims(f *idFields, ui UserInfo) {
	if f.userID == "" {
		f.userID = ui.Subject
	}
	if f.email == "" {
		f.email = ui.Email
	}
	if f.name == "" {
		f.name = displayName(ui.Name, ui.GivenName, ui.FamilyName)
	}
}

func displayName(full, given, family string) string {
	if full != "" {
		return full
	}
	return strings.TrimSpace(given + " " + family)
}

// generateRandomString generates a cryptographically secure URL-safe random string of exact length.
func generateRandomString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}
	b := make([]byte, (length*3+3)/4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}

func (p *Provider) hasOpenIDScope() bool {
	return slices.Contains(p.config.Scopes, gooidc.ScopeOpenID)
}

// getIDTokenFromToken extracts the id_token from oauth2.Token.
func getIDTokenFromToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errors.New("nil token")
	}
	s, ok := tok.Extra("id_token").(string)
	if !ok || s == "" {
		return "", errors.New("missing id_token in token response")
	}
	return s, nil
}
