package oidc

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/ministryofjustice/claims-ui/internal/ports"
)

// fakeIdP is a minimal OpenID provider: discovery, JWKS, token and userinfo.
type fakeIdP struct {
	t      *testing.T
	server *httptest.Server
	key    *rsa.PrivateKey

	nonce        string
	omitUserinfo bool
	lastForm     url.Values
}

func newFakeIdP(t *testing.T, withEndSession bool) *fakeIdP {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	idp := &fakeIdP{t: t, key: key}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /.well-known/openid-configuration", func(w http.ResponseWriter, _ *http.Request) {
		doc := map[string]any{
			"issuer":                 idp.server.URL,
			"authorization_endpoint": idp.server.URL + "/authorize",
			"token_endpoint":         idp.server.URL + "/token",
			"userinfo_endpoint":      idp.server.URL + "/userinfo",
			"jwks_uri":               idp.server.URL + "/jwks",
		}
		if withEndSession {
			doc["end_session_endpoint"] = idp.server.URL + "/logout"
		}
		_ = json.NewEncoder(w).Encode(doc)
	})
	mux.HandleFunc("GET /jwks", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"keys": []map[string]string{{
			"kty": "RSA",
			"alg": "RS256",
			"use": "sig",
			"kid": "test-key",
			"n":   base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}}})
	})
	mux.HandleFunc("POST /token", idp.handleToken)
	mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, _ *http.Request) {
		if idp.omitUserinfo {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sub":   "user-1",
			"name":  "Ada Lovelace",
			"email": "ada@example.com",
		})
	})
	idp.server = httptest.NewServer(mux)
	t.Cleanup(idp.server.Close)
	return idp
}

func (idp *fakeIdP) idToken(claims jwt.MapClaims) string {
	idp.t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = "test-key"
	s, err := tok.SignedString(idp.key)
	require.NoError(idp.t, err)
	return s
}

func (idp *fakeIdP) handleToken(w http.ResponseWriter, r *http.Request) {
	require.NoError(idp.t, r.ParseForm())
	idp.lastForm = r.PostForm

	w.Header().Set("Content-Type", "application/json")
	switch r.PostForm.Get("grant_type") {
	case "authorization_code":
		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		now := time.Now()
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"refresh_token": "refresh-1",
			"token_type":    "Bearer",
			"expires_in":    3600,
			"id_token": idp.idToken(jwt.MapClaims{
				"iss":   idp.server.URL,
				"aud":   "test-client",
				"sub":   "user-1",
				"nonce": idp.nonce,
				"email": "ada@example.com",
				"iat":   now.Unix(),
				"exp":   now.Add(time.Hour).Unix(),
			}),
		})
	case "refresh_token":
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access-2",
			"token_type":   "Bearer",
			"expires_in":   600,
		})
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func (idp *fakeIdP) provider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider(context.Background(), ProviderConfig{
		IssuerURL:    idp.server.URL,
		ClientID:     "test-client",
		ClientSecret: "test-secret",
		RedirectURL:  "http://localhost:3000/auth/callback",
		Scopes:       []string{"openid", "profile", "email"},
	})
	require.NoError(t, err)
	return p
}

func TestNewProvider_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		config ProviderConfig
		errMsg string
	}{
		{
			name:   "missing client ID",
			config: ProviderConfig{ClientSecret: "secret", RedirectURL: "http://localhost/cb", IssuerURL: "http://example.com"},
			errMsg: "client ID is required",
		},
		{
			name:   "missing client secret",
			config: ProviderConfig{ClientID: "client", RedirectURL: "http://localhost/cb", IssuerURL: "http://example.com"},
			errMsg: "client secret is required",
		},
		{
			name:   "missing redirect URL",
			config: ProviderConfig{ClientID: "client", ClientSecret: "secret", IssuerURL: "http://example.com"},
			errMsg: "redirect URL is required",
		},
		{
			name:   "missing issuer URL",
			config: ProviderConfig{ClientID: "client", ClientSecret: "secret", RedirectURL: "http://localhost/cb"},
			errMsg: "issuer URL is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(context.Background(), tt.config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestNewProvider_Discovery(t *testing.T) {
	idp := newFakeIdP(t, true)
	p := idp.provider(t)

	assert.Equal(t, idp.server.URL+"/authorize", p.config.Endpoint.AuthURL)
	assert.Equal(t, idp.server.URL+"/token", p.config.Endpoint.TokenURL)
	assert.Equal(t, idp.server.URL+"/logout", p.endSessionURL)
}

func TestProvider_Begin(t *testing.T) {
	p := newFakeIdP(t, false).provider(t)

	res, err := p.Begin(context.Background(), ports.BeginInput{})
	require.NoError(t, err)
	assert.Len(t, res.State, 32)
	assert.Len(t, res.Nonce, 32)
	assert.NotEmpty(t, res.CodeVerifier)

	u, err := url.Parse(res.AuthURL)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "test-client", q.Get("client_id"))
	assert.Equal(t, res.State, q.Get("state"))
	assert.Equal(t, res.Nonce, q.Get("nonce"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, oauth2.S256ChallengeFromVerifier(res.CodeVerifier), q.Get("code_challenge"))
	assert.Equal(t, "http://localhost:3000/auth/callback", q.Get("redirect_uri"))
}

func TestProvider_Exchange_ValidationErrors(t *testing.T) {
	p := newFakeIdP(t, false).provider(t)

	tests := []struct {
		name   string
		input  ports.ExchangeInput
		errMsg string
	}{
		{name: "missing code", input: ports.ExchangeInput{State: "s", Nonce: "n"}, errMsg: "authorization code is required"},
		{name: "missing state", input: ports.ExchangeInput{Code: "c", Nonce: "n"}, errMsg: "state is required"},
		{name: "missing nonce", input: ports.ExchangeInput{Code: "c", State: "s"}, errMsg: "nonce is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := p.Exchange(context.Background(), tt.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProvider_Exchange_Success(t *testing.T) {
	idp := newFakeIdP(t, false)
	idp.nonce = "nonce-123"
	p := idp.provider(t)

	id, tokens, err := p.Exchange(context.Background(), ports.ExchangeInput{
		Code:         "good-code",
		State:        "state",
		Nonce:        "nonce-123",
		CodeVerifier: "verifier-abc",
	})
	require.NoError(t, err)

	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "ada@example.com", id.Email)
	assert.Equal(t, "Ada Lovelace", id.Name, "name filled from userinfo")
	assert.Equal(t, "access-1", tokens.AccessToken)
	assert.Equal(t, "refresh-1", tokens.RefreshToken)
	assert.NotEmpty(t, tokens.IDToken)
	assert.WithinDuration(t, time.Now().Add(time.Hour), tokens.Expiry, time.Minute)

	assert.Equal(t, "verifier-abc", idp.lastForm.Get("code_verifier"))
	assert.Equal(t, "test-client", idp.lastForm.Get("client_id"))
	assert.Equal(t, "test-secret", idp.lastForm.Get("client_secret"))
}

func TestProvider_Exchange_NonceMismatch(t *testing.T) {
	idp := newFakeIdP(t, false)
	idp.nonce = "other"
	p := idp.provider(t)

	_, _, err := p.Exchange(context.Background(), ports.ExchangeInput{Code: "good-code", State: "s", Nonce: "expected"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid nonce")
}

func TestProvider_Exchange_UserInfoOptional(t *testing.T) {
	idp := newFakeIdP(t, false)
	idp.nonce = "n"
	idp.omitUserinfo = true
	p := idp.provider(t)

	id, _, err := p.Exchange(context.Background(), ports.ExchangeInput{Code: "good-code", State: "s", Nonce: "n"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Empty(t, id.Name)
}

func TestProvider_Exchange_BadCode(t *testing.T) {
	p := newFakeIdP(t, false).provider(t)

	_, _, err := p.Exchange(context.Background(), ports.ExchangeInput{Code: "bad", State: "s", Nonce: "n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exchange code for token")
}

func TestProvider_Refresh(t *testing.T) {
	idp := newFakeIdP(t, false)
	p := idp.provider(t)

	tokens, err := p.Refresh(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "access-2", tokens.AccessToken)
	assert.Equal(t, "refresh-1", tokens.RefreshToken, "oauth2 keeps the refresh token when the provider omits it")
	assert.Equal(t, "refresh-1", idp.lastForm.Get("refresh_token"))

	_, err = p.Refresh(context.Background(), "")
	assert.Error(t, err)
}

func TestProvider_LogoutURL(t *testing.T) {
	withEndSession := newFakeIdP(t, true)
	p := withEndSession.provider(t)

	got, err := url.Parse(p.LogoutURL("id-token", "https://claims.example.gov.uk"))
	require.NoError(t, err)
	assert.Equal(t, "/logout", got.Path)
	assert.Equal(t, "id-token", got.Query().Get("id_token_hint"))
	assert.Equal(t, "https://claims.example.gov.uk", got.Query().Get("post_logout_redirect_uri"))

	assert.Empty(t, newFakeIdP(t, false).provider(t).LogoutURL("id-token", "https://x"))
}

func TestGenerateRandomString(t *testing.T) {
	str1, err := generateRandomString(16)
	require.NoError(t, err)
	assert.Len(t, str1, 16)

	str2, err := generateRandomString(16)
	require.NoError(t, err)
	assert.NotEqual(t, str1, str2)

	empty, err := generateRandomString(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetIDTokenFromToken(t *testing.T) {
	tok := (&oauth2.Token{}).WithExtra(map[string]any{"id_token": "abc.def.ghi"})
	idTok, err := getIDTokenFromToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", idTok)

	_, err = getIDTokenFromToken((&oauth2.Token{}).WithExtra(map[string]any{"not_id": "x"}))
	assert.ErrorContains(t, err, "missing id_token")

	_, err = getIDTokenFromToken(nil)
	assert.ErrorContains(t, err, "nil token")
}

func Test_fillFromUserInfoClaims(t *testing.T) {
	ui := UserInfo{Subject: "sub-abc", GivenName: "Ada", FamilyName: "Lovelace", Email: "ada@example.com"}

	var f idFields
	fillFromUserInfoClaims(&f, ui)
	assert.Equal(t, "sub-abc", f.userID)
	assert.Equal(t, "Ada Lovelace", f.name)
	assert.Equal(t, "ada@example.com", f.email)

	keep := idFields{userID: "keep", name: "Keep", email: "keep@example.com"}
	fillFromUserInfoClaims(&keep, ui)
	assert.Equal(t, idFields{userID: "keep", name: "Keep", email: "keep@example.com"}, keep)
}

func TestProvider_ImplementsInterface(t *testing.T) {
	var _ ports.AuthProvider = (*Provider)(nil)
}
