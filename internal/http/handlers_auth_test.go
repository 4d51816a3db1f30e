package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthHandlers(auth *fakeAuth) *AuthHandlers {
	return &AuthHandlers{
		Svc: auth,
		URLs: AuthURLs{
			Callback:   "http://localhost:3000/auth/callback",
			PostLogout: "http://localhost:3000/",
		},
		Cookies: CookiePolicy{Secure: true},
		Logger:  discardLogger(),
	}
}

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func callbackRequest(target string, cookies map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for name, v := range cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: v})
	}
	return req
}

func TestLogin_SetsFlowCookiesAndRedirects(t *testing.T) {
	h := newAuthHandlers(newFakeAuth())
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=/submissions", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://idp.example.com/authorize?state=st", rec.Header().Get("Location"))

	cookies := cookiesByName(rec)
	assert.Equal(t, "st", cookies[stateCookie].Value)
	assert.Equal(t, "nn", cookies[nonceCookie].Value)
	assert.Equal(t, "cv", cookies[verifierCookie].Value)
	assert.Equal(t, "/submissions", cookies[redirectCookie].Value)
	for _, c := range cookies {
		assert.True(t, c.HttpOnly, c.Name)
		assert.True(t, c.Secure, c.Name)
	}
}

func TestLogin_RejectsOffSiteRedirect(t *testing.T) {
	h := newAuthHandlers(newFakeAuth())
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login?redirect_uri=https://evil.example.com", nil))

	assert.Equal(t, "/", cookiesByName(rec)[redirectCookie].Value)
}

func TestLogin_ProviderUnavailable(t *testing.T) {
	auth := newFakeAuth()
	auth.beginErr = errors.New("discovery failed")
	rec := httptest.NewRecorder()
	newAuthHandlers(auth).Login(rec, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCallback_Success(t *testing.T) {
	auth := newFakeAuth()
	h := newAuthHandlers(auth)
	rec := httptest.NewRecorder()
	h.Callback(rec, callbackRequest("/auth/callback?code=abc&state=st", map[string]string{
		stateCookie:    "st",
		nonceCookie:    "nn",
		verifierCookie: "cv",
		redirectCookie: "/claims/4",
	}))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/claims/4", rec.Header().Get("Location"))

	require.Len(t, auth.completed, 1)
	assert.Equal(t, "abc", auth.completed[0].Code)
	assert.Equal(t, "nn", auth.completed[0].Nonce)
	assert.Equal(t, "cv", auth.completed[0].CodeVerifier)

	cookies := cookiesByName(rec)
	require.Contains(t, cookies, defaultSessionCookie)
	assert.NotEmpty(t, cookies[defaultSessionCookie].Value)
	assert.Positive(t, cookies[defaultSessionCookie].MaxAge)
	assert.Equal(t, -1, cookies[stateCookie].MaxAge)
}

func TestCallback_Failures(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		cookies     map[string]string
		completeErr error
		wantCode    int
	}{
		{
			name:     "provider error",
			target:   "/auth/callback?error=access_denied",
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "missing state cookie",
			target:   "/auth/callback?code=abc&state=st",
			cookies:  map[string]string{nonceCookie: "nn"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "state mismatch",
			target:   "/auth/callback?code=abc&state=other",
			cookies:  map[string]string{stateCookie: "st", nonceCookie: "nn"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "missing nonce",
			target:   "/auth/callback?code=abc&state=st",
			cookies:  map[string]string{stateCookie: "st"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:        "exchange failed",
			target:      "/auth/callback?code=abc&state=st",
			cookies:     map[string]string{stateCookie: "st", nonceCookie: "nn"},
			completeErr: errors.New("invalid_grant"),
			wantCode:    http.StatusUnauthorized,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := newFakeAuth()
			auth.completeErr = tt.completeErr
			rec := httptest.NewRecorder()
			newAuthHandlers(auth).Callback(rec, callbackRequest(tt.target, tt.cookies))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.NotContains(t, cookiesByName(rec), defaultSessionCookie)
		})
	}
}

func TestCallback_RendersProblemPage(t *testing.T) {
	f := newRouterFixture(t, fixtureOptions{WithAuth: true})
	req := callbackRequest("/auth/callback?code=abc&state=st", nil)
	rec := serve(f.Router, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Login session not found or expired.")
}

func TestLogout(t *testing.T) {
	auth := newFakeAuth()
	id := auth.addSession("Jane Doe")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(sessionCookie(id))
	newAuthHandlers(auth).Logout(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "https://idp.example.com/logout?post_logout_redirect_uri=http://localhost:3000/", rec.Header().Get("Location"))
	assert.Equal(t, []string{id}, auth.loggedOut)
	assert.Equal(t, -1, cookiesByName(rec)[defaultSessionCookie].MaxAge)
}

func TestLogout_WithoutSession(t *testing.T) {
	rec := httptest.NewRecorder()
	newAuthHandlers(newFakeAuth()).Logout(rec, httptest.NewRequest(http.MethodGet, "/auth/logout", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}
