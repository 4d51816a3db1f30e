package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/claims-ui/internal/ports"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) { return string(s), nil }
func (staticToken) MarkStale(context.Context) error         { return nil }

type tokenSourcesFunc func(sessionID string) ports.TokenSource

func (f tokenSourcesFunc) ForSession(id string) ports.TokenSource { return f(id) }

func TestRecover(t *testing.T) {
	h := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogging_PassesThroughStatus(t *testing.T) {
	h := Logging(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "default-src 'self'")
}

func TestRequireAuth_AttachesSessionAndTokenSource(t *testing.T) {
	auth := newFakeAuth()
	id := auth.addSession("Jane Doe")
	opts := AuthMiddlewareOptions{
		Sessions: auth,
		Tokens: tokenSourcesFunc(func(sessionID string) ports.TokenSource {
			return staticToken("token-for-" + sessionID)
		}),
	}

	var gotName, gotToken string
	h := RequireAuth(opts)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		if s := SessionFrom(r.Context()); s != nil {
			gotName = s.Name
		}
		if ts, ok := ports.TokenSourceFrom(r.Context()); ok {
			gotToken, _ = ts.Token(r.Context())
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(sessionCookie(id))
	rec := serve(h, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jane Doe", gotName)
	assert.Equal(t, "token-for-"+id, gotToken)
}

func TestRequireAuth_Rejects(t *testing.T) {
	auth := newFakeAuth()
	h := RequireAuth(AuthMiddlewareOptions{Sessions: auth})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	tests := []struct {
		name     string
		accept   string
		cookie   string
		wantCode int
	}{
		{name: "browser without cookie", accept: "text/html", wantCode: http.StatusSeeOther},
		{name: "no accept header", wantCode: http.StatusSeeOther},
		{name: "unknown session", accept: "text/html", cookie: "stale", wantCode: http.StatusSeeOther},
		{name: "api client", accept: "application/json", wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/claims/1", nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			if tt.cookie != "" {
				req.AddCookie(sessionCookie(tt.cookie))
			}
			rec := serve(h, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	called := false
	h := OptionalAuth(AuthMiddlewareOptions{Sessions: newFakeAuth()})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		called = true
		assert.Nil(t, SessionFrom(r.Context()))
	}))
	serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}

func TestSafeRedirectPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "/"},
		{in: "/submissions?page=2", want: "/submissions?page=2"},
		{in: "https://evil.example.com/", want: "/"},
		{in: "//evil.example.com", want: "/"},
		{in: `/\evil.example.com`, want: "/"},
		{in: "relative", want: "/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, safeRedirectPath(tt.in))
		})
	}
}
