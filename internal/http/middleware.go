package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainauth "github.com/ministryofjustice/claims-ui/internal/domain/auth"
	"github.com/ministryofjustice/claims-ui/internal/ports"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *respWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.status = status
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(status)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *respWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionReader looks up the signed-in user's session.
type SessionReader interface {
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
}

// TokenSources hands out the bearer token source for a session.
type TokenSources interface {
	ForSession(sessionID string) ports.TokenSource
}

// AuthMiddlewareOptions configures RequireAuth and OptionalAuth.
type AuthMiddlewareOptions struct {
	Sessions SessionReader
	// Tokens is optional; when set, outbound API calls made while handling
	// the request carry the session's access token.
	Tokens TokenSources
	// CookieName defaults to "session_id".
	CookieName string
}

func (o AuthMiddlewareOptions) cookieName() string {
	if o.CookieName == "" {
		return defaultSessionCookie
	}
	return o.CookieName
}

// RequireAuth returns a middleware that requires a signed-in user.
// Browser requests without a session are redirected to the login page;
// other requests receive 401 {"error":"unauthenticated"}.
func RequireAuth(opts AuthMiddlewareOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := getSessionFromRequest(r, opts)
			if session == nil {
				if isBrowserRequest(r) {
					redirectToLogin(w, r)
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "unauthenticated")
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session, opts.Tokens)))
		})
	}
}

// OptionalAuth adds the session to the request context when one exists.
// Pages outside the signed-in area use it to show the user in the header.
func OptionalAuth(opts AuthMiddlewareOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if session := getSessionFromRequest(r, opts); session != nil {
				r = r.WithContext(withSession(r.Context(), session, opts.Tokens))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func withSession(ctx context.Context, session *domainauth.Session, tokens TokenSources) context.Context {
	ctx = WithSession(ctx, session)
	if tokens != nil {
		ctx = ports.WithTokenSource(ctx, tokens.ForSession(session.ID))
	}
	return ctx
}

// getSessionFromRequest retrieves and validates a session from the request.
func getSessionFromRequest(r *http.Request, opts AuthMiddlewareOptions) *domainauth.Session {
	if opts.Sessions == nil {
		return nil
	}
	sessionCookie, err := r.Cookie(opts.cookieName())
	if err != nil || sessionCookie.Value == "" {
		return nil
	}

	session, err := opts.Sessions.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		return nil
	}
	return session
}

// isBrowserRequest determines if a request is from a browser based on:
// 1. Path prefix - static assets are never browser page requests
// 2. Accept header - browsers typically accept text/html.
func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/static/") {
		return false
	}

	accept := r.Header.Get("Accept")
	if accept == "" {
		// No Accept header, assume browser for page routes
		return true
	}
	return strings.Contains(accept, "text/html")
}

// redirectToLogin redirects browser requests to the login page with the current URL as redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectParam := url.QueryEscape(safeRedirectPath(r.URL.RequestURI()))
	http.Redirect(w, r, loginPath+"?redirect_uri="+redirectParam, http.StatusSeeOther)
}

// SecurityHeaders sets the response headers every page carries.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Content-Security-Policy",
				"default-src 'self'; img-src 'self' data:; style-src 'self'; script-src 'self'; frame-ancestors 'none'")
			next.ServeHTTP(w, r)
		})
	}
}
