package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainauth "github.com/ministryofjustice/claims-ui/internal/domain/auth"
	"github.com/ministryofjustice/claims-ui/internal/i18n"
	"github.com/ministryofjustice/claims-ui/internal/ports"
	"github.com/ministryofjustice/claims-ui/internal/service"
)

const (
	loginPath    = "/auth/login"
	callbackPath = "/auth/callback"
	logoutPath   = "/auth/logout"

	defaultSessionCookie = "session_id"

	stateCookie    = "oauth_state"
	nonceCookie    = "oauth_nonce"
	verifierCookie = "oauth_verifier"
	redirectCookie = "post_login_redirect"

	// oauthCookieMaxAge bounds how long a login may take at the provider.
	oauthCookieMaxAge = 10 * time.Minute
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	BeginLogin(ctx context.Context, redirectURL string) (*ports.BeginResult, error)
	CompleteLogin(ctx context.Context, input service.CompleteLoginInput) (*service.CompleteLoginResult, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID, postLogoutRedirect string) (string, error)
}

// ProblemRenderer renders a full error page with a status and message.
type ProblemRenderer interface {
	RenderProblem(w http.ResponseWriter, r *http.Request, p Problem)
}

// CookiePolicy holds the attributes shared by every cookie the service sets.
type CookiePolicy struct {
	Domain      string
	Secure      bool
	SessionName string
}

func (c CookiePolicy) sessionName() string {
	if c.SessionName == "" {
		return defaultSessionCookie
	}
	return c.SessionName
}

// AuthURLs are the absolute URLs handed to the identity provider.
type AuthURLs struct {
	// Callback is where the provider returns the user after sign-in.
	Callback string
	// PostLogout is where the provider sends the user after sign-out.
	PostLogout string
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc     AuthServiceInterface
	URLs    AuthURLs
	Cookies CookiePolicy
	Pages   ProblemRenderer
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login handles the login initiation endpoint.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))

	result, err := h.Svc.BeginLogin(r.Context(), h.URLs.Callback)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "login initiation failed", "error", err)
		h.problem(w, r, Problem{Status: http.StatusInternalServerError})
		return
	}

	h.setOAuthCookies(w, oauthCookieParams{
		State:        result.State,
		Nonce:        result.Nonce,
		CodeVerifier: result.CodeVerifier,
		RedirectURI:  redirectURI,
	})
	http.Redirect(w, r, result.AuthURL, http.StatusFound)
}

// Callback handles the OAuth callback endpoint.
// GET /auth/callback?code=<code>&state=<state>.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if providerErr := q.Get("error"); providerErr != "" {
		h.logger().WarnContext(r.Context(), "identity provider returned an error",
			"error", providerErr, "description", q.Get("error_description"))
		h.clearOAuthCookies(w)
		h.problem(w, r, Problem{Status: http.StatusUnauthorized})
		return
	}

	code := q.Get("code")
	state := q.Get("state")
	stateC, err := r.Cookie(stateCookie)
	if err != nil || stateC.Value == "" || code == "" || state == "" || stateC.Value != state {
		h.logger().InfoContext(r.Context(), "login callback without a matching login session")
		h.problem(w, r, Problem{Status: http.StatusBadRequest, MessageKey: "errors.loginSessionExpired"})
		return
	}
	nonceC, err := r.Cookie(nonceCookie)
	if err != nil || nonceC.Value == "" {
		h.problem(w, r, Problem{Status: http.StatusBadRequest, MessageKey: "errors.loginSessionExpired"})
		return
	}
	var verifier string
	if c, cerr := r.Cookie(verifierCookie); cerr == nil {
		verifier = c.Value
	}

	result, err := h.Svc.CompleteLogin(r.Context(), service.CompleteLoginInput{
		Code:         code,
		State:        state,
		Nonce:        nonceC.Value,
		CodeVerifier: verifier,
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "login completion failed", "error", err)
		h.clearOAuthCookies(w)
		h.problem(w, r, Problem{Status: http.StatusUnauthorized})
		return
	}

	h.setSessionCookie(w, result.Session)
	redirectURI := h.getPostLoginRedirect(r)
	h.clearOAuthCookies(w)
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// Logout handles the logout endpoint.
// GET /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if c, err := r.Cookie(h.Cookies.sessionName()); err == nil {
		sessionID = c.Value
	}

	target, err := h.Svc.Logout(r.Context(), sessionID, h.URLs.PostLogout)
	if err != nil {
		h.logger().WarnContext(r.Context(), "logout failed", "error", err)
	}
	h.clearCookie(w, h.Cookies.sessionName())

	if target == "" {
		target = "/"
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *AuthHandlers) problem(w http.ResponseWriter, r *http.Request, p Problem) {
	if h.Pages != nil {
		h.Pages.RenderProblem(w, r, p)
		return
	}
	msg := http.StatusText(p.Status)
	if p.MessageKey != "" {
		msg = i18nText(r, p.MessageKey)
	}
	http.Error(w, msg, p.Status)
}

func (h *AuthHandlers) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.Cookies.Domain,
		HttpOnly: true,
		Secure:   h.Cookies.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors the attributes used when setting the cookie.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, name string) {
	c := h.cookie(name, "", -1)
	c.Expires = time.Unix(0, 0).UTC()
	http.SetCookie(w, c)
}

// oauthCookieParams groups values kept between login and callback.
type oauthCookieParams struct {
	State        string
	Nonce        string
	CodeVerifier string
	RedirectURI  string
}

// setOAuthCookies stores the login flow values in short-lived cookies.
func (h *AuthHandlers) setOAuthCookies(w http.ResponseWriter, p oauthCookieParams) {
	maxAge := int(oauthCookieMaxAge.Seconds())
	http.SetCookie(w, h.cookie(stateCookie, p.State, maxAge))
	http.SetCookie(w, h.cookie(nonceCookie, p.Nonce, maxAge))
	if p.CodeVerifier != "" {
		http.SetCookie(w, h.cookie(verifierCookie, p.CodeVerifier, maxAge))
	}
	http.SetCookie(w, h.cookie(redirectCookie, p.RedirectURI, maxAge))
}

func (h *AuthHandlers) clearOAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{stateCookie, nonceCookie, verifierCookie, redirectCookie} {
		h.clearCookie(w, name)
	}
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, s domainauth.Session) {
	maxAge := 0
	if !s.ExpiresAt.IsZero() {
		maxAge = max(int(time.Until(s.ExpiresAt).Seconds()), 1)
	}
	http.SetCookie(w, h.cookie(h.Cookies.sessionName(), s.ID, maxAge))
}

// getPostLoginRedirect returns the post-login redirect path.
func (h *AuthHandlers) getPostLoginRedirect(r *http.Request) string {
	if c, err := r.Cookie(redirectCookie); err == nil {
		return safeRedirectPath(c.Value)
	}
	return "/"
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") ||
		strings.HasPrefix(candidate, "//") || strings.Contains(candidate, `\`) {
		return "/"
	}
	return candidate
}

// i18nText translates key in the request language, or returns the key
// when no localizer is attached.
func i18nText(r *http.Request, key string, args ...any) string {
	if l := i18n.FromContext(r.Context()); l != nil {
		return l.T(key, args...)
	}
	return key
}
