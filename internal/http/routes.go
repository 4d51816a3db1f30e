package httpx

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/ministryofjustice/claims-ui/internal/http/assets"
	"github.com/ministryofjustice/claims-ui/internal/i18n"
)

// RouterConfig holds the settings the router needs from configuration.
type RouterConfig struct {
	AuthURLs AuthURLs
	Cookies  CookiePolicy
	Layout   LayoutConfig
}

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Claims      ClaimsReader
	Submissions SubmissionsReader
	// Auth is nil when sign-in is disabled; every page is then public.
	Auth   AuthServiceInterface
	Tokens TokenSources
	I18n   *i18n.Bundle
	// TemplateFS and StaticFS hold frontend/templates and frontend/static.
	TemplateFS fs.FS
	StaticFS   fs.FS
	// Assets resolves hashed static file names; nil serves names as-is.
	Assets     *assets.Resolver
	Readiness  []ReadinessCheck
	Config     RouterConfig
	Logger     *slog.Logger
}

// Router is the HTTP handler for the service plus the UI handlers other
// middleware (rate limiting) render with.
type Router struct {
	http.Handler
	UI *UIHandlers
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) (*Router, error) {
	if services.Claims == nil || services.Submissions == nil {
		return nil, errors.New("claims and submissions services are required")
	}
	if services.TemplateFS == nil || services.StaticFS == nil {
		return nil, errors.New("template and static filesystems are required")
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var translator interface {
		Translate(lang, key string, args ...any) string
	}
	if services.I18n != nil {
		translator = services.I18n
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: services.TemplateFS,
		Translator: translator,
		Assets:     services.Assets,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}

	ui := &UIHandlers{
		T:           tr,
		Claims:      services.Claims,
		Submissions: services.Submissions,
		Layout:      services.Config.Layout,
		I18n:        services.I18n,
		Logger:      logger.With("component", "ui"),
	}
	ui.Layout.AuthEnabled = services.Auth != nil

	mux := http.NewServeMux()
	authOpts := AuthMiddlewareOptions{
		Sessions:   services.Auth,
		Tokens:     services.Tokens,
		CookieName: services.Config.Cookies.SessionName,
	}
	cfg := uiRouteConfig{Auth: services.Auth != nil, AuthOptions: authOpts}

	registerUIRoutes(mux, ui, cfg)
	if services.Auth != nil {
		registerAuthRoutes(mux, &AuthHandlers{
			Svc:     services.Auth,
			URLs:    services.Config.AuthURLs,
			Cookies: services.Config.Cookies,
			Pages:   ui,
			Logger:  logger.With("component", "auth"),
		})
	}
	registerProbeRoutes(mux, services.Readiness)
	mux.Handle("GET /static/", staticWithCacheHeaders(
		http.StripPrefix("/static/", http.FileServer(http.FS(services.StaticFS)))))

	var handler http.Handler = &notFoundHandler{mux: mux, ui: ui}
	if services.Auth != nil {
		handler = OptionalAuth(authOpts)(handler)
	}
	return &Router{Handler: handler, UI: ui}, nil
}

// uiRouteConfig carries the auth wrapper settings for UI routes.
type uiRouteConfig struct {
	Auth        bool
	AuthOptions AuthMiddlewareOptions
}

func (c uiRouteConfig) authWrap() func(http.Handler) http.Handler {
	if !c.Auth {
		return func(h http.Handler) http.Handler { return h }
	}
	return RequireAuth(c.AuthOptions)
}

func registerUIRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /{$}", wrap(http.HandlerFunc(h.ClaimsList)))
	mux.Handle("GET /claims/{claimId}", wrap(http.HandlerFunc(h.ClaimView)))
	mux.Handle("GET /submissions", wrap(http.HandlerFunc(h.SubmissionsList)))
	mux.Handle("GET /submissions/{submissionId}", wrap(http.HandlerFunc(h.SubmissionView)))
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("GET "+loginPath, h.Login)
	mux.HandleFunc("GET "+callbackPath, h.Callback)
	mux.HandleFunc("GET "+logoutPath, h.Logout)
}

func registerProbeRoutes(mux *http.ServeMux, checks []ReadinessCheck) {
	mux.Handle("GET /status", textHandler("OK"))
	mux.Handle("GET /health", textHandler("Healthy"))
	mux.Handle("GET /healthz", readinessHandler(checks))
}

// StaticFS returns the static asset filesystem: the embedded copy, or
// frontend/static on disk in dev mode so edits show without a rebuild.
func StaticFS(embedded fs.FS, isDev bool) fs.FS {
	if isDev {
		return os.DirFS("frontend/static")
	}
	return embedded
}

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	// Content-hashed filenames (e.g., app.abc12345.js) never change.
	hashedFilePattern := regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "public, max-age=3600")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and renders the GOV.UK 404 page when
// no route matched.
type notFoundHandler struct {
	mux *http.ServeMux
	ui  *UIHandlers
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cw := newCaptureWriter()
	h.mux.ServeHTTP(cw, r)

	// Only the mux's own plain-text 404 is replaced. Pages that rendered
	// a 404 themselves and missing static files pass through unchanged.
	if cw.status == http.StatusNotFound &&
		!strings.HasPrefix(r.URL.Path, "/static/") &&
		strings.HasPrefix(cw.header.Get("Content-Type"), "text/plain") {
		h.ui.NotFound(w, r)
		return
	}
	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		slog.Default().Debug("failed to write captured response", "error", err)
	}
}
