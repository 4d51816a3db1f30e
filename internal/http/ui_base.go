package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ministryofjustice/claims-ui/internal/domain/model"
	apperrors "github.com/ministryofjustice/claims-ui/internal/errors"
	"github.com/ministryofjustice/claims-ui/internal/http/ui/viewmodel"
	"github.com/ministryofjustice/claims-ui/internal/i18n"
	"github.com/ministryofjustice/claims-ui/internal/pagination"
	"github.com/ministryofjustice/claims-ui/internal/service"
)

// ClaimsReader is the slice of the claims service the UI needs.
type ClaimsReader interface {
	List(ctx context.Context, page int) (model.Page[model.Claim], error)
	Get(ctx context.Context, id int64) (model.Claim, error)
}

// SubmissionsReader is the slice of the submissions service the UI needs.
type SubmissionsReader interface {
	List(ctx context.Context, page int) (model.Page[model.Submission], error)
	Get(ctx context.Context, id string) (model.Submission, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ ClaimsReader      = (*service.ClaimService)(nil)
	_ SubmissionsReader = (*service.SubmissionService)(nil)
)

// LayoutConfig carries the request-independent parts of the page chrome.
type LayoutConfig struct {
	AuthEnabled bool
	Service     viewmodel.Service
}

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T           *TemplateRenderer
	Claims      ClaimsReader
	Submissions SubmissionsReader
	Layout      LayoutConfig
	// I18n localises pages served before the locale middleware has run.
	I18n   *i18n.Bundle
	Logger *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering. Title is already
// translated.
type PageMeta struct {
	Title       string
	CurrentPage string
}

// PageData is the root value every full page template receives.
type PageData struct {
	viewmodel.Layout
	Content any
}

// LayoutData implements viewmodel.LayoutProvider.
func (p *PageData) LayoutData() *viewmodel.Layout { return &p.Layout }

// Problem describes an error page. MessageKey takes precedence over
// Message; with neither the generic "try again later" text is shown.
type Problem struct {
	Status     int
	MessageKey string
	Message    string
}

// problemView is the content of the error page.
type problemView struct {
	Heading string
	Message string
}

// buildLayout constructs shared layout metadata from the request/session context.
func (h *UIHandlers) buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	lang := h.lang(r)
	svc := h.Layout.Service
	layout := viewmodel.Layout{
		PageTitle:   meta.Title,
		Title:       h.translate(r, "common.pageTitle", "page", meta.Title, "service", svc.Name),
		CurrentPage: meta.CurrentPage,
		CurrentPath: r.URL.Path,
		Lang:        lang,
		AuthEnabled: h.Layout.AuthEnabled,
		Service:     svc,
	}

	if session := SessionFrom(r.Context()); session != nil {
		layout.IsAuthenticated = true
		layout.User = &viewmodel.User{Name: session.Name, Email: session.Email}
	}
	return layout
}

// localizer returns the request localizer, falling back to the bundle
// when the locale middleware has not run.
func (h *UIHandlers) localizer(r *http.Request) *i18n.Localizer {
	if l := i18n.FromContext(r.Context()); l != nil {
		return l
	}
	if h.I18n != nil {
		lang, _ := h.I18n.Resolve(r)
		return h.I18n.Localizer(lang)
	}
	return nil
}

func (h *UIHandlers) lang(r *http.Request) string {
	if l := h.localizer(r); l != nil {
		return l.Lang()
	}
	return i18n.DefaultLanguage
}

func (h *UIHandlers) translate(r *http.Request, key string, args ...any) string {
	if l := h.localizer(r); l != nil {
		return l.T(key, args...)
	}
	return key
}

// renderPage renders a full page, falling back to a plain-text 500 when
// the templates fail.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, meta PageMeta, content any) {
	h.renderPageStatus(w, r, pageRender{Meta: meta, Content: content, Status: http.StatusOK})
}

type pageRender struct {
	Meta    PageMeta
	Content any
	Status  int
}

func (h *UIHandlers) renderPageStatus(w http.ResponseWriter, r *http.Request, p pageRender) {
	data := &PageData{Layout: h.buildLayout(r, p.Meta), Content: p.Content}
	if h.T == nil {
		http.Error(w, http.StatusText(p.Status), p.Status)
		return
	}
	if err := h.T.RenderFull(w, p.Status, data); err != nil {
		h.logger().ErrorContext(r.Context(), "page render failed",
			slog.String("page", p.Meta.CurrentPage),
			slog.Any("error", err),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// RenderProblem renders the GOV.UK "Sorry, there is a problem" page.
func (h *UIHandlers) RenderProblem(w http.ResponseWriter, r *http.Request, p Problem) {
	if p.Status == 0 {
		p.Status = http.StatusInternalServerError
	}
	msg := p.Message
	if p.MessageKey != "" {
		msg = h.translate(r, p.MessageKey)
	}
	if msg == "" {
		msg = h.translate(r, "errors.problem.tryAgain")
	}

	h.renderPageStatus(w, r, pageRender{
		Meta: PageMeta{Title: h.translate(r, "errors.problem.title"), CurrentPage: PageError},
		Content: problemView{
			Heading: h.translate(r, "errors.problem.heading"),
			Message: msg,
		},
		Status: p.Status,
	})
}

// NotFound renders the GOV.UK "Page not found" page.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderPageStatus(w, r, pageRender{
		Meta:   PageMeta{Title: h.translate(r, "errors.notFound.title"), CurrentPage: PageNotFound},
		Status: http.StatusNotFound,
	})
}

// TooManyRequests renders the rate limit page. Retry-After is set by the
// rate limit middleware.
func (h *UIHandlers) TooManyRequests(w http.ResponseWriter, r *http.Request) {
	h.renderPageStatus(w, r, pageRender{
		Meta: PageMeta{Title: h.translate(r, "errors.tooManyRequests.title"), CurrentPage: PageError},
		Content: problemView{
			Heading: h.translate(r, "errors.tooManyRequests.title"),
			Message: h.translate(r, "errors.tooManyRequests.body"),
		},
		Status: http.StatusTooManyRequests,
	})
}

// handleError turns a failed page load into a response: out-of-range
// pages redirect to the nearest page, missing records show the 404 page
// and everything else the problem page.
func (h *UIHandlers) handleError(w http.ResponseWriter, r *http.Request, err error) {
	if ipe, ok := pagination.AsInvalidPage(err); ok {
		h.logger().InfoContext(r.Context(), "invalid page requested",
			slog.Int("page", ipe.InvalidPage),
			slog.Int("redirect", ipe.PageToRedirectTo),
		)
		http.Redirect(w, r, pagination.PageHref(r.URL.Path, ipe.PageToRedirectTo), http.StatusFound)
		return
	}

	status := apperrors.HTTPStatus(err)
	if status == http.StatusNotFound {
		h.logger().InfoContext(r.Context(), "record not found", slog.String("path", r.URL.Path), slog.Any("error", err))
		h.NotFound(w, r)
		return
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger().Log(r.Context(), level, "page load failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.Any("error", err),
	)
	h.RenderProblem(w, r, Problem{Status: status, Message: apperrors.UserMessage(err)})
}
