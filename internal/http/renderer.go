package httpx

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/ministryofjustice/claims-ui/internal/http/assets"
	corefuncs "github.com/ministryofjustice/claims-ui/internal/http/templates/core"
)

// TemplateRenderer renders HTML templates for UI responses.
type TemplateRenderer struct {
	t      *template.Template
	logger *slog.Logger
}

// TemplateRendererConfig holds configuration for creating a TemplateRenderer.
type TemplateRendererConfig struct {
	TemplateFS fs.FS                // Filesystem containing templates (required)
	Translator corefuncs.Translator // Backs the "t" template func (optional)
	Assets     *assets.Resolver     // Hashed static file names (optional)
	Logger     *slog.Logger         // Logger for template errors (optional)
}

// NewTemplateRenderer constructs a renderer by parsing templates from the provided config.
func NewTemplateRenderer(cfg TemplateRendererConfig) (*TemplateRenderer, error) {
	if cfg.TemplateFS == nil {
		return nil, errors.New("TemplateFS is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var t *template.Template
	funcs := corefuncs.Funcs(corefuncs.Deps{
		Template:           &t,
		ContentTemplateFor: ContentTemplateFor,
		Translator:         cfg.Translator,
		Asset:              cfg.Assets.URL,
	})
	t, err := template.New("root").Funcs(funcs).ParseFS(cfg.TemplateFS,
		"*.tmpl",
		"pages/*.tmpl",
		"partials/*.tmpl",
	)
	if err != nil {
		logger.Error("template parsing failed",
			slog.Any("error", err),
			slog.String("phase", "initialization"),
		)
		return nil, err
	}
	return &TemplateRenderer{t: t, logger: logger}, nil
}

// RenderFull renders the full page (layout + page content) with the given status.
func (r *TemplateRenderer) RenderFull(w http.ResponseWriter, status int, data any) error {
	return r.renderTemplate(w, renderOpts{Name: "layout", Status: status, Data: data})
}

type renderOpts struct {
	Name   string
	Status int
	Data   any
}

// renderTemplate buffers the output so a failing template never leaves a
// half-written page behind.
func (r *TemplateRenderer) renderTemplate(w http.ResponseWriter, o renderOpts) error {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, o.Name, o.Data); err != nil {
		r.logger.Error("template execution failed",
			slog.String("template", o.Name),
			slog.Any("error", err),
		)
		return err
	}

	if o.Status == 0 {
		o.Status = http.StatusOK
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(o.Status)
	if _, err := buf.WriteTo(w); err != nil {
		r.logger.Error("failed to write rendered template",
			slog.String("template", o.Name),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}
