package i18n

import (
	"context"
	"net/http"
)

// Localizer translates for one resolved language.
type Localizer struct {
	bundle *Bundle
	lang   string
}

// Localizer returns a Localizer for lang. Unsupported languages use the
// default language.
func (b *Bundle) Localizer(lang string) *Localizer {
	if _, ok := b.catalogs[lang]; !ok {
		lang = DefaultLanguage
	}
	return &Localizer{bundle: b, lang: lang}
}

// Lang returns the resolved language code.
func (l *Localizer) Lang() string { return l.lang }

// T translates key. See Bundle.Translate.
func (l *Localizer) T(key string, args ...any) string {
	return l.bundle.Translate(l.lang, key, args...)
}

// Resolve picks the language for r: a supported lng query parameter, then
// the language cookie, then the default. persist reports whether the
// choice came from the query and should be written back to the cookie.
func (b *Bundle) Resolve(r *http.Request) (lang string, persist bool) {
	if lang, ok := b.Match(r.URL.Query().Get(QueryParam)); ok {
		return lang, true
	}
	if c, err := r.Cookie(CookieName); err == nil {
		if lang, ok := b.Match(c.Value); ok {
			return lang, false
		}
	}
	return DefaultLanguage, false
}

type localizerKey struct{}

// WithLocalizer stores l in ctx.
func WithLocalizer(ctx context.Context, l *Localizer) context.Context {
	return context.WithValue(ctx, localizerKey{}, l)
}

// FromContext returns the request Localizer, or nil when the locale
// middleware did not run.
func FromContext(ctx context.Context) *Localizer {
	l, _ := ctx.Value(localizerKey{}).(*Localizer)
	return l
}
