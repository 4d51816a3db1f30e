package httpx

import (
	"net/http"
	"time"

	"github.com/ministryofjustice/claims-ui/internal/i18n"
)

const languageCookieMaxAge = 365 * 24 * time.Hour

// LocaleOptions configures Locale.
type LocaleOptions struct {
	Bundle       *i18n.Bundle
	CookieDomain string
	Secure       bool
}

// Locale resolves the request language and stores its Localizer in the
// request context. A language picked with ?lng= is remembered in the
// language cookie.
func Locale(opts LocaleOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if opts.Bundle == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang, persist := opts.Bundle.Resolve(r)
			if persist {
				http.SetCookie(w, &http.Cookie{
					Name:     i18n.CookieName,
					Value:    lang,
					Path:     "/",
					Domain:   opts.CookieDomain,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(languageCookieMaxAge.Seconds()),
				})
			}
			ctx := i18n.WithLocalizer(r.Context(), opts.Bundle.Localizer(lang))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
