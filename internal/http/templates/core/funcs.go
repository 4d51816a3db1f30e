// Package core provides the template helpers shared by every page.
package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/ministryofjustice/claims-ui/internal/format"
)

// Translator translates catalog keys for a language.
type Translator interface {
	Translate(lang, key string, args ...any) string
}

// Deps holds dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	// Translator is optional; without it t returns the key.
	Translator Translator
	// Asset maps a logical static file name to its URL. Optional.
	Asset func(string) string
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"t":            translateFunc(deps.Translator),
		"add":          func(a, b int) int { return a + b },
		"sub":          func(a, b int) int { return a - b },
		"formatNumber": FormatNumber,
		"phaseTag":     PhaseTag,
		"join":         strings.Join,
		"list":         func(v ...string) []string { return v },
		"asset":        assetFunc(deps.Asset),
	}

	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - The HTML here is rendered by our own trusted templates (html/template),
		// and is embedded back into the same template set. User-provided values were already
		// auto-escaped during ExecuteTemplate above.
		return template.HTML(buf.String()), nil
	}
	return funcs
}

// translateFunc returns the "t" helper: {{t .Lang "key" "name" value}}.
func translateFunc(tr Translator) func(lang, key string, args ...any) string {
	return func(lang, key string, args ...any) string {
		if tr == nil {
			return key
		}
		return tr.Translate(lang, key, args...)
	}
}

func assetFunc(resolve func(string) string) func(string) string {
	if resolve == nil {
		return func(name string) string { return "/static/" + name }
	}
	return resolve
}

// FormatNumber formats any integer type with comma separators for thousands.
// Other values are printed with fmt.
func FormatNumber(v any) string {
	switch x := v.(type) {
	case int:
		return format.Number(x)
	case int64:
		return format.Number(int(x))
	case int32:
		return format.Number(int(x))
	default:
		return fmt.Sprint(v)
	}
}

// PhaseTag capitalises the service phase for the phase banner tag.
func PhaseTag(phase string) string {
	phase = strings.TrimSpace(phase)
	if phase == "" {
		return ""
	}
	return strings.ToUpper(phase[:1]) + strings.ToLower(phase[1:])
}
