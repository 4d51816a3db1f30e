// Package i18n loads the English and Welsh message catalogs and resolves
// the language for a request.
//
// Catalogs are nested JSON objects. Keys are addressed with dots
// ("pages.claims.title") and values may contain {name} placeholders.
package i18n

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"slices"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

const (
	// DefaultLanguage is used when no supported language is requested and
	// as the fallback for keys missing from another catalog.
	DefaultLanguage = "en"
	// QueryParam selects a language for the request and is remembered in
	// the cookie.
	QueryParam = "lng"
	// CookieName stores the chosen language.
	CookieName = "i18next"
)

var placeholderRE = regexp.MustCompile(`\{([^{}]+)\}`)

// Bundle holds the flattened catalogs for every supported language.
type Bundle struct {
	catalogs map[string]map[string]string
	langs    []string
	matcher  language.Matcher
}

// Load reads every <lang>.json file at the root of fsys. The default
// language catalog must be present.
func Load(fsys fs.FS) (*Bundle, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read locales: %w", err)
	}

	b := &Bundle{catalogs: make(map[string]map[string]string)}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		lang := strings.TrimSuffix(e.Name(), ".json")
		if _, err := language.Parse(lang); err != nil {
			return nil, fmt.Errorf("locale file %s: %w", e.Name(), err)
		}

		raw, err := fs.ReadFile(fsys, e.Name())
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}

		flat := make(map[string]string)
		if err := flatten("", doc, flat); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		b.catalogs[lang] = flat
	}

	if _, ok := b.catalogs[DefaultLanguage]; !ok {
		return nil, fmt.Errorf("missing %s.json catalog", DefaultLanguage)
	}

	b.langs = make([]string, 0, len(b.catalogs))
	for lang := range b.catalogs {
		b.langs = append(b.langs, lang)
	}
	sort.Strings(b.langs)
	// The default language goes first so the matcher falls back to it.
	b.langs = slices.DeleteFunc(b.langs, func(l string) bool { return l == DefaultLanguage })
	b.langs = append([]string{DefaultLanguage}, b.langs...)

	tags := make([]language.Tag, 0, len(b.langs))
	for _, l := range b.langs {
		tags = append(tags, language.MustParse(l))
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) error {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case string:
			out[key] = val
		case map[string]any:
			if err := flatten(key, val, out); err != nil {
				return err
			}
		default:
			return fmt.Errorf("key %q: expected string or object, got %T", key, v)
		}
	}
	return nil
}

// Languages lists the supported languages, default first.
func (b *Bundle) Languages() []string {
	return slices.Clone(b.langs)
}

// Match maps a requested language ("cy", "en-GB", "CY") to a supported
// one. ok is false when nothing supported matches.
func (b *Bundle) Match(requested string) (string, bool) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return "", false
	}
	tag, err := language.Parse(requested)
	if err != nil {
		return "", false
	}
	_, idx, conf := b.matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return b.langs[idx], true
}

// Translate looks key up in lang, then in the default language, and
// finally returns the key itself. args are name/value pairs substituted
// into {name} placeholders.
func (b *Bundle) Translate(lang, key string, args ...any) string {
	msg, ok := b.catalogs[lang][key]
	if !ok {
		msg, ok = b.catalogs[DefaultLanguage][key]
	}
	if !ok {
		return key
	}
	return interpolate(msg, args)
}

func interpolate(msg string, args []any) string {
	if len(args) < 2 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(args))
	for i := 0; i+1 < len(args); i += 2 {
		name, ok := args[i].(string)
		if !ok {
			continue
		}
		pairs = append(pairs, "{"+name+"}", fmt.Sprint(args[i+1]))
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// Placeholders returns the {name} placeholders in msg in order of
// appearance.
func Placeholders(msg string) []string {
	matches := placeholderRE.FindAllStringSubmatch(msg, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// Check compares every catalog with the default one and reports keys
// missing from either side and placeholders that do not line up.
func (b *Bundle) Check() []string {
	var problems []string
	base := b.catalogs[DefaultLanguage]
	for _, lang := range b.langs[1:] {
		other := b.catalogs[lang]
		problems = append(problems, compare(DefaultLanguage, base, lang, other)...)
		problems = append(problems, compare(lang, other, DefaultLanguage, base)...)
	}
	sort.Strings(problems)
	return problems
}

func compare(fromLang string, from map[string]string, toLang string, to map[string]string) []string {
	var problems []string
	for key, msg := range from {
		target, ok := to[key]
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: missing key %q", toLang, key))
			continue
		}
		want := Placeholders(msg)
		got := Placeholders(target)
		for _, p := range want {
			if !slices.Contains(got, p) {
				problems = append(problems, fmt.Sprintf("%s: %q lacks placeholder {%s} used in %s", toLang, key, p, fromLang))
			}
		}
	}
	return problems
}
