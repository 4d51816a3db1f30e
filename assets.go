// Package claimsui provides embedded assets for production builds.
package claimsui

import (
	"embed"
	"fmt"
	"io/fs"
)

// Embedded assets for production builds.
// In dev mode (IsDev=true), templates and static files are loaded from disk for hot reloading.

//go:embed all:frontend/static
var staticFS embed.FS

//go:embed all:frontend/templates
var templateFS embed.FS

//go:embed frontend/locales/*.json
var localesFS embed.FS

// Frontend returns the embedded templates, static files and locale
// catalogs, each rooted at its own directory.
func Frontend() (templates, static, locales fs.FS, err error) {
	if templates, err = fs.Sub(templateFS, "frontend/templates"); err != nil {
		return nil, nil, nil, fmt.Errorf("templates: %w", err)
	}
	if static, err = fs.Sub(staticFS, "frontend/static"); err != nil {
		return nil, nil, nil, fmt.Errorf("static: %w", err)
	}
	if locales, err = fs.Sub(localesFS, "frontend/locales"); err != nil {
		return nil, nil, nil, fmt.Errorf("locales: %w", err)
	}
	return templates, static, locales, nil
}
