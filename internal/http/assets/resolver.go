// Package assets maps logical static asset names to the content-hashed
// files listed in frontend/static/manifest.json.
package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sync"
)

// ManifestName is the manifest file at the root of the static filesystem.
const ManifestName = "manifest.json"

// URLPrefix is where static files are served.
const URLPrefix = "/static/"

// Resolver resolves logical names ("css/app.css") to served URLs. A
// missing manifest is not an error: every name then resolves to itself.
type Resolver struct {
	fsys fs.FS
	// live re-reads the manifest on every lookup so rebuilt assets show up
	// without a restart.
	live bool

	mu      sync.RWMutex
	entries map[string]string
	logger  *slog.Logger
}

// Options configures a Resolver.
type Options struct {
	Static fs.FS
	Live   bool
	Logger *slog.Logger
}

// NewResolver reads the manifest from opts.Static.
func NewResolver(opts Options) (*Resolver, error) {
	if opts.Static == nil {
		return nil, errors.New("static filesystem is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := &Resolver{fsys: opts.Static, live: opts.Live, logger: logger}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload replaces the in-memory manifest with the current file contents.
func (r *Resolver) Reload() error {
	entries, err := readManifest(r.fsys)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.entries = entries
	r.mu.Unlock()
	return nil
}

// URL returns the URL to serve logicalName from.
func (r *Resolver) URL(logicalName string) string {
	if r == nil {
		return URLPrefix + logicalName
	}
	if r.live {
		if err := r.Reload(); err != nil {
			r.logger.Warn("asset manifest reload failed", slog.Any("error", err))
		}
	}

	r.mu.RLock()
	hashed, ok := r.entries[logicalName]
	r.mu.RUnlock()
	if !ok {
		return URLPrefix + logicalName
	}
	return URLPrefix + hashed
}

func readManifest(fsys fs.FS) (map[string]string, error) {
	data, err := fs.ReadFile(fsys, ManifestName)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read asset manifest: %w", err)
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse asset manifest: %w", err)
	}
	for logical, hashed := range entries {
		if !fs.ValidPath(hashed) || path.IsAbs(hashed) {
			return nil, fmt.Errorf("asset manifest: invalid path %q for %q", hashed, logical)
		}
	}
	return entries, nil
}
