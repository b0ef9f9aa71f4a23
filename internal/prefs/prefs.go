// Package prefs handles airwaves user preferences persistence.
// Preferences are stored in ~/.config/airwaves/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/airwaves/internal/radiobrowser"
)

// Prefs holds the choices the UI remembers between runs. Listing fields are
// pointers so an absent key falls back to the config file.
type Prefs struct {
	Theme      string  `toml:"theme"`
	Order      *string `toml:"order,omitempty"`
	Reverse    *bool   `toml:"reverse,omitempty"`
	HideBroken *bool   `toml:"hide_broken,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/airwaves/prefs.toml"
	defaultTheme     = "Dracula"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	defaults := Prefs{Theme: defaultTheme}

	resolved, err := resolvePath(path)
	if err != nil {
		return defaults, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return defaults, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return defaults, nil // Graceful degradation
	}

	var prefs Prefs
	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return defaults, nil // Graceful degradation
	}

	prefs.Theme = strings.TrimSpace(prefs.Theme)
	if prefs.Theme == "" {
		prefs.Theme = defaultTheme
	}
	if prefs.Order != nil && strings.TrimSpace(*prefs.Order) == "" {
		prefs.Order = nil
	}

	return prefs, nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// Apply overlays the remembered sort and hide-broken choices on f.
func (p Prefs) Apply(f radiobrowser.ListingFilter) radiobrowser.ListingFilter {
	if p.Order != nil {
		f.Order = radiobrowser.String(*p.Order)
	}
	if p.Reverse != nil {
		f.Reverse = radiobrowser.Bool(*p.Reverse)
	}
	if p.HideBroken != nil {
		f.HideBroken = radiobrowser.Bool(*p.HideBroken)
	}
	return f
}

// Remember copies the sort and hide-broken choices from f. Paging is not
// persisted.
func (p *Prefs) Remember(f radiobrowser.ListingFilter) {
	p.Order = copyPtr(f.Order)
	p.Reverse = copyPtr(f.Reverse)
	p.HideBroken = copyPtr(f.HideBroken)
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	dup := *v
	return &dup
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
