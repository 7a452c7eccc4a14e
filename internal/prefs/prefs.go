// Package prefs reads axedeck display preferences.
// Preferences are stored in ~/.config/axedeck/prefs.toml and are never written
// by axedeck itself.
package prefs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Prefs holds user display preferences.
type Prefs struct {
	Theme string `toml:"theme"`
	Mode  string `toml:"mode"`
}

const (
	defaultPrefsPath = "~/.config/axedeck/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultMode      = ModeMatrix
)

// Presentation modes.
const (
	ModeMatrix = "matrix"
	ModeFocus  = "focus"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from the given path. Missing or unreadable files
// fall back to defaults; preferences never block startup.
func Load(path string) Prefs {
	prefs := Prefs{Theme: defaultTheme, Mode: defaultMode}

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs
	}

	file, err := os.Open(resolved)
	if err != nil {
		return prefs
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs
	}

	var raw Prefs
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return prefs
	}

	if theme := strings.TrimSpace(raw.Theme); theme != "" {
		prefs.Theme = theme
	}
	if mode, ok := NormalizeMode(raw.Mode); ok {
		prefs.Mode = mode
	}
	return prefs
}

// NormalizeMode lower-cases and validates a presentation mode name.
func NormalizeMode(mode string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeMatrix, "table":
		return ModeMatrix, true
	case ModeFocus, "detail":
		return ModeFocus, true
	default:
		return "", false
	}
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
