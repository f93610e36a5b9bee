// Package prefs persists small terminal board preferences between sessions.
// Preferences are stored in ~/.config/kanban/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/kanban/internal/config"
)

// Prefs holds user preferences for the terminal board.
type Prefs struct {
	Theme string `toml:"theme"`
	// FocusList is the list id that had focus when the board last closed.
	FocusList string `toml:"focus_list,omitempty"`
}

const (
	defaultPrefsPath = "~/.config/kanban/prefs.toml"
	defaultTheme     = "Nightfox"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// DefaultTheme returns the theme used when none is stored.
func DefaultTheme() string {
	return defaultTheme
}

// Load reads preferences from the given path. Missing, unreadable or invalid
// files yield defaults; preferences never block startup.
func Load(path string) (Prefs, error) {
	prefs := Prefs{Theme: defaultTheme}

	data, err := read(path)
	if err != nil {
		return prefs, nil
	}
	var stored Prefs
	if err := toml.Unmarshal(data, &stored); err != nil {
		return prefs, nil
	}

	if theme := strings.TrimSpace(stored.Theme); theme != "" {
		prefs.Theme = theme
	}
	prefs.FocusList = strings.TrimSpace(stored.FocusList)
	return prefs, nil
}

func read(path string) ([]byte, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(resolved)
}

// Save writes preferences to the given path, creating directories as needed.
// The file is replaced by rename so a crash never leaves it half written.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".prefs-*.toml")
	if err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	if err := os.Rename(tmp.Name(), resolved); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
