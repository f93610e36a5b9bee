package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/kanban/internal/board"
)

// Config holds the client settings for the terminal board and CLI.
type Config struct {
	APIBind        string
	PollInterval   time.Duration // zero disables background polling
	RequestTimeout time.Duration
	LogFile        string
	LogLevel       string
	Lists          []board.List
}

const (
	defaultConfigPath     = "~/.config/kanban/config.toml"
	defaultLogFile        = "~/.local/state/kanban/kanban.log"
	defaultAPIBind        = "127.0.0.1:7488"
	defaultLogLevel       = "info"
	defaultPollInterval   = 5 * time.Second
	defaultRequestTimeout = 5 * time.Second
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBind:        defaultAPIBind,
		PollInterval:   defaultPollInterval,
		RequestTimeout: defaultRequestTimeout,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		Lists:          board.DefaultLists(),
	}
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBind        string       `toml:"api_bind"`
		PollInterval   string       `toml:"poll_interval"`
		RequestTimeout string       `toml:"request_timeout"`
		LogFile        string       `toml:"log_file"`
		LogLevel       string       `toml:"log_level"`
		Lists          []board.List `toml:"lists"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBind); v != "" {
		cfg.APIBind = v
	}
	if v := strings.TrimSpace(raw.PollInterval); v != "" {
		d, err := parseDuration("poll_interval", v)
		if err != nil {
			return Config{}, err
		}
		cfg.PollInterval = d
	}
	if v := strings.TrimSpace(raw.RequestTimeout); v != "" {
		d, err := parseDuration("request_timeout", v)
		if err != nil {
			return Config{}, err
		}
		if d > 0 {
			cfg.RequestTimeout = d
		}
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(strings.ToLower(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if len(raw.Lists) > 0 {
		cfg.Lists = normalizeLists(raw.Lists)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c Config) Validate() error {
	if len(c.Lists) == 0 {
		return fmt.Errorf("at least one list is required")
	}
	seen := make(map[string]bool, len(c.Lists))
	for i, l := range c.Lists {
		if l.ID == "" {
			return fmt.Errorf("lists[%d]: id is required", i)
		}
		if seen[l.ID] {
			return fmt.Errorf("lists[%d]: duplicate id %q", i, l.ID)
		}
		seen[l.ID] = true
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("poll_interval cannot be negative")
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.LogLevel)
	}
	return nil
}

// ListIDs returns the configured list ids in display order.
func (c Config) ListIDs() []string {
	ids := make([]string, len(c.Lists))
	for i, l := range c.Lists {
		ids[i] = l.ID
	}
	return ids
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func normalizeLists(in []board.List) []board.List {
	out := make([]board.List, len(in))
	for i, l := range in {
		out[i] = board.List{ID: strings.TrimSpace(l.ID), Title: strings.TrimSpace(l.Title)}
	}
	return out
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", field, err)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
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
