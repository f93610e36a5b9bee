package config

import (
	"strings"
	"testing"
	"time"
)

func clearServerEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENVIRONMENT", "KANBAN_ADDR", "DATABASE_DRIVER", "DATABASE_URL", "ALLOWED_LISTS",
		"SERVICE_NAME", "LOG_LEVEL", "LOG_FORMAT", "ENABLE_METRICS", "ENABLE_TRACING",
		"OTLP_ENDPOINT", "READ_TIMEOUT", "WRITE_TIMEOUT", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadServer_Defaults(t *testing.T) {
	clearServerEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer returned error: %v", err)
	}
	if cfg.Addr != defaultAPIBind || cfg.DatabaseDriver != "sqlite" {
		t.Fatalf("cfg = %#v, want default addr and sqlite", cfg)
	}
	if !strings.HasPrefix(cfg.DatabaseURL, home) {
		t.Fatalf("DatabaseURL = %q, want it under HOME %q", cfg.DatabaseURL, home)
	}
	if !cfg.EnableMetrics || cfg.EnableTracing {
		t.Fatalf("metrics/tracing = %v/%v, want true/false", cfg.EnableMetrics, cfg.EnableTracing)
	}
	if len(cfg.AllowedLists) != 0 || !cfg.IsDevelopment() {
		t.Fatalf("cfg = %#v", cfg)
	}
}

func TestLoadServer_ReadsEnvironment(t *testing.T) {
	clearServerEnv(t)
	t.Setenv("KANBAN_ADDR", ":9000")
	t.Setenv("DATABASE_DRIVER", "Memory")
	t.Setenv("ALLOWED_LISTS", " todo, inProgress ,,done ")
	t.Setenv("LOG_FORMAT", "console")
	t.Setenv("ENABLE_METRICS", "false")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("READ_TIMEOUT", "not-a-duration")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer returned error: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.DatabaseDriver != "memory" || cfg.LogFormat != "console" {
		t.Fatalf("cfg = %#v", cfg)
	}
	if strings.Join(cfg.AllowedLists, "|") != "todo|inProgress|done" {
		t.Fatalf("AllowedLists = %#v", cfg.AllowedLists)
	}
	if cfg.EnableMetrics {
		t.Fatal("EnableMetrics = true, want false")
	}
	if cfg.WriteTimeout != 3*time.Second || cfg.ReadTimeout != 10*time.Second {
		t.Fatalf("timeouts = %v/%v, want 3s and the 10s default", cfg.WriteTimeout, cfg.ReadTimeout)
	}
}

func TestServerConfig_Validate(t *testing.T) {
	valid := ServerConfig{
		Addr:           ":7488",
		DatabaseDriver: "memory",
		LogLevel:       "info",
		LogFormat:      "json",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*ServerConfig)
		want   string
	}{
		{"unknown driver", func(c *ServerConfig) { c.DatabaseDriver = "mongo" }, "invalid database driver"},
		{"postgres without url", func(c *ServerConfig) { c.DatabaseDriver = "postgres" }, "DATABASE_URL is required"},
		{"empty addr", func(c *ServerConfig) { c.Addr = " " }, "KANBAN_ADDR"},
		{"bad level", func(c *ServerConfig) { c.LogLevel = "trace" }, "invalid log level"},
		{"bad format", func(c *ServerConfig) { c.LogFormat = "xml" }, "invalid log format"},
		{"tracing without endpoint", func(c *ServerConfig) { c.EnableTracing = true }, "OTLP_ENDPOINT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}
