package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds the settings for `kanban serve`. It is read from the
// environment, with an optional .env file for local development.
type ServerConfig struct {
	Environment string
	Addr        string

	// Storage
	DatabaseDriver string // sqlite, postgres or memory
	DatabaseURL    string // file path for sqlite, DSN for postgres

	// Items
	AllowedLists []string // empty accepts any list id

	// Observability
	ServiceName   string
	LogLevel      string
	LogFormat     string // json or console
	EnableMetrics bool
	EnableTracing bool
	OTLPEndpoint  string

	// Timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

const defaultSQLitePath = "~/.local/share/kanban/kanban.db"

// LoadServer reads the server configuration from the environment.
func LoadServer() (ServerConfig, error) {
	// Load .env file if exists (for local development)
	_ = godotenv.Load()

	cfg := ServerConfig{
		Environment: getEnv("ENVIRONMENT", "development"),
		Addr:        getEnv("KANBAN_ADDR", defaultAPIBind),

		DatabaseDriver: strings.ToLower(getEnv("DATABASE_DRIVER", "sqlite")),
		DatabaseURL:    getEnv("DATABASE_URL", ""),

		AllowedLists: getEnvAsList("ALLOWED_LISTS"),

		ServiceName:   getEnv("SERVICE_NAME", "kanban"),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:     strings.ToLower(getEnv("LOG_FORMAT", "json")),
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		EnableTracing: getEnvAsBool("ENABLE_TRACING", false),
		OTLPEndpoint:  getEnv("OTLP_ENDPOINT", "localhost:4317"),

		ReadTimeout:     getEnvAsDuration("READ_TIMEOUT", 10*time.Second),
		WriteTimeout:    getEnvAsDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
	}

	if cfg.DatabaseDriver == "sqlite" && cfg.DatabaseURL == "" {
		cfg.DatabaseURL = mustExpand(defaultSQLitePath)
	}

	if err := cfg.Validate(); err != nil {
		return ServerConfig{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks the server configuration.
func (c ServerConfig) Validate() error {
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s driver", c.DatabaseDriver)
		}
	case "memory":
	default:
		return fmt.Errorf("invalid database driver: %s (valid: sqlite, postgres, memory)", c.DatabaseDriver)
	}

	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("KANBAN_ADDR is required")
	}

	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.LogLevel)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.LogFormat)
	}

	if c.EnableTracing && c.OTLPEndpoint == "" {
		return fmt.Errorf("OTLP_ENDPOINT is required when tracing is enabled")
	}
	return nil
}

// IsDevelopment reports whether the server runs in a development environment.
func (c ServerConfig) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
