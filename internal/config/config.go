package config

import (
	"os"
	"path/filepath"
)

// Config holds the application configuration
// Note: This is a stateless configuration - the server keeps nothing between
// builds, so there are no database or auth settings here.
type Config struct {
	// Environment
	Environment string
	Port        string

	// Transport selects how the MCP server is exposed: "stdio" (default)
	// or "http" (streamable HTTP behind Gin).
	Transport string

	// OutputDir is the sandbox directory for relative output paths.
	OutputDir string

	// Observability
	SentryDSN string // Sentry DSN for error tracking
	LogLevel  string // debug, info, warn, error
}

func Load() *Config {
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		Transport:   getEnv("TRANSPORT", "stdio"),
		OutputDir:   getEnv("MIDI_OUTPUT_DIR", defaultOutputDir()),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}
}

// IsHTTPMode returns true if the MCP server should be served over HTTP
func (c *Config) IsHTTPMode() bool {
	return c.Transport == "http"
}

func defaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "MIDI"
	}
	return filepath.Join(home, "MIDI")
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
