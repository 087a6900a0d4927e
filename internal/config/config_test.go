package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("PORT", "")
	t.Setenv("TRANSPORT", "")
	t.Setenv("MIDI_OUTPUT_DIR", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "stdio", cfg.Transport)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.OutputDir)
	assert.False(t, cfg.IsHTTPMode())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TRANSPORT", "http")
	t.Setenv("PORT", "9090")
	t.Setenv("MIDI_OUTPUT_DIR", "/srv/midi")

	cfg := Load()
	assert.True(t, cfg.IsHTTPMode())
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "/srv/midi", cfg.OutputDir)
}
