package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, BackendYAML, cfg.Backend)
	assert.Equal(t, "value", cfg.Field)
	assert.Equal(t, FormatYAML, cfg.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ConfigFile))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Overrides(t *testing.T) {
	filename := filepath.Join(t.TempDir(), ConfigFile)
	require.NoError(t, os.WriteFile(filename, []byte("backend: badger\nfield: amount\n"), 0666))

	cfg, err := LoadConfig(filename)
	require.NoError(t, err)
	assert.Equal(t, BackendBadger, cfg.Backend)
	assert.Equal(t, "amount", cfg.Field)
	assert.Equal(t, FormatYAML, cfg.Format)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"backend", func(c *Config) { c.Backend = "sqlite" }},
		{"format", func(c *Config) { c.Format = "xml" }},
		{"field", func(c *Config) { c.Field = "" }},
		{"log", func(c *Config) { c.LogPath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
