package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, "127.0.0.1:8711", cfg.CallbackAddr)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, 60, cfg.TimeoutSeconds)
	assert.False(t, cfg.Verbose)
}

func TestLoadFrom_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"base_url: https://critiq.example.com\nformat: json\ntimeout_seconds: 15\n",
	), 0o644))

	cfg, err := LoadFrom(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://critiq.example.com", cfg.BaseURL)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 15, cfg.TimeoutSeconds)
	// Untouched keys keep defaults
	assert.Equal(t, "127.0.0.1:8711", cfg.CallbackAddr)
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: https://from-file.example.com\n"), 0o644))
	t.Setenv("CRITIQ_BASE_URL", "https://from-env.example.com")

	cfg, err := LoadFrom(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "https://from-env.example.com", cfg.BaseURL)
}

func TestLoadFrom_FlagOverridesEverything(t *testing.T) {
	t.Setenv("CRITIQ_BASE_URL", "https://from-env.example.com")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"), map[string]string{
		"base_url": "https://from-flag.example.com",
		"format":   "json",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://from-flag.example.com", cfg.BaseURL)
	assert.Equal(t, "json", cfg.Format)
}

func TestLoadFrom_RejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFrom(filepath.Join(dir, "missing.yaml"), map[string]string{"format": "xml"})
	assert.Error(t, err)

	_, err = LoadFrom(filepath.Join(dir, "missing.yaml"), map[string]string{"base_url": "ftp://nope"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))

	cfg.BaseURL = ""
	assert.Error(t, Validate(cfg))

	cfg = Default()
	cfg.TimeoutSeconds = -1
	assert.Error(t, Validate(cfg))
}
