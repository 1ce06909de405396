// Package config loads the critiq configuration: defaults, then the
// config.yaml file, then CRITIQ_* environment variables, then CLI flag
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "CRITIQ_"

// Config represents the critiq configuration.
type Config struct {
	// BaseURL is the backend service root, without the /api/v1 prefix.
	BaseURL string `json:"base_url" koanf:"base_url" yaml:"base_url"`
	// CallbackAddr is the localhost address the OAuth redirect listener binds.
	CallbackAddr string `json:"callback_addr" koanf:"callback_addr" yaml:"callback_addr"`
	// Format selects the output format: text or json.
	Format string `json:"format" koanf:"format" yaml:"format"`
	// TimeoutSeconds bounds each backend request. 0 keeps the default.
	TimeoutSeconds int `json:"timeout_seconds" koanf:"timeout_seconds" yaml:"timeout_seconds"`
	// Verbose enables diagnostic logging to stderr.
	Verbose bool `json:"verbose" koanf:"verbose" yaml:"verbose"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		BaseURL:        "http://localhost:8000",
		CallbackAddr:   "127.0.0.1:8711",
		Format:         "text",
		TimeoutSeconds: 60,
	}
}

// Dir returns the platform-appropriate config directory for critiq.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "critiq"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "critiq"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "critiq"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "critiq"), nil
	default:
		return filepath.Join(home, ".config", "critiq"), nil
	}
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load builds the effective config by merging: defaults <- file <- env <-
// overrides. The overrides map comes from CLI flags (only set values should
// appear).
func Load(overrides map[string]string) (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path, overrides)
}

// LoadFrom is Load with an explicit config file path, for tests.
// A missing file is not an error; defaults and env still apply.
func LoadFrom(path string, overrides map[string]string) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// CRITIQ_BASE_URL -> base_url
			return strings.ToLower(strings.TrimPrefix(key, envPrefix)), value
		},
	}), nil); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	applyOverrides(&cfg, overrides)

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyOverrides(cfg *Config, overrides map[string]string) {
	if overrides == nil {
		return
	}
	if v, ok := overrides["base_url"]; ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := overrides["callback_addr"]; ok && v != "" {
		cfg.CallbackAddr = v
	}
	if v, ok := overrides["format"]; ok && v != "" {
		cfg.Format = v
	}
	if v, ok := overrides["timeout_seconds"]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutSeconds = n
		}
	}
	if v, ok := overrides["verbose"]; ok && v == "true" {
		cfg.Verbose = true
	}
}

// Validate rejects values no command could use.
func Validate(cfg Config) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if !strings.HasPrefix(cfg.BaseURL, "http://") && !strings.HasPrefix(cfg.BaseURL, "https://") {
		return fmt.Errorf("base_url must start with http:// or https://: %s", cfg.BaseURL)
	}
	switch cfg.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported format: %s", cfg.Format)
	}
	if cfg.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	return nil
}

// SetField sets a single config field by key name in the config file,
// creating the file when absent. Returns the file path written.
func SetField(key, value string) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	cfg := Default()
	k := koanf.New(".")
	if _, statErr := os.Stat(path); statErr == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return "", fmt.Errorf("reading config file: %w", err)
		}
		if err := k.Unmarshal("", &cfg); err != nil {
			return "", fmt.Errorf("parsing config file: %w", err)
		}
	}

	switch key {
	case "base_url":
		cfg.BaseURL = value
	case "callback_addr":
		cfg.CallbackAddr = value
	case "format":
		cfg.Format = value
	case "timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil {
			return "", fmt.Errorf("timeout_seconds must be an integer: %w", err)
		}
		cfg.TimeoutSeconds = n
	case "verbose":
		cfg.Verbose = value == "true"
	default:
		return "", fmt.Errorf("unknown config key: %s", key)
	}

	if err := Validate(cfg); err != nil {
		return "", err
	}
	return path, Save(cfg)
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Parser().Marshal(map[string]any{
		"base_url":        cfg.BaseURL,
		"callback_addr":   cfg.CallbackAddr,
		"format":          cfg.Format,
		"timeout_seconds": cfg.TimeoutSeconds,
		"verbose":         cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
