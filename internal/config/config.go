// Package config loads persisted application settings and their
// environment overrides.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/prov-studio/prov-studio/internal/translate"
)

const (
	configDirName   = ".prov-studio"
	configFileName  = "config.json"
	libraryFileName = "documents.json"
)

// Environment variables consulted after the config file. A .env file in
// the working directory is loaded first, so either can supply them.
const (
	envServiceURL = "PROVSTUDIO_SERVICE_URL"
	envRedisURL   = "PROVSTUDIO_REDIS_URL"
	envLibrary    = "PROVSTUDIO_LIBRARY"
)

// Config stores user-defined ProvStudio settings.
type Config struct {
	// LibraryPath is the JSON file holding the document library. Ignored
	// when RedisURL is set.
	LibraryPath string `json:"library_path"`

	// ServiceURL is the base URL of the provenance translation service.
	ServiceURL string `json:"service_url"`

	// RedisURL, when non-empty, stores the library in Redis instead of a
	// local file.
	RedisURL string `json:"redis_url,omitempty"`

	// DebounceMS is the idle window after a text keystroke before a
	// translation is issued.
	DebounceMS int `json:"debounce_ms,omitempty"`

	// RetryLimit bounds attempts per translation call.
	RetryLimit int `json:"retry_limit,omitempty"`
}

// Debounce returns the configured debounce window as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// ConfigPath returns the configuration file path.
func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, configFileName), nil
}

// DefaultLibraryPath returns the default document library location.
func DefaultLibraryPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDirName, libraryFileName), nil
}

// Default returns the configuration used when no file exists.
func Default() (Config, error) {
	library, err := DefaultLibraryPath()
	if err != nil {
		return Config{}, err
	}
	return Config{
		LibraryPath: library,
		ServiceURL:  translate.DefaultServiceURL,
		DebounceMS:  300,
		RetryLimit:  translate.DefaultRetryLimit,
	}, nil
}

// Load reads the saved configuration, falling back to defaults when the
// file is absent, then applies environment overrides. A .env file in the
// working directory is honored if present.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(path)
}

// LoadFrom is Load with an explicit config file path.
func LoadFrom(path string) (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// First run: defaults apply.
	case err != nil:
		return Config{}, err
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	// Missing .env is the common case, not an error.
	_ = godotenv.Load()
	applyEnv(&cfg)

	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes configuration to disk.
func Save(cfg Config) error {
	if err := cfg.normalize(); err != nil {
		return err
	}

	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	return os.WriteFile(path, data, 0o600)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(envServiceURL); v != "" {
		cfg.ServiceURL = v
	}
	if v := os.Getenv(envRedisURL); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv(envLibrary); v != "" {
		cfg.LibraryPath = v
	}
}

func (c *Config) normalize() error {
	c.ServiceURL = strings.TrimSpace(c.ServiceURL)
	if c.ServiceURL == "" {
		c.ServiceURL = translate.DefaultServiceURL
	}
	if c.DebounceMS <= 0 {
		c.DebounceMS = 300
	}
	if c.RetryLimit <= 0 {
		c.RetryLimit = translate.DefaultRetryLimit
	}
	if c.RedisURL != "" {
		return nil
	}

	library, err := normalizePath(c.LibraryPath)
	if err != nil {
		return fmt.Errorf("invalid library_path: %w", err)
	}
	c.LibraryPath = library
	return nil
}

func normalizePath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is required")
	}

	expanded, err := expandHome(trimmed)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	return filepath.Clean(abs), nil
}

func expandHome(path string) (string, error) {
	if path == "~" {
		return os.UserHomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
	}
	return path, nil
}
