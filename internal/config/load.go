package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads configuration in priority order:
// 1. Defaults
// 2. config.toml in the config directory (optional)
// 3. Environment variables (TODO_*)
//
// CLI flags are applied by the caller afterwards.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	if cfg.HasConfigFile() {
		if err := loadConfigFile(cfg, cfg.ConfigPath()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", cfg.ConfigPath(), err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadConfigFile decodes TOML over the existing values.
func loadConfigFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODO_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("TODO_COLLECTION"); v != "" {
		cfg.Collection = v
	}
	if v := os.Getenv("TODO_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("TODO_CREDENTIALS_FILE"); v != "" {
		cfg.CredentialsFile = v
	}
	if v := os.Getenv("TODO_ACCESS_TOKEN"); v != "" {
		cfg.AccessToken = v
	}
	if v := os.Getenv("TODO_SYNC_DELETES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SyncDeletes = b
		}
	}
	if v := os.Getenv("TODO_CLEAR_ON_SUBMIT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.ClearOnSubmit = b
		}
	}
	if v := os.Getenv("TODO_LISTEN"); v != "" {
		cfg.Listen = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

// Finalize normalizes derived values and validates the result.
// Call it again after applying flag overrides.
func (c *Config) Finalize() error {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.Collection = strings.Trim(strings.TrimSpace(c.Collection), "/")
	c.CredentialsFile = expandPath(c.CredentialsFile)

	if c.BaseURL == "" {
		return fmt.Errorf("base_url is empty")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base_url: scheme must be http or https")
	}
	if c.Collection == "" {
		return fmt.Errorf("collection is empty")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}
	return nil
}

// expandPath expands ~ and environment variables in paths.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded[1:], "/"))
	}
	return expanded
}
