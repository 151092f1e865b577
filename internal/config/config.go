// Package config handles the configuration directory, the config file and
// the settings derived from them.
package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the config filename inside the config directory.
	ConfigFile = "config.toml"

	// LogFile is the log filename used by the terminal page.
	LogFile = "todo.log"

	// DefaultBaseURL is the remote store the application talks to when
	// nothing else is configured.
	DefaultBaseURL = "https://webigeeks-56786-default-rtdb.firebaseio.com"

	// DefaultCollection is the collection path under the base URL.
	DefaultCollection = "tasks"

	// DefaultTimeoutSeconds bounds every remote store call.
	DefaultTimeoutSeconds = 10

	// DefaultListen is the address used by `todo serve`.
	DefaultListen = "127.0.0.1:8080"

	// DefaultLogLevel is the zerolog level name used when none is set.
	DefaultLogLevel = "info"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`

	// BaseURL is the remote store root, without a trailing slash.
	BaseURL string `toml:"base_url"`

	// Collection is the store path holding task records.
	Collection string `toml:"collection"`

	// TimeoutSeconds bounds each remote store request.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// CredentialsFile is an optional service account key for the store.
	CredentialsFile string `toml:"credentials_file"`

	// AccessToken is an optional OAuth2 bearer token for the store.
	AccessToken string `toml:"access_token"`

	// SyncDeletes makes page deletions also delete the remote record.
	SyncDeletes bool `toml:"sync_deletes"`

	// ClearOnSubmit empties the input form after a submit.
	ClearOnSubmit bool `toml:"clear_on_submit"`

	// Listen is the address `todo serve` binds to.
	Listen string `toml:"listen"`

	// LogLevel is a zerolog level name.
	LogLevel string `toml:"log_level"`
}

// New creates a new Config with defaults and the default or specified
// config directory. It does not read the config file; see Load.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}
	setDefaults(cfg)
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// LogPath returns the path to the log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Dir, LogFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasConfigFile checks if the config file exists.
func (c *Config) HasConfigFile() bool {
	_, err := os.Stat(c.ConfigPath())
	return err == nil
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HasCredentials reports whether any store credential is configured.
func (c *Config) HasCredentials() bool {
	return c.CredentialsFile != "" || c.AccessToken != ""
}

func setDefaults(cfg *Config) {
	cfg.BaseURL = DefaultBaseURL
	cfg.Collection = DefaultCollection
	cfg.TimeoutSeconds = DefaultTimeoutSeconds
	cfg.Listen = DefaultListen
	cfg.LogLevel = DefaultLogLevel
}
