package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	appName        = "notifyd"
	configFileName = "config.toml"
	historyDBName  = "history.db"

	defaultTimeout      = 5 * time.Second
	defaultLogLevel     = "info"
	defaultMaxBodyWidth = 60
)

type Config struct {
	DefaultTimeout time.Duration `koanf:"default_timeout"` // e.g. "5s"; unset or <= 0 uses 5s
	LogLevel       string        `koanf:"log_level"`       // trace, debug, info, warning, error

	// Identity reported by GetServerInformation
	Server ServerConfig `koanf:"server"`

	// Optional protocol features
	Features FeaturesConfig `koanf:"features"`

	// Closed-notification log
	History HistoryConfig `koanf:"history"`

	TUI TUIConfig `koanf:"tui"`

	files []string // config files actually loaded, in order
}

// ServerConfig overrides the server identity. Empty fields keep the
// built-in values.
type ServerConfig struct {
	Name    string `koanf:"name"`
	Vendor  string `koanf:"vendor"`
	Version string `koanf:"version"`
}

// FeaturesConfig toggles optional capabilities.
type FeaturesConfig struct {
	Actions *bool `koanf:"actions"` // default: true
}

// HistoryConfig holds the history log settings.
type HistoryConfig struct {
	Enabled *bool  `koanf:"enabled"` // default: true
	Path    string `koanf:"path"`    // default: $XDG_DATA_HOME/notifyd/history.db
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	MaxBodyWidth int `koanf:"max_body_width"` // cells per body line (default: 60)
}

// envOverrides are read from NOTIFYD_* variables and win over files.
type envOverrides struct {
	DefaultTimeout time.Duration `env:"DEFAULT_TIMEOUT"`
	LogLevel       string        `env:"LOG_LEVEL"`
	History        string        `env:"HISTORY"`
	HistoryPath    string        `env:"HISTORY_PATH"`
}

const envPrefix = "NOTIFYD_"

// Load reads the configuration. When path is empty the default locations
// are tried in order (last wins); otherwise only path is read and it must
// exist. NOTIFYD_* environment variables are applied last.
func Load(path string) (*Config, error) {
	return load(path, nil)
}

// load is Load with an explicit environment; nil means the process env.
func load(path string, environ map[string]string) (*Config, error) {
	k := koanf.New(".")
	cfg := &Config{}

	configPaths := getConfigPaths()
	if path != "" {
		configPaths = []string{expandPath(path)}
		if _, err := os.Stat(configPaths[0]); err != nil {
			return nil, err
		}
	}

	for _, p := range configPaths {
		if _, err := os.Stat(p); err == nil {
			if err := k.Load(file.Provider(p), toml.Parser()); err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
			cfg.files = append(cfg.files, p)
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	if err := applyEnv(cfg, environ); err != nil {
		return nil, err
	}

	if cfg.History.Path != "" {
		cfg.History.Path = expandPath(cfg.History.Path)
	}

	return cfg, nil
}

func applyEnv(cfg *Config, environ map[string]string) error {
	var ov envOverrides
	opts := env.Options{Prefix: envPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&ov, opts); err != nil {
		return fmt.Errorf("environment: %w", err)
	}

	if ov.DefaultTimeout != 0 {
		cfg.DefaultTimeout = ov.DefaultTimeout
	}
	if ov.LogLevel != "" {
		cfg.LogLevel = ov.LogLevel
	}
	if ov.History != "" {
		enabled, err := strconv.ParseBool(ov.History)
		if err != nil {
			return fmt.Errorf("environment: %sHISTORY: %w", envPrefix, err)
		}
		cfg.History.Enabled = &enabled
	}
	if ov.HistoryPath != "" {
		cfg.History.Path = ov.HistoryPath
	}
	return nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/notifyd/config.toml
		filepath.Join(xdg.ConfigHome, appName, configFileName),
		// 2. ./config.toml (pwd, highest priority)
		configFileName,
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// Files returns the configuration files that were loaded.
func (c *Config) Files() []string {
	return c.files
}

// GetDefaultTimeout returns the timeout of notes that do not set one.
func (c *Config) GetDefaultTimeout() time.Duration {
	if c.DefaultTimeout <= 0 {
		return defaultTimeout
	}
	return c.DefaultTimeout
}

// GetLogLevel returns the configured log level name.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return defaultLogLevel
	}
	return c.LogLevel
}

// ActionsEnabled reports whether the actions capability is offered.
func (c *Config) ActionsEnabled() bool {
	return c.Features.Actions == nil || *c.Features.Actions
}

// HistoryEnabled reports whether closed notifications are logged.
func (c *Config) HistoryEnabled() bool {
	return c.History.Enabled == nil || *c.History.Enabled
}

// GetHistoryPath returns the history database path, creating the default
// data directory when no path is configured.
func (c *Config) GetHistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	return xdg.DataFile(filepath.Join(appName, historyDBName))
}

// GetTUIConfig returns the TUI configuration with defaults applied.
func (c *Config) GetTUIConfig() TUIConfig {
	cfg := c.TUI
	if cfg.MaxBodyWidth <= 0 {
		cfg.MaxBodyWidth = defaultMaxBodyWidth
	}
	return cfg
}
