package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// NOTE: Full YAML load/save including first-run creation with 0600 perms.
// Nothing here holds calendar events; those live only in memory.

const (
	UIModeTUI = "tui"
	UIModeWeb = "web"

	NavigationMonth = "month"
	NavigationDay   = "day"

	DefaultListen   = "127.0.0.1:8080"
	DefaultYearSpan = 5
	DefaultRefresh  = "0 0 * * *"
	DefaultLogLevel = "info"
)

// BasicAuthConfig holds HTTP Basic Auth credentials for the web UI.
// PasswordHash (argon2id, see `deskcal hash-password`) wins over Password.
type BasicAuthConfig struct {
	Username     string `yaml:"username" json:"username"`
	Password     string `yaml:"password,omitempty" json:"password,omitempty"`
	PasswordHash string `yaml:"password_hash,omitempty" json:"password_hash,omitempty"`
}

// Config is the top-level application configuration.
type Config struct {
	// UI selects the front-end: "tui" (default) or "web".
	UI string `yaml:"ui" json:"ui"`

	// Listen is the HTTP listen address for the web UI.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone used to decide what "today" is. Empty means
	// the system local zone.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Navigation controls what the prev/next buttons step by:
	//   - "month" (default): the displayed month
	//   - "day": the selected date, with the displayed month following it
	Navigation string `yaml:"navigation" json:"navigation"`

	// YearSpan bounds the year picker to current year +/- YearSpan. It is a
	// front-end limit only.
	YearSpan int `yaml:"year_span" json:"year_span"`

	// RefreshCron is the cron schedule on which front-ends re-render so the
	// today marker follows the wall clock.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// LogLevel is one of debug, info, error.
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFile receives log output while the TUI owns the terminal. Empty
	// discards logs in TUI mode.
	LogFile string `yaml:"log_file,omitempty" json:"log_file,omitempty"`

	// BasicAuth, if non-nil, protects everything except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		UI:          UIModeTUI,
		Listen:      DefaultListen,
		Timezone:    "",
		Navigation:  NavigationMonth,
		YearSpan:    DefaultYearSpan,
		RefreshCron: DefaultRefresh,
		LogLevel:    DefaultLogLevel,
		BasicAuth:   nil,
	}
}

// DefaultPath is $XDG_CONFIG_HOME/deskcal/config.yaml (or the platform
// equivalent), falling back to ./deskcal.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return "deskcal.yaml"
	}
	return filepath.Join(dir, "deskcal", "config.yaml")
}

// Normalize fills in missing/zero values with defaults and coerces unknown
// enum values so that partially-filled configs still behave.
func (c *Config) Normalize() {
	switch c.UI {
	case UIModeTUI, UIModeWeb:
	default:
		c.UI = UIModeTUI
	}
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	switch c.Navigation {
	case NavigationMonth, NavigationDay:
	default:
		// Unknown value; month stepping is the least surprising.
		c.Navigation = NavigationMonth
	}
	if c.YearSpan <= 0 {
		c.YearSpan = DefaultYearSpan
	}
	if c.RefreshCron == "" {
		c.RefreshCron = DefaultRefresh
	}
	switch c.LogLevel {
	case "debug", "info", "error":
	default:
		c.LogLevel = DefaultLogLevel
	}
	if c.BasicAuth != nil && c.BasicAuth.Username == "" {
		c.BasicAuth = nil
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist: write defaults (0600) and return them.
//   - If the file exists: unmarshal and normalize.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes cfg atomically (temp file + rename) with 0600 permissions,
// creating the parent directory (0700) if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".deskcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, path)
}

// Save is a convenience method delegating to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
