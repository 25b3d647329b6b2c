// Package config loads the optional YAML settings file and merges command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/carddelivery/internal/constants"
)

const (
	defaultBaseURL        = "http://localhost:9999/"
	defaultBrowserTimeout = 15 * time.Second
)

// Config holds application settings
type Config struct {
	ConfigDir string        `yaml:"config_dir"`
	DB        string        `yaml:"db"`
	Timezone  string        `yaml:"timezone"`
	Cities    string        `yaml:"cities"`
	Catalog   string        `yaml:"catalog"`
	Log       LogConfig     `yaml:"log"`
	Browser   BrowserConfig `yaml:"browser"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `yaml:"level"`
	Debug bool   `yaml:"debug"`
}

// BrowserConfig holds settings for driving the live booking page
type BrowserConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Headless bool          `yaml:"headless"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Overrides are command-line values. Empty strings leave the file value in place.
type Overrides struct {
	ConfigDir string
	DB        string
	Timezone  string
	Cities    string
	Catalog   string
	Debug     bool
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		ConfigDir: constants.DefaultConfigDir,
		Timezone:  "Local",
		Log: LogConfig{
			Level: "",
		},
		Browser: BrowserConfig{
			BaseURL:  defaultBaseURL,
			Headless: true,
			Timeout:  defaultBrowserTimeout,
		},
	}
}

// Path picks the settings file: explicit path, then CARDDELIVERY_CONFIG, then
// config.yaml under the default config directory. The bool reports whether the
// caller asked for this file, in which case it must exist.
func Path(explicit string) (string, bool) {
	if explicit != "" {
		return explicit, true
	}
	if env := os.Getenv(constants.EnvConfigPath); env != "" {
		return env, true
	}
	return filepath.Join(constants.DefaultConfigDir, "config.yaml"), false
}

// Load reads the settings file chosen by Path. A missing implicit file yields Default().
func Load(explicit string) (*Config, error) {
	path, required := Path(explicit)
	path, err := ExpandPath(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			normalize(&cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	normalize(&cfg)
	return &cfg, nil
}

// Apply merges command-line overrides into the loaded settings.
func (c *Config) Apply(o Overrides) {
	if o.ConfigDir != "" {
		c.ConfigDir = o.ConfigDir
	}
	if o.DB != "" {
		c.DB = o.DB
	}
	if o.Timezone != "" {
		c.Timezone = o.Timezone
	}
	if o.Cities != "" {
		c.Cities = o.Cities
	}
	if o.Catalog != "" {
		c.Catalog = o.Catalog
	}
	if o.Debug {
		c.Log.Debug = true
	}
	normalize(c)
}

// ResolvedConfigDir returns the config directory with "~" expanded.
func (c *Config) ResolvedConfigDir() (string, error) {
	return ExpandPath(c.ConfigDir)
}

// DBTarget returns the journal location: a SQLite path, a PostgreSQL URL or DSN,
// or the keyring marker. It defaults to a SQLite file in the config directory.
func (c *Config) DBTarget() (string, error) {
	if c.DB == "" {
		dir, err := c.ResolvedConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, constants.DefaultDBName), nil
	}
	if c.DB == constants.KeyringDBValue || strings.Contains(c.DB, "://") || strings.Contains(c.DB, "=") {
		return c.DB, nil
	}
	return ExpandPath(c.DB)
}

func normalize(cfg *Config) {
	cfg.ConfigDir = strings.TrimSpace(cfg.ConfigDir)
	if cfg.ConfigDir == "" {
		cfg.ConfigDir = constants.DefaultConfigDir
	}
	cfg.Timezone = strings.TrimSpace(cfg.Timezone)
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Browser.BaseURL == "" {
		cfg.Browser.BaseURL = defaultBaseURL
	}
	if !strings.HasSuffix(cfg.Browser.BaseURL, "/") {
		cfg.Browser.BaseURL += "/"
	}
	if cfg.Browser.Timeout <= 0 {
		cfg.Browser.Timeout = defaultBrowserTimeout
	}
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
