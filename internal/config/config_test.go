package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/carddelivery/internal/constants"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_MissingImplicitFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(constants.EnvConfigPath, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Browser.BaseURL != "http://localhost:9999/" {
		t.Errorf("BaseURL = %q", cfg.Browser.BaseURL)
	}
	if cfg.Timezone != "Local" || cfg.ConfigDir != constants.DefaultConfigDir {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() should fail for a missing explicit file")
	}
}

func TestLoad_EnvPath(t *testing.T) {
	path := writeConfig(t, "timezone: Europe/Moscow\n")
	t.Setenv(constants.EnvConfigPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Timezone != "Europe/Moscow" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
}

func TestLoad_FileAndNormalize(t *testing.T) {
	path := writeConfig(t, `
config_dir: "  "
db: postgres://cards@db/cards
cities: /etc/cards/cities.txt
log:
  level: " DEBUG "
browser:
  base_url: http://booking.test:8080
  headless: false
  timeout: -1s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ConfigDir != constants.DefaultConfigDir {
		t.Errorf("ConfigDir = %q", cfg.ConfigDir)
	}
	if cfg.DB != "postgres://cards@db/cards" || cfg.Cities != "/etc/cards/cities.txt" {
		t.Errorf("Load() = %+v", cfg)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Browser.BaseURL != "http://booking.test:8080/" {
		t.Errorf("BaseURL = %q", cfg.Browser.BaseURL)
	}
	if cfg.Browser.Headless {
		t.Error("Headless should follow the file")
	}
	if cfg.Browser.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v", cfg.Browser.Timeout)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "timezone: [unterminated\n")
	if _, err := Load(path); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}
}

func TestApply(t *testing.T) {
	cfg := Default()
	cfg.DB = "from-file.db"
	cfg.Cities = "file-cities.txt"

	cfg.Apply(Overrides{DB: "flag.db", Timezone: "UTC", Debug: true})

	if cfg.DB != "flag.db" {
		t.Errorf("DB = %q, flag should win", cfg.DB)
	}
	if cfg.Cities != "file-cities.txt" {
		t.Errorf("Cities = %q, empty flag should keep file value", cfg.Cities)
	}
	if cfg.Timezone != "UTC" || !cfg.Log.Debug {
		t.Errorf("Apply() = %+v", cfg)
	}
}

func TestDBTarget(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		db   string
		want string
	}{
		{"default sqlite", "", filepath.Join(home, ".config", "carddelivery", constants.DefaultDBName)},
		{"home path", "~/cards.db", filepath.Join(home, "cards.db")},
		{"absolute path", "/var/lib/cards.db", "/var/lib/cards.db"},
		{"postgres url", "postgres://cards@db/cards", "postgres://cards@db/cards"},
		{"postgres dsn", "host=db dbname=cards", "host=db dbname=cards"},
		{"keyring", constants.KeyringDBValue, constants.KeyringDBValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.DB = tt.db
			got, err := cfg.DBTarget()
			if err != nil {
				t.Fatalf("DBTarget() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("DBTarget() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		in   string
		want string
	}{
		{"~", home},
		{"~/x/y", filepath.Join(home, "x", "y")},
		{"~user/x", "~user/x"},
		{"relative", "relative"},
	}
	for _, tt := range tests {
		got, err := ExpandPath(tt.in)
		if err != nil {
			t.Fatalf("ExpandPath(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
