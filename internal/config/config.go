// Package config loads the impacthub settings file.
//
// The file is YAML, normally at ~/.impacthub/config.yaml. Every key is
// optional: missing keys keep their defaults and a missing file is the
// same as an empty one.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	dirName        = ".impacthub"
	configFilename = "config.yaml"
	documentName   = "impact-hub.json"
)

// Storage backends.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

// History configures the revision journal.
type History struct {
	Enabled bool `yaml:"enabled"`
	Keep    int  `yaml:"keep"`
}

// GoogleCalendar configures the calendar export.
type GoogleCalendar struct {
	CalendarID      string `yaml:"calendar_id"`
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
	TimeZone        string `yaml:"time_zone,omitempty"`
}

// Config models the on-disk config.yaml schema.
type Config struct {
	// Document is the JSON document used by the file backend.
	Document       string         `yaml:"document"`
	Storage        string         `yaml:"storage"`
	DataDir        string         `yaml:"data_dir"`
	History        History        `yaml:"history"`
	GoogleCalendar GoogleCalendar `yaml:"google_calendar"`
}

// HomeDir returns ~/.impacthub.
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, dirName)
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(HomeDir(), configFilename)
}

// Default returns the configuration used when no file exists.
func Default() Config {
	dir := HomeDir()
	return Config{
		Document: filepath.Join(dir, documentName),
		Storage:  StorageFile,
		DataDir:  dir,
		History:  History{Enabled: true, Keep: 50},
		GoogleCalendar: GoogleCalendar{
			CalendarID:      "primary",
			CredentialsFile: filepath.Join(dir, "credentials.json"),
			TokenFile:       filepath.Join(dir, "token.json"),
		},
	}
}

// Load reads the config at path over the defaults. A missing file yields
// the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// Validate rejects unknown storage backends and bad retention.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("unknown storage %q (want file, sqlite or memory)", c.Storage)
	}
	if c.Storage == StorageFile && c.Document == "" {
		return errors.New("document path is required for file storage")
	}
	if c.History.Enabled && c.History.Keep <= 0 {
		return fmt.Errorf("history.keep must be positive, got %d", c.History.Keep)
	}
	if c.GoogleCalendar.TimeZone != "" {
		if _, err := time.LoadLocation(c.GoogleCalendar.TimeZone); err != nil {
			return fmt.Errorf("google_calendar.time_zone: %w", err)
		}
	}
	return nil
}

// Location returns the export time zone, the local zone when unset.
func (c Config) Location() *time.Location {
	if c.GoogleCalendar.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.GoogleCalendar.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// normalize expands ~ and resolves relative paths against DataDir.
func (c *Config) normalize() {
	c.Storage = strings.ToLower(strings.TrimSpace(c.Storage))
	c.DataDir = expandHome(c.DataDir)
	c.Document = c.resolve(c.Document)
	c.GoogleCalendar.CredentialsFile = c.resolve(c.GoogleCalendar.CredentialsFile)
	c.GoogleCalendar.TokenFile = c.resolve(c.GoogleCalendar.TokenFile)
}

func (c *Config) resolve(p string) string {
	p = expandHome(strings.TrimSpace(p))
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.DataDir, filepath.FromSlash(p))
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
