package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// NOTE: YAML-based load/save with first-run config creation and 0600
// permissions.

const (
	defaultListen           = "127.0.0.1:8080"
	defaultTimezone         = "America/Vancouver"
	defaultReminderSchedule = "0 9 * * *"
)

// LogConfig controls the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" json:"level"`
	// Format is "console" or "json".
	Format string `yaml:"format" json:"format"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone reminders and trial events are placed in.
	Timezone string `yaml:"timezone" json:"timezone"`

	// CatalogPath points at a YAML/JSON template catalog. Empty means the
	// built-in catalog.
	CatalogPath string `yaml:"catalog_path" json:"catalog_path"`

	// CalendarsPath points at a JSON calendar directory export. Empty means
	// no directory, so no calendar is treated as read-only.
	CalendarsPath string `yaml:"calendars_path" json:"calendars_path"`

	// ReminderSchedule is a 5-field cron spec; a deadline's reminder is
	// placed at its first firing on the deadline date (e.g. "0 9 * * *").
	ReminderSchedule string `yaml:"reminder_schedule" json:"reminder_schedule"`

	// ReminderMinutes is the length of each reminder event.
	ReminderMinutes int `yaml:"reminder_minutes" json:"reminder_minutes"`

	Log LogConfig `yaml:"log" json:"log"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:           defaultListen,
		Timezone:         defaultTimezone,
		ReminderSchedule: defaultReminderSchedule,
		ReminderMinutes:  30,
		Log:              LogConfig{Level: "info", Format: "console"},
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.ReminderSchedule == "" {
		c.ReminderSchedule = defaultReminderSchedule
	}
	if c.ReminderMinutes <= 0 {
		c.ReminderMinutes = 30
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	switch c.Log.Format {
	case "console", "json":
		// ok
	default:
		c.Log.Format = "console"
	}
}

// Validate checks the fields that must parse.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Schedule(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Schedule parses ReminderSchedule.
func (c *Config) Schedule() (cron.Schedule, error) {
	s, err := cron.ParseStandard(c.ReminderSchedule)
	if err != nil {
		return nil, fmt.Errorf("reminder_schedule %q: %w", c.ReminderSchedule, err)
	}
	return s, nil
}

// ReminderDuration is ReminderMinutes as a duration.
func (c *Config) ReminderDuration() time.Duration {
	return time.Duration(c.ReminderMinutes) * time.Minute
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults and validate
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
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
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

	tmp, err := os.CreateTemp(dir, ".legalclerk-config-*.tmp")
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

// Save delegates to the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
