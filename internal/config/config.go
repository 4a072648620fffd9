package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// NOTE: Load creates a default config file on first run; Save writes
// atomically with 0600 permissions.

// PickerConfig holds the defaults applied to widgets mounted without
// explicit options.
type PickerConfig struct {
	// EnableEthiopian offers the Ethiopian calendar and starts in it.
	EnableEthiopian bool `yaml:"enable_ethiopian" json:"enable_ethiopian"`

	// ShowTimePicker enables the time of day control.
	ShowTimePicker bool `yaml:"show_time_picker" json:"show_time_picker"`

	// YearRange is the number of years in the year selector, counting back
	// from the current year.
	YearRange int `yaml:"year_range" json:"year_range"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	// Level is one of debug, info, error.
	Level string `yaml:"level" json:"level"`
	// Format is "console" or "json".
	Format string `yaml:"format" json:"format"`
}

// WidgetsConfig controls how long mounted widgets are kept.
type WidgetsConfig struct {
	// IdleTimeout unmounts widgets that have not been read or edited for
	// this long.
	IdleTimeout time.Duration `yaml:"idle_timeout" json:"idle_timeout"`

	// SweepSchedule is the cron spec of the idle sweep, e.g. "@every 1m".
	SweepSchedule string `yaml:"sweep_schedule" json:"sweep_schedule"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the Web UI/API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address for the Web UI and API.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone used for "now" and for calendar exports
	// (e.g. "Africa/Addis_Ababa").
	Timezone string `yaml:"timezone" json:"timezone"`

	Picker PickerConfig `yaml:"picker" json:"picker"`

	Widgets WidgetsConfig `yaml:"widgets" json:"widgets"`

	Log LogConfig `yaml:"log" json:"log"`

	// BasicAuth, if non-nil, enables HTTP Basic Authentication on all endpoints
	// except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`
}

const (
	defaultListen    = "127.0.0.1:8080"
	defaultTimezone  = "Africa/Addis_Ababa"
	defaultYearRange = 100
	maxYearRange     = 1000
	defaultIdle      = 30 * time.Minute
	defaultSweep     = "@every 1m"
)

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Listen:   defaultListen,
		Timezone: defaultTimezone,
		Picker: PickerConfig{
			EnableEthiopian: true,
			ShowTimePicker:  true,
			YearRange:       defaultYearRange,
		},
		Widgets: WidgetsConfig{
			IdleTimeout:   defaultIdle,
			SweepSchedule: defaultSweep,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		BasicAuth: nil,
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
	if c.Picker.YearRange <= 0 {
		c.Picker.YearRange = defaultYearRange
	}
	if c.Picker.YearRange > maxYearRange {
		c.Picker.YearRange = maxYearRange
	}
	if c.Widgets.IdleTimeout <= 0 {
		c.Widgets.IdleTimeout = defaultIdle
	}
	if c.Widgets.SweepSchedule == "" {
		c.Widgets.SweepSchedule = defaultSweep
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

// Location resolves Timezone, falling back to time.Local when it is empty
// or unknown.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
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
//   - normalize defaults
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

// Save writes the given configuration to the specified path through a
// temp file in the same directory, renamed into place with 0600 perms.
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

	tmp, err := os.CreateTemp(dir, ".ethiopicker-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
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
