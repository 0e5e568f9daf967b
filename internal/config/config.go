// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/nvidalperez/cancha/internal/grid"
	"github.com/nvidalperez/cancha/internal/recur"
)

// Config holds the application configuration.
type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Billing  BillingConfig  `toml:"billing"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme       string `toml:"theme"`        // "mocha", "macchiato", "frappe", "latte"
	DefaultView string `toml:"default_view"` // "day", "week", "month"
}

// ScheduleConfig holds scheduling settings.
type ScheduleConfig struct {
	SnapMinutes          int      `toml:"snap_minutes"`           // drag snap granularity
	DefaultLessonMinutes int      `toml:"default_lesson_minutes"` // length of a lesson created from a slot tap
	DefaultRecurrence    string   `toml:"default_recurrence"`     // RRULE applied to new lessons, empty for one-offs
	Workdays             []string `toml:"workdays"`               // e.g., ["monday", "tuesday", ...]
}

// BillingConfig holds lesson pricing settings.
type BillingConfig struct {
	DefaultPrice int64  `toml:"default_price"` // cents
	Currency     string `toml:"currency"`      // ISO 4217 code, display only
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			SnapMinutes:          15,
			DefaultLessonMinutes: 30,
			Workdays:             []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"},
		},
		Billing: BillingConfig{
			DefaultPrice: 0,
			Currency:     "EUR",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme:       "mocha",
			DefaultView: "week",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "cancha.db"
	}
	return filepath.Join(home, ".local", "share", "cancha", "cancha.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "cancha", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	// Schedule overrides
	if v := os.Getenv("CANCHA_SNAP_MINUTES"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			cfg.Schedule.SnapMinutes = n
		}
	}
	if v := os.Getenv("CANCHA_DEFAULT_LESSON_MINUTES"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			cfg.Schedule.DefaultLessonMinutes = n
		}
	}
	if v := os.Getenv("CANCHA_DEFAULT_RECURRENCE"); v != "" {
		cfg.Schedule.DefaultRecurrence = v
	}
	if v := os.Getenv("CANCHA_WORKDAYS"); v != "" {
		cfg.Schedule.Workdays = strings.Split(v, ",")
	}

	// Storage overrides
	if v := os.Getenv("CANCHA_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	// UI overrides
	if v := os.Getenv("CANCHA_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("CANCHA_DEFAULT_VIEW"); v != "" {
		cfg.UI.DefaultView = v
	}
}

func parsePositiveInt(s string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Schedule.SnapMinutes <= 0 || grid.WindowMinutes%c.Schedule.SnapMinutes != 0 {
		return fmt.Errorf("snap_minutes must divide a full day evenly, got %d", c.Schedule.SnapMinutes)
	}
	if c.Schedule.DefaultLessonMinutes <= 0 || c.Schedule.DefaultLessonMinutes > grid.WindowMinutes {
		return fmt.Errorf("default_lesson_minutes out of range: %d", c.Schedule.DefaultLessonMinutes)
	}
	if err := recur.Validate(c.Schedule.DefaultRecurrence); err != nil {
		return fmt.Errorf("default_recurrence: %w", err)
	}

	if len(c.Schedule.Workdays) == 0 {
		return errors.New("at least one workday must be configured")
	}
	for _, day := range c.Schedule.Workdays {
		if !isValidWeekday(day) {
			return fmt.Errorf("invalid workday: %s", day)
		}
	}

	if c.Billing.DefaultPrice < 0 {
		return errors.New("default_price cannot be negative")
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}

	switch c.UI.DefaultView {
	case "day", "week", "month":
	default:
		return fmt.Errorf("invalid default_view: %s", c.UI.DefaultView)
	}

	return nil
}

var validWeekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

func isValidWeekday(day string) bool {
	return validWeekdays[strings.ToLower(day)]
}

// IsWorkday returns true if the given weekday name is a configured workday.
func (c *Config) IsWorkday(weekday string) bool {
	weekday = strings.ToLower(weekday)
	for _, d := range c.Schedule.Workdays {
		if strings.ToLower(d) == weekday {
			return true
		}
	}
	return false
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
