package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Schedule.SnapMinutes != 15 {
		t.Errorf("snap_minutes = %d, want 15", cfg.Schedule.SnapMinutes)
	}
	if cfg.Schedule.DefaultLessonMinutes != 30 {
		t.Errorf("default_lesson_minutes = %d, want 30", cfg.Schedule.DefaultLessonMinutes)
	}
	if cfg.UI.DefaultView != "week" {
		t.Errorf("default_view = %s, want week", cfg.UI.DefaultView)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.Schedule.SnapMinutes != 15 {
		t.Errorf("snap_minutes = %d, want default 15", cfg.Schedule.SnapMinutes)
	}
}

func TestLoadFrom_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[schedule]
snap_minutes = 10
default_lesson_minutes = 60
default_recurrence = "FREQ=WEEKLY"

[billing]
default_price = 4500
currency = "USD"

[ui]
theme = "latte"
default_view = "day"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.Schedule.SnapMinutes != 10 {
		t.Errorf("snap_minutes = %d, want 10", cfg.Schedule.SnapMinutes)
	}
	if cfg.Schedule.DefaultLessonMinutes != 60 {
		t.Errorf("default_lesson_minutes = %d, want 60", cfg.Schedule.DefaultLessonMinutes)
	}
	if cfg.Schedule.DefaultRecurrence != "FREQ=WEEKLY" {
		t.Errorf("default_recurrence = %q", cfg.Schedule.DefaultRecurrence)
	}
	if cfg.Billing.DefaultPrice != 4500 || cfg.Billing.Currency != "USD" {
		t.Errorf("billing = %+v", cfg.Billing)
	}
	if cfg.UI.Theme != "latte" || cfg.UI.DefaultView != "day" {
		t.Errorf("ui = %+v", cfg.UI)
	}
	// Untouched sections keep their defaults.
	if len(cfg.Schedule.Workdays) == 0 {
		t.Error("workdays should keep defaults")
	}
}

func TestLoadFrom_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[ui]\ntheme = \"latte\"\n"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	t.Setenv("CANCHA_UI_THEME", "macchiato")
	t.Setenv("CANCHA_SNAP_MINUTES", "5")
	t.Setenv("CANCHA_DB_PATH", "/tmp/override.db")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.UI.Theme != "macchiato" {
		t.Errorf("theme = %s, want env override", cfg.UI.Theme)
	}
	if cfg.Schedule.SnapMinutes != 5 {
		t.Errorf("snap_minutes = %d, want 5", cfg.Schedule.SnapMinutes)
	}
	if cfg.Storage.DBPath != "/tmp/override.db" {
		t.Errorf("db_path = %s, want env override", cfg.Storage.DBPath)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"snap does not divide day", func(c *Config) { c.Schedule.SnapMinutes = 13 }, "snap_minutes"},
		{"zero snap", func(c *Config) { c.Schedule.SnapMinutes = 0 }, "snap_minutes"},
		{"zero lesson length", func(c *Config) { c.Schedule.DefaultLessonMinutes = 0 }, "default_lesson_minutes"},
		{"bad recurrence", func(c *Config) { c.Schedule.DefaultRecurrence = "FREQ=SOMETIMES" }, "default_recurrence"},
		{"no workdays", func(c *Config) { c.Schedule.Workdays = nil }, "workday"},
		{"bad workday", func(c *Config) { c.Schedule.Workdays = []string{"funday"} }, "invalid workday"},
		{"negative price", func(c *Config) { c.Billing.DefaultPrice = -1 }, "default_price"},
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }, "db_path"},
		{"bad view", func(c *Config) { c.UI.DefaultView = "year" }, "default_view"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.UI.Theme = "frappe"
	cfg.Billing.DefaultPrice = 5000

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if got.UI.Theme != "frappe" || got.Billing.DefaultPrice != 5000 {
		t.Errorf("reloaded config = %+v", got)
	}
}

func TestIsWorkday(t *testing.T) {
	cfg := Default()
	if !cfg.IsWorkday("Monday") {
		t.Error("Monday should be a workday by default")
	}
	if cfg.IsWorkday("sunday") {
		t.Error("Sunday should not be a workday by default")
	}
}
