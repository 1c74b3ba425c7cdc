// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/timeflow/internal/planner"
	"github.com/javiermolinar/timeflow/internal/scheduler"
	"github.com/javiermolinar/timeflow/internal/task"
)

// Config holds the application configuration.
type Config struct {
	Planner      PlannerConfig      `toml:"planner"`
	AutoSchedule AutoScheduleConfig `toml:"autoschedule"`
	Timeline     TimelineConfig     `toml:"timeline"`
	Export       ExportConfig       `toml:"export"`
	UI           UIConfig           `toml:"ui"`
}

// PlannerConfig holds the seeded sleep commitment.
type PlannerConfig struct {
	SeedSleep     bool   `toml:"seed_sleep"`
	SleepTitle    string `toml:"sleep_title"`
	SleepStart    string `toml:"sleep_start"`    // e.g., "22:00"
	SleepDuration int    `toml:"sleep_duration"` // minutes
}

// WindowConfig is one auto-schedule window.
type WindowConfig struct {
	Start    string `toml:"start"`    // e.g., "14:00"
	Duration int    `toml:"duration"` // minutes
}

// AutoScheduleConfig holds the windows used to place unscheduled tasks.
type AutoScheduleConfig struct {
	Windows         []WindowConfig `toml:"windows"`          // used when sleep is on the day
	FallbackWindows []WindowConfig `toml:"fallback_windows"` // used otherwise
}

// TimelineConfig holds the visible hour range of the day view.
type TimelineConfig struct {
	StartHour int `toml:"start_hour"`
	EndHour   int `toml:"end_hour"`
}

// ExportConfig holds snapshot export settings.
type ExportConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte"
}

// Default returns the default configuration.
func Default() *Config {
	sleep := planner.DefaultSleep()
	return &Config{
		Planner: PlannerConfig{
			SeedSleep:     sleep.Enabled,
			SleepTitle:    sleep.Title,
			SleepStart:    sleep.Start,
			SleepDuration: sleep.Duration,
		},
		AutoSchedule: AutoScheduleConfig{
			Windows:         []WindowConfig{{Start: "14:00", Duration: 180}},
			FallbackWindows: []WindowConfig{{Start: "14:00", Duration: 180}},
		},
		Timeline: TimelineConfig{
			StartHour: 6,
			EndHour:   23,
		},
		Export: ExportConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "timeflow.db"
	}
	return filepath.Join(home, ".local", "share", "timeflow", "timeflow.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "timeflow", "config.toml")
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

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Export.DBPath = expandPath(cfg.Export.DBPath)

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
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TIMEFLOW_SLEEP_START"); v != "" {
		cfg.Planner.SleepStart = v
	}
	if err := envInt("TIMEFLOW_SLEEP_DURATION", &cfg.Planner.SleepDuration); err != nil {
		return err
	}
	if err := envInt("TIMEFLOW_TIMELINE_START", &cfg.Timeline.StartHour); err != nil {
		return err
	}
	if err := envInt("TIMEFLOW_TIMELINE_END", &cfg.Timeline.EndHour); err != nil {
		return err
	}
	if v := os.Getenv("TIMEFLOW_DB_PATH"); v != "" {
		cfg.Export.DBPath = v
	}
	if v := os.Getenv("TIMEFLOW_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

func envInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	*dst = n
	return nil
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
	if c.Planner.SeedSleep {
		if strings.TrimSpace(c.Planner.SleepTitle) == "" {
			return errors.New("sleep_title must be set when seed_sleep is enabled")
		}
		if err := validateTime(c.Planner.SleepStart, "sleep_start"); err != nil {
			return err
		}
		if c.Planner.SleepDuration <= 0 {
			return fmt.Errorf("sleep_duration must be positive, got %d", c.Planner.SleepDuration)
		}
	}

	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("autoschedule: %w", err)
	}

	if c.Timeline.StartHour < 0 || c.Timeline.EndHour > 23 {
		return fmt.Errorf("timeline hours must be within 0-23, got %d-%d", c.Timeline.StartHour, c.Timeline.EndHour)
	}
	if c.Timeline.StartHour >= c.Timeline.EndHour {
		return errors.New("timeline start_hour must be before end_hour")
	}

	if c.Export.DBPath == "" {
		return errors.New("db_path must be set")
	}
	if !isValidTheme(c.UI.Theme) {
		return fmt.Errorf("unknown theme: %s", c.UI.Theme)
	}
	return nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if _, err := task.ToMinutes(t); err != nil {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

var validThemes = map[string]bool{
	"mocha": true,
	"latte": true,
}

func isValidTheme(name string) bool {
	return validThemes[strings.ToLower(name)]
}

// Policy returns the auto-schedule policy described by the config.
func (c *Config) Policy() scheduler.Policy {
	return scheduler.Policy{
		Windows:         toWindows(c.AutoSchedule.Windows),
		FallbackWindows: toWindows(c.AutoSchedule.FallbackWindows),
		SentinelID:      scheduler.SleepID,
	}
}

func toWindows(in []WindowConfig) []scheduler.Window {
	out := make([]scheduler.Window, 0, len(in))
	for _, w := range in {
		out = append(out, scheduler.Window{Start: w.Start, Duration: w.Duration})
	}
	return out
}

// Sleep returns the sleep commitment seeded at startup.
func (c *Config) Sleep() planner.Sleep {
	return planner.Sleep{
		Enabled:  c.Planner.SeedSleep,
		Title:    c.Planner.SleepTitle,
		Start:    c.Planner.SleepStart,
		Duration: c.Planner.SleepDuration,
	}
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
