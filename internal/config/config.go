package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/christopherklint97/studycal/internal/calendar"
	"github.com/christopherklint97/studycal/internal/scheduler"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

type Config struct {
	Schedule ScheduleConfig `toml:"schedule"`
	Calendar CalendarConfig `toml:"calendar"`
	Log      LogConfig      `toml:"log"`
}

type ScheduleConfig struct {
	StartTime         string  `toml:"start_time"`
	Timezone          string  `toml:"timezone"`
	DailyLimitMinutes float64 `toml:"daily_limit_minutes"`
	StudyDays         []int   `toml:"study_days"` // 0 = Monday ... 6 = Sunday
	Multiplier        float64 `toml:"multiplier"`
}

type CalendarConfig struct {
	Label     string `toml:"label"`
	ProductID string `toml:"product_id"`
	Output    string `toml:"output"`
	Footer    string `toml:"footer"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

func DefaultConfig() Config {
	return Config{
		Schedule: ScheduleConfig{
			StartTime:         "19:00",
			Timezone:          "America/Sao_Paulo",
			DailyLimitMinutes: 120,
			StudyDays:         []int{0, 1, 2, 3, 4},
			Multiplier:        1.0,
		},
		Calendar: CalendarConfig{
			Label:     calendar.DefaultLabel,
			ProductID: calendar.DefaultProductID,
			Output:    "study_schedule.ics",
			Footer:    "Mark each class as done once you finish it.",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "studycal"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config from the default path.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config at path on top of the defaults. A missing file
// yields the defaults. Environment overrides are applied last.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STUDYCAL_TIMEZONE"); v != "" {
		cfg.Schedule.Timezone = v
	}
	if v := os.Getenv("STUDYCAL_START_TIME"); v != "" {
		cfg.Schedule.StartTime = v
	}
	if v := os.Getenv("STUDYCAL_LABEL"); v != "" {
		cfg.Calendar.Label = v
	}
	if v := os.Getenv("STUDYCAL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks every value the generate pipeline depends on, so bad
// settings fail before any scheduling happens.
func (c *Config) Validate() error {
	var errs []error

	if _, err := calendar.ParseClock(c.Schedule.StartTime); err != nil {
		errs = append(errs, fmt.Errorf("schedule.start_time: %w", err))
	}
	switch tz := c.Schedule.Timezone; tz {
	case "", "Local":
		errs = append(errs, fmt.Errorf("schedule.timezone: %q is not an IANA zone name", tz))
	default:
		if _, err := time.LoadLocation(tz); err != nil {
			errs = append(errs, fmt.Errorf("schedule.timezone: %w", err))
		}
	}
	if d := c.Schedule.DailyLimitMinutes; math.IsNaN(d) || math.IsInf(d, 0) || d <= 0 {
		errs = append(errs, fmt.Errorf("schedule.daily_limit_minutes: %w", scheduler.ErrInvalidDailyLimit))
	}
	if m := c.Schedule.Multiplier; math.IsNaN(m) || math.IsInf(m, 0) || m <= 0 {
		errs = append(errs, fmt.Errorf("schedule.multiplier: %w", scheduler.ErrInvalidMultiplier))
	}
	if _, err := scheduler.NewWeekdays(c.Schedule.StudyDays...); err != nil {
		errs = append(errs, fmt.Errorf("schedule.study_days: %w", err))
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// WriteDefault writes the default config to path, creating its directory.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	out, err := toml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}

// SaveSchedule persists the [schedule] table to the config file using a
// read-modify-write approach to preserve other settings.
func SaveSchedule(path string, sc ScheduleConfig) error {
	cfg := make(map[string]any)

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg["schedule"] = map[string]any{
		"start_time":          sc.StartTime,
		"timezone":            sc.Timezone,
		"daily_limit_minutes": sc.DailyLimitMinutes,
		"study_days":          sc.StudyDays,
		"multiplier":          sc.Multiplier,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	out, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, out, 0644)
}
