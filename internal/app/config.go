package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"learnprogress/internal/progress"
	"learnprogress/internal/reminder"
	"learnprogress/internal/state"
)

const EnvPrefix = "LEARNPROGRESS_"

// Config controls storage, logging and reminders.
type Config struct {
	DataDir     string         `env:"DATA_DIR" yaml:"data_dir"`
	Backend     string         `env:"BACKEND" yaml:"backend"`
	StorageKey  string         `env:"STORAGE_KEY" yaml:"storage_key"`
	DebounceMS  int            `env:"DEBOUNCE_MS" yaml:"debounce_ms"`
	LogMode     string         `env:"LOG_MODE" yaml:"log_mode"`
	LogPath     string         `env:"LOG_PATH" yaml:"log_path"`
	CatalogPath string         `env:"ACHIEVEMENTS_PATH" yaml:"achievements_path"`
	Redis       RedisConfig    `envPrefix:"REDIS_" yaml:"redis"`
	Reminder    ReminderConfig `envPrefix:"REMINDER_" yaml:"reminder"`
}

type RedisConfig struct {
	Addr     string `env:"ADDR" yaml:"addr"`
	Password string `env:"PASSWORD" yaml:"password"`
	DB       int    `env:"DB" yaml:"db"`
	Prefix   string `env:"PREFIX" yaml:"prefix"`
}

type ReminderConfig struct {
	IntervalMinutes int `env:"INTERVAL_MINUTES" yaml:"interval_minutes"`
	StartHour       int `env:"START_HOUR" yaml:"start_hour"`
	EndHour         int `env:"END_HOUR" yaml:"end_hour"`
	MaxTerms        int `env:"MAX_TERMS" yaml:"max_terms"`
}

func DefaultConfig() Config {
	return Config{
		Backend:    state.BackendSQLite,
		StorageKey: progress.DefaultStorageKey,
		DebounceMS: int(progress.DefaultDebounce / time.Millisecond),
		LogMode:    "dev",
		Redis: RedisConfig{
			Prefix: "learnprogress:",
		},
		Reminder: ReminderConfig{
			IntervalMinutes: int(reminder.DefaultInterval / time.Minute),
			StartHour:       reminder.DefaultStartHour,
			EndHour:         reminder.DefaultEndHour,
			MaxTerms:        reminder.DefaultMaxTerms,
		},
	}
}

// LoadOptions selects the optional sources layered over DefaultConfig.
type LoadOptions struct {
	ConfigPath string
	DotenvPath string
	// Environ replaces the process environment when non-nil.
	Environ map[string]string
}

// Load layers defaults, the YAML file, the .env file and the environment, in
// that order, then validates. Variables already set win over .env entries.
func Load(opts LoadOptions) (Config, error) {
	cfg := DefaultConfig()
	if opts.ConfigPath != "" {
		b, err := os.ReadFile(opts.ConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", opts.ConfigPath, err)
		}
	}

	environ := opts.Environ
	if environ == nil {
		environ = processEnviron()
	}
	if opts.DotenvPath != "" {
		dot, err := godotenv.Read(opts.DotenvPath)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read %s: %w", opts.DotenvPath, err)
		}
		merged := make(map[string]string, len(environ)+len(dot))
		for k, v := range dot {
			merged[k] = v
		}
		for k, v := range environ {
			merged[k] = v
		}
		environ = merged
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix, Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func processEnviron() map[string]string {
	out := map[string]string{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			out[k] = v
		}
	}
	return out
}

func normalizeBackend(raw string) string {
	switch b := strings.ToLower(strings.TrimSpace(raw)); b {
	case "", "sqlite3", "db":
		return state.BackendSQLite
	case "mem":
		return state.BackendMemory
	case "files":
		return state.BackendFile
	default:
		return b
	}
}

func (c *Config) Validate() error {
	c.Backend = normalizeBackend(c.Backend)
	switch c.Backend {
	case state.BackendMemory, state.BackendFile, state.BackendSQLite:
	case state.BackendRedis:
		if strings.TrimSpace(c.Redis.Addr) == "" {
			return errors.New("redis backend requires a redis address")
		}
	default:
		return fmt.Errorf("invalid storage backend %q", c.Backend)
	}

	switch c.LogMode {
	case "", "dev", "prod":
	default:
		return fmt.Errorf("invalid log mode %q", c.LogMode)
	}
	if c.LogMode == "" {
		c.LogMode = "dev"
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		c.StorageKey = progress.DefaultStorageKey
	}
	if c.DebounceMS <= 0 {
		c.DebounceMS = int(progress.DefaultDebounce / time.Millisecond)
	}
	if err := c.ReminderSchedule().Validate(); err != nil {
		return err
	}

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return errors.New("cannot resolve user home directory")
		}
		c.DataDir = filepath.Join(home, ".local", "share", "learnprogress")
	}
	return nil
}

func (c Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

func (c Config) ReminderSchedule() reminder.Config {
	return reminder.Config{
		Interval:  time.Duration(c.Reminder.IntervalMinutes) * time.Minute,
		StartHour: c.Reminder.StartHour,
		EndHour:   c.Reminder.EndHour,
		MaxTerms:  c.Reminder.MaxTerms,
	}
}
