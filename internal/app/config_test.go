package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Environ: map[string]string{EnvPrefix + "DATA_DIR": t.TempDir()}})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != "sqlite" || cfg.StorageKey != "learning_progress" {
		t.Fatalf("unexpected defaults %#v", cfg)
	}
	if cfg.Debounce() != 400*time.Millisecond {
		t.Fatalf("expected 400ms debounce, got %s", cfg.Debounce())
	}
	if cfg.ReminderSchedule().Interval != time.Hour {
		t.Fatalf("expected hourly reminders, got %s", cfg.ReminderSchedule().Interval)
	}
}

func TestLoadLayersFileDotenvAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	yml := "backend: file\ndebounce_ms: 250\nreminder:\n  start_hour: 7\n  max_terms: 3\n"
	if err := os.WriteFile(cfgPath, []byte(yml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	dotPath := filepath.Join(dir, ".env")
	dot := "LEARNPROGRESS_DEBOUNCE_MS=300\nLEARNPROGRESS_STORAGE_KEY=from_dotenv\n"
	if err := os.WriteFile(dotPath, []byte(dot), 0o644); err != nil {
		t.Fatalf("write dotenv: %v", err)
	}

	cfg, err := Load(LoadOptions{
		ConfigPath: cfgPath,
		DotenvPath: dotPath,
		Environ: map[string]string{
			EnvPrefix + "DATA_DIR":          dir,
			EnvPrefix + "STORAGE_KEY":       "from_env",
			EnvPrefix + "REMINDER_END_HOUR": "20",
			EnvPrefix + "REDIS_PREFIX":      "custom:",
			"UNRELATED":                     "x",
		},
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Backend != "file" {
		t.Fatalf("expected backend from yaml, got %q", cfg.Backend)
	}
	if cfg.DebounceMS != 300 {
		t.Fatalf("expected dotenv to override yaml debounce, got %d", cfg.DebounceMS)
	}
	if cfg.StorageKey != "from_env" {
		t.Fatalf("expected environment to win over dotenv, got %q", cfg.StorageKey)
	}
	if cfg.Reminder.StartHour != 7 || cfg.Reminder.EndHour != 20 || cfg.Reminder.MaxTerms != 3 {
		t.Fatalf("unexpected reminder config %#v", cfg.Reminder)
	}
	if cfg.Redis.Prefix != "custom:" {
		t.Fatalf("expected nested env prefix, got %q", cfg.Redis.Prefix)
	}
}

func TestLoadMissingDotenvIsIgnored(t *testing.T) {
	dir := t.TempDir()
	_, err := Load(LoadOptions{
		DotenvPath: filepath.Join(dir, "absent.env"),
		Environ:    map[string]string{EnvPrefix + "DATA_DIR": dir},
	})
	if err != nil {
		t.Fatalf("expected missing .env to be ignored: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Backend = " MEM "
	cfg.DebounceMS = 0
	cfg.LogMode = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if cfg.Backend != "memory" || cfg.DebounceMS != 400 || cfg.LogMode != "dev" {
		t.Fatalf("expected normalized config, got %#v", cfg)
	}

	bad := map[string]func(*Config){
		"backend":  func(c *Config) { c.Backend = "postgres" },
		"redis":    func(c *Config) { c.Backend = "redis" },
		"log mode": func(c *Config) { c.LogMode = "verbose" },
		"hours":    func(c *Config) { c.Reminder.StartHour = 23; c.Reminder.EndHour = 1 },
	}
	for name, mutate := range bad {
		c := DefaultConfig()
		c.DataDir = t.TempDir()
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestLoadRejectsBadEnvValue(t *testing.T) {
	_, err := Load(LoadOptions{Environ: map[string]string{
		EnvPrefix + "DATA_DIR":    t.TempDir(),
		EnvPrefix + "DEBOUNCE_MS": "soon",
	}})
	if err == nil || !strings.Contains(err.Error(), "parse env") {
		t.Fatalf("expected env parse error, got %v", err)
	}
}
