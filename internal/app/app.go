package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"learnprogress/internal/achievements"
	"learnprogress/internal/progress"
	"learnprogress/internal/reminder"
	"learnprogress/internal/state"
	"learnprogress/internal/telemetry"
)

// App owns the process-wide progress store and its collaborators.
type App struct {
	cfg Config

	logger  *telemetry.Logger
	kv      state.Store
	catalog *achievements.Catalog
	store   *progress.Store

	instanceID string
}

// New opens the configured backend and hydrates the progress store.
func New(ctx context.Context, cfg Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewLogger(cfg.LogMode, cfg.LogPath)
	if err != nil {
		return nil, err
	}

	catalog, err := achievements.Load(cfg.CatalogPath)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	kv, err := openBackend(ctx, cfg)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}

	a := &App{
		cfg:        cfg,
		logger:     logger,
		kv:         kv,
		catalog:    catalog,
		instanceID: uuid.NewString(),
	}
	a.logger = logger.With("instance_id", a.instanceID)
	a.store = progress.New(kv, progress.Options{
		Key:      cfg.StorageKey,
		Debounce: cfg.Debounce(),
		Logger:   a.logger,
		Catalog:  catalog,
	})
	a.logger.Info("app.start", "backend", cfg.Backend, "data_dir", cfg.DataDir, "achievements", len(catalog.Achievements))
	a.store.Hydrate(ctx)
	return a, nil
}

func openBackend(ctx context.Context, cfg Config) (state.Store, error) {
	switch cfg.Backend {
	case state.BackendMemory:
		return state.NewMemory(), nil
	case state.BackendFile:
		return state.NewFile(filepath.Join(cfg.DataDir, "state"))
	case state.BackendSQLite:
		s, err := state.NewSQLite(filepath.Join(cfg.DataDir, "progress.db"))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		return s, nil
	case state.BackendRedis:
		return state.NewRedis(ctx, state.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
	}
	return nil, fmt.Errorf("invalid storage backend %q", cfg.Backend)
}

func (a *App) Config() Config                 { return a.cfg }
func (a *App) Progress() *progress.Store      { return a.store }
func (a *App) Catalog() *achievements.Catalog { return a.catalog }
func (a *App) Logger() *telemetry.Logger      { return a.logger }

// NewReminder builds a reminder scheduler over the progress store.
func (a *App) NewReminder(n reminder.Notifier) (*reminder.Scheduler, error) {
	return reminder.New(a.cfg.ReminderSchedule(), a.store, n, reminder.WithLogger(a.logger))
}

// Close flushes pending progress and releases the backend.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	if a.store != nil {
		if err := a.store.Close(ctx); err != nil {
			a.logger.Warn("app.flush_failed", "error", err)
			firstErr = err
		}
	}
	if a.kv != nil {
		if err := a.kv.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.logger.Info("app.stop")
	_ = a.logger.Close()
	return firstErr
}
