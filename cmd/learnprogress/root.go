package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"learnprogress/internal/app"
	"learnprogress/internal/progress"
)

type rootFlags struct {
	configPath string
	dotenvPath string
	dataDir    string
	backend    string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "learnprogress",
		Short:         "Track lesson, vocabulary and exercise progress",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "YAML config file")
	pf.StringVar(&flags.dotenvPath, "env-file", ".env", "dotenv file loaded before the environment")
	pf.StringVar(&flags.dataDir, "data-dir", "", "override the data directory")
	pf.StringVar(&flags.backend, "backend", "", "override the storage backend (memory|file|sqlite|redis)")

	root.AddCommand(
		newStatusCmd(flags),
		newLessonCmd(flags),
		newVocabCmd(flags),
		newExerciseCmd(flags),
		newAchievementsCmd(flags),
		newImportCmd(flags),
		newExportCmd(flags),
		newResetCmd(flags),
		newRemindCmd(flags),
		newStudyCmd(flags),
	)
	return root
}

func (f *rootFlags) loadConfig() (app.Config, error) {
	cfg, err := app.Load(app.LoadOptions{ConfigPath: f.configPath, DotenvPath: f.dotenvPath})
	if err != nil {
		return app.Config{}, err
	}
	if f.dataDir != "" {
		cfg.DataDir = f.dataDir
	}
	if f.backend != "" {
		cfg.Backend = f.backend
	}
	if err := cfg.Validate(); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

// withApp opens the app, runs fn and closes it, flushing pending progress.
func (f *rootFlags) withApp(ctx context.Context, fn func(*app.App) error) error {
	cfg, err := f.loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	runErr := fn(a)
	if err := a.Close(context.WithoutCancel(ctx)); err != nil && runErr == nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return runErr
}

// mutate runs fn inside a study session so today's activity counts accumulate,
// then reports any achievement it unlocked.
func (f *rootFlags) mutate(cmd *cobra.Command, fn func(*progress.Store) error) error {
	return f.withApp(cmd.Context(), func(a *app.App) error {
		s := a.Progress()
		s.StartStudySession()
		err := fn(s)
		s.EndStudySession()
		if err != nil {
			return err
		}
		printUnlocked(cmd.OutOrStdout(), s.CheckAndUnlockAchievements())
		return nil
	})
}

func printUnlocked(w io.Writer, unlocked []progress.Achievement) {
	for _, a := range unlocked {
		fmt.Fprintf(w, "Achievement unlocked: %s - %s\n", a.Title, a.Description)
	}
}
