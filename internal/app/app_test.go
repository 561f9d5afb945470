package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"learnprogress/internal/reminder"
)

func testConfig(t *testing.T, backend string) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Backend = backend
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	return cfg
}

func TestProgressSurvivesRestart(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		cfg := testConfig(t, backend)
		ctx := context.Background()

		a, err := New(ctx, cfg)
		if err != nil {
			t.Fatalf("%s: new app: %v", backend, err)
		}
		a.Progress().MarkLessonStarted("intro", "spanish-1")
		a.Progress().UpdateLessonProgress("intro", 60)
		a.Progress().RecordVocabularyResult("hola", true, nil)
		if err := a.Close(ctx); err != nil {
			t.Fatalf("%s: close: %v", backend, err)
		}

		b, err := New(ctx, cfg)
		if err != nil {
			t.Fatalf("%s: reopen: %v", backend, err)
		}
		l, ok := b.Progress().Lesson("intro")
		if !ok || l.Percent != 60 || l.CourseID != "spanish-1" {
			t.Fatalf("%s: expected lesson after restart, got %#v", backend, l)
		}
		if _, ok := b.Progress().Vocabulary("hola"); !ok {
			t.Fatalf("%s: expected vocabulary after restart", backend)
		}
		_ = b.Close(ctx)
	}
}

func TestNewWritesLogFile(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.LogMode = "prod"
	cfg.LogPath = filepath.Join(cfg.DataDir, "app.log")
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	_ = a.Close(context.Background())

	b, err := os.ReadFile(cfg.LogPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(b)
	for _, want := range []string{`"msg":"app.start"`, `"msg":"progress.hydrated"`, `"instance_id"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in log, got %s", want, out)
		}
	}
}

func TestNewRejectsMissingCatalog(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.CatalogPath = filepath.Join(cfg.DataDir, "missing.yaml")
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatalf("expected error for missing catalog")
	}
}

func TestNewReminderUsesStore(t *testing.T) {
	cfg := testConfig(t, "memory")
	cfg.Reminder.StartHour = 0
	cfg.Reminder.EndHour = 23
	a, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer func() { _ = a.Close(context.Background()) }()
	a.Progress().MarkVocabularyForReview("gato")

	var buf bytes.Buffer
	r, err := a.NewReminder(reminder.WriterNotifier{W: &buf})
	if err != nil {
		t.Fatalf("new reminder: %v", err)
	}
	if _, sent, err := r.RunOnce(context.Background()); err != nil || !sent {
		t.Fatalf("expected reminder, sent=%v err=%v", sent, err)
	}
	if !strings.Contains(buf.String(), "gato") {
		t.Fatalf("expected due term in reminder, got %q", buf.String())
	}
}
