package reminder

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"learnprogress/internal/progress"
)

type staticSource []progress.VocabularyStat

func (s staticSource) DueVocabulary(time.Time) []progress.VocabularyStat { return s }

type captureNotifier struct {
	mu   sync.Mutex
	sent []Reminder
	err  error
}

func (c *captureNotifier) Notify(_ context.Context, r Reminder) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, r)
	return nil
}

func (c *captureNotifier) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func terms(names ...string) staticSource {
	out := make(staticSource, 0, len(names))
	for _, n := range names {
		out = append(out, progress.VocabularyStat{Term: n})
	}
	return out
}

func at(hour int) func() time.Time {
	return func() time.Time { return time.Date(2024, 3, 14, hour, 15, 0, 0, time.UTC) }
}

func TestRunOnceSendsDueTerms(t *testing.T) {
	n := &captureNotifier{}
	cfg := DefaultConfig()
	cfg.MaxTerms = 2
	s, err := New(cfg, terms("a", "b", "c"), n, WithClock(at(10)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	r, sent, err := s.RunOnce(context.Background())
	if err != nil || !sent {
		t.Fatalf("expected reminder sent, got sent=%v err=%v", sent, err)
	}
	if r.Due != 3 || len(r.Terms) != 2 || r.Terms[0] != "a" {
		t.Fatalf("unexpected reminder %#v", r)
	}
}

func TestRunOnceSkipsOutsideHoursAndEmpty(t *testing.T) {
	n := &captureNotifier{}
	s, _ := New(DefaultConfig(), terms("a"), n, WithClock(at(3)))
	if _, sent, _ := s.RunOnce(context.Background()); sent {
		t.Fatalf("expected no reminder at 03:00")
	}
	s, _ = New(DefaultConfig(), terms(), n, WithClock(at(12)))
	if _, sent, _ := s.RunOnce(context.Background()); sent {
		t.Fatalf("expected no reminder with nothing due")
	}
	if n.count() != 0 {
		t.Fatalf("expected no notifications, got %d", n.count())
	}
}

func TestRunOnceReportsNotifierError(t *testing.T) {
	boom := errors.New("boom")
	s, _ := New(DefaultConfig(), terms("a"), &captureNotifier{err: boom}, WithClock(at(12)))
	if _, sent, err := s.RunOnce(context.Background()); sent || !errors.Is(err, boom) {
		t.Fatalf("expected wrapped notifier error, got sent=%v err=%v", sent, err)
	}
}

func TestConfigValidate(t *testing.T) {
	bad := []Config{
		{Interval: 0, StartHour: 8, EndHour: 22, MaxTerms: 1},
		{Interval: time.Hour, StartHour: -1, EndHour: 22, MaxTerms: 1},
		{Interval: time.Hour, StartHour: 23, EndHour: 8, MaxTerms: 1},
		{Interval: time.Hour, StartHour: 8, EndHour: 22, MaxTerms: 0},
	}
	for i, c := range bad {
		if err := c.Validate(); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestStartRunsJobUntilCancelled(t *testing.T) {
	n := &captureNotifier{}
	s, err := New(DefaultConfig(), terms("a"), n, WithClock(at(12)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := s.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for n.count() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n.count() == 0 {
		t.Fatalf("expected scheduled job to run on start")
	}
	s.Stop()
}

func TestStopReleasesWatcherWithoutCancel(t *testing.T) {
	s, err := New(DefaultConfig(), terms("a"), &captureNotifier{}, WithClock(at(12)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	s.Stop()
	s.Stop()
	select {
	case <-s.stopped:
	default:
		t.Fatalf("expected stop signal closed after Stop")
	}
	if s.cron.IsRunning() {
		t.Fatalf("expected cron stopped")
	}
}

func TestWriterNotifierFormatsLine(t *testing.T) {
	var buf bytes.Buffer
	r := Reminder{At: time.Date(2024, 3, 14, 9, 5, 0, 0, time.UTC), Due: 4, Terms: []string{"hola", "gato"}}
	if err := (WriterNotifier{W: &buf}).Notify(context.Background(), r); err != nil {
		t.Fatalf("notify: %v", err)
	}
	got := buf.String()
	if !strings.HasPrefix(got, "2024-03-14 09:05  4 term(s) due") || !strings.Contains(got, "hola, gato (+2 more)") {
		t.Fatalf("unexpected line %q", got)
	}
}
