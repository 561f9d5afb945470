package state

import (
	"context"
	"errors"
	"testing"
)

// runContract exercises the behaviour every backend shares.
func runContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key to report not found, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "learning_progress", `{"version":2}`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "learning_progress", `{"version":2,"streakDays":3}`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, ok, err := s.Get(ctx, "learning_progress")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != `{"version":2,"streakDays":3}` {
		t.Fatalf("expected latest value, got %q", got)
	}
	if err := s.Remove(ctx, "learning_progress"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "learning_progress"); ok {
		t.Fatalf("expected key removed")
	}
	if err := s.Remove(ctx, "learning_progress"); err != nil {
		t.Fatalf("remove of missing key should succeed: %v", err)
	}
}

func TestMemoryContract(t *testing.T) {
	s := NewMemory()
	runContract(t, s)
	_ = s.Close()
	if err := s.Set(context.Background(), "k", "v"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed after close, got %v", err)
	}
}
