package state

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileContract(t *testing.T) {
	s, err := NewFile(filepath.Join(t.TempDir(), "nested", "state"))
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	runContract(t, s)
}

func TestFileLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(dir)
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	if err := s.Set(context.Background(), "learning_progress", "{}"); err != nil {
		t.Fatalf("set: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "learning_progress.json" {
		t.Fatalf("expected only the blob file, got %v", entries)
	}
}

func TestFileRejectsPathKeys(t *testing.T) {
	s, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
		if err := s.Set(context.Background(), key, "x"); !errors.Is(err, ErrInvalidKey) {
			t.Fatalf("expected ErrInvalidKey for %q, got %v", key, err)
		}
	}
}

func TestFileClosed(t *testing.T) {
	s, err := NewFile(t.TempDir())
	if err != nil {
		t.Fatalf("new file store: %v", err)
	}
	_ = s.Close()
	if _, _, err := s.Get(context.Background(), "k"); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
