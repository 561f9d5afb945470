package progress

import (
	"context"
	"sync"
	"time"

	"learnprogress/internal/achievements"
)

const (
	DefaultDebounce     = 400 * time.Millisecond
	defaultWriteTimeout = 5 * time.Second
)

type Options struct {
	Key      string
	Debounce time.Duration
	Clock    func() time.Time
	Logger   Logger
	Catalog  *achievements.Catalog
	// NewID mints study-session identifiers.
	NewID func() string
}

// Store owns the learner's progress records. Mutators never fail; storage errors
// are logged and absorbed.
type Store struct {
	kv       KV
	key      string
	debounce time.Duration
	clock    func() time.Time
	log      Logger
	catalog  *achievements.Catalog
	newID    func() string

	mu       sync.Mutex
	state    State
	hydrated bool
	dirty    bool
	closed   bool
	timer    *time.Timer
	session  *activeSession

	// writeMu orders blob writes so an older snapshot never lands after a newer one.
	writeMu sync.Mutex
}

var _ Tracker = (*Store)(nil)

func New(kv KV, opts Options) *Store {
	s := &Store{
		kv:       kv,
		key:      opts.Key,
		debounce: opts.Debounce,
		clock:    opts.Clock,
		log:      opts.Logger,
		catalog:  opts.Catalog,
		newID:    opts.NewID,
		state:    newState(),
	}
	if s.key == "" {
		s.key = DefaultStorageKey
	}
	if s.debounce <= 0 {
		s.debounce = DefaultDebounce
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.log == nil {
		s.log = nopLogger{}
	}
	if s.catalog == nil {
		s.catalog = achievements.Default()
	}
	if s.newID == nil {
		s.newID = newSessionID
	}
	return s
}

func (s *Store) now() time.Time { return s.clock().Round(0) }

// Hydrate loads the persisted blob once. Missing, unreadable or unparsable data
// leaves the store empty. Hydrated reports true afterwards in every case.
func (s *Store) Hydrate(ctx context.Context) {
	s.mu.Lock()
	if s.hydrated {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	loaded, ok := s.load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok {
		loaded = newState()
	}
	s.state = loaded
	s.refreshStreakLocked(s.now())
	s.hydrated = true
	s.log.Info("progress.hydrated",
		"key", s.key,
		"lessons", len(s.state.Lessons),
		"vocabulary", len(s.state.Vocabulary),
		"exercises", len(s.state.Exercises),
		"streak_days", s.state.StreakDays,
	)
}

func (s *Store) load(ctx context.Context) (State, bool) {
	if s.kv == nil {
		return State{}, false
	}
	raw, found, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.log.Error("progress.hydrate_failed", "key", s.key, "error", err)
		return State{}, false
	}
	if !found {
		s.log.Info("progress.hydrate_empty", "key", s.key)
		return State{}, false
	}
	st, err := Decode([]byte(raw))
	if err != nil {
		s.log.Error("progress.hydrate_parse_failed", "key", s.key, "error", err)
		return State{}, false
	}
	return st, true
}

func (s *Store) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// touchLocked marks the state dirty and re-arms the debounce timer. Before
// hydration nothing is scheduled.
func (s *Store) touchLocked() {
	if !s.hydrated || s.closed {
		return
	}
	s.dirty = true
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultWriteTimeout)
		defer cancel()
		if err := s.persist(ctx); err != nil {
			s.log.Error("progress.persist_failed", "key", s.key, "error", err)
		}
	})
}

func (s *Store) persist(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	b, err := Encode(s.state)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.dirty = false
	s.mu.Unlock()
	if s.kv == nil {
		return nil
	}
	if err := s.kv.Set(ctx, s.key, string(b)); err != nil {
		// Keep the change pending so the next mutation or Flush retries it.
		s.mu.Lock()
		s.dirty = true
		s.mu.Unlock()
		return err
	}
	return nil
}

// Flush writes a pending change immediately instead of waiting for the debounce.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.persist(ctx)
}

// Close flushes pending state; later mutations stay in memory only.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return s.Flush(ctx)
}

// ResetAll clears every record set and deletes the persisted blob.
func (s *Store) ResetAll(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.state = newState()
	s.session = nil
	s.dirty = false
	s.mu.Unlock()

	if s.kv == nil {
		return
	}
	if err := s.kv.Remove(ctx, s.key); err != nil {
		s.log.Error("progress.reset_remove_failed", "key", s.key, "error", err)
		return
	}
	s.log.Info("progress.reset", "key", s.key)
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Store) StreakDays() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.StreakDays
}
