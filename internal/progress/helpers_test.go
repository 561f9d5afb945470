package progress

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type memKV struct {
	mu      sync.Mutex
	data    map[string]string
	sets    int
	removes int
	getErr  error
	setErr  error
}

func newMemKV() *memKV { return &memKV{data: map[string]string{}} }

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.sets++
	return nil
}

func (m *memKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	m.removes++
	return nil
}

func (m *memKV) failSets(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

func (m *memKV) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

func (m *memKV) value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

var errUnavailable = errors.New("storage unavailable")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(t time.Time) *fakeClock { return &fakeClock{now: t} }

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordLogger) Info(msg string, _ ...any)  { r.add(msg) }
func (r *recordLogger) Error(msg string, _ ...any) { r.add(msg) }

func (r *recordLogger) add(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordLogger) has(msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if m == msg {
			return true
		}
	}
	return false
}

var baseTime = time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)

// newHydratedStore returns a hydrated store over an empty memKV with a long
// debounce so tests control writes through Flush.
func newHydratedStore(t *testing.T) (*Store, *memKV, *fakeClock) {
	t.Helper()
	kv := newMemKV()
	clock := newFakeClock(baseTime)
	s := New(kv, Options{Clock: clock.Now, Debounce: time.Hour})
	s.Hydrate(context.Background())
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s, kv, clock
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}
