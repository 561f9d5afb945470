package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

const (
	DefaultInterval  = time.Hour
	DefaultStartHour = 8
	DefaultEndHour   = 22
	DefaultMaxTerms  = 5
)

type Config struct {
	Interval time.Duration
	// Reminders fire only when StartHour <= hour <= EndHour in the clock's location.
	StartHour int
	EndHour   int
	MaxTerms  int
}

func DefaultConfig() Config {
	return Config{
		Interval:  DefaultInterval,
		StartHour: DefaultStartHour,
		EndHour:   DefaultEndHour,
		MaxTerms:  DefaultMaxTerms,
	}
}

func (c Config) Validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("reminder interval must be positive")
	}
	if c.StartHour < 0 || c.StartHour > 23 || c.EndHour < 0 || c.EndHour > 23 {
		return fmt.Errorf("reminder hours must be within 0-23")
	}
	if c.StartHour > c.EndHour {
		return fmt.Errorf("reminder start hour %d is after end hour %d", c.StartHour, c.EndHour)
	}
	if c.MaxTerms <= 0 {
		return fmt.Errorf("reminder max terms must be positive")
	}
	return nil
}

// Reminder is one nudge about vocabulary awaiting review.
type Reminder struct {
	At    time.Time
	Due   int
	Terms []string
}

type Scheduler struct {
	cfg      Config
	src      Source
	notifier Notifier
	log      Logger
	clock    func() time.Time
	cron     *gocron.Scheduler
	stopOnce sync.Once
	stopped  chan struct{}
}

type Option func(*Scheduler)

func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) { s.clock = clock }
}

func WithLogger(log Logger) Option {
	return func(s *Scheduler) { s.log = log }
}

func New(cfg Config, src Source, notifier Notifier, opts ...Option) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Scheduler{
		cfg:      cfg,
		src:      src,
		notifier: notifier,
		log:      nopLogger{},
		clock:    time.Now,
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cron = gocron.NewScheduler(s.clock().Location())
	return s, nil
}

// Start runs the check every Interval until Stop or ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.Every(s.cfg.Interval).Do(func() {
		if _, _, err := s.RunOnce(ctx); err != nil {
			s.log.Error("reminder.notify_failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule reminder: %w", err)
	}
	s.cron.StartAsync()
	s.log.Info("reminder.started", "interval", s.cfg.Interval.String(),
		"start_hour", s.cfg.StartHour, "end_hour", s.cfg.EndHour)
	go func() {
		select {
		case <-ctx.Done():
			s.Stop()
		case <-s.stopped:
		}
	}()
	return nil
}

// Stop halts the job. Calling it more than once is safe.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopped)
		if s.cron.IsRunning() {
			s.cron.Stop()
		}
		s.log.Info("reminder.stopped")
	})
}

// RunOnce checks for due vocabulary and notifies when inside active hours. It
// reports whether a reminder was sent.
func (s *Scheduler) RunOnce(ctx context.Context) (Reminder, bool, error) {
	now := s.clock()
	if h := now.Hour(); h < s.cfg.StartHour || h > s.cfg.EndHour {
		s.log.Info("reminder.outside_hours", "hour", h)
		return Reminder{}, false, nil
	}
	due := s.src.DueVocabulary(now)
	if len(due) == 0 {
		return Reminder{}, false, nil
	}
	r := Reminder{At: now, Due: len(due)}
	for i, v := range due {
		if i == s.cfg.MaxTerms {
			break
		}
		r.Terms = append(r.Terms, v.Term)
	}
	if err := s.notifier.Notify(ctx, r); err != nil {
		return r, false, fmt.Errorf("notify: %w", err)
	}
	s.log.Info("reminder.sent", "due", r.Due)
	return r, true, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
