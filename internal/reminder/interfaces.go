package reminder

import (
	"context"
	"time"

	"learnprogress/internal/progress"
)

// Source supplies the terms awaiting review.
type Source interface {
	DueVocabulary(now time.Time) []progress.VocabularyStat
}

type Notifier interface {
	Notify(ctx context.Context, r Reminder) error
}

type Logger interface {
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}
