package progress

import (
	"context"
	"time"
)

// KV is the key-value storage collaborator holding the serialized state.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

type Logger interface {
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Tracker is the surface screens and tools consume.
type Tracker interface {
	Hydrated() bool

	MarkLessonStarted(lessonID, courseID string)
	UpdateLessonProgress(lessonID string, percent int)
	MarkLessonCompleted(lessonID string)
	AddLessonWatchTime(lessonID string, seconds int)
	BookmarkLesson(lessonID string, bookmarked bool)
	AddLessonNote(lessonID, note string)

	RecordVocabularyResult(term string, correct bool, definition *string)
	AddVocabularyTerm(term string, details TermDetails)
	UpdateVocabularyMastery(term string, masteryLevel int)
	MarkVocabularyForReview(term string)

	RecordExerciseAttempt(id, typ string, success bool, score *float64, timeSpent *int)

	CheckAndUnlockAchievements() []Achievement
	StartStudySession()
	EndStudySession() (StudySession, bool)
	ResetAll(ctx context.Context)

	Lesson(lessonID string) (LessonProgress, bool)
	Vocabulary(term string) (VocabularyStat, bool)
	Exercise(id string) (ExerciseResult, bool)
	DueVocabulary(now time.Time) []VocabularyStat
	Metrics() Metrics
	Snapshot() State
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
