package achievements

import "sort"

// Metric names a catalog rule may reference.
const (
	MetricLessonsStarted     = "lessons_started"
	MetricLessonsCompleted   = "lessons_completed"
	MetricOverallCompletion  = "overall_completion"
	MetricStreakDays         = "streak_days"
	MetricLongestStreak      = "longest_streak"
	MetricVocabularyTotal    = "vocabulary_total"
	MetricVocabularyMastered = "vocabulary_mastered"
	MetricExerciseAttempts   = "exercise_attempts"
	MetricExercisesSucceeded = "exercises_succeeded"
	MetricTotalStudyMinutes  = "total_study_minutes"
	MetricStudySessions      = "study_sessions"
)

var knownMetrics = map[string]struct{}{
	MetricLessonsStarted:     {},
	MetricLessonsCompleted:   {},
	MetricOverallCompletion:  {},
	MetricStreakDays:         {},
	MetricLongestStreak:      {},
	MetricVocabularyTotal:    {},
	MetricVocabularyMastered: {},
	MetricExerciseAttempts:   {},
	MetricExercisesSucceeded: {},
	MetricTotalStudyMinutes:  {},
	MetricStudySessions:      {},
}

func KnownMetric(name string) bool {
	_, ok := knownMetrics[name]
	return ok
}

func Metrics() []string {
	out := make([]string, 0, len(knownMetrics))
	for name := range knownMetrics {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// MetricSource supplies the current value of a named metric.
type MetricSource interface {
	Metric(name string) (float64, bool)
}

// Satisfied returns the definitions whose rule holds for src, in catalog order.
// Definitions listed in unlocked are skipped.
func (c *Catalog) Satisfied(src MetricSource, unlocked map[string]struct{}) []Definition {
	if c == nil || src == nil {
		return nil
	}
	var out []Definition
	for _, d := range c.Achievements {
		if _, done := unlocked[d.ID]; done {
			continue
		}
		v, ok := src.Metric(d.Rule.Metric)
		if !ok {
			continue
		}
		if v >= d.Rule.AtLeast {
			out = append(out, d)
		}
	}
	return out
}

func (c *Catalog) Find(id string) (Definition, bool) {
	if c == nil {
		return Definition{}, false
	}
	for _, d := range c.Achievements {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
