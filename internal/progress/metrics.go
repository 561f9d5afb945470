package progress

import (
	"math"
	"time"
)

// Metrics derives the aggregate values from the current records.
func (s *Store) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return computeMetrics(s.state, s.now())
}

func (s *Store) OverallCompletion() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return overallCompletion(s.state.Lessons)
}

func (s *Store) VocabularyMastered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return vocabularyMastered(s.state.Vocabulary)
}

func overallCompletion(lessons map[string]LessonProgress) int {
	if len(lessons) == 0 {
		return 0
	}
	sum := 0
	for _, l := range lessons {
		sum += l.Percent
	}
	return int(math.Round(float64(sum) / float64(len(lessons))))
}

func vocabularyMastered(vocab map[string]VocabularyStat) int {
	n := 0
	for _, v := range vocab {
		if v.MasteryLevel >= masteredThreshold {
			n++
		}
	}
	return n
}

func computeMetrics(st State, now time.Time) Metrics {
	m := Metrics{
		OverallCompletion:    overallCompletion(st.Lessons),
		LessonsStarted:       len(st.Lessons),
		StreakDays:           st.StreakDays,
		CurrentStreak:        st.StreakDays,
		LongestStreak:        st.LongestStreak,
		StudySessions:        len(st.StudySessions),
		VocabularyTotal:      len(st.Vocabulary),
		VocabularyMastered:   vocabularyMastered(st.Vocabulary),
		AchievementsUnlocked: len(st.Achievements),
	}
	if m.LongestStreak < m.StreakDays {
		m.LongestStreak = m.StreakDays
	}
	for _, l := range st.Lessons {
		if l.Completed {
			m.LessonsCompleted++
		}
	}
	for _, v := range st.Vocabulary {
		if !v.NextReviewDate.After(now) {
			m.VocabularyDue++
		}
	}
	for _, e := range st.Exercises {
		m.ExerciseAttempts += e.Attempts
		m.ExercisesSucceeded += e.Successes
	}
	if m.ExerciseAttempts > 0 {
		m.ExerciseAccuracy = float64(m.ExercisesSucceeded) / float64(m.ExerciseAttempts)
	}
	for _, rec := range st.StudySessions {
		m.TotalStudyTime += rec.Duration
	}
	if m.StudySessions > 0 {
		m.AverageSessionTime = int(math.Round(float64(m.TotalStudyTime) / float64(m.StudySessions)))
	}
	return m
}
