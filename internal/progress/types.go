package progress

import (
	"time"

	"learnprogress/internal/achievements"
)

type LessonProgress struct {
	LessonID          string    `json:"lessonId"`
	CourseID          string    `json:"courseId,omitempty"`
	Completed         bool      `json:"completed"`
	StartedAt         time.Time `json:"startedAt,omitzero"`
	CompletedAt       time.Time `json:"completedAt,omitzero"`
	Percent           int       `json:"percent"`
	LastInteractionAt time.Time `json:"lastInteractionAt"`
	WatchTime         int       `json:"watchTime,omitempty"`
	Attempts          int       `json:"attempts,omitempty"`
	Bookmarked        bool      `json:"bookmarked"`
	Notes             string    `json:"notes"`
}

type VocabularyStat struct {
	Term           string    `json:"term"`
	Definition     string    `json:"definition"`
	Familiarity    float64   `json:"familiarity"`
	Correct        int       `json:"correct"`
	Incorrect      int       `json:"incorrect"`
	MasteryLevel   int       `json:"masteryLevel"`
	LastReviewedAt time.Time `json:"lastReviewedAt,omitzero"`
	NextReviewDate time.Time `json:"nextReviewDate"`
	Difficulty     string    `json:"difficulty,omitempty"`
	Context        string    `json:"context,omitempty"`
}

// TermDetails carries the optional descriptive fields of a vocabulary term.
type TermDetails struct {
	Definition string
	Difficulty string
	Context    string
}

type ExerciseResult struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	Attempts       int       `json:"attempts"`
	Successes      int       `json:"successes"`
	LastAttemptAt  time.Time `json:"lastAttemptAt"`
	BestScore      float64   `json:"bestScore,omitzero"`
	AverageScore   float64   `json:"averageScore,omitzero"`
	ScoredAttempts int       `json:"scoredAttempts,omitempty"`
	TimeSpent      int       `json:"timeSpent,omitempty"`
}

type Category = achievements.Category

type Achievement struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	UnlockedAt  time.Time `json:"unlockedAt"`
	Category    Category  `json:"category"`
}

// StudySession aggregates one calendar day of activity.
type StudySession struct {
	ID                 string  `json:"id"`
	Date               string  `json:"date"`
	Duration           int     `json:"duration"`
	LessonsStudied     int     `json:"lessonsStudied"`
	ExercisesCompleted int     `json:"exercisesCompleted"`
	VocabularyReviewed int     `json:"vocabularyReviewed"`
	Score              float64 `json:"score,omitzero"`
	ScoredAttempts     int     `json:"scoredAttempts,omitempty"`
}

// State is the full aggregate owned by a Store.
type State struct {
	Lessons       map[string]LessonProgress `json:"lessons"`
	Vocabulary    map[string]VocabularyStat `json:"vocabulary"`
	Exercises     map[string]ExerciseResult `json:"exercises"`
	StreakDays    int                       `json:"streakDays"`
	LongestStreak int                       `json:"longestStreak"`
	StreakDay     string                    `json:"streakDay,omitempty"`
	Achievements  []Achievement             `json:"achievements"`
	StudySessions map[string]StudySession   `json:"studySessions"`
}

func newState() State {
	return State{
		Lessons:       map[string]LessonProgress{},
		Vocabulary:    map[string]VocabularyStat{},
		Exercises:     map[string]ExerciseResult{},
		Achievements:  []Achievement{},
		StudySessions: map[string]StudySession{},
	}
}

func (s State) clone() State {
	out := State{
		Lessons:       make(map[string]LessonProgress, len(s.Lessons)),
		Vocabulary:    make(map[string]VocabularyStat, len(s.Vocabulary)),
		Exercises:     make(map[string]ExerciseResult, len(s.Exercises)),
		StreakDays:    s.StreakDays,
		LongestStreak: s.LongestStreak,
		StreakDay:     s.StreakDay,
		Achievements:  append([]Achievement{}, s.Achievements...),
		StudySessions: make(map[string]StudySession, len(s.StudySessions)),
	}
	for k, v := range s.Lessons {
		out.Lessons[k] = v
	}
	for k, v := range s.Vocabulary {
		out.Vocabulary[k] = v
	}
	for k, v := range s.Exercises {
		out.Exercises[k] = v
	}
	for k, v := range s.StudySessions {
		out.StudySessions[k] = v
	}
	return out
}

// Metrics holds the store-wide derived values. Nothing here is stored; it is
// recomputed from the record maps on every call.
type Metrics struct {
	OverallCompletion    int
	LessonsStarted       int
	LessonsCompleted     int
	StreakDays           int
	CurrentStreak        int
	LongestStreak        int
	TotalStudyTime       int
	AverageSessionTime   int
	StudySessions        int
	VocabularyTotal      int
	VocabularyMastered   int
	VocabularyDue        int
	ExerciseAttempts     int
	ExercisesSucceeded   int
	ExerciseAccuracy     float64
	AchievementsUnlocked int
}

// Metric exposes m to achievement rules.
func (m Metrics) Metric(name string) (float64, bool) {
	switch name {
	case achievements.MetricLessonsStarted:
		return float64(m.LessonsStarted), true
	case achievements.MetricLessonsCompleted:
		return float64(m.LessonsCompleted), true
	case achievements.MetricOverallCompletion:
		return float64(m.OverallCompletion), true
	case achievements.MetricStreakDays:
		return float64(m.StreakDays), true
	case achievements.MetricLongestStreak:
		return float64(m.LongestStreak), true
	case achievements.MetricVocabularyTotal:
		return float64(m.VocabularyTotal), true
	case achievements.MetricVocabularyMastered:
		return float64(m.VocabularyMastered), true
	case achievements.MetricExerciseAttempts:
		return float64(m.ExerciseAttempts), true
	case achievements.MetricExercisesSucceeded:
		return float64(m.ExercisesSucceeded), true
	case achievements.MetricTotalStudyMinutes:
		return float64(m.TotalStudyTime), true
	case achievements.MetricStudySessions:
		return float64(m.StudySessions), true
	}
	return 0, false
}
