package progress

import (
	"encoding/json"
	"fmt"
)

const (
	DefaultStorageKey = "learning_progress"

	// SchemaVersion 1 carried lessons, vocabulary, exercises and streakDays with no
	// version field. Version 2 adds achievements, study sessions and streak bookkeeping.
	SchemaVersion = 2
)

type blob struct {
	Version int `json:"version,omitempty"`
	State
}

func Encode(s State) ([]byte, error) {
	fillDefaults(&s)
	b, err := json.Marshal(blob{Version: SchemaVersion, State: s})
	if err != nil {
		return nil, fmt.Errorf("encode progress: %w", err)
	}
	return b, nil
}

// Decode parses a persisted blob of any supported version. Missing record sets
// come back empty rather than nil.
func Decode(b []byte) (State, error) {
	var in blob
	if err := json.Unmarshal(b, &in); err != nil {
		return State{}, fmt.Errorf("decode progress: %w", err)
	}
	if in.Version > SchemaVersion {
		return State{}, fmt.Errorf("decode progress: unsupported schema version %d (max supported %d)", in.Version, SchemaVersion)
	}
	s := in.State
	fillDefaults(&s)
	normalize(&s)
	return s, nil
}

func fillDefaults(s *State) {
	if s.Lessons == nil {
		s.Lessons = map[string]LessonProgress{}
	}
	if s.Vocabulary == nil {
		s.Vocabulary = map[string]VocabularyStat{}
	}
	if s.Exercises == nil {
		s.Exercises = map[string]ExerciseResult{}
	}
	if s.Achievements == nil {
		s.Achievements = []Achievement{}
	}
	if s.StudySessions == nil {
		s.StudySessions = map[string]StudySession{}
	}
}

// normalize re-applies record invariants to data that may have been written by
// an older or foreign writer.
func normalize(s *State) {
	for id, l := range s.Lessons {
		if l.LessonID == "" {
			l.LessonID = id
		}
		l.Percent = clampPercent(l.Percent)
		if l.Completed {
			l.Percent = 100
		}
		s.Lessons[id] = l
	}
	for term, v := range s.Vocabulary {
		if v.Term == "" {
			v.Term = term
		}
		s.Vocabulary[term] = v
	}
	for id, e := range s.Exercises {
		if e.ID == "" {
			e.ID = id
		}
		if e.Successes > e.Attempts {
			e.Successes = e.Attempts
		}
		s.Exercises[id] = e
	}
	if s.StreakDays < 0 {
		s.StreakDays = 0
	}
	if s.LongestStreak < s.StreakDays {
		s.LongestStreak = s.StreakDays
	}
}
