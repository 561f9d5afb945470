package progress

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

func newSessionID() string { return uuid.NewString() }

type activeSession struct {
	startedAt  time.Time
	lessons    map[string]struct{}
	exercises  int
	vocabulary int
	scoreSum   float64
	scored     int
}

// StartStudySession opens a session clock. Starting while one is open restarts it.
func (s *Store) StartStudySession() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &activeSession{
		startedAt: s.now(),
		lessons:   map[string]struct{}{},
	}
}

// EndStudySession folds the open session into today's record, accumulating
// duration and counts. It reports false when no session was open.
func (s *Store) EndStudySession() (StudySession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return StudySession{}, false
	}
	cur := s.session
	s.session = nil

	now := s.now()
	minutes := int(math.Round(now.Sub(cur.startedAt).Minutes()))
	if minutes < 0 {
		minutes = 0
	}
	day := dayKey(now)
	rec, ok := s.state.StudySessions[day]
	if !ok {
		rec = StudySession{ID: s.newID(), Date: day}
	}
	rec.Duration += minutes
	rec.LessonsStudied += len(cur.lessons)
	rec.ExercisesCompleted += cur.exercises
	rec.VocabularyReviewed += cur.vocabulary
	if cur.scored > 0 {
		rec.Score = (rec.Score*float64(rec.ScoredAttempts) + cur.scoreSum) / float64(rec.ScoredAttempts+cur.scored)
		rec.ScoredAttempts += cur.scored
	}
	s.state.StudySessions[day] = rec
	s.touchLocked()
	return rec, true
}

func (s *Store) InStudySession() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session != nil
}

// StudySessions returns day records, oldest first.
func (s *Store) StudySessions() []StudySession {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StudySession, 0, len(s.state.StudySessions))
	for _, rec := range s.state.StudySessions {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
