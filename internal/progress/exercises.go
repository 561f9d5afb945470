package progress

import (
	"math"
	"sort"
)

// RecordExerciseAttempt counts one attempt. Optional score feeds best/average; a
// NaN or infinite score counts as no score and a non-positive timeSpent is ignored.
func (s *Store) RecordExerciseAttempt(id, typ string, success bool, score *float64, timeSpent *int) {
	if score != nil && (math.IsNaN(*score) || math.IsInf(*score, 0)) {
		score = nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.state.Exercises[id]
	if !ok {
		e = ExerciseResult{ID: id}
	}
	if typ != "" {
		e.Type = typ
	}
	e.Attempts++
	if success {
		e.Successes++
	}
	e.LastAttemptAt = s.now()
	if score != nil {
		sc := *score
		if e.ScoredAttempts == 0 || sc > e.BestScore {
			e.BestScore = sc
		}
		e.AverageScore = (e.AverageScore*float64(e.ScoredAttempts) + sc) / float64(e.ScoredAttempts+1)
		e.ScoredAttempts++
	}
	if timeSpent != nil && *timeSpent > 0 {
		e.TimeSpent += *timeSpent
	}
	s.state.Exercises[id] = e
	if s.session != nil {
		s.session.exercises++
		if score != nil {
			s.session.scoreSum += *score
			s.session.scored++
		}
	}
	s.touchLocked()
}

func (s *Store) Exercise(id string) (ExerciseResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.state.Exercises[id]
	return e, ok
}

func (s *Store) Exercises() []ExerciseResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ExerciseResult, 0, len(s.state.Exercises))
	for _, e := range s.state.Exercises {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
