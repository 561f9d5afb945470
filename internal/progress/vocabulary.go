package progress

import (
	"math"
	"sort"
	"time"
)

const (
	masteredThreshold = 80

	// Review intervals in days by outcome.
	reviewAfterStrong  = 7
	reviewAfterCorrect = 3
	reviewAfterMiss    = 1
	strongFamiliarity  = 0.8
)

func familiarity(correct, incorrect int) float64 {
	total := correct + incorrect
	if total <= 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

func masteryFromFamiliarity(f float64) int {
	m := int(math.Round(f * 100))
	if m > 100 {
		return 100
	}
	if m < 0 {
		return 0
	}
	return m
}

// nextReview schedules the following review: a week out for a correct answer on a
// well-known term, three days for any other correct answer, tomorrow after a miss.
func nextReview(now time.Time, correct bool, fam float64) time.Time {
	switch {
	case correct && fam > strongFamiliarity:
		return now.AddDate(0, 0, reviewAfterStrong)
	case correct:
		return now.AddDate(0, 0, reviewAfterCorrect)
	default:
		return now.AddDate(0, 0, reviewAfterMiss)
	}
}

// RecordVocabularyResult counts one answer for term. A non-nil definition replaces
// the stored one; nil keeps it.
func (s *Store) RecordVocabularyResult(term string, correct bool, definition *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	v, ok := s.state.Vocabulary[term]
	if !ok {
		v = VocabularyStat{Term: term}
	}
	if definition != nil {
		v.Definition = *definition
	}
	if correct {
		v.Correct++
	} else {
		v.Incorrect++
	}
	v.Familiarity = familiarity(v.Correct, v.Incorrect)
	v.MasteryLevel = masteryFromFamiliarity(v.Familiarity)
	v.LastReviewedAt = now
	v.NextReviewDate = nextReview(now, correct, v.Familiarity)
	s.state.Vocabulary[term] = v
	if s.session != nil {
		s.session.vocabulary++
	}
	s.touchLocked()
}

// AddVocabularyTerm creates term if needed and sets any non-empty detail.
// A new term is due for review immediately.
func (s *Store) AddVocabularyTerm(term string, details TermDetails) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.state.Vocabulary[term]
	if !ok {
		v = VocabularyStat{Term: term, NextReviewDate: s.now()}
	}
	if details.Definition != "" {
		v.Definition = details.Definition
	}
	if details.Difficulty != "" {
		v.Difficulty = details.Difficulty
	}
	if details.Context != "" {
		v.Context = details.Context
	}
	s.state.Vocabulary[term] = v
	s.touchLocked()
}

// UpdateVocabularyMastery overrides the mastery level directly. The counters are
// untouched, so the next recorded result recomputes mastery from them.
func (s *Store) UpdateVocabularyMastery(term string, masteryLevel int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.state.Vocabulary[term]
	if !ok {
		v = VocabularyStat{Term: term, NextReviewDate: s.now()}
	}
	v.MasteryLevel = clampPercent(masteryLevel)
	s.state.Vocabulary[term] = v
	s.touchLocked()
}

func (s *Store) MarkVocabularyForReview(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.state.Vocabulary[term]
	if !ok {
		v = VocabularyStat{Term: term}
	}
	v.NextReviewDate = s.now()
	s.state.Vocabulary[term] = v
	s.touchLocked()
}

func (s *Store) Vocabulary(term string) (VocabularyStat, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.state.Vocabulary[term]
	return v, ok
}

// VocabularyList returns every term ordered alphabetically.
func (s *Store) VocabularyList() []VocabularyStat {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]VocabularyStat, 0, len(s.state.Vocabulary))
	for _, v := range s.state.Vocabulary {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Term < out[j].Term })
	return out
}

// DueVocabulary lists terms whose review date is not after now: most overdue
// first, then weakest mastery, then by term.
func (s *Store) DueVocabulary(now time.Time) []VocabularyStat {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []VocabularyStat
	for _, v := range s.state.Vocabulary {
		if !v.NextReviewDate.After(now) {
			due = append(due, v)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		a, b := due[i], due[j]
		if !a.NextReviewDate.Equal(b.NextReviewDate) {
			return a.NextReviewDate.Before(b.NextReviewDate)
		}
		if a.MasteryLevel != b.MasteryLevel {
			return a.MasteryLevel < b.MasteryLevel
		}
		return a.Term < b.Term
	})
	return due
}
