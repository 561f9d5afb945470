package progress

import (
	"sort"
	"strings"
)

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// MarkLessonStarted creates the lesson record on first sight. An existing record
// is left untouched.
func (s *Store) MarkLessonStarted(lessonID, courseID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.Lessons[lessonID]; ok {
		return
	}
	now := s.now()
	s.state.Lessons[lessonID] = LessonProgress{
		LessonID:          lessonID,
		CourseID:          courseID,
		StartedAt:         now,
		LastInteractionAt: now,
	}
	s.lessonTouchedLocked(lessonID)
}

func (s *Store) UpdateLessonProgress(lessonID string, percent int) {
	s.updateLesson(lessonID, func(l *LessonProgress) {
		if l.Completed {
			return
		}
		l.Percent = clampPercent(percent)
	})
}

// MarkLessonCompleted is idempotent: the first completion time is kept.
func (s *Store) MarkLessonCompleted(lessonID string) {
	s.updateLesson(lessonID, func(l *LessonProgress) {
		if l.CompletedAt.IsZero() {
			l.CompletedAt = l.LastInteractionAt
		}
		l.Completed = true
		l.Percent = 100
		l.Attempts++
	})
}

func (s *Store) AddLessonWatchTime(lessonID string, seconds int) {
	if seconds <= 0 {
		return
	}
	s.updateLesson(lessonID, func(l *LessonProgress) {
		l.WatchTime += seconds
	})
}

func (s *Store) BookmarkLesson(lessonID string, bookmarked bool) {
	s.updateLesson(lessonID, func(l *LessonProgress) {
		l.Bookmarked = bookmarked
	})
}

// AddLessonNote appends note on its own line.
func (s *Store) AddLessonNote(lessonID, note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	s.updateLesson(lessonID, func(l *LessonProgress) {
		if l.Notes == "" {
			l.Notes = note
			return
		}
		l.Notes += "\n" + note
	})
}

// updateLesson applies fn to an existing record; unknown lessons are ignored.
func (s *Store) updateLesson(lessonID string, fn func(*LessonProgress)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.state.Lessons[lessonID]
	if !ok {
		return
	}
	l.LastInteractionAt = s.now()
	fn(&l)
	s.state.Lessons[lessonID] = l
	s.lessonTouchedLocked(lessonID)
}

func (s *Store) lessonTouchedLocked(lessonID string) {
	if s.session != nil {
		s.session.lessons[lessonID] = struct{}{}
	}
	s.refreshStreakLocked(s.now())
	s.touchLocked()
}

func (s *Store) Lesson(lessonID string) (LessonProgress, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.state.Lessons[lessonID]
	return l, ok
}

// Lessons returns every lesson record ordered by lesson id.
func (s *Store) Lessons() []LessonProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LessonProgress, 0, len(s.state.Lessons))
	for _, l := range s.state.Lessons {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessonID < out[j].LessonID })
	return out
}
