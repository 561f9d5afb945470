package progress

import "time"

const dayLayout = "2006-01-02"

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func dayKey(t time.Time) string { return t.Format(dayLayout) }

// CalculateStreak recomputes the streak from lesson interaction history. Days are
// midnight-aligned in now's location. An interaction today keeps a running streak
// (or starts one at 1); an interaction yesterday holds a running streak; anything
// older resets it to 0.
func CalculateStreak(now time.Time, stored int, lessons map[string]LessonProgress) int {
	today, yesterday := interactionDays(now, lessons)
	switch {
	case today:
		if stored > 0 {
			return stored
		}
		return 1
	case yesterday && stored > 0:
		return stored
	default:
		return 0
	}
}

func interactionDays(now time.Time, lessons map[string]LessonProgress) (today, yesterday bool) {
	todayStart := startOfDay(now)
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	for _, l := range lessons {
		if l.LastInteractionAt.IsZero() {
			continue
		}
		at := l.LastInteractionAt.In(now.Location())
		switch {
		case !at.Before(todayStart):
			today = true
		case !at.Before(yesterdayStart):
			yesterday = true
		}
		if today && yesterday {
			break
		}
	}
	return today, yesterday
}

// refreshStreakLocked applies CalculateStreak and credits a new day when the
// previous credit was yesterday.
func (s *Store) refreshStreakLocked(now time.Time) {
	prev := s.state.StreakDays
	streak := CalculateStreak(now, prev, s.state.Lessons)
	today, _ := interactionDays(now, s.state.Lessons)
	if today && streak > 0 {
		if prev > 0 && s.state.StreakDay == dayKey(startOfDay(now).AddDate(0, 0, -1)) {
			streak = prev + 1
		}
		s.state.StreakDay = dayKey(now)
	}
	if streak == 0 {
		s.state.StreakDay = ""
	}
	s.state.StreakDays = streak
	if streak > s.state.LongestStreak {
		s.state.LongestStreak = streak
	}
}
