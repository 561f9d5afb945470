package progress

import "sort"

// CheckAndUnlockAchievements evaluates the catalog against current metrics and
// records every newly satisfied achievement. It returns only the new ones.
func (s *Store) CheckAndUnlockAchievements() []Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	unlocked := make(map[string]struct{}, len(s.state.Achievements))
	for _, a := range s.state.Achievements {
		unlocked[a.ID] = struct{}{}
	}
	defs := s.catalog.Satisfied(computeMetrics(s.state, now), unlocked)
	if len(defs) == 0 {
		return nil
	}
	fresh := make([]Achievement, 0, len(defs))
	for _, d := range defs {
		a := Achievement{
			ID:          d.ID,
			Title:       d.Title,
			Description: d.Description,
			Icon:        d.Icon,
			Category:    d.Category,
			UnlockedAt:  now,
		}
		s.state.Achievements = append(s.state.Achievements, a)
		fresh = append(fresh, a)
	}
	s.log.Info("progress.achievements_unlocked", "count", len(fresh))
	s.touchLocked()
	return fresh
}

// Achievements returns unlocked achievements in unlock order.
func (s *Store) Achievements() []Achievement {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Achievement{}, s.state.Achievements...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].UnlockedAt.Before(out[j].UnlockedAt) })
	return out
}
