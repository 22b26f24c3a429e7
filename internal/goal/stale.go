package goal

import (
	"time"

	"github.com/northstar/summit/internal/models"
)

// MarkStale flips goals without a recent check-in to no-recent-updates and
// returns the ids it changed. A goal is stale when its LastCheckIn (or its
// UpdatedAt if it has never been checked in) is older than the window.
// Completed goals are never marked.
func (s *Store) MarkStale(window time.Duration) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cutoff := now.Add(-window)

	var changed []string
	for _, id := range s.order {
		g := s.goals[id]
		if g.Status == models.StatusCompleted || g.Status == models.StatusNoRecentUpdates {
			continue
		}
		last := g.UpdatedAt
		if g.LastCheckIn != nil {
			last = *g.LastCheckIn
		}
		if !last.Before(cutoff) {
			continue
		}
		old := g.Status
		g.Status = models.StatusNoRecentUpdates
		g.UpdatedAt = now
		changed = append(changed, id)
		s.publish(Event{Type: EventUpdated, GoalID: id, OldStatus: old, NewStatus: g.Status, At: now})
	}
	return changed
}
