package goal

import "github.com/northstar/summit/internal/models"

// Dependencies pairs the direct out-edges and in-edges of a goal, resolved to
// records.
type Dependencies struct {
	DependsOn  []*models.Goal
	Dependents []*models.Goal
}

// AddDependency records that goalID depends on dependsOnID. The edge is
// committed only if the transitive depends-on closure of dependsOnID does not
// reach goalID; a rejected edge returns (false, nil) and leaves the store
// unchanged. Rejection is a normal outcome of interactive editing, not an
// error.
// Self-loops are a degenerate cycle and are rejected by the same rule. Adding
// an edge that already exists is an accepted no-op.
func (s *Store) AddDependency(goalID, dependsOnID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[goalID]
	if !ok {
		return false, notFound("goal", goalID)
	}
	if _, ok := s.goals[dependsOnID]; !ok {
		return false, notFound("goal", dependsOnID)
	}
	for _, id := range g.Connections {
		if id == dependsOnID {
			return true, nil
		}
	}
	if s.reachable(dependsOnID, goalID, make(map[string]bool)) {
		return false, nil
	}

	g.Connections = append(g.Connections, dependsOnID)
	g.UpdatedAt = s.now()
	s.publish(Event{Type: EventDependencyAdded, GoalID: goalID, OldStatus: g.Status, NewStatus: g.Status, At: g.UpdatedAt})
	return true, nil
}

// RemoveDependency deletes the edge goalID → dependsOnID if present. Removing
// an absent edge is a no-op, so the operation is idempotent.
func (s *Store) RemoveDependency(goalID, dependsOnID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[goalID]
	if !ok {
		return notFound("goal", goalID)
	}
	if removeID(&g.Connections, dependsOnID) {
		g.UpdatedAt = s.now()
		s.publish(Event{Type: EventDependencyRemoved, GoalID: goalID, OldStatus: g.Status, NewStatus: g.Status, At: g.UpdatedAt})
	}
	return nil
}

// Dependencies returns the goals this goal directly depends on and the goals
// that directly depend on it. Connection ids that no longer resolve to a goal
// are skipped.
func (s *Store) Dependencies(goalID string) (Dependencies, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[goalID]
	if !ok {
		return Dependencies{}, notFound("goal", goalID)
	}

	deps := Dependencies{DependsOn: []*models.Goal{}, Dependents: []*models.Goal{}}
	for _, id := range g.Connections {
		if dep, ok := s.goals[id]; ok {
			deps.DependsOn = append(deps.DependsOn, dep.Clone())
		}
	}
	for _, id := range s.order {
		other := s.goals[id]
		if other.ID == goalID {
			continue
		}
		for _, cid := range other.Connections {
			if cid == goalID {
				deps.Dependents = append(deps.Dependents, other.Clone())
				break
			}
		}
	}
	return deps, nil
}

// CanStart reports whether every goal this goal directly depends on is
// completed. A goal with no dependencies can always start. This is a
// direct-dependency check; callers needing transitive readiness walk the
// closure themselves.
func (s *Store) CanStart(goalID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[goalID]
	if !ok {
		return false, notFound("goal", goalID)
	}
	for _, id := range g.Connections {
		dep, ok := s.goals[id]
		if !ok {
			continue
		}
		if dep.Status != models.StatusCompleted {
			return false, nil
		}
	}
	return true, nil
}

// reachable performs a depth-first walk from current along connection edges
// and reports whether target is reachable. O(V+E) per call; goal graphs are
// small and edits interactive.
func (s *Store) reachable(current, target string, visited map[string]bool) bool {
	if current == target {
		return true
	}
	if visited[current] {
		return false
	}
	visited[current] = true

	g, ok := s.goals[current]
	if !ok {
		return false
	}
	for _, next := range g.Connections {
		if s.reachable(next, target, visited) {
			return true
		}
	}
	return false
}
