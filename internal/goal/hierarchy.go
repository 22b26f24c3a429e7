package goal

import "github.com/northstar/summit/internal/models"

// Hierarchy returns the goal and all of its descendants by ParentID in
// pre-order: each parent before its children, children in store-insertion
// order. The ParentID relation is independent of the dependency graph.
func (s *Store) Hierarchy(goalID string) ([]*models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	root, ok := s.goals[goalID]
	if !ok {
		return nil, notFound("goal", goalID)
	}

	var out []*models.Goal
	var walk func(g *models.Goal)
	walk = func(g *models.Goal) {
		out = append(out, g.Clone())
		for _, id := range s.order {
			child := s.goals[id]
			if child.ParentID == g.ID {
				walk(child)
			}
		}
	}
	walk(root)
	return out, nil
}

// Roots returns all goals without a parent, in insertion order.
func (s *Store) Roots() []*models.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Goal
	for _, id := range s.order {
		if g := s.goals[id]; g.ParentID == "" {
			out = append(out, g.Clone())
		}
	}
	return out
}

// ancestorReachable walks the parent chain upward from startID and reports
// whether target appears in it. Guards re-parenting against hierarchy cycles.
func (s *Store) ancestorReachable(startID, target string) bool {
	visited := make(map[string]bool)
	for id := startID; id != ""; {
		if id == target {
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		g, ok := s.goals[id]
		if !ok {
			return false
		}
		id = g.ParentID
	}
	return false
}
