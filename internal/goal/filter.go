package goal

import (
	"strings"

	"github.com/northstar/summit/internal/models"
)

// Wildcard filter values. Each matches everything for its field, as does the
// empty string.
const (
	AllStatuses   = "All Statuses"
	AllOwners     = "All Owners"
	AllCategories = "All Categories"
	AllTime       = "All Time"
)

// Filter is a stateless predicate over the goal set. Every field is optional;
// active fields combine with logical AND.
type Filter struct {
	Status   string // exact status match
	Owner    string // exact owner match
	Category string // exact category match
	Timeline string // substring match after stripping "This "/"Next " prefixes
	Search   string // case-insensitive substring over title and description
}

// Match reports whether the goal satisfies every active filter field.
func (f Filter) Match(g *models.Goal) bool {
	if f.Status != "" && f.Status != AllStatuses && string(g.Status) != f.Status {
		return false
	}
	if f.Owner != "" && f.Owner != AllOwners && g.Owner != f.Owner {
		return false
	}
	if f.Category != "" && f.Category != AllCategories && g.Category != f.Category {
		return false
	}
	if f.Timeline != "" && f.Timeline != AllTime {
		term := strings.TrimPrefix(f.Timeline, "This ")
		term = strings.TrimPrefix(term, "Next ")
		if !strings.Contains(g.Timeline, term) {
			return false
		}
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(g.Title), needle) &&
			!strings.Contains(strings.ToLower(g.Description), needle) {
			return false
		}
	}
	return true
}

// Filtered returns copies of all goals matching the filter, in insertion
// order.
func (s *Store) Filtered(f Filter) []*models.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Goal
	for _, id := range s.order {
		if g := s.goals[id]; f.Match(g) {
			out = append(out, g.Clone())
		}
	}
	return out
}

// MapGoals returns the goals matching the filter that are placed on the
// strategy map. Goals without a position are excluded regardless of filter
// match.
func (s *Store) MapGoals(f Filter) []*models.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Goal
	for _, id := range s.order {
		g := s.goals[id]
		if g.Position == nil {
			continue
		}
		if f.Match(g) {
			out = append(out, g.Clone())
		}
	}
	return out
}

// Owners returns the distinct goal owners in first-seen order, for filter
// dropdowns.
func (s *Store) Owners() []string {
	return s.distinct(func(g *models.Goal) string { return g.Owner })
}

// Categories returns the distinct goal categories in first-seen order.
func (s *Store) Categories() []string {
	return s.distinct(func(g *models.Goal) string { return g.Category })
}

func (s *Store) distinct(key func(*models.Goal) string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	var out []string
	for _, id := range s.order {
		k := key(s.goals[id])
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
