package goal

import (
	"testing"

	"github.com/northstar/summit/internal/models"
)

func seedFilterGoals(t *testing.T) *Store {
	t.Helper()
	s := New(Opts{})
	fixtures := []CreateOpts{
		{ID: "platform", Title: "Platform launch", Description: "Core platform work", Status: models.StatusOnTrack, Owner: "alice", Category: "Platform", Timeline: "Q2 2024", Position: &models.Position{X: 100, Y: 100}},
		{ID: "tokens", Title: "Token strategy", Description: "Asset tokenization", Status: models.StatusAtRisk, Owner: "alice", Category: "Investment", Timeline: "FY24"},
		{ID: "growth", Title: "Revenue growth", Description: "Quarterly revenue targets", Status: models.StatusOnTrack, Owner: "bob", Category: "Business", Timeline: "Q3 2024", Position: &models.Position{X: 400, Y: 200}},
	}
	for _, opts := range fixtures {
		if _, err := s.Create(opts); err != nil {
			t.Fatalf("Create %q: %v", opts.ID, err)
		}
	}
	return s
}

func TestFilter_NoConstraints(t *testing.T) {
	s := seedFilterGoals(t)

	if got := len(s.Filtered(Filter{})); got != 3 {
		t.Errorf("empty filter matched %d goals, want 3", got)
	}
	all := Filter{Status: AllStatuses, Owner: AllOwners, Category: AllCategories, Timeline: AllTime}
	if got := len(s.Filtered(all)); got != 3 {
		t.Errorf("all-wildcard filter matched %d goals, want 3", got)
	}
}

func TestFilter_Conjunction(t *testing.T) {
	s := seedFilterGoals(t)

	got := s.Filtered(Filter{Status: string(models.StatusOnTrack), Owner: "alice"})
	if len(got) != 1 || got[0].ID != "platform" {
		t.Errorf("filtered = %v, want [platform]", ids(got))
	}
}

func TestFilter_Status(t *testing.T) {
	s := seedFilterGoals(t)

	got := s.Filtered(Filter{Status: string(models.StatusAtRisk)})
	if len(got) != 1 || got[0].ID != "tokens" {
		t.Errorf("filtered = %v, want [tokens]", ids(got))
	}
}

func TestFilter_TimelinePrefixNormalization(t *testing.T) {
	s := seedFilterGoals(t)

	// "This Q2 2024" is normalized to "Q2 2024" before the containment test.
	got := s.Filtered(Filter{Timeline: "This Q2 2024"})
	if len(got) != 1 || got[0].ID != "platform" {
		t.Errorf("filtered = %v, want [platform]", ids(got))
	}
	got = s.Filtered(Filter{Timeline: "Next Q3 2024"})
	if len(got) != 1 || got[0].ID != "growth" {
		t.Errorf("filtered = %v, want [growth]", ids(got))
	}
}

func TestFilter_TimelineCaseSensitive(t *testing.T) {
	s := seedFilterGoals(t)

	if got := s.Filtered(Filter{Timeline: "q2 2024"}); len(got) != 0 {
		t.Errorf("timeline match must be case-sensitive, got %v", ids(got))
	}
}

func TestFilter_SearchCaseInsensitive(t *testing.T) {
	s := seedFilterGoals(t)

	got := s.Filtered(Filter{Search: "TOKENIZATION"})
	if len(got) != 1 || got[0].ID != "tokens" {
		t.Errorf("filtered = %v, want [tokens] via description", ids(got))
	}
	got = s.Filtered(Filter{Search: "revenue"})
	if len(got) != 1 || got[0].ID != "growth" {
		t.Errorf("filtered = %v, want [growth] via title", ids(got))
	}
}

func TestMapGoals_RequiresPosition(t *testing.T) {
	s := seedFilterGoals(t)

	got := s.MapGoals(Filter{})
	if len(got) != 2 {
		t.Fatalf("MapGoals = %v, want the 2 positioned goals", ids(got))
	}
	for _, g := range got {
		if g.Position == nil {
			t.Errorf("MapGoals returned %s without a position", g.ID)
		}
	}

	// Unpositioned goals are excluded even when they match the filter.
	got = s.MapGoals(Filter{Owner: "alice"})
	if len(got) != 1 || got[0].ID != "platform" {
		t.Errorf("MapGoals = %v, want [platform]", ids(got))
	}
}

func TestOwnersAndCategories(t *testing.T) {
	s := seedFilterGoals(t)

	owners := s.Owners()
	if len(owners) != 2 || owners[0] != "alice" || owners[1] != "bob" {
		t.Errorf("Owners = %v, want [alice bob]", owners)
	}
	categories := s.Categories()
	if len(categories) != 3 {
		t.Errorf("Categories = %v, want 3 distinct", categories)
	}
}
