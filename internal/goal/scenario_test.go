package goal

import (
	"testing"

	"github.com/northstar/summit/internal/models"
)

// TestLifecycleScenario walks a full editing session: decompose a goal into
// sub-goals, wire a dependency, hit the cycle guard, then complete the
// blocker and verify readiness.
func TestLifecycleScenario(t *testing.T) {
	s := testStore(t)

	g1, err := s.Create(CreateOpts{ID: "g1", Title: "Ship platform", Progress: 0})
	if err != nil {
		t.Fatalf("Create g1: %v", err)
	}
	if _, err := s.AddSubGoal(g1.ID, SubGoalOpts{Title: "S1", Progress: 40}); err != nil {
		t.Fatalf("AddSubGoal S1: %v", err)
	}
	if _, err := s.AddSubGoal(g1.ID, SubGoalOpts{Title: "S2", Progress: 60}); err != nil {
		t.Fatalf("AddSubGoal S2: %v", err)
	}
	got, _ := s.Get(g1.ID)
	if got.Progress != 50 {
		t.Fatalf("g1 progress = %d, want 50", got.Progress)
	}

	g2, err := s.Create(CreateOpts{ID: "g2", Title: "Grow revenue"})
	if err != nil {
		t.Fatalf("Create g2: %v", err)
	}
	if ok, err := s.AddDependency(g2.ID, g1.ID); err != nil || !ok {
		t.Fatalf("AddDependency(g2, g1) = %v, %v; want accepted", ok, err)
	}

	// The reverse edge would form a 2-cycle.
	ok, err := s.AddDependency(g1.ID, g2.ID)
	if err != nil {
		t.Fatalf("AddDependency(g1, g2): %v", err)
	}
	if ok {
		t.Fatal("AddDependency(g1, g2) accepted, want rejected")
	}

	if ok, _ := s.CanStart(g2.ID); ok {
		t.Fatal("CanStart(g2) = true before g1 completes")
	}
	if _, err := s.UpdateGoal(g1.ID, Update{Status: statusPtr(models.StatusCompleted)}); err != nil {
		t.Fatalf("UpdateGoal: %v", err)
	}
	if ok, _ := s.CanStart(g2.ID); !ok {
		t.Fatal("CanStart(g2) = false after g1 completed")
	}
}
