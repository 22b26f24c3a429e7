package goal

import (
	"testing"
	"time"

	"github.com/northstar/summit/internal/models"
)

func TestMarkStale(t *testing.T) {
	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	s := New(Opts{Now: func() time.Time { return clock }})

	fresh, _ := s.Create(CreateOpts{Title: "Fresh"})
	stale, _ := s.Create(CreateOpts{Title: "Stale"})
	done, _ := s.Create(CreateOpts{Title: "Done", Status: models.StatusCompleted})

	s.CheckIn(stale.ID, CheckInOpts{})
	s.CheckIn(done.ID, CheckInOpts{})

	// Three weeks later, only the unchecked-in fresh goal has a recent
	// UpdatedAt via its own check-in below.
	clock = clock.Add(21 * 24 * time.Hour)
	s.CheckIn(fresh.ID, CheckInOpts{})

	changed := s.MarkStale(14 * 24 * time.Hour)
	if len(changed) != 1 || changed[0] != stale.ID {
		t.Fatalf("MarkStale = %v, want [%s]", changed, stale.ID)
	}

	g, _ := s.Get(stale.ID)
	if g.Status != models.StatusNoRecentUpdates {
		t.Errorf("Status = %q, want %q", g.Status, models.StatusNoRecentUpdates)
	}
	g, _ = s.Get(done.ID)
	if g.Status != models.StatusCompleted {
		t.Errorf("completed goal flipped to %q", g.Status)
	}
	g, _ = s.Get(fresh.ID)
	if g.Status != models.StatusOnTrack {
		t.Errorf("freshly checked-in goal flipped to %q", g.Status)
	}
}

func TestMarkStale_UsesUpdatedAtWithoutCheckIn(t *testing.T) {
	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	s := New(Opts{Now: func() time.Time { return clock }})
	g, _ := s.Create(CreateOpts{Title: "Never checked in"})

	clock = clock.Add(30 * 24 * time.Hour)
	changed := s.MarkStale(14 * 24 * time.Hour)
	if len(changed) != 1 || changed[0] != g.ID {
		t.Fatalf("MarkStale = %v, want [%s]", changed, g.ID)
	}
}

func TestMarkStale_Idempotent(t *testing.T) {
	clock := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	s := New(Opts{Now: func() time.Time { return clock }})
	s.Create(CreateOpts{Title: "Stale"})

	clock = clock.Add(30 * 24 * time.Hour)
	if changed := s.MarkStale(14 * 24 * time.Hour); len(changed) != 1 {
		t.Fatalf("first sweep changed %d goals, want 1", len(changed))
	}
	if changed := s.MarkStale(14 * 24 * time.Hour); len(changed) != 0 {
		t.Errorf("second sweep changed %d goals, want 0", len(changed))
	}
}
