//go:build integration

package snapshot

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/northstar/summit/internal/config"
	"github.com/northstar/summit/internal/db"
	"github.com/northstar/summit/internal/models"
	"gorm.io/gorm"
)

func setupSnapshotDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Open(config.DBConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "summit.db")})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := AutoMigrate(gdb); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	return gdb
}

func sampleGoals() []*models.Goal {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	checkIn := created.Add(9 * 24 * time.Hour)
	return []*models.Goal{
		{
			ID:          "platform",
			Title:       "Platform launch",
			Description: "Core platform work",
			Status:      models.StatusOnTrack,
			Progress:    50,
			Timeline:    "Q2 2024",
			Owner:       "alice",
			Assignees:   []string{"alice", "bob"},
			Category:    "Platform",
			SubGoals: []models.SubGoal{
				{ID: "research", Title: "Research", Progress: 40, Status: models.StatusOnTrack, CreatedAt: created, UpdatedAt: created},
				{ID: "build", Title: "Build", Progress: 60, Status: models.StatusOnTrack, Assignees: []string{"bob"}, CreatedAt: created, UpdatedAt: created},
			},
			Connections: []string{"tokens"},
			Position:    &models.Position{X: 150, Y: 200},
			IsExpanded:  true,
			CreatedAt:   created,
			UpdatedAt:   created,
			LastCheckIn: &checkIn,
		},
		{
			ID:          "tokens",
			Title:       "Token strategy",
			Status:      models.StatusCompleted,
			Progress:    100,
			Owner:       "bob",
			ParentID:    "platform",
			SubGoals:    []models.SubGoal{},
			Connections: []string{},
			CreatedAt:   created,
			UpdatedAt:   created,
		},
	}
}

func TestIntegration_SaveLoad_RoundTrip(t *testing.T) {
	gdb := setupSnapshotDB(t)
	want := sampleGoals()

	if err := Save(gdb, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(gdb)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if len(got) != len(want) {
		t.Fatalf("loaded %d goals, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID {
			t.Errorf("order mismatch at %d: got %s, want %s", i, got[i].ID, want[i].ID)
		}
	}

	platform := got[0]
	if len(platform.SubGoals) != 2 || platform.SubGoals[0].ID != "research" {
		t.Errorf("SubGoals = %+v, want [research build]", platform.SubGoals)
	}
	if len(platform.Connections) != 1 || platform.Connections[0] != "tokens" {
		t.Errorf("Connections = %v, want [tokens]", platform.Connections)
	}
	if platform.Position == nil || platform.Position.X != 150 || platform.Position.Y != 200 {
		t.Errorf("Position = %+v, want {150 200}", platform.Position)
	}
	if platform.LastCheckIn == nil {
		t.Error("LastCheckIn lost in round trip")
	}
	if len(platform.Assignees) != 2 {
		t.Errorf("Assignees = %v, want 2", platform.Assignees)
	}

	tokens := got[1]
	if tokens.ParentID != "platform" {
		t.Errorf("ParentID = %q, want platform", tokens.ParentID)
	}
	if tokens.Position != nil {
		t.Errorf("Position = %+v, want nil for unplaced goal", tokens.Position)
	}
}

func TestIntegration_Save_ReplacesWholesale(t *testing.T) {
	gdb := setupSnapshotDB(t)
	if err := Save(gdb, sampleGoals()); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	replacement := []*models.Goal{{
		ID:     "solo",
		Title:  "Only goal",
		Status: models.StatusOnTrack,
	}}
	if err := Save(gdb, replacement); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := Load(gdb)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].ID != "solo" {
		t.Errorf("loaded %v, want just [solo]", got)
	}

	var subCount int64
	gdb.Model(&SubGoalRow{}).Count(&subCount)
	if subCount != 0 {
		t.Errorf("stale sub-goal rows remain: %d", subCount)
	}
}

func TestIntegration_Load_Empty(t *testing.T) {
	gdb := setupSnapshotDB(t)
	got, err := Load(gdb)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("loaded %d goals from empty snapshot, want 0", len(got))
	}
}
