package snapshot

import (
	"testing"
	"time"

	"github.com/northstar/summit/internal/models"
)

func TestGoalRowMapping_RoundTrip(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	g := &models.Goal{
		ID:          "platform",
		Title:       "Platform launch",
		Status:      models.StatusAtRisk,
		Progress:    42,
		Owner:       "alice",
		Assignees:   []string{"alice", "bob"},
		ParentID:    "company",
		Position:    &models.Position{X: 10, Y: 20},
		IsExpanded:  true,
		CreatedAt:   created,
		UpdatedAt:   created,
		SubGoals:    []models.SubGoal{{ID: "s1", Title: "S1", Progress: 42, CreatedAt: created, UpdatedAt: created}},
		Connections: []string{"tokens", "growth"},
	}

	row, err := goalToRow(g, 3)
	if err != nil {
		t.Fatalf("goalToRow: %v", err)
	}
	if row.SortIndex != 3 {
		t.Errorf("SortIndex = %d, want 3", row.SortIndex)
	}
	if row.PosX == nil || *row.PosX != 10 {
		t.Errorf("PosX = %v, want 10", row.PosX)
	}

	subRow, err := subGoalToRow(g.ID, &g.SubGoals[0], 0)
	if err != nil {
		t.Fatalf("subGoalToRow: %v", err)
	}
	deps := []DependencyRow{
		{GoalID: g.ID, DependsOn: "growth", SortIndex: 1},
		{GoalID: g.ID, DependsOn: "tokens", SortIndex: 0},
	}

	back, err := rowToGoal(row, []SubGoalRow{*subRow}, deps)
	if err != nil {
		t.Fatalf("rowToGoal: %v", err)
	}
	if back.ID != g.ID || back.Status != g.Status || back.Progress != g.Progress {
		t.Errorf("round trip mismatch: %+v", back)
	}
	if len(back.Assignees) != 2 || back.Assignees[0] != "alice" {
		t.Errorf("Assignees = %v", back.Assignees)
	}
	if back.Position == nil || back.Position.Y != 20 {
		t.Errorf("Position = %+v", back.Position)
	}
	if len(back.SubGoals) != 1 || back.SubGoals[0].ID != "s1" {
		t.Errorf("SubGoals = %+v", back.SubGoals)
	}
	// Edge order restored by SortIndex, not row order.
	if len(back.Connections) != 2 || back.Connections[0] != "tokens" {
		t.Errorf("Connections = %v, want [tokens growth]", back.Connections)
	}
}

func TestRowMapping_EmptyAssignees(t *testing.T) {
	g := &models.Goal{ID: "g", Title: "G"}
	row, err := goalToRow(g, 0)
	if err != nil {
		t.Fatalf("goalToRow: %v", err)
	}
	back, err := rowToGoal(row, nil, nil)
	if err != nil {
		t.Fatalf("rowToGoal: %v", err)
	}
	if len(back.Assignees) != 0 {
		t.Errorf("Assignees = %v, want empty", back.Assignees)
	}
	if back.Position != nil {
		t.Errorf("Position = %+v, want nil", back.Position)
	}
}
