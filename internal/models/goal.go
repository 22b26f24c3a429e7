// Package models defines the serializable goal records shared by the engine,
// persistence, and presentation layers. Records are pure data; all behavior
// lives in the goal engine.
package models

import "time"

// Status is the display status of a goal or sub-goal.
type Status string

// Known status values.
const (
	StatusOnTrack         Status = "on-track"
	StatusNoRecentUpdates Status = "no-recent-updates"
	StatusAtRisk          Status = "at-risk"
	StatusOffTrack        Status = "off-track"
	StatusCompleted       Status = "completed"
)

// ValidStatus reports whether s is a known status value.
func ValidStatus(s Status) bool {
	switch s {
	case StatusOnTrack, StatusNoRecentUpdates, StatusAtRisk, StatusOffTrack, StatusCompleted:
		return true
	}
	return false
}

// Position is a goal's location on the strategy-map canvas. A goal carries a
// position if and only if it has been placed on the map.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SubGoal is a decomposition unit owned by exactly one Goal. It has no
// independent lifecycle: it is created, mutated, and destroyed only through
// its parent goal's operations, and cannot hold dependencies or further
// sub-goals.
type SubGoal struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Progress    int       `json:"progress"`
	Status      Status    `json:"status"`
	Timeline    string    `json:"timeline"`
	Owner       string    `json:"owner"`
	Assignees   []string  `json:"assignees"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Goal is a top-level objective. ParentID links the goal hierarchy;
// Connections holds the ids of the goals this goal depends on. The two
// relations are independent.
type Goal struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	Progress    int        `json:"progress"`
	Timeline    string     `json:"timeline"`
	Owner       string     `json:"owner"`
	Assignees   []string   `json:"assignees"`
	Category    string     `json:"category"`
	ParentID    string     `json:"parentId,omitempty"`
	SubGoals    []SubGoal  `json:"subGoals"`
	Connections []string   `json:"connections"`
	Position    *Position  `json:"position,omitempty"`
	IsExpanded  bool       `json:"isExpanded"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	LastCheckIn *time.Time `json:"lastCheckIn,omitempty"`
}

// Clone returns a deep copy of the goal. The engine hands out clones so
// callers can never mutate store state through a returned record. Slice
// fields keep their nil-versus-empty shape: an empty set stays an empty
// slice and serializes as [], never null.
func (g *Goal) Clone() *Goal {
	c := *g
	c.Assignees = cloneStrings(g.Assignees)
	c.Connections = cloneStrings(g.Connections)
	if g.SubGoals != nil {
		c.SubGoals = make([]SubGoal, len(g.SubGoals))
		for i, sub := range g.SubGoals {
			c.SubGoals[i] = sub
			c.SubGoals[i].Assignees = cloneStrings(sub.Assignees)
		}
	}
	if g.Position != nil {
		pos := *g.Position
		c.Position = &pos
	}
	if g.LastCheckIn != nil {
		t := *g.LastCheckIn
		c.LastCheckIn = &t
	}
	return &c
}

// cloneStrings copies a string slice, preserving nil and emptiness.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
