// Package snapshot persists the goal collection wholesale. The engine defines
// no change log, so the adapter replaces every row on save and rebuilds the
// collection on load.
package snapshot

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// GoalRow is the flattened persistence form of a goal. Embedded sub-goals and
// dependency edges live in their own tables; SortIndex preserves the store's
// insertion order.
type GoalRow struct {
	ID          string `gorm:"primaryKey;size:64"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"size:24;index"`
	Progress    int
	Timeline    string `gorm:"size:64"`
	Owner       string `gorm:"size:64;index"`
	Assignees   string `gorm:"type:json"`
	Category    string `gorm:"size:64"`
	ParentID    string `gorm:"size:64;index"`
	PosX        *float64
	PosY        *float64
	IsExpanded  bool
	SortIndex   int `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	LastCheckIn *time.Time
}

// SubGoalRow is the persistence form of a sub-goal, keyed by its owning goal.
type SubGoalRow struct {
	GoalID      string `gorm:"primaryKey;size:64"`
	ID          string `gorm:"primaryKey;size:64"`
	Title       string `gorm:"not null"`
	Description string `gorm:"type:text"`
	Progress    int
	Status      string `gorm:"size:24"`
	Timeline    string `gorm:"size:64"`
	Owner       string `gorm:"size:64"`
	Assignees   string `gorm:"type:json"`
	SortIndex   int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DependencyRow is one directed depends-on edge.
type DependencyRow struct {
	GoalID    string `gorm:"primaryKey;size:64"`
	DependsOn string `gorm:"primaryKey;size:64"`
	SortIndex int
}

// AllModels returns the snapshot tables for migration.
func AllModels() []interface{} {
	return []interface{}{
		&GoalRow{},
		&SubGoalRow{},
		&DependencyRow{},
	}
}

// AutoMigrate creates or updates the snapshot tables.
func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("snapshot: auto-migrate: %w", err)
	}
	return nil
}
