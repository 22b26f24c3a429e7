package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/northstar/summit/internal/models"
	"gorm.io/gorm"
)

// Save replaces the persisted snapshot with the given collection. The write
// is transactional: either the whole new snapshot lands or the old one stays.
func Save(gdb *gorm.DB, goals []*models.Goal) error {
	err := gdb.Transaction(func(tx *gorm.DB) error {
		for _, model := range AllModels() {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clear table: %w", err)
			}
		}

		for i, g := range goals {
			row, err := goalToRow(g, i)
			if err != nil {
				return err
			}
			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("insert goal %s: %w", g.ID, err)
			}
			for j, sub := range g.SubGoals {
				subRow, err := subGoalToRow(g.ID, &sub, j)
				if err != nil {
					return err
				}
				if err := tx.Create(subRow).Error; err != nil {
					return fmt.Errorf("insert sub-goal %s/%s: %w", g.ID, sub.ID, err)
				}
			}
			for j, dep := range g.Connections {
				edge := DependencyRow{GoalID: g.ID, DependsOn: dep, SortIndex: j}
				if err := tx.Create(&edge).Error; err != nil {
					return fmt.Errorf("insert dependency %s → %s: %w", g.ID, dep, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("snapshot: save: %w", err)
	}
	return nil
}

// Load rebuilds the goal collection from the persisted snapshot, in the
// original insertion order.
func Load(gdb *gorm.DB) ([]*models.Goal, error) {
	var goalRows []GoalRow
	if err := gdb.Order("sort_index ASC").Find(&goalRows).Error; err != nil {
		return nil, fmt.Errorf("snapshot: load goals: %w", err)
	}
	var subRows []SubGoalRow
	if err := gdb.Find(&subRows).Error; err != nil {
		return nil, fmt.Errorf("snapshot: load sub-goals: %w", err)
	}
	var depRows []DependencyRow
	if err := gdb.Find(&depRows).Error; err != nil {
		return nil, fmt.Errorf("snapshot: load dependencies: %w", err)
	}

	subsByGoal := make(map[string][]SubGoalRow)
	for _, row := range subRows {
		subsByGoal[row.GoalID] = append(subsByGoal[row.GoalID], row)
	}
	depsByGoal := make(map[string][]DependencyRow)
	for _, row := range depRows {
		depsByGoal[row.GoalID] = append(depsByGoal[row.GoalID], row)
	}

	goals := make([]*models.Goal, 0, len(goalRows))
	for _, row := range goalRows {
		g, err := rowToGoal(&row, subsByGoal[row.ID], depsByGoal[row.ID])
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, nil
}

func goalToRow(g *models.Goal, index int) (*GoalRow, error) {
	assignees, err := marshalJSON(g.Assignees)
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal assignees for %s: %w", g.ID, err)
	}
	row := &GoalRow{
		ID:          g.ID,
		Title:       g.Title,
		Description: g.Description,
		Status:      string(g.Status),
		Progress:    g.Progress,
		Timeline:    g.Timeline,
		Owner:       g.Owner,
		Assignees:   assignees,
		Category:    g.Category,
		ParentID:    g.ParentID,
		IsExpanded:  g.IsExpanded,
		SortIndex:   index,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
		LastCheckIn: g.LastCheckIn,
	}
	if g.Position != nil {
		x, y := g.Position.X, g.Position.Y
		row.PosX, row.PosY = &x, &y
	}
	return row, nil
}

func subGoalToRow(goalID string, sub *models.SubGoal, index int) (*SubGoalRow, error) {
	assignees, err := marshalJSON(sub.Assignees)
	if err != nil {
		return nil, fmt.Errorf("snapshot: marshal assignees for %s/%s: %w", goalID, sub.ID, err)
	}
	return &SubGoalRow{
		GoalID:      goalID,
		ID:          sub.ID,
		Title:       sub.Title,
		Description: sub.Description,
		Progress:    sub.Progress,
		Status:      string(sub.Status),
		Timeline:    sub.Timeline,
		Owner:       sub.Owner,
		Assignees:   assignees,
		SortIndex:   index,
		CreatedAt:   sub.CreatedAt,
		UpdatedAt:   sub.UpdatedAt,
	}, nil
}

func rowToGoal(row *GoalRow, subRows []SubGoalRow, depRows []DependencyRow) (*models.Goal, error) {
	assignees, err := unmarshalStrings(row.Assignees)
	if err != nil {
		return nil, fmt.Errorf("snapshot: unmarshal assignees for %s: %w", row.ID, err)
	}

	g := &models.Goal{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Status:      models.Status(row.Status),
		Progress:    row.Progress,
		Timeline:    row.Timeline,
		Owner:       row.Owner,
		Assignees:   assignees,
		Category:    row.Category,
		ParentID:    row.ParentID,
		SubGoals:    []models.SubGoal{},
		Connections: []string{},
		IsExpanded:  row.IsExpanded,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		LastCheckIn: row.LastCheckIn,
	}
	if row.PosX != nil && row.PosY != nil {
		g.Position = &models.Position{X: *row.PosX, Y: *row.PosY}
	}

	sort.Slice(subRows, func(i, j int) bool { return subRows[i].SortIndex < subRows[j].SortIndex })
	for _, subRow := range subRows {
		subAssignees, err := unmarshalStrings(subRow.Assignees)
		if err != nil {
			return nil, fmt.Errorf("snapshot: unmarshal assignees for %s/%s: %w", row.ID, subRow.ID, err)
		}
		g.SubGoals = append(g.SubGoals, models.SubGoal{
			ID:          subRow.ID,
			Title:       subRow.Title,
			Description: subRow.Description,
			Progress:    subRow.Progress,
			Status:      models.Status(subRow.Status),
			Timeline:    subRow.Timeline,
			Owner:       subRow.Owner,
			Assignees:   subAssignees,
			CreatedAt:   subRow.CreatedAt,
			UpdatedAt:   subRow.UpdatedAt,
		})
	}

	sort.Slice(depRows, func(i, j int) bool { return depRows[i].SortIndex < depRows[j].SortIndex })
	for _, depRow := range depRows {
		g.Connections = append(g.Connections, depRow.DependsOn)
	}
	return g, nil
}

// marshalJSON marshals a value to a JSON string, returning empty for nil.
func marshalJSON(v interface{}) (string, error) {
	if v == nil {
		return "", nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalStrings(data string) ([]string, error) {
	if data == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, err
	}
	return out, nil
}
