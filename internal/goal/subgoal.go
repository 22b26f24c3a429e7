package goal

import (
	"math"

	"github.com/northstar/summit/internal/models"
)

// SubGoalOpts holds parameters for adding a sub-goal to a goal.
type SubGoalOpts struct {
	ID          string // optional; auto-generated when empty
	Title       string
	Description string
	Progress    int
	Status      models.Status // defaults to on-track
	Timeline    string
	Owner       string
	Assignees   []string
}

// AddSubGoal appends a sub-goal to the parent and recomputes the parent's
// progress rollup.
func (s *Store) AddSubGoal(parentID string, opts SubGoalOpts) (*models.SubGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.goals[parentID]
	if !ok {
		return nil, notFound("goal", parentID)
	}
	if opts.Title == "" {
		return nil, invalid("sub-goal title is required")
	}
	if opts.Progress < 0 || opts.Progress > 100 {
		return nil, invalid("progress %d out of range 0-100", opts.Progress)
	}
	if opts.Status == "" {
		opts.Status = models.StatusOnTrack
	}
	if !models.ValidStatus(opts.Status) {
		return nil, invalid("unknown status %q", opts.Status)
	}

	id := opts.ID
	if id == "" {
		var err error
		if id, err = generatePrefixedID("sg"); err != nil {
			return nil, err
		}
	}
	for _, sub := range parent.SubGoals {
		if sub.ID == id {
			return nil, invalid("sub-goal id already exists on %s: %s", parentID, id)
		}
	}

	now := s.now()
	sub := models.SubGoal{
		ID:          id,
		Title:       opts.Title,
		Description: opts.Description,
		Progress:    opts.Progress,
		Status:      opts.Status,
		Timeline:    opts.Timeline,
		Owner:       opts.Owner,
		Assignees:   append([]string(nil), opts.Assignees...),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	parent.SubGoals = append(parent.SubGoals, sub)
	parent.UpdatedAt = now
	rollupProgress(parent)

	s.publish(Event{Type: EventUpdated, GoalID: parentID, OldStatus: parent.Status, NewStatus: parent.Status, At: now})
	out := sub
	return &out, nil
}

// SubGoalUpdate holds a partial sub-goal mutation. Nil fields are left
// unchanged; a non-nil Assignees slice replaces the previous set.
type SubGoalUpdate struct {
	Title       *string
	Description *string
	Progress    *int
	Status      *models.Status
	Timeline    *string
	Owner       *string
	Assignees   []string
}

// UpdateSubGoal merges fields into the sub-goal, stamps both the sub-goal and
// parent UpdatedAt, and recomputes the parent's progress rollup.
func (s *Store) UpdateSubGoal(parentID, subGoalID string, u SubGoalUpdate) (*models.SubGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.goals[parentID]
	if !ok {
		return nil, notFound("goal", parentID)
	}
	idx := -1
	for i := range parent.SubGoals {
		if parent.SubGoals[i].ID == subGoalID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, notFound("sub-goal", subGoalID)
	}
	if u.Progress != nil && (*u.Progress < 0 || *u.Progress > 100) {
		return nil, invalid("progress %d out of range 0-100", *u.Progress)
	}
	if u.Status != nil && !models.ValidStatus(*u.Status) {
		return nil, invalid("unknown status %q", *u.Status)
	}

	sub := &parent.SubGoals[idx]
	if u.Title != nil {
		sub.Title = *u.Title
	}
	if u.Description != nil {
		sub.Description = *u.Description
	}
	if u.Progress != nil {
		sub.Progress = *u.Progress
	}
	if u.Status != nil {
		sub.Status = *u.Status
	}
	if u.Timeline != nil {
		sub.Timeline = *u.Timeline
	}
	if u.Owner != nil {
		sub.Owner = *u.Owner
	}
	if u.Assignees != nil {
		sub.Assignees = append([]string(nil), u.Assignees...)
	}
	now := s.now()
	sub.UpdatedAt = now
	parent.UpdatedAt = now
	rollupProgress(parent)

	s.publish(Event{Type: EventUpdated, GoalID: parentID, OldStatus: parent.Status, NewStatus: parent.Status, At: now})
	out := *sub
	return &out, nil
}

// DeleteSubGoal removes the sub-goal and recomputes the parent's progress
// rollup. Removing the last sub-goal leaves the parent's progress unchanged.
func (s *Store) DeleteSubGoal(parentID, subGoalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.goals[parentID]
	if !ok {
		return notFound("goal", parentID)
	}
	for i := range parent.SubGoals {
		if parent.SubGoals[i].ID == subGoalID {
			parent.SubGoals = append(parent.SubGoals[:i], parent.SubGoals[i+1:]...)
			parent.UpdatedAt = s.now()
			rollupProgress(parent)
			s.publish(Event{Type: EventUpdated, GoalID: parentID, OldStatus: parent.Status, NewStatus: parent.Status, At: parent.UpdatedAt})
			return nil
		}
	}
	return notFound("sub-goal", subGoalID)
}

// rollupProgress sets the goal's progress to the rounded mean of its
// sub-goals' progress. A goal with no sub-goals keeps its independently-set
// progress. Rollups never recurse into the ParentID hierarchy.
func rollupProgress(g *models.Goal) {
	if len(g.SubGoals) == 0 {
		return
	}
	total := 0
	for _, sub := range g.SubGoals {
		total += sub.Progress
	}
	g.Progress = int(math.Round(float64(total) / float64(len(g.SubGoals))))
}
