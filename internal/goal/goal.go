// Package goal implements the goal hierarchy and dependency graph engine:
// canonical CRUD over goals and their embedded sub-goals, a cycle-safe
// dependency graph, automatic progress rollups, hierarchy queries, and the
// filter surface used by list views and the strategy map.
//
// The Store is the explicit state object all mutations go through. A single
// RWMutex serializes mutations so the dependency graph's check-then-act cycle
// guard is atomic even when the store sits behind the dashboard server.
package goal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/northstar/summit/internal/models"
)

// Default strategy-map canvas extent. Positions are clamped to it.
const (
	defaultCanvasMaxX = 1200
	defaultCanvasMaxY = 500
)

// Opts holds parameters for creating a Store.
type Opts struct {
	CanvasMaxX float64          // strategy-map width, default 1200
	CanvasMaxY float64          // strategy-map height, default 500
	Now        func() time.Time // clock override for tests
}

// Store holds the canonical goal collection in memory. It is safe for
// concurrent use; every mutation executes to completion under the write lock
// before returning.
type Store struct {
	mu    sync.RWMutex
	goals map[string]*models.Goal
	order []string // insertion order; drives listing and child ordering

	maxX float64
	maxY float64
	now  func() time.Time

	subsMu sync.Mutex
	subs   map[string]chan Event
}

// New creates an empty Store.
func New(opts Opts) *Store {
	if opts.CanvasMaxX <= 0 {
		opts.CanvasMaxX = defaultCanvasMaxX
	}
	if opts.CanvasMaxY <= 0 {
		opts.CanvasMaxY = defaultCanvasMaxY
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		goals: make(map[string]*models.Goal),
		maxX:  opts.CanvasMaxX,
		maxY:  opts.CanvasMaxY,
		now:   opts.Now,
		subs:  make(map[string]chan Event),
	}
}

// CreateOpts holds parameters for creating a new goal.
type CreateOpts struct {
	ID          string // optional; auto-generated when empty
	Title       string
	Description string
	Status      models.Status // defaults to on-track
	Progress    int
	Timeline    string
	Owner       string
	Assignees   []string
	Category    string
	ParentID    string
	Position    *models.Position
}

// GenerateID creates a goal ID in gl-xxxxx format (5-char hex).
func GenerateID() (string, error) {
	return generatePrefixedID("gl")
}

func generatePrefixedID(prefix string) (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("goal: generate ID: %w", err)
	}
	return prefix + "-" + hex.EncodeToString(b)[:5], nil
}

// Create inserts a new goal with empty sub-goal and connection sets. It fails
// with a ValidationError on a duplicate or malformed input and a NotFoundError
// on an unknown parent.
func (s *Store) Create(opts CreateOpts) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if opts.Title == "" {
		return nil, invalid("title is required")
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
	if opts.ParentID != "" {
		if _, ok := s.goals[opts.ParentID]; !ok {
			return nil, notFound("goal", opts.ParentID)
		}
	}

	id := opts.ID
	if id == "" {
		var err error
		if id, err = s.generateUniqueID(); err != nil {
			return nil, err
		}
	} else if _, exists := s.goals[id]; exists {
		return nil, invalid("goal id already exists: %s", id)
	}

	now := s.now()
	g := &models.Goal{
		ID:          id,
		Title:       opts.Title,
		Description: opts.Description,
		Status:      opts.Status,
		Progress:    opts.Progress,
		Timeline:    opts.Timeline,
		Owner:       opts.Owner,
		Assignees:   append([]string(nil), opts.Assignees...),
		Category:    opts.Category,
		ParentID:    opts.ParentID,
		SubGoals:    []models.SubGoal{},
		Connections: []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if opts.Position != nil {
		g.Position = s.clamp(*opts.Position)
	}

	s.goals[id] = g
	s.order = append(s.order, id)
	s.publish(Event{Type: EventCreated, GoalID: id, NewStatus: g.Status, At: now})
	return g.Clone(), nil
}

// CreateChild creates a goal whose ParentID is set to parentID. It is the
// hierarchy-building counterpart of Create.
func (s *Store) CreateChild(parentID string, opts CreateOpts) (*models.Goal, error) {
	opts.ParentID = parentID
	return s.Create(opts)
}

// Get returns a copy of the goal with the given id.
func (s *Store) Get(id string) (*models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[id]
	if !ok {
		return nil, notFound("goal", id)
	}
	return g.Clone(), nil
}

// List returns copies of all goals in insertion order.
func (s *Store) List() []*models.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listLocked()
}

func (s *Store) listLocked() []*models.Goal {
	out := make([]*models.Goal, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.goals[id].Clone())
	}
	return out
}

// Len returns the number of goals in the store.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.goals)
}

// Update holds a partial goal mutation. Nil fields are left unchanged; a
// non-nil Assignees slice replaces the previous set.
type Update struct {
	Title       *string
	Description *string
	Status      *models.Status
	Progress    *int
	Timeline    *string
	Owner       *string
	Assignees   []string
	Category    *string
	ParentID    *string // re-parent; empty string detaches from the hierarchy
	IsExpanded  *bool
}

// UpdateGoal merges the given fields into the goal and stamps UpdatedAt.
// Re-parenting runs the same reachability guard as the dependency graph, so a
// hierarchy cycle is rejected as a ValidationError. On any error the store is
// left unmodified.
func (s *Store) UpdateGoal(id string, u Update) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok {
		return nil, notFound("goal", id)
	}
	if u.Progress != nil && (*u.Progress < 0 || *u.Progress > 100) {
		return nil, invalid("progress %d out of range 0-100", *u.Progress)
	}
	if u.Status != nil && !models.ValidStatus(*u.Status) {
		return nil, invalid("unknown status %q", *u.Status)
	}
	if u.ParentID != nil && *u.ParentID != "" {
		if _, ok := s.goals[*u.ParentID]; !ok {
			return nil, notFound("goal", *u.ParentID)
		}
		if s.ancestorReachable(*u.ParentID, id) {
			return nil, invalid("setting parent %s on %s would create a hierarchy cycle", *u.ParentID, id)
		}
	}

	oldStatus := g.Status
	if u.Title != nil {
		g.Title = *u.Title
	}
	if u.Description != nil {
		g.Description = *u.Description
	}
	if u.Status != nil {
		g.Status = *u.Status
	}
	if u.Progress != nil {
		g.Progress = *u.Progress
	}
	if u.Timeline != nil {
		g.Timeline = *u.Timeline
	}
	if u.Owner != nil {
		g.Owner = *u.Owner
	}
	if u.Assignees != nil {
		g.Assignees = append([]string(nil), u.Assignees...)
	}
	if u.Category != nil {
		g.Category = *u.Category
	}
	if u.ParentID != nil {
		g.ParentID = *u.ParentID
	}
	if u.IsExpanded != nil {
		g.IsExpanded = *u.IsExpanded
	}
	g.UpdatedAt = s.now()

	s.publish(Event{Type: EventUpdated, GoalID: id, OldStatus: oldStatus, NewStatus: g.Status, At: g.UpdatedAt})
	return g.Clone(), nil
}

// Delete removes the goal. The deleted id is purged from every other goal's
// connection set so no dangling dependency edges remain, and hierarchical
// children are promoted to roots.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok {
		return notFound("goal", id)
	}

	now := s.now()
	for _, other := range s.goals {
		if other.ID == id {
			continue
		}
		if removeID(&other.Connections, id) {
			other.UpdatedAt = now
		}
		if other.ParentID == id {
			other.ParentID = ""
			other.UpdatedAt = now
		}
	}

	delete(s.goals, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.publish(Event{Type: EventDeleted, GoalID: id, OldStatus: g.Status, At: now})
	return nil
}

// CheckInOpts holds parameters for recording a goal check-in.
type CheckInOpts struct {
	Progress *int
	Status   *models.Status
}

// CheckIn records a progress check-in: it applies the optional status and
// progress updates and stamps LastCheckIn alongside UpdatedAt.
func (s *Store) CheckIn(id string, opts CheckInOpts) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok {
		return nil, notFound("goal", id)
	}
	if opts.Progress != nil && (*opts.Progress < 0 || *opts.Progress > 100) {
		return nil, invalid("progress %d out of range 0-100", *opts.Progress)
	}
	if opts.Status != nil && !models.ValidStatus(*opts.Status) {
		return nil, invalid("unknown status %q", *opts.Status)
	}

	oldStatus := g.Status
	if opts.Progress != nil {
		g.Progress = *opts.Progress
	}
	if opts.Status != nil {
		g.Status = *opts.Status
	}
	now := s.now()
	g.LastCheckIn = &now
	g.UpdatedAt = now

	s.publish(Event{Type: EventCheckIn, GoalID: id, OldStatus: oldStatus, NewStatus: g.Status, At: now})
	return g.Clone(), nil
}

// ToggleExpanded flips the goal's display expansion flag.
func (s *Store) ToggleExpanded(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok {
		return notFound("goal", id)
	}
	g.IsExpanded = !g.IsExpanded
	g.UpdatedAt = s.now()
	return nil
}

// SetPosition places the goal on the strategy map. Coordinates are clamped to
// the canvas extent, never rejected.
func (s *Store) SetPosition(id string, pos models.Position) (*models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[id]
	if !ok {
		return nil, notFound("goal", id)
	}
	g.Position = s.clamp(pos)
	g.UpdatedAt = s.now()
	s.publish(Event{Type: EventUpdated, GoalID: id, OldStatus: g.Status, NewStatus: g.Status, At: g.UpdatedAt})
	return g.Clone(), nil
}

func (s *Store) clamp(pos models.Position) *models.Position {
	pos.X = min(max(pos.X, 0), s.maxX)
	pos.Y = min(max(pos.Y, 0), s.maxY)
	return &pos
}

// Export returns the full collection in insertion order, for the persistence
// boundary. The engine defines no change log; adapters snapshot wholesale.
func (s *Store) Export() []*models.Goal {
	return s.List()
}

// Restore replaces the collection wholesale with the given goals, preserving
// their order as the store's insertion order.
func (s *Store) Restore(goals []*models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]*models.Goal, len(goals))
	order := make([]string, 0, len(goals))
	for _, g := range goals {
		if g.ID == "" {
			return invalid("restore: goal with empty id")
		}
		if _, dup := next[g.ID]; dup {
			return invalid("restore: duplicate goal id %s", g.ID)
		}
		c := g.Clone()
		if c.SubGoals == nil {
			c.SubGoals = []models.SubGoal{}
		}
		if c.Connections == nil {
			c.Connections = []string{}
		}
		next[c.ID] = c
		order = append(order, c.ID)
	}
	s.goals = next
	s.order = order
	return nil
}

// generateUniqueID generates a goal ID and retries once on collision.
func (s *Store) generateUniqueID() (string, error) {
	for attempt := 0; attempt < 2; attempt++ {
		id, err := GenerateID()
		if err != nil {
			return "", err
		}
		if _, exists := s.goals[id]; !exists {
			return id, nil
		}
	}
	return "", fmt.Errorf("goal: failed to generate unique ID after retries")
}

// removeID deletes the first occurrence of id in the slice, reporting whether
// anything was removed.
func removeID(ids *[]string, id string) bool {
	for i, v := range *ids {
		if v == id {
			*ids = append((*ids)[:i], (*ids)[i+1:]...)
			return true
		}
	}
	return false
}
