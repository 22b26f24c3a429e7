package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/northstar/summit/internal/models"
)

// EventType identifies the kind of store mutation an Event describes.
type EventType string

// Event types published on the change feed.
const (
	EventCreated           EventType = "created"
	EventUpdated           EventType = "updated"
	EventDeleted           EventType = "deleted"
	EventCheckIn           EventType = "check-in"
	EventDependencyAdded   EventType = "dependency-added"
	EventDependencyRemoved EventType = "dependency-removed"
)

// Event describes a committed store mutation. OldStatus and NewStatus carry
// the goal's status around the mutation so consumers can react to
// transitions.
type Event struct {
	Type      EventType     `json:"type"`
	GoalID    string        `json:"goalId"`
	OldStatus models.Status `json:"oldStatus,omitempty"`
	NewStatus models.Status `json:"newStatus,omitempty"`
	At        time.Time     `json:"at"`
}

// watchBuffer is the per-subscriber channel depth. A subscriber that falls
// behind loses events rather than blocking mutations.
const watchBuffer = 64

// Watch subscribes to the change feed. The returned cancel func must be
// called to release the subscription; the channel is closed by it.
func (s *Store) Watch() (<-chan Event, func()) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := uuid.NewString()
	ch := make(chan Event, watchBuffer)
	s.subs[id] = ch

	cancel := func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// publish delivers the event to every subscriber without blocking.
func (s *Store) publish(ev Event) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
