// Package notify fans goal status transitions out to chat channels.
// Delivery is best-effort: send failures are logged, never propagated back
// into the engine.
package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/northstar/summit/internal/goal"
	"github.com/northstar/summit/internal/models"
)

// Message describes one status transition to announce.
type Message struct {
	GoalID string
	Title  string
	Old    models.Status
	New    models.Status
}

// Sender delivers a message to one channel (Slack, Discord, ...).
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Dispatcher consumes the store's change feed and announces status
// transitions to every configured sender.
type Dispatcher struct {
	store   *goal.Store
	senders []Sender
}

// NewDispatcher creates a Dispatcher over the given senders.
func NewDispatcher(store *goal.Store, senders ...Sender) *Dispatcher {
	return &Dispatcher{store: store, senders: senders}
}

// Run forwards status transitions from the event feed until ctx is cancelled
// or the feed closes.
func (d *Dispatcher) Run(ctx context.Context, events <-chan goal.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			d.handle(ctx, ev)
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, ev goal.Event) {
	if !transition(ev) {
		return
	}
	msg := Message{GoalID: ev.GoalID, Old: ev.OldStatus, New: ev.NewStatus}
	if g, err := d.store.Get(ev.GoalID); err == nil {
		msg.Title = g.Title
	}
	for _, sender := range d.senders {
		if err := sender.Send(ctx, msg); err != nil {
			log.Printf("notify: send for %s failed: %v", ev.GoalID, err)
		}
	}
}

// transition reports whether the event represents a status change worth
// announcing.
func transition(ev goal.Event) bool {
	if ev.Type == goal.EventDeleted {
		return false
	}
	return ev.OldStatus != "" && ev.NewStatus != "" && ev.OldStatus != ev.NewStatus
}

// Format renders the message as a plain-text announcement shared by all
// senders.
func Format(msg Message) string {
	title := msg.Title
	if title == "" {
		title = msg.GoalID
	}
	if msg.New == models.StatusCompleted {
		return fmt.Sprintf("Goal %q is completed 🎉", title)
	}
	return fmt.Sprintf("Goal %q moved from %s to %s", title, msg.Old, msg.New)
}
