package notify

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/northstar/summit/internal/goal"
	"github.com/northstar/summit/internal/models"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []Message
}

func (f *fakeSender) Send(_ context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) messages() []Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Message(nil), f.sent...)
}

func statusPtr(v models.Status) *models.Status { return &v }

func TestDispatcher_AnnouncesTransitions(t *testing.T) {
	store := goal.New(goal.Opts{})
	g, err := store.Create(goal.CreateOpts{Title: "Launch"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	events, cancel := store.Watch()
	sender := &fakeSender{}
	d := NewDispatcher(store, sender)

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.Run(context.Background(), events)
	}()

	store.UpdateGoal(g.ID, goal.Update{Status: statusPtr(models.StatusAtRisk)})
	store.UpdateGoal(g.ID, goal.Update{Progress: intPtr(10)}) // no transition
	cancel()
	<-done

	sent := sender.messages()
	if len(sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sent))
	}
	if sent[0].Old != models.StatusOnTrack || sent[0].New != models.StatusAtRisk {
		t.Errorf("transition = %q → %q", sent[0].Old, sent[0].New)
	}
	if sent[0].Title != "Launch" {
		t.Errorf("Title = %q, want Launch", sent[0].Title)
	}
}

func intPtr(v int) *int { return &v }

func TestFormat(t *testing.T) {
	got := Format(Message{Title: "Launch", Old: models.StatusOnTrack, New: models.StatusAtRisk})
	if !strings.Contains(got, "Launch") || !strings.Contains(got, "at-risk") {
		t.Errorf("Format = %q", got)
	}

	got = Format(Message{Title: "Launch", Old: models.StatusOnTrack, New: models.StatusCompleted})
	if !strings.Contains(got, "completed") {
		t.Errorf("Format = %q, want completion wording", got)
	}

	// Falls back to the id when the goal is gone.
	got = Format(Message{GoalID: "gl-123", Old: models.StatusOnTrack, New: models.StatusOffTrack})
	if !strings.Contains(got, "gl-123") {
		t.Errorf("Format = %q, want id fallback", got)
	}
}

func TestTransition(t *testing.T) {
	cases := []struct {
		name string
		ev   goal.Event
		want bool
	}{
		{"status change", goal.Event{Type: goal.EventUpdated, OldStatus: models.StatusOnTrack, NewStatus: models.StatusAtRisk}, true},
		{"no change", goal.Event{Type: goal.EventUpdated, OldStatus: models.StatusOnTrack, NewStatus: models.StatusOnTrack}, false},
		{"delete", goal.Event{Type: goal.EventDeleted, OldStatus: models.StatusOnTrack, NewStatus: models.StatusAtRisk}, false},
		{"create has no old status", goal.Event{Type: goal.EventCreated, NewStatus: models.StatusOnTrack}, false},
	}
	for _, tc := range cases {
		if got := transition(tc.ev); got != tc.want {
			t.Errorf("%s: transition = %v, want %v", tc.name, got, tc.want)
		}
	}
}
