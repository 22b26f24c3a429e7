// Package checkin tracks goal check-in freshness. A cron-scheduled sweeper
// flips goals without a recent check-in to the no-recent-updates status.
package checkin

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/northstar/summit/internal/goal"
)

// Sweeper periodically marks stale goals on a store.
type Sweeper struct {
	store    *goal.Store
	window   time.Duration
	schedule string
	now      func() time.Time
}

// Opts holds parameters for creating a Sweeper.
type Opts struct {
	Store    *goal.Store
	Window   time.Duration // how long without a check-in counts as stale
	Schedule string        // 5-field cron expression
	Now      func() time.Time
}

// New creates a Sweeper. The schedule is validated up front.
func New(opts Opts) (*Sweeper, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("checkin: store is required")
	}
	if opts.Window <= 0 {
		return nil, fmt.Errorf("checkin: window must be positive")
	}
	if _, err := parseSchedule(opts.Schedule); err != nil {
		return nil, err
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Sweeper{
		store:    opts.Store,
		window:   opts.Window,
		schedule: opts.Schedule,
		now:      opts.Now,
	}, nil
}

// SweepOnce runs a single staleness sweep and returns the ids it changed.
func (sw *Sweeper) SweepOnce() []string {
	return sw.store.MarkStale(sw.window)
}

// Run sweeps on the cron schedule until ctx is cancelled.
func (sw *Sweeper) Run(ctx context.Context) error {
	sched, err := parseSchedule(sw.schedule)
	if err != nil {
		return err
	}

	for {
		timer := time.NewTimer(nextFireDuration(sched, sw.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			if changed := sw.SweepOnce(); len(changed) > 0 {
				log.Printf("checkin: marked %d goal(s) stale: %v", len(changed), changed)
			}
		}
	}
}
