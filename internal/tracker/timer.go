package tracker

import (
	"context"
	"time"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
)

// LiveElapsed is the whole seconds between start and now, never negative.
func LiveElapsed(start, now time.Time) int64 {
	d := now.Sub(start)
	if d < 0 {
		return 0
	}
	return int64(d / time.Second)
}

// LiveTimer re-derives elapsed time from the running session's start on
// every tick, so missed ticks never accumulate drift.
type LiveTimer struct {
	interval time.Duration
	now      func() time.Time
	source   func() (time.Time, bool)
}

// NewLiveTimer ticks every interval. source reports the running start time,
// or false when nothing is running.
func NewLiveTimer(interval time.Duration, now func() time.Time, source func() (time.Time, bool)) *LiveTimer {
	if interval <= 0 {
		interval = constants.DefaultTickInterval
	}
	if now == nil {
		now = time.Now
	}
	return &LiveTimer{interval: interval, now: now, source: source}
}

// ForTracker builds a timer following t's running session.
func ForTracker(t *Tracker, interval time.Duration) *LiveTimer {
	return NewLiveTimer(interval, t.clock.Now, t.RunningStart)
}

// Elapsed is the current reading, 0 when idle.
func (lt *LiveTimer) Elapsed() int64 {
	start, ok := lt.source()
	if !ok {
		return 0
	}
	return LiveElapsed(start, lt.now())
}

// Run calls onTick immediately and then once per interval until ctx is done
// or onTick returns false.
func (lt *LiveTimer) Run(ctx context.Context, onTick func(elapsed int64, running bool) bool) error {
	ticker := time.NewTicker(lt.interval)
	defer ticker.Stop()

	for {
		start, ok := lt.source()
		var elapsed int64
		if ok {
			elapsed = LiveElapsed(start, lt.now())
		}
		if !onTick(elapsed, ok) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
