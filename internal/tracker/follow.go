package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
)

// Follow calls t.Refresh every interval until ctx is done, so a long-running
// host sees sessions started or stopped elsewhere and moves to the new date
// at midnight. Refresh failures are logged and retried on the next tick.
func Follow(ctx context.Context, t *Tracker, every time.Duration) error {
	if every <= 0 {
		every = constants.DefaultSyncInterval
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := t.Refresh(ctx); err != nil && !errors.Is(err, ErrBusy) && ctx.Err() == nil {
			t.log.Warn("refresh failed", "error", err)
		}
	}
}
