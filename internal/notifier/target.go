package notifier

import (
	"context"
	"time"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/logger"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tracker"
)

// TargetAlerts sends one notification per session when the running plan meets its target.
type TargetAlerts struct {
	sender  Sender
	watcher *tracker.TargetWatcher
}

func NewTargetAlerts(sender Sender) *TargetAlerts {
	return &TargetAlerts{sender: sender, watcher: tracker.NewTargetWatcher()}
}

// Check inspects the dashboard row backing the running session. It reports
// whether a notification was attempted. Delivery failures are logged only.
func (a *TargetAlerts) Check(ctx context.Context, sessionID string, row models.PlanProgress) bool {
	if !row.Active {
		return false
	}
	if !a.watcher.Crossed(sessionID, row.BaseSeconds, row.LiveSeconds, row.Plan.TargetMinutes) {
		return false
	}
	if err := a.sender.Notify(ctx, TargetReachedMessage(row.Plan.ActivityName)); err != nil {
		logger.Warn("target notification failed", "plan", row.Plan.ID, "error", err)
	}
	return true
}

// CheckDashboard runs Check against the active row of d, if any.
func (a *TargetAlerts) CheckDashboard(ctx context.Context, d tracker.Dashboard) bool {
	if d.Running == nil {
		return false
	}
	for _, row := range d.Rows {
		if row.Active {
			return a.Check(ctx, d.Running.SessionID, row)
		}
	}
	return false
}

// Watch follows tr's running session until ctx is done. The plan's logged
// base is read once per session; each tick only recomputes the live part.
func (a *TargetAlerts) Watch(ctx context.Context, tr *tracker.Tracker, interval time.Duration) error {
	var (
		sessionID string
		row       models.PlanProgress
		found     bool
	)
	timer := tracker.ForTracker(tr, interval)
	return timer.Run(ctx, func(elapsed int64, running bool) bool {
		if !running {
			return true
		}
		rs, ok := tr.Running()
		if !ok {
			return true
		}
		if rs.SessionID != sessionID {
			d, err := tr.Dashboard(ctx)
			if err != nil {
				logger.Warn("target watch: dashboard failed", "error", err)
				return true
			}
			sessionID = rs.SessionID
			found = false
			for _, r := range d.Rows {
				if r.Active {
					row, found = r, true
					break
				}
			}
		}
		if found {
			row.LiveSeconds = elapsed
			a.Check(ctx, sessionID, row)
		}
		return true
	})
}
