package tracker

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
	apperrors "github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/errors"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/scheduler"
)

// Dashboard is the per-date view: ranked plans with live-adjusted totals.
type Dashboard struct {
	Date             string                 `json:"date"`
	DayType          models.DayType         `json:"day_type"`
	Historical       bool                   `json:"historical"`
	HasLoggedTime    bool                   `json:"has_logged_time"`
	Rows             []models.PlanProgress  `json:"rows"`
	TrackedSeconds   int64                  `json:"tracked_seconds"`
	UntrackedMinutes int                    `json:"untracked_minutes"`
	Running          *models.RunningSession `json:"running,omitempty"`
	LiveSeconds      int64                  `json:"live_seconds"`
	State            string                 `json:"state"`
}

// Dashboard assembles the view for the currently viewed date.
func (t *Tracker) Dashboard(ctx context.Context) (Dashboard, error) {
	owner, err := t.identity.CurrentIdentity(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	t.mu.Lock()
	date := t.viewDate
	state := t.state
	var running *models.RunningSession
	if t.running != nil {
		rs := *t.running
		running = &rs
	}
	t.mu.Unlock()

	today := t.Today()
	historical := date != today
	if historical {
		running = nil
	}

	dayType, err := scheduler.Classify(date)
	if err != nil {
		return Dashboard{}, err
	}

	var (
		plans  []models.Plan
		totals []models.PlanTotal
		daily  *models.DailyTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plans, err = t.store.ListActivePlans(gctx, owner)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = t.store.PlanTotalsForDate(gctx, owner, date)
		return err
	})
	g.Go(func() error {
		var err error
		daily, err = t.store.GetDailyTotal(gctx, owner, date)
		return err
	})
	if err := g.Wait(); err != nil {
		t.metrics.PersistenceFailed("dashboard")
		return Dashboard{}, apperrors.Persistence("dashboard", err)
	}

	var live int64
	runningPlanID := ""
	if running != nil {
		live = LiveElapsed(running.StartTime, t.clock.Now())
		runningPlanID = running.PlanID
	}

	base := make(map[string]int64, len(totals))
	for _, pt := range totals {
		base[pt.PlanID] += pt.Seconds
	}

	ranked := Rank(scheduler.PlansForDayType(plans, dayType), runningPlanID, t.history.Snapshot())
	rows := make([]models.PlanProgress, 0, len(ranked))
	for _, p := range ranked {
		row := models.PlanProgress{Plan: p, BaseSeconds: base[p.ID]}
		if p.ID == runningPlanID {
			row.Active = true
			row.LiveSeconds = live
		}
		row.TotalSeconds = row.BaseSeconds + row.LiveSeconds
		row.Progress, row.Status = Progress(row.TotalSeconds, p.TargetMinutes)
		rows = append(rows, row)
	}

	var tracked int64
	if daily != nil {
		tracked = daily.TotalSeconds
	}
	tracked += live

	return Dashboard{
		Date:             date,
		DayType:          dayType,
		Historical:       historical,
		HasLoggedTime:    daily != nil || live > 0,
		Rows:             rows,
		TrackedSeconds:   tracked,
		UntrackedMinutes: UntrackedMinutes(tracked),
		Running:          running,
		LiveSeconds:      live,
		State:            state.String(),
	}, nil
}

// Progress returns total/target and the row status for a plan target.
func Progress(totalSeconds int64, targetMinutes int) (float64, models.ProgressStatus) {
	if targetMinutes <= 0 {
		return 0, models.ProgressPending
	}
	minutes := int(totalSeconds / 60)
	ratio := float64(totalSeconds) / float64(targetMinutes*60)
	overdoneAt := targetMinutes + int(float64(targetMinutes)*constants.OverdoneTolerance)
	switch {
	case minutes > overdoneAt:
		return ratio, models.ProgressOverdone
	case minutes >= targetMinutes:
		return ratio, models.ProgressCompleted
	}
	return ratio, models.ProgressPending
}

// UntrackedMinutes is what remains of the day after tracked seconds.
func UntrackedMinutes(trackedSeconds int64) int {
	left := constants.MinutesPerDay - int(trackedSeconds/60)
	if left < 0 {
		return 0
	}
	return left
}
