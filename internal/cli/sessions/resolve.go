package sessions

import (
	"context"
	"fmt"
	"strings"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/scheduler"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tracker"
)

// resolvePlan finds an active plan by id or activity name. Names are matched
// against today's day type first, then against every active plan.
func resolvePlan(ctx context.Context, c *cli.Context, tr *tracker.Tracker, arg string) (models.Plan, error) {
	plans, err := c.Plans().List(ctx, false)
	if err != nil {
		return models.Plan{}, err
	}

	for _, p := range plans {
		if p.ID == arg {
			return p, nil
		}
	}

	dayType, err := scheduler.Classify(tr.Today())
	if err != nil {
		return models.Plan{}, err
	}
	if p, ok, err := matchName(scheduler.PlansForDayType(plans, dayType), arg); ok || err != nil {
		return p, err
	}
	if p, ok, err := matchName(plans, arg); ok || err != nil {
		return p, err
	}
	return models.Plan{}, fmt.Errorf("no active plan matches %q", arg)
}

func matchName(plans []models.Plan, name string) (models.Plan, bool, error) {
	var matches []models.Plan
	for _, p := range plans {
		if strings.EqualFold(strings.TrimSpace(p.ActivityName), strings.TrimSpace(name)) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return models.Plan{}, false, nil
	case 1:
		return matches[0], true, nil
	}
	ids := make([]string, len(matches))
	for i, p := range matches {
		ids[i] = fmt.Sprintf("%s (%s)", p.ID, p.DayType)
	}
	return models.Plan{}, false, fmt.Errorf("%q matches several plans, use an id: %s", name, strings.Join(ids, ", "))
}
