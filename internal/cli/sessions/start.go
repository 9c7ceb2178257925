package sessions

import (
	"context"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
)

type StartCmd struct {
	Plan string `arg:"" help:"Plan id or activity name."`
}

func (c *StartCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	tr, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	plan, err := resolvePlan(bg, ctx, tr, c.Plan)
	if err != nil {
		return err
	}

	prev, hadPrev := tr.Running()
	rs, err := tr.Start(bg, plan.ID, plan.ActivityName)
	if err != nil {
		return err
	}

	if hadPrev && prev.SessionID != rs.SessionID {
		ctx.Printf("Stopped %s\n", prev.ActivityName)
	}
	ctx.Printf("▶ Started %s at %s\n", rs.ActivityName, rs.StartTime.In(tr.Location()).Format("15:04"))
	return nil
}
