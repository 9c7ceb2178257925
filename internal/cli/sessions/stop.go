package sessions

import (
	"context"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

type StopCmd struct {
	Session string `help:"Only stop if this session id is the running one."`
}

func (c *StopCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	tr, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	s, err := tr.Stop(bg, c.Session)
	if err != nil {
		return err
	}
	ctx.Printf("■ Stopped %s after %s\n", s.ActivityName, utils.FormatElapsed(s.Seconds()))
	return nil
}
