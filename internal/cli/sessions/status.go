package sessions

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"golang.org/x/sync/errgroup"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tracker"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

type StatusCmd struct {
	Watch bool `help:"Keep the timer on screen until interrupted."`
}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	tr, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	rs, running := tr.Running()
	if !running {
		ctx.Println("Nothing is running.")
		return nil
	}
	if !c.Watch {
		ctx.Printf("%s · %s (since %s)\n", rs.ActivityName, utils.FormatElapsed(tr.Elapsed()), rs.StartTime.In(tr.Location()).Format("15:04"))
		return nil
	}

	sigCtx, stop := signal.NotifyContext(bg, os.Interrupt)
	defer stop()
	watchCtx, cancel := context.WithCancel(sigCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(watchCtx)
	g.Go(func() error {
		return tracker.Follow(gctx, tr, ctx.SyncInterval())
	})
	g.Go(func() error {
		defer cancel()
		current := rs
		return tracker.ForTracker(tr, ctx.TickInterval()).Run(gctx, func(elapsed int64, running bool) bool {
			if !running {
				if tr.RolledOver() {
					// The session is still open; wait for the poller to move to the new date.
					return true
				}
				ctx.Printf("\r%s stopped.            \n", current.ActivityName)
				return false
			}
			if now, ok := tr.Running(); ok && now.SessionID != current.SessionID {
				ctx.Printf("\r%s stopped.            \n", current.ActivityName)
				current = now
			}
			ctx.Printf("\r%s · %s", current.ActivityName, utils.FormatElapsed(elapsed))
			return true
		})
	})
	err = g.Wait()
	ctx.Println()
	if sigCtx.Err() != nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
