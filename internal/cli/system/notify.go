package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/notifier"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tracker"
)

// printSender writes notifications to the command output instead of the tray app.
type printSender struct {
	ctx *cli.Context
}

func (p printSender) Notify(_ context.Context, text string) error {
	p.ctx.Println("[DryRun] " + text)
	return nil
}

func sender(ctx *cli.Context, dryRun bool) notifier.Sender {
	if dryRun {
		return printSender{ctx: ctx}
	}
	return notifier.New()
}

type NotifyTestCmd struct {
	Message string `arg:"" optional:"" help:"Text to send." default:"dayspent notifications are working"`
	DryRun  bool   `help:"Print the notification instead of sending it."`
}

func (c *NotifyTestCmd) Run(ctx *cli.Context) error {
	if err := sender(ctx, c.DryRun).Notify(context.Background(), c.Message); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if !c.DryRun {
		ctx.Println("✓ Notification sent")
	}
	return nil
}

// NotifyWatchCmd sends a notification when the running session reaches its
// plan target. Sessions started from other processes are picked up on each poll.
type NotifyWatchCmd struct {
	DryRun bool          `help:"Print notifications instead of sending them."`
	Poll   time.Duration `help:"How often to look for sessions started elsewhere." default:"15s"`
	Force  bool          `help:"Watch even when notify-on-target is disabled in settings."`
}

func (c *NotifyWatchCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	settings, err := ctx.Settings(bg)
	if err != nil {
		return err
	}
	if !settings.NotifyOnTarget && !c.Force {
		ctx.Println("Target notifications are disabled. Enable them with 'dayspent settings --notify-on-target' or pass --force.")
		return nil
	}

	tr, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(bg, os.Interrupt)
	defer stop()

	ctx.Println("Watching for targets. Press Ctrl+C to stop.")
	err = watch(sigCtx, tr, notifier.NewTargetAlerts(sender(ctx, c.DryRun)), ctx.TickInterval(), c.Poll)
	if sigCtx.Err() != nil {
		return nil
	}
	return err
}

// watch runs the target alerts and a poller that keeps tr on today's open session.
func watch(ctx context.Context, tr *tracker.Tracker, alerts *notifier.TargetAlerts, tick, poll time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return alerts.Watch(gctx, tr, tick)
	})
	g.Go(func() error {
		return tracker.Follow(gctx, tr, poll)
	})
	return g.Wait()
}
