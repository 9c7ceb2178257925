package system

import (
	"context"
	"errors"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/notifier"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	bg := context.Background()

	owner, err := ctx.Owner(bg)
	if err != nil {
		return err
	}
	settings, err := ctx.Settings(bg)
	if err != nil {
		return err
	}
	tr, err := ctx.Tracker(bg)
	if err != nil {
		return err
	}

	var user *models.User
	u, err := ctx.Store.GetUser(bg, owner)
	switch {
	case err == nil:
		user = &u
	case !errors.Is(err, storage.ErrNotFound):
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	var alerts *notifier.TargetAlerts
	if settings.NotifyOnTarget {
		alerts = notifier.NewTargetAlerts(notifier.New())
	}

	return tui.Run(bg, tui.Options{
		Tracker:  tr,
		Reports:  ctx.Reports(bg),
		Plans:    ctx.Plans(),
		Store:    ctx.Store,
		Alerts:   alerts,
		Settings: settings,
		User:     user,
		Tick:     ctx.TickInterval(),
		Sync:     ctx.SyncInterval(),
	})
}
