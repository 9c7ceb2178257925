package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/api"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/cli"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
)

type ServeCmd struct {
	Addr string `help:"Address to listen on. Defaults to server.addr from the config file."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tr, err := ctx.Tracker(sigCtx)
	if err != nil {
		return err
	}

	srv := api.NewServer(api.Deps{
		Tracker:  tr,
		Reports:  ctx.Reports(sigCtx),
		Plans:    ctx.Plans(),
		Store:    ctx.Store,
		Metrics:  ctx.Metrics,
		Gatherer: ctx.Gatherer,
	})

	addr := c.Addr
	if addr == "" && ctx.Config != nil {
		addr = ctx.Config.Server.Addr
	}
	if addr == "" {
		addr = constants.DefaultServerAddr
	}
	ctx.Printf("Serving on http://%s (Ctrl+C to stop)\n", addr)
	return srv.ListenAndServe(sigCtx, addr)
}
