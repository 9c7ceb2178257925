package report

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/clock"
	apperrors "github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/errors"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/identity"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/logger"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/metrics"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/scheduler"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

// Engine loads the report inputs for the signed-in owner.
type Engine struct {
	store    storage.Provider
	identity identity.Provider
	clock    clock.Clock
	loc      *time.Location
	metrics  *metrics.Metrics
	log      *log.Logger
}

func NewEngine(store storage.Provider, ident identity.Provider, c clock.Clock, loc *time.Location, m *metrics.Metrics) *Engine {
	if loc == nil {
		loc = time.Local
	}
	if c == nil {
		c = clock.System{Loc: loc}
	}
	return &Engine{
		store:    store,
		identity: ident,
		clock:    c,
		loc:      loc,
		metrics:  m,
		log:      logger.With("component", "report"),
	}
}

// Result is a report plus the plan set it was computed from.
type Result struct {
	Report
	Plans []models.Plan `json:"-"`
}

// Build aggregates the window of kind ending today.
func (e *Engine) Build(ctx context.Context, kind scheduler.RangeKind) (Result, error) {
	defer e.metrics.ObserveReport(e.clock.Now())

	owner, err := e.identity.CurrentIdentity(ctx)
	if err != nil {
		return Result{}, err
	}

	today := utils.FormatDate(e.clock.Now().In(e.loc))
	window, err := scheduler.ReportWindow(today, kind)
	if err != nil {
		return Result{}, apperrors.NewValidationError("range", "%v", err)
	}

	var (
		plans    []models.Plan
		sessions []models.ActivitySession
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		plans, err = e.store.ListPlans(gctx, owner, true)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = e.store.ListClosedSessions(gctx, owner, window.Range())
		return err
	})
	if err := g.Wait(); err != nil {
		e.metrics.PersistenceFailed("report")
		e.log.Error("report fetch failed", "owner", owner, "error", err)
		return Result{}, apperrors.Persistence("report", err)
	}

	e.log.Debug("building report", "owner", owner, "range", kind, "from", window.From, "to", window.To, "sessions", len(sessions))
	return Result{Report: Aggregate(plans, sessions, window), Plans: plans}, nil
}
