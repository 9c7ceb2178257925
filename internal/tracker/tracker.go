// Package tracker owns the single running session for the signed-in owner.
//
// Every store round trip happens outside the tracker's lock. Results are
// applied only if the viewed date has not changed since the operation began,
// so a write that lands after the user navigated away never resurrects a
// stale Running state.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/clock"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
	apperrors "github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/errors"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/identity"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/logger"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/metrics"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

type State int

const (
	StateIdle State = iota
	StateRecovering
	StateStarting
	StateRunning
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecovering:
		return "recovering"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	}
	return "unknown"
}

var (
	// ErrBusy is returned when a lifecycle operation is already in flight for the viewed date.
	ErrBusy = errors.New("another session operation is in progress")
	// ErrStoppedElsewhere means the running session was closed by another process.
	ErrStoppedElsewhere = errors.New("session was already stopped elsewhere")
)

type Options struct {
	Clock        clock.Clock
	Location     *time.Location
	HistoryLimit int
	Metrics      *metrics.Metrics
}

type Tracker struct {
	store    storage.Provider
	identity identity.Provider
	clock    clock.Clock
	loc      *time.Location
	history  *History
	metrics  *metrics.Metrics
	log      *log.Logger

	mu       sync.Mutex
	viewDate string
	follow   bool   // the view tracks today across midnight
	gen      uint64 // bumped on every view change
	state    State
	running  *models.RunningSession
	busy     bool
	busyGen  uint64
}

// New creates a tracker viewing today, in the Idle state. Call Bootstrap or
// Recover to adopt an open session left by a previous run.
func New(store storage.Provider, ident identity.Provider, opts Options) *Tracker {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Clock == nil {
		opts.Clock = clock.System{Loc: opts.Location}
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = constants.DefaultHistoryLimit
	}
	t := &Tracker{
		store:    store,
		identity: ident,
		clock:    opts.Clock,
		loc:      opts.Location,
		history:  NewHistory(opts.HistoryLimit),
		metrics:  opts.Metrics,
		log:      logger.With("component", "tracker"),
	}
	t.viewDate = t.Today()
	t.follow = true
	return t
}

// Today is the clock's current date in the tracker's location.
func (t *Tracker) Today() string {
	return utils.FormatDate(t.clock.Now().In(t.loc))
}

func (t *Tracker) Now() time.Time {
	return t.clock.Now().In(t.loc)
}

func (t *Tracker) Location() *time.Location {
	return t.loc
}

func (t *Tracker) ViewDate() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewDate
}

// IsToday reports whether the viewed date is the clock's current date.
func (t *Tracker) IsToday() bool {
	return t.ViewDate() == t.Today()
}

func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Running returns the adopted open session, if any.
func (t *Tracker) Running() (models.RunningSession, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running == nil {
		return models.RunningSession{}, false
	}
	return *t.running, true
}

// RunningStart returns the running session's start time while viewing today.
func (t *Tracker) RunningStart() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running == nil || t.viewDate != t.Today() {
		return time.Time{}, false
	}
	return t.running.StartTime, true
}

// Elapsed is the live elapsed seconds of the running session, 0 when idle or viewing history.
func (t *Tracker) Elapsed() int64 {
	start, ok := t.RunningStart()
	if !ok {
		return 0
	}
	return LiveElapsed(start, t.clock.Now())
}

// History returns the most-recent-first list of started plan ids.
func (t *Tracker) History() []string {
	return t.history.Snapshot()
}

// SetViewDate switches the viewed date. The running view is cleared before any
// store read so a previous date's timer never carries over. Returning to today
// triggers recovery.
func (t *Tracker) SetViewDate(ctx context.Context, date string) error {
	if !utils.ValidateDate(date) {
		return apperrors.NewValidationError("date", "invalid date %q (expected YYYY-MM-DD)", date)
	}

	t.mu.Lock()
	t.viewDate = date
	t.follow = date == t.Today()
	t.gen++
	t.running = nil
	t.state = StateIdle
	t.mu.Unlock()

	if date == t.Today() {
		return t.Recover(ctx)
	}
	t.metrics.Recovered("skipped")
	t.log.Debug("viewing historical date", "date", date)
	return nil
}

// RolledOver reports whether the view was following today and the clock has
// since moved to a new date.
func (t *Tracker) RolledOver() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.follow && t.viewDate != t.Today()
}

// Refresh resynchronises with the store for hosts that outlive a single
// command. A view that follows today moves to the new date after midnight
// without dropping the running session, so a live timer never reads a gap.
// A view of today re-adopts whatever session is open, picking up starts and
// stops made by other processes. A historical view is left alone.
func (t *Tracker) Refresh(ctx context.Context) error {
	t.mu.Lock()
	view, follow := t.viewDate, t.follow
	t.mu.Unlock()

	switch today := t.Today(); {
	case follow && view != today:
		t.mu.Lock()
		if t.viewDate == view {
			// An open session carries over to the new date; Recover confirms it.
			t.viewDate = today
			t.gen++
			t.state = StateIdle
			if t.running != nil {
				t.state = StateRunning
			}
		}
		t.mu.Unlock()
		t.log.Debug("date rolled over", "from", view, "to", today)
		return t.Recover(ctx)
	case view == today:
		return t.Recover(ctx)
	}
	return nil
}

// Bootstrap seeds the recency history from today's closed sessions and adopts any open session.
func (t *Tracker) Bootstrap(ctx context.Context) error {
	owner, err := t.identity.CurrentIdentity(ctx)
	if err != nil {
		return err
	}
	if t.IsToday() {
		today := t.Today()
		sessions, err := t.store.ListClosedSessions(ctx, owner, models.DateRange{From: today, To: today})
		if err != nil {
			t.metrics.PersistenceFailed("bootstrap")
			return apperrors.Persistence("bootstrap", err)
		}
		// Oldest first, so the latest start ends up at the front.
		for _, s := range sessions {
			t.history.Push(s.PlanID)
		}
	}
	return t.Recover(ctx)
}

// Recover adopts the owner's most recently started open session. It creates
// nothing and is safe to call repeatedly. On a historical view it only clears
// the running state.
func (t *Tracker) Recover(ctx context.Context) error {
	owner, err := t.identity.CurrentIdentity(ctx)
	if err != nil {
		return err
	}

	t.mu.Lock()
	if t.viewDate != t.Today() {
		t.running = nil
		t.state = StateIdle
		t.mu.Unlock()
		t.metrics.Recovered("skipped")
		return nil
	}
	t.mu.Unlock()

	snap, err := t.begin(StateRecovering)
	if err != nil {
		return err
	}

	open, err := t.store.FindOpenSession(ctx, owner)
	if err != nil {
		t.finish(snap, "recover", snap.restore(t))
		t.metrics.PersistenceFailed("recover")
		t.log.Error("recover failed", "owner", owner, "error", err)
		return apperrors.Persistence("recover", err)
	}

	if open == nil {
		t.finish(snap, "recover", func() {
			t.running = nil
			t.state = StateIdle
		})
		t.metrics.Recovered("none")
		t.log.Debug("no open session", "owner", owner)
		return nil
	}

	rs := models.RunningFromSession(*open)
	t.history.Push(rs.PlanID)
	t.finish(snap, "recover", func() {
		t.running = &rs
		t.state = StateRunning
	})
	t.metrics.Recovered("adopted")
	t.log.Debug("adopted open session", "owner", owner, "session", rs.SessionID, "plan", rs.PlanID)
	return nil
}

// Start opens a session for planID. A session already running is stopped
// first, including one another process opened since the last Recover.
// Start is only allowed while viewing today.
func (t *Tracker) Start(ctx context.Context, planID, activityName string) (models.RunningSession, error) {
	return t.start(ctx, planID, activityName, true)
}

func (t *Tracker) start(ctx context.Context, planID, activityName string, retry bool) (models.RunningSession, error) {
	owner, err := t.identity.CurrentIdentity(ctx)
	if err != nil {
		return models.RunningSession{}, err
	}
	if planID == "" {
		return models.RunningSession{}, apperrors.NewValidationError("plan_id", "must not be empty")
	}
	if activityName == "" {
		return models.RunningSession{}, apperrors.NewValidationError("activity_name", "must not be empty")
	}
	if !t.IsToday() {
		return models.RunningSession{}, apperrors.ErrHistoricalView
	}

	snap, err := t.begin(StateStarting)
	if err != nil {
		return models.RunningSession{}, err
	}

	// Once the previous session is closed the store no longer matches the
	// pre-operation view, so later failures settle on Idle instead.
	onFailure := snap.restore(t)
	if snap.running != nil {
		prev := *snap.running
		closed, err := t.closeSession(ctx, prev)
		if err != nil {
			t.finish(snap, "start", onFailure)
			t.metrics.PersistenceFailed("start")
			t.log.Error("stopping previous session failed", "owner", owner, "session", prev.SessionID, "error", err)
			return models.RunningSession{}, apperrors.Persistence("start", err)
		}
		t.log.Debug("stopped previous session", "owner", owner, "session", prev.SessionID, "seconds", closed)
		onFailure = func() {
			t.running = nil
			t.state = StateIdle
		}
	}

	now := t.clock.Now()
	sess, err := t.store.CreateSession(ctx, models.NewSession{
		OwnerID:      owner,
		PlanID:       planID,
		ActivityName: activityName,
		ActivityDate: utils.FormatDate(now.In(t.loc)),
		StartTime:    now,
	})
	if err != nil {
		t.finish(snap, "start", onFailure)
		if errors.Is(err, storage.ErrOpenSessionExists) {
			// Opened by another process: adopt it, then stop it like any
			// running session on the one retry.
			t.log.Warn("open session already exists, recovering", "owner", owner)
			rerr := t.Recover(ctx)
			if rerr == nil && retry {
				if _, adopted := t.Running(); adopted {
					return t.start(ctx, planID, activityName, false)
				}
			}
			if rerr != nil {
				t.log.Error("recover after start conflict failed", "owner", owner, "error", rerr)
			}
		} else {
			t.log.Error("start failed", "owner", owner, "plan", planID, "error", err)
		}
		t.metrics.PersistenceFailed("start")
		return models.RunningSession{}, apperrors.Persistence("start", err)
	}

	rs := models.RunningFromSession(sess)
	t.history.Push(planID)
	t.finish(snap, "start", func() {
		t.running = &rs
		t.state = StateRunning
	})
	t.metrics.SessionStarted()
	t.log.Debug("started session", "owner", owner, "session", rs.SessionID, "plan", planID)
	return rs, nil
}

// Stop closes the running session. sessionID may be empty to mean "whatever
// is running"; a mismatched id is rejected rather than closing another record.
func (t *Tracker) Stop(ctx context.Context, sessionID string) (models.ActivitySession, error) {
	owner, err := t.identity.CurrentIdentity(ctx)
	if err != nil {
		return models.ActivitySession{}, err
	}
	if !t.IsToday() {
		return models.ActivitySession{}, apperrors.ErrHistoricalView
	}

	snap, err := t.begin(StateStopping)
	if err != nil {
		return models.ActivitySession{}, err
	}
	if snap.running == nil {
		t.finish(snap, "stop", snap.restore(t))
		return models.ActivitySession{}, apperrors.NewValidationError("session", "no session is running")
	}
	if sessionID != "" && sessionID != snap.running.SessionID {
		t.finish(snap, "stop", snap.restore(t))
		return models.ActivitySession{}, apperrors.NewValidationError("session", "session %s is not the running session", sessionID)
	}

	rs := *snap.running
	end := t.clock.Now()
	dur := LiveElapsed(rs.StartTime, end)
	err = t.store.CloseSession(ctx, rs.SessionID, end, dur)
	if errors.Is(err, storage.ErrNotFound) {
		// The stored row has its own end time; nothing here matches it.
		t.finish(snap, "stop", func() {
			t.running = nil
			t.state = StateIdle
		})
		t.log.Warn("session already stopped elsewhere", "owner", owner, "session", rs.SessionID)
		if rerr := t.Recover(ctx); rerr != nil {
			t.log.Error("recover after stale stop failed", "owner", owner, "error", rerr)
		}
		return models.ActivitySession{}, apperrors.Persistence("stop", fmt.Errorf("%w: %w", ErrStoppedElsewhere, err))
	}
	if err != nil {
		t.finish(snap, "stop", snap.restore(t))
		t.metrics.PersistenceFailed("stop")
		t.log.Error("stop failed", "owner", owner, "session", rs.SessionID, "error", err)
		return models.ActivitySession{}, apperrors.Persistence("stop", err)
	}

	t.finish(snap, "stop", func() {
		t.running = nil
		t.state = StateIdle
	})
	t.metrics.SessionStopped(dur)
	t.log.Debug("stopped session", "owner", owner, "session", rs.SessionID, "seconds", dur)

	return models.ActivitySession{
		ID:              rs.SessionID,
		OwnerID:         owner,
		PlanID:          rs.PlanID,
		ActivityName:    rs.ActivityName,
		ActivityDate:    utils.FormatDate(rs.StartTime.In(t.loc)),
		StartTime:       rs.StartTime,
		EndTime:         &end,
		DurationSeconds: &dur,
	}, nil
}

// closeSession closes rs at now. A session already closed elsewhere is left
// as stored and not counted again.
func (t *Tracker) closeSession(ctx context.Context, rs models.RunningSession) (int64, error) {
	end := t.clock.Now()
	dur := LiveElapsed(rs.StartTime, end)
	err := t.store.CloseSession(ctx, rs.SessionID, end, dur)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return 0, nil
	case err != nil:
		return 0, err
	}
	t.metrics.SessionStopped(dur)
	return dur, nil
}

type snapshot struct {
	gen     uint64
	state   State
	running *models.RunningSession
}

// restore returns a func that puts the pre-operation state back.
func (s snapshot) restore(t *Tracker) func() {
	return func() {
		t.state = s.state
		t.running = s.running
	}
}

// begin marks an operation in flight and moves to a transient state.
func (t *Tracker) begin(transient State) (snapshot, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.busy && t.busyGen == t.gen {
		return snapshot{}, ErrBusy
	}
	snap := snapshot{gen: t.gen, state: t.state}
	if t.running != nil {
		rs := *t.running
		snap.running = &rs
	}
	t.busy = true
	t.busyGen = t.gen
	t.state = transient
	return snap, nil
}

// finish applies the result unless the view changed while the operation was in flight.
func (t *Tracker) finish(snap snapshot, op string, apply func()) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.busyGen == snap.gen {
		t.busy = false
	}
	if t.gen != snap.gen {
		t.metrics.Discarded(op)
		t.log.Debug("discarding result for stale view", "op", op)
		return false
	}
	apply()
	return true
}
