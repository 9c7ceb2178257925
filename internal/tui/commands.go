package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/logger"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/planner"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/report"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tracker"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

type tickMsg time.Time

type dashboardMsg struct {
	dashboard tracker.Dashboard
	err       error
}

type plansMsg struct {
	plans   []models.Plan
	budgets []planner.Budget
	err     error
}

type reportMsg struct {
	result report.Result
	err    error
}

// actionMsg reports a finished write. Every write refreshes the views it can affect.
type actionMsg struct {
	status string
	err    error
}

// syncedMsg follows a store re-read; rolled is set when the view moved to a new date.
type syncedMsg struct {
	rolled bool
	err    error
}

type planSavedMsg struct {
	plan models.Plan
	err  error
}

type settingsSavedMsg struct {
	settings models.Settings
	err      error
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) loadDashboard() tea.Cmd {
	return func() tea.Msg {
		d, err := m.tracker.Dashboard(m.ctx)
		return dashboardMsg{dashboard: d, err: err}
	}
}

func (m Model) loadPlans() tea.Cmd {
	return func() tea.Msg {
		ps, err := m.planSvc.List(m.ctx, true)
		if err != nil {
			return plansMsg{err: err}
		}
		budgets, err := m.planSvc.Budgets(m.ctx)
		return plansMsg{plans: ps, budgets: budgets, err: err}
	}
}

func (m Model) loadReport() tea.Cmd {
	kind := m.reportModel.Kind()
	return func() tea.Msg {
		res, err := m.reports.Build(m.ctx, kind)
		return reportMsg{result: res, err: err}
	}
}

func (m Model) refreshAll() tea.Cmd {
	return tea.Batch(m.loadDashboard(), m.loadPlans(), m.loadReport())
}

func (m Model) startCmd(p models.Plan) tea.Cmd {
	return func() tea.Msg {
		rs, err := m.tracker.Start(m.ctx, p.ID, p.ActivityName)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: fmt.Sprintf("Started %s", rs.ActivityName)}
	}
}

func (m Model) stopCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		s, err := m.tracker.Stop(m.ctx, sessionID)
		if err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: fmt.Sprintf("Stopped %s after %s", s.ActivityName, utils.FormatElapsed(s.Seconds()))}
	}
}

func (m Model) syncCmd() tea.Cmd {
	return func() tea.Msg {
		before := m.tracker.ViewDate()
		err := m.tracker.Refresh(m.ctx)
		if errors.Is(err, tracker.ErrBusy) {
			err = nil
		}
		return syncedMsg{rolled: m.tracker.ViewDate() != before, err: err}
	}
}

func (m Model) viewDateCmd(date string) tea.Cmd {
	return func() tea.Msg {
		if err := m.tracker.SetViewDate(m.ctx, date); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{}
	}
}

func (m Model) savePlanCmd(p models.Plan) tea.Cmd {
	return func() tea.Msg {
		saved, err := m.planSvc.Save(m.ctx, p)
		return planSavedMsg{plan: saved, err: err}
	}
}

func (m Model) deactivateCmd(p models.Plan) tea.Cmd {
	return func() tea.Msg {
		if err := m.planSvc.Deactivate(m.ctx, p.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: fmt.Sprintf("Deactivated %s", p.ActivityName)}
	}
}

func (m Model) restoreCmd(p models.Plan) tea.Cmd {
	return func() tea.Msg {
		if err := m.planSvc.Restore(m.ctx, p.ID); err != nil {
			return actionMsg{err: err}
		}
		return actionMsg{status: fmt.Sprintf("Restored %s", p.ActivityName)}
	}
}

func (m Model) saveSettingsCmd(s models.Settings) tea.Cmd {
	return func() tea.Msg {
		owner, err := m.planSvc.Owner(m.ctx)
		if err != nil {
			return settingsSavedMsg{err: err}
		}
		if err := m.store.SaveSettings(m.ctx, owner, s); err != nil {
			return settingsSavedMsg{err: err}
		}
		return settingsSavedMsg{settings: s}
	}
}

// alertCmd checks the target watcher off the update loop since delivery does network I/O.
func (m Model) alertCmd(d tracker.Dashboard) tea.Cmd {
	if m.alerts == nil || d.Running == nil || !m.settingsModel.Settings().NotifyOnTarget {
		return nil
	}
	return func() tea.Msg {
		if m.alerts.CheckDashboard(m.ctx, d) {
			logger.Debug("target reached", "session", d.Running.SessionID)
		}
		return nil
	}
}
