package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	apperrors "github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/errors"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tui/components/settings"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		body := max(0, msg.Height-6)
		m.dashboardModel.SetSize(msg.Width, body)
		m.plansModel.SetSize(msg.Width-4, body)
		m.reportModel.SetSize(msg.Width, body)
		m.settingsModel.SetSize(msg.Width, body)
		return m, nil

	case tickMsg:
		cmd := m.onTick()
		return m, tea.Batch(m.tickCmd(), cmd)

	case dashboardMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.dashboardModel.SetDashboard(msg.dashboard)
		return m, m.alertCmd(msg.dashboard)

	case plansMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.plansModel.SetPlans(msg.plans, msg.budgets)
		return m, nil

	case reportMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.reportModel.SetResult(msg.result)
		return m, nil

	case syncedMsg:
		m.syncing = false
		if msg.err != nil {
			m.err = msg.err
		}
		if msg.rolled {
			return m, m.refreshAll()
		}
		return m, m.loadDashboard()

	case actionMsg:
		m.err = msg.err
		if msg.status != "" {
			m.status = msg.status
		}
		return m, m.refreshAll()

	case planSavedMsg:
		if msg.err != nil {
			m.formError = msg.err.Error()
			m.form = m.buildPlanForm()
			m.state = StatePlanForm
			return m, m.form.Init()
		}
		m.formError = ""
		m.editingPlan = nil
		m.status = fmt.Sprintf("Saved %s", msg.plan.ActivityName)
		m.state = StatePlans
		return m, m.refreshAll()

	case settingsSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.settingsModel.SetSettings(msg.settings)
		m.status = "Settings saved (timezone changes apply on restart)"
		return m, nil

	case settings.EditSettingsMsg:
		m.openSettingsForm()
		return m, m.form.Init()
	}

	switch m.state {
	case StatePlanForm:
		return m.updatePlanForm(msg)
	case StateSettingsForm:
		return m.updateSettingsForm(msg)
	case StateConfirmDeactivate:
		return m.updateConfirmDeactivate(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if handled, cmd := m.handleGlobalKeys(msg); handled {
			return m, cmd
		}
		switch m.state {
		case StateDashboard:
			return m.updateDashboard(msg)
		case StatePlans:
			return m.updatePlans(msg)
		case StateReport:
			return m.updateReport(msg)
		case StateSettings:
			var cmd tea.Cmd
			m.settingsModel, cmd = m.settingsModel.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.dashboardModel, cmd = m.dashboardModel.Update(msg)
	return m, cmd
}

// onTick recomputes live time from the session start. The store is read only
// when the date rolls over, every sync interval, or when the tracker's running
// session no longer matches what is on screen.
func (m *Model) onTick() tea.Cmd {
	m.sinceSync += m.tick
	if !m.syncing && (m.tracker.RolledOver() || m.sinceSync >= m.sync) {
		m.syncing = true
		m.sinceSync = 0
		return m.syncCmd()
	}

	d := m.dashboardModel.Data()
	rs, running := m.tracker.Running()
	switch {
	case !m.dashboardModel.Loaded():
		return nil
	case running && (d.Running == nil || d.Running.SessionID != rs.SessionID):
		return m.loadDashboard()
	case !running && d.Running != nil:
		return m.loadDashboard()
	case running:
		m.dashboardModel.SetLive(m.tracker.Elapsed())
		return m.alertCmd(m.dashboardModel.Data())
	}
	return nil
}

func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return true, nil
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
		return true, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state + tabCount - 1) % tabCount
		return true, nil
	case key.Matches(msg, m.keys.Refresh):
		m.err = nil
		return true, m.refreshAll()
	}
	return false, nil
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.dashboardModel.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.dashboardModel.MoveDown()
	case key.Matches(msg, m.keys.Toggle):
		p, ok := m.dashboardModel.Selected()
		if !ok {
			return m, nil
		}
		if rs, running := m.tracker.Running(); running && rs.PlanID == p.ID {
			return m, m.stopCmd(rs.SessionID)
		}
		return m, m.startCmd(p)
	case key.Matches(msg, m.keys.Stop):
		rs, running := m.tracker.Running()
		if !running {
			m.status = "Nothing is running"
			return m, nil
		}
		return m, m.stopCmd(rs.SessionID)
	case key.Matches(msg, m.keys.PrevDay):
		return m.shiftDay(-1)
	case key.Matches(msg, m.keys.NextDay):
		return m.shiftDay(1)
	case key.Matches(msg, m.keys.Today):
		if m.tracker.IsToday() {
			return m, nil
		}
		m.dashboardModel.Clear()
		return m, tea.Batch(m.viewDateCmd(m.tracker.Today()), m.dashboardModel.Init())
	}
	return m, nil
}

// shiftDay moves the viewed date, never past today.
func (m Model) shiftDay(delta int) (tea.Model, tea.Cmd) {
	date, err := utils.AddDays(m.tracker.ViewDate(), delta)
	if err != nil {
		m.err = err
		return m, nil
	}
	if date > m.tracker.Today() {
		return m, nil
	}
	m.dashboardModel.Clear()
	return m, tea.Batch(m.viewDateCmd(date), m.dashboardModel.Init())
}

func (m Model) updatePlans(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.plansModel.MoveUp()
	case key.Matches(msg, m.keys.Down):
		m.plansModel.MoveDown()
	case key.Matches(msg, m.keys.Add):
		m.openPlanForm(nil)
		return m, m.form.Init()
	case key.Matches(msg, m.keys.Edit):
		if p, ok := m.plansModel.Selected(); ok {
			m.openPlanForm(&p)
			return m, m.form.Init()
		}
	case key.Matches(msg, m.keys.Deactivate):
		if p, ok := m.plansModel.Selected(); ok && p.Active {
			m.planToToggle = &p
			m.previousState = m.state
			m.state = StateConfirmDeactivate
		}
	case key.Matches(msg, m.keys.Restore):
		if p, ok := m.plansModel.Selected(); ok && !p.Active {
			return m, m.restoreCmd(p)
		}
	default:
		var cmd tea.Cmd
		m.plansModel, cmd = m.plansModel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Range) {
		m.reportModel.Toggle()
		return m, m.loadReport()
	}
	var cmd tea.Cmd
	m.reportModel, cmd = m.reportModel.Update(msg)
	return m, cmd
}

func (m Model) updateConfirmDeactivate(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch keyMsg.String() {
	case "y", "Y":
		p := m.planToToggle
		m.planToToggle = nil
		m.state = m.previousState
		if p != nil {
			return m, m.deactivateCmd(*p)
		}
	case "n", "N", "esc":
		m.planToToggle = nil
		m.state = m.previousState
	}
	return m, nil
}

func (m *Model) openPlanForm(p *models.Plan) {
	m.formError = ""
	m.editingPlan = p
	if p == nil {
		m.planForm = &PlanFormModel{
			DayType:  models.DayTypeWeekday,
			Category: models.CategoryWork,
		}
	} else {
		m.planForm = &PlanFormModel{
			Name:     p.ActivityName,
			DayType:  p.DayType,
			Category: models.NormalizeCategory(p.Category),
			Target:   strconv.Itoa(p.TargetMinutes),
		}
	}
	m.form = m.buildPlanForm()
	m.previousState = StatePlans
	m.state = StatePlanForm
}

func (m Model) buildPlanForm() *huh.Form {
	dayTypes := make([]huh.Option[models.DayType], 0, len(models.DayTypes))
	for _, dt := range models.DayTypes {
		dayTypes = append(dayTypes, huh.NewOption(string(dt), dt))
	}
	categories := make([]huh.Option[models.Category], 0, len(models.Categories))
	for _, c := range models.Categories {
		categories = append(categories, huh.NewOption(c.Label(), c))
	}

	title := "New plan"
	if m.editingPlan != nil {
		title = "Edit plan"
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Activity").
				Value(&m.planForm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("activity name is required")
					}
					return nil
				}),
			huh.NewSelect[models.DayType]().
				Title("Day type").
				Options(dayTypes...).
				Value(&m.planForm.DayType),
			huh.NewSelect[models.Category]().
				Title("Category").
				Options(categories...).
				Value(&m.planForm.Category),
			huh.NewInput().
				Title("Target (minutes)").
				Value(&m.planForm.Target).
				Validate(func(s string) error {
					n, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil || n <= 0 {
						return fmt.Errorf("target must be a positive number of minutes")
					}
					return nil
				}),
		).Title(title),
	)
}

func (m Model) updatePlanForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.formError = ""
		m.state = StatePlans
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		target, _ := strconv.Atoi(strings.TrimSpace(m.planForm.Target))
		plan := models.Plan{
			ActivityName:  strings.TrimSpace(m.planForm.Name),
			DayType:       m.planForm.DayType,
			Category:      m.planForm.Category,
			TargetMinutes: target,
			Active:        true,
		}
		if m.editingPlan != nil {
			plan.ID = m.editingPlan.ID
			plan.OwnerID = m.editingPlan.OwnerID
			plan.Active = m.editingPlan.Active
		}
		return m, m.savePlanCmd(plan)
	case huh.StateAborted:
		m.state = StatePlans
	}
	return m, cmd
}

func (m *Model) openSettingsForm() {
	current := m.settingsModel.Settings()
	m.settingsForm = &SettingsFormModel{
		Timezone:       current.Timezone,
		ReportRange:    current.DefaultReportRange,
		NotifyOnTarget: current.NotifyOnTarget,
	}
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Timezone").
				Description("IANA name, or Local").
				Value(&m.settingsForm.Timezone).
				Validate(func(s string) error {
					if !utils.ValidateTimezone(s) {
						return fmt.Errorf("unknown timezone %q", s)
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Default report range").
				Options(huh.NewOptions("rolling", "calendar")...).
				Value(&m.settingsForm.ReportRange),
			huh.NewConfirm().
				Title("Notify when a plan reaches its target?").
				Value(&m.settingsForm.NotifyOnTarget),
		).Title("Settings"),
	)
	m.previousState = StateSettings
	m.state = StateSettingsForm
}

func (m Model) updateSettingsForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = StateSettings
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		m.state = StateSettings
		return m, m.saveSettingsCmd(models.Settings{
			Timezone:           strings.TrimSpace(m.settingsForm.Timezone),
			DefaultReportRange: m.settingsForm.ReportRange,
			NotifyOnTarget:     m.settingsForm.NotifyOnTarget,
		})
	case huh.StateAborted:
		m.state = StateSettings
	}
	return m, cmd
}

func isValidation(err error) bool {
	return apperrors.IsValidation(err)
}

// errorText renders err for the status line. Validation errors read as hints.
func errorText(err error) string {
	if isValidation(err) {
		return "⚠ " + err.Error()
	}
	return apperrors.Format(err)
}
