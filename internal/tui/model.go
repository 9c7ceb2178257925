// Package tui is the interactive dashboard: a live session timer over the
// day's ranked plans, plan management, and the weekly report.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/constants"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/notifier"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/planner"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/report"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/scheduler"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/storage"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tracker"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tui/components/dashboard"
	reportview "github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tui/components/report"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tui/components/plans"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tui/components/settings"
)

type SessionState int

const (
	StateDashboard SessionState = iota
	StatePlans
	StateReport
	StateSettings
	StatePlanForm
	StateSettingsForm
	StateConfirmDeactivate
)

// tabCount is the number of states reachable with tab.
const tabCount = 4

type PlanFormModel struct {
	Name     string
	DayType  models.DayType
	Category models.Category
	Target   string
}

type SettingsFormModel struct {
	Timezone       string
	ReportRange    string
	NotifyOnTarget bool
}

// Options wires the model to the core services.
type Options struct {
	Tracker  *tracker.Tracker
	Reports  *report.Engine
	Plans    *planner.Service
	Store    storage.Provider
	Alerts   *notifier.TargetAlerts // nil disables target notifications
	Settings models.Settings
	User     *models.User
	Tick     time.Duration
	Sync     time.Duration // how often to re-read the open session
}

type Model struct {
	ctx     context.Context
	tracker *tracker.Tracker
	reports *report.Engine
	planSvc *planner.Service
	store   storage.Provider
	alerts  *notifier.TargetAlerts
	tick    time.Duration
	sync    time.Duration

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	dashboardModel dashboard.Model
	plansModel     plans.Model
	reportModel    reportview.Model
	settingsModel  settings.Model

	form         *huh.Form
	planForm     *PlanFormModel
	settingsForm *SettingsFormModel
	editingPlan  *models.Plan
	planToToggle *models.Plan

	sinceSync time.Duration
	syncing   bool

	status    string
	formError string
	err       error
	quitting  bool
	width     int
	height    int
}

func NewModel(ctx context.Context, opts Options) Model {
	if opts.Tick <= 0 {
		opts.Tick = constants.DefaultTickInterval
	}
	if opts.Sync <= 0 {
		opts.Sync = constants.DefaultSyncInterval
	}
	kind, err := scheduler.ParseRangeKind(opts.Settings.DefaultReportRange)
	if err != nil {
		kind = scheduler.RangeRolling
	}
	return Model{
		ctx:            ctx,
		tracker:        opts.Tracker,
		reports:        opts.Reports,
		planSvc:        opts.Plans,
		store:          opts.Store,
		alerts:         opts.Alerts,
		tick:           opts.Tick,
		sync:           opts.Sync,
		state:          StateDashboard,
		keys:           DefaultKeyMap(),
		help:           help.New(),
		dashboardModel: dashboard.New(),
		plansModel:     plans.New(0, 0),
		reportModel:    reportview.New(kind),
		settingsModel:  settings.New(opts.Settings, opts.User, 0, 0),
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateDashboard:
		keys = append(keys, m.keys.Toggle, m.keys.Stop, m.keys.PrevDay, m.keys.NextDay)
	case StatePlans:
		keys = append(keys, m.keys.Add, m.keys.Edit, m.keys.Deactivate, m.keys.Restore)
	case StateReport:
		keys = append(keys, m.keys.Range)
	case StateSettings:
		keys = append(keys, m.keys.Edit)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateDashboard:
		navigation = append(navigation, m.keys.PrevDay, m.keys.NextDay, m.keys.Today)
		actions = []key.Binding{m.keys.Toggle, m.keys.Stop}
	case StatePlans:
		actions = []key.Binding{m.keys.Add, m.keys.Edit, m.keys.Deactivate, m.keys.Restore}
	case StateReport:
		actions = []key.Binding{m.keys.Range}
	case StateSettings:
		actions = []key.Binding{m.keys.Edit}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.dashboardModel.Init(),
		m.loadDashboard(),
		m.loadPlans(),
		m.loadReport(),
		m.tickCmd(),
	)
}

// Run starts the program in the alternate screen and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(NewModel(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
