package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/tracker"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

const barWidth = 24

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Padding(0, 1)

	timerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Padding(0, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Align(lipgloss.Center)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Width(22)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Width(22)

	historicalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	barFill = map[models.ProgressStatus]lipgloss.Style{
		models.ProgressPending:   lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
		models.ProgressCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.ProgressOverdone:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
	barEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
)

// Model renders one date's dashboard and follows the running session between refreshes.
type Model struct {
	data        tracker.Dashboard
	baseTracked int64
	loaded      bool
	cursor      int
	spinner     spinner.Model
	width       int
	height      int
}

func New() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = mutedStyle
	return Model{spinner: s}
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.loaded {
		return m, nil
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetDashboard replaces the data, keeping the cursor on the same plan when it is still listed.
func (m *Model) SetDashboard(d tracker.Dashboard) {
	selected, hadSelection := m.Selected()
	m.data = d
	m.baseTracked = d.TrackedSeconds - d.LiveSeconds
	m.loaded = true

	m.cursor = 0
	if hadSelection {
		for i, row := range d.Rows {
			if row.Plan.ID == selected.ID {
				m.cursor = i
				break
			}
		}
	}
}

// SetLive applies a fresh elapsed reading to the running row without a store round trip.
func (m *Model) SetLive(elapsed int64) {
	if m.data.Running == nil || m.data.Historical {
		return
	}
	m.data.LiveSeconds = elapsed
	m.data.TrackedSeconds = m.baseTracked + elapsed
	m.data.UntrackedMinutes = tracker.UntrackedMinutes(m.data.TrackedSeconds)
	for i := range m.data.Rows {
		row := &m.data.Rows[i]
		if !row.Active {
			continue
		}
		row.LiveSeconds = elapsed
		row.TotalSeconds = row.BaseSeconds + elapsed
		row.Progress, row.Status = tracker.Progress(row.TotalSeconds, row.Plan.TargetMinutes)
	}
}

// Clear drops the current data so no live time is shown until the next dashboard arrives.
func (m *Model) Clear() {
	m.data = tracker.Dashboard{}
	m.baseTracked = 0
	m.loaded = false
}

func (m Model) Data() tracker.Dashboard {
	return m.data
}

func (m Model) Loaded() bool {
	return m.loaded
}

// Selected returns the plan under the cursor.
func (m Model) Selected() (models.Plan, bool) {
	if m.cursor < 0 || m.cursor >= len(m.data.Rows) {
		return models.Plan{}, false
	}
	return m.data.Rows[m.cursor].Plan, true
}

func (m *Model) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
	}
}

func (m *Model) MoveDown() {
	if m.cursor < len(m.data.Rows)-1 {
		m.cursor++
	}
}

func (m Model) View() string {
	if !m.loaded {
		return m.spinner.View() + " loading"
	}

	d := m.data
	header := titleStyle.Render(fmt.Sprintf("%s · %s", d.Date, d.DayType))
	if d.Historical {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, historicalStyle.Render(" (read-only)"))
	}

	sections := []string{header, m.viewTimer()}

	if d.Historical && !d.HasLoggedTime {
		sections = append(sections, mutedStyle.Render("No time logged on this day."))
	} else if len(d.Rows) == 0 {
		sections = append(sections, mutedStyle.Render(fmt.Sprintf("No active %s plans. Add one from the Plans tab.", d.DayType)))
	} else {
		var rows []string
		for i, row := range d.Rows {
			rows = append(rows, m.viewRow(row, i == m.cursor))
		}
		sections = append(sections, strings.Join(rows, "\n"))
	}

	sections = append(sections, mutedStyle.Render(fmt.Sprintf(
		"Tracked %s · Untracked %s",
		utils.FormatElapsed(d.TrackedSeconds),
		utils.FormatHoursMinutes(d.UntrackedMinutes),
	)))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) viewTimer() string {
	if m.data.Running == nil {
		return timerStyle.Render("Not tracking")
	}
	return timerStyle.Render(fmt.Sprintf("%s  %s", m.data.Running.ActivityName, utils.FormatElapsed(m.data.LiveSeconds)))
}

func (m Model) viewRow(row models.PlanProgress, selected bool) string {
	marker := "  "
	style := nameStyle
	if selected {
		marker = "> "
		style = selectedStyle
	}
	name := row.Plan.ActivityName
	if row.Active {
		name = "● " + name
	}
	return fmt.Sprintf("%s%s %s %s / %s",
		marker,
		style.Render(name),
		bar(row.Progress, row.Status),
		utils.FormatElapsed(row.TotalSeconds),
		utils.FormatHoursMinutes(row.Plan.TargetMinutes),
	)
}

func bar(progress float64, status models.ProgressStatus) string {
	filled := int(progress * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	fill, ok := barFill[status]
	if !ok {
		fill = barFill[models.ProgressPending]
	}
	return fill.Render(strings.Repeat("█", filled)) + barEmpty.Render(strings.Repeat("░", barWidth-filled))
}
