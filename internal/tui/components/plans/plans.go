package plans

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/planner"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/utils"
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	targetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(10)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238")).
			Strikethrough(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))
)

// Model lists every plan grouped by day type with each group's budget.
type Model struct {
	viewport viewport.Model
	plans    []models.Plan
	budgets  map[models.DayType]planner.Budget
	cursor   int
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		budgets:  make(map[models.DayType]planner.Budget),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetPlans orders plans by day type so the cursor walks them in display order.
func (m *Model) SetPlans(plans []models.Plan, budgets []planner.Budget) {
	m.plans = m.plans[:0]
	for _, dt := range models.DayTypes {
		for _, p := range plans {
			if p.DayType == dt {
				m.plans = append(m.plans, p)
			}
		}
	}
	m.budgets = make(map[models.DayType]planner.Budget, len(budgets))
	for _, b := range budgets {
		m.budgets[b.DayType] = b
	}
	if m.cursor >= len(m.plans) {
		m.cursor = len(m.plans) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.Render()
}

func (m Model) Selected() (models.Plan, bool) {
	if m.cursor < 0 || m.cursor >= len(m.plans) {
		return models.Plan{}, false
	}
	return m.plans[m.cursor], true
}

func (m *Model) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
		m.Render()
	}
}

func (m *Model) MoveDown() {
	if m.cursor < len(m.plans)-1 {
		m.cursor++
		m.Render()
	}
}

func (m *Model) Render() {
	if len(m.plans) == 0 {
		m.viewport.SetContent("No plans yet. Press 'a' to add one.")
		return
	}

	var b strings.Builder
	i := 0
	for _, dt := range models.DayTypes {
		budget := m.budgets[dt]
		b.WriteString(headerStyle.Render(fmt.Sprintf("%s · %s", dt, budget)) + "\n")
		for i < len(m.plans) && m.plans[i].DayType == dt {
			b.WriteString(m.renderPlan(m.plans[i], i == m.cursor) + "\n")
			i++
		}
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}

func (m Model) renderPlan(p models.Plan, selected bool) string {
	marker := "  "
	if selected {
		marker = cursorStyle.Render("> ")
	}
	name := nameStyle.Render(p.ActivityName)
	if !p.Active {
		name = inactiveStyle.Render(p.ActivityName)
	}
	return fmt.Sprintf("%s%s %s %s",
		marker,
		targetStyle.Render(utils.FormatHoursMinutes(p.TargetMinutes)),
		name,
		categoryStyle.Render(p.Category.Label()),
	)
}
