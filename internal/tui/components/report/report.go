package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
	rpt "github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/report"
	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/scheduler"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(22)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	suggestionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Model shows the category table, the window summary and any suggested target changes.
type Model struct {
	table       table.Model
	result      *rpt.Result
	suggestions []rpt.Suggestion
	kind        scheduler.RangeKind
	width       int
	height      int
}

func New(kind scheduler.RangeKind) Model {
	t := table.New(
		table.WithColumns(columns()),
		table.WithHeight(len(models.Categories)+1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(styles)
	return Model{table: t, kind: kind}
}

var columnsTitles = []string{"Category", "Planned", "Actual", "Diff", "Days", "Consistency"}

func columns() []table.Column {
	widths := []int{12, 9, 9, 9, 6, 12}
	cols := make([]table.Column, len(columnsTitles))
	for i, title := range columnsTitles {
		cols[i] = table.Column{Title: title, Width: widths[i]}
	}
	return cols
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Kind() scheduler.RangeKind {
	return m.kind
}

// Toggle flips between the rolling and calendar windows.
func (m *Model) Toggle() scheduler.RangeKind {
	if m.kind == scheduler.RangeRolling {
		m.kind = scheduler.RangeCalendar
	} else {
		m.kind = scheduler.RangeRolling
	}
	return m.kind
}

func (m Model) Suggestions() []rpt.Suggestion {
	return m.suggestions
}

func (m *Model) SetResult(res rpt.Result) {
	m.result = &res
	m.suggestions = rpt.Suggest(res.Report, res.Plans)

	rows := make([]table.Row, 0, len(res.Categories))
	for _, c := range res.Categories {
		rows = append(rows, table.Row{
			c.Label,
			fmt.Sprintf("%dm", c.PlannedDailyMinutes),
			fmt.Sprintf("%.0fm", c.ActualAvgMinutes),
			fmt.Sprintf("%+.0fm", c.DiffMinutes),
			fmt.Sprintf("%d", c.PresentDays),
			string(c.Consistency),
		})
	}
	m.table.SetRows(rows)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.result == nil {
		return "No report yet."
	}
	s := m.result.Summary

	summary := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("Report · %s %s → %s", s.Window.Kind, s.Window.From, s.Window.To)),
		row("Most overspent:", m.label(s.MostOverspent)),
		row("Most underspent:", m.label(s.MostUnderspent)),
		row("Balance:", fmt.Sprintf("%s (%.2f)", s.BalanceIndex, s.BalanceScore)),
		row("Avg tracked / day:", s.FormattedAvgTime),
	)

	sections := []string{summary, "", m.table.View()}
	if len(m.suggestions) > 0 {
		lines := []string{titleStyle.Render("Suggestions")}
		for _, sg := range m.suggestions {
			lines = append(lines, suggestionStyle.Render("• "+sg.Reason))
		}
		lines = append(lines, hintStyle.Render("Run `dayspent optimize --apply` to accept."))
		sections = append(sections, "", strings.Join(lines, "\n"))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func row(l, v string) string {
	return labelStyle.Render(l) + " " + valueStyle.Render(v)
}

func (m Model) label(c models.Category) string {
	r, ok := m.result.Row(c)
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%s (%+.0fm)", r.Label, r.DiffMinutes)
}
