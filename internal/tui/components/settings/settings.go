// Package settings renders the read-only Settings tab: the signed-in profile
// and the owner's stored preferences.
package settings

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sharunsuvarna92-pm/Day-Spent-Well/internal/models"
)

// EditSettingsMsg asks the parent to open the settings form.
type EditSettingsMsg struct{}

type Model struct {
	settings      models.Settings
	user          *models.User
	width, height int
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(24)
	valStyle     = lipgloss.NewStyle().Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

func New(s models.Settings, user *models.User, width, height int) Model {
	return Model{settings: s, user: user, width: width, height: height}
}

func (m *Model) SetSettings(s models.Settings) { m.settings = s }

func (m Model) Settings() models.Settings { return m.settings }

func (m *Model) SetSize(width, height int) {
	m.width, m.height = width, height
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "e" {
		return m, func() tea.Msg { return EditSettingsMsg{} }
	}
	return m, nil
}

type row struct{ key, val string }

func block(title string, rows []row) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(title))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(keyStyle.Render(r.key) + valStyle.Render(r.val) + "\n")
	}
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func (m Model) View() string {
	var parts []string
	if u := m.user; u != nil {
		profile := []row{{"Name", u.Name}, {"Email", u.Email}}
		if u.Age != nil {
			profile = append(profile, row{"Age", strconv.Itoa(*u.Age)})
		}
		if u.Profession != "" {
			profile = append(profile, row{"Profession", u.Profession})
		}
		parts = append(parts, block("Profile", profile))
	}
	parts = append(parts, block("Settings", []row{
		{"Timezone", m.settings.Timezone},
		{"Default report range", m.settings.DefaultReportRange},
		{"Notify on target", onOff(m.settings.NotifyOnTarget)},
	}))
	parts = append(parts, hintStyle.Render("e: edit settings"))

	content := strings.Join(parts, "\n")
	if m.width == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top,
		lipgloss.NewStyle().Padding(1, 2).Render(content))
}
