package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var tabTitles = []string{"Today", "Plans", "Report", "Settings"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateDashboard:
		content = docStyle.Render(m.dashboardModel.View())
	case StatePlans:
		content = docStyle.Render(m.plansModel.View())
	case StateReport:
		content = docStyle.Render(m.reportModel.View())
	case StateSettings:
		content = m.settingsModel.View()
	case StatePlanForm, StateSettingsForm:
		content = m.viewForm()
	case StateConfirmDeactivate:
		content = m.viewConfirmDeactivate()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	switch m.state {
	case StatePlanForm, StateConfirmDeactivate:
		active = StatePlans
	case StateSettingsForm:
		active = StateSettings
	}

	var tabs []string
	for i, title := range tabTitles {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewForm() string {
	if m.form == nil {
		return ""
	}
	view := m.form.View()
	if m.formError != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, dangerStyle.Render(m.formError), "", view)
	}
	return docStyle.Render(view)
}

func (m Model) viewConfirmDeactivate() string {
	name := ""
	if m.planToToggle != nil {
		name = m.planToToggle.ActivityName
	}
	return lipgloss.Place(m.width, max(0, m.height-4),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Deactivate "+name+"?"),
			warningStyle.Render("Logged sessions are kept. Restore it later with 'r'."),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		if isValidation(m.err) {
			return warningStyle.Render(errorText(m.err))
		}
		return dangerStyle.Render(errorText(m.err))
	}
	if m.status != "" {
		return statusStyle.Render(m.status)
	}
	return ""
}
