package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateToday:
		content = docStyle.Render(m.todayModel.View())
	case constants.StateStats:
		content = docStyle.Render(m.statsModel.View())
	case constants.StateAddHabit:
		content = docStyle.Render(m.form.View())
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
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
	var tabs []string
	for i, title := range []string{"Today", "Stats"} {
		if m.state == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	switch {
	case m.err != nil:
		return dangerStyle.Render("Error: " + m.err.Error())
	case m.validationWarning != "":
		return warningStyle.Render(m.validationWarning)
	case m.status != "":
		return statusStyle.Render(m.status)
	}
	return ""
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render("Are you sure you want to delete this habit?"),
			"Its logs are kept and it can be restored later.",
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
