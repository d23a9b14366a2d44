package stats

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitual/internal/models"
	habitstats "github.com/julianstephens/habitual/internal/stats"
	"github.com/julianstephens/habitual/internal/tracker"
)

var (
	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true).
			Width(24)

	numberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(10)

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

type Model struct {
	viewport viewport.Model
	items    []tracker.AgendaItem
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
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
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetItems(items []tracker.AgendaItem) {
	m.items = items
	m.Render()
}

func (m *Model) Render() {
	if len(m.items) == 0 {
		m.viewport.SetContent("No statistics yet.")
		return
	}

	all := make([]models.HabitStatistics, len(m.items))
	for i, it := range m.items {
		all[i] = it.Stats
	}
	o := habitstats.Summarize(all)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%d habits | %d done | %d failed | %.1f%%", o.Habits, o.TotalCompletions, o.TotalFailures, o.CompletionRate)))
	b.WriteString("\n\n")
	b.WriteString(nameStyle.Render("Habit"))
	for _, h := range []string{"Streak", "Longest", "Done", "Rate"} {
		b.WriteString(numberStyle.Render(h))
	}
	b.WriteString("\n")
	for _, it := range m.items {
		b.WriteString(nameStyle.Render(it.Habit.Name))
		b.WriteString(numberStyle.Render(fmt.Sprintf("%d", it.Stats.CurrentStreak)))
		b.WriteString(numberStyle.Render(fmt.Sprintf("%d", it.Stats.LongestStreak)))
		b.WriteString(numberStyle.Render(fmt.Sprintf("%d", it.Stats.TotalCompletions)))
		b.WriteString(numberStyle.Render(fmt.Sprintf("%.0f%%", it.Stats.CompletionRate)))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
}
