package today

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tracker"
	"github.com/julianstephens/habitual/internal/utils"
)

type AddHabitMsg struct{}

type LogHabitMsg struct {
	ID     string
	Status models.LogStatus
}

type UnlogHabitMsg struct {
	ID string
}

type ArchiveHabitMsg struct {
	ID string
}

type DeleteHabitMsg struct {
	ID string
}

type Item struct {
	tracker.AgendaItem
}

func (i Item) Title() string {
	switch {
	case i.Log != nil && i.Log.Status == models.StatusDone:
		return "✓ " + i.Habit.Name
	case i.Log != nil:
		return "✗ " + i.Habit.Name
	case i.Due:
		return "○ " + i.Habit.Name
	default:
		return "· " + i.Habit.Name
	}
}

func (i Item) Description() string {
	desc := fmt.Sprintf("%s | %s", i.Habit.Category, utils.FormatFrequency(i.Habit.Frequency))
	if i.Stats.CurrentStreak > 0 {
		desc += fmt.Sprintf(" | 🔥 %d", i.Stats.CurrentStreak)
	}
	if !i.Due && i.Log == nil {
		desc += " | not due today"
	}
	if i.Habit.HasReminder() {
		desc += " | ⏰ " + i.Habit.Reminder.Time
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

type KeyMap struct {
	Add     key.Binding
	Done    key.Binding
	Fail    key.Binding
	Unlog   key.Binding
	Archive key.Binding
	Delete  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Done: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "done"),
		),
		Fail: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "failed"),
		),
		Unlog: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "unlog"),
		),
		Archive: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "archive"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(items []tracker.AgendaItem, width, height int) Model {
	l := list.New(toItems(items), list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Done, keys.Fail, keys.Unlog}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Done, keys.Fail, keys.Unlog, keys.Archive, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func toItems(agenda []tracker.AgendaItem) []list.Item {
	items := make([]list.Item, len(agenda))
	for i, a := range agenda {
		items[i] = Item{AgendaItem: a}
	}
	return items
}

func (m *Model) SetItems(agenda []tracker.AgendaItem) {
	m.list.SetItems(toItems(agenda))
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && m.list.FilterState() != list.Filtering {
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddHabitMsg{} }
		}
		if i, ok := m.list.SelectedItem().(Item); ok {
			id := i.Habit.ID
			switch {
			case key.Matches(msg, m.keys.Done):
				return m, func() tea.Msg { return LogHabitMsg{ID: id, Status: models.StatusDone} }
			case key.Matches(msg, m.keys.Fail):
				return m, func() tea.Msg { return LogHabitMsg{ID: id, Status: models.StatusFailed} }
			case key.Matches(msg, m.keys.Unlog):
				if i.Log != nil {
					return m, func() tea.Msg { return UnlogHabitMsg{ID: id} }
				}
			case key.Matches(msg, m.keys.Archive):
				return m, func() tea.Msg { return ArchiveHabitMsg{ID: id} }
			case key.Matches(msg, m.keys.Delete):
				return m, func() tea.Msg { return DeleteHabitMsg{ID: id} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
