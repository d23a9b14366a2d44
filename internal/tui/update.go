package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/tui/components/today"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		m.help.Width = size.Width
		// tabs, status and help take four lines
		m.todayModel.SetSize(size.Width-4, size.Height-6)
		m.statsModel.SetSize(size.Width-4, size.Height-6)
		return m, nil
	}

	switch m.state {
	case constants.StateAddHabit:
		return m.updateAddHabit(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if handled, cmd := m.handleHabitMessages(msg); handled {
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % constants.TabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + constants.TabCount) % constants.TabCount
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.report("Statistics refreshed", m.tracker.RefreshAllStatistics(m.ctx))
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateToday:
		m.todayModel, cmd = m.todayModel.Update(msg)
	case constants.StateStats:
		m.statsModel, cmd = m.statsModel.Update(msg)
	}
	return m, cmd
}

// handleHabitMessages applies the actions requested by the today list.
func (m *Model) handleHabitMessages(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case today.AddHabitMsg:
		m.habitForm = &HabitFormModel{Category: models.CategoryOther, Frequency: models.FrequencyDaily}
		m.form = NewHabitForm(m.habitForm)
		m.previousState = m.state
		m.state = constants.StateAddHabit
		return true, m.form.Init()

	case today.LogHabitMsg:
		_, st, err := m.tracker.LogHabit(m.ctx, msg.ID, "", msg.Status, "")
		status := fmt.Sprintf("Marked %s", msg.Status)
		if st.CurrentStreak > 1 {
			status += fmt.Sprintf(" (🔥 %d day streak)", st.CurrentStreak)
		}
		m.report(status, err)
		return true, nil

	case today.UnlogHabitMsg:
		date, err := m.tracker.Today()
		if err == nil {
			_, err = m.tracker.UnlogHabit(m.ctx, msg.ID, date)
		}
		m.report("Log removed", err)
		return true, nil

	case today.ArchiveHabitMsg:
		m.report("Habit archived", m.tracker.ArchiveHabit(m.ctx, msg.ID))
		return true, nil

	case today.DeleteHabitMsg:
		m.habitToDeleteID = msg.ID
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
		return true, nil
	}
	return false, nil
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = m.previousState
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		habit, err := m.habitForm.Habit()
		if err == nil {
			_, err = m.tracker.CreateHabit(m.ctx, habit)
		}
		m.report("Added "+habit.Name, err)
		m.state = m.previousState
	case huh.StateAborted:
		m.state = m.previousState
	}
	return m, cmd
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		m.report("Habit deleted (restore with 'habitual habit restore')", m.tracker.DeleteHabit(m.ctx, m.habitToDeleteID))
		m.habitToDeleteID = ""
		m.state = m.previousState
	case key.Matches(keyMsg, m.keys.Cancel):
		m.habitToDeleteID = ""
		m.state = m.previousState
	}
	return m, nil
}
