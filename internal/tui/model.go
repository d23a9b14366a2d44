package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/tracker"
	"github.com/julianstephens/habitual/internal/tui/components/stats"
	"github.com/julianstephens/habitual/internal/tui/components/today"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

type Model struct {
	ctx               context.Context
	tracker           *tracker.Service
	state             constants.SessionState
	previousState     constants.SessionState
	keys              KeyMap
	help              help.Model
	todayModel        today.Model
	statsModel        stats.Model
	form              *huh.Form
	habitForm         *HabitFormModel
	habitToDeleteID   string
	status            string
	err               error
	validationWarning string
	quitting          bool
	width             int
	height            int
}

func NewModel(ctx context.Context, t *tracker.Service) Model {
	m := Model{
		ctx:        ctx,
		tracker:    t,
		state:      constants.StateToday,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		todayModel: today.New(nil, 0, 0),
		statsModel: stats.New(0, 0),
	}
	m.refresh()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Refresh}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	if m.state == constants.StateToday {
		k := today.DefaultKeyMap()
		actions = []key.Binding{k.Add, k.Done, k.Fail, k.Unlog, k.Archive, k.Delete}
	}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads the agenda into both tabs and re-runs validation.
func (m *Model) refresh() {
	items, err := m.tracker.Agenda()
	if err != nil {
		m.err = err
		return
	}
	m.todayModel.SetItems(items)
	m.statsModel.SetItems(items)
	m.updateValidationStatus()
}

// report records the outcome of an action for the status line. A failed
// reminder update after a successful write is shown as a warning only.
func (m *Model) report(ok string, err error) {
	switch {
	case err == nil:
		m.status, m.err = ok, nil
	case errors.Is(err, tracker.ErrScheduling):
		logger.Warn("Reminder scheduling failed", "error", err)
		m.status, m.err = ok+" (reminders not updated)", nil
	default:
		m.status, m.err = "", err
	}
	m.refresh()
}

func (m *Model) updateValidationStatus() {
	store := m.tracker.Store()
	habits, err := store.GetAllHabits(true, true)
	if err != nil {
		m.validationWarning = "⚠ Validation unavailable"
		return
	}
	logs, err := store.GetAllHabitLogs()
	if err != nil {
		m.validationWarning = "⚠ Validation unavailable"
		return
	}
	now, err := m.tracker.Now()
	if err != nil {
		m.validationWarning = "⚠ Validation unavailable"
		return
	}

	v := validation.New()
	result := v.ValidateHabits(habits)
	result.Merge(v.ValidateLogs(habits, logs, utils.FormatDate(now)))

	if result.HasConflicts() {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s), run 'habitual validate'", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}
