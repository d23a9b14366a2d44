package tracker

import (
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

// AgendaItem is one live habit as seen on a given day.
type AgendaItem struct {
	Habit models.Habit
	Due   bool
	Log   *models.HabitLog
	Stats models.HabitStatistics
}

// Done reports whether the habit has been logged done on the agenda day.
func (a AgendaItem) Done() bool {
	return a.Log != nil && a.Log.Status == models.StatusDone
}

// Agenda lists every live, unarchived habit for today with its log and
// statistics. Habits not due today are included with Due false.
func (s *Service) Agenda() ([]AgendaItem, error) {
	now, err := s.Now()
	if err != nil {
		return nil, err
	}
	today := utils.FormatDate(now)

	habits, err := s.store.GetAllHabits(false, false)
	if err != nil {
		return nil, err
	}
	logs, err := s.store.GetHabitLogsForDay(today)
	if err != nil {
		return nil, err
	}
	byHabit := make(map[string]models.HabitLog, len(logs))
	for _, l := range logs {
		byHabit[l.HabitID] = l
	}
	all, err := s.store.GetAllHabitStatistics()
	if err != nil {
		return nil, err
	}
	statsByHabit := make(map[string]models.HabitStatistics, len(all))
	for _, st := range all {
		statsByHabit[st.HabitID] = st
	}

	items := make([]AgendaItem, 0, len(habits))
	for _, h := range habits {
		item := AgendaItem{
			Habit: h,
			Due:   utils.IsActive(h.Frequency, now),
			Stats: statsByHabit[h.ID],
		}
		item.Stats.HabitID = h.ID
		if l, ok := byHabit[h.ID]; ok {
			item.Log = &l
		}
		items = append(items, item)
	}
	return items, nil
}

// Incomplete returns the habits due today that have no log yet.
func (s *Service) Incomplete() ([]models.Habit, error) {
	now, err := s.Now()
	if err != nil {
		return nil, err
	}
	habits, err := s.store.GetAllHabits(false, false)
	if err != nil {
		return nil, err
	}
	logs, err := s.store.GetHabitLogsForDay(utils.FormatDate(now))
	if err != nil {
		return nil, err
	}
	return s.planner.IncompleteHabits(habits, logs, now), nil
}
