package sqlstore

import (
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

func (q *Queries) GetHabitStatistics(habitID string) (models.HabitStatistics, error) {
	row := q.queryRow(`
		SELECT `+storage.HabitStatisticsColumns+`
		FROM habit_statistics WHERE habit_id = ?`, habitID)
	st, err := storage.ScanHabitStatistics(row)
	if err != nil {
		return models.HabitStatistics{}, notFound(err, "statistics for habit "+habitID)
	}
	return st, nil
}

func (q *Queries) GetAllHabitStatistics() ([]models.HabitStatistics, error) {
	rows, err := q.query(`
		SELECT ` + storage.HabitStatisticsColumns + `
		FROM habit_statistics ORDER BY habit_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	all := []models.HabitStatistics{}
	for rows.Next() {
		st, err := storage.ScanHabitStatistics(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, st)
	}
	return all, rows.Err()
}

func (q *Queries) SaveHabitStatistics(st models.HabitStatistics) error {
	_, err := q.exec(`
		INSERT INTO habit_statistics (`+storage.HabitStatisticsColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (habit_id) DO UPDATE SET
			total_completions = excluded.total_completions,
			total_failures = excluded.total_failures,
			current_streak = excluded.current_streak,
			longest_streak = excluded.longest_streak,
			completion_rate = excluded.completion_rate,
			updated_at = excluded.updated_at`,
		st.HabitID, st.TotalCompletions, st.TotalFailures, st.CurrentStreak,
		st.LongestStreak, st.CompletionRate, storage.FormatTime(st.UpdatedAt))
	return err
}

func (q *Queries) DeleteHabitStatistics(habitID string) error {
	_, err := q.exec("DELETE FROM habit_statistics WHERE habit_id = ?", habitID)
	return err
}
