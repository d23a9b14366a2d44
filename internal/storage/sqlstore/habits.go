package sqlstore

import (
	"database/sql"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

func (q *Queries) AddHabit(habit models.Habit) error {
	_, err := q.exec(`
		INSERT INTO habits (`+storage.HabitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		storage.HabitArgs(habit)...)
	return err
}

func (q *Queries) scanHabit(row *sql.Row, what string) (models.Habit, error) {
	var r storage.HabitRow
	if err := row.Scan(r.ScanDest()...); err != nil {
		return models.Habit{}, notFound(err, what)
	}
	return r.Habit()
}

func (q *Queries) GetHabit(id string) (models.Habit, error) {
	row := q.queryRow(`
		SELECT `+storage.HabitColumns+`
		FROM habits WHERE id = ? AND deleted_at IS NULL`, id)
	return q.scanHabit(row, "habit "+id)
}

func (q *Queries) GetHabitByName(name string) (models.Habit, error) {
	row := q.queryRow(`
		SELECT `+storage.HabitColumns+`
		FROM habits WHERE name = ? AND deleted_at IS NULL`, name)
	return q.scanHabit(row, "habit "+name)
}

func (q *Queries) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	query := "SELECT " + storage.HabitColumns + " FROM habits WHERE 1=1"
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY created_at, name"

	rows, err := q.query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	habits := []models.Habit{}
	for rows.Next() {
		var r storage.HabitRow
		if err := rows.Scan(r.ScanDest()...); err != nil {
			return nil, err
		}
		h, err := r.Habit()
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}

	return habits, rows.Err()
}

func (q *Queries) UpdateHabit(habit models.Habit) error {
	args := storage.HabitArgs(habit)
	// id moves to the end for the WHERE clause
	updateArgs := append(append([]any{}, args[1:]...), args[0])
	return q.execOne("habit "+habit.ID, `
		UPDATE habits SET
			name = ?, description = ?, category = ?,
			frequency_type = ?, frequency_days = ?, custom_days = ?,
			reminder_enabled = ?, reminder_time = ?,
			created_at = ?, updated_at = ?, archived_at = ?, deleted_at = ?
		WHERE id = ?`,
		updateArgs...)
}

func (q *Queries) ArchiveHabit(id string) error {
	return q.execOne("habit not found or already archived/deleted", `
		UPDATE habits SET archived_at = ? WHERE id = ? AND deleted_at IS NULL AND archived_at IS NULL`,
		storage.FormatTime(q.now()), id)
}

func (q *Queries) UnarchiveHabit(id string) error {
	return q.execOne("habit not found or not archived", `
		UPDATE habits SET archived_at = NULL WHERE id = ? AND deleted_at IS NULL AND archived_at IS NOT NULL`,
		id)
}

func (q *Queries) DeleteHabit(id string) error {
	return q.execOne("habit not found or already deleted", `
		UPDATE habits SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`,
		storage.FormatTime(q.now()), id)
}

func (q *Queries) RestoreHabit(id string) error {
	return q.execOne("habit not found or not deleted", `
		UPDATE habits SET deleted_at = NULL WHERE id = ? AND deleted_at IS NOT NULL`,
		id)
}
