package sqlstore

import (
	"database/sql"
	"fmt"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// UpsertHabitLog stores a log, replacing status and notes of an existing log
// for the same habit and date. The stored row is returned; when a log already
// existed it keeps its original ID and CreatedAt.
func (q *Queries) UpsertHabitLog(log models.HabitLog) (models.HabitLog, error) {
	tx, err := q.db.Begin()
	if err != nil {
		return models.HabitLog{}, err
	}
	defer tx.Rollback()

	_, err = tx.Exec(q.rebind(`
		INSERT INTO habit_logs (`+storage.HabitLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (habit_id, date) DO UPDATE SET
			status = excluded.status,
			notes = excluded.notes,
			updated_at = excluded.updated_at`),
		log.ID, log.HabitID, log.Date, string(log.Status), log.Notes,
		storage.FormatTime(log.CreatedAt), storage.FormatTime(log.UpdatedAt))
	if err != nil {
		return models.HabitLog{}, fmt.Errorf("failed to upsert log: %w", err)
	}

	row := tx.QueryRow(q.rebind(`
		SELECT `+storage.HabitLogColumns+`
		FROM habit_logs WHERE habit_id = ? AND date = ?`), log.HabitID, log.Date)
	stored, err := storage.ScanHabitLog(row)
	if err != nil {
		return models.HabitLog{}, fmt.Errorf("failed to read back log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.HabitLog{}, err
	}
	return stored, nil
}

func (q *Queries) GetHabitLog(habitID, date string) (models.HabitLog, error) {
	row := q.queryRow(`
		SELECT `+storage.HabitLogColumns+`
		FROM habit_logs WHERE habit_id = ? AND date = ?`, habitID, date)
	l, err := storage.ScanHabitLog(row)
	if err != nil {
		return models.HabitLog{}, notFound(err, fmt.Sprintf("log for habit %s on %s", habitID, date))
	}
	return l, nil
}

func (q *Queries) collectLogs(rows *sql.Rows, err error) ([]models.HabitLog, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.HabitLog{}
	for rows.Next() {
		l, err := storage.ScanHabitLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (q *Queries) GetHabitLogsForDay(date string) ([]models.HabitLog, error) {
	return q.collectLogs(q.query(`
		SELECT `+storage.HabitLogColumns+`
		FROM habit_logs WHERE date = ?
		ORDER BY created_at`, date))
}

// GetHabitLogsForHabit returns a habit's logs, newest date first.
func (q *Queries) GetHabitLogsForHabit(habitID string) ([]models.HabitLog, error) {
	return q.collectLogs(q.query(`
		SELECT `+storage.HabitLogColumns+`
		FROM habit_logs WHERE habit_id = ?
		ORDER BY date DESC`, habitID))
}

func (q *Queries) GetAllHabitLogs() ([]models.HabitLog, error) {
	return q.collectLogs(q.query(`
		SELECT ` + storage.HabitLogColumns + `
		FROM habit_logs
		ORDER BY habit_id, date`))
}

func (q *Queries) DeleteHabitLog(id string) error {
	return q.execOne("log "+id, "DELETE FROM habit_logs WHERE id = ?", id)
}
