package sqlstore

import (
	"database/sql"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// SaveScheduledNotification inserts or replaces the outbox row with n.ID.
func (q *Queries) SaveScheduledNotification(n models.ScheduledNotification) error {
	_, err := q.exec(`
		INSERT INTO scheduled_notifications (`+storage.ScheduledNotificationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			tag = excluded.tag,
			fire_at = excluded.fire_at,
			title = excluded.title,
			body = excluded.body,
			habit_id = excluded.habit_id,
			incomplete_count = excluded.incomplete_count,
			created_at = excluded.created_at`,
		storage.ScheduledNotificationArgs(n)...)
	return err
}

// DeleteScheduledNotification removes a row; a missing row is not an error.
func (q *Queries) DeleteScheduledNotification(id string) error {
	_, err := q.exec("DELETE FROM scheduled_notifications WHERE id = ?", id)
	return err
}

func (q *Queries) DeleteScheduledNotificationsByTag(tag string) error {
	_, err := q.exec("DELETE FROM scheduled_notifications WHERE tag = ?", tag)
	return err
}

func (q *Queries) DeleteAllScheduledNotifications() error {
	_, err := q.exec("DELETE FROM scheduled_notifications")
	return err
}

func (q *Queries) collectNotifications(rows *sql.Rows, err error) ([]models.ScheduledNotification, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ScheduledNotification{}
	for rows.Next() {
		n, err := storage.ScanScheduledNotification(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// GetDueNotifications returns rows whose fire time is at or before now, oldest first.
func (q *Queries) GetDueNotifications(now time.Time) ([]models.ScheduledNotification, error) {
	return q.collectNotifications(q.query(`
		SELECT `+storage.ScheduledNotificationColumns+`
		FROM scheduled_notifications WHERE fire_at <= ?
		ORDER BY fire_at, id`, storage.FormatUTC(now)))
}

func (q *Queries) GetScheduledNotifications() ([]models.ScheduledNotification, error) {
	return q.collectNotifications(q.query(`
		SELECT ` + storage.ScheduledNotificationColumns + `
		FROM scheduled_notifications
		ORDER BY fire_at, id`))
}
