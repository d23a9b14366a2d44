package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// Column encodings shared by the SQL backends. Timestamps are stored as
// RFC3339 text; outbox fire times are normalized to UTC so that text
// comparison orders them correctly.

func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func FormatUTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func ParseTime(column, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", column, err)
	}
	return t, nil
}

func NullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: FormatTime(*t), Valid: true}
}

func ParseNullTime(column string, value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	t, err := ParseTime(column, value.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EncodeWeekDays stores weekly days as "Mon,Wed".
func EncodeWeekDays(days []models.WeekDay) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}

func DecodeWeekDays(value string) []models.WeekDay {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	days := make([]models.WeekDay, 0, len(parts))
	for _, p := range parts {
		days = append(days, models.WeekDay(strings.TrimSpace(p)))
	}
	return days
}

// EncodeCustomDays stores custom days as "0,6".
func EncodeCustomDays(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

func DecodeCustomDays(value string) ([]int, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	days := make([]int, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("failed to parse custom day %q: %w", p, err)
		}
		days = append(days, d)
	}
	return days, nil
}

// HabitRow holds a habits row as scanned from the database.
type HabitRow struct {
	ID              string
	Name            string
	Description     string
	Category        string
	FrequencyType   string
	FrequencyDays   string
	CustomDays      string
	ReminderEnabled bool
	ReminderTime    sql.NullString
	CreatedAt       string
	UpdatedAt       string
	ArchivedAt      sql.NullString
	DeletedAt       sql.NullString
}

// HabitColumns lists the columns in the order ScanDest expects.
const HabitColumns = "id, name, description, category, frequency_type, frequency_days, custom_days, reminder_enabled, reminder_time, created_at, updated_at, archived_at, deleted_at"

func (r *HabitRow) ScanDest() []any {
	return []any{
		&r.ID, &r.Name, &r.Description, &r.Category,
		&r.FrequencyType, &r.FrequencyDays, &r.CustomDays,
		&r.ReminderEnabled, &r.ReminderTime,
		&r.CreatedAt, &r.UpdatedAt, &r.ArchivedAt, &r.DeletedAt,
	}
}

func (r *HabitRow) Habit() (models.Habit, error) {
	h := models.Habit{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    models.Category(r.Category),
		Frequency: models.Frequency{
			Type: models.FrequencyType(r.FrequencyType),
			Days: DecodeWeekDays(r.FrequencyDays),
		},
	}

	var err error
	if h.Frequency.CustomDays, err = DecodeCustomDays(r.CustomDays); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", r.ID, err)
	}
	if r.ReminderTime.Valid {
		h.Reminder = &models.Reminder{Enabled: r.ReminderEnabled, Time: r.ReminderTime.String}
	}
	if h.CreatedAt, err = ParseTime("created_at", r.CreatedAt); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", r.ID, err)
	}
	if h.UpdatedAt, err = ParseTime("updated_at", r.UpdatedAt); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", r.ID, err)
	}
	if h.ArchivedAt, err = ParseNullTime("archived_at", r.ArchivedAt); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", r.ID, err)
	}
	if h.DeletedAt, err = ParseNullTime("deleted_at", r.DeletedAt); err != nil {
		return models.Habit{}, fmt.Errorf("habit %s: %w", r.ID, err)
	}
	return h, nil
}

// HabitArgs returns the insert arguments for a habit in HabitColumns order.
func HabitArgs(h models.Habit) []any {
	var reminderEnabled bool
	var reminderTime sql.NullString
	if h.Reminder != nil {
		reminderEnabled = h.Reminder.Enabled
		reminderTime = sql.NullString{String: h.Reminder.Time, Valid: true}
	}
	return []any{
		h.ID, h.Name, h.Description, string(h.Category),
		string(h.Frequency.Type), EncodeWeekDays(h.Frequency.Days), EncodeCustomDays(h.Frequency.CustomDays),
		reminderEnabled, reminderTime,
		FormatTime(h.CreatedAt), FormatTime(h.UpdatedAt), NullTime(h.ArchivedAt), NullTime(h.DeletedAt),
	}
}

const HabitLogColumns = "id, habit_id, date, status, notes, created_at, updated_at"

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

func ScanHabitLog(sc Scanner) (models.HabitLog, error) {
	var l models.HabitLog
	var status, createdAt, updatedAt string
	if err := sc.Scan(&l.ID, &l.HabitID, &l.Date, &status, &l.Notes, &createdAt, &updatedAt); err != nil {
		return models.HabitLog{}, err
	}
	l.Status = models.LogStatus(status)

	var err error
	if l.CreatedAt, err = ParseTime("created_at", createdAt); err != nil {
		return models.HabitLog{}, fmt.Errorf("log %s: %w", l.ID, err)
	}
	if l.UpdatedAt, err = ParseTime("updated_at", updatedAt); err != nil {
		return models.HabitLog{}, fmt.Errorf("log %s: %w", l.ID, err)
	}
	return l, nil
}

const HabitStatisticsColumns = "habit_id, total_completions, total_failures, current_streak, longest_streak, completion_rate, updated_at"

func ScanHabitStatistics(sc Scanner) (models.HabitStatistics, error) {
	var st models.HabitStatistics
	var updatedAt string
	if err := sc.Scan(&st.HabitID, &st.TotalCompletions, &st.TotalFailures, &st.CurrentStreak, &st.LongestStreak, &st.CompletionRate, &updatedAt); err != nil {
		return models.HabitStatistics{}, err
	}
	var err error
	if st.UpdatedAt, err = ParseTime("updated_at", updatedAt); err != nil {
		return models.HabitStatistics{}, fmt.Errorf("statistics %s: %w", st.HabitID, err)
	}
	return st, nil
}

const ScheduledNotificationColumns = "id, tag, fire_at, title, body, habit_id, incomplete_count, created_at"

func ScanScheduledNotification(sc Scanner) (models.ScheduledNotification, error) {
	var n models.ScheduledNotification
	var fireAt, createdAt string
	var habitID sql.NullString
	if err := sc.Scan(&n.ID, &n.Tag, &fireAt, &n.Title, &n.Body, &habitID, &n.IncompleteCount, &createdAt); err != nil {
		return models.ScheduledNotification{}, err
	}
	n.HabitID = habitID.String

	var err error
	if n.FireAt, err = ParseTime("fire_at", fireAt); err != nil {
		return models.ScheduledNotification{}, fmt.Errorf("notification %s: %w", n.ID, err)
	}
	if n.CreatedAt, err = ParseTime("created_at", createdAt); err != nil {
		return models.ScheduledNotification{}, fmt.Errorf("notification %s: %w", n.ID, err)
	}
	return n, nil
}

func ScheduledNotificationArgs(n models.ScheduledNotification) []any {
	var habitID sql.NullString
	if n.HabitID != "" {
		habitID = sql.NullString{String: n.HabitID, Valid: true}
	}
	return []any{n.ID, n.Tag, FormatUTC(n.FireAt), n.Title, n.Body, habitID, n.IncompleteCount, FormatTime(n.CreatedAt)}
}
