// Package export writes a full copy of the habit data as JSON or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// Snapshot is everything an export contains.
type Snapshot struct {
	Habits     []models.Habit           `json:"habits"`
	Logs       []models.HabitLog        `json:"logs"`
	Statistics []models.HabitStatistics `json:"stats"`
	ExportedAt time.Time                `json:"export_date"`
}

// Source is the read side of the store an export needs.
type Source interface {
	GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error)
	GetAllHabitLogs() ([]models.HabitLog, error)
	GetAllHabitStatistics() ([]models.HabitStatistics, error)
}

// Collect reads live habits (archived included) with their logs and statistics.
func Collect(src Source, now time.Time) (Snapshot, error) {
	habits, err := src.GetAllHabits(true, false)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read habits: %w", err)
	}
	live := make(map[string]bool, len(habits))
	for _, h := range habits {
		live[h.ID] = true
	}

	all, err := src.GetAllHabitLogs()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read logs: %w", err)
	}
	logs := make([]models.HabitLog, 0, len(all))
	for _, l := range all {
		if live[l.HabitID] {
			logs = append(logs, l)
		}
	}

	stats, err := src.GetAllHabitStatistics()
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read statistics: %w", err)
	}

	return Snapshot{Habits: habits, Logs: logs, Statistics: stats, ExportedAt: now}, nil
}

// Write encodes snap in the given format.
func Write(w io.Writer, format Format, snap Snapshot) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, snap)
	case FormatCSV:
		return WriteCSV(w, snap)
	default:
		return fmt.Errorf("unknown export format %q (expected json or csv)", format)
	}
}

func WriteJSON(w io.Writer, snap Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// WriteCSV writes three sections (habits, logs, statistics), each headed by a
// "# NAME" comment line and its own column header.
func WriteCSV(w io.Writer, snap Snapshot) error {
	if _, err := fmt.Fprintf(w, "# HABITUAL EXPORT\n# Date: %s\n\n# HABITS\n", snap.ExportedAt.Format(time.RFC3339)); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"ID", "Name", "Description", "Category", "Frequency", "Created At", "Updated At"})
	for _, h := range snap.Habits {
		_ = cw.Write([]string{
			h.ID, h.Name, h.Description, string(h.Category), utils.FormatFrequency(h.Frequency),
			storage.FormatTime(h.CreatedAt), storage.FormatTime(h.UpdatedAt),
		})
	}
	if err := section(cw, w, "LOGS"); err != nil {
		return err
	}
	_ = cw.Write([]string{"ID", "Habit ID", "Date", "Status", "Notes", "Created At"})
	for _, l := range snap.Logs {
		_ = cw.Write([]string{l.ID, l.HabitID, l.Date, string(l.Status), l.Notes, storage.FormatTime(l.CreatedAt)})
	}
	if err := section(cw, w, "STATISTICS"); err != nil {
		return err
	}
	_ = cw.Write([]string{"Habit ID", "Total Completions", "Total Failures", "Current Streak", "Longest Streak", "Completion Rate"})
	for _, s := range snap.Statistics {
		_ = cw.Write([]string{
			s.HabitID,
			strconv.Itoa(s.TotalCompletions),
			strconv.Itoa(s.TotalFailures),
			strconv.Itoa(s.CurrentStreak),
			strconv.Itoa(s.LongestStreak),
			strconv.FormatFloat(s.CompletionRate, 'f', 2, 64) + "%",
		})
	}
	cw.Flush()
	return cw.Error()
}

func section(cw *csv.Writer, w io.Writer, name string) error {
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n# %s\n", name)
	return err
}
