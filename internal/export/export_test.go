package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/models"
)

type fakeSource struct {
	habits []models.Habit
	logs   []models.HabitLog
	stats  []models.HabitStatistics
	err    error
}

func (f fakeSource) GetAllHabits(bool, bool) ([]models.Habit, error) { return f.habits, f.err }
func (f fakeSource) GetAllHabitLogs() ([]models.HabitLog, error)     { return f.logs, nil }
func (f fakeSource) GetAllHabitStatistics() ([]models.HabitStatistics, error) {
	return f.stats, nil
}

var exportedAt = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

func sample() fakeSource {
	created := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	return fakeSource{
		habits: []models.Habit{{
			ID: "h1", Name: "Read, daily", Category: models.CategoryEducation,
			Frequency: models.Frequency{Type: models.FrequencyWeekly, Days: []models.WeekDay{"Mon", "Wed"}},
			CreatedAt: created, UpdatedAt: created,
		}},
		logs: []models.HabitLog{
			{ID: "l1", HabitID: "h1", Date: "2026-01-05", Status: models.StatusDone, Notes: `said "hi"`, CreatedAt: created},
			{ID: "l2", HabitID: "gone", Date: "2026-01-05", Status: models.StatusDone, CreatedAt: created},
		},
		stats: []models.HabitStatistics{{HabitID: "h1", TotalCompletions: 2, TotalFailures: 1, CurrentStreak: 1, LongestStreak: 2, CompletionRate: 200.0 / 3}},
	}
}

func TestCollectSkipsLogsOfDeletedHabits(t *testing.T) {
	snap, err := Collect(sample(), exportedAt)
	require.NoError(t, err)
	require.Len(t, snap.Logs, 1)
	assert.Equal(t, "l1", snap.Logs[0].ID)
	assert.Equal(t, exportedAt, snap.ExportedAt)

	_, err = Collect(fakeSource{err: errors.New("db gone")}, exportedAt)
	assert.ErrorContains(t, err, "db gone")
}

func TestWriteJSON(t *testing.T) {
	snap, err := Collect(sample(), exportedAt)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, snap))

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "habits")
	assert.Contains(t, decoded, "logs")
	assert.Contains(t, decoded, "stats")
	assert.JSONEq(t, `"2026-01-05T12:00:00Z"`, string(decoded["export_date"]))
}

func TestWriteCSV(t *testing.T) {
	snap, err := Collect(sample(), exportedAt)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, snap))
	out := buf.String()

	for _, want := range []string{
		"# HABITUAL EXPORT\n# Date: 2026-01-05T12:00:00Z\n",
		"\n# HABITS\nID,Name,Description,Category,Frequency,Created At,Updated At\n",
		`h1,"Read, daily",,education,`,
		"\n# LOGS\nID,Habit ID,Date,Status,Notes,Created At\n",
		`l1,h1,2026-01-05,done,"said ""hi""",2026-01-01T08:00:00Z`,
		"\n# STATISTICS\n",
		"h1,2,1,1,2,66.67%",
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 4, strings.Count(out, "\n# "))
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("xml"), Snapshot{})
	assert.ErrorContains(t, err, "unknown export format")
}
