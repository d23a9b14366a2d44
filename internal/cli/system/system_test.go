package system

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

var fixedNow = time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)

// setupTestDB returns a context over an uninitialized SQLite store.
func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	ctx := cli.NewContext(store)
	ctx.Tracker.WithClock(func() time.Time { return fixedNow })
	out := &bytes.Buffer{}
	ctx.Out = out
	return ctx, out, dbPath
}

func setupInitializedDB(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	ctx, out, dbPath := setupTestDB(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	settings.Timezone = "UTC"
	if err := ctx.Store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
	return ctx, out, dbPath
}

func createHabit(t *testing.T, ctx *cli.Context, name string) models.Habit {
	t.Helper()
	h, err := ctx.Tracker.CreateHabit(context.Background(), models.Habit{
		Name:      name,
		Category:  models.CategoryHealth,
		Frequency: models.Frequency{Type: models.FrequencyDaily},
	})
	if err := ctx.Settled(err); err != nil {
		t.Fatalf("failed to create habit %s: %v", name, err)
	}
	return h
}
