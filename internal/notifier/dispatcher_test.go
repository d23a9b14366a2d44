package notifier

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "habitual.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

type recordingSender struct {
	sent []models.Payload
	fail map[string]bool
}

func (r *recordingSender) Send(_ context.Context, p models.Payload) error {
	if r.fail[p.Title] {
		return errors.New("unreachable")
	}
	r.sent = append(r.sent, p)
	return nil
}

func trigger(id, tag string, at time.Time) models.Trigger {
	return models.Trigger{ID: id, Tag: tag, At: at, Payload: models.Payload{Title: id, Body: "body " + id}}
}

func TestOutbox(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	now := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	outbox := NewOutbox(store).WithClock(func() time.Time { return now })

	require.NoError(t, outbox.Schedule(ctx, trigger("h1", "habit", now.Add(time.Hour))))
	require.NoError(t, outbox.Schedule(ctx, trigger("persistent-1000", "persistent", now.Add(2*time.Hour))))
	require.NoError(t, outbox.Schedule(ctx, trigger("persistent-1001", "persistent", now.Add(3*time.Hour))))

	// Rescheduling the same ID replaces the row.
	require.NoError(t, outbox.Schedule(ctx, trigger("h1", "habit", now.Add(90*time.Minute))))

	rows, err := store.GetScheduledNotifications()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "h1", rows[0].ID)
	assert.True(t, rows[0].FireAt.Equal(now.Add(90*time.Minute)))

	require.NoError(t, outbox.CancelTag(ctx, "persistent"))
	rows, err = store.GetScheduledNotifications()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, outbox.Cancel(ctx, "h1"))
	require.NoError(t, outbox.Cancel(ctx, "h1"))
	rows, err = store.GetScheduledNotifications()
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, outbox.Schedule(ctx, trigger("h2", "habit", now)))
	require.NoError(t, outbox.CancelAll(ctx))
	rows, err = store.GetScheduledNotifications()
	require.NoError(t, err)
	assert.Empty(t, rows)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, outbox.Schedule(cancelled, trigger("h3", "habit", now)), context.Canceled)
}

func TestDeliverDue(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	now := time.Date(2026, 1, 5, 20, 0, 0, 0, time.UTC)
	outbox := NewOutbox(store)

	require.NoError(t, outbox.Schedule(ctx, trigger("stale", "habit", now.Add(-3*time.Hour))))
	require.NoError(t, outbox.Schedule(ctx, trigger("due", "habit", now.Add(-time.Minute))))
	require.NoError(t, outbox.Schedule(ctx, trigger("broken", "habit", now.Add(-30*time.Second))))
	require.NoError(t, outbox.Schedule(ctx, trigger("later", "habit", now.Add(time.Hour))))

	sender := &recordingSender{fail: map[string]bool{"broken": true}}
	d := NewDispatcher(store, sender, time.Hour)

	res, err := d.DeliverDue(ctx, now)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send broken")
	assert.Equal(t, Result{Sent: 1, Dropped: 1, Failed: 1}, res)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "due", sender.sent[0].Title)

	rows, err := store.GetScheduledNotifications()
	require.NoError(t, err)
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{"broken", "later"}, ids)

	// The failed row is retried on the next pass.
	sender.fail = nil
	res, err = d.DeliverDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, Result{Sent: 1}, res)
}

func TestDeliverDueNoGrace(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	now := time.Date(2026, 1, 5, 20, 0, 0, 0, time.UTC)
	require.NoError(t, NewOutbox(store).Schedule(ctx, trigger("old", "habit", now.Add(-48*time.Hour))))

	sender := &recordingSender{}
	res, err := NewDispatcher(store, sender, 0).DeliverDue(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
}

func TestDeliverDueKeepsSeriesPayload(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	now := time.Date(2026, 1, 5, 20, 0, 0, 0, time.UTC)
	tr := trigger("persistent-1200", "persistent", now)
	tr.Payload.IncompleteCount = 3
	require.NoError(t, NewOutbox(store).Schedule(ctx, tr))

	rows, err := store.GetScheduledNotifications()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].IncompleteCount)

	sender := &recordingSender{}
	_, err = NewDispatcher(store, sender, time.Hour).DeliverDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, 3, sender.sent[0].IncompleteCount)
}

func TestConsoleAndFallback(t *testing.T) {
	var buf bytes.Buffer
	console := NewConsole(&buf)
	failing := SenderFunc(func(context.Context, models.Payload) error { return errors.New("tray down") })

	err := Fallback(failing, console).Send(context.Background(), models.Payload{Title: "Reminder: Read", Body: "go"})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Reminder: Read: go")

	err = Fallback(failing, failing).Send(context.Background(), models.Payload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tray down")
}
