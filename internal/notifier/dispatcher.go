package notifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
)

// DueStore is the part of the habit store the dispatcher reads and prunes.
type DueStore interface {
	GetDueNotifications(now time.Time) ([]models.ScheduledNotification, error)
	DeleteScheduledNotification(id string) error
}

// Result counts what one DeliverDue pass did.
type Result struct {
	Sent    int
	Dropped int
	Failed  int
}

// Dispatcher delivers due outbox rows through a Sender.
type Dispatcher struct {
	store  DueStore
	sender Sender
	grace  time.Duration
}

// NewDispatcher builds a dispatcher. Rows more than grace past their fire
// time are dropped unsent; a grace of zero disables dropping.
func NewDispatcher(store DueStore, sender Sender, grace time.Duration) *Dispatcher {
	return &Dispatcher{store: store, sender: sender, grace: grace}
}

// DeliverDue sends every row due at now. Sent and stale rows are removed
// from the outbox; rows that fail to send stay for the next pass.
func (d *Dispatcher) DeliverDue(ctx context.Context, now time.Time) (Result, error) {
	var res Result

	due, err := d.store.GetDueNotifications(now)
	if err != nil {
		return res, fmt.Errorf("failed to read due notifications: %w", err)
	}

	var errs []error
	for _, n := range due {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		if d.grace > 0 && now.Sub(n.FireAt) > d.grace {
			logger.Info("Dropping stale notification", "id", n.ID, "fire_at", n.FireAt)
			if err := d.store.DeleteScheduledNotification(n.ID); err != nil {
				errs = append(errs, fmt.Errorf("drop %s: %w", n.ID, err))
				continue
			}
			res.Dropped++
			continue
		}

		payload := models.Payload{Title: n.Title, Body: n.Body, HabitID: n.HabitID, IncompleteCount: n.IncompleteCount}
		if err := d.sender.Send(ctx, payload); err != nil {
			logger.Warn("Failed to deliver notification", "id", n.ID, "error", err)
			res.Failed++
			errs = append(errs, fmt.Errorf("send %s: %w", n.ID, err))
			continue
		}

		if err := d.store.DeleteScheduledNotification(n.ID); err != nil {
			errs = append(errs, fmt.Errorf("remove sent %s: %w", n.ID, err))
		}
		res.Sent++
		logger.Debug("Delivered notification", "id", n.ID)
	}

	return res, errors.Join(errs...)
}
