package notifier

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/models"
)

// OutboxStore is the part of the habit store the outbox writes to.
type OutboxStore interface {
	SaveScheduledNotification(models.ScheduledNotification) error
	DeleteScheduledNotification(id string) error
	DeleteScheduledNotificationsByTag(tag string) error
	DeleteAllScheduledNotifications() error
}

// Outbox is a Notifier that persists triggers as scheduled_notifications rows.
type Outbox struct {
	store OutboxStore
	now   func() time.Time
}

var (
	_ Notifier    = (*Outbox)(nil)
	_ TagCanceler = (*Outbox)(nil)
)

func NewOutbox(store OutboxStore) *Outbox {
	return &Outbox{store: store, now: time.Now}
}

// WithClock sets the clock used to stamp created_at.
func (o *Outbox) WithClock(now func() time.Time) *Outbox {
	o.now = now
	return o
}

func (o *Outbox) Schedule(ctx context.Context, trigger models.Trigger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := o.store.SaveScheduledNotification(trigger.ToScheduled(o.now())); err != nil {
		return fmt.Errorf("failed to schedule %s: %w", trigger.ID, err)
	}
	return nil
}

func (o *Outbox) Cancel(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := o.store.DeleteScheduledNotification(id); err != nil {
		return fmt.Errorf("failed to cancel %s: %w", id, err)
	}
	return nil
}

func (o *Outbox) CancelTag(ctx context.Context, tag string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := o.store.DeleteScheduledNotificationsByTag(tag); err != nil {
		return fmt.Errorf("failed to cancel tag %s: %w", tag, err)
	}
	return nil
}

func (o *Outbox) CancelAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.store.DeleteAllScheduledNotifications()
}
