// Package notifier schedules reminder triggers and delivers them.
//
// Scheduling and delivery are split: a Notifier records what should fire and
// when (the Outbox keeps it in the habit store), and a Dispatcher later hands
// due rows to a Sender such as the tray webhook.
package notifier

import (
	"context"

	"github.com/julianstephens/habitual/internal/models"
)

// Notifier accepts planned triggers. Scheduling a trigger whose ID is already
// scheduled replaces it.
type Notifier interface {
	Schedule(ctx context.Context, trigger models.Trigger) error
	Cancel(ctx context.Context, id string) error
	CancelAll(ctx context.Context) error
}

// TagCanceler is implemented by notifiers that can drop a whole group of
// triggers at once.
type TagCanceler interface {
	CancelTag(ctx context.Context, tag string) error
}

// Sender delivers one notification to the user.
type Sender interface {
	Send(ctx context.Context, payload models.Payload) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, payload models.Payload) error

func (f SenderFunc) Send(ctx context.Context, payload models.Payload) error {
	return f(ctx, payload)
}
