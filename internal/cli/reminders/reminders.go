package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/notifier"
)

type ReminderCmd struct {
	Plan   ReminderPlanCmd   `cmd:"" help:"Show the reminders that would be scheduled now."`
	Sync   ReminderSyncCmd   `cmd:"" help:"Cancel and re-plan every pending reminder."`
	Notify ReminderNotifyCmd `cmd:"" help:"Deliver reminders that are due (run from cron or a timer)."`
	Daemon ReminderDaemonCmd `cmd:"" help:"Deliver reminders continuously and re-plan at midnight."`
}

type ReminderPlanCmd struct{}

func (c *ReminderPlanCmd) Run(ctx *cli.Context) error {
	triggers, err := ctx.Tracker.Plan()
	if err != nil {
		return err
	}
	if len(triggers) == 0 {
		ctx.Println("No reminders left for today.")
		return nil
	}

	for _, t := range triggers {
		ctx.Printf("%s  %-16s %s: %s\n", t.At.Format(constants.TimeFormat), t.ID, t.Payload.Title, t.Payload.Body)
	}
	return nil
}

type ReminderSyncCmd struct{}

func (c *ReminderSyncCmd) Run(ctx *cli.Context) error {
	if err := ctx.Tracker.RescheduleAll(ctx.Context()); err != nil {
		return err
	}
	pending, err := ctx.Store.GetScheduledNotifications()
	if err != nil {
		return err
	}
	ctx.Printf("Scheduled %d reminder(s).\n", len(pending))
	return nil
}

type ReminderNotifyCmd struct {
	Print bool `help:"Print reminders to stdout instead of sending them to the tray."`
}

func (c *ReminderNotifyCmd) Run(ctx *cli.Context) error {
	sender := ctx.Sender
	if c.Print {
		sender = notifier.NewConsole(ctx.Out)
	}

	res, err := deliverDue(ctx.Context(), ctx, sender)
	if c.Print {
		ctx.Printf("Sent %d, dropped %d stale, %d failed.\n", res.Sent, res.Dropped, res.Failed)
	}
	return err
}

// deliverDue rolls the schedule over when the day has changed since it was
// last planned, then runs one dispatcher pass with the grace period from settings.
func deliverDue(runCtx context.Context, ctx *cli.Context, sender notifier.Sender) (notifier.Result, error) {
	if _, err := ctx.Tracker.EnsurePlanned(runCtx); err != nil {
		logger.Warn("Failed to plan the new day", "error", err)
	}

	settings, err := ctx.Tracker.Settings()
	if err != nil {
		return notifier.Result{}, fmt.Errorf("failed to get settings: %w", err)
	}
	now, err := ctx.Tracker.Now()
	if err != nil {
		return notifier.Result{}, err
	}

	grace := time.Duration(settings.NotificationGracePeriodMin) * time.Minute
	return notifier.NewDispatcher(ctx.Store, sender, grace).DeliverDue(runCtx, now)
}
