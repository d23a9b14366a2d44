package reminders

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/utils"
)

// midnightSpec fires at 00:00:00 every day (seconds field enabled).
const midnightSpec = "0 0 0 * * *"

type ReminderDaemonCmd struct {
	Every time.Duration `help:"How often to check for due reminders." default:"1m"`
}

func (c *ReminderDaemonCmd) Run(ctx *cli.Context) error {
	if c.Every < time.Second {
		return fmt.Errorf("--every must be at least 1s")
	}

	runCtx, stop := signal.NotifyContext(ctx.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	settings, err := ctx.Tracker.Settings()
	if err != nil {
		return err
	}
	loc, err := utils.LoadLocation(settings.Timezone)
	if err != nil {
		return err
	}

	w := &worker{app: ctx, runCtx: runCtx}
	w.rollover()

	sched := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(loc),
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.Recover(cronLogger{}), cron.SkipIfStillRunning(cronLogger{})),
	)
	if err := w.register(sched, c.Every); err != nil {
		return err
	}

	sched.Start()
	logger.Info("Reminder daemon started", "every", c.Every, "timezone", loc.String())
	ctx.Printf("Delivering reminders every %s. Press Ctrl+C to stop.\n", c.Every)

	<-runCtx.Done()
	<-sched.Stop().Done()
	logger.Info("Reminder daemon stopped")
	return nil
}

// worker holds the two periodic jobs of the daemon.
type worker struct {
	app    *cli.Context
	runCtx context.Context
}

func (w *worker) register(sched *cron.Cron, every time.Duration) error {
	spec := fmt.Sprintf("@every %ds", int(every.Seconds()))
	if _, err := sched.AddFunc(spec, w.deliver); err != nil {
		return fmt.Errorf("failed to schedule delivery: %w", err)
	}
	if _, err := sched.AddFunc(midnightSpec, w.rollover); err != nil {
		return fmt.Errorf("failed to schedule rollover: %w", err)
	}
	return nil
}

func (w *worker) deliver() {
	if w.runCtx.Err() != nil {
		return
	}
	res, err := deliverDue(w.runCtx, w.app, w.app.Sender)
	if err != nil {
		logger.Warn("Reminder delivery incomplete", "error", err)
	}
	if res.Sent+res.Dropped+res.Failed > 0 {
		logger.Info("Reminder pass", "sent", res.Sent, "dropped", res.Dropped, "failed", res.Failed)
	}
}

// rollover starts a new day: streaks are re-evaluated against the new date
// and every reminder is planned again.
func (w *worker) rollover() {
	if w.runCtx.Err() != nil {
		return
	}
	if err := w.app.Tracker.Rollover(w.runCtx); err != nil {
		logger.Warn("Day rollover incomplete", "error", err)
	}
	w.app.PerformAutomaticBackup()
}

// cronLogger routes cron's own logging through the application logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
