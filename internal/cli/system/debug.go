package system

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/storage"
)

type DebugCmd struct {
	DBPath       DebugDBPathCmd       `cmd:"" name:"db-path" help:"Show database path."`
	DumpHabit    DebugDumpHabitCmd    `cmd:"" help:"Dump a habit with its logs and statistics as JSON."`
	DumpSettings DebugDumpSettingsCmd `cmd:"" help:"Dump settings as JSON."`
	DumpOutbox   DebugDumpOutboxCmd   `cmd:"" help:"Dump pending reminders as JSON."`
}

func printJSON(ctx *cli.Context, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	ctx.Println(string(jsonBytes))
	return nil
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *cli.Context) error {
	return printJSON(ctx, map[string]string{"path": ctx.Store.GetConfigPath()})
}

type DebugDumpHabitCmd struct {
	ID string `arg:"" help:"ID or name of the habit to dump."`
}

func (cmd *DebugDumpHabitCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Tracker.FindHabit(cmd.ID)
	if errors.Is(err, storage.ErrNotFound) {
		habit, err = ctx.Tracker.FindDeletedHabit(cmd.ID)
	}
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("habit not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get habit: %w", err)
	}

	logs, err := ctx.Store.GetHabitLogsForHabit(habit.ID)
	if err != nil {
		return fmt.Errorf("failed to get logs: %w", err)
	}
	st, err := ctx.Tracker.Statistics(habit.ID)
	if err != nil {
		return fmt.Errorf("failed to get statistics: %w", err)
	}

	return printJSON(ctx, map[string]any{
		"habit": habit,
		"logs":  logs,
		"stats": st,
	})
}

type DebugDumpSettingsCmd struct{}

func (cmd *DebugDumpSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	return printJSON(ctx, settings)
}

type DebugDumpOutboxCmd struct{}

func (cmd *DebugDumpOutboxCmd) Run(ctx *cli.Context) error {
	pending, err := ctx.Store.GetScheduledNotifications()
	if err != nil {
		return fmt.Errorf("failed to read outbox: %w", err)
	}
	return printJSON(ctx, pending)
}
