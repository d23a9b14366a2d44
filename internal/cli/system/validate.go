package system

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/utils"
	"github.com/julianstephens/habitual/internal/validation"
)

type ValidateCmd struct {
	Fix bool `help:"Automatically fix duplicate habits, orphan logs and stale statistics."`
}

// collectReport validates every habit, log and statistics record.
func collectReport(ctx *cli.Context) (validation.ValidationResult, error) {
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to load habits: %w", err)
	}
	logs, err := ctx.Store.GetAllHabitLogs()
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to load logs: %w", err)
	}
	all, err := ctx.Store.GetAllHabitStatistics()
	if err != nil {
		return validation.ValidationResult{}, fmt.Errorf("failed to load statistics: %w", err)
	}
	now, err := ctx.Tracker.Now()
	if err != nil {
		return validation.ValidationResult{}, err
	}

	v := validation.New()
	result := v.ValidateHabits(habits)
	result.Merge(v.ValidateLogs(habits, logs, utils.FormatDate(now)))
	result.Merge(v.ValidateStatistics(habits, logs, all, now))
	return result, nil
}

func (cmd *ValidateCmd) Run(ctx *cli.Context) error {
	ctx.Println("Validating habits, logs and statistics...")
	result, err := collectReport(ctx)
	if err != nil {
		return err
	}

	ctx.Println()
	ctx.Println(result.FormatReport())

	if !result.HasConflicts() || !cmd.Fix {
		return nil
	}

	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return err
	}

	var actions []validation.FixAction
	actions = append(actions, validation.AutoFixDuplicateHabits(result.Conflicts, habits, func(id string) error {
		return ctx.Settled(ctx.Tracker.DeleteHabit(ctx.Context(), id))
	})...)
	actions = append(actions, validation.AutoFixOrphanLogs(result.Conflicts, ctx.Store.DeleteHabitLog)...)

	stale := 0
	for _, c := range result.Conflicts {
		if c.Type == validation.ConflictStaleStatistics {
			stale++
		}
	}
	if stale > 0 {
		if err := ctx.Tracker.RefreshAllStatistics(ctx.Context()); err != nil {
			return fmt.Errorf("failed to refresh statistics: %w", err)
		}
		actions = append(actions, validation.FixAction{Action: fmt.Sprintf("Recomputed statistics (%d stale)", stale)})
	}

	ctx.Println("Fixes applied:")
	for _, a := range actions {
		ctx.Printf("- %s\n", a.Action)
	}
	return nil
}
