package habits

import (
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/stats"
)

type HabitStatsCmd struct {
	Name    string `arg:"" optional:"" help:"Habit name or ID (default: overview of all habits)."`
	Refresh bool   `help:"Recompute statistics from the logs first."`
}

func (c *HabitStatsCmd) Run(ctx *cli.Context) error {
	if c.Name != "" {
		habit, err := findHabit(ctx, c.Name)
		if err != nil {
			return err
		}
		var st models.HabitStatistics
		if c.Refresh {
			st, err = ctx.Tracker.RefreshStatistics(ctx.Context(), habit.ID)
		} else {
			st, err = ctx.Tracker.Statistics(habit.ID)
		}
		if err != nil {
			return err
		}
		ctx.Printf("%s\n", habit.Name)
		printStats(ctx, st)
		return nil
	}

	if c.Refresh {
		if err := ctx.Tracker.RefreshAllStatistics(ctx.Context()); err != nil {
			return err
		}
	}

	habits, err := ctx.Tracker.ListHabits(true)
	if err != nil {
		return err
	}
	all, err := ctx.Store.GetAllHabitStatistics()
	if err != nil {
		return err
	}

	names := make(map[string]string, len(habits))
	for _, h := range habits {
		names[h.ID] = h.Name
	}
	live := make([]models.HabitStatistics, 0, len(all))
	for _, st := range all {
		if _, ok := names[st.HabitID]; ok {
			live = append(live, st)
		}
	}

	overview := stats.Summarize(live)
	ctx.Println("Overview")
	ctx.Printf("  Habits:            %d\n", overview.Habits)
	ctx.Printf("  Completions:       %d\n", overview.TotalCompletions)
	ctx.Printf("  Failures:          %d\n", overview.TotalFailures)
	ctx.Printf("  Completion rate:   %.1f%%\n", overview.CompletionRate)
	if overview.BestCurrentID != "" {
		ctx.Printf("  Best streak now:   %d (%s)\n", overview.BestCurrent, names[overview.BestCurrentID])
	}
	if overview.BestLongestID != "" {
		ctx.Printf("  Longest ever:      %d (%s)\n", overview.BestLongest, names[overview.BestLongestID])
	}
	return nil
}

func printStats(ctx *cli.Context, st models.HabitStatistics) {
	ctx.Printf("  Current streak:    %d\n", st.CurrentStreak)
	ctx.Printf("  Longest streak:    %d\n", st.LongestStreak)
	ctx.Printf("  Completions:       %d\n", st.TotalCompletions)
	ctx.Printf("  Failures:          %d\n", st.TotalFailures)
	ctx.Printf("  Completion rate:   %.1f%%\n", st.CompletionRate)
}
