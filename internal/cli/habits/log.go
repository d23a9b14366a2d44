package habits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

func logHabit(ctx *cli.Context, name, date, note string, status models.LogStatus) error {
	habit, err := findHabit(ctx, name)
	if err != nil {
		return err
	}
	now, err := ctx.Tracker.Now()
	if err != nil {
		return err
	}
	day, err := cli.ParseDate(date, now)
	if err != nil {
		return err
	}

	entry, st, err := ctx.Tracker.LogHabit(ctx.Context(), habit.ID, day, status, note)
	if err := ctx.Settled(err); err != nil {
		return err
	}

	icon := "✓"
	if status == models.StatusFailed {
		icon = "✗"
	}
	ctx.Printf("%s %s marked %s for %s", icon, habit.Name, status, entry.Date)
	if st.CurrentStreak > 1 {
		ctx.Printf(" (🔥 %d day streak)", st.CurrentStreak)
	}
	ctx.Println()
	return nil
}

type HabitDoneCmd struct {
	Name string `arg:"" help:"Habit name or ID."`
	Date string `help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
	Note string `help:"Optional note for this log."`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	return logHabit(ctx, c.Name, c.Date, c.Note, models.StatusDone)
}

type HabitFailCmd struct {
	Name string `arg:"" help:"Habit name or ID."`
	Date string `help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
	Note string `help:"Optional note for this log."`
}

func (c *HabitFailCmd) Run(ctx *cli.Context) error {
	return logHabit(ctx, c.Name, c.Date, c.Note, models.StatusFailed)
}

type HabitUnlogCmd struct {
	Name string `arg:"" help:"Habit name or ID."`
	Date string `help:"Date (YYYY-MM-DD, today or yesterday)." default:"today"`
}

func (c *HabitUnlogCmd) Run(ctx *cli.Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return err
	}
	now, err := ctx.Tracker.Now()
	if err != nil {
		return err
	}
	day, err := cli.ParseDate(c.Date, now)
	if err != nil {
		return err
	}

	_, err = ctx.Tracker.UnlogHabit(ctx.Context(), habit.ID, day)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%s has no log for that day", habit.Name)
	}
	if err := ctx.Settled(err); err != nil {
		return err
	}
	ctx.Printf("Removed log for %s\n", habit.Name)
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	items, err := ctx.Tracker.Agenda()
	if err != nil {
		return err
	}
	today, err := ctx.Tracker.Today()
	if err != nil {
		return err
	}

	ctx.Printf("Habits for %s\n\n", today)
	if len(items) == 0 {
		ctx.Println("No habits yet. Add one with 'habitual habit add'.")
		return nil
	}

	pending := 0
	for _, item := range items {
		var mark string
		switch {
		case item.Log != nil && item.Log.Status == models.StatusDone:
			mark = "[✓]"
		case item.Log != nil:
			mark = "[✗]"
		case item.Due:
			mark = "[ ]"
			pending++
		default:
			mark = " - "
		}
		line := fmt.Sprintf("%s %s", mark, item.Habit.Name)
		if item.Stats.CurrentStreak > 0 {
			line += fmt.Sprintf("  🔥 %d", item.Stats.CurrentStreak)
		}
		if !item.Due && item.Log == nil {
			line += "  (not due)"
		}
		ctx.Println(line)
	}

	ctx.Println()
	if pending == 0 {
		ctx.Println("All done for today!")
	} else {
		ctx.Printf("%d habit(s) left today.\n", pending)
	}
	return nil
}

type HabitHistoryCmd struct {
	Name string `arg:"" help:"Habit name or ID."`
	Days int    `help:"Number of days to show." default:"14"`
}

func (c *HabitHistoryCmd) Run(ctx *cli.Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return err
	}
	if c.Days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}
	logs, err := ctx.Tracker.History(habit.ID)
	if err != nil {
		return err
	}
	now, err := ctx.Tracker.Now()
	if err != nil {
		return err
	}

	byDate := make(map[string]models.HabitLog, len(logs))
	for _, l := range logs {
		if _, seen := byDate[l.Date]; !seen {
			byDate[l.Date] = l
		}
	}

	var strip strings.Builder
	var notes []string
	for i := c.Days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format(constants.DateFormat)
		cell := "·"
		if l, ok := byDate[date]; ok {
			cell = "✓"
			if l.Status == models.StatusFailed {
				cell = "✗"
			}
			if l.Notes != "" {
				notes = append(notes, fmt.Sprintf("  %s %s  %s", date, cell, l.Notes))
			}
		}
		strip.WriteString(cell)
	}

	ctx.Printf("%s: last %d days\n\n", habit.Name, c.Days)
	ctx.Printf("  %s\n", strip.String())
	if len(notes) > 0 {
		ctx.Println()
		for _, n := range notes {
			ctx.Println(n)
		}
	}
	return nil
}
