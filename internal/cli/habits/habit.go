package habits

import (
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/utils"
)

type HabitCmd struct {
	Add       HabitAddCmd       `cmd:"" help:"Add a new habit."`
	Edit      HabitEditCmd      `cmd:"" help:"Edit an existing habit."`
	List      HabitListCmd      `cmd:"" help:"List habits."`
	Show      HabitShowCmd      `cmd:"" help:"Show a habit and its statistics."`
	Done      HabitDoneCmd      `cmd:"" help:"Mark a habit as done for a day."`
	Fail      HabitFailCmd      `cmd:"" help:"Mark a habit as failed for a day."`
	Unlog     HabitUnlogCmd     `cmd:"" help:"Remove the log of a habit for a day."`
	Today     HabitTodayCmd     `cmd:"" help:"Show today's habit status."`
	History   HabitHistoryCmd   `cmd:"" help:"Show a habit's recent history."`
	Stats     HabitStatsCmd     `cmd:"" help:"Show habit statistics."`
	Export    HabitExportCmd    `cmd:"" help:"Export habits, logs and statistics."`
	Archive   HabitArchiveCmd   `cmd:"" help:"Archive a habit."`
	Unarchive HabitUnarchiveCmd `cmd:"" help:"Unarchive a habit."`
	Delete    HabitDeleteCmd    `cmd:"" help:"Delete a habit (soft delete)."`
	Restore   HabitRestoreCmd   `cmd:"" help:"Restore a deleted habit."`
}

func findHabit(ctx *cli.Context, ref string) (models.Habit, error) {
	h, err := ctx.Tracker.FindHabit(ref)
	if errors.Is(err, storage.ErrNotFound) {
		return models.Habit{}, apperrors.WithHint(fmt.Errorf("habit %q not found", ref), "run 'habitual habit list' to see habit names")
	}
	return h, err
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `help:"Optional description." short:"d"`
	Category    string `help:"Category (health, work, personal, education, social, other)." default:"other"`
	Frequency   string `help:"Frequency: daily, weekly or custom." default:"daily" enum:"daily,weekly,custom"`
	Days        string `help:"Days for weekly (mon,wed,fri) or custom (0,6 or sat,sun) frequencies."`
	Remind      string `help:"Daily reminder time (HH:MM)."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	freq, err := cli.ParseFrequency(c.Frequency, c.Days)
	if err != nil {
		return err
	}
	reminder, err := cli.ParseReminder(c.Remind)
	if err != nil {
		return err
	}

	habit, err := ctx.Tracker.CreateHabit(ctx.Context(), models.Habit{
		Name:        c.Name,
		Description: c.Description,
		Category:    models.Category(c.Category),
		Frequency:   freq,
		Reminder:    reminder,
	})
	if err := ctx.Settled(err); err != nil {
		return err
	}

	ctx.Printf("Added habit: %s (%s)\n", habit.Name, utils.FormatFrequency(habit.Frequency))
	return nil
}

type HabitEditCmd struct {
	Name        string  `arg:"" help:"Habit name or ID."`
	Rename      *string `help:"New name."`
	Description *string `help:"New description."`
	Category    *string `help:"New category."`
	Frequency   *string `help:"New frequency: daily, weekly or custom." enum:"daily,weekly,custom"`
	Days        *string `help:"New days for weekly or custom frequencies."`
	Remind      *string `help:"New reminder time (HH:MM), or 'off'."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return err
	}

	updated := false
	if c.Rename != nil {
		habit.Name = *c.Rename
		updated = true
	}
	if c.Description != nil {
		habit.Description = *c.Description
		updated = true
	}
	if c.Category != nil {
		habit.Category = models.Category(*c.Category)
		updated = true
	}
	if c.Frequency != nil || c.Days != nil {
		kind := string(habit.Frequency.Type)
		if c.Frequency != nil {
			kind = *c.Frequency
		}
		days := ""
		if c.Days != nil {
			days = *c.Days
		}
		freq, err := cli.ParseFrequency(kind, days)
		if err != nil {
			return err
		}
		habit.Frequency = freq
		updated = true
	}
	if c.Remind != nil {
		reminder, err := cli.ParseReminder(*c.Remind)
		if err != nil {
			return err
		}
		habit.Reminder = reminder
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified.")
		return nil
	}

	habit, err = ctx.Tracker.UpdateHabit(ctx.Context(), habit)
	if err := ctx.Settled(err); err != nil {
		return err
	}
	ctx.Printf("Updated habit: %s\n", habit.Name)
	return nil
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
	Deleted  bool `help:"Include deleted habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(c.Archived, c.Deleted)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		ctx.Println("No habits found.")
		return nil
	}

	for _, habit := range habits {
		status := ""
		if habit.DeletedAt != nil {
			status = " [DELETED]"
		} else if habit.ArchivedAt != nil {
			status = " [ARCHIVED]"
		}
		reminder := ""
		if habit.HasReminder() {
			reminder = " ⏰ " + habit.Reminder.Time
		}
		ctx.Printf("%s  (%s, %s)%s%s\n", habit.Name, habit.Category, utils.FormatFrequency(habit.Frequency), reminder, status)
	}
	return nil
}

type HabitShowCmd struct {
	Name string `arg:"" help:"Habit name or ID."`
}

func (c *HabitShowCmd) Run(ctx *cli.Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return err
	}
	st, err := ctx.Tracker.Statistics(habit.ID)
	if err != nil {
		return err
	}

	ctx.Printf("%s\n", habit.Name)
	if habit.Description != "" {
		ctx.Printf("  %s\n", habit.Description)
	}
	ctx.Printf("  ID:          %s\n", habit.ID)
	ctx.Printf("  Category:    %s\n", habit.Category)
	ctx.Printf("  Frequency:   %s\n", utils.FormatFrequency(habit.Frequency))
	if habit.HasReminder() {
		ctx.Printf("  Reminder:    %s\n", habit.Reminder.Time)
	} else {
		ctx.Printf("  Reminder:    off\n")
	}
	if habit.ArchivedAt != nil {
		ctx.Printf("  Archived:    %s\n", habit.ArchivedAt.Format(constants.DateFormat))
	}
	ctx.Println()
	printStats(ctx, st)
	return nil
}

type HabitArchiveCmd struct {
	Name string `arg:"" help:"Habit name or ID."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Settled(ctx.Tracker.ArchiveHabit(ctx.Context(), habit.ID)); err != nil {
		return err
	}
	ctx.Printf("Archived habit: %s\n", habit.Name)
	return nil
}

type HabitUnarchiveCmd struct {
	Name string `arg:"" help:"Habit name or ID."`
}

func (c *HabitUnarchiveCmd) Run(ctx *cli.Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Settled(ctx.Tracker.UnarchiveHabit(ctx.Context(), habit.ID)); err != nil {
		return err
	}
	ctx.Printf("Unarchived habit: %s\n", habit.Name)
	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name or ID."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := findHabit(ctx, c.Name)
	if err != nil {
		return err
	}
	if err := ctx.Settled(ctx.Tracker.DeleteHabit(ctx.Context(), habit.ID)); err != nil {
		return err
	}
	ctx.Printf("Deleted habit: %s\n", habit.Name)
	ctx.Printf("Use 'habitual habit restore %q' to undo.\n", habit.Name)
	return nil
}

type HabitRestoreCmd struct {
	Name string `arg:"" help:"Name or ID of the deleted habit."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	deleted, err := ctx.Tracker.FindDeletedHabit(c.Name)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("no deleted habit named %q", c.Name)
	}
	if err != nil {
		return err
	}

	habit, err := ctx.Tracker.RestoreHabit(ctx.Context(), deleted.ID)
	if err := ctx.Settled(err); err != nil {
		return err
	}
	ctx.Printf("Restored habit: %s\n", habit.Name)
	return nil
}
