package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/utils"
)

type HabitFormModel struct {
	Name      string
	Category  models.Category
	Frequency models.FrequencyType
	Days      string
	Reminder  string
}

// Habit converts the form values into a new habit.
func (fm *HabitFormModel) Habit() (models.Habit, error) {
	h := models.Habit{
		Name:      strings.TrimSpace(fm.Name),
		Category:  fm.Category,
		Frequency: models.Frequency{Type: fm.Frequency},
	}
	switch fm.Frequency {
	case models.FrequencyWeekly:
		days, err := utils.ParseWeekDays(fm.Days)
		if err != nil {
			return h, err
		}
		h.Frequency.Days = days
	case models.FrequencyCustom:
		days, err := utils.ParseCustomDays(fm.Days)
		if err != nil {
			return h, err
		}
		h.Frequency.CustomDays = days
	}
	if r := strings.TrimSpace(fm.Reminder); r != "" {
		h.Reminder = &models.Reminder{Enabled: true, Time: r}
	}
	return h, nil
}

// NewHabitForm creates a new form for adding habits
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	categories := make([]huh.Option[models.Category], len(models.Categories))
	for i, c := range models.Categories {
		categories[i] = huh.NewOption(strings.ToUpper(string(c[:1]))+string(c[1:]), c)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[models.Category]().
				Title("Category").
				Options(categories...).
				Value(&fm.Category),
			huh.NewSelect[models.FrequencyType]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.FrequencyDaily),
					huh.NewOption("Weekly", models.FrequencyWeekly),
					huh.NewOption("Custom days", models.FrequencyCustom),
				).
				Value(&fm.Frequency),
			huh.NewInput().
				Title("Days").
				Description("Weekly: mon,wed,fri. Custom: 0,6 (0=Sunday)").
				Value(&fm.Days),
			huh.NewInput().
				Title("Reminder (HH:MM)").
				Description("Leave empty for no reminder").
				Value(&fm.Reminder).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" || utils.ValidateTimeFormat(strings.TrimSpace(s)) {
						return nil
					}
					return fmt.Errorf("expected HH:MM")
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
