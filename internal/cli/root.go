package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/migration"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/notifier"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/tracker"
	"github.com/julianstephens/habitual/internal/utils"
)

type Context struct {
	Store   storage.Provider
	Tracker *tracker.Service
	Sender  notifier.Sender
	Out     io.Writer

	ctx context.Context
}

// NewContext wires the tracker to the store's notification outbox. Delivery
// goes to the tray app, falling back to stderr.
func NewContext(store storage.Provider) *Context {
	return &Context{
		Store:   store,
		Tracker: tracker.New(store, notifier.NewOutbox(store)),
		Sender:  notifier.Fallback(notifier.NewTray(), notifier.NewConsole(os.Stderr)),
		Out:     os.Stdout,
	}
}

// WithContext sets the context commands pass to blocking operations.
func (c *Context) WithContext(ctx context.Context) *Context {
	c.ctx = ctx
	return c
}

func (c *Context) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// Migrator is implemented by stores that run embedded migrations.
type Migrator interface {
	MigrationStatus() (migration.Status, error)
	Migrate(logFn func(string)) (int, error)
}

// IsFileStore reports whether the store is a local SQLite file.
func (c *Context) IsFileStore() bool {
	return c.Store.GetConfigPath() != "postgresql"
}

// PerformAutomaticBackup creates a backup of SQLite stores and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	if !c.IsFileStore() {
		return
	}
	if _, err := backup.NewManager(c.Store.GetConfigPath()).CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// Settled reports a scheduling failure as a warning and swallows it: the
// store write it followed has already succeeded. Other errors pass through.
func (c *Context) Settled(err error) error {
	if errors.Is(err, tracker.ErrScheduling) {
		logger.Warn("Reminder scheduling failed", "error", err)
		fmt.Fprintf(os.Stderr, "⚠ Saved, but reminders could not be updated: %v\n", err)
		return nil
	}
	return err
}

// ParseFrequency builds a frequency from a kind (daily, weekly, custom) and
// a day list ("mon,wed" for weekly, "0,6" or day names for custom).
func ParseFrequency(kind, days string) (models.Frequency, error) {
	switch models.FrequencyType(strings.ToLower(strings.TrimSpace(kind))) {
	case "", models.FrequencyDaily:
		return models.Frequency{Type: models.FrequencyDaily}, nil
	case models.FrequencyWeekly:
		wd, err := utils.ParseWeekDays(days)
		if err != nil {
			return models.Frequency{}, err
		}
		return models.Frequency{Type: models.FrequencyWeekly, Days: wd}, nil
	case models.FrequencyCustom:
		cd, err := utils.ParseCustomDays(days)
		if err != nil {
			return models.Frequency{}, err
		}
		return models.Frequency{Type: models.FrequencyCustom, CustomDays: cd}, nil
	default:
		return models.Frequency{}, fmt.Errorf("unknown frequency %q (expected daily, weekly or custom)", kind)
	}
}

// ParseDate resolves "", "today", "yesterday" or YYYY-MM-DD against now.
// An empty result means today.
func ParseDate(value string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today":
		return "", nil
	case "yesterday":
		return now.AddDate(0, 0, -1).Format(constants.DateFormat), nil
	}
	day, err := utils.ParseDateInLocation(strings.TrimSpace(value), now.Location())
	if err != nil {
		return "", fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD, today or yesterday)", value)
	}
	return utils.FormatDate(day), nil
}

// ParseReminder turns "HH:MM" into an enabled reminder and "" or "off" into none.
func ParseReminder(value string) (*models.Reminder, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.EqualFold(value, "off") {
		return nil, nil
	}
	if !utils.ValidateTimeFormat(value) {
		return nil, fmt.Errorf("invalid reminder time %q (expected HH:MM)", value)
	}
	return &models.Reminder{Enabled: true, Time: value}, nil
}
