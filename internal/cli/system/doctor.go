package system

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/backup"
	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/utils"
)

type DoctorCmd struct{}

// check is one diagnostic. Warnings are reported but never fail the run.
// When a gate check fails, every needsDB check after it is skipped.
type check struct {
	name    string
	gate    bool
	needsDB bool
	warn    bool
	run     func(*cli.Context) error
}

var checks = []check{
	{name: "Database reachable", gate: true, run: checkDBReachable},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Schema tables", needsDB: true, run: checkTables},
	{name: "Backups present", warn: true, run: checkBackupsPresent},
	{name: "Data validation", needsDB: true, run: checkValidation},
	{name: "Clock/timezone", needsDB: true, run: checkClockTimezone},
	{name: "Reminder outbox", needsDB: true, warn: true, run: checkOutbox},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true

	for _, c := range checks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.warn:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if c.gate {
				dbReachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	m, ok := ctx.Store.(cli.Migrator)
	if !ok {
		return nil
	}
	status, err := m.MigrationStatus()
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}
	if status.Current > status.Latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", status.Current, status.Latest)
	}
	if !status.UpToDate() {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'habitual migrate')", status.Current, status.Latest)
	}
	return nil
}

// tableChecker is implemented by stores that can inspect their own schema.
type tableChecker interface {
	MissingTables() ([]string, error)
}

func checkTables(ctx *cli.Context) error {
	tc, ok := ctx.Store.(tableChecker)
	if !ok {
		return nil
	}
	missing, err := tc.MissingTables()
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing tables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsFileStore() {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'habitual backup create'")
	}
	return nil
}

func checkValidation(ctx *cli.Context) error {
	report, err := collectReport(ctx)
	if err != nil {
		return err
	}
	if report.HasConflicts() {
		return fmt.Errorf("%d conflict(s) found - run 'habitual validate' for details", len(report.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	now := time.Now()
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	settings, err := ctx.Tracker.Settings()
	if err != nil {
		return err
	}
	if _, err := utils.LoadLocation(settings.Timezone); err != nil {
		return fmt.Errorf("configured timezone %q cannot be loaded: %w", settings.Timezone, err)
	}
	return nil
}

// checkOutbox warns when reminders are far overdue, which means nothing is
// running 'habitual reminder notify' or the daemon.
func checkOutbox(ctx *cli.Context) error {
	settings, err := ctx.Tracker.Settings()
	if err != nil {
		return err
	}
	if !settings.NotificationsEnabled {
		return nil
	}
	now, err := ctx.Tracker.Now()
	if err != nil {
		return err
	}
	overdue, err := ctx.Store.GetDueNotifications(now.Add(-time.Hour))
	if err != nil {
		return fmt.Errorf("failed to read outbox: %w", err)
	}
	if len(overdue) > 0 {
		return fmt.Errorf("%d reminder(s) are more than an hour overdue - is 'habitual reminder daemon' running?", len(overdue))
	}
	return nil
}
