package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting existing database before initialization."`
	Source string `help:"Source database path or connection string to copy data from."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force && ctx.IsFileStore() {
		dbPath := ctx.Store.GetConfigPath()
		if c.Source != "" {
			absDB, err := filepath.Abs(dbPath)
			if err == nil {
				dbPath = absDB
			}
			absSource, err := filepath.Abs(c.Source)
			if err == nil && absSource == dbPath {
				return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
			}
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			if err := os.Remove(dbPath); err != nil {
				return fmt.Errorf("failed to delete existing database: %w", err)
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized habitual storage at: %s\n", ctx.Store.GetConfigPath())

	if c.Source != "" {
		ctx.Printf("Copying data from: %s\n", postgres.Redact(c.Source))
		if err := c.copyData(ctx, c.Source); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		ctx.Println("Migration completed successfully!")
	}

	return nil
}

func openSource(source string) (storage.Provider, error) {
	if postgres.IsConnString(source) {
		if valid, err := postgres.ValidateConnString(source); !valid {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use the keyring, %s or .pgpass instead", constants.EnvDBConnection)
			}
			return nil, err
		}
		return postgres.New(source), nil
	}
	return sqlite.NewStore(source), nil
}

// copyData copies settings, habits (deleted ones included), logs and
// statistics from source into the current store, then re-plans reminders.
func (c *InitCmd) copyData(ctx *cli.Context, source string) error {
	src, err := openSource(source)
	if err != nil {
		return err
	}
	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to load source database: %w", err)
	}
	defer src.Close()

	ctx.Println("  Copying settings...")
	settings, err := src.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings from source: %w", err)
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings to destination: %w", err)
	}

	ctx.Println("  Copying habits...")
	habits, err := src.GetAllHabits(true, true)
	if err != nil {
		return fmt.Errorf("failed to get habits from source: %w", err)
	}
	for _, h := range habits {
		if err := ctx.Store.AddHabit(h); err != nil {
			return fmt.Errorf("failed to add habit %s: %w", h.ID, err)
		}
	}
	ctx.Printf("    Copied %d habits\n", len(habits))

	ctx.Println("  Copying logs...")
	logs, err := src.GetAllHabitLogs()
	if err != nil {
		return fmt.Errorf("failed to get logs from source: %w", err)
	}
	for _, l := range logs {
		if _, err := ctx.Store.UpsertHabitLog(l); err != nil {
			return fmt.Errorf("failed to add log %s: %w", l.ID, err)
		}
	}
	ctx.Printf("    Copied %d logs\n", len(logs))

	ctx.Println("  Copying statistics...")
	all, err := src.GetAllHabitStatistics()
	if err != nil {
		return fmt.Errorf("failed to get statistics from source: %w", err)
	}
	for _, st := range all {
		if err := ctx.Store.SaveHabitStatistics(st); err != nil {
			return fmt.Errorf("failed to save statistics for %s: %w", st.HabitID, err)
		}
	}
	ctx.Printf("    Copied %d statistics records\n", len(all))

	return ctx.Settled(ctx.Tracker.RescheduleAll(ctx.Context()))
}
