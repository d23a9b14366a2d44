package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/cli/backups"
	"github.com/julianstephens/habitual/internal/cli/habits"
	"github.com/julianstephens/habitual/internal/cli/reminders"
	"github.com/julianstephens/habitual/internal/cli/settings"
	"github.com/julianstephens/habitual/internal/cli/system"
	"github.com/julianstephens/habitual/internal/constants"
	apperrors "github.com/julianstephens/habitual/internal/errors"
	"github.com/julianstephens/habitual/internal/keyring"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/storage"
	"github.com/julianstephens/habitual/internal/storage/postgres"
	"github.com/julianstephens/habitual/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Database file path or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded in the connection string. Use the OS keyring, HABITUAL_DB_CONNECTION or .pgpass instead." type:"string" default:"${config}"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init     system.InitCmd     `cmd:"" help:"Initialize habitual storage."`
	Migrate  system.MigrateCmd  `cmd:"" help:"Run database migrations."`
	Doctor   system.DoctorCmd   `cmd:"" help:"Run health checks and diagnostics."`
	Validate system.ValidateCmd `cmd:"" help:"Validate habits, logs and statistics."`
	Tui      system.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Debugger system.DebugCmd    `cmd:"" name:"debug" help:"Debug commands for troubleshooting."`
	Keyring  system.KeyringCmd  `cmd:"" help:"Manage the PostgreSQL connection string in the OS keyring."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Habit    habits.HabitCmd       `cmd:"" help:"Manage habits and habit tracking."`
	Settings settings.SettingsCmd  `cmd:"" help:"Manage application settings."`
	Reminder reminders.ReminderCmd `cmd:"" help:"Plan and deliver reminders."`
}

// commands that open the store themselves, or never need it
var selfLoading = []string{"init", "migrate", "doctor", "keyring"}

func main() {
	// a missing .env file is fine
	_ = godotenv.Load()

	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Habit tracker with streaks and evening reminders"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": constants.Version,
			"config":  constants.DefaultConfigPath,
		},
	)

	command := ctx.Command()
	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: configDir(),
		Stderr:    strings.HasPrefix(command, "reminder daemon"),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}

	store, err := openStore(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	defer store.Close()

	if needsLoad(command) {
		if err := store.Load(); err != nil {
			if errors.Is(err, sqlite.ErrNotInitialized) {
				err = apperrors.WithHint(err, "create the database with 'habitual init'")
			}
			apperrors.Fatal(err)
		}
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := cli.NewContext(store).WithContext(runCtx)
	logger.Debug("Running command", "command", command, "store", postgres.Redact(store.GetConfigPath()))

	if err := ctx.Run(appCtx); err != nil {
		stop()
		apperrors.Fatal(err)
	}
}

func needsLoad(command string) bool {
	for _, prefix := range selfLoading {
		if command == prefix || strings.HasPrefix(command, prefix+" ") {
			return false
		}
	}
	return true
}

// configDir holds logs next to the default database.
func configDir() string {
	return filepath.Dir(expandHome(constants.DefaultConfigPath))
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// openStore picks the backend for config. When config is left at its default,
// a connection string from the keyring or HABITUAL_DB_CONNECTION wins.
func openStore(config string) (storage.Provider, error) {
	trusted := false
	if config == constants.DefaultConfigPath {
		connStr, src, err := keyring.ResolveConnectionString()
		if err != nil {
			logger.Warn("Could not read connection string", "error", err)
		}
		if src != keyring.SourceNone {
			logger.Debug("Using stored connection string", "source", src)
			config = connStr
			trusted = true
		}
	}

	if !postgres.IsConnString(config) {
		return sqlite.NewStore(expandHome(config)), nil
	}

	if _, err := postgres.ValidateConnString(config); err != nil {
		// stored strings may carry a password; the flag may not
		if !errors.Is(err, postgres.ErrEmbeddedCredentials) || !trusted {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, apperrors.WithHint(err,
					"store it with 'habitual keyring set', export "+constants.EnvDBConnection+" or use a .pgpass file")
			}
			return nil, err
		}
	}
	return postgres.New(config), nil
}
