package system

import (
	"fmt"

	"github.com/julianstephens/habitual/internal/cli"
)

type MigrateCmd struct {
	Status bool `help:"Show applied and pending migrations without applying them."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	m, ok := ctx.Store.(cli.Migrator)
	if !ok {
		return fmt.Errorf("this storage backend does not support migrations")
	}

	if c.Status {
		status, err := m.MigrationStatus()
		if err != nil {
			return fmt.Errorf("failed to read migration status: %w", err)
		}
		ctx.Printf("Schema version: %d (latest %d)\n", status.Current, status.Latest)
		for _, p := range status.Pending {
			ctx.Printf("  pending: %03d_%s\n", p.Version, p.Name)
		}
		if status.UpToDate() {
			ctx.Println("Database is up to date.")
		}
		return nil
	}

	count, err := m.Migrate(func(msg string) { ctx.Println(msg) })
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if count == 0 {
		ctx.Println("No migrations to apply. Database is up to date.")
	} else {
		ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	}
	return nil
}
