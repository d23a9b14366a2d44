package habits

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitual/internal/cli"
	"github.com/julianstephens/habitual/internal/export"
	"github.com/julianstephens/habitual/internal/logger"
)

type HabitExportCmd struct {
	Format string `help:"Export format." enum:"json,csv" default:"json"`
	Output string `help:"Write to this file instead of stdout." short:"o" type:"path"`
}

func (c *HabitExportCmd) Run(ctx *cli.Context) error {
	now, err := ctx.Tracker.Now()
	if err != nil {
		return err
	}
	snap, err := export.Collect(ctx.Store, now)
	if err != nil {
		return err
	}

	if c.Output == "" {
		return export.Write(ctx.Out, export.Format(c.Format), snap)
	}

	f, err := os.OpenFile(c.Output, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := export.Write(f, export.Format(c.Format), snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.Info("Exported data", "format", c.Format, "path", c.Output)
	ctx.Printf("Exported %d habits and %d logs to %s\n", len(snap.Habits), len(snap.Logs), c.Output)
	return nil
}
