package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	ddi "github.com/jamesainslie/go-ddi"
	"github.com/jamesainslie/go-ddi/internal/stats"
)

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert",
		Short: "Write the six corpus tables",
		Args:  cobra.NoArgs,
		RunE:  a.runConvert,
	}
}

func (a *app) runConvert(cmd *cobra.Command, _ []string) error {
	opts, err := a.cfg.Options()
	if err != nil {
		return err
	}
	opts = append(opts, ddi.WithLogger(a.logger))

	report, err := ddi.New(a.cfg.Layout(), opts...).Convert(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, t := range report.Tables {
		fmt.Fprintf(out, "%-30s %8d  %s\n", t.Table.Name, t.Rows, t.Path)
	}

	if a.cfg.MetricsFile != "" {
		if err := stats.WriteTextfile(a.cfg.MetricsFile, report.Stats()); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
		a.logger.Info("wrote metrics", "path", a.cfg.MetricsFile)
	}

	a.logger.Info("conversion complete",
		"tables", len(report.Tables),
		"duration", report.Duration.Round(time.Millisecond))
	return nil
}
