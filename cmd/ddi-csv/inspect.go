package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	ddi "github.com/jamesainslie/go-ddi"
	"github.com/jamesainslie/go-ddi/internal/stats"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [split...]",
		Short: "Summarize corpus splits without writing tables",
		Long: `inspect parses the configured corpus directories and prints document,
sentence, entity and pair counts along with the grouped label distribution.

Splits are train, test_ner and test_ddi. All three are inspected by default.`,
		ValidArgs: []string{ddi.SplitTrain, ddi.SplitTestNER, ddi.SplitTestDDI},
		Args:      cobra.OnlyValidArgs,
		RunE:      a.runInspect,
	}
}

func (a *app) runInspect(cmd *cobra.Command, args []string) error {
	layout := a.cfg.Layout()
	dirs := map[string][]string{
		ddi.SplitTrain:   layout.TrainDirs,
		ddi.SplitTestNER: layout.TestNERDirs,
		ddi.SplitTestDDI: layout.TestDDIDirs,
	}
	splits := args
	if len(splits) == 0 {
		splits = []string{ddi.SplitTrain, ddi.SplitTestNER, ddi.SplitTestDDI}
	}

	opts, err := a.cfg.Options()
	if err != nil {
		return err
	}
	c := ddi.New(layout, append(opts, ddi.WithLogger(a.logger))...)

	for _, split := range splits {
		s, err := c.Inspect(cmd.Context(), split, dirs[split])
		if err != nil {
			return fmt.Errorf("inspecting %s: %w", split, err)
		}
		printSummary(cmd.OutOrStdout(), s)
	}
	return nil
}

func printSummary(w io.Writer, s *stats.Summary) {
	fmt.Fprintf(w, "Split: %s\n", s.Split)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "%-24s %8d\n", "documents", s.Documents)
	fmt.Fprintf(w, "%-24s %8d\n", "sentences", s.Sentences)
	fmt.Fprintf(w, "%-24s %8d\n", "sentences with pairs", s.SentencesWithPairs)
	fmt.Fprintf(w, "%-24s %8d\n", "entities", s.Entities)
	fmt.Fprintf(w, "%-24s %8d\n", "pairs", s.Pairs)
	fmt.Fprintf(w, "%-24s %8d\n", "interacting pairs", s.InteractingPairs)
	fmt.Fprintf(w, "%-24s %8d\n", "duplicate entity ids", s.DuplicateEntityIDs)
	fmt.Fprintf(w, "%-24s %s\n", "entity types", strings.Join(s.EntityTypes(), ", "))

	if labels := s.Labels(); len(labels) > 0 {
		fmt.Fprintln(w, "labels:")
		for _, l := range labels {
			fmt.Fprintf(w, "  %-22s %8d\n", l.Label, l.Count)
		}
	}
	fmt.Fprintln(w)
}
