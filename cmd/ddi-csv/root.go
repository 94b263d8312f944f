package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/go-ddi/internal/config"
)

// app carries state shared by all subcommands. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	root       *cobra.Command
	v          *viper.Viper
	configFile string

	cfg     *config.Config
	logger  *slog.Logger
	logFile io.Closer
}

func newApp() *app {
	a := &app{v: config.New()}

	cmd := &cobra.Command{
		Use:   "ddi-csv",
		Short: "Convert the DDI corpus into CSV tables",
		Long: `ddi-csv reads the train and test directories of the DDI corpus and writes
six tables: named entities, entity pairs and per-sentence interaction labels,
each for the train and test splits.

Running ddi-csv without a subcommand is the same as "ddi-csv convert".`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runConvert,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	flags.StringSlice("train-dir", nil, "train split directory (repeatable)")
	flags.StringSlice("test-ner-dir", nil, "NER test split directory (repeatable)")
	flags.StringSlice("test-ddi-dir", nil, "DDI extraction test split directory (repeatable)")
	flags.StringP("output-dir", "o", "", "directory the tables are written to")
	flags.StringP("format", "f", "", "output format: csv, parquet, xlsx or pb")
	flags.Bool("header", false, "write column names as the first row")
	flags.Bool("lowercase-test-lookup", false, "lowercase entity names and types in ddi_test")
	flags.Int("workers", 0, "documents decoded concurrently (default GOMAXPROCS)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("log-file", "", "also write logs to this file, rotated by size")
	flags.String("metrics-file", "", "write Prometheus metrics to this textfile after a conversion")

	bindings := map[string]string{
		config.KeyTrainDirs:           "train-dir",
		config.KeyTestNERDirs:         "test-ner-dir",
		config.KeyTestDDIDirs:         "test-ddi-dir",
		config.KeyOutputDir:           "output-dir",
		config.KeyFormat:              "format",
		config.KeyHeader:              "header",
		config.KeyLowercaseTestLookup: "lowercase-test-lookup",
		config.KeyWorkers:             "workers",
		config.KeyLogLevel:            "log-level",
		config.KeyLogFile:             "log-file",
		config.KeyMetricsFile:         "metrics-file",
	}
	for key, name := range bindings {
		// Only the flag's error is possible here and the names are fixed above.
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	cmd.AddCommand(
		newConvertCmd(a),
		newInspectCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)
	a.root = cmd
	return a
}

// execute runs the command line and closes the log file afterwards, also when
// the command failed.
func (a *app) execute(ctx context.Context) error {
	err := a.root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = fmt.Errorf("closing log file: %w", cerr)
	}
	return err
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.ReadFile(a.v, a.configFile); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, closer, err := newLogger(cmd.ErrOrStderr(), cfg.Log)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	a.logger = logger
	a.logFile = closer
	return nil
}

func (a *app) close() error {
	if a.logFile == nil {
		return nil
	}
	err := a.logFile.Close()
	a.logFile = nil
	return err
}
