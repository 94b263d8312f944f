// Package config loads ddi-csv settings from a YAML file, DDI_ environment
// variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	ddi "github.com/jamesainslie/go-ddi"
	"github.com/jamesainslie/go-ddi/internal/sink"
)

// Config keys.
const (
	KeyTrainDirs           = "train_dirs"
	KeyTestNERDirs         = "test_ner_dirs"
	KeyTestDDIDirs         = "test_ddi_dirs"
	KeyOutputDir           = "output_dir"
	KeyFormat              = "format"
	KeyHeader              = "header"
	KeyLowercaseTestLookup = "lowercase_test_lookup"
	KeyWorkers             = "workers"
	KeyLogLevel            = "log.level"
	KeyLogFile             = "log.file"
	KeyMetricsFile         = "metrics_file"
)

// DefaultFile is read when no config file is given and it exists.
const DefaultFile = "ddi.yaml"

// Config is the effective ddi-csv configuration.
type Config struct {
	TrainDirs           []string `yaml:"train_dirs" mapstructure:"train_dirs"`
	TestNERDirs         []string `yaml:"test_ner_dirs" mapstructure:"test_ner_dirs"`
	TestDDIDirs         []string `yaml:"test_ddi_dirs" mapstructure:"test_ddi_dirs"`
	OutputDir           string   `yaml:"output_dir" mapstructure:"output_dir"`
	Format              string   `yaml:"format" mapstructure:"format"`
	Header              bool     `yaml:"header" mapstructure:"header"`
	LowercaseTestLookup bool     `yaml:"lowercase_test_lookup" mapstructure:"lowercase_test_lookup"`
	Workers             int      `yaml:"workers" mapstructure:"workers"`
	Log                 Log      `yaml:"log" mapstructure:"log"`
	MetricsFile         string   `yaml:"metrics_file" mapstructure:"metrics_file"`
}

// Log configures the CLI logger.
type Log struct {
	Level string `yaml:"level" mapstructure:"level"`
	File  string `yaml:"file" mapstructure:"file"`
}

// New returns a viper instance with defaults and environment binding set up.
// Environment variables use the DDI_ prefix, e.g. DDI_OUTPUT_DIR or DDI_LOG_LEVEL.
func New() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetEnvPrefix("DDI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	layout := ddi.DefaultLayout(".")
	v.SetDefault(KeyTrainDirs, layout.TrainDirs)
	v.SetDefault(KeyTestNERDirs, layout.TestNERDirs)
	v.SetDefault(KeyTestDDIDirs, layout.TestDDIDirs)
	v.SetDefault(KeyOutputDir, layout.OutputDir)
	v.SetDefault(KeyFormat, string(sink.FormatCSV))
	v.SetDefault(KeyHeader, false)
	v.SetDefault(KeyLowercaseTestLookup, false)
	v.SetDefault(KeyWorkers, runtime.GOMAXPROCS(0))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyMetricsFile, "")

	return v
}

// ReadFile reads the config file at path into v. With an empty path,
// DefaultFile is read when present and silently skipped otherwise.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName(strings.TrimSuffix(DefaultFile, ".yaml"))
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if _, err := cfg.SinkFormat(); err != nil {
		return nil, err
	}
	if cfg.Workers < 1 {
		return nil, fmt.Errorf("%s must be at least 1, got %d", KeyWorkers, cfg.Workers)
	}
	if cfg.OutputDir == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyOutputDir)
	}
	return &cfg, nil
}

// SinkFormat parses the configured output format.
func (c *Config) SinkFormat() (sink.Format, error) {
	return sink.ParseFormat(c.Format)
}

// Layout returns the corpus layout described by c.
func (c *Config) Layout() ddi.Layout {
	return ddi.Layout{
		TrainDirs:   c.TrainDirs,
		TestNERDirs: c.TestNERDirs,
		TestDDIDirs: c.TestDDIDirs,
		OutputDir:   c.OutputDir,
	}
}

// Options returns the converter options described by c.
func (c *Config) Options() ([]ddi.Option, error) {
	f, err := c.SinkFormat()
	if err != nil {
		return nil, err
	}
	return []ddi.Option{
		ddi.WithFormat(f),
		ddi.WithHeader(c.Header),
		ddi.WithLowercaseTestLookup(c.LowercaseTestLookup),
		ddi.WithWorkers(c.Workers),
	}, nil
}
