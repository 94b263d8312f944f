package ddi

import (
	"log/slog"
	"runtime"

	"github.com/jamesainslie/go-ddi/internal/sink"
)

// Option configures a Converter.
type Option func(*config)

type config struct {
	format              sink.Format
	header              bool
	ext                 string
	lowercaseTestLookup bool
	workers             int
	logger              *slog.Logger
}

func defaultConfig() config {
	return config{
		format:  sink.FormatCSV,
		ext:     ".xml",
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
	}
}

// WithFormat sets the output table format (default: CSV).
func WithFormat(f sink.Format) Option {
	return func(c *config) {
		c.format = f
	}
}

// WithHeader writes the column names as the first row of every table (default: false).
func WithHeader(h bool) Option {
	return func(c *config) {
		c.header = h
	}
}

// WithExtension sets the file extension of corpus documents (default: ".xml").
func WithExtension(ext string) Option {
	return func(c *config) {
		if ext != "" {
			c.ext = ext
		}
	}
}

// WithLowercaseTestLookup lowercases entity names and types in the test split's
// lookup, matching the train split (default: false, which keeps corpus casing in ddi_test).
func WithLowercaseTestLookup(v bool) Option {
	return func(c *config) {
		c.lowercaseTestLookup = v
	}
}

// WithWorkers sets how many documents are decoded concurrently
// (default: GOMAXPROCS). Output order does not depend on it.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger (default: slog.Default()).
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}
