package ddi

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jamesainslie/go-ddi/internal/sink"
	"github.com/jamesainslie/go-ddi/internal/stats"
)

// Split names used in logs and summaries.
const (
	SplitTrain   = "train"
	SplitTestNER = "test_ner"
	SplitTestDDI = "test_ddi"
)

// Converter turns a corpus layout into the six output tables.
// A Converter holds no state between runs; every Convert builds fresh lookups.
type Converter struct {
	layout Layout
	cfg    config
	logger *slog.Logger
}

// New creates a Converter for layout.
func New(layout Layout, opts ...Option) *Converter {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Converter{
		layout: layout,
		cfg:    cfg,
		logger: cfg.logger,
	}
}

// TableResult describes one written table.
type TableResult struct {
	Table Table
	Path  string
	Rows  int
}

// Report is the outcome of a successful conversion.
type Report struct {
	Tables   []TableResult
	Splits   []*stats.Summary
	Duration time.Duration
}

// Stats returns the report in the form the metrics exporter expects.
func (r *Report) Stats() *stats.Run {
	rows := make(map[string]int, len(r.Tables))
	for _, t := range r.Tables {
		rows[t.Table.Name] = t.Rows
	}
	return &stats.Run{
		Summaries: r.Splits,
		TableRows: rows,
		Duration:  r.Duration,
	}
}

type pendingTable struct {
	table Table
	rows  [][]string
}

// splitResult holds what one split contributes to the output. Tables a split
// does not produce stay nil.
type splitResult struct {
	entities []EntityRow
	pairs    []PairRow
	labels   []LabelRow
	lookup   *EntityLookup
}

// extractSplit runs the extraction modes that apply to split.
//
// The train lookup is filled from every entity before pairs are resolved and
// stores lowercased values. The test DDI lookup is filled sentence by sentence
// during pair extraction. The test NER split has no lookup.
func (c *Converter) extractSplit(split string, docs []*Document) (*splitResult, error) {
	switch split {
	case SplitTrain:
		lookup := NewEntityLookup(true)
		entities := ExtractEntities(docs, lookup)
		pairs, err := ExtractPairs(docs, lookup, false)
		if err != nil {
			return nil, err
		}
		return &splitResult{
			entities: entities,
			pairs:    pairs,
			labels:   ExtractLabels(docs),
			lookup:   lookup,
		}, nil

	case SplitTestNER:
		return &splitResult{entities: ExtractEntities(docs, nil)}, nil

	case SplitTestDDI:
		lookup := NewEntityLookup(c.cfg.lowercaseTestLookup)
		pairs, err := ExtractPairs(docs, lookup, true)
		if err != nil {
			return nil, err
		}
		return &splitResult{
			pairs:  pairs,
			labels: ExtractLabels(docs),
			lookup: lookup,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSplit, split)
	}
}

// Convert reads the train, test NER and test DDI directories, extracts all six
// tables and writes them to the output directory.
//
// Every table is extracted before the first one is written, so a corpus error
// leaves existing output untouched.
func (c *Converter) Convert(ctx context.Context) (*Report, error) {
	start := time.Now()

	splits := []struct {
		name  string
		label string
		dirs  []string
	}{
		{SplitTrain, "train split", c.layout.TrainDirs},
		{SplitTestNER, "test NER split", c.layout.TestNERDirs},
		{SplitTestDDI, "test DDI split", c.layout.TestDDIDirs},
	}

	var pending []pendingTable
	var summaries []*stats.Summary

	for _, sp := range splits {
		docs, err := loadCorpus(ctx, sp.dirs, c.cfg)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sp.label, err)
		}
		res, err := c.extractSplit(sp.name, docs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sp.label, err)
		}

		switch sp.name {
		case SplitTrain:
			pending = append(pending,
				pendingTable{NamedEntityTrain, records(res.entities)},
				pendingTable{PairTrain, records(res.pairs)},
				pendingTable{GroupedTrain, records(res.labels)},
			)
		case SplitTestNER:
			pending = append(pending, pendingTable{NamedEntityTest, records(res.entities)})
		case SplitTestDDI:
			pending = append(pending,
				pendingTable{PairTest, records(res.pairs)},
				pendingTable{GroupedTest, records(res.labels)},
			)
		}
		summaries = append(summaries, c.summarize(sp.name, docs, res.labels, res.lookup))
	}

	if err := os.MkdirAll(c.layout.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	report := &Report{Splits: summaries}
	for _, p := range pending {
		path := filepath.Join(c.layout.OutputDir, p.table.FileName(c.cfg.format))
		if err := sink.WriteTable(path, p.table.sink(), p.rows, c.cfg.format, c.cfg.header); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		c.logger.Info("wrote table",
			"table", p.table.Name,
			"rows", len(p.rows),
			"path", path)
		report.Tables = append(report.Tables, TableResult{Table: p.table, Path: path, Rows: len(p.rows)})
	}

	report.Duration = time.Since(start)
	return report, nil
}

// Inspect loads the documents of dirs and summarizes them as split without
// writing any table. Extraction runs exactly as in Convert, so dangling pair
// references fail here too and the counts match Convert's report.
func (c *Converter) Inspect(ctx context.Context, split string, dirs []string) (*stats.Summary, error) {
	docs, err := loadCorpus(ctx, dirs, c.cfg)
	if err != nil {
		return nil, err
	}

	res, err := c.extractSplit(split, docs)
	if err != nil {
		return nil, err
	}

	return c.summarize(split, docs, res.labels, res.lookup), nil
}

// summarize counts docs. labels and lookup may be nil for splits without pairs.
func (c *Converter) summarize(split string, docs []*Document, labels []LabelRow, lookup *EntityLookup) *stats.Summary {
	s := stats.NewSummary(split)
	for _, doc := range docs {
		s.ObserveDocument()
		for _, sent := range doc.Sentences {
			s.ObserveSentence(len(sent.Entities), len(sent.Pairs))
			for _, e := range sent.Entities {
				s.ObserveEntityType(e.Type)
			}
			for _, p := range sent.Pairs {
				s.ObservePair(p.Interacts(), p.Type)
			}
		}
	}
	for _, l := range labels {
		s.ObserveLabel(l.Label)
	}

	if lookup != nil {
		s.DuplicateEntityIDs = lookup.Dropped()
		if n := lookup.Dropped(); n > 0 {
			c.logger.Warn("duplicate entity ids ignored",
				"split", split,
				"count", n)
		}
	}

	c.logger.Debug("split summary",
		"split", split,
		"documents", s.Documents,
		"sentences", s.Sentences,
		"entities", s.Entities,
		"pairs", s.Pairs)

	return s
}
