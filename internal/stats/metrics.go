package stats

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Run aggregates everything a conversion produced.
type Run struct {
	Summaries []*Summary
	TableRows map[string]int
	Duration  time.Duration
}

// Registry builds a private registry holding the run's metrics as gauges.
func (r *Run) Registry() (*prometheus.Registry, error) {
	documents := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ddi_documents",
			Help: "Corpus documents read per split",
		},
		[]string{"split"},
	)
	sentences := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ddi_sentences",
			Help: "Sentences read per split",
		},
		[]string{"split", "with_pairs"},
	)
	entities := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ddi_entities",
			Help: "Entity annotations read per split",
		},
		[]string{"split"},
	)
	pairs := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ddi_pairs",
			Help: "Pair annotations read per split",
		},
		[]string{"split", "ddi"},
	)
	duplicates := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ddi_duplicate_entity_ids",
			Help: "Entity ids dropped by the lookup because they were already present",
		},
		[]string{"split"},
	)
	labels := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ddi_grouped_labels",
			Help: "Grouped sentence labels per split",
		},
		[]string{"split", "label"},
	)
	tableRows := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ddi_table_rows",
			Help: "Rows written per output table",
		},
		[]string{"table"},
	)
	duration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ddi_convert_duration_seconds",
		Help: "Wall time of the last conversion",
	})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ddi_convert_last_success_timestamp_seconds",
		Help: "Unix time the last conversion finished",
	})

	reg := prometheus.NewRegistry()
	for _, c := range []prometheus.Collector{
		documents, sentences, entities, pairs, duplicates, labels, tableRows, duration, lastRun,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering collector: %w", err)
		}
	}

	for _, s := range r.Summaries {
		documents.WithLabelValues(s.Split).Set(float64(s.Documents))
		sentences.WithLabelValues(s.Split, "true").Set(float64(s.SentencesWithPairs))
		sentences.WithLabelValues(s.Split, "false").Set(float64(s.Sentences - s.SentencesWithPairs))
		entities.WithLabelValues(s.Split).Set(float64(s.Entities))
		pairs.WithLabelValues(s.Split, "true").Set(float64(s.InteractingPairs))
		pairs.WithLabelValues(s.Split, "false").Set(float64(s.Pairs - s.InteractingPairs))
		duplicates.WithLabelValues(s.Split).Set(float64(s.DuplicateEntityIDs))
		for _, lc := range s.Labels() {
			labels.WithLabelValues(s.Split, lc.Label).Set(float64(lc.Count))
		}
	}
	for table, n := range r.TableRows {
		tableRows.WithLabelValues(table).Set(float64(n))
	}
	duration.Set(r.Duration.Seconds())
	lastRun.SetToCurrentTime()

	return reg, nil
}

// WriteTextfile writes the run's metrics in the text exposition format for the
// node exporter textfile collector.
func WriteTextfile(path string, r *Run) error {
	reg, err := r.Registry()
	if err != nil {
		return err
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
