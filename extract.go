package ddi

import (
	"fmt"
	"strings"
)

// EntityRow is one row of a named entity table.
type EntityRow struct {
	SentenceID string
	Text       string
	Position   string
	Entity     string
	EntityType string
}

// Record returns the row in table column order.
func (r EntityRow) Record() []string {
	return []string{r.SentenceID, r.Text, r.Position, r.Entity, r.EntityType}
}

// PairRow is one row of a full pair table. DDIType is empty for non-interacting pairs.
type PairRow struct {
	SentenceID  string
	Text        string
	PairID      string
	Entity1ID   string
	Entity1Name string
	Entity1Type string
	Entity2ID   string
	Entity2Name string
	Entity2Type string
	DDIExists   string
	DDIType     string
}

// Record returns the row in table column order.
func (r PairRow) Record() []string {
	return []string{
		r.SentenceID, r.Text, r.PairID,
		r.Entity1ID, r.Entity1Name, r.Entity1Type,
		r.Entity2ID, r.Entity2Name, r.Entity2Type,
		r.DDIExists, r.DDIType,
	}
}

// LabelRow is one row of a grouped sentence table. Label is "false" or an interaction type.
type LabelRow struct {
	SentenceID string
	Text       string
	Label      string
}

// Record returns the row in table column order.
func (r LabelRow) Record() []string {
	return []string{r.SentenceID, r.Text, r.Label}
}

// ExtractEntities emits one row per entity of every sentence, in document order.
// When lookup is non-nil every entity is offered to it as well.
func ExtractEntities(docs []*Document, lookup *EntityLookup) []EntityRow {
	var rows []EntityRow
	for _, doc := range docs {
		for _, s := range doc.Sentences {
			text := strings.ToLower(s.Text)
			for _, e := range s.Entities {
				if lookup != nil {
					lookup.InsertIfAbsent(e)
				}
				rows = append(rows, EntityRow{
					SentenceID: s.ID,
					Text:       text,
					Position:   e.CharOffset,
					Entity:     strings.ToLower(e.Text),
					EntityType: strings.ToLower(e.Type),
				})
			}
		}
	}
	return rows
}

// ExtractPairs emits one row per pair of every sentence that has pairs.
//
// Entity names and types are resolved through lookup. With inline set, each
// sentence's entities are inserted into lookup before its pairs are resolved;
// otherwise lookup must already hold the split's entities. A pair that does not
// resolve fails the whole extraction.
func ExtractPairs(docs []*Document, lookup *EntityLookup, inline bool) ([]PairRow, error) {
	var rows []PairRow
	for _, doc := range docs {
		for _, s := range doc.Sentences {
			if !s.HasPairs() {
				continue
			}

			if inline {
				for _, e := range s.Entities {
					lookup.InsertIfAbsent(e)
				}
			}

			text := strings.ToLower(s.Text)
			for _, p := range s.Pairs {
				e1, err := lookup.Resolve(p.E1)
				if err != nil {
					return nil, fmt.Errorf("pair %s of sentence %s in %s: %w", p.ID, s.ID, doc.Path, err)
				}
				e2, err := lookup.Resolve(p.E2)
				if err != nil {
					return nil, fmt.Errorf("pair %s of sentence %s in %s: %w", p.ID, s.ID, doc.Path, err)
				}

				rows = append(rows, PairRow{
					SentenceID:  s.ID,
					Text:        text,
					PairID:      p.ID,
					Entity1ID:   p.E1,
					Entity1Name: e1.Name,
					Entity1Type: e1.Type,
					Entity2ID:   p.E2,
					Entity2Name: e2.Name,
					Entity2Type: e2.Type,
					DDIExists:   p.DDI,
					DDIType:     p.Type,
				})
			}
		}
	}
	return rows, nil
}

// ExtractLabels emits one label per sentence that has pairs. See SentenceLabel.
func ExtractLabels(docs []*Document) []LabelRow {
	var rows []LabelRow
	for _, doc := range docs {
		for _, s := range doc.Sentences {
			if !s.HasPairs() {
				continue
			}
			label, ok := SentenceLabel(s.Pairs)
			if !ok {
				continue
			}
			rows = append(rows, LabelRow{
				SentenceID: s.ID,
				Text:       strings.ToLower(s.Text),
				Label:      label,
			})
		}
	}
	return rows
}
