// Package stats collects corpus and conversion statistics and exports them as
// Prometheus metrics.
package stats

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
)

// Summary holds counts for one split.
type Summary struct {
	Split              string
	Documents          int
	Sentences          int
	SentencesWithPairs int
	Entities           int
	Pairs              int
	InteractingPairs   int
	DuplicateEntityIDs int

	labels           map[string]int
	entityTypes      mapset.Set[string]
	interactionTypes mapset.Set[string]
}

// NewSummary returns an empty summary for split.
func NewSummary(split string) *Summary {
	return &Summary{
		Split:            split,
		labels:           make(map[string]int),
		entityTypes:      mapset.NewThreadUnsafeSet[string](),
		interactionTypes: mapset.NewThreadUnsafeSet[string](),
	}
}

// ObserveDocument counts one document.
func (s *Summary) ObserveDocument() {
	s.Documents++
}

// ObserveSentence counts a sentence with the given number of entities and pairs.
func (s *Summary) ObserveSentence(entities, pairs int) {
	s.Sentences++
	s.Entities += entities
	s.Pairs += pairs
	if pairs > 0 {
		s.SentencesWithPairs++
	}
}

// ObserveEntityType records an entity type.
func (s *Summary) ObserveEntityType(typ string) {
	s.entityTypes.Add(typ)
}

// ObservePair records whether a pair interacts and, if so, its type.
func (s *Summary) ObservePair(interacts bool, typ string) {
	if !interacts {
		return
	}
	s.InteractingPairs++
	if typ != "" {
		s.interactionTypes.Add(typ)
	}
}

// ObserveLabel counts one grouped sentence label.
func (s *Summary) ObserveLabel(label string) {
	s.labels[label]++
}

// LabelCount is the number of sentences carrying a grouped label.
type LabelCount struct {
	Label string
	Count int
}

// Labels returns the grouped label distribution sorted by count descending,
// then label ascending.
func (s *Summary) Labels() []LabelCount {
	counts := make([]LabelCount, 0, len(s.labels))
	for label, n := range s.labels {
		counts = append(counts, LabelCount{Label: label, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Label < counts[j].Label
	})
	return counts
}

// EntityTypes returns the distinct entity types seen, sorted.
func (s *Summary) EntityTypes() []string {
	return sorted(s.entityTypes)
}

// InteractionTypes returns the distinct interaction types seen, sorted.
func (s *Summary) InteractionTypes() []string {
	return sorted(s.interactionTypes)
}

func sorted(set mapset.Set[string]) []string {
	out := set.ToSlice()
	sort.Strings(out)
	return out
}
