// Package ddi converts the DDI corpus (XML-annotated sentences, drug entities and
// drug-drug interaction pairs) into flat tables for NER and relation-extraction training.
//
// # Quick Start
//
//	conv := ddi.New(ddi.DefaultLayout("."))
//	report, err := conv.Convert(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, t := range report.Tables {
//	    fmt.Printf("%s: %d rows\n", t.Path, t.Rows)
//	}
//
// # Tables
//
// Six tables are produced, two per extraction mode:
//   - named_entity_set_{train,test}: one row per entity
//   - ddi_{train,test}: one row per annotated pair
//   - ddi_{train,test}_grouped_sentences: one label per sentence with pairs
//
// # Entity Lookup
//
// Pair rows carry the name and type of both entities. These come from an
// EntityLookup scoped to a single split. The train lookup is filled while extracting
// entities and stores lowercased values; the test lookup is filled sentence by
// sentence during pair extraction and keeps the corpus casing unless
// WithLowercaseTestLookup is set.
//
// # Concurrency
//
// Corpus files are decoded by up to WithWorkers goroutines. Concurrency covers
// decoding only: extraction and table writing run sequentially over documents in
// listing order, so output is identical for any worker count.
//
// # Corpus
//
// The 2013 DDI corpus is distributed at
// http://labda.inf.uc3m.es/doku.php?id=en:labda_downloadddicorpus
package ddi
