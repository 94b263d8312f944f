package ddi

import (
	"path/filepath"

	"github.com/jamesainslie/go-ddi/internal/sink"
)

// Table describes one output table. Rows carry no header unless WithHeader is set.
type Table struct {
	Name    string
	Columns []string
}

var (
	entityColumns = []string{"sentence_id", "text", "position", "entity", "entity_type"}
	pairColumns   = []string{
		"sentence_id", "text", "pair_id",
		"entity1_id", "entity1_name", "entity1_type",
		"entity2_id", "entity2_name", "entity2_type",
		"ddi_exists", "ddi_type",
	}
	labelColumns = []string{"sentence_id", "text", "ddi_type"}
)

// The six output tables.
var (
	NamedEntityTrain = Table{Name: "named_entity_set_train", Columns: entityColumns}
	NamedEntityTest  = Table{Name: "named_entity_set_test", Columns: entityColumns}
	PairTrain        = Table{Name: "ddi_train", Columns: pairColumns}
	PairTest         = Table{Name: "ddi_test", Columns: pairColumns}
	GroupedTrain     = Table{Name: "ddi_train_grouped_sentences", Columns: labelColumns}
	GroupedTest      = Table{Name: "ddi_test_grouped_sentences", Columns: labelColumns}
)

// Tables returns the six output tables.
func Tables() []Table {
	return []Table{NamedEntityTrain, NamedEntityTest, PairTrain, PairTest, GroupedTrain, GroupedTest}
}

// FileName returns the table's file name for format f, e.g. "ddi_train.csv".
func (t Table) FileName(f sink.Format) string {
	return t.Name + f.Ext()
}

func (t Table) sink() sink.Table {
	return sink.Table{Name: t.Name, Columns: t.Columns}
}

// Layout locates the corpus directories and the output directory.
type Layout struct {
	TrainDirs   []string
	TestNERDirs []string
	TestDDIDirs []string
	OutputDir   string
}

// DefaultLayout returns the directory layout of the DDI corpus distribution
// unpacked under root, writing tables into root.
func DefaultLayout(root string) Layout {
	corpus := filepath.Join(root, "APIforDDICorpus", "DDICorpus")
	train := filepath.Join(corpus, "Train")
	testNER := filepath.Join(corpus, "Test", "Test for DrugNER task")
	testDDI := filepath.Join(corpus, "Test", "Test for DDI Extraction task")

	return Layout{
		TrainDirs: []string{
			filepath.Join(train, "DrugBank"),
			filepath.Join(train, "MedLine"),
		},
		TestNERDirs: []string{
			filepath.Join(testNER, "DrugBank"),
			filepath.Join(testNER, "MedLine"),
		},
		TestDDIDirs: []string{
			filepath.Join(testDDI, "DrugBank"),
			filepath.Join(testDDI, "MedLine"),
		},
		OutputDir: root,
	}
}

type recorder interface {
	Record() []string
}

func records[R recorder](rows []R) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Record()
	}
	return out
}
