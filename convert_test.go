package ddi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jamesainslie/go-ddi/internal/sink"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testLayout(t *testing.T) Layout {
	t.Helper()
	layout := DefaultLayout(testCorpus)
	layout.OutputDir = t.TempDir()
	return layout
}

func TestConvert_Golden(t *testing.T) {
	layout := testLayout(t)

	report, err := New(layout, WithLogger(quietLogger())).Convert(context.Background())
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	wantRows := map[string]int{
		"named_entity_set_train":      8,
		"ddi_train":                   6,
		"ddi_train_grouped_sentences": 3,
		"named_entity_set_test":       1,
		"ddi_test":                    2,
		"ddi_test_grouped_sentences":  2,
	}
	if len(report.Tables) != len(wantRows) {
		t.Fatalf("got %d tables, want %d", len(report.Tables), len(wantRows))
	}

	for _, tr := range report.Tables {
		t.Run(tr.Table.Name, func(t *testing.T) {
			if tr.Rows != wantRows[tr.Table.Name] {
				t.Errorf("Rows = %d, want %d", tr.Rows, wantRows[tr.Table.Name])
			}

			got, err := os.ReadFile(tr.Path)
			if err != nil {
				t.Fatal(err)
			}
			want, err := os.ReadFile(filepath.Join("testdata", "golden", tr.Table.Name+".csv"))
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

func TestConvert_Deterministic(t *testing.T) {
	layout := testLayout(t)
	c := New(layout, WithLogger(quietLogger()))

	first, err := c.Convert(context.Background())
	if err != nil {
		t.Fatalf("first Convert() error = %v", err)
	}
	snapshot := make(map[string][]byte)
	for _, tr := range first.Tables {
		data, err := os.ReadFile(tr.Path)
		if err != nil {
			t.Fatal(err)
		}
		snapshot[tr.Path] = data
	}

	second, err := c.Convert(context.Background())
	if err != nil {
		t.Fatalf("second Convert() error = %v", err)
	}
	for _, tr := range second.Tables {
		data, err := os.ReadFile(tr.Path)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(data, snapshot[tr.Path]) {
			t.Errorf("%s differs between runs", tr.Table.Name)
		}
	}

	entries, err := os.ReadDir(layout.OutputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 6 {
		t.Errorf("output dir has %d entries, want 6", len(entries))
	}
}

func TestConvert_LowercaseTestLookup(t *testing.T) {
	layout := testLayout(t)

	_, err := New(layout, WithLogger(quietLogger()), WithLowercaseTestLookup(true)).Convert(context.Background())
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(layout.OutputDir, "ddi_test.csv"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{",ritonavir,drug,", ",mao inhibitors,group,"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("ddi_test missing %q, got:\n%s", want, data)
		}
	}
}

func TestConvert_Header(t *testing.T) {
	layout := testLayout(t)

	_, err := New(layout, WithLogger(quietLogger()), WithHeader(true)).Convert(context.Background())
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(layout.OutputDir, "ddi_train_grouped_sentences.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "sentence_id,text,ddi_type\n") {
		t.Errorf("missing header row, got:\n%s", data)
	}
}

func TestConvert_Formats(t *testing.T) {
	for _, f := range []sink.Format{sink.FormatParquet, sink.FormatXLSX, sink.FormatPB} {
		t.Run(string(f), func(t *testing.T) {
			layout := testLayout(t)

			report, err := New(layout, WithLogger(quietLogger()), WithFormat(f)).Convert(context.Background())
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			for _, tr := range report.Tables {
				if filepath.Ext(tr.Path) != f.Ext() {
					t.Errorf("%s written as %s, want extension %s", tr.Table.Name, tr.Path, f.Ext())
				}
				if _, err := os.Stat(tr.Path); err != nil {
					t.Errorf("stat %s: %v", tr.Path, err)
				}
			}
		})
	}
}

func TestConvert_MissingDirectory(t *testing.T) {
	layout := testLayout(t)
	layout.TestDDIDirs = []string{filepath.Join(t.TempDir(), "missing")}

	_, err := New(layout, WithLogger(quietLogger())).Convert(context.Background())
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got: %v", err)
	}

	// Train tables were extracted but must not have been written.
	entries, err := os.ReadDir(layout.OutputDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("output dir has %d entries after failed run, want 0", len(entries))
	}
}

func TestConvert_UnresolvedReference(t *testing.T) {
	dir := t.TempDir()
	doc := `<document id="d"><sentence id="d.s0" text="x">
<entity id="d.s0.e0" charOffset="0-1" type="drug" text="x"/>
<pair id="d.s0.p0" e1="d.s0.e0" e2="d.s0.e7" ddi="false"/>
</sentence></document>`
	if err := os.WriteFile(filepath.Join(dir, "d.xml"), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	layout := testLayout(t)
	layout.TrainDirs = []string{dir}

	_, err := New(layout, WithLogger(quietLogger())).Convert(context.Background())
	if !errors.Is(err, ErrUnresolvedEntity) {
		t.Errorf("expected ErrUnresolvedEntity, got: %v", err)
	}
}

func TestConvert_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testLayout(t), WithLogger(quietLogger())).Convert(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestReport_Stats(t *testing.T) {
	report, err := New(testLayout(t), WithLogger(quietLogger())).Convert(context.Background())
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	run := report.Stats()
	if run.TableRows["ddi_train"] != 6 {
		t.Errorf("TableRows[ddi_train] = %d, want 6", run.TableRows["ddi_train"])
	}
	if len(run.Summaries) != 3 {
		t.Fatalf("got %d summaries, want 3", len(run.Summaries))
	}

	train := run.Summaries[0]
	if train.Split != SplitTrain {
		t.Errorf("Split = %q, want %q", train.Split, SplitTrain)
	}
	if train.DuplicateEntityIDs != 1 {
		t.Errorf("DuplicateEntityIDs = %d, want 1", train.DuplicateEntityIDs)
	}
}

func TestInspect(t *testing.T) {
	layout := DefaultLayout(testCorpus)
	c := New(layout, WithLogger(quietLogger()))

	s, err := c.Inspect(context.Background(), SplitTrain, layout.TrainDirs)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"documents", s.Documents, 2},
		{"sentences", s.Sentences, 4},
		{"sentences with pairs", s.SentencesWithPairs, 3},
		{"entities", s.Entities, 8},
		{"pairs", s.Pairs, 6},
		{"interacting pairs", s.InteractingPairs, 2},
		{"duplicate entity ids", s.DuplicateEntityIDs, 1},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %d, want %d", tt.name, tt.got, tt.want)
		}
	}

	labels := s.Labels()
	if len(labels) != 3 {
		t.Errorf("got %d labels, want 3: %+v", len(labels), labels)
	}
}

func TestInspect_MatchesConvert(t *testing.T) {
	// The duplicate id sits in a sentence without pairs, which only the
	// entity pass sees.
	train := t.TempDir()
	doc := `<document id="d">
<sentence id="d.s0" text="A and B.">
  <entity id="d.s0.e0" charOffset="0-0" type="drug" text="A"/>
  <entity id="d.s0.e1" charOffset="6-6" type="drug" text="B"/>
  <pair id="d.s0.p0" e1="d.s0.e0" e2="d.s0.e1" ddi="true" type="effect"/>
</sentence>
<sentence id="d.s1" text="C.">
  <entity id="d.s1.e0" charOffset="0-0" type="drug" text="C"/>
  <entity id="d.s1.e0" charOffset="0-0" type="brand" text="C2"/>
</sentence>
</document>`
	if err := os.WriteFile(filepath.Join(train, "d.xml"), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	layout := testLayout(t)
	layout.TrainDirs = []string{train}
	c := New(layout, WithLogger(quietLogger()))

	report, err := c.Convert(context.Background())
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	dirs := map[string][]string{
		SplitTrain:   layout.TrainDirs,
		SplitTestNER: layout.TestNERDirs,
		SplitTestDDI: layout.TestDDIDirs,
	}
	for _, want := range report.Splits {
		t.Run(want.Split, func(t *testing.T) {
			got, err := c.Inspect(context.Background(), want.Split, dirs[want.Split])
			if err != nil {
				t.Fatalf("Inspect() error = %v", err)
			}
			if got.DuplicateEntityIDs != want.DuplicateEntityIDs {
				t.Errorf("DuplicateEntityIDs = %d, Convert reported %d", got.DuplicateEntityIDs, want.DuplicateEntityIDs)
			}
			if got.Entities != want.Entities || got.Pairs != want.Pairs || got.Sentences != want.Sentences {
				t.Errorf("Inspect counts %+v differ from Convert %+v", got, want)
			}
			if len(got.Labels()) != len(want.Labels()) {
				t.Errorf("Labels() = %v, Convert reported %v", got.Labels(), want.Labels())
			}
		})
	}

	if report.Splits[0].DuplicateEntityIDs != 1 {
		t.Errorf("train DuplicateEntityIDs = %d, want 1", report.Splits[0].DuplicateEntityIDs)
	}
}

func TestInspect_UnknownSplit(t *testing.T) {
	layout := DefaultLayout(testCorpus)
	_, err := New(layout, WithLogger(quietLogger())).Inspect(context.Background(), "dev", layout.TrainDirs)
	if !errors.Is(err, ErrUnknownSplit) {
		t.Errorf("expected ErrUnknownSplit, got: %v", err)
	}
}

func TestConvert_WorkerCountIndependent(t *testing.T) {
	outputs := make(map[int]map[string][]byte)
	for _, workers := range []int{1, 8} {
		layout := testLayout(t)
		report, err := New(layout, WithLogger(quietLogger()), WithWorkers(workers)).Convert(context.Background())
		if err != nil {
			t.Fatalf("Convert(workers=%d) error = %v", workers, err)
		}
		outputs[workers] = make(map[string][]byte)
		for _, tr := range report.Tables {
			data, err := os.ReadFile(tr.Path)
			if err != nil {
				t.Fatal(err)
			}
			outputs[workers][tr.Table.Name] = data
		}
	}

	for name, want := range outputs[1] {
		if !bytes.Equal(outputs[8][name], want) {
			t.Errorf("%s differs between 1 and 8 workers", name)
		}
	}
}
