package backend

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"git.sr.ht/~whereswaldon/chartmaster/chart"
	"git.sr.ht/~whereswaldon/chartmaster/internal/logging"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed writing %s: %v", path, err)
	}
}

func TestLoadDocumentInline(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pie.json")
	writeFile(t, path, `{"type": "pie", "labels": ["a", "b"], "datasets": [{"data": [1, 3]}]}`)

	doc := LoadDocument(path)
	if doc.Err != nil {
		t.Fatalf("expected the document to load, got: %v", doc.Err)
	}
	if doc.Spec.Kind != chart.Pie {
		t.Errorf("expected a pie chart, got %v", doc.Spec.Kind)
	}
	if !slices.Equal(doc.Spec.Primary().Data, []float64{1, 3}) {
		t.Errorf("expected inline data, got %v", doc.Spec.Primary().Data)
	}
	if doc.DataPath != "" {
		t.Errorf("expected no data file, got %q", doc.DataPath)
	}
}

func TestLoadDocumentWithData(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "steps.csv"), "step,delta,total\nStart,100,true\nCost,-20,false\nEnd,80,true\n")
	path := filepath.Join(dir, "waterfall.yaml")
	writeFile(t, path, `
type: waterfall
datasets:
  - label: Cash
    backgroundColor: "#3b82f6"
data:
  file: steps.csv
  totalColumn: total
options:
  animation:
    duration: 0s
`)
	doc := LoadDocument(path)
	if doc.Err != nil {
		t.Fatalf("expected the document to load, got: %v", doc.Err)
	}
	if doc.DataPath != filepath.Join(dir, "steps.csv") {
		t.Errorf("expected the data path to resolve next to the document, got %q", doc.DataPath)
	}
	ds := doc.Spec.Primary()
	if ds.Label != "Cash" || len(ds.BackgroundColor) != 1 {
		t.Errorf("expected dataset styling to survive, got %+v", ds)
	}
	if !slices.Equal(doc.Spec.Labels, []string{"Start", "Cost", "End"}) {
		t.Errorf("expected labels from the data file, got %v", doc.Spec.Labels)
	}
	if !slices.Equal(ds.IsTotal, []bool{true, false, true}) {
		t.Errorf("expected totals from the data file, got %v", ds.IsTotal)
	}
	if err := doc.Spec.Validate(); err != nil {
		t.Errorf("expected a valid spec, got: %v", err)
	}
}

func TestLoadDocumentErrors(t *testing.T) {
	dir := t.TempDir()
	for _, tc := range []struct {
		name    string
		content string
	}{
		{"malformed", "type: [bar"},
		{"unknown kind", "type: radar"},
		{"missing data file", "type: bar\ndata:\n  file: nope.csv\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name+".yaml")
			writeFile(t, path, tc.content)
			if doc := LoadDocument(path); doc.Err == nil {
				t.Errorf("expected an error, got %+v", doc.Spec)
			}
		})
	}
	if doc := LoadDocument(filepath.Join(dir, "absent.yaml")); doc.Err == nil {
		t.Errorf("expected an error for a missing document")
	}
}

func TestFollowReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "data.csv")
	path := filepath.Join(dir, "bar.yaml")
	writeFile(t, data, "k,v\na,1\n")
	writeFile(t, path, "type: bar\ndata:\n  file: data.csv\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chan Document)
	done := make(chan struct{})
	go func() {
		defer close(done)
		follow(ctx, path, out, logging.Discard())
	}()

	next := func() Document {
		t.Helper()
		select {
		case doc := <-out:
			return doc
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for a document")
		}
		return Document{}
	}
	first := next()
	if first.Version != 1 || first.Err != nil || len(first.Spec.Primary().Data) != 1 {
		t.Fatalf("expected the initial document, got %+v", first)
	}

	writeFile(t, data, "k,v\na,1\nb,2\n")
	var doc Document
	for doc.Err != nil || len(doc.Spec.Primary().Data) != 2 {
		doc = next()
	}
	if doc.Version < 2 {
		t.Errorf("expected a newer version, got %d", doc.Version)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Errorf("expected follow to return once cancelled")
	}
}

func TestFollowSettlesUnterminatedRow(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "data.csv"), "k,v\na,1\nb,2")
	path := filepath.Join(dir, "bar.yaml")
	writeFile(t, path, "type: bar\ndata:\n  file: data.csv\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chan Document)
	go follow(ctx, path, out, logging.Discard())

	next := func() Document {
		t.Helper()
		select {
		case doc := <-out:
			return doc
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for a document")
		}
		return Document{}
	}
	first := next()
	if first.Err != nil {
		t.Fatalf("expected the initial document, got: %v", first.Err)
	}
	if !first.Unsettled || len(first.Spec.Primary().Data) != 1 {
		t.Fatalf("expected the fresh unterminated row to be held back, got %+v", first)
	}

	// No further writes happen; the row must still show up once the file
	// has been left alone.
	second := next()
	if second.Version != 2 || second.Unsettled {
		t.Errorf("expected a settled second version, got %+v", second)
	}
	if !slices.Equal(second.Spec.Primary().Data, []float64{1, 2}) {
		t.Errorf("expected the last row after settling, got %v", second.Spec.Primary().Data)
	}
}

func TestReadTableFileSettleDelay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	writeFile(t, path, "k,v\na,1\nb,2")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat data file: %v", err)
	}
	for _, tc := range []struct {
		name      string
		age       time.Duration
		values    []float64
		unsettled bool
	}{
		{"fresh", 0, []float64{1}, true},
		{"settled", settleDelay, []float64{1, 2}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			table, unsettled, err := readTableFile(path, DataRef{}, info.ModTime().Add(tc.age))
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}
			if unsettled != tc.unsettled {
				t.Errorf("expected unsettled %v, got %v", tc.unsettled, unsettled)
			}
			if !slices.Equal(table.Values, tc.values) {
				t.Errorf("expected values %v, got %v", tc.values, table.Values)
			}
		})
	}
}
