package backend

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"git.sr.ht/~whereswaldon/chartmaster/chart"
)

// Document is a chart description loaded from disk.
type Document struct {
	// Path is the absolute path of the document file.
	Path string
	Spec chart.Spec
	// DataPath is the absolute path of the referenced CSV file, if any.
	DataPath string
	// Version increases every time the document is reloaded.
	Version int
	// Unsettled is set when the last line of the data file had no line
	// ending and was left out because the file changed too recently.
	Unsettled bool
	Err       error
}

// documentFile is the on-disk form: a chart spec plus an optional reference
// to CSV data that replaces the inline labels and values.
type documentFile struct {
	chart.Spec `yaml:",inline"`
	Data       *DataRef `yaml:"data,omitempty"`
}

// settleDelay is how long a data file must have been left alone before an
// unterminated last line is taken to be complete.
const settleDelay = time.Second

// ParseDocument decodes a YAML or JSON chart document. Relative data file
// references are resolved against dir.
func ParseDocument(raw []byte, dir string) (chart.Spec, string, error) {
	doc := parseDocument(raw, dir)
	return doc.Spec, doc.DataPath, doc.Err
}

func parseDocument(raw []byte, dir string) (doc Document) {
	var f documentFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		doc.Err = fmt.Errorf("failed decoding chart document: %w", err)
		return doc
	}
	spec := f.Spec
	doc.Spec = spec
	if f.Data == nil || f.Data.File == "" {
		return doc
	}
	dataPath := f.Data.File
	if !filepath.IsAbs(dataPath) {
		dataPath = filepath.Join(dir, dataPath)
	}
	doc.DataPath = dataPath
	table, unsettled, err := readTableFile(dataPath, *f.Data, time.Now())
	if err != nil {
		doc.Err = err
		return doc
	}
	doc.Unsettled = unsettled
	if len(table.Labels) > 0 || len(spec.Labels) == 0 {
		spec.Labels = table.Labels
	}
	ds := spec.Primary()
	ds.Data = table.Values
	if table.IsTotal != nil {
		ds.IsTotal = table.IsTotal
	}
	if len(spec.Datasets) == 0 {
		spec.Datasets = []chart.Dataset{ds}
	} else {
		spec.Datasets = append([]chart.Dataset{ds}, spec.Datasets[1:]...)
	}
	doc.Spec = spec
	return doc
}

// readTableFile reads the CSV data at path. The returned flag reports that
// an unterminated last line was held back because the file was modified less
// than settleDelay before now.
func readTableFile(path string, ref DataRef, now time.Time) (Table, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Table{}, false, fmt.Errorf("failed opening data file: %w", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Table{}, false, fmt.Errorf("failed reading data file: %w", err)
	}
	unsettled := false
	if len(raw) > 0 && !bytes.HasSuffix(raw, []byte("\n")) {
		if now.Sub(info.ModTime()) >= settleDelay {
			raw = append(raw, '\n')
		} else {
			unsettled = true
		}
	}
	table, err := ReadTable(bytes.NewReader(raw), ref)
	if err != nil {
		return table, false, fmt.Errorf("%s: %w", path, err)
	}
	return table, unsettled, nil
}

// LoadDocument reads the chart document at path and any data it references.
func LoadDocument(path string) Document {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	doc := Document{Path: abs}
	raw, err := os.ReadFile(abs)
	if err != nil {
		doc.Err = fmt.Errorf("failed reading chart document: %w", err)
		return doc
	}
	doc = parseDocument(raw, filepath.Dir(abs))
	doc.Path = abs
	return doc
}
