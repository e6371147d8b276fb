package backend

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"git.sr.ht/~whereswaldon/chartmaster/internal/logging"
)

// DataRef points a chart document at a CSV file holding its labels and
// values. Columns are matched by heading, ignoring case. Without an explicit
// choice the first column holds labels and the second holds values; a
// single-column file only has values.
type DataRef struct {
	File        string `yaml:"file"`
	LabelColumn string `yaml:"labelColumn,omitempty"`
	ValueColumn string `yaml:"valueColumn,omitempty"`
	// TotalColumn optionally marks waterfall totals. Cells parse with
	// strconv.ParseBool; anything else counts as false.
	TotalColumn string `yaml:"totalColumn,omitempty"`
}

// Table is the content of a CSV data file.
type Table struct {
	Labels  []string
	Values  []float64
	IsTotal []bool
}

var ErrNoValueColumn = errors.New("no value column")

// ReadTable parses CSV data. Only complete lines are consumed, so a file
// that is still being appended to yields the rows written so far. Rows with
// an empty or malformed value are skipped.
func ReadTable(r io.Reader, ref DataRef) (Table, error) {
	csvReader := csv.NewReader(NewLineReader(r))
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	headings, err := csvReader.Read()
	if err != nil {
		return Table{}, fmt.Errorf("failed reading CSV headings: %w", err)
	}
	labelIdx, valueIdx, totalIdx := -1, -1, -1
	if len(headings) > 1 {
		labelIdx, valueIdx = 0, 1
	} else {
		valueIdx = 0
	}
	if ref.LabelColumn != "" {
		if labelIdx = column(headings, ref.LabelColumn); labelIdx < 0 {
			return Table{}, fmt.Errorf("label column %q not found in %v", ref.LabelColumn, headings)
		}
	}
	if ref.ValueColumn != "" {
		if valueIdx = column(headings, ref.ValueColumn); valueIdx < 0 {
			return Table{}, fmt.Errorf("%w: %q not in %v", ErrNoValueColumn, ref.ValueColumn, headings)
		}
	}
	if ref.TotalColumn != "" {
		if totalIdx = column(headings, ref.TotalColumn); totalIdx < 0 {
			return Table{}, fmt.Errorf("total column %q not found in %v", ref.TotalColumn, headings)
		}
	}

	log := logging.Get()
	var t Table
	hasTotals := false
	for line := 2; ; line++ {
		rec, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return t, fmt.Errorf("failed reading CSV line %d: %w", line, err)
		}
		cell := strings.TrimSpace(field(rec, valueIdx))
		if len(cell) < 1 {
			// Skip null cells.
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			log.Warn().Int("line", line).Str("cell", cell).Err(err).Msg("skipping malformed value")
			continue
		}
		t.Values = append(t.Values, v)
		if labelIdx >= 0 {
			t.Labels = append(t.Labels, strings.TrimSpace(field(rec, labelIdx)))
		}
		total := false
		if totalIdx >= 0 {
			total, _ = strconv.ParseBool(strings.TrimSpace(field(rec, totalIdx)))
			hasTotals = hasTotals || total
		}
		t.IsTotal = append(t.IsTotal, total)
	}
	if !hasTotals {
		t.IsTotal = nil
	}
	return t, nil
}

func column(headings []string, name string) int {
	for i, h := range headings {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
