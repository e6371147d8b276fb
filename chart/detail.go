package chart

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// FormatValue renders v with thousands separators and at most two decimals.
func FormatValue(v float64) string {
	return humanize.Commaf(math.Round(finite(v, 0)*100) / 100)
}

// TooltipText is the single-line summary shown while hovering an element.
func TooltipText(dp DataPoint) string {
	s := FormatValue(dp.Value)
	if dp.Label != "" {
		s = dp.Label + ": " + s
	}
	if dp.Percentage != "" {
		s += " (" + dp.Percentage + "%)"
	}
	return s
}

// DetailRow is one labeled line of the detailed view.
type DetailRow struct {
	Label, Value string
}

// Detail is a renderable description of the detailed view for one element.
type Detail struct {
	Title string
	Color Color
	Rows  []DetailRow
}

// DetailFormatter builds the detailed view for a data point. The UI layer
// decides how to present the result.
type DetailFormatter func(dp DataPoint, st Stats, dv DetailedView) Detail

// DefaultDetail lists the value, its share, the dataset statistics and any
// custom fields, honoring the detailed view options.
func DefaultDetail(dp DataPoint, st Stats, dv DetailedView) Detail {
	d := Detail{Title: dp.Label, Color: dp.Color}
	add := func(label, value string) {
		d.Rows = append(d.Rows, DetailRow{Label: label, Value: value})
	}
	add("Value", FormatValue(dp.Value))
	if dp.Percentage != "" {
		add("Percentage", dp.Percentage+"%")
	}
	if dv.ShowStats {
		add("Average", FormatValue(st.Average))
		add("Median", FormatValue(st.Median))
		add("Min", FormatValue(st.Min))
		add("Max", FormatValue(st.Max))
		add("Total", FormatValue(st.Total))
	}
	if dv.ShowRawData {
		add("Index", strconv.Itoa(dp.Index))
		add("Raw value", strconv.FormatFloat(dp.Value, 'g', -1, 64))
		add("Color", dp.Color.String())
	}
	for _, f := range dv.CustomFields {
		v := f.Value
		if f.Compute != nil {
			v = f.Compute(dp)
		}
		add(f.Label, v)
	}
	return d
}
