package chart

import (
	"slices"
	"strconv"
)

// DataPoint describes one data element for tooltips and callbacks.
type DataPoint struct {
	Index int
	Label string
	Value float64
	// Percentage is the element's share of the total with one decimal, set
	// only for pie, doughnut and funnel charts.
	Percentage string
	Color      Color
}

// DataAt describes element i, or reports false if there is no such element.
// Funnel indices refer to dataset order, not sorted order.
func (s Scene) DataAt(i int) (DataPoint, bool) {
	data := s.Dataset.Data
	if i < 0 || i >= len(data) {
		return DataPoint{}, false
	}
	v := at(data, i)
	dp := DataPoint{
		Index: i,
		Label: label(s.Labels, i),
		Value: v,
		Color: s.Dataset.BackgroundColor.At(i),
	}
	switch s.Kind {
	case Gauge:
		if dp.Label == "" {
			dp.Label = "Value"
		}
		dp.Color = GaugeColor(v, s.Options.Gauge.Ranges)
	case Waterfall:
		steps := WaterfallSteps(data, s.Dataset.IsTotal)
		dp.Color = s.Options.Waterfall.StepColor(steps[i])
	case ConversionFunnel:
		dp.Color = s.Options.ConversionFunnel.Color(i, len(data))
	}
	if s.Kind.Proportional() {
		dp.Percentage = percentage(v, ComputeStats(data).Total)
	}
	return dp, true
}

func percentage(v, total float64) string {
	p := 0.0
	if total != 0 {
		p = v / total * 100
	}
	return strconv.FormatFloat(finite(p, 0), 'f', 1, 64)
}

// Stats summarizes a dataset. All fields are zero for empty data.
type Stats struct {
	Count   int
	Total   float64
	Average float64
	Median  float64
	Min     float64
	Max     float64
}

// ComputeStats summarizes data.
func ComputeStats(data []float64) Stats {
	if len(data) == 0 {
		return Stats{}
	}
	sorted := make([]float64, len(data))
	for i := range data {
		sorted[i] = at(data, i)
	}
	slices.Sort(sorted)
	st := Stats{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
	}
	for _, v := range sorted {
		st.Total += v
	}
	st.Average = st.Total / float64(st.Count)
	mid := st.Count / 2
	if st.Count%2 == 0 {
		st.Median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		st.Median = sorted[mid]
	}
	return st
}
