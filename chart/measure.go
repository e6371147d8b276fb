package chart

import (
	"errors"
	"strconv"
)

// Scene is the immutable input of every layout, geometry and hit-test
// computation.
type Scene struct {
	Kind    Kind
	Labels  []string
	Dataset Dataset
	Options Options
	Width   float64
	Height  float64
}

// Layout holds the space reserved around the chart area.
type Layout struct {
	TitleHeight  float64
	LegendWidth  float64
	LegendHeight float64
	AxisWidth    float64
	AxisHeight   float64
}

const (
	titleMargin = 10
	axisMargin  = 15
	tickCount   = 6
)

// LegendEntry is one label/color pair shown in the legend.
type LegendEntry struct {
	Label string
	Color Color
}

// LegendEntries lists the legend in display order. Funnels list their labels
// in sorted order.
func (s Scene) LegendEntries() []LegendEntry {
	if s.Kind == Funnel {
		items := s.FunnelItems()
		out := make([]LegendEntry, len(items))
		for i, it := range items {
			out[i] = LegendEntry{Label: it.Label, Color: it.Color}
		}
		return out
	}
	out := make([]LegendEntry, len(s.Labels))
	for i, l := range s.Labels {
		out[i] = LegendEntry{Label: l, Color: s.Dataset.BackgroundColor.At(i)}
	}
	return out
}

// ShowsLegend reports whether a legend is laid out for this scene.
func (s Scene) ShowsLegend() bool {
	return s.Options.Plugins.Legend.Display && s.Kind != Gauge
}

// TickLabels formats the value axis ticks.
func (s Scene) TickLabels() []string {
	ticks := s.ValueScale().Ticks(tickCount)
	out := make([]string, len(ticks))
	for i, v := range ticks {
		out[i] = strconv.FormatFloat(v, 'f', 1, 64)
	}
	return out
}

func (s Scene) titleFont() Font {
	return Font{Size: s.Options.Plugins.Title.FontSize, Bold: true}
}

func (s Scene) legendFont() Font {
	return Font{Size: s.Options.Plugins.Legend.Labels.FontSize}
}

func tickFont(a Axis) Font {
	return Font{Size: a.Ticks.FontSize}
}

// textMeasure wraps a TextMeasurer and remembers every failure.
type textMeasure struct {
	m    TextMeasurer
	errs []error
	ok   bool
}

func (t *textMeasure) measure(s string, f Font) TextMetrics {
	t.ok = false
	if t.m == nil {
		if len(t.errs) == 0 {
			t.errs = append(t.errs, ErrNoMeasurer)
		}
		return TextMetrics{}
	}
	m, err := t.m.MeasureText(s, f)
	if err != nil {
		t.errs = append(t.errs, &MeasurementError{Text: s, Err: err})
		return TextMetrics{}
	}
	t.ok = true
	return TextMetrics{
		Width:   max(finite(m.Width, 0), 0),
		Ascent:  max(finite(m.Ascent, 0), 0),
		Descent: max(finite(m.Descent, 0), 0),
	}
}

// widest returns the largest measured width in labels, and whether every
// measurement succeeded.
func (t *textMeasure) widest(labels []string, f Font) (float64, bool) {
	w, ok := 0.0, true
	for _, l := range labels {
		m := t.measure(l, f)
		ok = ok && t.ok
		w = max(w, m.Width)
	}
	return w, ok
}

// MeasureLayout computes the title, legend and axis reservations. A failing
// or missing measurer never prevents layout: each contribution that depended
// on a failed measurement is zero, and the failures are returned joined
// together alongside the degraded layout.
func (s Scene) MeasureLayout(m TextMeasurer) (Layout, error) {
	var (
		l   Layout
		t   = textMeasure{m: m}
		opt = s.Options
	)
	if title := opt.Plugins.Title; title.Display {
		tm := t.measure(title.Text, s.titleFont())
		if t.ok {
			l.TitleHeight = tm.Height() + title.Padding.Top + title.Padding.Bottom + titleMargin
		}
	}
	if s.ShowsLegend() {
		lg := opt.Plugins.Legend
		switch lg.Position {
		case PositionLeft, PositionRight:
			entries := s.LegendEntries()
			labels := make([]string, len(entries))
			for i, e := range entries {
				labels[i] = e.Label
			}
			if w, ok := t.widest(labels, s.legendFont()); ok {
				l.LegendWidth = w + lg.Labels.BoxWidth + 2*lg.Labels.Padding + 2*lg.Padding
				l.LegendHeight = s.Height
			}
		default:
			l.LegendHeight = lg.Labels.BoxWidth + lg.Labels.Padding + 2*lg.Padding
			l.LegendWidth = s.Width
		}
	}
	if s.Kind.HasAxes() {
		if y := opt.Scales.Y; y.Display {
			labels := s.TickLabels()
			if s.Kind == HorizontalBar {
				labels = s.Labels
			}
			if w, ok := t.widest(labels, tickFont(y)); ok {
				l.AxisWidth = w + y.Ticks.Padding + axisMargin
			}
		}
		if x := opt.Scales.X; x.Display {
			tm := t.measure("M", tickFont(x))
			if t.ok {
				l.AxisHeight = tm.Height() + x.Ticks.Padding + axisMargin
			}
		}
	}
	return l, errors.Join(t.errs...)
}
