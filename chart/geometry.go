package chart

import "math"

// ComputeArea derives the plotting rectangle from the canvas size, the
// layout padding and the measured reservations. Width and height never go
// negative.
func (s Scene) ComputeArea(l Layout) Rect {
	p := s.Options.Layout.Padding
	x := p.Left + l.AxisWidth
	y := p.Top + l.TitleHeight
	right := p.Right
	bottom := p.Bottom + l.AxisHeight
	if s.ShowsLegend() {
		switch s.Options.Plugins.Legend.Position {
		case PositionLeft:
			x += l.LegendWidth
		case PositionRight:
			right += l.LegendWidth
		case PositionBottom:
			bottom += l.LegendHeight
		default:
			y += l.LegendHeight
		}
	}
	return Rect{
		X:      x,
		Y:      y,
		Width:  max(0, finite(s.Width-x-right, 0)),
		Height: max(0, finite(s.Height-y-bottom, 0)),
	}
}

// LinearScale maps values in [Min, Max] onto a pixel extent.
type LinearScale struct {
	Min, Max float64
}

// Range is Max-Min, or 1 when the scale is degenerate.
func (l LinearScale) Range() float64 {
	r := l.Max - l.Min
	if r == 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 1
	}
	return r
}

// Norm maps v to its fraction of the scale.
func (l LinearScale) Norm(v float64) float64 {
	return (v - l.Min) / l.Range()
}

// Y maps v to a vertical pixel coordinate inside area, growing upwards.
func (l LinearScale) Y(area Rect, v float64) float64 {
	return area.Y + area.Height - l.Norm(v)*area.Height
}

// X maps v to a horizontal pixel coordinate inside area.
func (l LinearScale) X(area Rect, v float64) float64 {
	return area.X + l.Norm(v)*area.Width
}

// Baseline is the value bars grow from: zero, clamped into the scale.
func (l LinearScale) Baseline() float64 {
	return clamp(0, min(l.Min, l.Max), max(l.Min, l.Max))
}

// Ticks returns n evenly spaced values from Min to Max.
func (l LinearScale) Ticks(n int) []float64 {
	if n < 2 {
		return []float64{l.Min}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = l.Min + float64(i)/float64(n-1)*(l.Max-l.Min)
	}
	return out
}

// ValueScale is the scale used by the value axis of the scene's kind.
func (s Scene) ValueScale() LinearScale {
	data := s.Dataset.Data
	switch s.Kind {
	case Waterfall:
		return WaterfallScale(WaterfallSteps(data, s.Dataset.IsTotal))
	case ConversionFunnel:
		return LinearScale{Min: 0, Max: maxOf(data)}
	}
	lo, hi := dataRange(data)
	if s.Options.Scales.Y.BeginAtZero {
		lo, hi = min(lo, 0), max(hi, 0)
	}
	return LinearScale{Min: lo, Max: hi}
}

// LinePoints places each value of a line chart. Progress raises the points
// from the bottom of the area.
func (s Scene) LinePoints(area Rect, progress float64) []Point {
	data := s.Dataset.Data
	scale := s.ValueScale()
	steps := float64(max(len(data)-1, 1))
	bottom := area.Y + area.Height
	out := make([]Point, len(data))
	for i := range data {
		y := scale.Y(area, at(data, i))
		out[i] = Point{
			X: area.X + float64(i)/steps*area.Width,
			Y: bottom + (y-bottom)*progress,
		}
	}
	return out
}

const (
	barFill = 0.7
	barGap  = 0.15
)

// BarRects places the bars of a vertical bar chart. Each bar occupies 70% of
// its slot and grows from the baseline towards its value.
func (s Scene) BarRects(area Rect, progress float64) []Rect {
	data := s.Dataset.Data
	if len(data) == 0 {
		return nil
	}
	scale := s.ValueScale()
	base := scale.Baseline()
	slot := area.Width / float64(len(data))
	by := scale.Y(area, base)
	out := make([]Rect, len(data))
	for i := range data {
		v := base + (at(data, i)-base)*progress
		vy := scale.Y(area, v)
		out[i] = Rect{
			X:      area.X + float64(i)*slot + slot*barGap,
			Y:      min(vy, by),
			Width:  slot * barFill,
			Height: math.Abs(vy - by),
		}
	}
	return out
}

// HorizontalBarRects is BarRects with the axes swapped: categories run down
// the area and bars extend left or right of the baseline.
func (s Scene) HorizontalBarRects(area Rect, progress float64) []Rect {
	data := s.Dataset.Data
	if len(data) == 0 {
		return nil
	}
	scale := s.ValueScale()
	base := scale.Baseline()
	slot := area.Height / float64(len(data))
	bx := scale.X(area, base)
	out := make([]Rect, len(data))
	for i := range data {
		v := base + (at(data, i)-base)*progress
		vx := scale.X(area, v)
		out[i] = Rect{
			X:      min(vx, bx),
			Y:      area.Y + float64(i)*slot + slot*barGap,
			Width:  math.Abs(vx - bx),
			Height: slot * barFill,
		}
	}
	return out
}

// Slice is one sector of a pie or doughnut chart.
type Slice struct {
	Index        int
	CX, CY       float64
	Inner, Outer float64
	// Start and End are canvas angles in radians, End >= Start.
	Start, End float64
}

// Mid is the angle halfway through the slice.
func (sl Slice) Mid() float64 {
	return (sl.Start + sl.End) / 2
}

// PieRadii returns the outer and inner radius of a pie or doughnut. The outer
// radius leaves room for a hovered slice to pop out.
func (s Scene) PieRadii(area Rect) (outer, inner float64) {
	outer = max(0, min(area.Width, area.Height)/2-s.Options.Elements.Arc.HoverOffset)
	if s.Kind == Doughnut {
		inner = outer * 0.5
	}
	return outer, inner
}

// Slices lays out the pie or doughnut sectors clockwise from 12 o'clock.
// Non-positive values get empty slices.
func (s Scene) Slices(area Rect, progress float64) []Slice {
	data := s.Dataset.Data
	total := 0.0
	for i := range data {
		total += max(at(data, i), 0)
	}
	outer, inner := s.PieRadii(area)
	c := area.Center()
	angle := -math.Pi / 2
	out := make([]Slice, len(data))
	for i := range data {
		sweep := 0.0
		if total > 0 {
			sweep = max(at(data, i), 0) / total * 2 * math.Pi * progress
		}
		out[i] = Slice{
			Index: i,
			CX:    c.X, CY: c.Y,
			Inner: inner, Outer: outer,
			Start: angle, End: angle + sweep,
		}
		angle += sweep
	}
	return out
}
