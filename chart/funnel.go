package chart

import (
	"cmp"
	"slices"
)

// FunnelItem is a funnel value together with the index it had in the
// dataset, so sorted segments can be traced back to their data.
type FunnelItem struct {
	Value         float64
	Label         string
	OriginalIndex int
	Color         Color
}

// SortFunnel orders the funnel data by policy. Sorting is stable, so equal
// values keep their dataset order; unknown policies behave like SortNone.
func SortFunnel(labels []string, ds Dataset, policy SortPolicy) []FunnelItem {
	items := make([]FunnelItem, len(ds.Data))
	for i := range ds.Data {
		items[i] = FunnelItem{
			Value:         at(ds.Data, i),
			Label:         label(labels, i),
			OriginalIndex: i,
			Color:         ds.BackgroundColor.At(i),
		}
	}
	switch policy {
	case SortDesc:
		slices.SortStableFunc(items, func(a, b FunnelItem) int { return cmp.Compare(b.Value, a.Value) })
	case SortAsc:
		slices.SortStableFunc(items, func(a, b FunnelItem) int { return cmp.Compare(a.Value, b.Value) })
	}
	return items
}

// FunnelItems sorts the scene's data by its configured policy.
func (s Scene) FunnelItems() []FunnelItem {
	return SortFunnel(s.Labels, s.Dataset, s.Options.Funnel.Sort)
}

// Trapezoid is one funnel segment, horizontally centered on CX.
type Trapezoid struct {
	Item                  FunnelItem
	CX                    float64
	Top, Bottom           float64
	TopWidth, BottomWidth float64
}

// WidthAt linearly interpolates the segment's width at y.
func (t Trapezoid) WidthAt(y float64) float64 {
	h := t.Bottom - t.Top
	if h <= 0 {
		return t.TopWidth
	}
	f := clamp((y-t.Top)/h, 0, 1)
	return t.TopWidth + (t.BottomWidth-t.TopWidth)*f
}

// Contains reports whether (x, y) falls inside the segment.
func (t Trapezoid) Contains(x, y float64) bool {
	if y < t.Top || y > t.Bottom {
		return false
	}
	half := t.WidthAt(y) / 2
	return x >= t.CX-half && x <= t.CX+half
}

// Corners returns the segment outline clockwise from the top left.
func (t Trapezoid) Corners() [4]Point {
	return [4]Point{
		{t.CX - t.TopWidth/2, t.Top},
		{t.CX + t.TopWidth/2, t.Top},
		{t.CX + t.BottomWidth/2, t.Bottom},
		{t.CX - t.BottomWidth/2, t.Bottom},
	}
}

const funnelNeck = 0.3

// FunnelSegments stacks the sorted items top to bottom. The first segment
// spans the full funnel width; each later edge narrows with its value, and
// the last segment tapers to the neck width.
func (s Scene) FunnelSegments(area Rect, progress float64) []Trapezoid {
	items := s.FunnelItems()
	n := len(items)
	if n == 0 {
		return nil
	}
	full := area.Width * s.Options.Funnel.Width * progress
	peak := 0.0
	for _, it := range items {
		peak = max(peak, it.Value)
	}
	if peak <= 0 {
		peak = 1
	}
	width := func(i int) float64 {
		switch {
		case i == 0:
			return full
		case i < n:
			return full * (funnelNeck + (1-funnelNeck)*clamp(items[i].Value/peak, 0, 1))
		default:
			return full * funnelNeck
		}
	}
	segH := area.Height / float64(n)
	gap := segH * s.Options.Funnel.Gap
	cx := area.X + area.Width/2
	out := make([]Trapezoid, n)
	for i, it := range items {
		top := area.Y + float64(i)*segH
		out[i] = Trapezoid{
			Item:        it,
			CX:          cx,
			Top:         top,
			Bottom:      top + max(segH-gap, 0),
			TopWidth:    width(i),
			BottomWidth: width(i + 1),
		}
	}
	return out
}
