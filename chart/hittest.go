package chart

import (
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
)

// HitTest resolves (x, y) to the index of the data element drawn there, or
// -1. It uses the same geometry as drawing, evaluated at full progress.
func (s Scene) HitTest(area Rect, x, y float64) int {
	switch s.Kind {
	case Line:
		r := s.Options.Elements.Point.HitRadius
		for i, p := range s.LinePoints(area, 1) {
			if math.Hypot(x-p.X, y-p.Y) <= r {
				return i
			}
		}
	case Bar:
		if !area.Contains(x, y) {
			return -1
		}
		for i, r := range s.BarRects(area, 1) {
			if r.Width > 0 && x >= r.X && x <= r.X+r.Width {
				return i
			}
		}
	case HorizontalBar:
		if !area.Contains(x, y) {
			return -1
		}
		for i, r := range s.HorizontalBarRects(area, 1) {
			if r.Height > 0 && y >= r.Y && y <= r.Y+r.Height {
				return i
			}
		}
	case Waterfall:
		if !area.Contains(x, y) {
			return -1
		}
		for i, b := range s.WaterfallBars(area, 1) {
			if b.Rect.Width > 0 && x >= b.Rect.X && x <= b.Rect.X+b.Rect.Width {
				return i
			}
		}
	case Pie, Doughnut:
		return hitSlice(s.Slices(area, 1), x, y)
	case Funnel:
		if !area.Contains(x, y) {
			return -1
		}
		for _, t := range s.FunnelSegments(area, 1) {
			if t.Contains(x, y) {
				return t.Item.OriginalIndex
			}
		}
	case Gauge:
		g := s.Gauge(area, 1)
		if d := math.Hypot(x-g.CX, y-g.CY); d >= g.Inner && d <= g.Outer && g.Outer > 0 {
			return 0
		}
	case ConversionFunnel:
		for i, r := range s.ConversionBars(area, 1) {
			if !r.Empty() && r.Contains(x, y) {
				return i
			}
		}
	}
	return -1
}

func hitSlice(slices []Slice, x, y float64) int {
	if len(slices) == 0 {
		return -1
	}
	first := slices[0]
	dx, dy := x-first.CX, y-first.CY
	if d := math.Hypot(dx, dy); d < first.Inner || d > first.Outer {
		return -1
	}
	// Measure clockwise from 12 o'clock.
	angle := math.Mod(math.Atan2(dy, dx)+math.Pi/2, 2*math.Pi)
	if angle < 0 {
		angle += 2 * math.Pi
	}
	for _, sl := range slices {
		start := sl.Start + math.Pi/2
		end := sl.End + math.Pi/2
		if end > start && angle >= start && angle < end {
			return sl.Index
		}
	}
	return -1
}

type hitKey struct {
	kind Kind
	x, y int
}

const hitCacheSize = 4096

// Locator memoizes hit tests for one scene by whole-pixel position. Reset it
// whenever the scene or chart area changes.
type Locator struct {
	scene Scene
	area  Rect
	cache *lru.Cache[hitKey, int]
}

func NewLocator() *Locator {
	cache, err := lru.New[hitKey, int](hitCacheSize)
	if err != nil {
		// Only reachable with a non-positive size.
		panic(err)
	}
	return &Locator{cache: cache}
}

// Reset points the locator at a new scene and drops every cached result.
func (l *Locator) Reset(s Scene, area Rect) {
	l.scene = s
	l.area = area
	l.cache.Purge()
}

// Locate returns the element index under (x, y), or -1.
func (l *Locator) Locate(x, y float64) int {
	key := hitKey{kind: l.scene.Kind, x: int(floor(x)), y: int(floor(y))}
	if idx, ok := l.cache.Get(key); ok {
		return idx
	}
	idx := l.scene.HitTest(l.area, x, y)
	l.cache.Add(key, idx)
	return idx
}

// Cached is the number of memoized positions.
func (l *Locator) Cached() int {
	return l.cache.Len()
}
