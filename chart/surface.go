package chart

import "image/color"

// Point is a position in surface pixels.
type Point struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle in surface pixels.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Font selects the text style for measuring and drawing.
type Font struct {
	Size float64
	Bold bool
}

// TextMetrics describes the extent of a run of text. Ascent and Descent are
// both positive distances from the baseline.
type TextMetrics struct {
	Width, Ascent, Descent float64
}

// Height is the line height of the measured text.
func (m TextMetrics) Height() float64 {
	return m.Ascent + m.Descent
}

// TextMeasurer measures text as it would be drawn.
type TextMeasurer interface {
	MeasureText(s string, f Font) (TextMetrics, error)
}

// TextAnchor selects which horizontal point of a string is placed at the
// requested x coordinate.
type TextAnchor uint8

const (
	AnchorStart TextAnchor = iota
	AnchorMiddle
	AnchorEnd
)

// LinearGradient blends From at (X0, Y0) into To at (X1, Y1).
type LinearGradient struct {
	X0, Y0, X1, Y1 float64
	From, To       color.NRGBA
}

// Paint is either a solid color or, when Gradient is set, a linear gradient.
type Paint struct {
	Color    color.NRGBA
	Gradient *LinearGradient
}

// Solid returns a paint of a single color.
func Solid(c Color) Paint {
	return Paint{Color: c.NRGBA()}
}

// StrokeStyle configures the outline drawn by Surface.Stroke. Dash holds
// alternating on/off lengths; an empty Dash draws a solid line.
type StrokeStyle struct {
	Width float64
	Dash  []float64
}

// Surface is a 2D paint target. Path calls accumulate a path that is consumed
// by Fill or Stroke; BeginPath discards it. Coordinates are pixels with y
// growing downwards, and angles are radians measured clockwise from the
// positive x axis, as on an HTML canvas.
type Surface interface {
	TextMeasurer

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	QuadTo(cx, cy, x, y float64)
	// Arc appends a circular arc. The current point, if any, is connected to
	// the arc's start with a straight line.
	Arc(cx, cy, r, start, end float64, counterClockwise bool)
	ClosePath()

	Fill(p Paint)
	Stroke(p Paint, style StrokeStyle)
	FillRect(r Rect, c color.NRGBA)
	// FillText draws s with its vertical middle at y.
	FillText(s string, x, y float64, f Font, c color.NRGBA, anchor TextAnchor)
	// Clear resets the whole surface to c.
	Clear(c color.NRGBA)
}
