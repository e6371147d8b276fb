package chart

import (
	"errors"
	"image/color"
	"math"
	"unicode/utf8"
)

// fakeSurface records what is painted and measures text at half the font
// size per rune.
type fakeSurface struct {
	path       Path
	measureErr error

	clears  int
	fills   int
	strokes int
	rects   int
	texts   []string
	// nonFinite counts coordinates that were not finite numbers.
	nonFinite int
	lastClear color.NRGBA
}

var _ Surface = (*fakeSurface)(nil)

func (f *fakeSurface) MeasureText(s string, font Font) (TextMetrics, error) {
	if f.measureErr != nil {
		return TextMetrics{}, f.measureErr
	}
	return TextMetrics{
		Width:   float64(utf8.RuneCountInString(s)) * font.Size / 2,
		Ascent:  font.Size * 3 / 4,
		Descent: font.Size / 4,
	}, nil
}

func (f *fakeSurface) check(vs ...float64) {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			f.nonFinite++
		}
	}
}

func (f *fakeSurface) BeginPath()          { f.path.Reset() }
func (f *fakeSurface) MoveTo(x, y float64) { f.check(x, y); f.path.MoveTo(x, y) }
func (f *fakeSurface) LineTo(x, y float64) { f.check(x, y); f.path.LineTo(x, y) }
func (f *fakeSurface) ClosePath()          { f.path.ClosePath() }

func (f *fakeSurface) QuadTo(cx, cy, x, y float64) {
	f.check(cx, cy, x, y)
	f.path.QuadTo(cx, cy, x, y)
}

func (f *fakeSurface) Arc(cx, cy, r, start, end float64, ccw bool) {
	f.check(cx, cy, r, start, end)
	f.path.Arc(cx, cy, r, start, end, ccw)
}

func (f *fakeSurface) Fill(p Paint) {
	f.fills++
	if g := p.Gradient; g != nil {
		f.check(g.X0, g.Y0, g.X1, g.Y1)
	}
}

func (f *fakeSurface) Stroke(p Paint, style StrokeStyle) {
	f.strokes++
	f.check(style.Width)
}

func (f *fakeSurface) FillRect(r Rect, c color.NRGBA) {
	f.rects++
	f.check(r.X, r.Y, r.Width, r.Height)
}

func (f *fakeSurface) FillText(s string, x, y float64, font Font, c color.NRGBA, anchor TextAnchor) {
	f.check(x, y)
	f.texts = append(f.texts, s)
}

func (f *fakeSurface) Clear(c color.NRGBA) {
	f.clears++
	f.lastClear = c
}

var errMeasure = errors.New("no fonts")

// scene builds a scene of kind over data with default options.
func scene(kind Kind, labels []string, data []float64, w, h float64) Scene {
	return Scene{
		Kind:    kind,
		Labels:  labels,
		Dataset: Dataset{Data: data},
		Options: Defaults(),
		Width:   w,
		Height:  h,
	}
}
