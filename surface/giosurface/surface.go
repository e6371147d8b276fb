// Package giosurface implements chart.Surface with Gio operations so charts
// can be drawn inside a Gio window.
package giosurface

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	lru "github.com/hashicorp/golang-lru/v2"

	"git.sr.ht/~whereswaldon/chartmaster/chart"
)

// Surface records chart drawing into the ops of the current frame. Chart
// coordinates are device independent pixels (Dp); Begin scales them to the
// window's pixel density. Drawing outside Begin/End is dropped, while text
// can be measured at any time.
type Surface struct {
	shaper *text.Shaper
	path   chart.Path

	ops       *op.Ops
	transform op.TransformStack
	scale     float32
	size      image.Point

	measureOps op.Ops
	metrics    *lru.Cache[measureKey, chart.TextMetrics]
}

var _ chart.Surface = (*Surface)(nil)

type measureKey struct {
	text string
	size float64
	bold bool
}

const measureCacheSize = 512

// unitMetric draws text at one pixel per Sp; the frame transform provides
// the density scaling.
var unitMetric = unit.Metric{PxPerDp: 1, PxPerSp: 1}

func New(shaper *text.Shaper) (*Surface, error) {
	metrics, err := lru.New[measureKey, chart.TextMetrics](measureCacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating text metrics cache: %w", err)
	}
	return &Surface{shaper: shaper, metrics: metrics, scale: 1}, nil
}

// FrameSize returns the size in Dp that Begin would make drawable, and
// adopts the frame's pixel density for ToChart.
func (s *Surface) FrameSize(gtx layout.Context) (width, height int) {
	s.scale = gtx.Metric.PxPerDp
	if !(s.scale > 0) {
		s.scale = 1
	}
	return int(float32(gtx.Constraints.Max.X) / s.scale), int(float32(gtx.Constraints.Max.Y) / s.scale)
}

// Begin binds the surface to a frame and returns the drawable size in Dp.
// Every Begin must be paired with End.
func (s *Surface) Begin(gtx layout.Context) (width, height int) {
	s.size.X, s.size.Y = s.FrameSize(gtx)
	s.ops = gtx.Ops
	s.transform = op.Affine(f32.Affine2D{}.Scale(f32.Point{}, f32.Pt(s.scale, s.scale))).Push(gtx.Ops)
	return s.size.X, s.size.Y
}

// End unbinds the surface from the frame.
func (s *Surface) End() {
	if s.ops == nil {
		return
	}
	s.transform.Pop()
	s.ops = nil
}

// ToChart converts a pointer position in pixels to chart coordinates.
func (s *Surface) ToChart(p f32.Point) (x, y float64) {
	return float64(p.X / s.scale), float64(p.Y / s.scale)
}

func (s *Surface) context(ops *op.Ops) layout.Context {
	return layout.Context{
		Ops:         ops,
		Metric:      unitMetric,
		Constraints: layout.Constraints{Max: image.Pt(math.MaxInt32, math.MaxInt32)},
	}
}

func (s *Surface) label(gtx layout.Context, str string, f chart.Font, c color.NRGBA) layout.Dimensions {
	m := op.Record(gtx.Ops)
	paint.ColorOp{Color: c}.Add(gtx.Ops)
	material := m.Stop()
	fnt := font.Font{}
	if f.Bold {
		fnt.Weight = font.Bold
	}
	return widget.Label{MaxLines: 1}.Layout(gtx, s.shaper, fnt, unit.Sp(f.Size), str, material)
}

func (s *Surface) MeasureText(str string, f chart.Font) (chart.TextMetrics, error) {
	if s.shaper == nil {
		return chart.TextMetrics{}, chart.ErrNoMeasurer
	}
	key := measureKey{text: str, size: f.Size, bold: f.Bold}
	if tm, ok := s.metrics.Get(key); ok {
		return tm, nil
	}
	s.measureOps.Reset()
	dims := s.label(s.context(&s.measureOps), str, f, color.NRGBA{})
	tm := chart.TextMetrics{
		Width:   float64(dims.Size.X),
		Ascent:  float64(dims.Size.Y - dims.Baseline),
		Descent: float64(dims.Baseline),
	}
	s.metrics.Add(key, tm)
	return tm, nil
}

func (s *Surface) BeginPath()          { s.path.Reset() }
func (s *Surface) MoveTo(x, y float64) { s.path.MoveTo(x, y) }
func (s *Surface) LineTo(x, y float64) { s.path.LineTo(x, y) }
func (s *Surface) ClosePath()          { s.path.ClosePath() }

func (s *Surface) QuadTo(cx, cy, x, y float64) {
	s.path.QuadTo(cx, cy, x, y)
}

func (s *Surface) Arc(cx, cy, r, start, end float64, ccw bool) {
	s.path.Arc(cx, cy, r, start, end, ccw)
}

func pt(p chart.Point) f32.Point {
	return f32.Pt(float32(p.X), float32(p.Y))
}

// outline builds a clip path from polylines. Closed polylines are closed
// in the path; close forces every polyline shut, as filling requires.
func (s *Surface) outline(lines []chart.Polyline, close bool) clip.PathSpec {
	var p clip.Path
	p.Begin(s.ops)
	for _, pl := range lines {
		if len(pl.Points) < 2 {
			continue
		}
		p.MoveTo(pt(pl.Points[0]))
		for _, q := range pl.Points[1:] {
			p.LineTo(pt(q))
		}
		if close || pl.Closed {
			p.Close()
		}
	}
	return p.End()
}

func (s *Surface) paint(p chart.Paint) {
	if g := p.Gradient; g != nil {
		paint.LinearGradientOp{
			Stop1:  f32.Pt(float32(g.X0), float32(g.Y0)),
			Color1: g.From,
			Stop2:  f32.Pt(float32(g.X1), float32(g.Y1)),
			Color2: g.To,
		}.Add(s.ops)
	} else {
		paint.ColorOp{Color: p.Color}.Add(s.ops)
	}
	paint.PaintOp{}.Add(s.ops)
}

func (s *Surface) Fill(p chart.Paint) {
	if s.ops == nil {
		return
	}
	s.fill(s.path.Flatten(), p)
}

func (s *Surface) fill(lines []chart.Polyline, p chart.Paint) {
	if len(lines) == 0 {
		return
	}
	stack := clip.Outline{Path: s.outline(lines, true)}.Op().Push(s.ops)
	s.paint(p)
	stack.Pop()
}

func (s *Surface) Stroke(p chart.Paint, style chart.StrokeStyle) {
	if s.ops == nil || !(style.Width > 0) {
		return
	}
	var runs []chart.Polyline
	for _, pl := range s.path.Flatten() {
		runs = append(runs, chart.Dash(pl, style.Dash)...)
	}
	if len(runs) == 0 {
		return
	}
	stack := clip.Stroke{Path: s.outline(runs, false), Width: float32(style.Width)}.Op().Push(s.ops)
	s.paint(p)
	stack.Pop()
}

func (s *Surface) FillRect(r chart.Rect, c color.NRGBA) {
	if s.ops == nil || r.Empty() {
		return
	}
	s.fill([]chart.Polyline{{
		Points: []chart.Point{
			{X: r.X, Y: r.Y},
			{X: r.X + r.Width, Y: r.Y},
			{X: r.X + r.Width, Y: r.Y + r.Height},
			{X: r.X, Y: r.Y + r.Height},
		},
		Closed: true,
	}}, chart.Paint{Color: c})
}

func (s *Surface) FillText(str string, x, y float64, f chart.Font, c color.NRGBA, anchor chart.TextAnchor) {
	if s.ops == nil || str == "" {
		return
	}
	gtx := s.context(s.ops)
	m := op.Record(s.ops)
	dims := s.label(gtx, str, f, c)
	call := m.Stop()
	switch anchor {
	case chart.AnchorMiddle:
		x -= float64(dims.Size.X) / 2
	case chart.AnchorEnd:
		x -= float64(dims.Size.X)
	}
	y -= float64(dims.Size.Y) / 2
	defer op.Affine(f32.Affine2D{}.Offset(f32.Pt(float32(x), float32(y)))).Push(s.ops).Pop()
	call.Add(s.ops)
}

// Clear paints c over the whole frame. Gio frames start empty, so a
// transparent clear draws nothing.
func (s *Surface) Clear(c color.NRGBA) {
	if s.ops == nil || c.A == 0 {
		return
	}
	paint.FillShape(s.ops, c, clip.Rect{Max: s.size}.Op())
}
