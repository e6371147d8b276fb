// Package software implements chart.Surface on an in-memory RGBA image so
// charts can be rendered without a window.
package software

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/vector"

	"git.sr.ht/~whereswaldon/chartmaster/chart"
)

// Surface paints into an *image.RGBA. Fills and strokes are antialiased by
// a coverage rasterizer.
type Surface struct {
	img   *image.RGBA
	path  chart.Path
	rast  *vector.Rasterizer
	fonts *Fonts
}

var _ chart.Surface = (*Surface)(nil)

// New creates a transparent surface of width×height pixels.
func New(width, height int, fonts *Fonts) (*Surface, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid surface size %dx%d", width, height)
	}
	if fonts == nil {
		var err error
		if fonts, err = NewFonts(); err != nil {
			return nil, err
		}
	}
	return &Surface{
		img:   image.NewRGBA(image.Rect(0, 0, width, height)),
		rast:  vector.NewRasterizer(width, height),
		fonts: fonts,
	}, nil
}

// Image returns the backing image. It is reused by later drawing.
func (s *Surface) Image() *image.RGBA {
	return s.img
}

// Resize replaces the backing image with a transparent one of the new size.
func (s *Surface) Resize(width, height int) {
	if width < 1 || height < 1 {
		return
	}
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
	s.rast.Reset(width, height)
}

// WritePNG encodes the current image.
func (s *Surface) WritePNG(w io.Writer) error {
	if err := png.Encode(w, s.img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

func (s *Surface) MeasureText(str string, f chart.Font) (chart.TextMetrics, error) {
	return s.fonts.Measure(str, f)
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

// Fill fills every subpath of the current path, closing open ones.
func (s *Surface) Fill(p chart.Paint) {
	s.resetRasterizer()
	drawn := false
	for _, pl := range s.path.Flatten() {
		if len(pl.Points) < 3 {
			continue
		}
		s.polygon(pl.Points)
		drawn = true
	}
	if drawn {
		s.rasterize(p)
	}
}

// Stroke outlines the current path. Segments are widened into quads and
// joined with round caps.
func (s *Surface) Stroke(p chart.Paint, style chart.StrokeStyle) {
	hw := style.Width / 2
	if !(hw > 0) {
		return
	}
	s.resetRasterizer()
	drawn := false
	for _, pl := range s.path.Flatten() {
		for _, run := range chart.Dash(pl, style.Dash) {
			pts := run.Points
			if run.Closed && len(pts) > 1 {
				pts = append(pts[:len(pts):len(pts)], pts[0])
			}
			for i := 1; i < len(pts); i++ {
				if s.segment(pts[i-1], pts[i], hw) {
					drawn = true
				}
			}
			for _, pt := range pts {
				s.disc(pt, hw)
			}
		}
	}
	if drawn {
		s.rasterize(p)
	}
}

// FillRect fills r with c.
func (s *Surface) FillRect(r chart.Rect, c color.NRGBA) {
	if r.Empty() {
		return
	}
	s.resetRasterizer()
	s.polygon([]chart.Point{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	})
	s.rasterize(chart.Paint{Color: c})
}

func (s *Surface) FillText(str string, x, y float64, f chart.Font, c color.NRGBA, anchor chart.TextAnchor) {
	s.fonts.Draw(s.img, str, x, y, f, c, anchor)
}

// Clear overwrites every pixel with c.
func (s *Surface) Clear(c color.NRGBA) {
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (s *Surface) resetRasterizer() {
	b := s.img.Bounds()
	s.rast.Reset(b.Dx(), b.Dy())
	s.rast.DrawOp = draw.Over
}

func (s *Surface) polygon(pts []chart.Point) {
	s.rast.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, pt := range pts[1:] {
		s.rast.LineTo(float32(pt.X), float32(pt.Y))
	}
	s.rast.ClosePath()
}

// segment adds the quad covering a→b widened by hw on both sides. All quads
// and discs share one winding so overlaps accumulate instead of cancelling.
func (s *Surface) segment(a, b chart.Point, hw float64) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return false
	}
	nx, ny := -dy/l*hw, dx/l*hw
	s.polygon([]chart.Point{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	})
	return true
}

const discSegments = 12

func (s *Surface) disc(c chart.Point, r float64) {
	pts := make([]chart.Point, discSegments)
	for i := range pts {
		a := -2 * math.Pi * float64(i) / discSegments
		pts[i] = chart.Point{X: c.X + math.Cos(a)*r, Y: c.Y + math.Sin(a)*r}
	}
	s.polygon(pts)
}

func (s *Surface) rasterize(p chart.Paint) {
	var src image.Image = image.NewUniform(p.Color)
	if p.Gradient != nil {
		src = gradientImage{*p.Gradient}
	}
	s.rast.Draw(s.img, s.img.Bounds(), src, image.Point{})
}

// gradientImage is an unbounded image shading a linear gradient.
type gradientImage struct {
	g chart.LinearGradient
}

func (gradientImage) ColorModel() color.Model {
	return color.NRGBAModel
}

func (gradientImage) Bounds() image.Rectangle {
	return image.Rect(-1<<24, -1<<24, 1<<24, 1<<24)
}

func (gi gradientImage) At(x, y int) color.Color {
	g := gi.g
	dx, dy := g.X1-g.X0, g.Y1-g.Y0
	l2 := dx*dx + dy*dy
	t := 0.0
	if l2 > 0 {
		t = ((float64(x)+0.5-g.X0)*dx + (float64(y)+0.5-g.Y0)*dy) / l2
	}
	return lerp(g.From, g.To, min(max(t, 0), 1))
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
