package software

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"git.sr.ht/~whereswaldon/chartmaster/chart"
	"git.sr.ht/~whereswaldon/chartmaster/internal/logging"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.NRGBA{R: 255, A: 255}
	blue  = color.NRGBA{B: 255, A: 255}
)

func newSurface(t *testing.T, w, h int) *Surface {
	t.Helper()
	s, err := New(w, h, nil)
	if err != nil {
		t.Fatalf("expected surface, got: %v", err)
	}
	s.Clear(white)
	return s
}

func rgba(s *Surface, x, y int) color.RGBA {
	return s.Image().RGBAAt(x, y)
}

func TestNewRejectsEmptySize(t *testing.T) {
	if _, err := New(0, 10, nil); err == nil {
		t.Errorf("expected an error for an empty surface")
	}
}

func TestFillPaintsInside(t *testing.T) {
	s := newSurface(t, 40, 40)
	s.BeginPath()
	s.MoveTo(10, 10)
	s.LineTo(30, 10)
	s.LineTo(30, 30)
	s.LineTo(10, 30)
	s.ClosePath()
	s.Fill(chart.Paint{Color: red})

	if got := rgba(s, 20, 20); got != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("expected red inside, got %v", got)
	}
	if got := rgba(s, 5, 5); got != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("expected white outside, got %v", got)
	}
}

func TestFillArc(t *testing.T) {
	s := newSurface(t, 40, 40)
	s.BeginPath()
	s.Arc(20, 20, 10, 0, 6.2832, false)
	s.Fill(chart.Paint{Color: blue})
	if got := rgba(s, 20, 20); got.B != 255 || got.R != 0 {
		t.Errorf("expected blue at the center, got %v", got)
	}
	if got := rgba(s, 1, 1); got.R != 255 {
		t.Errorf("expected the corner untouched, got %v", got)
	}
}

func TestStrokeAndDash(t *testing.T) {
	for _, tc := range []struct {
		name     string
		dash     []float64
		expected bool
	}{
		{"solid", nil, true},
		// The probe sits in the first gap of the pattern.
		{"dashed", []float64{4, 8}, false},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := newSurface(t, 40, 20)
			s.BeginPath()
			s.MoveTo(0, 10)
			s.LineTo(40, 10)
			s.Stroke(chart.Paint{Color: red}, chart.StrokeStyle{Width: 4, Dash: tc.dash})
			painted := rgba(s, 8, 10).G < 128
			if painted != tc.expected {
				t.Errorf("expected painted=%v at x=8, got %v", tc.expected, rgba(s, 8, 10))
			}
			if got := rgba(s, 1, 10); got.G > 128 {
				t.Errorf("expected the start of the line to be painted, got %v", got)
			}
			if got := rgba(s, 20, 2); got.G != 255 {
				t.Errorf("expected nothing far from the line, got %v", got)
			}
		})
	}
}

func TestGradientFill(t *testing.T) {
	s := newSurface(t, 100, 10)
	s.BeginPath()
	s.MoveTo(0, 0)
	s.LineTo(100, 0)
	s.LineTo(100, 10)
	s.LineTo(0, 10)
	s.ClosePath()
	s.Fill(chart.Paint{Gradient: &chart.LinearGradient{X0: 0, Y0: 0, X1: 100, Y1: 0, From: red, To: blue}})

	left, right := rgba(s, 0, 5), rgba(s, 99, 5)
	if left.R < 240 || left.B > 15 {
		t.Errorf("expected red on the left, got %v", left)
	}
	if right.B < 240 || right.R > 15 {
		t.Errorf("expected blue on the right, got %v", right)
	}
	mid := rgba(s, 50, 5)
	if mid.R < 100 || mid.B < 100 {
		t.Errorf("expected a blend in the middle, got %v", mid)
	}
}

func TestFillRectBlends(t *testing.T) {
	s := newSurface(t, 10, 10)
	s.FillRect(chart.Rect{X: 0, Y: 0, Width: 10, Height: 10}, color.NRGBA{A: 128})
	if got := rgba(s, 5, 5); got.R < 120 || got.R > 135 {
		t.Errorf("expected half-transparent black over white to be grey, got %v", got)
	}
	s.FillRect(chart.Rect{Width: 0, Height: 10}, red)
}

func TestMeasureText(t *testing.T) {
	for _, fonts := range []*Fonts{mustFonts(t), BitmapFonts()} {
		s, err := New(10, 10, fonts)
		if err != nil {
			t.Fatalf("expected surface, got: %v", err)
		}
		short, err := s.MeasureText("ab", chart.Font{Size: 12})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		long, _ := s.MeasureText("abcdef", chart.Font{Size: 12})
		if !(short.Width > 0 && long.Width > short.Width) {
			t.Errorf("expected width to grow with text, got %v then %v", short.Width, long.Width)
		}
		if short.Height() <= 0 {
			t.Errorf("expected a positive line height, got %v", short.Height())
		}
	}
	fonts := mustFonts(t)
	small, _ := fonts.Measure("Revenue", chart.Font{Size: 10})
	big, _ := fonts.Measure("Revenue", chart.Font{Size: 20})
	if big.Width <= small.Width {
		t.Errorf("expected larger text to be wider, got %v and %v", small.Width, big.Width)
	}
}

func TestFillTextAnchors(t *testing.T) {
	fonts := mustFonts(t)
	for _, tc := range []struct {
		anchor chart.TextAnchor
		left   bool
	}{
		{chart.AnchorStart, false},
		{chart.AnchorEnd, true},
	} {
		s, _ := New(100, 30, fonts)
		s.Clear(white)
		s.FillText("WWWW", 50, 15, chart.Font{Size: 16}, color.NRGBA{A: 255}, tc.anchor)
		if got := inked(s, image.Rect(0, 0, 48, 30)); got != tc.left {
			t.Errorf("anchor %v: expected ink left of x=50 to be %v", tc.anchor, tc.left)
		}
		if got := inked(s, image.Rect(52, 0, 100, 30)); got == tc.left {
			t.Errorf("anchor %v: expected ink right of x=50 to be %v", tc.anchor, !tc.left)
		}
	}
}

func TestRenderChart(t *testing.T) {
	s := newSurface(t, 320, 240)
	spec := chart.Spec{
		Kind:     chart.Bar,
		Labels:   []string{"Q1", "Q2", "Q3"},
		Datasets: []chart.Dataset{{Data: []float64{3, 7, 5}}},
	}
	c, err := chart.New(spec, s, 320, 240, chart.WithLogger(logging.Discard()))
	if err != nil {
		t.Fatalf("expected chart, got: %v", err)
	}
	bar := c.Scene().BarRects(c.Area(), 1)[1].Center()
	if got := rgba(s, int(bar.X), int(bar.Y)); got == (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("expected the tallest bar to be painted at %v", bar)
	}

	buf := &bytes.Buffer{}
	if err := s.WritePNG(buf); err != nil {
		t.Fatalf("expected png, got: %v", err)
	}
	img, err := png.Decode(buf)
	if err != nil {
		t.Fatalf("expected a decodable png, got: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Errorf("expected 320x240, got %v", img.Bounds())
	}
}

func mustFonts(t *testing.T) *Fonts {
	t.Helper()
	f, err := NewFonts()
	if err != nil {
		t.Fatalf("expected fonts, got: %v", err)
	}
	return f
}

func inked(s *Surface, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if rgba(s, x, y).R < 128 {
				return true
			}
		}
	}
	return false
}
