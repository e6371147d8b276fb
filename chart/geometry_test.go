package chart

import (
	"math"
	"testing"
)

func TestChartAreaNeverNegative(t *testing.T) {
	labels := []string{"January", "February", "March"}
	data := []float64{3, -4, 5}
	for _, kind := range Kinds() {
		for _, size := range [][2]float64{{1, 1}, {10, 5}, {60, 40}, {640, 480}} {
			s := scene(kind, labels, data, size[0], size[1])
			s.Options.Plugins.Title.Display = true
			s.Options.Plugins.Title.Text = "Quarterly results"
			for _, pos := range []Position{PositionTop, PositionBottom, PositionLeft, PositionRight} {
				s.Options.Plugins.Legend.Position = pos
				l, err := s.MeasureLayout(&fakeSurface{})
				if err != nil {
					t.Fatalf("expected measurement to succeed, got: %v", err)
				}
				a := s.ComputeArea(l)
				if a.Width < 0 || a.Height < 0 || math.IsNaN(a.Width) || math.IsNaN(a.Height) {
					t.Errorf("%v %vx%v legend %s: expected a non-negative area, got %+v", kind, size[0], size[1], pos, a)
				}
			}
		}
	}
}

func TestLinearScale(t *testing.T) {
	if r := (LinearScale{Min: 5, Max: 5}).Range(); r != 1 {
		t.Errorf("expected a degenerate scale to fall back to range 1, got %v", r)
	}
	l := LinearScale{Min: -10, Max: 10}
	if b := l.Baseline(); b != 0 {
		t.Errorf("expected baseline 0, got %v", b)
	}
	if b := (LinearScale{Min: 5, Max: 10}).Baseline(); b != 5 {
		t.Errorf("expected baseline clamped to 5, got %v", b)
	}
	area := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	if y := l.Y(area, 10); y != 0 {
		t.Errorf("expected the max at the top, got %v", y)
	}
	if x := l.X(area, 0); x != 50 {
		t.Errorf("expected zero in the middle, got %v", x)
	}
	ticks := l.Ticks(6)
	if len(ticks) != 6 || ticks[0] != -10 || ticks[5] != 10 {
		t.Errorf("expected six ticks from -10 to 10, got %v", ticks)
	}
}

func TestValueScale(t *testing.T) {
	s := scene(Line, nil, []float64{3, 5}, 100, 100)
	if sc := s.ValueScale(); sc.Min != 0 || sc.Max != 5 {
		t.Errorf("expected 0..5 with beginAtZero, got %v..%v", sc.Min, sc.Max)
	}
	s.Options.Scales.Y.BeginAtZero = false
	if sc := s.ValueScale(); sc.Min != 3 || sc.Max != 5 {
		t.Errorf("expected 3..5 without beginAtZero, got %v..%v", sc.Min, sc.Max)
	}
	neg := scene(Bar, []string{"a", "b"}, []float64{-4, 6}, 100, 100)
	if sc := neg.ValueScale(); sc.Min != -4 || sc.Max != 6 {
		t.Errorf("expected beginAtZero to keep negative values in range, got %v..%v", sc.Min, sc.Max)
	}
	area := Rect{Width: 100, Height: 100}
	for i, r := range neg.BarRects(area, 1) {
		if r.Y < area.Y || r.Y+r.Height > area.Y+area.Height+1e-9 {
			t.Errorf("expected bar %d inside the area, got %+v", i, r)
		}
	}
}

func TestBarRects(t *testing.T) {
	area := Rect{X: 0, Y: 0, Width: 100, Height: 100}
	s := scene(Bar, []string{"a", "b"}, []float64{10, 20}, 100, 100)
	rects := s.BarRects(area, 1)
	expected := []Rect{
		{X: 7.5, Y: 50, Width: 35, Height: 50},
		{X: 57.5, Y: 0, Width: 35, Height: 100},
	}
	for i, r := range rects {
		if !near(r.X, expected[i].X) || !near(r.Y, expected[i].Y) || !near(r.Width, expected[i].Width) || !near(r.Height, expected[i].Height) {
			t.Errorf("bar %d: expected %+v, got %+v", i, expected[i], r)
		}
	}
	for i, r := range s.BarRects(area, 0) {
		if r.Height != 0 {
			t.Errorf("bar %d: expected no height at progress 0, got %v", i, r.Height)
		}
	}

	neg := scene(Bar, []string{"a", "b"}, []float64{-10, 10}, 100, 100)
	r := neg.BarRects(area, 1)[0]
	if !near(r.Y, 50) || !near(r.Height, 50) {
		t.Errorf("expected a negative bar to hang below the baseline, got %+v", r)
	}
}

func TestSlicesCoverCircle(t *testing.T) {
	s := scene(Pie, nil, []float64{1, 2, 0, 3}, 200, 200)
	sl := s.Slices(Rect{Width: 200, Height: 200}, 1)
	if !near(sl[0].Start, -math.Pi/2) {
		t.Errorf("expected the first slice at 12 o'clock, got %v", sl[0].Start)
	}
	if !near(sl[3].End, 3*math.Pi/2) {
		t.Errorf("expected the slices to close the circle, got %v", sl[3].End)
	}
	if sl[2].End != sl[2].Start {
		t.Errorf("expected a zero value to get an empty slice")
	}
	outer, inner := s.PieRadii(Rect{Width: 200, Height: 200})
	if outer != 88 || inner != 0 {
		t.Errorf("expected radii 88/0, got %v/%v", outer, inner)
	}
}
