package chart

import (
	"errors"
	"testing"
	"time"

	"git.sr.ht/~whereswaldon/chartmaster/internal/logging"
)

func barSpec() Spec {
	return Spec{
		Kind:     Bar,
		Labels:   []string{"a", "b"},
		Datasets: []Dataset{{Data: []float64{10, 20}}},
	}
}

func newTestChart(t *testing.T, spec Spec, opts ...Option) (*Chart, *fakeSurface) {
	t.Helper()
	surf := &fakeSurface{}
	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	c, err := New(spec, surf, 400, 300, opts...)
	if err != nil {
		t.Fatalf("expected chart, got: %v", err)
	}
	return c, surf
}

func TestNewRejectsBadConfiguration(t *testing.T) {
	for _, tc := range []struct {
		name    string
		spec    Spec
		surface Surface
		w, h    int
	}{
		{"no surface", barSpec(), nil, 100, 100},
		{"zero width", barSpec(), &fakeSurface{}, 0, 100},
		{"negative height", barSpec(), &fakeSurface{}, 100, -1},
		{"unknown kind", Spec{Kind: Kind(99), Datasets: []Dataset{{Data: []float64{1}}}}, &fakeSurface{}, 100, 100},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.spec, tc.surface, tc.w, tc.h, WithLogger(logging.Discard()))
			var cfg *ConfigurationError
			if !errors.As(err, &cfg) {
				t.Errorf("expected a ConfigurationError, got: %v", err)
			}
		})
	}
}

func TestNewToleratesBadData(t *testing.T) {
	c, surf := newTestChart(t, Spec{Kind: Pie, Labels: []string{"a", "b", "c"}})
	if c.Stats() != (Stats{}) {
		t.Errorf("expected zero stats without data, got %+v", c.Stats())
	}
	if surf.nonFinite != 0 {
		t.Errorf("expected only finite coordinates, got %d", surf.nonFinite)
	}
}

func TestEveryKindDrawsFiniteGeometry(t *testing.T) {
	for _, kind := range Kinds() {
		for _, size := range [][2]int{{1, 1}, {50, 30}, {640, 480}} {
			spec := Spec{
				Kind:     kind,
				Labels:   []string{"a", "b", "c"},
				Datasets: []Dataset{{Data: []float64{5, -2, 8}, IsTotal: []bool{false, false, true}}},
			}
			spec.Options.Plugins.Title.Display = ptr(true)
			spec.Options.Plugins.Title.Text = ptr("Title")
			surf := &fakeSurface{}
			c, err := New(spec, surf, size[0], size[1], WithLogger(logging.Discard()))
			if err != nil {
				t.Fatalf("%v: expected chart, got: %v", kind, err)
			}
			c.DrawAt(0.5)
			if surf.nonFinite != 0 {
				t.Errorf("%v at %v: expected only finite coordinates, got %d", kind, size, surf.nonFinite)
			}
			if size[0] == 640 && surf.fills == 0 {
				t.Errorf("%v at %v: expected something to be filled", kind, size)
			}
		}
	}
}

func TestChartAnimatesWithScheduler(t *testing.T) {
	t0 := time.Unix(5000, 0)
	sched := &FrameScheduler{}
	c, surf := newTestChart(t, barSpec(), WithScheduler(sched), WithClock(func() time.Time { return t0 }))
	if !c.Animating() {
		t.Fatalf("expected the entrance animation to run")
	}
	if c.Progress() != 0 {
		t.Errorf("expected progress 0 at the start, got %v", c.Progress())
	}
	sched.RunFrame(t0.Add(450 * time.Millisecond))
	if p := c.Progress(); p <= 0 || p >= 1 {
		t.Errorf("expected progress between 0 and 1, got %v", p)
	}
	sched.RunFrame(t0.Add(2 * time.Second))
	if c.Animating() || c.Progress() != 1 {
		t.Errorf("expected the animation to settle at 1, got %v", c.Progress())
	}
	if surf.clears < 3 {
		t.Errorf("expected a frame per tick, got %d", surf.clears)
	}
	c.Replay()
	if !c.Animating() {
		t.Errorf("expected replay to restart the animation")
	}
}

func TestChartWithoutSchedulerDrawsFinalFrame(t *testing.T) {
	c, surf := newTestChart(t, barSpec())
	if c.Animating() || c.Progress() != 1 {
		t.Errorf("expected the final frame immediately, got progress %v", c.Progress())
	}
	if surf.clears != 1 {
		t.Errorf("expected one frame, got %d", surf.clears)
	}
}

func TestChartUpdate(t *testing.T) {
	c, _ := newTestChart(t, barSpec())
	pie := Pie
	title := "Share"
	var ov Overrides
	ov.Plugins.Title.Display = ptr(true)
	ov.Plugins.Title.Text = &title
	bg := MustParseColor("#fafafa")
	c.Update(Patch{
		Kind:            &pie,
		Labels:          []string{"x", "y", "z"},
		Datasets:        []Dataset{{Data: []float64{1, 1, 2}}},
		BackgroundColor: &bg,
		Options:         &ov,
	})
	if c.Kind() != Pie {
		t.Errorf("expected pie, got %v", c.Kind())
	}
	if c.Options().Plugins.Title.Text != "Share" {
		t.Errorf("expected the new title, got %q", c.Options().Plugins.Title.Text)
	}
	if c.Options().BackgroundColor != bg {
		t.Errorf("expected the background to be kept, got %v", c.Options().BackgroundColor)
	}
	if c.Layout().TitleHeight == 0 {
		t.Errorf("expected the layout to be recomputed")
	}
	dp, ok := c.DataAtPoint(2)
	if !ok || dp.Percentage != "50.0" {
		t.Errorf("expected z to be half, got %+v", dp)
	}

	// Options are replaced, not accumulated.
	c.Update(Patch{Options: &Overrides{}})
	if c.Options().Plugins.Title.Display {
		t.Errorf("expected the title override to be dropped")
	}
	if c.Options().BackgroundColor != bg {
		t.Errorf("expected the background to survive an options update")
	}
}

func TestChartResizeIsThrottled(t *testing.T) {
	c, _ := newTestChart(t, barSpec())
	t0 := time.Unix(100, 0)
	if !c.Resize(500, 400, t0) {
		t.Fatalf("expected the first resize to apply")
	}
	if c.Resize(600, 400, t0.Add(100*time.Millisecond)) {
		t.Errorf("expected a resize within the interval to be dropped")
	}
	if w, _ := c.Size(); w != 500 {
		t.Errorf("expected width 500, got %d", w)
	}
	if !c.Resize(600, 400, t0.Add(300*time.Millisecond)) {
		t.Errorf("expected a resize after the interval to apply")
	}
	if a := c.Area(); a.X+a.Width > 600 {
		t.Errorf("expected the area to follow the new size, got %+v", a)
	}
	if c.Resize(0, 10, t0.Add(time.Second)) {
		t.Errorf("expected an empty size to be rejected")
	}
}

func TestSetBackgroundColor(t *testing.T) {
	c, surf := newTestChart(t, barSpec())
	bg := MustParseColor("#101010")
	c.SetBackgroundColor(bg)
	if surf.lastClear != bg.NRGBA() {
		t.Errorf("expected the surface to be cleared to %v, got %v", bg, surf.lastClear)
	}
}

func TestDestroyIsIdempotent(t *testing.T) {
	sched := &FrameScheduler{}
	hovers := 0
	c, surf := newTestChart(t, barSpec(), WithScheduler(sched), WithOnHover(func(PointerEvent, int, DataPoint, *Chart) { hovers++ }))
	c.Destroy()
	c.Destroy()
	if sched.Pending() {
		t.Errorf("expected the pending frame to be cancelled")
	}
	if c.Animating() {
		t.Errorf("expected no animation after destroy")
	}
	clears := surf.clears
	c.Draw()
	c.Replay()
	c.Update(Patch{Labels: []string{"z"}})
	if surf.clears != clears {
		t.Errorf("expected nothing to be drawn after destroy")
	}
	r := c.Scene().BarRects(c.Area(), 1)[0].Center()
	c.HandlePointer(PointerEvent{Kind: PointerMove, X: r.X, Y: r.Y, Time: time.Now()})
	if hovers != 0 {
		t.Errorf("expected callbacks to be dropped")
	}
	if got := c.Locate(r.X, r.Y); got != -1 {
		t.Errorf("expected locate to miss after destroy, got %d", got)
	}
}

func TestHoverFiresOnTransitions(t *testing.T) {
	var hovered []int
	c, surf := newTestChart(t, barSpec(), WithOnHover(func(_ PointerEvent, i int, _ DataPoint, _ *Chart) {
		hovered = append(hovered, i)
	}))
	rects := c.Scene().BarRects(c.Area(), 1)
	a, b := rects[0].Center(), rects[1].Center()
	t0 := time.Unix(200, 0)
	draws := surf.clears

	c.HandlePointer(PointerEvent{Kind: PointerMove, X: b.X, Y: b.Y, Time: t0})
	// Throttled: too soon after the previous move.
	c.HandlePointer(PointerEvent{Kind: PointerMove, X: a.X, Y: a.Y, Time: t0.Add(time.Millisecond)})
	c.HandlePointer(PointerEvent{Kind: PointerMove, X: a.X, Y: a.Y, Time: t0.Add(20 * time.Millisecond)})
	c.HandlePointer(PointerEvent{Kind: PointerMove, X: a.X + 1, Y: a.Y, Time: t0.Add(40 * time.Millisecond)})

	if len(hovered) != 2 || hovered[0] != 1 || hovered[1] != 0 {
		t.Errorf("expected hover transitions [1 0], got %v", hovered)
	}
	if surf.clears-draws != 2 {
		t.Errorf("expected a redraw per transition, got %d", surf.clears-draws)
	}
	text, at, ok := c.Tooltip()
	if !ok || text != "a: 10" {
		t.Errorf("expected tooltip %q, got %q (%v)", "a: 10", text, ok)
	}
	if at.X != a.X+1 {
		t.Errorf("expected the tooltip to follow the pointer, got %+v", at)
	}

	c.HandlePointer(PointerEvent{Kind: PointerLeave, Time: t0.Add(time.Second)})
	if c.HoveredIndex() != -1 {
		t.Errorf("expected leave to clear the hover, got %d", c.HoveredIndex())
	}
	if hovered[len(hovered)-1] != -1 {
		t.Errorf("expected a final hover callback with -1, got %v", hovered)
	}
	if _, _, ok := c.Tooltip(); ok {
		t.Errorf("expected no tooltip without a hovered element")
	}
}

func TestClickAndDetailedView(t *testing.T) {
	var clicks, details []int
	c, _ := newTestChart(t, barSpec(),
		WithOnClick(func(_ PointerEvent, i int, _ DataPoint, _ *Chart) { clicks = append(clicks, i) }),
		WithOnDetailedView(func(_ PointerEvent, i int, _ DataPoint, _ *Chart) { details = append(details, i) }),
	)
	b := c.Scene().BarRects(c.Area(), 1)[1].Center()
	t0 := time.Unix(300, 0)
	click := func(at time.Time) {
		c.HandlePointer(PointerEvent{Kind: PointerPress, X: b.X, Y: b.Y, Time: at})
		c.HandlePointer(PointerEvent{Kind: PointerRelease, X: b.X, Y: b.Y, Time: at.Add(50 * time.Millisecond)})
	}

	click(t0)
	if len(clicks) != 1 || clicks[0] != 1 {
		t.Errorf("expected a click on element 1, got %v", clicks)
	}
	if c.DetailIndex() != -1 {
		t.Errorf("expected a single click to leave the detailed view closed")
	}

	click(t0.Add(200 * time.Millisecond))
	if c.DetailIndex() != 1 {
		t.Fatalf("expected a double click to open the detailed view, got %d", c.DetailIndex())
	}
	d, ok := c.Detail()
	if !ok || d.Title != "b" || d.Rows[0] != (DetailRow{"Value", "20"}) {
		t.Errorf("expected details for b, got %+v", d)
	}

	click(t0.Add(2 * time.Second))
	click(t0.Add(2200 * time.Millisecond))
	if c.DetailIndex() != -1 {
		t.Errorf("expected a second double click to close the detailed view, got %d", c.DetailIndex())
	}
	if len(details) != 2 || details[0] != 1 || details[1] != -1 {
		t.Errorf("expected detail callbacks [1 -1], got %v", details)
	}
	if len(clicks) != 4 {
		t.Errorf("expected four clicks, got %d", len(clicks))
	}

	// Dragging away is not a click.
	c.HandlePointer(PointerEvent{Kind: PointerPress, X: b.X, Y: b.Y, Time: t0.Add(5 * time.Second)})
	c.HandlePointer(PointerEvent{Kind: PointerRelease, X: b.X + 50, Y: b.Y, Time: t0.Add(5100 * time.Millisecond)})
	if len(clicks) != 4 {
		t.Errorf("expected a drag not to click, got %d clicks", len(clicks))
	}
}

func TestLongPressOpensDetailedView(t *testing.T) {
	spec := barSpec()
	spec.Options.Plugins.DetailedView.Trigger = ptr(TriggerLongPress)
	c, _ := newTestChart(t, spec)
	b := c.Scene().BarRects(c.Area(), 1)[0].Center()
	t0 := time.Unix(400, 0)

	c.HandlePointer(PointerEvent{Kind: PointerPress, X: b.X, Y: b.Y, Time: t0, Touch: true})
	c.HandlePointer(PointerEvent{Kind: PointerRelease, X: b.X, Y: b.Y, Time: t0.Add(100 * time.Millisecond), Touch: true})
	if c.DetailIndex() != -1 {
		t.Errorf("expected a short tap not to open the detailed view")
	}
	c.HandlePointer(PointerEvent{Kind: PointerPress, X: b.X, Y: b.Y, Time: t0.Add(time.Second), Touch: true})
	c.HandlePointer(PointerEvent{Kind: PointerRelease, X: b.X, Y: b.Y, Time: t0.Add(1600 * time.Millisecond), Touch: true})
	if c.DetailIndex() != 0 {
		t.Errorf("expected a long press to open the detailed view, got %d", c.DetailIndex())
	}
	c.CloseDetail()
	if _, ok := c.Detail(); ok {
		t.Errorf("expected no details once closed")
	}
}

func TestUpdateResetsInteraction(t *testing.T) {
	c, _ := newTestChart(t, barSpec())
	b := c.Scene().BarRects(c.Area(), 1)[1].Center()
	c.HandlePointer(PointerEvent{Kind: PointerMove, X: b.X, Y: b.Y, Time: time.Unix(500, 0)})
	if c.HoveredIndex() != 1 {
		t.Fatalf("expected element 1 to be hovered, got %d", c.HoveredIndex())
	}
	line := Line
	c.Update(Patch{Kind: &line})
	if c.HoveredIndex() != -1 || c.DetailIndex() != -1 {
		t.Errorf("expected update to reset hover and details")
	}
}

func TestUpdateAndResizeInvalidateHits(t *testing.T) {
	c, _ := newTestChart(t, barSpec())
	bar := c.Scene().BarRects(c.Area(), 1)[0].Center()
	if got := c.Locate(bar.X, bar.Y); got != 0 {
		t.Fatalf("expected bar 0 at its center, got %d", got)
	}
	if c.locator.Cached() == 0 {
		t.Fatalf("expected the hit to be cached")
	}

	pie := Pie
	c.Update(Patch{Kind: &pie})
	if n := c.locator.Cached(); n != 0 {
		t.Errorf("expected update to purge the hit cache, got %d entries", n)
	}
	if got, fresh := c.Locate(bar.X, bar.Y), c.Scene().HitTest(c.Area(), bar.X, bar.Y); got != fresh {
		t.Errorf("expected the pie hit %d, got stale %d", fresh, got)
	}
	// Slice b sweeps the last two thirds of the circle, including the lower left.
	center := c.Area().Center()
	if got := c.Locate(center.X-10, center.Y+10); got != 1 {
		t.Errorf("expected slice 1 lower left of the center, got %d", got)
	}

	if !c.Resize(500, 400, time.Now()) {
		t.Fatalf("expected the first resize to be accepted")
	}
	if n := c.locator.Cached(); n != 0 {
		t.Errorf("expected resize to purge the hit cache, got %d entries", n)
	}
	center = c.Area().Center()
	if got := c.Locate(center.X-10, center.Y+10); got != 1 {
		t.Errorf("expected slice 1 after resizing, got %d", got)
	}
}
