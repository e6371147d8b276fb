package chart

import (
	"testing"
	"time"

	"git.sr.ht/~whereswaldon/chartmaster/internal/logging"
)

func TestAnimationConverges(t *testing.T) {
	t0 := time.Unix(1000, 0)
	for _, easing := range EasingNames() {
		t.Run(easing, func(t *testing.T) {
			sched := &FrameScheduler{}
			var frames []float64
			d, err := NewDriver(sched, func(p float64) { frames = append(frames, p) }, logging.Discard())
			if err != nil {
				t.Fatalf("expected driver, got: %v", err)
			}
			defer d.Close()
			d.Configure(100*time.Millisecond, easing)
			d.Start(t0)
			if !d.Animating() {
				t.Fatalf("expected the driver to be animating after start")
			}
			if !sched.Pending() {
				t.Fatalf("expected a frame to be requested")
			}
			for _, ms := range []int{16, 33, 50, 90} {
				sched.RunFrame(t0.Add(time.Duration(ms) * time.Millisecond))
				if !d.Animating() {
					t.Fatalf("expected the driver to still animate at %dms", ms)
				}
			}
			sched.RunFrame(t0.Add(150 * time.Millisecond))
			if d.Animating() {
				t.Errorf("expected the driver to be idle after the duration")
			}
			if last := frames[len(frames)-1]; last != 1 {
				t.Errorf("expected the final frame at exactly 1, got %v", last)
			}
			if d.Progress() != 1 {
				t.Errorf("expected progress 1, got %v", d.Progress())
			}
			if sched.Pending() {
				t.Errorf("expected no frames after settling")
			}
		})
	}
}

func TestAnimationImmediate(t *testing.T) {
	for _, tc := range []struct {
		name     string
		sched    Scheduler
		duration time.Duration
	}{
		{"zero duration", &FrameScheduler{}, 0},
		{"negative duration", &FrameScheduler{}, -time.Second},
		{"no scheduler", nil, time.Second},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var frames []float64
			d, err := NewDriver(tc.sched, func(p float64) { frames = append(frames, p) }, logging.Discard())
			if err != nil {
				t.Fatalf("expected driver, got: %v", err)
			}
			d.Configure(tc.duration, "linear")
			d.Start(time.Now())
			if d.Animating() {
				t.Errorf("expected the animation to finish immediately")
			}
			if len(frames) != 1 || frames[0] != 1 {
				t.Errorf("expected a single final frame, got %v", frames)
			}
		})
	}
}

func TestAnimationStop(t *testing.T) {
	sched := &FrameScheduler{}
	redraws := 0
	d, err := NewDriver(sched, func(float64) { redraws++ }, logging.Discard())
	if err != nil {
		t.Fatalf("expected driver, got: %v", err)
	}
	d.Configure(time.Second, "linear")
	now := time.Now()
	d.Start(now)
	before := redraws
	d.Stop()
	if d.Animating() {
		t.Errorf("expected stop to return to idle")
	}
	if sched.RunFrame(now.Add(time.Second)) {
		t.Errorf("expected the pending frame to be cancelled")
	}
	if redraws != before {
		t.Errorf("expected stop not to draw, got %d extra redraws", redraws-before)
	}
	d.Start(now)
	if !d.Animating() || d.Progress() != 0 {
		t.Errorf("expected a restart from zero, got progress %v", d.Progress())
	}
}

func TestEasing(t *testing.T) {
	for _, name := range EasingNames() {
		f := Easing(name)
		if got := f(0); !near(got, 0) {
			t.Errorf("%s: expected 0 at the start, got %v", name, got)
		}
		if got := f(1); !near(got, 1) {
			t.Errorf("%s: expected 1 at the end, got %v", name, got)
		}
	}
	if Easing("bogus")(0.3) != Easing("easeOutQuart")(0.3) {
		t.Errorf("expected unknown easings to fall back to easeOutQuart")
	}
}
