package chart

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/felixgeelhaar/statekit"

	"git.sr.ht/~whereswaldon/chartmaster/internal/logging"
)

// Scheduler runs callbacks on the host's frame loop. RequestFrame schedules
// fn for the next frame and returns a function that cancels it.
type Scheduler interface {
	RequestFrame(fn func(now time.Time)) (cancel func())
}

// FrameScheduler is a Scheduler for hosts that drive rendering themselves:
// it keeps at most one pending callback and runs it from RunFrame.
type FrameScheduler struct {
	// Invalidate, if set, is called whenever a frame is requested so that the
	// host knows to render another frame.
	Invalidate func()

	pending func(time.Time)
	seq     uint64
}

var _ Scheduler = (*FrameScheduler)(nil)

func (f *FrameScheduler) RequestFrame(fn func(time.Time)) func() {
	f.seq++
	id := f.seq
	f.pending = fn
	if f.Invalidate != nil {
		f.Invalidate()
	}
	return func() {
		if f.seq == id {
			f.pending = nil
		}
	}
}

// Pending reports whether a frame callback is waiting.
func (f *FrameScheduler) Pending() bool {
	return f.pending != nil
}

// RunFrame invokes the pending callback, if any, and reports whether it did.
func (f *FrameScheduler) RunFrame(now time.Time) bool {
	fn := f.pending
	f.pending = nil
	if fn == nil {
		return false
	}
	fn(now)
	return true
}

const (
	stateIdle      statekit.StateID = "idle"
	stateAnimating statekit.StateID = "animating"

	eventStart  = "START"
	eventFinish = "FINISH"
	eventStop   = "STOP"
)

// Driver runs the entrance animation. It moves from idle to animating on
// Start and back to idle once the duration has elapsed or it is stopped.
type Driver struct {
	interp   *statekit.Interpreter[*Driver]
	sched    Scheduler
	redraw   func(progress float64)
	log      *bolt.Logger
	duration time.Duration
	easing   EasingFunc
	started  time.Time
	progress float64
	cancel   func()
}

func newAnimationMachine(d *Driver) (*statekit.MachineConfig[*Driver], error) {
	return statekit.NewMachine[*Driver]("animation").
		WithInitial(stateIdle).
		WithContext(d).
		WithAction("begin", beginAnimation).
		WithAction("settle", settleAnimation).
		WithAction("abort", abortAnimation).
		State(stateIdle).
			On(eventStart).Target(stateAnimating).Do("begin").
			Done().
		State(stateAnimating).
			On(eventFinish).Target(stateIdle).Do("settle").
			On(eventStop).Target(stateIdle).Do("abort").
			Done().
		Build()
}

func beginAnimation(ctx **Driver, e statekit.Event) {
	d := *ctx
	d.progress = 0
	if now, ok := e.Payload.(time.Time); ok {
		d.started = now
	}
	d.log.Debug().Int64("duration_ms", d.duration.Milliseconds()).Msg("animation started")
}

func settleAnimation(ctx **Driver, _ statekit.Event) {
	d := *ctx
	d.progress = 1
	d.log.Debug().Msg("animation settled")
}

func abortAnimation(ctx **Driver, _ statekit.Event) {
	(*ctx).log.Debug().Msg("animation stopped")
}

// NewDriver creates an idle driver that reports progress to redraw.
func NewDriver(sched Scheduler, redraw func(progress float64), log *bolt.Logger) (*Driver, error) {
	if log == nil {
		log = logging.Get()
	}
	d := &Driver{
		sched:    sched,
		redraw:   redraw,
		log:      log,
		easing:   Easing(defaultEasing),
		progress: 1,
	}
	machine, err := newAnimationMachine(d)
	if err != nil {
		return nil, fmt.Errorf("building animation machine: %w", err)
	}
	d.interp = statekit.NewInterpreter(machine)
	d.interp.UpdateContext(func(c **Driver) {
		*c = d
	})
	d.interp.Start()
	return d, nil
}

// Configure sets the duration and easing used by the next Start.
func (d *Driver) Configure(duration time.Duration, easing string) {
	d.duration = duration
	d.easing = Easing(easing)
}

// Animating reports whether an animation is in flight.
func (d *Driver) Animating() bool {
	return d.interp.Matches(stateAnimating)
}

// Progress is the most recent eased progress.
func (d *Driver) Progress() float64 {
	return d.progress
}

// Start restarts the animation from zero, cancelling any run in flight.
func (d *Driver) Start(now time.Time) {
	d.Stop()
	d.interp.Send(statekit.Event{Type: eventStart, Payload: now})
	if d.duration <= 0 || d.sched == nil {
		d.Tick(now)
		return
	}
	d.redraw(d.progress)
	d.schedule()
}

// Stop cancels the pending frame and returns to idle without drawing.
func (d *Driver) Stop() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.Animating() {
		d.interp.Send(statekit.Event{Type: eventStop})
	}
}

// Tick advances the animation to now. The final frame always draws at
// progress 1 regardless of the easing curve.
func (d *Driver) Tick(now time.Time) {
	if !d.Animating() {
		return
	}
	d.cancel = nil
	raw := 1.0
	if d.duration > 0 && d.sched != nil {
		raw = clamp(float64(now.Sub(d.started))/float64(d.duration), 0, 1)
	}
	if raw >= 1 {
		d.interp.Send(statekit.Event{Type: eventFinish})
		d.redraw(d.progress)
		return
	}
	d.progress = finite(d.easing(raw), raw)
	d.redraw(d.progress)
	d.schedule()
}

func (d *Driver) schedule() {
	if d.sched == nil {
		return
	}
	d.cancel = d.sched.RequestFrame(d.Tick)
}

// Close stops the driver and its state machine.
func (d *Driver) Close() {
	d.Stop()
	d.interp.Stop()
}
