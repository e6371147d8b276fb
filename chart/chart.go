// Package chart lays out, animates, paints and hit-tests charts onto an
// abstract 2D Surface.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"git.sr.ht/~whereswaldon/chartmaster/internal/logging"
)

// Chart is a live chart bound to a surface. It is not safe for concurrent
// use; drive it from the goroutine that owns the surface.
type Chart struct {
	kind       Kind
	labels     []string
	datasets   []Dataset
	overrides  Overrides
	background *Color

	opts    Options
	scene   Scene
	layout  Layout
	area    Rect
	surface Surface
	width   int
	height  int

	sched    Scheduler
	clock    func() time.Time
	log      *bolt.Logger
	onClick  Callback
	onHover  Callback
	onDetail Callback
	format   DetailFormatter

	locator     *Locator
	anim        *Driver
	moveLimit   *Throttle
	resizeLimit *Throttle
	gesture     gesture
	pointer     Point
	hovered     int
	detail      int
	destroyed   bool
}

// Option configures a Chart at construction.
type Option func(*Chart)

// WithScheduler drives the entrance animation from the host's frame loop.
// Without a scheduler charts draw their final frame immediately.
func WithScheduler(s Scheduler) Option {
	return func(c *Chart) { c.sched = s }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Chart) { c.clock = now }
}

func WithLogger(l *bolt.Logger) Option {
	return func(c *Chart) { c.log = l }
}

// WithOnClick is called when an element is clicked.
func WithOnClick(cb Callback) Option {
	return func(c *Chart) { c.onClick = cb }
}

// WithOnHover is called whenever the hovered element changes.
func WithOnHover(cb Callback) Option {
	return func(c *Chart) { c.onHover = cb }
}

// WithOnDetailedView is called when the detailed view opens or closes.
func WithOnDetailedView(cb Callback) Option {
	return func(c *Chart) { c.onDetail = cb }
}

// WithDetailFormatter replaces DefaultDetail.
func WithDetailFormatter(f DetailFormatter) Option {
	return func(c *Chart) { c.format = f }
}

// New creates a chart of spec drawn onto surface at width×height pixels and
// starts its entrance animation.
func New(spec Spec, surface Surface, width, height int, opts ...Option) (*Chart, error) {
	if surface == nil {
		return nil, &ConfigurationError{Reason: "no surface"}
	}
	if width < 1 || height < 1 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("invalid size %dx%d", width, height)}
	}
	c := &Chart{
		kind:        spec.Kind,
		labels:      spec.Labels,
		datasets:    spec.Datasets,
		overrides:   spec.Options,
		surface:     surface,
		width:       width,
		height:      height,
		clock:       time.Now,
		format:      DefaultDetail,
		locator:     NewLocator(),
		moveLimit:   NewThrottle(moveInterval),
		resizeLimit: NewThrottle(resizeInterval),
		hovered:     -1,
		detail:      -1,
	}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = logging.Get()
	}
	if err := spec.Validate(); err != nil {
		var cfg *ConfigurationError
		if errors.As(err, &cfg) {
			return nil, err
		}
		logging.With(c.log.Warn(), logging.ChartKind(spec.Kind.String()), logging.ErrorField(err)).Msg("chart data has an unexpected shape")
	}
	anim, err := NewDriver(c.sched, c.paint, c.log)
	if err != nil {
		return nil, err
	}
	c.anim = anim
	c.rebuild()
	logging.With(c.log.Debug(), logging.ChartKind(c.kind.String()), logging.Size(width, height)).Msg("chart created")
	c.anim.Start(c.clock())
	return c, nil
}

// rebuild resolves options and recomputes layout, area and hit-test cache.
func (c *Chart) rebuild() {
	c.opts = Merge(Defaults(), c.overrides)
	if c.background != nil {
		c.opts.BackgroundColor = *c.background
	}
	var ds Dataset
	if len(c.datasets) > 0 {
		ds = c.datasets[0]
	}
	c.scene = Scene{
		Kind:    c.kind,
		Labels:  c.labels,
		Dataset: ds,
		Options: c.opts,
		Width:   float64(c.width),
		Height:  float64(c.height),
	}
	c.relayout()
	c.anim.Configure(c.opts.Animation.Duration, c.opts.Animation.Easing)
}

func (c *Chart) relayout() {
	c.scene.Width, c.scene.Height = float64(c.width), float64(c.height)
	l, err := c.scene.MeasureLayout(c.surface)
	if err != nil {
		c.log.Debug().Err(err).Msg("text measurement failed; layout degraded")
	}
	c.layout = l
	c.area = c.scene.ComputeArea(l)
	c.locator.Reset(c.scene, c.area)
	c.log.Debug().Msg("hit cache invalidated")
}

// Patch replaces parts of a chart. Nil fields keep their current value.
type Patch struct {
	Kind            *Kind
	Labels          []string
	Datasets        []Dataset
	BackgroundColor *Color
	// Options replaces the previous overrides wholesale; they are merged
	// over the defaults again.
	Options *Overrides
}

// Update applies p and restarts the entrance animation.
func (c *Chart) Update(p Patch) {
	if c.destroyed {
		return
	}
	c.anim.Stop()
	if p.Kind != nil {
		c.kind = *p.Kind
	}
	if p.Labels != nil {
		c.labels = p.Labels
	}
	if p.Datasets != nil {
		c.datasets = p.Datasets
	}
	if p.Options != nil {
		c.overrides = *p.Options
	}
	if p.BackgroundColor != nil {
		bg := *p.BackgroundColor
		c.background = &bg
	}
	c.hovered, c.detail = -1, -1
	c.rebuild()
	logging.With(c.log.Debug(), logging.ChartKind(c.kind.String())).Msg("chart updated")
	c.anim.Start(c.clock())
}

// SetBackgroundColor changes the background and redraws.
func (c *Chart) SetBackgroundColor(col Color) {
	if c.destroyed {
		return
	}
	c.background = &col
	c.opts.BackgroundColor = col
	c.scene.Options.BackgroundColor = col
	c.Draw()
}

// Resize changes the drawing size. Calls closer together than the resize
// interval are dropped and report false.
func (c *Chart) Resize(width, height int, now time.Time) bool {
	if c.destroyed || width < 1 || height < 1 {
		return false
	}
	if width == c.width && height == c.height {
		return true
	}
	if !c.resizeLimit.Allow(now) {
		return false
	}
	c.width, c.height = width, height
	c.relayout()
	logging.With(c.log.Debug(), logging.Size(width, height)).Msg("chart resized")
	c.Draw()
	return true
}

// Replay restarts the entrance animation.
func (c *Chart) Replay() {
	if c.destroyed {
		return
	}
	c.anim.Start(c.clock())
}

// Draw paints the chart at the current animation progress.
func (c *Chart) Draw() {
	if c.destroyed {
		return
	}
	c.paint(c.anim.Progress())
}

// DrawAt paints the chart at progress without affecting the animation.
func (c *Chart) DrawAt(progress float64) {
	if c.destroyed {
		return
	}
	c.paint(clamp(finite(progress, 1), 0, 1))
}

func (c *Chart) paint(progress float64) {
	p := painter{s: c.surface, scene: c.scene, layout: c.layout, area: c.area, progress: progress, hovered: c.hovered}
	p.paint()
}

// Progress is the eased progress of the entrance animation, 1 once settled.
func (c *Chart) Progress() float64 {
	return c.anim.Progress()
}

// Animating reports whether the entrance animation is running.
func (c *Chart) Animating() bool {
	return !c.destroyed && c.anim.Animating()
}

// Size is the drawing size in pixels.
func (c *Chart) Size() (width, height int) {
	return c.width, c.height
}

func (c *Chart) Kind() Kind {
	return c.kind
}

// Options returns the resolved options.
func (c *Chart) Options() Options {
	return c.opts
}

// Scene returns the current layout input.
func (c *Chart) Scene() Scene {
	return c.scene
}

// Area is the plotting rectangle inside the title, legend and axes.
func (c *Chart) Area() Rect {
	return c.area
}

// Layout returns the space reserved around the plotting area.
func (c *Chart) Layout() Layout {
	return c.layout
}

// Locate returns the index of the element at (x, y), or -1.
func (c *Chart) Locate(x, y float64) int {
	if c.destroyed {
		return -1
	}
	return c.locator.Locate(x, y)
}

// DataAtPoint describes element i.
func (c *Chart) DataAtPoint(i int) (DataPoint, bool) {
	return c.scene.DataAt(i)
}

// Stats summarizes the drawn dataset.
func (c *Chart) Stats() Stats {
	return ComputeStats(c.scene.Dataset.Data)
}

// Destroy stops the animation, drops callbacks and cached hit tests, and
// clears the surface. Further calls do nothing.
func (c *Chart) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.anim.Close()
	c.onClick, c.onHover, c.onDetail = nil, nil, nil
	c.locator.Reset(Scene{}, Rect{})
	c.hovered, c.detail = -1, -1
	c.surface.Clear(color.NRGBA{})
	c.log.Debug().Msg("chart destroyed")
}
