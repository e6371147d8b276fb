package chart

import (
	"math"
	"time"

	"golang.org/x/time/rate"
)

// PointerKind is the kind of a pointer event delivered to HandlePointer.
type PointerKind uint8

const (
	PointerMove PointerKind = iota
	PointerPress
	PointerRelease
	// PointerLeave is sent when the pointer exits the chart.
	PointerLeave
	PointerCancel
)

func (k PointerKind) String() string {
	switch k {
	case PointerMove:
		return "move"
	case PointerPress:
		return "press"
	case PointerRelease:
		return "release"
	case PointerLeave:
		return "leave"
	case PointerCancel:
		return "cancel"
	}
	return "unknown"
}

// PointerEvent is a pointer event in chart coordinates.
type PointerEvent struct {
	Kind PointerKind
	X, Y float64
	Time time.Time
	// Touch is set for events coming from a touch screen.
	Touch bool
}

const (
	moveInterval      = 16 * time.Millisecond
	resizeInterval    = 250 * time.Millisecond
	doubleClickWindow = 400 * time.Millisecond
	longPressDelay    = 500 * time.Millisecond
	// clickSlop is how far a press may travel before it no longer counts as
	// a click.
	clickSlop = 10
)

// Throttle lets through the first call and then at most one call per
// interval. Calls in between are dropped.
type Throttle struct {
	lim *rate.Limiter
}

func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{lim: rate.NewLimiter(rate.Every(interval), 1)}
}

// Allow reports whether a call at now may proceed.
func (t *Throttle) Allow(now time.Time) bool {
	return t.lim.AllowN(now, 1)
}

// gesture tracks presses to recognize clicks, double clicks and long
// presses.
type gesture struct {
	pressed    bool
	pressAt    time.Time
	pressX     float64
	pressY     float64
	lastClick  time.Time
	clickCount int
}

// gestureResult is what a release completed.
type gestureResult struct {
	click       bool
	doubleClick bool
	longPress   bool
}

func (g *gesture) press(ev PointerEvent) {
	g.pressed = true
	g.pressAt = ev.Time
	g.pressX, g.pressY = ev.X, ev.Y
}

func (g *gesture) release(ev PointerEvent) gestureResult {
	if !g.pressed {
		return gestureResult{}
	}
	g.pressed = false
	var res gestureResult
	held := ev.Time.Sub(g.pressAt)
	if ev.Touch && held > longPressDelay {
		res.longPress = true
	}
	if math.Hypot(ev.X-g.pressX, ev.Y-g.pressY) > clickSlop {
		g.clickCount = 0
		return res
	}
	res.click = true
	if g.clickCount > 0 && ev.Time.Sub(g.lastClick) <= doubleClickWindow {
		res.doubleClick = true
		g.clickCount = 0
	} else {
		g.clickCount = 1
	}
	g.lastClick = ev.Time
	return res
}

func (g *gesture) cancel() {
	g.pressed = false
	g.clickCount = 0
}

// Callback receives pointer-driven notifications. index is -1 and dp the
// zero value when no element is involved.
type Callback func(ev PointerEvent, index int, dp DataPoint, c *Chart)

// HandlePointer feeds a pointer event to the chart. Moves are throttled;
// presses and releases are always processed.
func (c *Chart) HandlePointer(ev PointerEvent) {
	if c.destroyed {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = c.clock()
	}
	switch ev.Kind {
	case PointerMove:
		c.pointer = Point{X: ev.X, Y: ev.Y}
		if !c.moveLimit.Allow(ev.Time) {
			return
		}
		c.setHover(ev, c.Locate(ev.X, ev.Y))
	case PointerPress:
		c.pointer = Point{X: ev.X, Y: ev.Y}
		c.gesture.press(ev)
		c.setHover(ev, c.Locate(ev.X, ev.Y))
	case PointerRelease:
		res := c.gesture.release(ev)
		c.handleGesture(ev, res)
	case PointerLeave, PointerCancel:
		c.gesture.cancel()
		c.setHover(ev, -1)
	}
}

func (c *Chart) handleGesture(ev PointerEvent, res gestureResult) {
	dv := c.opts.Plugins.DetailedView
	if res.click && c.hovered != -1 && c.onClick != nil {
		dp, _ := c.DataAtPoint(c.hovered)
		c.onClick(ev, c.hovered, dp, c)
	}
	if !dv.Enabled {
		return
	}
	switch {
	case dv.Trigger == TriggerClick && res.click,
		dv.Trigger == TriggerDoubleClick && res.doubleClick,
		dv.Trigger == TriggerLongPress && res.longPress:
		c.ToggleDetail(ev)
	}
}

// setHover records idx as the hovered element. Redraws and the hover
// callback happen only when the index changes.
func (c *Chart) setHover(ev PointerEvent, idx int) {
	if idx == c.hovered {
		return
	}
	c.hovered = idx
	c.Draw()
	if c.onHover != nil {
		dp, _ := c.DataAtPoint(idx)
		c.onHover(ev, idx, dp, c)
	}
}

// HoveredIndex is the element under the pointer, or -1.
func (c *Chart) HoveredIndex() int {
	return c.hovered
}

// Tooltip returns the tooltip text for the hovered element and the pointer
// position it should follow. ok is false when nothing is hovered or tooltips
// are disabled.
func (c *Chart) Tooltip() (text string, at Point, ok bool) {
	if c.destroyed || c.hovered < 0 || !c.opts.Plugins.Tooltip.Enabled {
		return "", Point{}, false
	}
	dp, ok := c.DataAtPoint(c.hovered)
	if !ok {
		return "", Point{}, false
	}
	return TooltipText(dp), c.pointer, true
}

// ToggleDetail closes the detailed view if it is open, and otherwise opens it
// for the hovered element. OnDetailedView reports the new state, with index
// -1 once closed.
func (c *Chart) ToggleDetail(ev PointerEvent) {
	switch {
	case c.detail >= 0:
		c.detail = -1
	case c.hovered >= 0:
		c.detail = c.hovered
	default:
		return
	}
	c.log.Debug().Int("index", c.detail).Msg("detailed view toggled")
	if c.onDetail != nil {
		dp, _ := c.DataAtPoint(c.detail)
		c.onDetail(ev, c.detail, dp, c)
	}
}

// CloseDetail hides the detailed view without notifying.
func (c *Chart) CloseDetail() {
	c.detail = -1
}

// DetailIndex is the element shown in the detailed view, or -1.
func (c *Chart) DetailIndex() int {
	return c.detail
}

// Detail formats the open detailed view.
func (c *Chart) Detail() (Detail, bool) {
	if c.destroyed || c.detail < 0 {
		return Detail{}, false
	}
	dp, ok := c.DataAtPoint(c.detail)
	if !ok {
		return Detail{}, false
	}
	return c.format(dp, c.Stats(), c.opts.Plugins.DetailedView), true
}
