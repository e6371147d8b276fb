package chart

import "math"

// PathOp is the kind of a recorded path command.
type PathOp uint8

const (
	PathMove PathOp = iota
	PathLine
	PathQuad
	PathArc
	PathClose
)

// PathCmd is one recorded path command. X and Y hold the end point of
// move, line and quad commands; CX and CY hold the quad control point or the
// arc center.
type PathCmd struct {
	Op                PathOp
	X, Y              float64
	CX, CY            float64
	R, Start, End     float64
	CounterClockwise bool
}

// Path records canvas-style path commands so surfaces can replay or flatten
// them.
type Path struct {
	cmds []PathCmd
}

func (p *Path) Reset() {
	p.cmds = p.cmds[:0]
}

func (p *Path) Len() int {
	return len(p.cmds)
}

func (p *Path) Commands() []PathCmd {
	return p.cmds
}

func (p *Path) MoveTo(x, y float64) {
	p.cmds = append(p.cmds, PathCmd{Op: PathMove, X: x, Y: y})
}

func (p *Path) LineTo(x, y float64) {
	p.cmds = append(p.cmds, PathCmd{Op: PathLine, X: x, Y: y})
}

func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.cmds = append(p.cmds, PathCmd{Op: PathQuad, CX: cx, CY: cy, X: x, Y: y})
}

func (p *Path) Arc(cx, cy, r, start, end float64, ccw bool) {
	p.cmds = append(p.cmds, PathCmd{Op: PathArc, CX: cx, CY: cy, R: max(r, 0), Start: start, End: end, CounterClockwise: ccw})
}

func (p *Path) ClosePath() {
	p.cmds = append(p.cmds, PathCmd{Op: PathClose})
}

// Polyline is a flattened subpath.
type Polyline struct {
	Points []Point
	Closed bool
}

const (
	quadSegments = 16
	arcStep      = math.Pi / 36
)

// Flatten converts the recorded commands into polylines, approximating
// curves with short line segments.
func (p *Path) Flatten() []Polyline {
	var (
		out   []Polyline
		open  bool
		pen   Point
		valid bool
	)
	begin := func(pt Point) {
		out = append(out, Polyline{Points: []Point{pt}})
		open = true
	}
	add := func(pt Point) {
		if !open {
			if valid {
				begin(pen)
			} else {
				begin(pt)
			}
		}
		last := &out[len(out)-1]
		last.Points = append(last.Points, pt)
		pen, valid = pt, true
	}
	for _, c := range p.cmds {
		switch c.Op {
		case PathMove:
			begin(Point{c.X, c.Y})
			pen, valid = Point{c.X, c.Y}, true
		case PathLine:
			add(Point{c.X, c.Y})
		case PathQuad:
			if !valid {
				pen, valid = Point{c.CX, c.CY}, true
			}
			from := pen
			for i := 1; i <= quadSegments; i++ {
				t := float64(i) / quadSegments
				mt := 1 - t
				add(Point{
					X: mt*mt*from.X + 2*mt*t*c.CX + t*t*c.X,
					Y: mt*mt*from.Y + 2*mt*t*c.CY + t*t*c.Y,
				})
			}
		case PathArc:
			pts := arcPoints(c.CX, c.CY, c.R, c.Start, c.End, c.CounterClockwise)
			if !open {
				begin(pts[0])
				pen, valid = pts[0], true
			}
			for _, pt := range pts {
				add(pt)
			}
		case PathClose:
			if open {
				last := &out[len(out)-1]
				last.Closed = true
				pen = last.Points[0]
				open = false
			}
		}
	}
	return out
}

// arcSweep normalizes the angular extent of an arc the way an HTML canvas
// does.
func arcSweep(start, end float64, ccw bool) float64 {
	sweep := end - start
	if !ccw {
		if sweep >= 2*math.Pi {
			return 2 * math.Pi
		}
		if sweep < 0 {
			sweep = math.Mod(sweep, 2*math.Pi) + 2*math.Pi
		}
		return sweep
	}
	if sweep <= -2*math.Pi {
		return -2 * math.Pi
	}
	if sweep > 0 {
		sweep = math.Mod(sweep, 2*math.Pi) - 2*math.Pi
	}
	return sweep
}

func arcPoints(cx, cy, r, start, end float64, ccw bool) []Point {
	sweep := arcSweep(start, end, ccw)
	n := max(int(math.Ceil(math.Abs(sweep)/arcStep)), 1)
	pts := make([]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := start + sweep*float64(i)/float64(n)
		pts = append(pts, Point{X: cx + math.Cos(a)*r, Y: cy + math.Sin(a)*r})
	}
	return pts
}

// Dash splits pl into the "on" runs of the alternating on/off pattern.
func Dash(pl Polyline, pattern []float64) []Polyline {
	total := 0.0
	for _, d := range pattern {
		total += max(d, 0)
	}
	if total == 0 || len(pl.Points) < 2 {
		return []Polyline{pl}
	}
	pts := pl.Points
	if pl.Closed {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	}
	var (
		out    []Polyline
		idx    int
		remain = pattern[0]
		on     = true
	)
	if on {
		out = append(out, Polyline{Points: []Point{pts[0]}})
	}
	for i := 1; i < len(pts); i++ {
		from, to := pts[i-1], pts[i]
		seg := math.Hypot(to.X-from.X, to.Y-from.Y)
		for seg > 0 {
			step := min(seg, remain)
			t := step / seg
			from = Point{X: from.X + (to.X-from.X)*t, Y: from.Y + (to.Y-from.Y)*t}
			seg -= step
			remain -= step
			if on {
				last := &out[len(out)-1]
				last.Points = append(last.Points, from)
			}
			if remain <= 0 {
				idx = (idx + 1) % len(pattern)
				remain = max(pattern[idx], 0)
				on = !on
				if on {
					out = append(out, Polyline{Points: []Point{from}})
				}
			}
		}
	}
	kept := out[:0]
	for _, d := range out {
		if len(d.Points) > 1 {
			kept = append(kept, d)
		}
	}
	return kept
}
