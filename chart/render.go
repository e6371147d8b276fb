package chart

import (
	"math"
	"strconv"
	"unicode/utf8"
)

var (
	axisColor    = MustParseColor("#999999")
	labelColor   = MustParseColor("#666666")
	valueColor   = MustParseColor("#333333")
	needleColor  = MustParseColor("#2c3e50")
	white        = MustParseColor("#ffffff")
	rateBoxColor = MustParseColor("rgba(255,255,255,0.95)")
)

const (
	gaugeBandGap  = 0.015
	gaugeHub      = 12
	needleWidth   = 6
	connectorDash = 5
	connectorGap  = 3
	rateBoxPad    = 8
)

// painter draws one frame of a scene.
type painter struct {
	s        Surface
	scene    Scene
	layout   Layout
	area     Rect
	progress float64
	hovered  int
}

func (p *painter) paint() {
	opt := p.scene.Options
	p.s.Clear(opt.BackgroundColor.NRGBA())
	if p.scene.Kind.HasAxes() {
		p.grid()
		p.axisLabels()
	}
	switch p.scene.Kind {
	case Line:
		p.line()
	case Bar:
		p.bars(p.scene.BarRects(p.area, p.progress), false)
	case HorizontalBar:
		p.bars(p.scene.HorizontalBarRects(p.area, p.progress), true)
	case Pie, Doughnut:
		p.slices()
	case Funnel:
		p.funnel()
	case Gauge:
		p.gauge()
	case Waterfall:
		p.waterfall()
	case ConversionFunnel:
		p.conversion()
	}
	if p.scene.Kind.HasAxes() {
		p.axes()
	}
	if opt.Plugins.Title.Display {
		p.title()
	}
	if p.scene.ShowsLegend() {
		p.legend()
	}
}

// textWidth measures s, estimating from the font size if measurement fails.
func (p *painter) textWidth(s string, f Font) float64 {
	m, err := p.s.MeasureText(s, f)
	if err != nil {
		return float64(utf8.RuneCountInString(s)) * f.Size * 0.6
	}
	return max(finite(m.Width, 0), 0)
}

func (p *painter) text(s string, x, y float64, f Font, c Color, anchor TextAnchor) {
	if s == "" {
		return
	}
	p.s.FillText(s, x, y, f, c.NRGBA(), anchor)
}

// roundRect traces r with corners of the given radius.
func (p *painter) roundRect(r Rect, radius float64) {
	radius = clamp(radius, 0, min(r.Width, r.Height)/2)
	x, y, w, h := r.X, r.Y, r.Width, r.Height
	p.s.BeginPath()
	p.s.MoveTo(x+radius, y)
	p.s.LineTo(x+w-radius, y)
	p.s.QuadTo(x+w, y, x+w, y+radius)
	p.s.LineTo(x+w, y+h-radius)
	p.s.QuadTo(x+w, y+h, x+w-radius, y+h)
	p.s.LineTo(x+radius, y+h)
	p.s.QuadTo(x, y+h, x, y+h-radius)
	p.s.LineTo(x, y+radius)
	p.s.QuadTo(x, y, x+radius, y)
	p.s.ClosePath()
}

func (p *painter) segment(x0, y0, x1, y1 float64, c Color, style StrokeStyle) {
	p.s.BeginPath()
	p.s.MoveTo(x0, y0)
	p.s.LineTo(x1, y1)
	p.s.Stroke(Solid(c), style)
}

func (p *painter) title() {
	t := p.scene.Options.Plugins.Title
	pad := p.scene.Options.Layout.Padding
	f := p.scene.titleFont()
	h := f.Size
	if m, err := p.s.MeasureText(t.Text, f); err == nil {
		h = m.Height()
	}
	y := pad.Top + t.Padding.Top + h/2
	switch t.Align {
	case AlignStart:
		p.text(t.Text, pad.Left, y, f, t.Color, AnchorStart)
	case AlignEnd:
		p.text(t.Text, p.scene.Width-pad.Right, y, f, t.Color, AnchorEnd)
	default:
		p.text(t.Text, p.scene.Width/2, y, f, t.Color, AnchorMiddle)
	}
}

func (p *painter) legend() {
	lg := p.scene.Options.Plugins.Legend
	pad := p.scene.Options.Layout.Padding
	entries := p.scene.LegendEntries()
	f := p.scene.legendFont()
	box := lg.Labels.BoxWidth
	gap := lg.Labels.Padding
	swatch := func(x, y float64, e LegendEntry) {
		p.roundRect(Rect{X: x, Y: y - box/2, Width: box, Height: box}, 2)
		p.s.Fill(Solid(e.Color))
		p.text(e.Label, x+box+gap/2, y, f, lg.Labels.Color, AnchorStart)
	}

	switch lg.Position {
	case PositionLeft, PositionRight:
		x := pad.Left + lg.Padding
		if lg.Position == PositionRight {
			x = p.scene.Width - pad.Right - p.layout.LegendWidth + lg.Padding
		}
		y := p.area.Y + box/2
		for _, e := range entries {
			swatch(x, y, e)
			y += box + gap
		}
		return
	}

	widths := make([]float64, len(entries))
	total := 0.0
	for i, e := range entries {
		widths[i] = box + gap/2 + p.textWidth(e.Label, f) + gap
		total += widths[i]
	}
	total -= gap
	var x float64
	switch lg.Align {
	case AlignStart:
		x = pad.Left
	case AlignEnd:
		x = p.scene.Width - pad.Right - total
	default:
		x = (p.scene.Width - total) / 2
	}
	y := pad.Top + p.layout.TitleHeight + lg.Padding + box/2
	if lg.Position == PositionBottom {
		y = p.scene.Height - pad.Bottom - p.layout.LegendHeight + lg.Padding + box/2
	}
	for i, e := range entries {
		swatch(x, y, e)
		x += widths[i]
	}
}

// categoryX is the horizontal center of category i of n.
func (p *painter) categoryX(i, n int) float64 {
	if p.scene.Kind == Line {
		return p.area.X + float64(i)/float64(max(n-1, 1))*p.area.Width
	}
	slot := p.area.Width / float64(max(n, 1))
	return p.area.X + (float64(i)+0.5)*slot
}

func (p *painter) grid() {
	a := p.area
	scales := p.scene.Options.Scales
	scale := p.scene.ValueScale()
	ticks := scale.Ticks(tickCount)
	n := len(p.scene.Dataset.Data)
	thin := StrokeStyle{Width: 1}
	horizontal := p.scene.Kind == HorizontalBar
	if g := scales.Y.Grid; g.Display {
		for _, v := range ticks {
			if horizontal {
				x := scale.X(a, v)
				p.segment(x, a.Y, x, a.Y+a.Height, g.Color, thin)
			} else {
				y := scale.Y(a, v)
				p.segment(a.X, y, a.X+a.Width, y, g.Color, thin)
			}
		}
	}
	if g := scales.X.Grid; g.Display {
		for i := 0; i < n; i++ {
			if horizontal {
				slot := a.Height / float64(n)
				y := a.Y + (float64(i)+0.5)*slot
				p.segment(a.X, y, a.X+a.Width, y, g.Color, thin)
			} else {
				x := p.categoryX(i, n)
				p.segment(x, a.Y, x, a.Y+a.Height, g.Color, thin)
			}
		}
	}
}

func (p *painter) axisLabels() {
	a := p.area
	scales := p.scene.Options.Scales
	scale := p.scene.ValueScale()
	ticks := scale.Ticks(tickCount)
	tickLabels := p.scene.TickLabels()
	n := len(p.scene.Dataset.Data)
	bottom := a.Y + a.Height
	if p.scene.Kind == HorizontalBar {
		if y := scales.Y; y.Display {
			slot := a.Height / float64(max(n, 1))
			for i := 0; i < n; i++ {
				p.text(label(p.scene.Labels, i), a.X-y.Ticks.Padding, a.Y+(float64(i)+0.5)*slot, tickFont(y), y.Ticks.Color, AnchorEnd)
			}
		}
		if x := scales.X; x.Display {
			ty := bottom + x.Ticks.Padding + x.Ticks.FontSize/2
			for i, v := range ticks {
				p.text(tickLabels[i], scale.X(a, v), ty, tickFont(x), x.Ticks.Color, AnchorMiddle)
			}
		}
		return
	}
	if y := scales.Y; y.Display {
		for i, v := range ticks {
			p.text(tickLabels[i], a.X-y.Ticks.Padding, scale.Y(a, v), tickFont(y), y.Ticks.Color, AnchorEnd)
		}
	}
	if x := scales.X; x.Display {
		ty := bottom + x.Ticks.Padding + x.Ticks.FontSize/2
		for i := 0; i < n; i++ {
			p.text(label(p.scene.Labels, i), p.categoryX(i, n), ty, tickFont(x), x.Ticks.Color, AnchorMiddle)
		}
	}
}

func (p *painter) axes() {
	a := p.area
	scales := p.scene.Options.Scales
	thin := StrokeStyle{Width: 1}
	if scales.Y.Display {
		p.segment(a.X, a.Y, a.X, a.Y+a.Height, axisColor, thin)
	}
	if scales.X.Display {
		p.segment(a.X, a.Y+a.Height, a.X+a.Width, a.Y+a.Height, axisColor, thin)
	}
}

func (p *painter) lineColor() Color {
	ds := p.scene.Dataset
	if ds.BorderColor != nil {
		return *ds.BorderColor
	}
	return ds.BackgroundColor.At(0)
}

// traceLine traces the line chart, smoothing with quadratic segments
// when the line has tension.
func (p *painter) traceLine(pts []Point) {
	smooth := p.scene.Options.Elements.Line.Tension > 0
	for i, pt := range pts {
		switch {
		case i == 0:
			p.s.MoveTo(pt.X, pt.Y)
		case smooth:
			prev := pts[i-1]
			p.s.QuadTo((prev.X+pt.X)/2, prev.Y, pt.X, pt.Y)
		default:
			p.s.LineTo(pt.X, pt.Y)
		}
	}
}

func (p *painter) line() {
	pts := p.scene.LinePoints(p.area, p.progress)
	if len(pts) == 0 {
		return
	}
	el := p.scene.Options.Elements
	c := p.lineColor()
	bottom := p.area.Y + p.area.Height
	if el.Line.Fill {
		p.s.BeginPath()
		p.traceLine(pts)
		p.s.LineTo(pts[len(pts)-1].X, bottom)
		p.s.LineTo(pts[0].X, bottom)
		p.s.ClosePath()
		p.s.Fill(Paint{Gradient: &LinearGradient{
			X0: p.area.X, Y0: p.area.Y,
			X1: p.area.X, Y1: bottom,
			From: c.WithAlpha(0.35).NRGBA(),
			To:   c.WithAlpha(0).NRGBA(),
		}})
	}
	p.s.BeginPath()
	p.traceLine(pts)
	p.s.Stroke(Solid(c), StrokeStyle{Width: el.Line.BorderWidth})
	for i, pt := range pts {
		r := el.Point.Radius
		if i == p.hovered {
			r = el.Point.HoverRadius
		}
		p.s.BeginPath()
		p.s.Arc(pt.X, pt.Y, r, 0, 2*math.Pi, false)
		p.s.ClosePath()
		p.s.Fill(Solid(white))
		p.s.Stroke(Solid(c), StrokeStyle{Width: 2})
	}
}

// barPaint fills a bar with its color fading along the bar's length.
func barPaint(r Rect, c Color, horizontal bool) Paint {
	g := &LinearGradient{X0: r.X, Y0: r.Y, X1: r.X, Y1: r.Y + r.Height}
	g.From, g.To = c.WithAlpha(0.95).NRGBA(), c.WithAlpha(0.7).NRGBA()
	if horizontal {
		g.X1, g.Y1 = r.X+r.Width, r.Y
		g.From, g.To = g.To, g.From
	}
	return Paint{Color: c.NRGBA(), Gradient: g}
}

// hoverRect grows r by scale across the bar, keeping it centered.
func hoverRect(r Rect, scale float64, horizontal bool) Rect {
	if scale <= 0 {
		return r
	}
	if horizontal {
		h := r.Height * scale
		r.Y -= (h - r.Height) / 2
		r.Height = h
		return r
	}
	w := r.Width * scale
	r.X -= (w - r.Width) / 2
	r.Width = w
	return r
}

func (p *painter) bars(rects []Rect, horizontal bool) {
	el := p.scene.Options.Elements.Bar
	ds := p.scene.Dataset
	for i, r := range rects {
		if r.Empty() {
			continue
		}
		c := ds.BackgroundColor.At(i)
		if i == p.hovered {
			c = c.Lighten(15)
			r = hoverRect(r, el.HoverScale, horizontal)
		}
		p.roundRect(r, el.BorderRadius)
		p.s.Fill(barPaint(r, c, horizontal))
		if el.BorderWidth > 0 {
			border := white
			if ds.BorderColor != nil {
				border = *ds.BorderColor
			}
			p.s.Stroke(Solid(border), StrokeStyle{Width: el.BorderWidth})
		}
	}
}

func (p *painter) slices() {
	arc := p.scene.Options.Elements.Arc
	for _, sl := range p.scene.Slices(p.area, p.progress) {
		if sl.End <= sl.Start || sl.Outer <= 0 {
			continue
		}
		c := p.scene.Dataset.BackgroundColor.At(sl.Index)
		cx, cy := sl.CX, sl.CY
		if sl.Index == p.hovered {
			c = c.Lighten(10)
			cx += math.Cos(sl.Mid()) * arc.HoverOffset
			cy += math.Sin(sl.Mid()) * arc.HoverOffset
		}
		p.s.BeginPath()
		if sl.Inner > 0 {
			p.s.Arc(cx, cy, sl.Outer, sl.Start, sl.End, false)
			p.s.Arc(cx, cy, sl.Inner, sl.End, sl.Start, true)
		} else {
			p.s.MoveTo(cx, cy)
			p.s.Arc(cx, cy, sl.Outer, sl.Start, sl.End, false)
		}
		p.s.ClosePath()
		p.s.Fill(Solid(c))
		if arc.BorderWidth > 0 {
			p.s.Stroke(Solid(white), StrokeStyle{Width: arc.BorderWidth})
		}
	}
}

func (p *painter) funnel() {
	segs := p.scene.FunnelSegments(p.area, p.progress)
	bordered := p.scene.Options.Elements.Bar.BorderWidth > 0
	for _, t := range segs {
		if t.TopWidth <= 0 && t.BottomWidth <= 0 {
			continue
		}
		c := t.Item.Color
		if t.Item.OriginalIndex == p.hovered {
			c = c.Lighten(15)
		}
		corners := t.Corners()
		p.s.BeginPath()
		p.s.MoveTo(corners[0].X, corners[0].Y)
		for _, pt := range corners[1:] {
			p.s.LineTo(pt.X, pt.Y)
		}
		p.s.ClosePath()
		p.s.Fill(Solid(c))
		if bordered {
			p.s.Stroke(Solid(white), StrokeStyle{Width: 2})
		}
		mid := (t.Top + t.Bottom) / 2
		p.text(t.Item.Label, t.CX, mid-8, Font{Size: 13, Bold: true}, white, AnchorMiddle)
		p.text(strconv.FormatFloat(t.Item.Value, 'f', 0, 64), t.CX, mid+8, Font{Size: 12}, white, AnchorMiddle)
	}
}

// annulus traces the ring sector between radii inner and outer.
func (p *painter) annulus(cx, cy, inner, outer, start, end float64) {
	p.s.BeginPath()
	p.s.Arc(cx, cy, outer, start, end, false)
	p.s.Arc(cx, cy, inner, end, start, true)
	p.s.ClosePath()
}

func (p *painter) gauge() {
	opt := p.scene.Options.Gauge
	g := p.scene.Gauge(p.area, p.progress)
	if g.Outer <= 0 {
		return
	}
	for i, r := range opt.Ranges {
		a0, a1 := g.AngleOf(r.Min), g.AngleOf(r.Max)-gaugeBandGap
		if i > 0 {
			a0 += gaugeBandGap
		}
		if a1 <= a0 {
			continue
		}
		p.annulus(g.CX, g.CY, g.Inner, g.Outer, a0, a1)
		p.s.Fill(Solid(r.Color.WithAlpha(0.25)))
	}
	if g.Needle > g.Start {
		p.annulus(g.CX, g.CY, g.Inner, g.Outer, g.Start, g.Needle)
		p.s.Fill(Solid(g.Color))
	}

	length := max(g.Inner-10, 0)
	half := needleWidth / 2.0
	p.s.BeginPath()
	p.s.MoveTo(g.CX+math.Cos(g.Needle-math.Pi/2)*half, g.CY+math.Sin(g.Needle-math.Pi/2)*half)
	p.s.LineTo(g.CX+math.Cos(g.Needle)*length, g.CY+math.Sin(g.Needle)*length)
	p.s.LineTo(g.CX+math.Cos(g.Needle+math.Pi/2)*half, g.CY+math.Sin(g.Needle+math.Pi/2)*half)
	p.s.ClosePath()
	p.s.Fill(Solid(needleColor))
	p.s.BeginPath()
	p.s.Arc(g.CX, g.CY, min(gaugeHub, g.Outer/4), 0, 2*math.Pi, false)
	p.s.ClosePath()
	p.s.Fill(Solid(needleColor))

	if opt.ShowValue {
		size := clamp(g.Outer/3, 10, 48)
		shown := strconv.FormatFloat(g.Value*p.progress, 'f', 1, 64)
		p.text(shown, g.CX, g.CY-size, Font{Size: size, Bold: true}, g.Color, AnchorMiddle)
		p.text(label(p.scene.Labels, 0), g.CX, g.CY+gaugeHub+14, Font{Size: 16}, MustParseColor("#bbbbbb"), AnchorMiddle)
	}
	ring := g.Outer + 15
	p.text("0", g.CX+math.Cos(g.Start)*ring, g.CY+math.Sin(g.Start)*ring, Font{Size: 14}, labelColor, AnchorMiddle)
	p.text(strconv.Itoa(GaugeMax), g.CX+math.Cos(g.End)*ring, g.CY+math.Sin(g.End)*ring, Font{Size: 14}, labelColor, AnchorMiddle)
}

func (p *painter) waterfall() {
	opt := p.scene.Options.Waterfall
	el := p.scene.Options.Elements.Bar
	bars := p.scene.WaterfallBars(p.area, p.progress)
	n := len(bars)
	connector := StrokeStyle{Width: 2}
	if opt.DashedConnectors {
		connector.Dash = []float64{connectorDash, connectorGap}
	}
	for i, b := range bars {
		if staggered(p.progress, i, n) <= 0 {
			continue
		}
		r := b.Rect
		c := opt.StepColor(b.Step)
		if i == p.hovered {
			c = c.Lighten(15)
			r = hoverRect(r, el.HoverScale, false)
		}
		if !r.Empty() {
			p.roundRect(r, el.BorderRadius)
			p.s.Fill(barPaint(r, c, false))
		}
		if opt.ConnectorLine && i < n-1 && !b.IsTotal && staggered(p.progress, i+1, n) > 0 {
			next := bars[i+1]
			p.segment(b.Rect.X+b.Rect.Width, b.EndY, next.Rect.X, next.StartY, opt.ConnectorColor, connector)
		}
		if opt.ShowValues {
			s := strconv.FormatFloat(b.Value, 'f', -1, 64)
			if b.Value > 0 && !b.IsTotal {
				s = "+" + s
			}
			p.text(s, b.Rect.X+b.Rect.Width/2, min(b.StartY, b.EndY)-11, Font{Size: 11, Bold: true}, labelColor, AnchorMiddle)
		}
	}
}

func (p *painter) conversion() {
	opt := p.scene.Options.ConversionFunnel
	el := p.scene.Options.Elements.Bar
	data := p.scene.Dataset.Data
	n := len(data)
	bars := p.scene.ConversionBars(p.area, p.progress)
	bottom := p.area.Y + p.area.Height

	for i := 0; i+1 < n; i++ {
		a, b := bars[i], bars[i+1]
		if a.Empty() || b.Empty() {
			continue
		}
		p.s.BeginPath()
		p.s.MoveTo(a.X+a.Width, a.Y)
		p.s.LineTo(b.X, b.Y)
		p.s.LineTo(b.X, bottom)
		p.s.LineTo(a.X+a.Width, bottom)
		p.s.ClosePath()
		p.s.Fill(Solid(opt.Color(i+1, n).WithAlpha(0.15)))
	}

	for i, r := range bars {
		if staggered(p.progress, i, n) <= 0 {
			continue
		}
		c := opt.Color(i, n)
		if i == p.hovered {
			c = c.Lighten(10)
		}
		if !r.Empty() {
			p.roundRect(r, el.BorderRadius)
			p.s.Fill(Solid(c))
		}
		cx := r.X + r.Width/2
		p.text(strconv.FormatFloat(at(data, i), 'f', 0, 64), cx, r.Y-8-opt.ValueFontSize/2, Font{Size: opt.ValueFontSize, Bold: true}, valueColor, AnchorMiddle)
		p.text(label(p.scene.Labels, i), cx, bottom+12+opt.LabelFontSize/2, Font{Size: opt.LabelFontSize}, labelColor, AnchorMiddle)
	}

	if !opt.ShowConversionRates {
		return
	}
	midY := p.area.Y + p.area.Height/2
	rateFont := Font{Size: 13}
	for i, rate := range ConversionRates(data) {
		if staggered(p.progress, i+1, n) <= 0 {
			continue
		}
		s := strconv.FormatFloat(rate, 'f', 1, 64) + "%"
		midX := (bars[i].X + bars[i].Width/2 + bars[i+1].X + bars[i+1].Width/2) / 2
		w := p.textWidth(s, rateFont)
		p.roundRect(Rect{X: midX - w/2 - rateBoxPad, Y: midY - 12, Width: w + 2*rateBoxPad, Height: 24}, 6)
		p.s.Fill(Solid(rateBoxColor))
		p.text(s, midX, midY, rateFont, labelColor, AnchorMiddle)
	}
}
