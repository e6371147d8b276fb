package main

import (
	"errors"
	"image"
	"image/color"
	"time"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"github.com/felixgeelhaar/bolt/v3"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"git.sr.ht/~whereswaldon/chartmaster/chart"
	"git.sr.ht/~whereswaldon/chartmaster/internal/logging"
	"git.sr.ht/~whereswaldon/chartmaster/surface/giosurface"
)

var closeIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.NavigationClose)
	return icon
}()

// resizeRetry is how long to wait before offering a throttled resize again.
const resizeRetry = 300 * time.Millisecond

// ChartView hosts a chart.Chart inside a Gio layout and forwards pointer
// input to it.
type ChartView struct {
	surface *giosurface.Surface
	sched   chart.FrameScheduler
	log     *bolt.Logger

	chart   *chart.Chart
	pending *chart.Spec
	err     string

	closeBtn    widget.Clickable
	detailTable component.GridState
}

func NewChartView(th *material.Theme, invalidate func(), log *bolt.Logger) (*ChartView, error) {
	surface, err := giosurface.New(th.Shaper)
	if err != nil {
		return nil, err
	}
	return &ChartView{
		surface: surface,
		sched:   chart.FrameScheduler{Invalidate: invalidate},
		log:     log,
	}, nil
}

// SetSpec replaces the displayed chart at the next frame.
func (v *ChartView) SetSpec(spec chart.Spec) {
	v.pending = &spec
}

// Replay restarts the entrance animation.
func (v *ChartView) Replay() {
	if v.chart != nil {
		v.chart.Replay()
	}
}

// Err describes why the last spec could not be shown.
func (v *ChartView) Err() string {
	return v.err
}

// apply builds or updates the chart for the pending spec at the given size.
func (v *ChartView) apply(w, h int) {
	spec := *v.pending
	v.pending = nil
	if v.chart == nil {
		c, err := chart.New(spec, v.surface, max(w, 1), max(h, 1),
			chart.WithScheduler(&v.sched),
			chart.WithLogger(v.log),
			chart.WithOnDetailedView(func(_ chart.PointerEvent, index int, dp chart.DataPoint, _ *chart.Chart) {
				if index >= 0 {
					logging.With(v.log.Info(), logging.Index(index), logging.Value(dp.Value)).Str("label", dp.Label).Msg("detailed view opened")
				}
			}),
		)
		if err != nil {
			v.err = err.Error()
			return
		}
		v.chart, v.err = c, ""
		return
	}
	if err := spec.Validate(); err != nil {
		var cfg *chart.ConfigurationError
		if errors.As(err, &cfg) {
			v.err = err.Error()
			return
		}
	}
	v.err = ""
	labels, datasets := spec.Labels, spec.Datasets
	if labels == nil {
		labels = []string{}
	}
	if datasets == nil {
		datasets = []chart.Dataset{}
	}
	v.chart.Update(chart.Patch{
		Kind:     &spec.Kind,
		Labels:   labels,
		Datasets: datasets,
		Options:  &spec.Options,
	})
}

func pointerKind(k pointer.Kind) (chart.PointerKind, bool) {
	switch k {
	case pointer.Move, pointer.Drag, pointer.Enter:
		return chart.PointerMove, true
	case pointer.Press:
		return chart.PointerPress, true
	case pointer.Release:
		return chart.PointerRelease, true
	case pointer.Leave:
		return chart.PointerLeave, true
	case pointer.Cancel:
		return chart.PointerCancel, true
	}
	return 0, false
}

// Update processes input. The surface is not bound to the frame here, so
// redraws requested by the chart while handling input are dropped and the
// chart is painted exactly once by Layout.
func (v *ChartView) Update(gtx C) {
	if v.closeBtn.Clicked(gtx) && v.chart != nil {
		v.chart.CloseDetail()
	}
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: v,
			Kinds:  pointer.Enter | pointer.Leave | pointer.Move | pointer.Drag | pointer.Press | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok || v.chart == nil {
			continue
		}
		kind, ok := pointerKind(pe.Kind)
		if !ok {
			continue
		}
		x, y := v.surface.ToChart(pe.Position)
		v.chart.HandlePointer(chart.PointerEvent{
			Kind:  kind,
			X:     x,
			Y:     y,
			Time:  gtx.Now,
			Touch: pe.Source == pointer.Touch,
		})
	}
}

func (v *ChartView) Layout(gtx C, th *material.Theme) D {
	v.Update(gtx)
	w, h := v.surface.FrameSize(gtx)
	if v.pending != nil {
		v.apply(w, h)
	}
	if v.chart == nil || w < 1 || h < 1 {
		return D{Size: gtx.Constraints.Max}
	}
	if !v.chart.Resize(w, h, gtx.Now) {
		gtx.Execute(op.InvalidateCmd{At: gtx.Now.Add(resizeRetry)})
	}

	defer clip.Rect{Max: gtx.Constraints.Max}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, v)
	if v.chart.HoveredIndex() >= 0 {
		pointer.CursorPointer.Add(gtx.Ops)
	}

	v.surface.Begin(gtx)
	if !v.sched.RunFrame(gtx.Now) {
		v.chart.Draw()
	}
	v.surface.End()

	v.layoutTooltip(gtx, th)
	return D{Size: gtx.Constraints.Max}
}

func clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

// layoutTooltip draws the hovered element's tooltip beside the pointer,
// flipping to the other side near the edges.
func (v *ChartView) layoutTooltip(gtx C, th *material.Theme) {
	txt, at, ok := v.chart.Tooltip()
	if !ok {
		return
	}
	origConstraints := gtx.Constraints
	gtx.Constraints.Min = image.Point{}
	macro := op.Record(gtx.Ops)
	dims := layout.Background{}.Layout(gtx,
		func(gtx C) D {
			paint.FillShape(gtx.Ops, color.NRGBA{R: 17, G: 24, B: 39, A: 230}, clip.UniformRRect(image.Rectangle{Max: gtx.Constraints.Min}, gtx.Dp(4)).Op(gtx.Ops))
			return D{Size: gtx.Constraints.Min}
		},
		func(gtx C) D {
			return layout.UniformInset(8).Layout(gtx, func(gtx C) D {
				l := material.Body2(th, txt)
				l.Color = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
				l.MaxLines = 1
				return l.Layout(gtx)
			})
		},
	)
	call := macro.Stop()
	gtx.Constraints = origConstraints

	scale := gtx.Metric.PxPerDp
	if !(scale > 0) {
		scale = 1
	}
	pos := f32.Pt(float32(at.X)*scale, float32(at.Y)*scale)
	gap := gtx.Dp(12)
	p := image.Pt(int(pos.X)+gap, int(pos.Y)+gap)
	if p.X+dims.Size.X > gtx.Constraints.Max.X {
		p.X = int(pos.X) - gap - dims.Size.X
	}
	if p.Y+dims.Size.Y > gtx.Constraints.Max.Y {
		p.Y = int(pos.Y) - gap - dims.Size.Y
	}
	p.X = clamp(p.X, 0, max(gtx.Constraints.Max.X-dims.Size.X, 0))
	p.Y = clamp(p.Y, 0, max(gtx.Constraints.Max.Y-dims.Size.Y, 0))
	defer op.Offset(p).Push(gtx.Ops).Pop()
	call.Add(gtx.Ops)
}

// DetailOpen reports whether the detailed view has content to show.
func (v *ChartView) DetailOpen() bool {
	if v.chart == nil {
		return false
	}
	_, ok := v.chart.Detail()
	return ok
}

// LayoutDetail draws the detailed view of the selected element as a table.
func (v *ChartView) LayoutDetail(gtx C, th *material.Theme) D {
	if v.chart == nil {
		return D{}
	}
	detail, ok := v.chart.Detail()
	if !ok {
		return D{}
	}
	swatch := detail.Color.NRGBA()
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(func(gtx C) D {
					return layout.UniformInset(6).Layout(gtx, func(gtx C) D {
						size := image.Pt(gtx.Dp(10), gtx.Dp(10))
						paint.FillShape(gtx.Ops, swatch, clip.Rect{Max: size}.Op())
						return D{Size: size}
					})
				}),
				layout.Flexed(1, material.H6(th, detail.Title).Layout),
				layout.Rigid(func(gtx C) D {
					return material.Clickable(gtx, &v.closeBtn, func(gtx C) D {
						return layout.UniformInset(4).Layout(gtx, func(gtx C) D {
							gtx.Constraints.Min = image.Pt(gtx.Dp(20), gtx.Dp(20))
							return closeIcon.Layout(gtx, th.Fg)
						})
					})
				}),
			)
		}),
		layout.Rigid(func(gtx C) D {
			return v.layoutDetailTable(gtx, th, detail)
		}),
	)
}

func (v *ChartView) layoutDetailTable(gtx C, th *material.Theme, detail chart.Detail) D {
	table := component.Table(th, &v.detailTable)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	fieldColWidth := gtx.Dp(140)
	valueColWidth := gtx.Constraints.Max.X - fieldColWidth - gtx.Dp(table.VScrollbarStyle.Width())
	rowHeight := gtx.Sp(22)
	gtx.Constraints.Max.Y = min(gtx.Constraints.Max.Y, rowHeight*(len(detail.Rows)+1))
	const (
		fieldCol = iota
		valueCol
		numCols
	)
	return table.Layout(gtx, len(detail.Rows), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}
			if index == fieldCol {
				return min(fieldColWidth, constraint)
			}
			return min(max(valueColWidth, 0), constraint)
		},
		func(gtx C, index int) D {
			var l material.LabelStyle
			switch index {
			case fieldCol:
				l = material.Body1(th, "Field")
			default:
				l = material.Body1(th, "Value")
				l.Alignment = text.End
			}
			l.Color = th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				}, l.Layout,
			)
		},
		func(gtx C, row, col int) (dims D) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			r := detail.Rows[row]
			dims = layout.UniformInset(2).Layout(gtx, func(gtx C) D {
				if col == fieldCol {
					return material.Body2(th, r.Label).Layout(gtx)
				}
				l := material.Body2(th, r.Value)
				l.Alignment = text.End
				return l.Layout(gtx)
			})
			if row&1 != 0 {
				tint := detail.Color.NRGBA()
				tint.A = 40
				paint.FillShape(gtx.Ops, tint, clip.Rect{Max: gtx.Constraints.Max}.Op())
			}
			return dims
		})
}
