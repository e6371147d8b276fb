package chart

import "math"

// Step is one waterfall entry: the running total before and after it.
type Step struct {
	Value      float64
	Start, End float64
	IsTotal    bool
}

// WaterfallSteps applies the running-total recurrence. Deltas add to the
// total; entries marked as totals reset it to their own value.
func WaterfallSteps(data []float64, isTotal []bool) []Step {
	ds := Dataset{Data: data, IsTotal: isTotal}
	out := make([]Step, len(data))
	running := 0.0
	for i := range data {
		v := at(data, i)
		st := Step{Value: v, Start: running, IsTotal: ds.total(i)}
		if st.IsTotal {
			running = v
		} else {
			running += v
		}
		st.End = running
		out[i] = st
	}
	return out
}

// WaterfallScale spans every start and end together with zero.
func WaterfallScale(steps []Step) LinearScale {
	var l LinearScale
	for _, st := range steps {
		l.Min = min(l.Min, st.Start, st.End)
		l.Max = max(l.Max, st.Start, st.End)
	}
	return l
}

// WaterfallBar is the drawn extent of one step.
type WaterfallBar struct {
	Step
	Rect Rect
	// StartY and EndY are the pixel heights of the step's totals.
	StartY, EndY float64
}

const (
	waterfallFill = 0.6
	waterfallGap  = 0.2
)

// staggered delays element i of n so elements appear one after another as
// progress runs from 0 to 1.
func staggered(progress float64, i, n int) float64 {
	return clamp((progress-float64(i)/float64(n))*float64(n), 0, 1)
}

// WaterfallBars places each step as a floating bar between its start and end
// totals. Bars grow from their start total one after another.
func (s Scene) WaterfallBars(area Rect, progress float64) []WaterfallBar {
	steps := WaterfallSteps(s.Dataset.Data, s.Dataset.IsTotal)
	n := len(steps)
	if n == 0 {
		return nil
	}
	scale := WaterfallScale(steps)
	slot := area.Width / float64(n)
	out := make([]WaterfallBar, n)
	for i, st := range steps {
		startY := scale.Y(area, st.Start)
		endY := scale.Y(area, st.End)
		cur := startY + (endY-startY)*staggered(progress, i, n)
		out[i] = WaterfallBar{
			Step:   st,
			StartY: startY,
			EndY:   endY,
			Rect: Rect{
				X:      area.X + float64(i)*slot + slot*waterfallGap,
				Y:      min(startY, cur),
				Width:  slot * waterfallFill,
				Height: math.Abs(cur - startY),
			},
		}
	}
	return out
}

// StepColor colors a step by whether it is a total, a gain or a loss.
func (o WaterfallOptions) StepColor(st Step) Color {
	switch {
	case st.IsTotal:
		return o.TotalColor
	case st.Value >= 0:
		return o.PositiveColor
	default:
		return o.NegativeColor
	}
}
