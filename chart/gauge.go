package chart

import "math"

// GaugeMax is the value that corresponds to the end of the dial.
const GaugeMax = 100

// GaugeGeometry is the dial of a gauge chart. Angles are canvas radians.
type GaugeGeometry struct {
	CX, CY       float64
	Outer, Inner float64
	Start, End   float64
	Needle       float64
	Value        float64
	Color        Color
}

// gaugeAngle converts a dial angle in degrees, where 0 points to 12 o'clock
// and positive values turn clockwise, into canvas radians.
func gaugeAngle(deg float64) float64 {
	return radians(deg - 90)
}

// AngleOf maps a gauge value to its canvas angle on the dial.
func (g GaugeGeometry) AngleOf(v float64) float64 {
	return g.Start + clamp(v/GaugeMax, 0, 1)*(g.End-g.Start)
}

// Gauge computes the dial for the scene's single value. The needle sweeps
// from the start angle with progress.
func (s Scene) Gauge(area Rect, progress float64) GaugeGeometry {
	opt := s.Options.Gauge
	v := at(s.Dataset.Data, 0)
	radius := min(area.Width, area.Height) / 2 * 0.75
	thickness := radius * clamp(opt.Thickness, 0, 1)
	start, end := gaugeAngle(opt.StartAngle), gaugeAngle(opt.EndAngle)
	return GaugeGeometry{
		CX:     area.X + area.Width/2,
		CY:     area.Y + area.Height*0.65,
		Outer:  radius,
		Inner:  radius - thickness,
		Start:  start,
		End:    end,
		Needle: start + clamp(v/GaugeMax, 0, 1)*(end-start)*progress,
		Value:  v,
		Color:  GaugeColor(v, opt.Ranges),
	}
}

// GaugeColor picks the color of the range containing v. Ranges include their
// minimum, so a value on a shared boundary belongs to the range that starts
// there. Values outside every range take the color of the nearest one.
func GaugeColor(v float64, ranges []GaugeRange) Color {
	if len(ranges) == 0 {
		return DefaultColor
	}
	found := -1
	for i, r := range ranges {
		if v >= r.Min && v <= r.Max {
			found = i
		}
	}
	if found >= 0 {
		return ranges[found].Color
	}
	best, dist := 0, math.Inf(1)
	for i, r := range ranges {
		d := math.Min(math.Abs(v-r.Min), math.Abs(v-r.Max))
		if d < dist {
			best, dist = i, d
		}
	}
	return ranges[best].Color
}
