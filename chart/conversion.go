package chart

const conversionFill = 0.25

// ConversionBars places the bars of a conversion funnel: narrow bars centered
// in equal slots, scaled against the largest value. Each bar rises in turn as
// progress advances.
func (s Scene) ConversionBars(area Rect, progress float64) []Rect {
	data := s.Dataset.Data
	n := len(data)
	if n == 0 {
		return nil
	}
	scale := LinearScale{Min: 0, Max: maxOf(data)}
	slot := area.Width / float64(n)
	w := slot * conversionFill
	bottom := area.Y + area.Height
	out := make([]Rect, n)
	for i := range data {
		h := max(scale.Norm(at(data, i)), 0) * area.Height * staggered(progress, i, n)
		out[i] = Rect{
			X:      area.X + float64(i)*slot + slot/2 - w/2,
			Y:      bottom - h,
			Width:  w,
			Height: h,
		}
	}
	return out
}

// ConversionRates returns the percentage of each step that reaches the next
// one. A step with no volume converts at 0%.
func ConversionRates(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	out := make([]float64, len(data)-1)
	for i := range out {
		if from := at(data, i); from != 0 {
			out[i] = at(data, i+1) / from * 100
		}
	}
	return out
}

// Color colors conversion funnel bar i of n; the final step stands out.
func (o ConversionFunnelOptions) Color(i, n int) Color {
	if i == n-1 {
		return o.FinalColor
	}
	return o.BarColor
}
