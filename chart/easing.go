package chart

import (
	"math"
	"slices"
)

// EasingFunc maps linear progress in [0,1] to eased progress. Results may
// leave [0,1] in the middle of the curve.
type EasingFunc func(t float64) float64

const defaultEasing = "easeOutQuart"

var easings = map[string]EasingFunc{
	"linear":        func(t float64) float64 { return t },
	"easeInQuad":    func(t float64) float64 { return t * t },
	"easeOutQuad":   func(t float64) float64 { return t * (2 - t) },
	"easeInOutQuad": easeInOutQuad,
	"easeOutQuart": func(t float64) float64 {
		return 1 - math.Pow(1-t, 4)
	},
	"easeInOutCubic": easeInOutCubic,
	"easeOutElastic": easeOutElastic,
	"easeOutBack":    easeOutBack,
}

func easeInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return -1 + (4-2*t)*t
}

func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return (t-1)*(2*t-2)*(2*t-2) + 1
}

func easeOutElastic(t float64) float64 {
	const p = 0.3
	if t == 0 || t == 1 {
		return t
	}
	return math.Pow(2, -10*t)*math.Sin((t-p/4)*(2*math.Pi)/p) + 1
}

func easeOutBack(t float64) float64 {
	const (
		c1 = 1.70158
		c3 = c1 + 1
	)
	return 1 + c3*math.Pow(t-1, 3) + c1*math.Pow(t-1, 2)
}

// Easing returns the named easing function, falling back to easeOutQuart for
// unknown names.
func Easing(name string) EasingFunc {
	if f, ok := easings[name]; ok {
		return f
	}
	return easings[defaultEasing]
}

// EasingNames lists the supported easing names in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
