package chart

import (
	"math"

	"golang.org/x/exp/constraints"
)

func clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}

// finite replaces NaN and infinities with fallback so that they never reach a
// drawing surface.
func finite(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// at reads data[i], treating out-of-range indices and non-finite values as 0.
func at(data []float64, i int) float64 {
	if i < 0 || i >= len(data) {
		return 0
	}
	return finite(data[i], 0)
}

func dataRange(data []float64) (lo, hi float64) {
	for i := range data {
		v := at(data, i)
		if i == 0 {
			lo, hi = v, v
			continue
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

func maxOf(data []float64) float64 {
	_, hi := dataRange(data)
	return hi
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
