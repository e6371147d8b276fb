package chart

import "errors"

// ConfigurationError is returned when a chart cannot be constructed at all.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "chart configuration: " + e.Reason
}

// DataShapeError describes input data the chart can only draw in a degraded
// form.
type DataShapeError struct {
	Reason string
}

func (e *DataShapeError) Error() string {
	return "chart data: " + e.Reason
}

// MeasurementError records a text measurement that failed during layout.
// The affected layout contribution is treated as zero.
type MeasurementError struct {
	Text string
	Err  error
}

func (e *MeasurementError) Error() string {
	return "measuring " + quote(e.Text) + ": " + e.Err.Error()
}

func (e *MeasurementError) Unwrap() error {
	return e.Err
}

// ErrNoMeasurer is reported when layout is computed without a text measurer.
var ErrNoMeasurer = errors.New("no text measurer available")

func quote(s string) string {
	const limit = 32
	if r := []rune(s); len(r) > limit {
		s = string(r[:limit]) + "…"
	}
	return `"` + s + `"`
}
