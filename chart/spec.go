package chart

import "fmt"

// Dataset is one series of values. Only the first dataset of a Spec is drawn.
type Dataset struct {
	Label           string    `yaml:"label,omitempty"`
	Data            []float64 `yaml:"data"`
	BackgroundColor Colors    `yaml:"backgroundColor,omitempty"`
	BorderColor     *Color    `yaml:"borderColor,omitempty"`
	// IsTotal marks waterfall entries that reset the running total to their
	// own value.
	IsTotal []bool `yaml:"isTotal,omitempty"`
}

func (d Dataset) total(i int) bool {
	return i >= 0 && i < len(d.IsTotal) && d.IsTotal[i]
}

// Spec describes a chart: its kind, category labels, data and option
// overrides.
type Spec struct {
	Kind     Kind      `yaml:"type"`
	Labels   []string  `yaml:"labels"`
	Datasets []Dataset `yaml:"datasets"`
	Options  Overrides `yaml:"options,omitempty"`
}

// Primary returns the dataset that is drawn.
func (s Spec) Primary() Dataset {
	if len(s.Datasets) == 0 {
		return Dataset{}
	}
	return s.Datasets[0]
}

// Validate reports shape problems that the renderer tolerates but that
// usually indicate a mistake in the input.
func (s Spec) Validate() error {
	if s.Kind >= numKinds {
		return &ConfigurationError{Reason: fmt.Sprintf("unsupported chart type %v", s.Kind)}
	}
	ds := s.Primary()
	switch {
	case len(s.Datasets) == 0:
		return &DataShapeError{Reason: "no datasets"}
	case len(ds.Data) == 0:
		return &DataShapeError{Reason: "dataset has no data"}
	case s.Kind == Gauge:
		if len(ds.Data) != 1 {
			return &DataShapeError{Reason: fmt.Sprintf("gauge expects exactly one value, got %d", len(ds.Data))}
		}
	case len(s.Labels) != len(ds.Data):
		return &DataShapeError{Reason: fmt.Sprintf("%d labels for %d values", len(s.Labels), len(ds.Data))}
	}
	return nil
}

func label(labels []string, i int) string {
	if i < 0 || i >= len(labels) {
		return ""
	}
	return labels[i]
}
