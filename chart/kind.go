package chart

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies the type of chart being drawn.
type Kind uint8

const (
	Line Kind = iota
	Bar
	HorizontalBar
	Pie
	Doughnut
	Funnel
	Gauge
	Waterfall
	ConversionFunnel
	numKinds
)

var kindNames = [numKinds]string{
	Line:             "line",
	Bar:              "bar",
	HorizontalBar:    "horizontalBar",
	Pie:              "pie",
	Doughnut:         "doughnut",
	Funnel:           "funnel",
	Gauge:            "gauge",
	Waterfall:        "waterfall",
	ConversionFunnel: "conversionFunnel",
}

// Kinds returns every supported kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds)
	for k := Kind(0); k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind resolves a chart type name. Matching is case-insensitive so that
// "horizontalbar" and "horizontalBar" are equivalent.
func ParseKind(s string) (Kind, error) {
	s = strings.TrimSpace(s)
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown chart type %q", s)
}

// HasAxes reports whether the kind reserves space for value and category axes.
func (k Kind) HasAxes() bool {
	switch k {
	case Line, Bar, HorizontalBar, Waterfall:
		return true
	}
	return false
}

// Proportional reports whether data points are shown as a share of the total.
func (k Kind) Proportional() bool {
	switch k {
	case Pie, Doughnut, Funnel:
		return true
	}
	return false
}

// Radial reports whether the kind is drawn as slices around a center.
func (k Kind) Radial() bool {
	return k == Pie || k == Doughnut
}

func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

func (k *Kind) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*k = parsed
	return nil
}
