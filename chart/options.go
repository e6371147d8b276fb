package chart

import (
	"slices"
	"time"
)

type (
	// Position places the legend relative to the chart area.
	Position string
	// Align positions a title or legend along its edge.
	Align string
	// SortPolicy orders funnel segments.
	SortPolicy string
	// Trigger selects the gesture that opens the detailed view.
	Trigger string
)

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
	PositionLeft   Position = "left"
	PositionRight  Position = "right"

	AlignStart  Align = "start"
	AlignCenter Align = "center"
	AlignEnd    Align = "end"

	SortDesc SortPolicy = "desc"
	SortAsc  SortPolicy = "asc"
	SortNone SortPolicy = "none"

	TriggerDoubleClick Trigger = "doubleClick"
	TriggerLongPress   Trigger = "longPress"
	TriggerClick       Trigger = "click"
)

// Options is the fully resolved configuration of a chart. Obtain one with
// Merge(Defaults(), overrides).
type Options struct {
	BackgroundColor  Color
	Animation        AnimationOptions
	Layout           LayoutOptions
	Elements         Elements
	Scales           Scales
	Funnel           FunnelOptions
	Gauge            GaugeOptions
	Waterfall        WaterfallOptions
	ConversionFunnel ConversionFunnelOptions
	Plugins          Plugins
}

type AnimationOptions struct {
	Duration time.Duration
	Easing   string
}

type Padding struct {
	Top, Right, Bottom, Left float64
}

type LayoutOptions struct {
	Padding Padding
}

type Elements struct {
	Point PointOptions
	Line  LineOptions
	Bar   BarOptions
	Arc   ArcOptions
}

type PointOptions struct {
	Radius, HoverRadius, HitRadius float64
}

type LineOptions struct {
	Tension, BorderWidth float64
	Fill                 bool
}

type BarOptions struct {
	BorderRadius, BorderWidth, HoverScale float64
}

type ArcOptions struct {
	BorderWidth, HoverOffset float64
}

type Scales struct {
	X, Y Axis
}

type Axis struct {
	Display     bool
	BeginAtZero bool
	Grid        Grid
	Ticks       Ticks
}

type Grid struct {
	Display bool
	Color   Color
}

type Ticks struct {
	Padding, FontSize float64
	Color             Color
}

type FunnelOptions struct {
	Sort       SortPolicy
	Gap, Width float64
}

// GaugeRange colors the part of the dial between Min and Max.
type GaugeRange struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max"`
	Color Color   `yaml:"color"`
}

type GaugeOptions struct {
	StartAngle, EndAngle float64
	Thickness            float64
	ShowValue            bool
	Ranges               []GaugeRange
}

type WaterfallOptions struct {
	PositiveColor, NegativeColor, TotalColor, ConnectorColor Color
	ConnectorLine, DashedConnectors, ShowValues             bool
}

type ConversionFunnelOptions struct {
	ValueFontSize, LabelFontSize float64
	BarColor, FinalColor         Color
	ShowConversionRates          bool
}

type Plugins struct {
	Legend       Legend
	Title        Title
	Tooltip      Tooltip
	DetailedView DetailedView
}

type Legend struct {
	Display  bool
	Position Position
	Align    Align
	Padding  float64
	Labels   LegendLabels
}

type LegendLabels struct {
	Padding, BoxWidth, FontSize float64
	Color                       Color
}

type Title struct {
	Display  bool
	Text     string
	Align    Align
	FontSize float64
	Color    Color
	Padding  TitlePadding
}

type TitlePadding struct {
	Top, Bottom float64
}

type Tooltip struct {
	Enabled bool
}

type DetailedView struct {
	Enabled     bool
	Trigger     Trigger
	ShowStats   bool
	ShowRawData bool
	// CustomFields are appended to the detailed view in order.
	CustomFields []CustomField
}

// CustomField is an extra detailed view row. Compute, when set, takes
// precedence over the static Value.
type CustomField struct {
	Label   string                  `yaml:"label"`
	Value   string                  `yaml:"value"`
	Compute func(DataPoint) string `yaml:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() Options {
	return Options{
		Animation: AnimationOptions{
			Duration: 900 * time.Millisecond,
			Easing:   "easeOutQuart",
		},
		Layout: LayoutOptions{
			Padding: Padding{Top: 20, Right: 20, Bottom: 20, Left: 20},
		},
		Elements: Elements{
			Point: PointOptions{Radius: 4, HoverRadius: 6, HitRadius: 12},
			Line:  LineOptions{Tension: 0.4, BorderWidth: 3, Fill: true},
			Bar:   BarOptions{BorderRadius: 6, HoverScale: 1.03},
			Arc:   ArcOptions{BorderWidth: 3, HoverOffset: 12},
		},
		Scales: Scales{
			X: Axis{
				Display: true,
				Grid:    Grid{Color: MustParseColor("rgba(0,0,0,0.05)")},
				Ticks:   Ticks{Padding: 10, FontSize: 11, Color: MustParseColor("#6b7280")},
			},
			Y: Axis{
				Display:     true,
				BeginAtZero: true,
				Grid:        Grid{Display: true, Color: MustParseColor("rgba(0,0,0,0.06)")},
				Ticks:       Ticks{Padding: 10, FontSize: 11, Color: MustParseColor("#6b7280")},
			},
		},
		Funnel: FunnelOptions{Sort: SortDesc, Gap: 0.02, Width: 0.7},
		Gauge: GaugeOptions{
			StartAngle: -135,
			EndAngle:   135,
			Thickness:  0.22,
			ShowValue:  true,
			Ranges: []GaugeRange{
				{Min: 0, Max: 33, Color: MustParseColor("#ef4444")},
				{Min: 33, Max: 66, Color: MustParseColor("#f59e0b")},
				{Min: 66, Max: 100, Color: MustParseColor("#10b981")},
			},
		},
		Waterfall: WaterfallOptions{
			PositiveColor:    MustParseColor("#10b981"),
			NegativeColor:    MustParseColor("#ef4444"),
			TotalColor:       MustParseColor("#3b82f6"),
			ConnectorColor:   MustParseColor("rgba(0,0,0,0.2)"),
			ConnectorLine:    true,
			DashedConnectors: true,
			ShowValues:       true,
		},
		ConversionFunnel: ConversionFunnelOptions{
			ValueFontSize:       18,
			LabelFontSize:       13,
			BarColor:            MustParseColor("#6ba3f9"),
			FinalColor:          MustParseColor("#10b981"),
			ShowConversionRates: true,
		},
		Plugins: Plugins{
			Legend: Legend{
				Display:  true,
				Position: PositionTop,
				Align:    AlignCenter,
				Padding:  16,
				Labels:   LegendLabels{Padding: 14, BoxWidth: 14, FontSize: 12, Color: MustParseColor("#374151")},
			},
			Title: Title{
				Align:    AlignCenter,
				FontSize: 18,
				Color:    MustParseColor("#111827"),
				Padding:  TitlePadding{Top: 12, Bottom: 16},
			},
			Tooltip: Tooltip{Enabled: true},
			DetailedView: DetailedView{
				Enabled:     true,
				Trigger:     TriggerDoubleClick,
				ShowStats:   true,
				ShowRawData: true,
			},
		},
	}
}

// Overrides mirrors Options with optional leaves. A nil leaf keeps the value
// it is merged onto; nested groups are always merged field by field.
type Overrides struct {
	BackgroundColor  *Color                    `yaml:"backgroundColor,omitempty"`
	Animation        AnimationOverrides        `yaml:"animation,omitempty"`
	Layout           LayoutOverrides           `yaml:"layout,omitempty"`
	Elements         ElementsOverrides         `yaml:"elements,omitempty"`
	Scales           ScalesOverrides           `yaml:"scales,omitempty"`
	Funnel           FunnelOverrides           `yaml:"funnel,omitempty"`
	Gauge            GaugeOverrides            `yaml:"gauge,omitempty"`
	Waterfall        WaterfallOverrides        `yaml:"waterfall,omitempty"`
	ConversionFunnel ConversionFunnelOverrides `yaml:"conversionFunnel,omitempty"`
	Plugins          PluginsOverrides          `yaml:"plugins,omitempty"`
}

type AnimationOverrides struct {
	Duration *time.Duration `yaml:"duration,omitempty"`
	Easing   *string        `yaml:"easing,omitempty"`
}

type LayoutOverrides struct {
	Padding PaddingOverrides `yaml:"padding,omitempty"`
}

type PaddingOverrides struct {
	Top    *float64 `yaml:"top,omitempty"`
	Right  *float64 `yaml:"right,omitempty"`
	Bottom *float64 `yaml:"bottom,omitempty"`
	Left   *float64 `yaml:"left,omitempty"`
}

type ElementsOverrides struct {
	Point struct {
		Radius      *float64 `yaml:"radius,omitempty"`
		HoverRadius *float64 `yaml:"hoverRadius,omitempty"`
		HitRadius   *float64 `yaml:"hitRadius,omitempty"`
	} `yaml:"point,omitempty"`
	Line struct {
		Tension     *float64 `yaml:"tension,omitempty"`
		BorderWidth *float64 `yaml:"borderWidth,omitempty"`
		Fill        *bool    `yaml:"fill,omitempty"`
	} `yaml:"line,omitempty"`
	Bar struct {
		BorderRadius *float64 `yaml:"borderRadius,omitempty"`
		BorderWidth  *float64 `yaml:"borderWidth,omitempty"`
		HoverScale   *float64 `yaml:"hoverScale,omitempty"`
	} `yaml:"bar,omitempty"`
	Arc struct {
		BorderWidth *float64 `yaml:"borderWidth,omitempty"`
		HoverOffset *float64 `yaml:"hoverOffset,omitempty"`
	} `yaml:"arc,omitempty"`
}

type ScalesOverrides struct {
	X AxisOverrides `yaml:"x,omitempty"`
	Y AxisOverrides `yaml:"y,omitempty"`
}

type AxisOverrides struct {
	Display     *bool `yaml:"display,omitempty"`
	BeginAtZero *bool `yaml:"beginAtZero,omitempty"`
	Grid        struct {
		Display *bool  `yaml:"display,omitempty"`
		Color   *Color `yaml:"color,omitempty"`
	} `yaml:"grid,omitempty"`
	Ticks struct {
		Padding  *float64 `yaml:"padding,omitempty"`
		FontSize *float64 `yaml:"fontSize,omitempty"`
		Color    *Color   `yaml:"color,omitempty"`
	} `yaml:"ticks,omitempty"`
}

type FunnelOverrides struct {
	Sort  *SortPolicy `yaml:"sort,omitempty"`
	Gap   *float64    `yaml:"gap,omitempty"`
	Width *float64    `yaml:"width,omitempty"`
}

type GaugeOverrides struct {
	StartAngle *float64      `yaml:"startAngle,omitempty"`
	EndAngle   *float64      `yaml:"endAngle,omitempty"`
	Thickness  *float64      `yaml:"thickness,omitempty"`
	ShowValue  *bool         `yaml:"showValue,omitempty"`
	Ranges     *[]GaugeRange `yaml:"ranges,omitempty"`
}

type WaterfallOverrides struct {
	PositiveColor    *Color `yaml:"positiveColor,omitempty"`
	NegativeColor    *Color `yaml:"negativeColor,omitempty"`
	TotalColor       *Color `yaml:"totalColor,omitempty"`
	ConnectorColor   *Color `yaml:"connectorColor,omitempty"`
	ConnectorLine    *bool  `yaml:"connectorLine,omitempty"`
	DashedConnectors *bool  `yaml:"dashedConnectors,omitempty"`
	ShowValues       *bool  `yaml:"showValues,omitempty"`
}

type ConversionFunnelOverrides struct {
	ValueFontSize       *float64 `yaml:"valueFontSize,omitempty"`
	LabelFontSize       *float64 `yaml:"labelFontSize,omitempty"`
	BarColor            *Color   `yaml:"barColor,omitempty"`
	FinalColor          *Color   `yaml:"finalColor,omitempty"`
	ShowConversionRates *bool    `yaml:"showConversionRates,omitempty"`
}

type PluginsOverrides struct {
	Legend struct {
		Display  *bool     `yaml:"display,omitempty"`
		Position *Position `yaml:"position,omitempty"`
		Align    *Align    `yaml:"align,omitempty"`
		Padding  *float64  `yaml:"padding,omitempty"`
		Labels   struct {
			Padding  *float64 `yaml:"padding,omitempty"`
			BoxWidth *float64 `yaml:"boxWidth,omitempty"`
			FontSize *float64 `yaml:"fontSize,omitempty"`
			Color    *Color   `yaml:"color,omitempty"`
		} `yaml:"labels,omitempty"`
	} `yaml:"legend,omitempty"`
	Title struct {
		Display  *bool    `yaml:"display,omitempty"`
		Text     *string  `yaml:"text,omitempty"`
		Align    *Align   `yaml:"align,omitempty"`
		FontSize *float64 `yaml:"fontSize,omitempty"`
		Color    *Color   `yaml:"color,omitempty"`
		Padding  struct {
			Top    *float64 `yaml:"top,omitempty"`
			Bottom *float64 `yaml:"bottom,omitempty"`
		} `yaml:"padding,omitempty"`
	} `yaml:"title,omitempty"`
	Tooltip struct {
		Enabled *bool `yaml:"enabled,omitempty"`
	} `yaml:"tooltip,omitempty"`
	DetailedView struct {
		Enabled      *bool          `yaml:"enabled,omitempty"`
		Trigger      *Trigger       `yaml:"trigger,omitempty"`
		ShowStats    *bool          `yaml:"showStats,omitempty"`
		ShowRawData  *bool          `yaml:"showRawData,omitempty"`
		CustomFields *[]CustomField `yaml:"customFields,omitempty"`
	} `yaml:"detailedView,omitempty"`
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func ptr[T any](v T) *T {
	return &v
}

// Merge layers ov onto base. Leaves set in ov replace the corresponding
// values; everything else, at any depth, keeps base's value. List leaves
// (gauge ranges, custom fields) are replaced as a whole and never aliased.
func Merge(base Options, ov Overrides) Options {
	out := base
	out.Gauge.Ranges = slices.Clone(base.Gauge.Ranges)
	out.Plugins.DetailedView.CustomFields = slices.Clone(base.Plugins.DetailedView.CustomFields)

	set(&out.BackgroundColor, ov.BackgroundColor)

	set(&out.Animation.Duration, ov.Animation.Duration)
	set(&out.Animation.Easing, ov.Animation.Easing)

	set(&out.Layout.Padding.Top, ov.Layout.Padding.Top)
	set(&out.Layout.Padding.Right, ov.Layout.Padding.Right)
	set(&out.Layout.Padding.Bottom, ov.Layout.Padding.Bottom)
	set(&out.Layout.Padding.Left, ov.Layout.Padding.Left)

	el := &out.Elements
	set(&el.Point.Radius, ov.Elements.Point.Radius)
	set(&el.Point.HoverRadius, ov.Elements.Point.HoverRadius)
	set(&el.Point.HitRadius, ov.Elements.Point.HitRadius)
	set(&el.Line.Tension, ov.Elements.Line.Tension)
	set(&el.Line.BorderWidth, ov.Elements.Line.BorderWidth)
	set(&el.Line.Fill, ov.Elements.Line.Fill)
	set(&el.Bar.BorderRadius, ov.Elements.Bar.BorderRadius)
	set(&el.Bar.BorderWidth, ov.Elements.Bar.BorderWidth)
	set(&el.Bar.HoverScale, ov.Elements.Bar.HoverScale)
	set(&el.Arc.BorderWidth, ov.Elements.Arc.BorderWidth)
	set(&el.Arc.HoverOffset, ov.Elements.Arc.HoverOffset)

	mergeAxis(&out.Scales.X, ov.Scales.X)
	mergeAxis(&out.Scales.Y, ov.Scales.Y)

	set(&out.Funnel.Sort, ov.Funnel.Sort)
	set(&out.Funnel.Gap, ov.Funnel.Gap)
	set(&out.Funnel.Width, ov.Funnel.Width)

	set(&out.Gauge.StartAngle, ov.Gauge.StartAngle)
	set(&out.Gauge.EndAngle, ov.Gauge.EndAngle)
	set(&out.Gauge.Thickness, ov.Gauge.Thickness)
	set(&out.Gauge.ShowValue, ov.Gauge.ShowValue)
	if ov.Gauge.Ranges != nil {
		out.Gauge.Ranges = slices.Clone(*ov.Gauge.Ranges)
	}

	wf := &out.Waterfall
	set(&wf.PositiveColor, ov.Waterfall.PositiveColor)
	set(&wf.NegativeColor, ov.Waterfall.NegativeColor)
	set(&wf.TotalColor, ov.Waterfall.TotalColor)
	set(&wf.ConnectorColor, ov.Waterfall.ConnectorColor)
	set(&wf.ConnectorLine, ov.Waterfall.ConnectorLine)
	set(&wf.DashedConnectors, ov.Waterfall.DashedConnectors)
	set(&wf.ShowValues, ov.Waterfall.ShowValues)

	cf := &out.ConversionFunnel
	set(&cf.ValueFontSize, ov.ConversionFunnel.ValueFontSize)
	set(&cf.LabelFontSize, ov.ConversionFunnel.LabelFontSize)
	set(&cf.BarColor, ov.ConversionFunnel.BarColor)
	set(&cf.FinalColor, ov.ConversionFunnel.FinalColor)
	set(&cf.ShowConversionRates, ov.ConversionFunnel.ShowConversionRates)

	lg, olg := &out.Plugins.Legend, ov.Plugins.Legend
	set(&lg.Display, olg.Display)
	set(&lg.Position, olg.Position)
	set(&lg.Align, olg.Align)
	set(&lg.Padding, olg.Padding)
	set(&lg.Labels.Padding, olg.Labels.Padding)
	set(&lg.Labels.BoxWidth, olg.Labels.BoxWidth)
	set(&lg.Labels.FontSize, olg.Labels.FontSize)
	set(&lg.Labels.Color, olg.Labels.Color)

	ti, oti := &out.Plugins.Title, ov.Plugins.Title
	set(&ti.Display, oti.Display)
	set(&ti.Text, oti.Text)
	set(&ti.Align, oti.Align)
	set(&ti.FontSize, oti.FontSize)
	set(&ti.Color, oti.Color)
	set(&ti.Padding.Top, oti.Padding.Top)
	set(&ti.Padding.Bottom, oti.Padding.Bottom)

	set(&out.Plugins.Tooltip.Enabled, ov.Plugins.Tooltip.Enabled)

	dv, odv := &out.Plugins.DetailedView, ov.Plugins.DetailedView
	set(&dv.Enabled, odv.Enabled)
	set(&dv.Trigger, odv.Trigger)
	set(&dv.ShowStats, odv.ShowStats)
	set(&dv.ShowRawData, odv.ShowRawData)
	if odv.CustomFields != nil {
		dv.CustomFields = slices.Clone(*odv.CustomFields)
	}
	return out
}

func mergeAxis(dst *Axis, ov AxisOverrides) {
	set(&dst.Display, ov.Display)
	set(&dst.BeginAtZero, ov.BeginAtZero)
	set(&dst.Grid.Display, ov.Grid.Display)
	set(&dst.Grid.Color, ov.Grid.Color)
	set(&dst.Ticks.Padding, ov.Ticks.Padding)
	set(&dst.Ticks.FontSize, ov.Ticks.FontSize)
	set(&dst.Ticks.Color, ov.Ticks.Color)
}

// Overrides returns overrides that set every leaf of o, so that merging them
// onto any base reproduces o.
func (o Options) Overrides() Overrides {
	var ov Overrides
	ov.BackgroundColor = ptr(o.BackgroundColor)
	ov.Animation = AnimationOverrides{Duration: ptr(o.Animation.Duration), Easing: ptr(o.Animation.Easing)}
	p := o.Layout.Padding
	ov.Layout.Padding = PaddingOverrides{Top: ptr(p.Top), Right: ptr(p.Right), Bottom: ptr(p.Bottom), Left: ptr(p.Left)}

	el, oel := o.Elements, &ov.Elements
	oel.Point.Radius, oel.Point.HoverRadius, oel.Point.HitRadius = ptr(el.Point.Radius), ptr(el.Point.HoverRadius), ptr(el.Point.HitRadius)
	oel.Line.Tension, oel.Line.BorderWidth, oel.Line.Fill = ptr(el.Line.Tension), ptr(el.Line.BorderWidth), ptr(el.Line.Fill)
	oel.Bar.BorderRadius, oel.Bar.BorderWidth, oel.Bar.HoverScale = ptr(el.Bar.BorderRadius), ptr(el.Bar.BorderWidth), ptr(el.Bar.HoverScale)
	oel.Arc.BorderWidth, oel.Arc.HoverOffset = ptr(el.Arc.BorderWidth), ptr(el.Arc.HoverOffset)

	ov.Scales.X = axisOverrides(o.Scales.X)
	ov.Scales.Y = axisOverrides(o.Scales.Y)

	ov.Funnel = FunnelOverrides{Sort: ptr(o.Funnel.Sort), Gap: ptr(o.Funnel.Gap), Width: ptr(o.Funnel.Width)}
	ov.Gauge = GaugeOverrides{
		StartAngle: ptr(o.Gauge.StartAngle),
		EndAngle:   ptr(o.Gauge.EndAngle),
		Thickness:  ptr(o.Gauge.Thickness),
		ShowValue:  ptr(o.Gauge.ShowValue),
		Ranges:     ptr(slices.Clone(o.Gauge.Ranges)),
	}
	wf := o.Waterfall
	ov.Waterfall = WaterfallOverrides{
		PositiveColor:    ptr(wf.PositiveColor),
		NegativeColor:    ptr(wf.NegativeColor),
		TotalColor:       ptr(wf.TotalColor),
		ConnectorColor:   ptr(wf.ConnectorColor),
		ConnectorLine:    ptr(wf.ConnectorLine),
		DashedConnectors: ptr(wf.DashedConnectors),
		ShowValues:       ptr(wf.ShowValues),
	}
	cf := o.ConversionFunnel
	ov.ConversionFunnel = ConversionFunnelOverrides{
		ValueFontSize:       ptr(cf.ValueFontSize),
		LabelFontSize:       ptr(cf.LabelFontSize),
		BarColor:            ptr(cf.BarColor),
		FinalColor:          ptr(cf.FinalColor),
		ShowConversionRates: ptr(cf.ShowConversionRates),
	}

	lg, olg := o.Plugins.Legend, &ov.Plugins.Legend
	olg.Display, olg.Position, olg.Align, olg.Padding = ptr(lg.Display), ptr(lg.Position), ptr(lg.Align), ptr(lg.Padding)
	olg.Labels.Padding, olg.Labels.BoxWidth = ptr(lg.Labels.Padding), ptr(lg.Labels.BoxWidth)
	olg.Labels.FontSize, olg.Labels.Color = ptr(lg.Labels.FontSize), ptr(lg.Labels.Color)

	ti, oti := o.Plugins.Title, &ov.Plugins.Title
	oti.Display, oti.Text, oti.Align = ptr(ti.Display), ptr(ti.Text), ptr(ti.Align)
	oti.FontSize, oti.Color = ptr(ti.FontSize), ptr(ti.Color)
	oti.Padding.Top, oti.Padding.Bottom = ptr(ti.Padding.Top), ptr(ti.Padding.Bottom)

	ov.Plugins.Tooltip.Enabled = ptr(o.Plugins.Tooltip.Enabled)

	dv, odv := o.Plugins.DetailedView, &ov.Plugins.DetailedView
	odv.Enabled, odv.Trigger = ptr(dv.Enabled), ptr(dv.Trigger)
	odv.ShowStats, odv.ShowRawData = ptr(dv.ShowStats), ptr(dv.ShowRawData)
	odv.CustomFields = ptr(slices.Clone(dv.CustomFields))
	return ov
}

func axisOverrides(a Axis) AxisOverrides {
	var ov AxisOverrides
	ov.Display, ov.BeginAtZero = ptr(a.Display), ptr(a.BeginAtZero)
	ov.Grid.Display, ov.Grid.Color = ptr(a.Grid.Display), ptr(a.Grid.Color)
	ov.Ticks.Padding, ov.Ticks.FontSize, ov.Ticks.Color = ptr(a.Ticks.Padding), ptr(a.Ticks.FontSize), ptr(a.Ticks.Color)
	return ov
}
