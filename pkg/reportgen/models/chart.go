package models

import "encoding/json"

// ChartKind is the chart type emitted to the charting library.
type ChartKind string

const (
	ChartBar      ChartKind = "bar"
	ChartLine     ChartKind = "line"
	ChartPie      ChartKind = "pie"
	ChartDoughnut ChartKind = "doughnut"
)

// ColorSet is one color per dataset or one color per category.
// A single color serializes as a plain string.
type ColorSet []string

// MarshalJSON implements json.Marshaler.
func (c ColorSet) MarshalJSON() ([]byte, error) {
	if len(c) == 1 {
		return json.Marshal(c[0])
	}
	return json.Marshal([]string(c))
}

// Dataset is one named numeric series of a chart.
type Dataset struct {
	// Label is the series display name (empty for pie datasets).
	Label string `json:"label,omitempty"`
	// Data holds one value per chart label.
	Data []float64 `json:"data"`
	// BackgroundColor is the fill color(s).
	BackgroundColor ColorSet `json:"backgroundColor"`
	// BorderColor is the border or line color(s).
	BorderColor ColorSet `json:"borderColor"`
	// BorderWidth is set for bar and pie datasets.
	BorderWidth *int `json:"borderWidth,omitempty"`
	// Fill is set for line datasets.
	Fill *bool `json:"fill,omitempty"`
	// Tension is the line curve tension in [0, 1].
	Tension *float64 `json:"tension,omitempty"`
	// PointRadius is the line point radius (0 hides points).
	PointRadius *int `json:"pointRadius,omitempty"`
}

// ChartSpec is a resolved chart: labels plus one or more datasets.
type ChartSpec struct {
	// ID is the canvas element id.
	ID string `json:"id"`
	// Kind is the chart type.
	Kind ChartKind `json:"kind"`
	// Title is the chart title.
	Title string `json:"title,omitempty"`
	// Labels holds the category labels.
	Labels []string `json:"labels"`
	// Datasets holds the plotted series.
	Datasets []Dataset `json:"datasets"`
	// Horizontal draws bars along the y axis.
	Horizontal bool `json:"horizontal,omitempty"`
	// Stacked stacks bar datasets.
	Stacked bool `json:"stacked,omitempty"`
	// ShowLegend toggles the pie legend.
	ShowLegend bool `json:"show_legend,omitempty"`
	// ShowValues and ShowPercentages control pie tooltips.
	ShowValues      bool `json:"show_values,omitempty"`
	ShowPercentages bool `json:"show_percentages,omitempty"`
	// ValuePosition is the pie value placement.
	ValuePosition string `json:"value_position,omitempty"`
	// Missing lists referenced columns that the data did not contain.
	Missing []string `json:"missing,omitempty"`
}

// Empty reports whether the chart has nothing to draw.
func (c *ChartSpec) Empty() bool {
	return c == nil || len(c.Datasets) == 0
}

// ChartGroup is one sub-chart of a grouped chart.
type ChartGroup struct {
	// Name is the group value shown as the sub-chart heading.
	Name string `json:"name"`
	// Chart is the sub-chart.
	Chart *ChartSpec `json:"chart"`
}

// ChartGroupSpec is one chart per distinct group value.
type ChartGroupSpec struct {
	// ID is the container element id.
	ID string `json:"id"`
	// Groups holds the sub-charts in ascending group order.
	Groups []ChartGroup `json:"groups"`
}
