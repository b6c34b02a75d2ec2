package charts

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"`
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	ZAxis      string        `json:"zAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint represents a single data point.
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// HeatmapConfig defines a matrix chart. Rows and columns carry the axis
// labels; Values is row-major and aligned with them.
type HeatmapConfig struct {
	Title   string      `json:"title"`
	XAxis   string      `json:"xAxis"`
	YAxis   string      `json:"yAxis"`
	Rows    []string    `json:"rows"`
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// ScatterConfig defines a three-dimensional scatter plot.
type ScatterConfig struct {
	Title  string         `json:"title"`
	XAxis  string         `json:"xAxis"`
	YAxis  string         `json:"yAxis"`
	ZAxis  string         `json:"zAxis"`
	Points []ScatterPoint `json:"points"`
}

// ScatterPoint is one marker in a scatter plot. Label identifies the
// underlying entity, Group drives marker coloring.
type ScatterPoint struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Group string  `json:"group,omitempty"`
}
