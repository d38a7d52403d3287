package models

// RowPattern styles every Index-th table row (1-based).
type RowPattern struct {
	// Index is the stripe period; rows whose position is a multiple of it are styled.
	Index int `json:"index"`
	// Style is the inline CSS applied to matching rows.
	Style string `json:"style"`
}

// ColumnPattern styles table columns whose name contains a substring.
type ColumnPattern struct {
	// NameContains is the substring matched against column names.
	NameContains string `json:"name_contains"`
	// Style is the inline CSS applied to matching header and body cells.
	Style string `json:"style"`
}

// TableFormat holds the row-stripe and column-highlight rules of a formatting block.
type TableFormat struct {
	RowPattern    *RowPattern    `json:"row_pattern,omitempty"`
	ColumnPattern *ColumnPattern `json:"column_pattern,omitempty"`
}

// BarOptions configures a bar chart.
type BarOptions struct {
	Title            string
	BorderWidth      int
	Horizontal       bool
	Stacked          bool
	BackgroundColors []string
	BorderColors     []string
	// ValueColors maps a dataset label to a color that overrides the palette.
	ValueColors   map[string]string
	SortBy        string
	SortDirection string
	Table         TableFormat
}

// LineOptions configures a line chart.
type LineOptions struct {
	Title      string
	ShowPoints bool
	// Tension is the curve tension in percent (0 draws straight segments).
	Tension       int
	Colors        []string
	ValueColors   map[string]string
	SortBy        string
	SortDirection string
	Table         TableFormat
}

// PieOptions configures a pie or doughnut chart.
type PieOptions struct {
	Title           string
	ShowLegend      bool
	Doughnut        bool
	ShowValues      bool
	ShowPercentages bool
	// ValuePosition is one of "inside", "outside" or "legend".
	ValuePosition    string
	BackgroundColors []string
	BorderColors     []string
	// ValueColors maps a category label to a color that overrides the palette.
	ValueColors   map[string]string
	SortBy        string
	SortDirection string
	Table         TableFormat
}

// DefaultBackgroundColors returns the fill palette shared by bar and pie charts.
func DefaultBackgroundColors() []string {
	return []string{
		"rgba(75, 192, 192, 0.2)",
		"rgba(255, 99, 132, 0.2)",
		"rgba(54, 162, 235, 0.2)",
		"rgba(255, 206, 86, 0.2)",
		"rgba(153, 102, 255, 0.2)",
		"rgba(255, 159, 64, 0.2)",
		"rgba(201, 203, 207, 0.2)",
		"rgba(100, 149, 237, 0.2)",
	}
}

// DefaultBorderColors returns the border palette shared by bar and pie charts.
func DefaultBorderColors() []string {
	return []string{
		"rgba(75, 192, 192, 1)",
		"rgba(255, 99, 132, 1)",
		"rgba(54, 162, 235, 1)",
		"rgba(255, 206, 86, 1)",
		"rgba(153, 102, 255, 1)",
		"rgba(255, 159, 64, 1)",
		"rgba(201, 203, 207, 1)",
		"rgba(100, 149, 237, 1)",
	}
}

// DefaultLineColors returns the line chart palette.
func DefaultLineColors() []string {
	return DefaultBorderColors()
}
