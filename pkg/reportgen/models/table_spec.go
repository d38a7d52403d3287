package models

// TableColumn is one header cell.
type TableColumn struct {
	Name  string `json:"name"`
	Style string `json:"style,omitempty"`
}

// TableCell is one body cell.
type TableCell struct {
	Text  string `json:"text"`
	Style string `json:"style,omitempty"`
}

// TableRow is one body row.
type TableRow struct {
	Style string      `json:"style,omitempty"`
	Cells []TableCell `json:"cells"`
}

// TableSpec is a resolved table with per-row and per-column style overrides.
type TableSpec struct {
	// ID is the table element id.
	ID      string        `json:"id"`
	Columns []TableColumn `json:"columns"`
	Rows    []TableRow    `json:"rows"`
	// Format carries the rules so client-side redraws can reapply them.
	Format TableFormat `json:"format"`
}
