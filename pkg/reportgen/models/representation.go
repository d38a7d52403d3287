package models

import "strings"

// Representation selects the renderer for one token.
type Representation int

const (
	// RepresentationUnknown is an unrecognized representation value.
	RepresentationUnknown Representation = iota
	// RepresentationTable renders a data table (also the default when unset).
	RepresentationTable
	// RepresentationBar renders a bar chart.
	RepresentationBar
	// RepresentationLine renders a line chart.
	RepresentationLine
	// RepresentationPie renders a pie or doughnut chart.
	RepresentationPie
	// RepresentationFilter renders an input filter control.
	RepresentationFilter
)

// RepresentationMap maps accepted instruction values (lower case) to representations.
var RepresentationMap = map[string]Representation{
	"table":     RepresentationTable,
	"datatable": RepresentationTable,
	"barchart":  RepresentationBar,
	"bar":       RepresentationBar,
	"linechart": RepresentationLine,
	"line":      RepresentationLine,
	"piechart":  RepresentationPie,
	"pie":       RepresentationPie,
	"filter":    RepresentationFilter,
}

// ParseRepresentation resolves a representation instruction value.
// An empty value means table.
func ParseRepresentation(s string) Representation {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RepresentationTable
	}
	if r, ok := RepresentationMap[s]; ok {
		return r
	}
	return RepresentationUnknown
}

func (r Representation) String() string {
	switch r {
	case RepresentationTable:
		return "table"
	case RepresentationBar:
		return "barchart"
	case RepresentationLine:
		return "linechart"
	case RepresentationPie:
		return "piechart"
	case RepresentationFilter:
		return "filter"
	default:
		return "unknown"
	}
}
