package pivot

import "github.com/ukaji3/reportgen-go/pkg/reportgen/parser"

// ConfigFromInstructions reads pivot ordering and totals settings:
// pivotRowOrder, pivotColOrder, pivotRowNumeric, pivotColNumeric,
// pivotRowDesc, pivotColDesc, pivotRowTotals, pivotColTotals and
// pivotGrandTotal.
func ConfigFromInstructions(ins parser.Instructions) *Config {
	return &Config{
		RowOrder:   ins.List("pivotRowOrder"),
		ColOrder:   ins.List("pivotColOrder"),
		RowNumeric: ins.Bool("pivotRowNumeric", false),
		ColNumeric: ins.Bool("pivotColNumeric", false),
		RowDesc:    ins.Bool("pivotRowDesc", false),
		ColDesc:    ins.Bool("pivotColDesc", false),
		RowTotals:  ins.Bool("pivotRowTotals", false),
		ColTotals:  ins.Bool("pivotColTotals", false),
		GrandTotal: ins.Bool("pivotGrandTotal", false),
	}
}
