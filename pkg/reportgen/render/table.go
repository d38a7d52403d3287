package render

import (
	"fmt"
	"strings"

	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/parser"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/pivot"
)

// Table resolves a table. When pivotRow or pivotCol is given the data is
// pivoted first; pivotRow falls back to groupBy and pivotValue to the first
// series column unless the aggregator is count.
func (b *Builder) Table(data *models.Table, ins parser.Instructions) (*models.TableSpec, error) {
	if ins.Has("pivotRow") || ins.Has("pivotCol") {
		pivoted, err := PivotTable(data, ins)
		if err != nil {
			return nil, err
		}
		data = pivoted
	}

	format := parser.ParseTableFormat(ins)
	spec := &models.TableSpec{
		ID:     b.NewID("datatable"),
		Format: format,
	}
	if data == nil {
		return spec, nil
	}

	colStyles := make([]string, len(data.Columns))
	for i, col := range data.Columns {
		if cp := format.ColumnPattern; cp != nil && strings.Contains(col.Name, cp.NameContains) {
			colStyles[i] = cp.Style
		}
		spec.Columns = append(spec.Columns, models.TableColumn{Name: col.Name, Style: colStyles[i]})
	}
	for r := range data.Rows {
		row := models.TableRow{Cells: make([]models.TableCell, len(data.Columns))}
		if rp := format.RowPattern; rp != nil && (r+1)%rp.Index == 0 {
			row.Style = rp.Style
		}
		for c := range data.Columns {
			row.Cells[c] = models.TableCell{Text: data.Text(r, c), Style: colStyles[c]}
		}
		spec.Rows = append(spec.Rows, row)
	}
	return spec, nil
}

// PivotTable applies the pivot instructions to data.
func PivotTable(data *models.Table, ins parser.Instructions) (*models.Table, error) {
	agg := pivot.ParseAggregator(ins.String("pivotAgg", "sum"))
	rowField := ins.String("pivotRow", ins.String("groupBy", ""))
	colField := ins.String("pivotCol", "")
	valueField := ins.String("pivotValue", "")
	if valueField == "" && agg != pivot.Count {
		if series := ins.List("series"); len(series) > 0 {
			valueField = series[0]
		}
	}
	out, err := pivot.Pivot(data, rowField, colField, valueField, agg, pivot.ConfigFromInstructions(ins))
	if err != nil {
		return nil, fmt.Errorf("pivot %s by %s: %w", rowField, colField, err)
	}
	return out, nil
}
