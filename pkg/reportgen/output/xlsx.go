package output

import (
	"fmt"
	"io"

	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
	"github.com/xuri/excelize/v2"
)

// Sheet is one named table written to a workbook.
type Sheet struct {
	Name  string
	Table *models.Table
	// Chart, when set, replaces Table: its labels and datasets are written
	// as a table with a native chart beside it.
	Chart *models.ChartSpec
}

// WriteXLSX writes the sheets to w as an xlsx workbook.
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to write")
	}
	f := excelize.NewFile()
	defer f.Close()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for i, s := range sheets {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("Sheet%d", i+1)
		}
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}

		table := s.Table
		if s.Chart != nil {
			table = ChartTable(s.Chart)
		}
		if err := writeTable(f, name, table, header); err != nil {
			return fmt.Errorf("sheet %q: %w", name, err)
		}
		if s.Chart != nil && !s.Chart.Empty() {
			if err := addChart(f, name, s.Chart, table); err != nil {
				return fmt.Errorf("sheet %q chart: %w", name, err)
			}
		}
	}
	return f.Write(w)
}

func writeTable(f *excelize.File, sheet string, t *models.Table, headerStyle int) error {
	if t == nil || len(t.Columns) == 0 {
		return nil
	}
	names := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	if err := f.SetSheetRow(sheet, "A1", &names); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return err
	}
	for r, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		copy(values, row)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// ChartTable lays a chart out as a table: one label column followed by one
// column per dataset.
func ChartTable(c *models.ChartSpec) *models.Table {
	t := models.NewTable("Label")
	for i, ds := range c.Datasets {
		name := ds.Label
		if name == "" {
			name = fmt.Sprintf("Series %d", i+1)
		}
		t.AddColumn(name, models.ColumnFloat)
	}
	for i, label := range c.Labels {
		row := make([]interface{}, 0, len(c.Datasets)+1)
		row = append(row, label)
		for _, ds := range c.Datasets {
			var v interface{}
			if i < len(ds.Data) {
				v = ds.Data[i]
			}
			row = append(row, v)
		}
		t.AppendRow(row...)
	}
	return t
}

var chartTypes = map[models.ChartKind]excelize.ChartType{
	models.ChartBar:      excelize.Col,
	models.ChartLine:     excelize.Line,
	models.ChartPie:      excelize.Pie,
	models.ChartDoughnut: excelize.Doughnut,
}

func addChart(f *excelize.File, sheet string, c *models.ChartSpec, t *models.Table) error {
	typ, ok := chartTypes[c.Kind]
	if !ok {
		return fmt.Errorf("unsupported chart kind %q", c.Kind)
	}
	switch {
	case c.Kind == models.ChartBar && c.Horizontal && c.Stacked:
		typ = excelize.BarStacked
	case c.Kind == models.ChartBar && c.Horizontal:
		typ = excelize.Bar
	case c.Kind == models.ChartBar && c.Stacked:
		typ = excelize.ColStacked
	}

	last := len(c.Labels) + 1
	categories, err := columnRange(sheet, 1, 2, last)
	if err != nil {
		return err
	}
	chart := &excelize.Chart{
		Type:  typ,
		Title: []excelize.RichTextRun{{Text: c.Title}},
	}
	for i := range c.Datasets {
		values, err := columnRange(sheet, i+2, 2, last)
		if err != nil {
			return err
		}
		nameCell, err := excelize.CoordinatesToCellName(i+2, 1, true)
		if err != nil {
			return err
		}
		chart.Series = append(chart.Series, excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!%s", sheet, nameCell),
			Categories: categories,
			Values:     values,
		})
	}
	anchor, err := excelize.CoordinatesToCellName(len(t.Columns)+2, 1)
	if err != nil {
		return err
	}
	return f.AddChart(sheet, anchor, chart)
}

func columnRange(sheet string, col, from, to int) (string, error) {
	start, err := excelize.CoordinatesToCellName(col, from, true)
	if err != nil {
		return "", err
	}
	end, err := excelize.CoordinatesToCellName(col, to, true)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("'%s'!%s:%s", sheet, start, end), nil
}
