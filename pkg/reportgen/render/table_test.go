package render

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/parser"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/pivot"
)

func TestTableStyles(t *testing.T) {
	data := models.NewTable("Name", "Total Sales")
	data.AppendRow("a", 1)
	data.AppendRow("b", 2.5)
	data.AppendRow("c", nil)

	ins := parser.Parse(`formatting={row:{index:2,style:"background:#eee"},column:{nameContains:"Total",style:"font-weight:bold"}}`)
	spec, err := newTestBuilder().Table(data, ins)
	if err != nil {
		t.Fatalf("Table failed: %v", err)
	}

	expectedCols := []models.TableColumn{{Name: "Name"}, {Name: "Total Sales", Style: "font-weight:bold"}}
	if diff := cmp.Diff(expectedCols, spec.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	expectedRows := []models.TableRow{
		{Cells: []models.TableCell{{Text: "a"}, {Text: "1", Style: "font-weight:bold"}}},
		{Style: "background:#eee", Cells: []models.TableCell{{Text: "b"}, {Text: "2.5", Style: "font-weight:bold"}}},
		{Cells: []models.TableCell{{Text: "c"}, {Text: "", Style: "font-weight:bold"}}},
	}
	if diff := cmp.Diff(expectedRows, spec.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if spec.ID != "datatable_1" {
		t.Errorf("id = %q, expected datatable_1", spec.ID)
	}
}

func TestTablePivot(t *testing.T) {
	data := models.NewTable("Region", "Quarter", "Sales")
	data.AppendRow("North", "Q1", 10)
	data.AppendRow("North", "Q1", 5)
	data.AppendRow("South", "Q2", 7)

	// pivotRow falls back to groupBy and pivotValue to the first series.
	spec, err := newTestBuilder().Table(data, parser.Parse("groupBy=Region;pivotCol=Quarter;series=Sales;pivotRowTotals=true"))
	if err != nil {
		t.Fatalf("Table failed: %v", err)
	}
	var header []string
	for _, c := range spec.Columns {
		header = append(header, c.Name)
	}
	if diff := cmp.Diff([]string{"Region", "Q1", "Q2", "Total"}, header); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	var first []string
	for _, c := range spec.Rows[0].Cells {
		first = append(first, c.Text)
	}
	if diff := cmp.Diff([]string{"North", "15", "0", "15"}, first); diff != "" {
		t.Errorf("first row mismatch (-want +got):\n%s", diff)
	}
}

func TestTablePivotCount(t *testing.T) {
	data := models.NewTable("Region", "Quarter")
	data.AppendRow("North", "Q1")
	data.AppendRow("North", "Q1")

	spec, err := newTestBuilder().Table(data, parser.Parse("pivotRow=Region;pivotCol=Quarter;pivotAgg=count"))
	if err != nil {
		t.Fatalf("Table failed: %v", err)
	}
	if got := spec.Rows[0].Cells[1].Text; got != "2" {
		t.Errorf("count cell = %q, expected 2", got)
	}
}

func TestTablePivotError(t *testing.T) {
	_, err := newTestBuilder().Table(regionSales(), parser.Parse("pivotRow=Region;pivotCol=Missing;pivotValue=Sales"))
	if !errors.Is(err, pivot.ErrInvalidArgument) {
		t.Fatalf("Table error = %v, expected ErrInvalidArgument", err)
	}

	_, err = newTestBuilder().Render(regionSales(), parser.Parse("pivotRow=Region"))
	if !errors.Is(err, pivot.ErrInvalidArgument) {
		t.Errorf("Render error = %v, expected ErrInvalidArgument", err)
	}
}
