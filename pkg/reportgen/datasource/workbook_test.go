package datasource

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
	"github.com/xuri/excelize/v2"
)

func createTestWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	f.SetSheetRow(sheet, "B2", &[]interface{}{"Region", "Year", "Sales"})
	f.SetSheetRow(sheet, "B3", &[]interface{}{"North", 2024, 10})
	f.SetSheetRow(sheet, "B4", &[]interface{}{"South", 2024, 20.5})
	f.SetSheetRow(sheet, "B5", &[]interface{}{"North", 2023, 7})

	if _, err := f.NewSheet("Lookup Data"); err != nil {
		t.Fatalf("Failed to add sheet: %v", err)
	}
	f.SetSheetRow("Lookup Data", "A1", &[]interface{}{"code", "", "code"})
	f.SetSheetRow("Lookup Data", "A2", &[]interface{}{"n", "North", "x"})

	if err := f.SetDefinedName(&excelize.DefinedName{Name: "Recent", RefersTo: "Sheet1!$B$2:$D$4"}); err != nil {
		t.Fatalf("Failed to define name: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save test file: %v", err)
	}
	return path
}

func TestWorkbookExecute(t *testing.T) {
	wb := NewWorkbook(createTestWorkbook(t))
	ctx := context.Background()

	tbl, err := wb.Execute(ctx, "Sheet1", nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	expectedCols := []models.Column{
		{Name: "Region", Type: models.ColumnString},
		{Name: "Year", Type: models.ColumnInt},
		{Name: "Sales", Type: models.ColumnFloat},
	}
	if diff := cmp.Diff(expectedCols, tbl.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if tbl.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", tbl.Len())
	}
	if tbl.Rows[1][2] != 20.5 || tbl.Rows[0][1] != int64(2024) {
		t.Errorf("unexpected values %v", tbl.Rows)
	}
}

func TestWorkbookSheets(t *testing.T) {
	sheets, err := NewWorkbook(createTestWorkbook(t)).Sheets()
	if err != nil {
		t.Fatalf("Sheets failed: %v", err)
	}
	if diff := cmp.Diff([]string{"Sheet1", "Lookup Data"}, sheets); diff != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", diff)
	}

	if _, err := NewWorkbook(filepath.Join(t.TempDir(), "missing.xlsx")).Sheets(); err == nil {
		t.Error("expected an error for a missing workbook")
	}
}

func TestWorkbookQueries(t *testing.T) {
	wb := NewWorkbook(createTestWorkbook(t))
	ctx := context.Background()

	tests := []struct {
		name   string
		query  string
		params map[string]interface{}
		rows   int
	}{
		{"range", "Sheet1!$B$2:$D$3", nil, 1},
		{"defined name", "Recent", nil, 2},
		{"parameter condition", "Sheet1 WHERE Region = @region", map[string]interface{}{"REGION": "North"}, 2},
		{"literal conditions", "Sheet1 where region = 'North' and Year = 2024", nil, 1},
		{"nil binding matches nothing", "Sheet1 WHERE Region = @region", map[string]interface{}{"region": nil}, 0},
		{"unbound parameter matches nothing", "Sheet1 WHERE Region = @region", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := wb.Execute(ctx, tt.query, tt.params)
			if err != nil {
				t.Fatalf("Execute(%q) failed: %v", tt.query, err)
			}
			if tbl.Len() != tt.rows {
				t.Errorf("Execute(%q) returned %d rows, expected %d", tt.query, tbl.Len(), tt.rows)
			}
		})
	}
}

func TestWorkbookHeaders(t *testing.T) {
	wb := NewWorkbook(createTestWorkbook(t))
	tbl, err := wb.Execute(context.Background(), "'Lookup Data'", nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if diff := cmp.Diff([]string{"code", "Column2", "code_2"}, tbl.ColumnNames()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkbookErrors(t *testing.T) {
	wb := NewWorkbook(createTestWorkbook(t))
	ctx := context.Background()

	if _, err := wb.Execute(ctx, "Missing", nil); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("unknown sheet error = %v, expected ErrSheetNotFound", err)
	}
	if _, err := wb.Execute(ctx, "Missing!A1:B2", nil); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("unknown range sheet error = %v, expected ErrSheetNotFound", err)
	}
	if _, err := wb.Execute(ctx, "Sheet1 WHERE Nope = 1", nil); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("unknown column error = %v, expected ErrInvalidQuery", err)
	}
	if _, err := wb.Execute(ctx, "Sheet1 WHERE broken", nil); !errors.Is(err, ErrInvalidQuery) {
		t.Errorf("bad condition error = %v, expected ErrInvalidQuery", err)
	}
	if _, err := NewWorkbook(filepath.Join(t.TempDir(), "none.xlsx")).Execute(ctx, "Sheet1", nil); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		input    string
		expected *area
	}{
		{"$A$1:$D$10", &area{r1: 1, c1: 1, r2: 10, c2: 4}},
		{"C5:A1", &area{r1: 1, c1: 1, r2: 5, c2: 3}},
		{"A1", nil},
		{"A1:ZZZZ", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.expected, parseRange(tt.input), cmp.AllowUnexported(area{})); diff != "" {
			t.Errorf("parseRange(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"", nil},
		{"123", int64(123)},
		{"-4.5", -4.5},
		{"abc", "abc"},
	}
	for _, tt := range tests {
		if got := parseValue(tt.input); got != tt.expected {
			t.Errorf("parseValue(%q) = %v (%T), expected %v", tt.input, got, got, tt.expected)
		}
	}
}
