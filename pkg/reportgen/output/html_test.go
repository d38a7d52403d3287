package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
	"github.com/xuri/excelize/v2"
)

func sampleChart() *models.ChartSpec {
	width := 1
	return &models.ChartSpec{
		ID:     "barchart_1",
		Kind:   models.ChartBar,
		Title:  "Sales",
		Labels: []string{"North", "South"},
		Datasets: []models.Dataset{{
			Label:           "Sales",
			Data:            []float64{10, 20},
			BackgroundColor: models.ColorSet{"red"},
			BorderColor:     models.ColorSet{"blue"},
			BorderWidth:     &width,
		}},
		Horizontal: true,
	}
}

func TestRenderChart(t *testing.T) {
	html, err := HTML{}.Render(sampleChart())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for _, want := range []string{
		`<canvas id="barchart_1">`,
		`"labels":["North","South"]`,
		`"backgroundColor":"red"`,
		`"borderWidth":1`,
		`"indexAxis":"y"`,
		`new Chart(`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("chart fragment missing %q:\n%s", want, html)
		}
	}
}

func TestChartConfig(t *testing.T) {
	pie := &models.ChartSpec{Kind: models.ChartDoughnut, ShowLegend: true, ShowValues: true}
	cfg := ChartConfig(pie)
	if cfg["type"] != "doughnut" {
		t.Errorf("type = %v, expected doughnut", cfg["type"])
	}
	data := cfg["data"].(map[string]interface{})
	if labels, ok := data["labels"].([]string); !ok || labels == nil {
		t.Errorf("labels should be an empty slice, got %#v", data["labels"])
	}
	plugins := cfg["options"].(map[string]interface{})["plugins"].(map[string]interface{})
	if _, ok := plugins["legend"]; !ok {
		t.Error("pie config should carry a legend plugin")
	}
}

func TestRenderTableEscapesAndStyles(t *testing.T) {
	spec := &models.TableSpec{
		ID:      "datatable_1",
		Columns: []models.TableColumn{{Name: "Name"}, {Name: "Total", Style: "color:red; font-weight:bold"}},
		Rows: []models.TableRow{
			{Style: "background:rgba(0, 0, 0, 0.1)", Cells: []models.TableCell{{Text: "<b>x</b>"}, {Text: "1", Style: "color:red; font-weight:bold"}}},
		},
		Format: models.TableFormat{RowPattern: &models.RowPattern{Index: 1, Style: "background:#eee"}},
	}
	html, err := HTML{}.Render(spec)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for _, want := range []string{
		`<table id="datatable_1" class="display"`,
		`<th style="color:red; font-weight:bold">Total</th>`,
		`<tr style="background:rgba(0, 0, 0, 0.1)">`,
		`&lt;b&gt;x&lt;/b&gt;`,
		`.DataTable(`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("table fragment missing %q:\n%s", want, html)
		}
	}
}

func TestRenderFilters(t *testing.T) {
	tests := []struct {
		name string
		spec *models.FilterSpec
		want []string
		deny []string
	}{
		{
			name: "dropdown",
			spec: &models.FilterSpec{ID: "f1", Kind: models.FilterDropdown, Param: "region", Label: "Region", Value: "S",
				Options: []models.FilterOption{{Value: "N", Text: "North"}, {Value: "S", Text: "South", Selected: true}}, Affects: "c1"},
			want: []string{`<select id="f1" name="region"`, `data-affects="c1"`, `-- Select --`, `<option value="S" selected>South</option>`},
		},
		{
			name: "required dropdown with source",
			spec: &models.FilterSpec{ID: "f2", Kind: models.FilterDropdown, Param: "d", Label: "D", Required: true,
				Source: &models.FilterSource{Query: "SELECT id FROM t", ValueField: "id", TextField: "id"}},
			want: []string{`$.ajax(`, `"/reports/filter-data"`, `"SELECT id FROM t"`},
			deny: []string{`-- Select --`},
		},
		{
			name: "buttons",
			spec: &models.FilterSpec{ID: "f3", Kind: models.FilterButton, Param: "on", Label: "On", Value: "Yes",
				Options: []models.FilterOption{{Value: "Yes", Text: "Yes", Selected: true}, {Value: "No", Text: "No"}}},
			want: []string{`btn-primary filter-button`, `data-value="No"`, `<input type="hidden" id="f3" name="on" value="Yes">`},
		},
		{
			name: "date",
			spec: &models.FilterSpec{ID: "f4", Kind: models.FilterDate, Param: "from", Label: "From", Value: "2024-01-01"},
			want: []string{`class="form-control datepicker"`, `value="2024-01-01"`, `.datepicker({ dateFormat: 'yy-mm-dd' })`},
		},
		{
			name: "number",
			spec: &models.FilterSpec{ID: "f5", Kind: models.FilterNumber, Param: "n", Label: "N", Min: "0", Step: "5"},
			want: []string{`type="number"`, `min="0"`, `step="5"`},
			deny: []string{`max=`},
		},
		{
			name: "text",
			spec: &models.FilterSpec{ID: "f6", Kind: models.FilterText, Param: "q", Label: "Search", Value: `"quoted"`},
			want: []string{`filter-apply-btn`, `value="&#34;quoted&#34;"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			html, err := HTML{}.Render(tt.spec)
			if err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if !strings.HasPrefix(html, `<div class="filter-component"`) {
				t.Errorf("fragment should start with the filter container:\n%s", html)
			}
			for _, want := range tt.want {
				if !strings.Contains(html, want) {
					t.Errorf("fragment missing %q:\n%s", want, html)
				}
			}
			for _, deny := range tt.deny {
				if strings.Contains(html, deny) {
					t.Errorf("fragment should not contain %q:\n%s", deny, html)
				}
			}
		})
	}
}

func TestRenderNoticeAndComponent(t *testing.T) {
	html, err := HTML{}.Render(&models.Notice{Level: models.NoticeError, Title: "Pivot error", Message: "row field <x> not found"})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	expected := `<div class="alert alert-danger" role="alert"><strong>Pivot error:</strong> row field &lt;x&gt; not found</div>`
	if html != expected {
		t.Errorf("notice = %q, expected %q", html, expected)
	}

	wrapped := Component("c1", `query=SELECT "a"`, "<p>x</p>")
	if expected := `<div class="report-component" id="component_c1" data-token="query=SELECT &#34;a&#34;"><p>x</p></div>`; wrapped != expected {
		t.Errorf("Component = %q, expected %q", wrapped, expected)
	}
}

func TestFilterPanel(t *testing.T) {
	if got := FilterPanel("/reports/x", nil, "body"); got != "body" {
		t.Errorf("FilterPanel without filters = %q, expected body", got)
	}
	got := FilterPanel("/reports/x", []string{"<i>a</i>", "<i>b</i>"}, "<p>body</p>")
	for _, want := range []string{`action="/reports/x"`, `<span class="filter-count badge bg-primary">2</span>`, `<div class="col-md-3"><i>b</i></div>`, `<div class="report-content"><p>body</p></div>`} {
		if !strings.Contains(got, want) {
			t.Errorf("panel missing %q:\n%s", want, got)
		}
	}
}

func TestWriteXLSX(t *testing.T) {
	table := models.NewTable("Region", "Sales")
	table.AppendRow("North", 10.0)
	table.AppendRow("South", 20.5)

	var buf bytes.Buffer
	err := WriteXLSX(&buf, Sheet{Name: "Data", Table: table}, Sheet{Name: "Chart", Chart: sampleChart()})
	if err != nil {
		t.Fatalf("WriteXLSX failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetList(); len(got) != 2 || got[0] != "Data" || got[1] != "Chart" {
		t.Fatalf("sheets = %v, expected [Data Chart]", got)
	}
	rows, err := f.GetRows("Data")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != 3 || rows[0][1] != "Sales" || rows[2][1] != "20.5" {
		t.Errorf("unexpected rows %v", rows)
	}
	chartRows, err := f.GetRows("Chart")
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(chartRows) != 3 || chartRows[0][0] != "Label" || chartRows[1][0] != "North" {
		t.Errorf("unexpected chart rows %v", chartRows)
	}

	if err := WriteXLSX(&buf); err == nil {
		t.Error("WriteXLSX without sheets should fail")
	}
}

func TestToJSON(t *testing.T) {
	compact, err := ToJSON(models.ColorSet{"a"}, false)
	if err != nil || string(compact) != `"a"` {
		t.Errorf("ToJSON(ColorSet{a}) = %s, %v", compact, err)
	}
	pretty, err := ToJSON(map[string]int{"a": 1}, true)
	if err != nil || string(pretty) != "{\n  \"a\": 1\n}" {
		t.Errorf("ToJSON pretty = %q, %v", pretty, err)
	}
}
