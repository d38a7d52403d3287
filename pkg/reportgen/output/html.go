// Package output serializes visual specs to HTML fragments, JSON and XLSX.
package output

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
)

// DefaultFilterDataURL is the endpoint dropdowns with a dataSource load from.
const DefaultFilterDataURL = "/reports/filter-data"

// HTML renders visual specs as markup fragments for Chart.js, DataTables
// and Bootstrap filter controls.
type HTML struct {
	// FilterDataURL is requested by dropdowns that load their options
	// asynchronously. Empty means DefaultFilterDataURL.
	FilterDataURL string
}

// Render returns the fragment for one visual.
func (h HTML) Render(v models.Visual) (string, error) {
	var (
		name string
		data interface{}
	)
	switch x := v.(type) {
	case *models.ChartSpec:
		name, data = "chart", chartView{ID: x.ID, Config: ChartConfig(x)}
	case *models.ChartGroupSpec:
		name, data = "chartGroup", groupView(x)
	case *models.TableSpec:
		name, data = "table", newTableView(x)
	case *models.FilterSpec:
		name, data = "filter", filterView{FilterSpec: x, DataURL: h.dataURL()}
	case *models.Notice:
		name, data = "notice", x
	default:
		return "", fmt.Errorf("unsupported visual %T", v)
	}
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (h HTML) dataURL() string {
	if h.FilterDataURL == "" {
		return DefaultFilterDataURL
	}
	return h.FilterDataURL
}

// Component wraps a fragment in the container the refresh endpoint targets.
// token is the instruction text the component was rendered from.
func Component(id, token, fragment string) string {
	var buf bytes.Buffer
	err := fragments.ExecuteTemplate(&buf, "component", struct {
		ID       string
		Token    string
		Fragment template.HTML
	}{id, token, template.HTML(fragment)})
	if err != nil {
		return fragment
	}
	return buf.String()
}

// FilterPanel places filter fragments in a collapsible panel and wraps the
// panel and body in a GET form submitting to action. Without filters the
// body is returned unchanged.
func FilterPanel(action string, filters []string, body string) string {
	if len(filters) == 0 {
		return body
	}
	controls := make([]template.HTML, len(filters))
	for i, f := range filters {
		controls[i] = template.HTML(f)
	}
	var buf bytes.Buffer
	err := fragments.ExecuteTemplate(&buf, "filterPanel", struct {
		Action  string
		Filters []template.HTML
		Body    template.HTML
	}{action, controls, template.HTML(body)})
	if err != nil {
		return body
	}
	return buf.String()
}

type chartView struct {
	ID     string
	Config map[string]interface{}
}

type chartGroupView struct {
	ID     string
	Groups []struct {
		Name  string
		Chart chartView
	}
}

func groupView(g *models.ChartGroupSpec) chartGroupView {
	v := chartGroupView{ID: g.ID}
	for _, grp := range g.Groups {
		v.Groups = append(v.Groups, struct {
			Name  string
			Chart chartView
		}{grp.Name, chartView{ID: grp.Chart.ID, Config: ChartConfig(grp.Chart)}})
	}
	return v
}

// Styles come from the report's formatting instruction, which is authored
// together with its queries, so they are emitted as trusted CSS.
type tableView struct {
	ID          string
	Columns     []styled
	Rows        []tableRowView
	RowIndex    int
	RowStyle    template.CSS
	ColContains string
	ColStyle    template.CSS
}

type styled struct {
	Text  string
	Style template.CSS
}

type tableRowView struct {
	Style template.CSS
	Cells []styled
}

func newTableView(t *models.TableSpec) tableView {
	v := tableView{ID: t.ID}
	for _, c := range t.Columns {
		v.Columns = append(v.Columns, styled{Text: c.Name, Style: template.CSS(c.Style)})
	}
	for _, r := range t.Rows {
		row := tableRowView{Style: template.CSS(r.Style)}
		for _, c := range r.Cells {
			row.Cells = append(row.Cells, styled{Text: c.Text, Style: template.CSS(c.Style)})
		}
		v.Rows = append(v.Rows, row)
	}
	if rp := t.Format.RowPattern; rp != nil {
		v.RowIndex, v.RowStyle = rp.Index, template.CSS(rp.Style)
	}
	if cp := t.Format.ColumnPattern; cp != nil {
		v.ColContains, v.ColStyle = cp.NameContains, template.CSS(cp.Style)
	}
	return v
}

type filterView struct {
	*models.FilterSpec
	DataURL string
}

// ChartConfig returns the Chart.js configuration object for a chart.
func ChartConfig(c *models.ChartSpec) map[string]interface{} {
	labels := c.Labels
	if labels == nil {
		labels = []string{}
	}
	datasets := c.Datasets
	if datasets == nil {
		datasets = []models.Dataset{}
	}
	plugins := map[string]interface{}{
		"title": map[string]interface{}{"display": true, "text": c.Title},
	}
	options := map[string]interface{}{
		"responsive":          true,
		"maintainAspectRatio": false,
		"plugins":             plugins,
	}

	switch c.Kind {
	case models.ChartBar:
		axis := "x"
		if c.Horizontal {
			axis = "y"
		}
		options["indexAxis"] = axis
		options["scales"] = map[string]interface{}{
			"x": map[string]interface{}{"stacked": c.Stacked},
			"y": map[string]interface{}{"stacked": c.Stacked, "beginAtZero": true},
		}
	case models.ChartLine:
		options["scales"] = map[string]interface{}{
			"y": map[string]interface{}{"beginAtZero": true},
		}
	case models.ChartPie, models.ChartDoughnut:
		plugins["legend"] = map[string]interface{}{"display": c.ShowLegend, "position": "right"}
		plugins["reportgen"] = map[string]interface{}{
			"showValues":      c.ShowValues,
			"showPercentages": c.ShowPercentages,
			"valuePosition":   c.ValuePosition,
		}
	}

	return map[string]interface{}{
		"type": string(c.Kind),
		"data": map[string]interface{}{
			"labels":   labels,
			"datasets": datasets,
		},
		"options": options,
	}
}
