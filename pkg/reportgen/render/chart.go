package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/parser"
)

// columns holds the resolved column references of a chart.
type columns struct {
	legend  string
	series  []string
	groupBy string
	missing []string
}

// resolveColumns applies the legends/series/groupBy instructions with
// fallbacks to the first and second column.
func resolveColumns(data *models.Table, ins parser.Instructions, multiSeries bool) columns {
	var c columns
	if legends := ins.List("legends"); len(legends) > 0 {
		c.legend = legends[0]
	} else if data != nil && len(data.Columns) > 0 {
		c.legend = data.Columns[0].Name
	}

	series := ins.List("series")
	if !multiSeries && len(series) > 1 {
		series = series[:1]
	}
	if len(series) == 0 && data != nil && len(data.Columns) > 1 {
		series = []string{data.Columns[1].Name}
	}
	c.series = series
	c.groupBy = ins.String("groupBy", "")

	refs := append([]string{c.legend}, c.series...)
	if c.groupBy != "" {
		refs = append(refs, c.groupBy)
	}
	for _, ref := range refs {
		if ref == "" || !data.HasColumn(ref) {
			c.missing = append(c.missing, ref)
		}
	}
	if c.legend == "" || len(c.series) == 0 {
		c.missing = append(c.missing, "")
	}
	return c
}

func (c columns) ok() bool {
	return len(c.missing) == 0
}

// missingNames returns the non-empty missing references.
func (c columns) missingNames() []string {
	var names []string
	for _, m := range c.missing {
		if m != "" {
			names = append(names, m)
		}
	}
	return names
}

// distinctSorted returns the distinct texts of column col in ascending order.
func distinctSorted(data *models.Table, col int) []string {
	seen := make(map[string]bool)
	var values []string
	for i := range data.Rows {
		v := data.Text(i, col)
		if !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}

// seriesValues returns, for each label, the value of column valCol in the
// row whose legend equals the label. Without a group column the first such
// row wins; with one, only rows of group count and the last of them wins.
// Labels without a row get zero.
func seriesValues(data *models.Table, labels []string, legendCol, valCol, groupCol int, group string) []float64 {
	pos := make(map[string]int, len(labels))
	for i, l := range labels {
		pos[l] = i
	}
	values := make([]float64, len(labels))
	filled := make([]bool, len(labels))
	for i := range data.Rows {
		if groupCol >= 0 && data.Text(i, groupCol) != group {
			continue
		}
		p, ok := pos[data.Text(i, legendCol)]
		if !ok || (groupCol < 0 && filled[p]) {
			continue
		}
		values[p] = models.FloatOrZero(data.Value(i, valCol))
		filled[p] = true
	}
	return values
}

// series is one dataset before colors are applied, tagged with the column
// it was read from.
type series struct {
	column string
	label  string
	data   []float64
}

// buildSeries produces the bar/line datasets: one per series column, or one
// per (series column, group value) when groupBy is set.
func buildSeries(data *models.Table, labels []string, c columns) []series {
	legendCol := data.ColumnIndex(c.legend)
	var out []series
	if c.groupBy == "" {
		for _, name := range c.series {
			out = append(out, series{
				column: name,
				label:  name,
				data:   seriesValues(data, labels, legendCol, data.ColumnIndex(name), -1, ""),
			})
		}
		return out
	}
	groupCol := data.ColumnIndex(c.groupBy)
	groups := distinctSorted(data, groupCol)
	for _, name := range c.series {
		valCol := data.ColumnIndex(name)
		for _, g := range groups {
			label := g
			if len(c.series) > 1 {
				label = fmt.Sprintf("%s - %s", name, g)
			}
			out = append(out, series{
				column: name,
				label:  label,
				data:   seriesValues(data, labels, legendCol, valCol, groupCol, g),
			})
		}
	}
	return out
}

// sortCategories reorders labels and every series by sortBy. sortBy may name
// the legend column (sort by label), a series column (sort by that column's
// values summed over its datasets) or "value" (all datasets summed).
func sortCategories(labels []string, sets []series, legend, sortBy, direction string) {
	if sortBy == "" || len(labels) < 2 {
		return
	}
	desc := direction == "desc"
	idx := make([]int, len(labels))
	for i := range idx {
		idx[i] = i
	}

	var less func(a, b int) bool
	if strings.EqualFold(sortBy, legend) {
		less = func(a, b int) bool {
			if desc {
				return labels[a] > labels[b]
			}
			return labels[a] < labels[b]
		}
	} else {
		keys := make([]float64, len(labels))
		matched := false
		for _, s := range sets {
			if !strings.EqualFold(sortBy, "value") && !strings.EqualFold(sortBy, s.column) {
				continue
			}
			matched = true
			for i, v := range s.data {
				keys[i] += v
			}
		}
		if !matched {
			return
		}
		less = func(a, b int) bool {
			if desc {
				return keys[a] > keys[b]
			}
			return keys[a] < keys[b]
		}
	}
	sort.SliceStable(idx, func(i, j int) bool { return less(idx[i], idx[j]) })

	sorted := make([]string, len(labels))
	for i, p := range idx {
		sorted[i] = labels[p]
	}
	copy(labels, sorted)
	for _, s := range sets {
		d := make([]float64, len(s.data))
		for i, p := range idx {
			d[i] = s.data[p]
		}
		copy(s.data, d)
	}
}

// pick returns the override color for label, or the palette color at index.
func pick(palette []string, overrides map[string]string, label string, index int) string {
	if c, ok := overrides[label]; ok {
		return c
	}
	if len(palette) == 0 {
		return ""
	}
	return palette[index%len(palette)]
}

// Bar resolves a bar chart.
func (b *Builder) Bar(data *models.Table, ins parser.Instructions) *models.ChartSpec {
	opts := parser.ParseBarOptions(ins)
	spec := &models.ChartSpec{
		ID:         b.NewID("barchart"),
		Kind:       models.ChartBar,
		Title:      opts.Title,
		Horizontal: opts.Horizontal,
		Stacked:    opts.Stacked,
	}
	c := resolveColumns(data, ins, true)
	if !c.ok() {
		spec.Missing = c.missingNames()
		return spec
	}

	spec.Labels = distinctSorted(data, data.ColumnIndex(c.legend))
	sets := buildSeries(data, spec.Labels, c)
	sortCategories(spec.Labels, sets, c.legend, opts.SortBy, opts.SortDirection)
	for i, s := range sets {
		width := opts.BorderWidth
		spec.Datasets = append(spec.Datasets, models.Dataset{
			Label:           s.label,
			Data:            s.data,
			BackgroundColor: models.ColorSet{pick(opts.BackgroundColors, opts.ValueColors, s.label, i)},
			BorderColor:     models.ColorSet{pick(opts.BorderColors, opts.ValueColors, s.label, i)},
			BorderWidth:     &width,
		})
	}
	return spec
}

// Line resolves a line chart.
func (b *Builder) Line(data *models.Table, ins parser.Instructions) *models.ChartSpec {
	opts := parser.ParseLineOptions(ins)
	spec := &models.ChartSpec{
		ID:    b.NewID("linechart"),
		Kind:  models.ChartLine,
		Title: opts.Title,
	}
	c := resolveColumns(data, ins, true)
	if !c.ok() {
		spec.Missing = c.missingNames()
		return spec
	}

	spec.Labels = distinctSorted(data, data.ColumnIndex(c.legend))
	sets := buildSeries(data, spec.Labels, c)
	sortCategories(spec.Labels, sets, c.legend, opts.SortBy, opts.SortDirection)
	tension := float64(opts.Tension) / 100
	radius := 0
	if opts.ShowPoints {
		radius = 3
	}
	for i, s := range sets {
		color := pick(opts.Colors, opts.ValueColors, s.label, i)
		fill := false
		spec.Datasets = append(spec.Datasets, models.Dataset{
			Label:           s.label,
			Data:            s.data,
			BackgroundColor: models.ColorSet{color},
			BorderColor:     models.ColorSet{color},
			Fill:            &fill,
			Tension:         &tension,
			PointRadius:     &radius,
		})
	}
	return spec
}

// Pie resolves a pie chart, or one pie per group value when groupBy is set.
// Categories keep the source row order.
func (b *Builder) Pie(data *models.Table, ins parser.Instructions) models.Visual {
	opts := parser.ParsePieOptions(ins)
	id := b.NewID("piechart")
	c := resolveColumns(data, ins, false)
	if !c.ok() {
		return &models.ChartSpec{ID: id, Kind: pieKind(opts), Title: opts.Title, Missing: c.missingNames()}
	}

	legendCol := data.ColumnIndex(c.legend)
	valCol := data.ColumnIndex(c.series[0])
	if c.groupBy == "" {
		return pieChart(id, opts, data, legendCol, valCol, -1, "", c)
	}

	groupCol := data.ColumnIndex(c.groupBy)
	group := &models.ChartGroupSpec{ID: id}
	for i, g := range distinctSorted(data, groupCol) {
		chart := pieChart(fmt.Sprintf("%s_%d", id, i), opts, data, legendCol, valCol, groupCol, g, c)
		group.Groups = append(group.Groups, models.ChartGroup{Name: g, Chart: chart})
	}
	return group
}

func pieKind(opts models.PieOptions) models.ChartKind {
	if opts.Doughnut {
		return models.ChartDoughnut
	}
	return models.ChartPie
}

func pieChart(id string, opts models.PieOptions, data *models.Table, legendCol, valCol, groupCol int, group string, c columns) *models.ChartSpec {
	spec := &models.ChartSpec{
		ID:              id,
		Kind:            pieKind(opts),
		Title:           opts.Title,
		ShowLegend:      opts.ShowLegend,
		ShowValues:      opts.ShowValues,
		ShowPercentages: opts.ShowPercentages,
		ValuePosition:   opts.ValuePosition,
	}
	var values []float64
	for i := range data.Rows {
		if groupCol >= 0 && data.Text(i, groupCol) != group {
			continue
		}
		spec.Labels = append(spec.Labels, data.Text(i, legendCol))
		values = append(values, models.FloatOrZero(data.Value(i, valCol)))
	}
	sets := []series{{column: c.series[0], data: values}}
	sortCategories(spec.Labels, sets, c.legend, opts.SortBy, opts.SortDirection)

	bg := make(models.ColorSet, len(spec.Labels))
	border := make(models.ColorSet, len(spec.Labels))
	for i, label := range spec.Labels {
		bg[i] = pick(opts.BackgroundColors, opts.ValueColors, label, i)
		border[i] = pick(opts.BorderColors, opts.ValueColors, label, i)
	}
	width := 1
	spec.Datasets = []models.Dataset{{
		Data:            sets[0].data,
		BackgroundColor: bg,
		BorderColor:     border,
		BorderWidth:     &width,
	}}
	return spec
}
