package parser

import (
	"regexp"
	"strings"

	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
)

var (
	valueColorsPattern = regexp.MustCompile(`valueColors\s*:\s*\{([^}]+)\}`)
	colorPairPattern   = regexp.MustCompile(`['"]([^'"]+)['"]\s*:\s*['"]([^'"]+)['"]`)
)

// validValuePositions lists the accepted pie valuePosition values.
var validValuePositions = map[string]bool{
	"inside":  true,
	"outside": true,
	"legend":  true,
}

// formatting is the parsed top level of a formatting block.
type formatting struct {
	fields map[string]string
	raw    string
}

// parseFormatting reads the formatting instruction. ok is false when the
// value is absent or malformed, in which case callers keep every default.
func parseFormatting(ins Instructions) (formatting, bool) {
	raw, present := ins["formatting"]
	if !present || strings.TrimSpace(raw) == "" {
		return formatting{}, false
	}
	fields, ok := parseObject(raw)
	if !ok {
		return formatting{}, false
	}
	return formatting{fields: fields, raw: raw}, true
}

// parseObject splits a {key:value,...} pseudo-object into its top-level
// fields. Values keep nested blocks verbatim. A text that opens a brace
// without a matching close is malformed. Text without braces is read as a
// bare field list.
func parseObject(text string) (map[string]string, bool) {
	body := strings.TrimSpace(text)
	if strings.HasPrefix(body, "{") {
		end := MatchingClose(body, 0)
		if end < 0 {
			return nil, false
		}
		body = body[1:end]
	}
	fields := make(map[string]string)
	for _, part := range SplitTopLevel(body, ',') {
		colon := strings.IndexByte(part, ':')
		if colon <= 0 {
			continue
		}
		key := Unquote(strings.TrimSpace(part[:colon]))
		if key == "" {
			continue
		}
		fields[key] = strings.TrimSpace(part[colon+1:])
	}
	return fields, true
}

func (f formatting) str(key, def string) string {
	v, ok := f.fields[key]
	if !ok {
		return def
	}
	v = Unquote(v)
	if v == "" {
		return def
	}
	return v
}

func (f formatting) boolean(key string, def bool) bool {
	v, ok := f.fields[key]
	if !ok {
		return def
	}
	return parseBool(v, def)
}

func (f formatting) integer(key string, def int) int {
	v, ok := f.fields[key]
	if !ok {
		return def
	}
	return parseInt(v, def)
}

// sortOptions reads the sortBy and sortDirection instructions.
func sortOptions(ins Instructions, defDirection string) (string, string) {
	direction := strings.ToLower(ins.String("sortDirection", defDirection))
	return ins.String("sortBy", ""), direction
}

// ParseBarOptions resolves bar chart options from the instructions.
func ParseBarOptions(ins Instructions) models.BarOptions {
	opts := models.BarOptions{
		Title:            "Bar Chart",
		BorderWidth:      1,
		BackgroundColors: models.DefaultBackgroundColors(),
		BorderColors:     models.DefaultBorderColors(),
	}
	opts.SortBy, opts.SortDirection = sortOptions(ins, "")

	f, ok := parseFormatting(ins)
	if !ok {
		return opts
	}
	opts.Title = f.str("title", opts.Title)
	opts.BorderWidth = f.integer("borderWidth", opts.BorderWidth)
	opts.Horizontal = f.boolean("horizontal", opts.Horizontal)
	opts.Stacked = f.boolean("stacked", opts.Stacked)
	opts.BackgroundColors = f.colors("backgroundColors", opts.BackgroundColors)
	opts.BorderColors = f.colors("borderColors", opts.BorderColors)
	opts.ValueColors = ParseValueColors(f.raw)
	opts.Table = f.table()
	return opts
}

// ParseLineOptions resolves line chart options from the instructions.
func ParseLineOptions(ins Instructions) models.LineOptions {
	opts := models.LineOptions{
		Title:      "Line Chart",
		ShowPoints: true,
		Colors:     models.DefaultLineColors(),
	}
	opts.SortBy, opts.SortDirection = sortOptions(ins, "")

	f, ok := parseFormatting(ins)
	if !ok {
		return opts
	}
	opts.Title = f.str("title", opts.Title)
	opts.ShowPoints = f.boolean("showPoints", opts.ShowPoints)
	opts.Tension = f.integer("tension", opts.Tension)
	opts.Colors = f.colors("colors", opts.Colors)
	opts.ValueColors = ParseValueColors(f.raw)
	opts.Table = f.table()
	return opts
}

// ParsePieOptions resolves pie chart options from the instructions.
func ParsePieOptions(ins Instructions) models.PieOptions {
	opts := models.PieOptions{
		Title:            "Pie Chart",
		ShowLegend:       true,
		ShowValues:       true,
		ShowPercentages:  true,
		ValuePosition:    "legend",
		BackgroundColors: models.DefaultBackgroundColors(),
		BorderColors:     models.DefaultBorderColors(),
	}
	opts.SortBy, opts.SortDirection = sortOptions(ins, "desc")

	f, ok := parseFormatting(ins)
	if !ok {
		return opts
	}
	opts.Title = f.str("title", opts.Title)
	opts.ShowLegend = f.boolean("showLegend", opts.ShowLegend)
	opts.Doughnut = f.boolean("doughnut", opts.Doughnut)
	opts.ShowValues = f.boolean("showValues", opts.ShowValues)
	opts.ShowPercentages = f.boolean("showPercentages", opts.ShowPercentages)
	if pos := f.str("valuePosition", ""); validValuePositions[pos] {
		opts.ValuePosition = pos
	}
	opts.BackgroundColors = f.colors("backgroundColors", opts.BackgroundColors)
	opts.BorderColors = f.colors("borderColors", opts.BorderColors)
	opts.ValueColors = ParseValueColors(f.raw)
	opts.Table = f.table()
	return opts
}

// ParseTableFormat resolves the row-stripe and column-highlight rules of the
// formatting instruction.
func ParseTableFormat(ins Instructions) models.TableFormat {
	f, ok := parseFormatting(ins)
	if !ok {
		return models.TableFormat{}
	}
	return f.table()
}

func (f formatting) table() models.TableFormat {
	var tf models.TableFormat
	if row, ok := f.block("row"); ok {
		index := parseInt(row["index"], 0)
		style := Unquote(row["style"])
		if index > 0 && style != "" {
			tf.RowPattern = &models.RowPattern{Index: index, Style: style}
		}
	}
	if col, ok := f.block("column"); ok {
		name := Unquote(col["nameContains"])
		style := Unquote(col["style"])
		if name != "" && style != "" {
			tf.ColumnPattern = &models.ColumnPattern{NameContains: name, Style: style}
		}
	}
	return tf
}

// block parses a nested {...} field.
func (f formatting) block(key string) (map[string]string, bool) {
	v, ok := f.fields[key]
	if !ok || !strings.HasPrefix(v, "{") {
		return nil, false
	}
	return parseObject(v)
}

// colors reads an optional palette override given as a list literal.
func (f formatting) colors(key string, def []string) []string {
	v, ok := f.fields[key]
	if !ok {
		return def
	}
	if list := ParseList(v); len(list) > 0 {
		return list
	}
	return def
}

// ParseValueColors extracts a valueColors:{"label":"color",...} map from a
// formatting value. It returns nil when no pair is found.
func ParseValueColors(text string) map[string]string {
	m := valueColorsPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var colors map[string]string
	for _, pair := range colorPairPattern.FindAllStringSubmatch(m[1], -1) {
		if colors == nil {
			colors = make(map[string]string)
		}
		colors[pair[1]] = pair[2]
	}
	return colors
}
