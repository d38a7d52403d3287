package datasource

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
	"github.com/xuri/excelize/v2"
)

// Workbook executes queries against an xlsx file. The file is opened for
// each query and closed afterwards.
//
// A query names its source as a sheet ("Sales"), a sheet range
// ("'Q1 Sales'!$A$1:$D$20") or a defined name, optionally followed by
// equality conditions on header names:
//
//	Sales WHERE Region = @region AND Year = 2024
//
// The first row of the source holds the column names. A condition bound to
// a nil parameter matches no row.
type Workbook struct {
	path string
}

// NewWorkbook returns a workbook source reading path.
func NewWorkbook(path string) *Workbook {
	return &Workbook{path: path}
}

// area is a 1-based inclusive cell rectangle.
type area struct {
	r1, c1, r2, c2 int
}

type condition struct {
	column string
	param  string
	value  interface{}
}

var (
	wherePattern     = regexp.MustCompile(`(?i)\s+where\s+`)
	andPattern       = regexp.MustCompile(`(?i)\s+and\s+`)
	conditionPattern = regexp.MustCompile(`^\s*(.+?)\s*=\s*(@\w+|'[^']*'|"[^"]*"|\S+)\s*$`)
)

// Execute implements Source.
func (w *Workbook) Execute(ctx context.Context, query string, params map[string]interface{}) (*models.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	source, conds, err := parseWorkbookQuery(query)
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet, rng, err := resolveSource(f, source)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if rng == nil {
		rng = dataBounds(rows)
		if rng == nil {
			return &models.Table{}, nil
		}
	}

	t := buildTable(rows, *rng)
	for i := range conds {
		if strings.HasPrefix(conds[i].param, "@") {
			conds[i].value, _ = lookup(params, conds[i].param[1:])
		}
	}
	return filterRows(t, conds)
}

// Sheets lists the sheet names of the workbook.
func (w *Workbook) Sheets() ([]string, error) {
	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func parseWorkbookQuery(query string) (string, []condition, error) {
	parts := wherePattern.Split(strings.TrimSpace(query), 2)
	source := strings.TrimSpace(parts[0])
	if source == "" {
		return "", nil, fmt.Errorf("%w: empty workbook query", ErrInvalidQuery)
	}
	var conds []condition
	if len(parts) == 2 {
		for _, clause := range andPattern.Split(parts[1], -1) {
			m := conditionPattern.FindStringSubmatch(clause)
			if m == nil {
				return "", nil, fmt.Errorf("%w: cannot parse condition %q", ErrInvalidQuery, clause)
			}
			c := condition{column: strings.Trim(m[1], `"[]`)}
			switch v := m[2]; {
			case strings.HasPrefix(v, "@"):
				c.param = v
			case len(v) >= 2 && (v[0] == '\'' || v[0] == '"'):
				c.value = v[1 : len(v)-1]
			default:
				c.value = v
			}
			conds = append(conds, c)
		}
	}
	return source, conds, nil
}

// resolveSource maps a query source to a sheet and an optional range.
func resolveSource(f *excelize.File, source string) (string, *area, error) {
	if sheet, a, ok := parseReference(source); ok {
		if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
			return "", nil, fmt.Errorf("%w: %q", ErrSheetNotFound, sheet)
		}
		return sheet, a, nil
	}
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(name, strings.Trim(source, "'")) {
			return name, nil, nil
		}
	}
	for _, dn := range f.GetDefinedName() {
		if strings.EqualFold(dn.Name, source) {
			if sheet, a, ok := parseReference(strings.TrimPrefix(dn.RefersTo, "=")); ok {
				return sheet, a, nil
			}
		}
	}
	return "", nil, fmt.Errorf("%w: %q", ErrSheetNotFound, source)
}

// parseReference parses 'Sheet'!$A$1:$D$10 or Sheet!A1:D10.
func parseReference(ref string) (string, *area, bool) {
	idx := strings.LastIndex(ref, "!")
	if idx <= 0 {
		return "", nil, false
	}
	sheet := strings.Trim(strings.TrimSpace(ref[:idx]), "'")
	a := parseRange(ref[idx+1:])
	if a == nil {
		return "", nil, false
	}
	return sheet, a, true
}

// parseRange parses a range such as $A$1:$D$10.
func parseRange(s string) *area {
	parts := strings.Split(strings.ReplaceAll(strings.TrimSpace(s), "$", ""), ":")
	if len(parts) != 2 {
		return nil
	}
	c1, r1, err := excelize.CellNameToCoordinates(parts[0])
	if err != nil {
		return nil
	}
	c2, r2, err := excelize.CellNameToCoordinates(parts[1])
	if err != nil {
		return nil
	}
	if r2 < r1 {
		r1, r2 = r2, r1
	}
	if c2 < c1 {
		c1, c2 = c2, c1
	}
	return &area{r1: r1, c1: c1, r2: r2, c2: c2}
}

// dataBounds returns the bounding box of non-empty cells, or nil.
func dataBounds(rows [][]string) *area {
	var a *area
	for r, row := range rows {
		for c, cell := range row {
			if cell == "" {
				continue
			}
			if a == nil {
				a = &area{r1: r + 1, c1: c + 1, r2: r + 1, c2: c + 1}
				continue
			}
			if r+1 < a.r1 {
				a.r1 = r + 1
			}
			if r+1 > a.r2 {
				a.r2 = r + 1
			}
			if c+1 < a.c1 {
				a.c1 = c + 1
			}
			if c+1 > a.c2 {
				a.c2 = c + 1
			}
		}
	}
	return a
}

// buildTable reads the area: first row as headers, the rest as data.
// Fully empty data rows are skipped.
func buildTable(rows [][]string, a area) *models.Table {
	cell := func(r, c int) string {
		if r-1 < len(rows) && c-1 < len(rows[r-1]) {
			return rows[r-1][c-1]
		}
		return ""
	}

	t := &models.Table{}
	for c := a.c1; c <= a.c2; c++ {
		name := strings.TrimSpace(cell(a.r1, c))
		if name == "" {
			name = "Column" + strconv.Itoa(c-a.c1+1)
		}
		base := name
		for i := 2; t.HasColumn(name); i++ {
			name = base + "_" + strconv.Itoa(i)
		}
		t.AddColumn(name, models.ColumnUnknown)
	}

	kinds := make([]models.ColumnType, len(t.Columns))
	for r := a.r1 + 1; r <= a.r2 && r <= len(rows); r++ {
		row := make([]interface{}, len(t.Columns))
		empty := true
		for c := a.c1; c <= a.c2; c++ {
			v := parseValue(cell(r, c))
			if v == nil {
				continue
			}
			empty = false
			i := c - a.c1
			row[i] = v
			kinds[i] = widen(kinds[i], v)
		}
		if !empty {
			t.AppendRow(row...)
		}
	}
	for i, k := range kinds {
		t.Columns[i].Type = k
	}
	return t
}

// parseValue converts cell text to int64, float64 or string. Empty text is nil.
func parseValue(s string) interface{} {
	if s == "" {
		return nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// widen folds the kind of v into the column type seen so far.
func widen(cur models.ColumnType, v interface{}) models.ColumnType {
	var k models.ColumnType
	switch v.(type) {
	case int64:
		k = models.ColumnInt
	case float64:
		k = models.ColumnFloat
	default:
		k = models.ColumnString
	}
	switch {
	case cur == models.ColumnUnknown || cur == k:
		return k
	case cur == models.ColumnString || k == models.ColumnString:
		return models.ColumnString
	default:
		return models.ColumnFloat
	}
}

func filterRows(t *models.Table, conds []condition) (*models.Table, error) {
	if len(conds) == 0 {
		return t, nil
	}
	cols := make([]int, len(conds))
	for i, c := range conds {
		cols[i] = -1
		for j, col := range t.Columns {
			if strings.EqualFold(col.Name, c.column) {
				cols[i] = j
				break
			}
		}
		if cols[i] < 0 {
			return nil, fmt.Errorf("%w: unknown column %q", ErrInvalidQuery, c.column)
		}
	}

	out := &models.Table{Columns: t.Columns}
	for r, row := range t.Rows {
		match := true
		for i, c := range conds {
			if c.value == nil || t.Text(r, cols[i]) != models.FormatValue(c.value) {
				match = false
				break
			}
		}
		if match {
			out.Rows = append(out.Rows, row)
		}
	}
	return out, nil
}
