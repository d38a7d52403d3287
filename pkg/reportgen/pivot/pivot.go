// Package pivot reshapes row-oriented tables into aggregated grids.
package pivot

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
)

// ErrInvalidArgument indicates a pivot field that is missing or not present
// in the source table.
var ErrInvalidArgument = errors.New("invalid pivot argument")

// TotalLabel labels the synthetic totals row and the row totals column.
const TotalLabel = "Total"

// Config holds the optional ordering and totals settings of a pivot.
type Config struct {
	// RowOrder and ColOrder list keys to place first, in the given order.
	RowOrder []string
	ColOrder []string
	// RowNumeric and ColNumeric sort keys numerically instead of by text.
	RowNumeric bool
	ColNumeric bool
	// RowDesc and ColDesc reverse the sort direction.
	RowDesc bool
	ColDesc bool
	// RowTotals appends a per-row total column.
	RowTotals bool
	// ColTotals appends a totals row.
	ColTotals bool
	// GrandTotal appends a totals row; combined with RowTotals it carries
	// the grand total cell.
	GrandTotal bool
}

// Pivot groups src by rowField and colField and reduces valueField with agg.
// valueField may be empty only for the count aggregator. A nil cfg uses the
// zero Config.
func Pivot(src *models.Table, rowField, colField, valueField string, agg Aggregator, cfg *Config) (*models.Table, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source table", ErrInvalidArgument)
	}
	rowIdx := src.ColumnIndex(rowField)
	if rowIdx < 0 {
		return nil, fmt.Errorf("%w: row field not found: %q", ErrInvalidArgument, rowField)
	}
	colIdx := src.ColumnIndex(colField)
	if colIdx < 0 {
		return nil, fmt.Errorf("%w: column field not found: %q", ErrInvalidArgument, colField)
	}
	valueField = strings.TrimSpace(valueField)
	if valueField == "" && agg != Count {
		return nil, fmt.Errorf("%w: value field must be specified for aggregator %s", ErrInvalidArgument, agg)
	}
	valIdx := -1
	if valueField != "" {
		if valIdx = src.ColumnIndex(valueField); valIdx < 0 {
			return nil, fmt.Errorf("%w: value field not found: %q", ErrInvalidArgument, valueField)
		}
	}
	if cfg == nil {
		cfg = &Config{}
	}

	type cellKey struct{ row, col string }
	groups := make(map[cellKey][]interface{})
	var rowSeen, colSeen []string
	rowSet := make(map[string]bool)
	colSet := make(map[string]bool)
	for i := range src.Rows {
		rk := src.Text(i, rowIdx)
		ck := src.Text(i, colIdx)
		if !rowSet[rk] {
			rowSet[rk] = true
			rowSeen = append(rowSeen, rk)
		}
		if !colSet[ck] {
			colSet[ck] = true
			colSeen = append(colSeen, ck)
		}
		key := cellKey{rk, ck}
		groups[key] = append(groups[key], src.Value(i, valIdx))
	}

	rowKeys := orderKeys(rowSeen, cfg.RowOrder, cfg.RowNumeric, cfg.RowDesc)
	colKeys := orderKeys(colSeen, cfg.ColOrder, cfg.ColNumeric, cfg.ColDesc)

	out := &models.Table{}
	out.AddColumn(rowField, models.ColumnString)
	for _, ck := range colKeys {
		out.AddColumn(uniqueName(out, ck), models.ColumnFloat)
	}
	if cfg.RowTotals {
		out.AddColumn(uniqueName(out, TotalLabel), models.ColumnFloat)
	}

	colSums := make([]float64, len(colKeys))
	for _, rk := range rowKeys {
		row := make(models.Row, 0, len(out.Columns))
		row = append(row, rk)
		var total float64
		for j, ck := range colKeys {
			v := agg.Reduce(groups[cellKey{rk, ck}])
			row = append(row, v)
			total += v
			colSums[j] += v
		}
		if cfg.RowTotals {
			row = append(row, total)
		}
		out.Rows = append(out.Rows, row)
	}

	if cfg.ColTotals || cfg.GrandTotal {
		row := make(models.Row, 0, len(out.Columns))
		row = append(row, TotalLabel)
		var grand float64
		for _, s := range colSums {
			row = append(row, s)
			grand += s
		}
		if cfg.RowTotals {
			row = append(row, grand)
		}
		out.Rows = append(out.Rows, row)
	}
	return out, nil
}

// orderKeys applies an explicit order, or sorts when none is given.
func orderKeys(seen, explicit []string, numeric, desc bool) []string {
	if len(explicit) > 0 {
		keys := make([]string, 0, len(explicit)+len(seen))
		used := make(map[string]bool)
		for _, k := range explicit {
			if !used[k] {
				used[k] = true
				keys = append(keys, k)
			}
		}
		for _, k := range seen {
			if !used[k] {
				used[k] = true
				keys = append(keys, k)
			}
		}
		return keys
	}

	keys := append([]string(nil), seen...)
	if numeric {
		sortNumeric(keys, desc)
		return keys
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := strings.ToLower(keys[i]), strings.ToLower(keys[j])
		if desc {
			return a > b
		}
		return a < b
	})
	return keys
}

// sortNumeric orders parseable keys by value and places the rest after
// them in case-insensitive text order, whatever the direction.
func sortNumeric(keys []string, desc bool) {
	nums := make(map[string]float64, len(keys))
	for _, k := range keys {
		if f, err := strconv.ParseFloat(strings.TrimSpace(k), 64); err == nil && !math.IsNaN(f) {
			nums[k] = f
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, aok := nums[keys[i]]
		b, bok := nums[keys[j]]
		switch {
		case aok && bok:
			if desc {
				return a > b
			}
			return a < b
		case aok != bok:
			return aok
		default:
			return strings.ToLower(keys[i]) < strings.ToLower(keys[j])
		}
	})
}

func uniqueName(t *models.Table, base string) string {
	name := base
	for i := 2; t.HasColumn(name); i++ {
		name = base + " " + strconv.Itoa(i)
	}
	return name
}
