// Package models defines data structures shared by the report pipeline.
package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ColumnType names the kind of value a column carries.
type ColumnType string

const (
	ColumnString  ColumnType = "string"
	ColumnInt     ColumnType = "int"
	ColumnFloat   ColumnType = "float"
	ColumnBool    ColumnType = "bool"
	ColumnTime    ColumnType = "time"
	ColumnUnknown ColumnType = ""
)

// Column describes one named column of a Table.
type Column struct {
	// Name is the column name, unique within the table.
	Name string `json:"name"`
	// Type is the declared value kind (empty when the source did not say).
	Type ColumnType `json:"type,omitempty"`
}

// Row holds one value per column. A nil value is the null marker.
type Row []interface{}

// Table is an ordered set of typed columns and rows.
type Table struct {
	// Columns lists the columns in declaration order.
	Columns []Column `json:"columns"`
	// Rows lists the rows in source order.
	Rows []Row `json:"rows"`
}

// NewTable creates a table with untyped columns.
func NewTable(names ...string) *Table {
	t := &Table{}
	for _, name := range names {
		t.AddColumn(name, ColumnUnknown)
	}
	return t
}

// AddColumn appends a column and returns its index.
func (t *Table) AddColumn(name string, typ ColumnType) int {
	t.Columns = append(t.Columns, Column{Name: name, Type: typ})
	return len(t.Columns) - 1
}

// AppendRow appends a row. Missing trailing values are stored as nil.
func (t *Table) AppendRow(values ...interface{}) {
	row := make(Row, len(t.Columns))
	copy(row, values)
	t.Rows = append(t.Rows, row)
}

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Value returns the raw cell value, or nil when out of range.
func (t *Table) Value(row, col int) interface{} {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return t.Rows[row][col]
}

// Text returns the cell formatted as text.
func (t *Table) Text(row, col int) string {
	return FormatValue(t.Value(row, col))
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// FormatValue renders a cell value as plain text. Nil renders as "".
func FormatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 && x.Nanosecond() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case interface{ String() string }:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

// ParseFloat converts a cell value to a float. Nil and unparseable values
// report false.
func ParseFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case bool:
		return 0, false
	}
	s := strings.TrimSpace(FormatValue(v))
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FloatOrZero converts a cell value to a float, treating failures as zero.
func FloatOrZero(v interface{}) float64 {
	f, _ := ParseFloat(v)
	return f
}
