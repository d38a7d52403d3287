package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
)

// SQL executes report queries against a database. Queries reference
// parameters as @name; they are bound positionally, never interpolated.
type SQL struct {
	db *sqlx.DB
}

// NewSQL wraps an open database handle.
func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

// OpenSQL opens a database with the named driver. The driver must be
// registered by the caller (sqlite, sqlite3 or postgres in the CLI).
func OpenSQL(driver, dsn string) (*SQL, error) {
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}
	return &SQL{db: db}, nil
}

// Ping verifies the database is reachable.
func (s *SQL) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQL) Close() error {
	return s.db.Close()
}

// Execute runs query and returns its result set as a table.
func (s *SQL) Execute(ctx context.Context, query string, params map[string]interface{}) (*models.Table, error) {
	q, args := BindParams(query, params)
	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(q), args...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}
	t := &models.Table{}
	for _, ct := range types {
		t.AddColumn(ct.Name(), columnType(ct))
	}
	for rows.Next() {
		values, err := rows.SliceScan()
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		t.AppendRow(values...)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return t, nil
}

// BindParams rewrites @name placeholders outside quoted literals to '?' and
// returns the matching arguments in order. Unknown names bind nil. Server
// variables written @@name are left untouched.
func BindParams(query string, params map[string]interface{}) (string, []interface{}) {
	var (
		b     strings.Builder
		args  []interface{}
		quote byte
	)
	for i := 0; i < len(query); i++ {
		c := query[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			b.WriteByte(c)
			continue
		}
		switch {
		case c == '\'' || c == '"':
			quote = c
		case c == '@' && i+1 < len(query) && query[i+1] == '@':
			b.WriteString("@@")
			i++
			for i+1 < len(query) && isWordByte(query[i+1]) {
				i++
				b.WriteByte(query[i])
			}
			continue
		case c == '@' && i+1 < len(query) && isWordByte(query[i+1]):
			j := i + 1
			for j < len(query) && isWordByte(query[j]) {
				j++
			}
			v, _ := lookup(params, query[i+1:j])
			args = append(args, v)
			b.WriteByte('?')
			i = j - 1
			continue
		}
		b.WriteByte(c)
	}
	return b.String(), args
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

var (
	timeType    = reflect.TypeOf(time.Time{})
	nullTime    = reflect.TypeOf(sql.NullTime{})
	nullString  = reflect.TypeOf(sql.NullString{})
	nullInt64   = reflect.TypeOf(sql.NullInt64{})
	nullFloat64 = reflect.TypeOf(sql.NullFloat64{})
	nullBool    = reflect.TypeOf(sql.NullBool{})
)

// columnType maps a driver scan type to a column type.
func columnType(ct *sql.ColumnType) models.ColumnType {
	st := ct.ScanType()
	if st == nil {
		return models.ColumnUnknown
	}
	for st.Kind() == reflect.Ptr {
		st = st.Elem()
	}
	switch st {
	case timeType, nullTime:
		return models.ColumnTime
	case nullString:
		return models.ColumnString
	case nullInt64:
		return models.ColumnInt
	case nullFloat64:
		return models.ColumnFloat
	case nullBool:
		return models.ColumnBool
	}
	switch st.Kind() {
	case reflect.String:
		return models.ColumnString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return models.ColumnInt
	case reflect.Float32, reflect.Float64:
		return models.ColumnFloat
	case reflect.Bool:
		return models.ColumnBool
	case reflect.Slice:
		if st.Elem().Kind() == reflect.Uint8 {
			return models.ColumnString
		}
	}
	return models.ColumnUnknown
}
