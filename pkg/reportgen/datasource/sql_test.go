package datasource

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"
	"github.com/ukaji3/reportgen-go/pkg/reportgen/models"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *SQL {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	db.MustExec(`CREATE TABLE sales (region TEXT, quarter TEXT, amount REAL, note TEXT)`)
	db.MustExec(`INSERT INTO sales VALUES ('North', 'Q1', 10, NULL), ('South', 'Q1', 20.5, 'x@y'), ('North', 'Q2', 5, '')`)
	return NewSQL(db)
}

func TestSQLExecute(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	tbl, err := s.Execute(ctx, "SELECT region, amount, note FROM sales WHERE region = @Region ORDER BY quarter", map[string]interface{}{"region": "North"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if diff := cmp.Diff([]string{"region", "amount", "note"}, tbl.ColumnNames()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	expected := []models.Row{
		{"North", 10.0, nil},
		{"North", 5.0, ""},
	}
	if diff := cmp.Diff(expected, tbl.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLExecuteNilBindingMatchesNothing(t *testing.T) {
	s := openTestDB(t)
	tbl, err := s.Execute(context.Background(), "SELECT region FROM sales WHERE note = @note", map[string]interface{}{"note": nil})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("expected no rows for a null binding, got %d", tbl.Len())
	}
}

func TestSQLExecuteError(t *testing.T) {
	s := openTestDB(t)
	if _, err := s.Execute(context.Background(), "SELECT * FROM missing", nil); err == nil {
		t.Error("expected error for unknown table")
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestBindParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		params   map[string]interface{}
		expected string
		args     []interface{}
	}{
		{
			name:     "named and repeated",
			query:    "SELECT * FROM t WHERE a = @a OR b = @A",
			params:   map[string]interface{}{"a": 1},
			expected: "SELECT * FROM t WHERE a = ? OR b = ?",
			args:     []interface{}{1, 1},
		},
		{
			name:     "missing binds nil",
			query:    "WHERE x = @x",
			expected: "WHERE x = ?",
			args:     []interface{}{nil},
		},
		{
			name:     "quoted literals untouched",
			query:    `WHERE mail = 'a@b.com' AND "col@x" = @v`,
			params:   map[string]interface{}{"v": "z"},
			expected: `WHERE mail = 'a@b.com' AND "col@x" = ?`,
			args:     []interface{}{"z"},
		},
		{
			name:     "server variables untouched",
			query:    "SELECT @@ROWCOUNT, @n",
			params:   map[string]interface{}{"n": 2},
			expected: "SELECT @@ROWCOUNT, ?",
			args:     []interface{}{2},
		},
		{
			name:     "postgres casts kept",
			query:    "SELECT @d::date",
			params:   map[string]interface{}{"d": "2024-01-01"},
			expected: "SELECT ?::date",
			args:     []interface{}{"2024-01-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, args := BindParams(tt.query, tt.params)
			if q != tt.expected {
				t.Errorf("BindParams query = %q, expected %q", q, tt.expected)
			}
			if diff := cmp.Diff(tt.args, args); diff != "" {
				t.Errorf("args mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRouter(t *testing.T) {
	var gotQuery string
	fake := Func(func(ctx context.Context, query string, params map[string]interface{}) (*models.Table, error) {
		gotQuery = query
		return models.NewTable("x"), nil
	})

	r := NewRouter(nil)
	r.Handle("xlsx", fake)
	if _, err := r.Execute(context.Background(), "XLSX: Sales WHERE a = 1", nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if gotQuery != "Sales WHERE a = 1" {
		t.Errorf("routed query = %q", gotQuery)
	}
	if _, err := r.Execute(context.Background(), "SELECT 1", nil); err == nil {
		t.Error("expected error without a default source")
	}

	r.Default = fake
	if _, err := r.Execute(context.Background(), "SELECT a::text", nil); err != nil || gotQuery != "SELECT a::text" {
		t.Errorf("default route got %q, %v", gotQuery, err)
	}
}

func TestRouterPing(t *testing.T) {
	r := NewRouter(openTestDB(t))
	if err := r.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
	if err := NewRouter(nil).Ping(context.Background()); err != nil {
		t.Errorf("Ping without a default source = %v, expected nil", err)
	}
}
