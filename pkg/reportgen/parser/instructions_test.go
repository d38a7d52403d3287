package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Instructions
	}{
		{
			name:     "simple fields",
			input:    "query=SELECT 1;representation=barchart",
			expected: Instructions{"query": "SELECT 1", "representation": "barchart"},
		},
		{
			name:     "nested scopes are not split",
			input:    `a="x;y";b={c:1,d:[2,3]}`,
			expected: Instructions{"a": "x;y", "b": "{c:1,d:[2,3]}"},
		},
		{
			name:     "single quotes stripped",
			input:    "title='Sales; by region'",
			expected: Instructions{"title": "Sales; by region"},
		},
		{
			name:     "escaped quote does not close scope",
			input:    `a="say \"hi;there\"";b=2`,
			expected: Instructions{"a": `say \"hi;there\"`, "b": "2"},
		},
		{
			name:     "field without equals dropped",
			input:    "orphan;key=value",
			expected: Instructions{"key": "value"},
		},
		{
			name:     "empty key dropped",
			input:    "=value;k=v",
			expected: Instructions{"k": "v"},
		},
		{
			name:     "value splits on first equals only",
			input:    "query=SELECT * FROM t WHERE a = @a",
			expected: Instructions{"query": "SELECT * FROM t WHERE a = @a"},
		},
		{
			name:     "last occurrence wins",
			input:    "series=A;series=B",
			expected: Instructions{"series": "B"},
		},
		{
			name:     "query line breaks collapsed",
			input:    "query=SELECT a\r\nFROM t\nWHERE b = 1;title=x\ny",
			expected: Instructions{"query": "SELECT a FROM t WHERE b = 1", "title": "x\ny"},
		},
		{
			name:     "dataSource line breaks collapsed",
			input:    "dataSource=SELECT id\nFROM t",
			expected: Instructions{"dataSource": "SELECT id FROM t"},
		},
		{
			name:     "unterminated quote suppresses splitting",
			input:    `a="open;b=2`,
			expected: Instructions{"a": `"open;b=2`},
		},
		{
			name:     "unterminated bracket suppresses splitting",
			input:    "a=[1,2;b=3",
			expected: Instructions{"a": "[1,2;b=3"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: Instructions{},
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  series = Sales ; legends = Region ",
			expected: Instructions{"series": "Sales", "legends": "Region"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestInstructionsAccessors(t *testing.T) {
	ins := Parse(`flag=true;bad=maybe;n=42;nan=x;list=[A, "B", ,C];bare=x,y;blank=  ;formatting={valueColors:{"North":"red"}}`)

	if !ins.Bool("flag", false) {
		t.Error("Bool(flag) = false, expected true")
	}
	if !ins.Bool("bad", true) {
		t.Error("Bool(bad) should fall back to default true")
	}
	if got := ins.Int("n", 0); got != 42 {
		t.Errorf("Int(n) = %d, expected 42", got)
	}
	if got := ins.Int("nan", 7); got != 7 {
		t.Errorf("Int(nan) = %d, expected default 7", got)
	}
	if got := ins.Int("missing", -1); got != -1 {
		t.Errorf("Int(missing) = %d, expected -1", got)
	}
	if diff := cmp.Diff([]string{"A", "B", "C"}, ins.List("list")); diff != "" {
		t.Errorf("List(list) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x", "y"}, ins.List("bare")); diff != "" {
		t.Errorf("List(bare) mismatch (-want +got):\n%s", diff)
	}
	if ins.List("missing") != nil {
		t.Error("List(missing) should be nil")
	}
	if got := ins.String("blank", "def"); got != "def" {
		t.Errorf("String(blank) = %q, expected def", got)
	}
	if ins.Has("blank") {
		t.Error("Has(blank) = true, expected false")
	}
	if diff := cmp.Diff(map[string]string{"North": "red"}, ins.ColorMap("formatting")); diff != "" {
		t.Errorf("ColorMap mismatch (-want +got):\n%s", diff)
	}

	ins.Set("flag", "false")
	if ins.Bool("flag", true) {
		t.Error("Bool(flag) after Set = true, expected false")
	}
}
