package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitTopLevel(t *testing.T) {
	tests := []struct {
		input    string
		sep      byte
		expected []string
	}{
		{"a,b,c", ',', []string{"a", "b", "c"}},
		{"a,[b,c],d", ',', []string{"a", "[b,c]", "d"}},
		{"a,{b:[1,2],c:{d,e}},f", ',', []string{"a", "{b:[1,2],c:{d,e}}", "f"}},
		{`"a,b",c`, ',', []string{`"a,b"`, "c"}},
		{"a;;b", ';', []string{"a", "", "b"}},
		{"a}]b,c", ',', []string{"a}]b", "c"}},
		{"", ',', nil},
	}

	for _, tt := range tests {
		got := SplitTopLevel(tt.input, tt.sep)
		if diff := cmp.Diff(tt.expected, got); diff != "" {
			t.Errorf("SplitTopLevel(%q) mismatch (-want +got):\n%s", tt.input, diff)
		}
	}
}

func TestMatchingClose(t *testing.T) {
	tests := []struct {
		input    string
		open     int
		expected int
	}{
		{"{a}", 0, 2},
		{"{a:{b:1},c:2}", 0, 12},
		{"x:{a:{b}}", 2, 8},
		{`{a:"}"}`, 0, 6},
		{"[1,[2,3]]", 0, 8},
		{"{a:{b}", 0, -1},
		{"abc", 0, -1},
		{"{", 5, -1},
	}

	for _, tt := range tests {
		if got := MatchingClose(tt.input, tt.open); got != tt.expected {
			t.Errorf("MatchingClose(%q, %d) = %d, expected %d", tt.input, tt.open, got, tt.expected)
		}
	}
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "single token",
			input:    "<p>{{query=SELECT 1}}</p>",
			expected: []string{"query=SELECT 1"},
		},
		{
			name:     "nested braces stay inside token",
			input:    "{{series=A;formatting={title:'x',row:{index:2,style:'c'}}}} tail",
			expected: []string{"series=A;formatting={title:'x',row:{index:2,style:'c'}}"},
		},
		{
			name:     "multiple tokens",
			input:    "{{a=1}} and {{b=2}}",
			expected: []string{"a=1", "b=2"},
		},
		{
			name:     "apostrophe in text does not hide close",
			input:    "{{label=Region's sales}}",
			expected: []string{"label=Region's sales"},
		},
		{
			name:     "unterminated token is literal",
			input:    "{{a=1 and then {{b=2}}",
			expected: []string{"b=2"},
		},
		{
			name:     "empty token ignored",
			input:    "{{}}",
			expected: nil,
		},
		{
			name:     "no tokens",
			input:    "plain {text}",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, tok := range ScanTokens(tt.input) {
				got = append(got, tok.Content)
				if raw := tt.input[tok.Start:tok.End]; raw != tok.Raw() {
					t.Errorf("token bounds %q do not match Raw() %q", raw, tok.Raw())
				}
			}
			if diff := cmp.Diff(tt.expected, got); diff != "" {
				t.Errorf("ScanTokens(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestReplaceTokens(t *testing.T) {
	got := ReplaceTokens("a {{x=1}} b {{y=2}} c", func(tok Token) string {
		return "[" + Parse(tok.Content).String("x", "-") + "]"
	})
	if expected := "a [1] b [-] c"; got != expected {
		t.Errorf("ReplaceTokens = %q, expected %q", got, expected)
	}
}

func TestTrimToken(t *testing.T) {
	tests := map[string]string{
		"{{a=1}}":     "a=1",
		"  {{a=1}}  ": "a=1",
		"a=1":         "a=1",
		"{a=1}":       "{a=1}",
	}
	for input, expected := range tests {
		if got := TrimToken(input); got != expected {
			t.Errorf("TrimToken(%q) = %q, expected %q", input, got, expected)
		}
	}
}

func TestQueryParams(t *testing.T) {
	tests := []struct {
		query    string
		expected []string
	}{
		{"SELECT * FROM t WHERE region = @region", []string{"region"}},
		{"WHERE a = @Region OR b = @region AND c = @year", []string{"Region", "year"}},
		{"SELECT @@ROWCOUNT, @x", []string{"x"}},
		{"SELECT 1", nil},
	}
	for _, tt := range tests {
		got := QueryParams(tt.query)
		if diff := cmp.Diff(tt.expected, got); diff != "" {
			t.Errorf("QueryParams(%q) mismatch (-want +got):\n%s", tt.query, diff)
		}
	}
}
