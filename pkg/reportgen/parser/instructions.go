// Package parser reads the instruction language embedded in report templates.
package parser

import (
	"strconv"
	"strings"
)

// queryKeys are instruction keys whose values carry query text; line breaks
// in them are collapsed to spaces.
var queryKeys = map[string]bool{
	"query":      true,
	"dataSource": true,
}

// Instructions is the parsed key/value configuration of one token.
// Keys are case-sensitive.
type Instructions map[string]string

// Parse splits content into instruction fields. Fields are separated by ';'
// outside quotes, brackets and braces; each field splits on its first '='.
// Fields without '=' or with an empty key are dropped. Parse never fails.
func Parse(content string) Instructions {
	ins := make(Instructions)
	for _, field := range SplitTopLevel(content, ';') {
		eq := strings.IndexByte(field, '=')
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(field[:eq])
		if key == "" {
			continue
		}
		value := Unquote(strings.TrimSpace(field[eq+1:]))
		if queryKeys[key] {
			value = collapseLineBreaks(value)
		}
		ins[key] = value
	}
	return ins
}

// Unquote strips one matching pair of surrounding single or double quotes.
func Unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func collapseLineBreaks(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

// Has reports whether key is present with a non-blank value.
func (ins Instructions) Has(key string) bool {
	return strings.TrimSpace(ins[key]) != ""
}

// String returns the trimmed value of key, or def when it is missing or blank.
func (ins Instructions) String(key, def string) string {
	v := strings.TrimSpace(ins[key])
	if v == "" {
		return def
	}
	return v
}

// Bool returns key parsed as a boolean, or def when missing or unparseable.
func (ins Instructions) Bool(key string, def bool) bool {
	return parseBool(ins[key], def)
}

// Int returns key parsed as an integer, or def when missing or unparseable.
func (ins Instructions) Int(key string, def int) int {
	return parseInt(ins[key], def)
}

// List returns key as a list. Values may be bracketed ("[a,b]") or bare
// ("a,b"); items are trimmed and unquoted and empty items are dropped.
// A missing key yields nil.
func (ins Instructions) List(key string) []string {
	return ParseList(ins[key])
}

// ColorMap returns the valueColors map found in key, or nil.
func (ins Instructions) ColorMap(key string) map[string]string {
	return ParseValueColors(ins[key])
}

// Set stores a value.
func (ins Instructions) Set(key, value string) {
	ins[key] = value
}

// ParseList parses a list literal.
func ParseList(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		s = s[1 : len(s)-1]
	}
	var items []string
	for _, part := range SplitTopLevel(s, ',') {
		item := Unquote(strings.TrimSpace(part))
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseBool(s string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(Unquote(strings.TrimSpace(s))))
	if err != nil {
		return def
	}
	return b
}

func parseInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(Unquote(strings.TrimSpace(s))))
	if err != nil {
		return def
	}
	return n
}
