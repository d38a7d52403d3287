package parser

import (
	"regexp"
	"strings"
)

var queryParamPattern = regexp.MustCompile(`@(\w+)`)

// QueryParams returns the @name placeholders referenced by query, in order
// of first appearance and deduplicated case-insensitively. Names preceded
// by a second '@' (server variables such as @@ROWCOUNT) are skipped.
func QueryParams(query string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, loc := range queryParamPattern.FindAllStringSubmatchIndex(query, -1) {
		if loc[0] > 0 && query[loc[0]-1] == '@' {
			continue
		}
		name := query[loc[2]:loc[3]]
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, name)
	}
	return names
}
