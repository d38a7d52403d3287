package parser

// scopes tracks quote and bracket nesting while walking instruction or
// template text one byte at a time. It is the single scanner behind field
// splitting, formatting block extraction and token extraction.
type scopes struct {
	// quotes enables quote tracking; template token scanning disables it so
	// that apostrophes in instruction text cannot swallow the closing braces.
	quotes bool
	quote  byte
	square int
	curly  int
}

// step updates the scope state for text[i].
func (s *scopes) step(text string, i int) {
	c := text[i]
	if s.quotes && (c == '"' || c == '\'') && (i == 0 || text[i-1] != '\\') {
		switch s.quote {
		case 0:
			s.quote = c
		case c:
			s.quote = 0
		}
		return
	}
	if s.quote != 0 {
		return
	}
	switch c {
	case '[':
		s.square++
	case ']':
		if s.square > 0 {
			s.square--
		}
	case '{':
		s.curly++
	case '}':
		if s.curly > 0 {
			s.curly--
		}
	}
}

// topLevel reports whether no scope is open.
func (s *scopes) topLevel() bool {
	return s.quote == 0 && s.square == 0 && s.curly == 0
}

// SplitTopLevel splits text on sep wherever no quote, bracket or brace scope
// is open. Unterminated scopes suppress splitting until the end of text.
func SplitTopLevel(text string, sep byte) []string {
	var parts []string
	sc := scopes{quotes: true}
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == sep && sc.topLevel() {
			parts = append(parts, text[start:i])
			start = i + 1
			continue
		}
		sc.step(text, i)
	}
	if start < len(text) {
		parts = append(parts, text[start:])
	}
	return parts
}

// MatchingClose returns the index of the bracket closing the one at
// text[open] ('{' or '['), counting nested pairs and skipping quoted text.
// It returns -1 when text[open] is not an opening bracket or the scope
// never closes.
func MatchingClose(text string, open int) int {
	if open < 0 || open >= len(text) {
		return -1
	}
	var closer byte
	switch text[open] {
	case '{':
		closer = '}'
	case '[':
		closer = ']'
	default:
		return -1
	}
	sc := scopes{quotes: true}
	for i := open; i < len(text); i++ {
		sc.step(text, i)
		if i == open || text[i] != closer || sc.quote != 0 {
			continue
		}
		depth := sc.curly
		if closer == ']' {
			depth = sc.square
		}
		if depth == 0 {
			return i
		}
	}
	return -1
}
