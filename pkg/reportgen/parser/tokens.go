package parser

import "strings"

const (
	tokenOpen  = "{{"
	tokenClose = "}}"
)

// Token is one delimited instruction region of a template.
type Token struct {
	// Start is the offset of the opening delimiter.
	Start int
	// End is the offset just past the closing delimiter.
	End int
	// Content is the text between the delimiters, untrimmed.
	Content string
}

// Raw returns the token including its delimiters.
func (t Token) Raw() string {
	return tokenOpen + t.Content + tokenClose
}

// ScanTokens finds every {{...}} token in text. Braces inside a token must
// balance, so nested {...} blocks in an instruction value do not close the
// token early. An opening delimiter without a balanced close is plain text.
func ScanTokens(text string) []Token {
	var tokens []Token
	pos := 0
	for pos < len(text) {
		idx := strings.Index(text[pos:], tokenOpen)
		if idx < 0 {
			break
		}
		open := pos + idx
		end, ok := scanTokenBody(text, open+len(tokenOpen))
		if !ok {
			pos = open + 1
			continue
		}
		tokens = append(tokens, Token{
			Start:   open,
			End:     end + len(tokenClose),
			Content: text[open+len(tokenOpen) : end],
		})
		pos = end + len(tokenClose)
	}
	return tokens
}

// scanTokenBody walks from start until a closing delimiter at brace depth
// zero and returns its offset.
func scanTokenBody(text string, start int) (int, bool) {
	sc := scopes{}
	for i := start; i < len(text); i++ {
		if text[i] == '}' && sc.curly == 0 {
			if i > start && strings.HasPrefix(text[i:], tokenClose) {
				return i, true
			}
			return 0, false
		}
		sc.step(text, i)
	}
	return 0, false
}

// ReplaceTokens calls fn for each token and substitutes its result.
func ReplaceTokens(text string, fn func(Token) string) string {
	tokens := ScanTokens(text)
	if len(tokens) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, tok := range tokens {
		b.WriteString(text[last:tok.Start])
		b.WriteString(fn(tok))
		last = tok.End
	}
	b.WriteString(text[last:])
	return b.String()
}

// TrimToken strips surrounding {{ }} delimiters from a token text if present.
func TrimToken(s string) string {
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, tokenOpen) && strings.HasSuffix(t, tokenClose) && len(t) >= len(tokenOpen)+len(tokenClose) {
		return t[len(tokenOpen) : len(t)-len(tokenClose)]
	}
	return s
}
