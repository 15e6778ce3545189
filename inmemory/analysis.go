package inmemory

import (
	"strings"
	"unicode"
)

// Token is one analyzed term with its position and character offsets.
// EndOffset is exclusive.
type Token struct {
	Term        string
	Position    int
	StartOffset int
	EndOffset   int
}

// Analyze splits text into lower-cased runs of letters and digits. Offsets
// count characters (runes), not bytes.
func Analyze(text string) []Token {
	tokens := make([]Token, 0)

	var term strings.Builder
	start := -1
	offset := 0
	flush := func() {
		if start < 0 {
			return
		}
		tokens = append(tokens, Token{
			Term:        term.String(),
			Position:    len(tokens),
			StartOffset: start,
			EndOffset:   offset,
		})
		term.Reset()
		start = -1
	}

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = offset
			}
			term.WriteRune(unicode.ToLower(r))
		} else {
			flush()
		}
		offset++
	}
	flush()

	return tokens
}

// terms returns just the terms of Analyze(text).
func terms(text string) []string {
	tokens := Analyze(text)
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Term
	}
	return out
}
