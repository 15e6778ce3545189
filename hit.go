package matchx

import (
	"cmp"
	"fmt"
)

// Hit is a single matched span: a token position range and a character
// offset range. Two hits are equal only when all four values are equal.
type Hit struct {
	// StartPosition is the index of the first matched token.
	StartPosition int `json:"startPosition"`
	// StartOffset is the character offset where the match starts.
	StartOffset int `json:"startOffset"`
	// EndPosition is the index of the last matched token.
	EndPosition int `json:"endPosition"`
	// EndOffset is the character offset where the match ends.
	EndOffset int `json:"endOffset"`
}

// Compare orders hits by start position, then end position. Hits that tie on
// positions are ordered by their offsets, so Compare returns 0 only for equal
// hits and a sorted set never collapses two distinct spans.
func Compare(a, b Hit) int {
	if c := cmp.Compare(a.StartPosition, b.StartPosition); c != 0 {
		return c
	}
	if c := cmp.Compare(a.EndPosition, b.EndPosition); c != 0 {
		return c
	}
	if c := cmp.Compare(a.StartOffset, b.StartOffset); c != 0 {
		return c
	}
	return cmp.Compare(a.EndOffset, b.EndOffset)
}

// String renders the hit as "startPos(startOffset)->endPos(endOffset)".
func (h Hit) String() string {
	return fmt.Sprintf("%d(%d)->%d(%d)", h.StartPosition, h.StartOffset, h.EndPosition, h.EndOffset)
}
