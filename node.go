package matchx

// Span is the position and offset range a match node covers.
type Span struct {
	StartPosition int
	EndPosition   int
	StartOffset   int
	EndOffset     int
}

// Hit converts the span into a Hit.
func (s Span) Hit() Hit {
	return Hit{
		StartPosition: s.StartPosition,
		StartOffset:   s.StartOffset,
		EndPosition:   s.EndPosition,
		EndOffset:     s.EndOffset,
	}
}

// MatchNode is one node of a match tree as reported by the text-matching
// engine. The only implementations are Leaf and Composite.
type MatchNode interface {
	// Range returns the span the node covers.
	Range() Span
	// node is a marker method that closes the set of node types.
	node()
}

// baseNode provides the node marker method for all node types.
type baseNode struct{}

func (baseNode) node() {}

// Leaf is a match with no sub-matches, typically a single term.
type Leaf struct {
	baseNode
	Span Span
}

// Range implements MatchNode.
func (l Leaf) Range() Span {
	return l.Span
}

// NewLeaf creates a leaf node.
func NewLeaf(startPosition, startOffset, endPosition, endOffset int) Leaf {
	return Leaf{Span: Span{
		StartPosition: startPosition,
		EndPosition:   endPosition,
		StartOffset:   startOffset,
		EndOffset:     endOffset,
	}}
}

// Composite is a match that wraps sub-matches, such as a phrase wrapping
// its terms. The composite's own span is never reported as a hit.
type Composite struct {
	baseNode
	Span Span
	// Subs are the wrapped matches, normally leaves.
	Subs []MatchNode
}

// Range implements MatchNode.
func (c Composite) Range() Span {
	return c.Span
}

// NewComposite creates a composite node whose span covers subs.
func NewComposite(span Span, subs ...MatchNode) Composite {
	return Composite{Span: span, Subs: subs}
}

// MatchTree maps a field name to the matches found in that field.
type MatchTree map[string][]MatchNode
