package matchx

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// MarshalJSON encodes the set as an ordered array of hits.
func (s HitSet) MarshalJSON() ([]byte, error) {
	if s.hits == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.hits)
}

// UnmarshalJSON decodes an array of hits in any order.
func (s *HitSet) UnmarshalJSON(data []byte) error {
	var hits []Hit
	if err := json.Unmarshal(data, &hits); err != nil {
		return errors.Wrap(err, "failed to unmarshal hit set")
	}
	*s = NewHitSet(hits...)
	return nil
}

type matchResultJSON struct {
	QueryID string           `json:"queryId"`
	DocID   int              `json:"docId"`
	Score   float64          `json:"score"`
	Hits    map[string][]Hit `json:"hits"`
}

// MarshalJSON encodes the result with its fields in sorted order.
func (m *MatchResult) MarshalJSON() ([]byte, error) {
	wire := matchResultJSON{
		QueryID: m.queryID,
		DocID:   m.docID,
		Score:   m.score,
		Hits:    make(map[string][]Hit, len(m.fields)),
	}
	for field, set := range m.fields {
		wire.Hits[field] = set.hits
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a result and applies the same validation as
// NewMatchResult.
func (m *MatchResult) UnmarshalJSON(data []byte) error {
	var wire matchResultJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.Wrap(err, "failed to unmarshal match result")
	}

	r, err := NewMatchResult(wire.QueryID, wire.DocID, wire.Score, wire.Hits)
	if err != nil {
		return err
	}
	*m = *r
	return nil
}

type matchNodeJSON struct {
	StartPosition int              `json:"startPosition"`
	StartOffset   int              `json:"startOffset"`
	EndPosition   int              `json:"endPosition"`
	EndOffset     int              `json:"endOffset"`
	SubMatches    *[]matchNodeJSON `json:"subMatches,omitempty"`
}

// UnmarshalJSON decodes a tree of the form
// {"field": [{"startPosition": 0, ..., "subMatches": [...]}]}. A node with a
// "subMatches" array becomes a Composite, any other node a Leaf.
func (t *MatchTree) UnmarshalJSON(data []byte) error {
	var wire map[string][]matchNodeJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return errors.WithSecondaryError(ErrInvalidTree, errors.Wrap(err, "failed to unmarshal match tree"))
	}
	if wire == nil {
		*t = nil
		return nil
	}

	tree := make(MatchTree, len(wire))
	for field, nodes := range wire {
		decoded := make([]MatchNode, 0, len(nodes))
		for _, n := range nodes {
			node, err := decodeNode(field, n)
			if err != nil {
				return err
			}
			decoded = append(decoded, node)
		}
		tree[field] = decoded
	}
	*t = tree
	return nil
}

func decodeNode(field string, n matchNodeJSON) (MatchNode, error) {
	span := Span{
		StartPosition: n.StartPosition,
		EndPosition:   n.EndPosition,
		StartOffset:   n.StartOffset,
		EndOffset:     n.EndOffset,
	}
	if span.StartPosition < 0 || span.StartOffset < 0 ||
		span.EndPosition < span.StartPosition || span.EndOffset < span.StartOffset {
		return nil, errors.Wrapf(ErrInvalidTree, "field %q: bad span %+v", field, span)
	}

	if n.SubMatches == nil {
		return Leaf{Span: span}, nil
	}

	subs := make([]MatchNode, 0, len(*n.SubMatches))
	for _, sub := range *n.SubMatches {
		node, err := decodeNode(field, sub)
		if err != nil {
			return nil, err
		}
		subs = append(subs, node)
	}
	return Composite{Span: span, Subs: subs}, nil
}

// MarshalJSON encodes the tree in the form accepted by UnmarshalJSON.
func (t MatchTree) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("null"), nil
	}
	wire := make(map[string][]matchNodeJSON, len(t))
	for field, nodes := range t {
		encoded := make([]matchNodeJSON, 0, len(nodes))
		for _, n := range nodes {
			encoded = append(encoded, encodeNode(n))
		}
		wire[field] = encoded
	}
	return json.Marshal(wire)
}

func encodeNode(n MatchNode) matchNodeJSON {
	span := n.Range()
	out := matchNodeJSON{
		StartPosition: span.StartPosition,
		StartOffset:   span.StartOffset,
		EndPosition:   span.EndPosition,
		EndOffset:     span.EndOffset,
	}

	var subs []MatchNode
	switch node := n.(type) {
	case Composite:
		subs = node.Subs
	case *Composite:
		subs = node.Subs
	default:
		return out
	}

	encoded := make([]matchNodeJSON, 0, len(subs))
	for _, sub := range subs {
		encoded = append(encoded, encodeNode(sub))
	}
	out.SubMatches = &encoded
	return out
}
