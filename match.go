// Package matchx builds and merges per-(query, document) match results for a
// query monitor: a relevance score plus the ordered, deduplicated hit spans
// found in each field.
package matchx

import (
	"fmt"
	"maps"
	"math"
	"slices"
	"strings"
)

// MatchResult is the outcome of evaluating one query against one document:
// a relevance score and the hits found in each field.
//
// A MatchResult is immutable once constructed. Merging produces a new value
// and never touches its inputs, so results may be shared across goroutines.
type MatchResult struct {
	queryID string
	docID   int
	score   float64
	fields  map[string]HitSet
}

// NewMatchResult builds a result from hits grouped by field. Hits within a
// field are deduplicated and ordered; fields without hits are omitted.
func NewMatchResult(queryID string, docID int, score float64, hits map[string][]Hit) (*MatchResult, error) {
	if err := validateScore(queryID, docID, score); err != nil {
		return nil, err
	}

	fields := make(map[string]HitSet, len(hits))
	for field, fieldHits := range hits {
		if set := NewHitSet(fieldHits...); set.Len() > 0 {
			fields[field] = set
		}
	}

	return &MatchResult{
		queryID: queryID,
		docID:   docID,
		score:   score,
		fields:  fields,
	}, nil
}

func validateScore(queryID string, docID int, score float64) error {
	if math.IsNaN(score) || math.IsInf(score, 0) || score < 0 {
		return contractViolation(ErrInvalidScore, "query %q doc %d: score %v", queryID, docID, score)
	}
	return nil
}

// QueryID returns the identifier of the query that matched.
func (m *MatchResult) QueryID() string {
	return m.queryID
}

// DocID returns the batch-local document handle.
func (m *MatchResult) DocID() int {
	return m.docID
}

// Score returns the relevance score.
func (m *MatchResult) Score() float64 {
	return m.score
}

// HitCount returns the total number of hits across all fields.
func (m *MatchResult) HitCount() int {
	n := 0
	for _, set := range m.fields {
		n += set.Len()
	}
	return n
}

// Fields returns the names of the fields with at least one hit, sorted.
func (m *MatchResult) Fields() []string {
	return slices.Sorted(maps.Keys(m.fields))
}

// Hits returns the ordered hits for field, or nil if the field did not match.
func (m *MatchResult) Hits(field string) []Hit {
	set, ok := m.fields[field]
	if !ok {
		return nil
	}
	return set.Hits()
}

// HitSet returns the hit set for field. The second value reports whether the
// field matched.
func (m *MatchResult) HitSet(field string) (HitSet, bool) {
	set, ok := m.fields[field]
	return set, ok
}

// Equal reports whether two results carry the same query id and the same
// hits. Score and document id are not compared.
func (m *MatchResult) Equal(other *MatchResult) bool {
	if m == other {
		return true
	}
	if m == nil || other == nil {
		return false
	}
	if m.queryID != other.queryID {
		return false
	}
	return maps.EqualFunc(m.fields, other.fields, HitSet.Equal)
}

func (m *MatchResult) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "MatchResult{query=%s, doc=%d, score=%g, hits={", m.queryID, m.docID, m.score)
	for i, field := range m.Fields() {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(field)
		sb.WriteByte('=')
		sb.WriteString(m.fields[field].String())
	}
	sb.WriteString("}}")
	return sb.String()
}
