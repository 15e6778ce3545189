package matchx

import (
	"maps"
	"slices"
)

// Merge combines two partial results for the same query and document. The
// score is the sum of both scores and each field holds the union of both hit
// sets. Merge is commutative, and neither input is modified.
//
// Scores are treated as independent contributions: merging a result with a
// copy of itself doubles the score while the hits stay the same. Callers that
// may see re-delivered partials should fold them through a Collector, which
// drops repeated passes.
func Merge(a, b *MatchResult) (*MatchResult, error) {
	if a == nil || b == nil {
		return nil, contractViolation(ErrNoResults, "cannot merge a nil result")
	}
	if err := checkSameTarget(a.queryID, a, b); err != nil {
		return nil, err
	}

	return &MatchResult{
		queryID: a.queryID,
		docID:   a.docID,
		score:   a.score + b.score,
		fields:  unionFields(a.fields, b.fields),
	}, nil
}

// MergeAll folds any number of partial results for queryID into one. The hit
// union is folded left to right; scores are summed smallest first so the
// merged score does not depend on the order of results.
func MergeAll(queryID string, results ...*MatchResult) (*MatchResult, error) {
	if len(results) == 0 {
		return nil, contractViolation(ErrNoResults, "query %q", queryID)
	}

	scores := make([]float64, 0, len(results))
	fields := map[string]HitSet{}
	for i, r := range results {
		if r == nil {
			return nil, contractViolation(ErrNoResults, "query %q: result %d is nil", queryID, i)
		}
		if err := checkSameTarget(queryID, results[0], r); err != nil {
			return nil, err
		}
		scores = append(scores, r.score)
		fields = unionFields(fields, r.fields)
	}

	slices.Sort(scores)
	var total float64
	for _, s := range scores {
		total += s
	}

	return &MatchResult{
		queryID: queryID,
		docID:   results[0].docID,
		score:   total,
		fields:  fields,
	}, nil
}

func checkSameTarget(queryID string, first, r *MatchResult) error {
	if r.queryID != queryID || first.queryID != queryID {
		return contractViolation(ErrQueryMismatch, "cannot merge query %q with query %q", first.queryID, r.queryID)
	}
	if r.docID != first.docID {
		return contractViolation(ErrDocumentMismatch, "query %q: cannot merge doc %d with doc %d", queryID, first.docID, r.docID)
	}
	return nil
}

// unionFields returns a new map; both inputs are left as they are. HitSets
// are immutable so unchanged sets are shared rather than copied.
func unionFields(a, b map[string]HitSet) map[string]HitSet {
	out := maps.Clone(a)
	if out == nil {
		out = make(map[string]HitSet, len(b))
	}
	for field, set := range b {
		out[field] = out[field].Union(set)
	}
	return out
}
