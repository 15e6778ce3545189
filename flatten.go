package matchx

// Flatten converts the match tree the engine reported for one scored
// document into a MatchResult.
//
// A Leaf contributes one hit for its own span. A Composite contributes no hit
// for itself; each of its sub-matches contributes by the same rule. Fields
// that yield no hits are omitted. The output does not depend on the order of
// fields or nodes in the tree.
//
// A nil tree means the engine scored a document it cannot explain, which is a
// contract violation reported as an assertion failure.
func Flatten(queryID string, docID int, score float64, tree MatchTree) (*MatchResult, error) {
	if err := validateScore(queryID, docID, score); err != nil {
		return nil, err
	}
	if tree == nil {
		return nil, contractViolation(ErrMissingMatches, "query %q doc %d", queryID, docID)
	}

	fields := make(map[string]HitSet, len(tree))
	for field, nodes := range tree {
		var b hitSetBuilder
		for _, n := range nodes {
			collectHits(&b, n)
		}
		if b.len() > 0 {
			fields[field] = b.freeze()
		}
	}

	return &MatchResult{
		queryID: queryID,
		docID:   docID,
		score:   score,
		fields:  fields,
	}, nil
}

func collectHits(b *hitSetBuilder, n MatchNode) {
	switch node := n.(type) {
	case Leaf:
		b.add(node.Span.Hit())
	case *Leaf:
		if node != nil {
			b.add(node.Span.Hit())
		}
	case Composite:
		for _, sub := range node.Subs {
			collectHits(b, sub)
		}
	case *Composite:
		if node != nil {
			for _, sub := range node.Subs {
				collectHits(b, sub)
			}
		}
	}
}
