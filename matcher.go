package matchx

import "context"

// Candidate is what the text-matching engine reports for one document under
// one query: the relevance score from a complete scoring pass and the match
// tree that explains it. A zero score means the document did not match.
type Candidate struct {
	Score float64
	Tree  MatchTree
}

// Matcher defines the boundary to the text-matching engine.
type Matcher interface {
	// Match evaluates the query against one document of the current batch.
	Match(ctx context.Context, queryID string, docID int) (Candidate, error)
}

// MatcherFunc is a function type that implements the Matcher interface.
// This allows using a function as a Matcher, similar to http.HandlerFunc.
type MatcherFunc func(context.Context, string, int) (Candidate, error)

// Match implements the Matcher interface for MatcherFunc.
func (f MatcherFunc) Match(ctx context.Context, queryID string, docID int) (Candidate, error) {
	return f(ctx, queryID, docID)
}
