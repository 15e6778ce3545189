package matchx

// Matches represents the outcome of matching one batch of documents against
// the registered queries.
type Matches struct {
	// Items contains one merged result per matching (query, document) pair,
	// ordered by document id, then query id.
	Items []*MatchResult

	// BatchSize is the number of documents in the batch.
	BatchSize int

	// QueriesRun is the number of queries evaluated against the batch.
	QueriesRun int

	// Took is the time taken to evaluate the batch in milliseconds.
	Took int64

	// MaxScore is the maximum score across all items.
	MaxScore float64
}

// ForDocument returns the items that matched the document with docID.
func (m *Matches) ForDocument(docID int) []*MatchResult {
	var out []*MatchResult
	for _, r := range m.Items {
		if r.docID == docID {
			out = append(out, r)
		}
	}
	return out
}

// NewMatches wraps results into a Matches report and fills in MaxScore.
func NewMatches(results []*MatchResult, batchSize, queriesRun int, took int64) *Matches {
	m := &Matches{
		Items:      results,
		BatchSize:  batchSize,
		QueriesRun: queriesRun,
		Took:       took,
	}
	for _, r := range results {
		if r.score > m.MaxScore {
			m.MaxScore = r.score
		}
	}
	return m
}
