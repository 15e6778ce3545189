package inmemory

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/letmevibethatforyou/matchx"
)

// clauseMatcher evaluates one clause against the documents of a batch. It
// implements matchx.Matcher so that each clause runs as its own pass.
type clauseMatcher struct {
	batch      *batch
	clause     Clause
	similarity Similarity
}

var _ matchx.Matcher = clauseMatcher{}

// Match implements matchx.Matcher.
func (m clauseMatcher) Match(_ context.Context, _ string, docID int) (matchx.Candidate, error) {
	if docID < 0 || docID >= m.batch.size() {
		return matchx.Candidate{}, errors.Newf("inmemory: document %d out of range [0, %d)", docID, m.batch.size())
	}

	switch c := m.clause.(type) {
	case TermClause:
		return m.matchTerm(docID, c), nil
	case PhraseClause:
		return m.matchPhrase(docID, c), nil
	default:
		return matchx.Candidate{}, errors.Newf("inmemory: unsupported clause type %T", m.clause)
	}
}

func (m clauseMatcher) matchTerm(docID int, c TermClause) matchx.Candidate {
	fi, ok := m.batch.field(docID, c.Field)
	if !ok {
		return matchx.Candidate{}
	}
	positions := fi.postings[c.Term]
	if len(positions) == 0 {
		return matchx.Candidate{}
	}

	idf := m.similarity.idf(m.batch.docFreq[c.Field][c.Term], m.batch.fieldCount[c.Field])
	score := idf * m.similarity.tfNorm(len(positions), len(fi.tokens), m.batch.avgFieldLength(c.Field))

	nodes := make([]matchx.MatchNode, 0, len(positions))
	for _, pos := range positions {
		tok := fi.tokens[pos]
		nodes = append(nodes, matchx.NewLeaf(tok.Position, tok.StartOffset, tok.Position, tok.EndOffset))
	}

	return matchx.Candidate{
		Score: score,
		Tree:  matchx.MatchTree{c.Field: nodes},
	}
}

func (m clauseMatcher) matchPhrase(docID int, c PhraseClause) matchx.Candidate {
	if len(c.Terms) == 0 {
		return matchx.Candidate{}
	}
	fi, ok := m.batch.field(docID, c.Field)
	if !ok {
		return matchx.Candidate{}
	}

	var nodes []matchx.MatchNode
	for _, start := range fi.postings[c.Terms[0]] {
		if !phraseAt(fi, start, c.Terms) {
			continue
		}

		subs := make([]matchx.MatchNode, len(c.Terms))
		for i := range c.Terms {
			tok := fi.tokens[start+i]
			subs[i] = matchx.NewLeaf(tok.Position, tok.StartOffset, tok.Position, tok.EndOffset)
		}
		first, last := fi.tokens[start], fi.tokens[start+len(c.Terms)-1]
		nodes = append(nodes, matchx.NewComposite(matchx.Span{
			StartPosition: first.Position,
			EndPosition:   last.Position,
			StartOffset:   first.StartOffset,
			EndOffset:     last.EndOffset,
		}, subs...))
	}
	if len(nodes) == 0 {
		return matchx.Candidate{}
	}

	var idf float64
	for _, term := range c.Terms {
		idf += m.similarity.idf(m.batch.docFreq[c.Field][term], m.batch.fieldCount[c.Field])
	}
	score := idf * m.similarity.tfNorm(len(nodes), len(fi.tokens), m.batch.avgFieldLength(c.Field))

	return matchx.Candidate{
		Score: score,
		Tree:  matchx.MatchTree{c.Field: nodes},
	}
}

func phraseAt(fi *fieldIndex, start int, phraseTerms []string) bool {
	for i, term := range phraseTerms {
		if !fi.termAt(start+i, term) {
			return false
		}
	}
	return true
}
