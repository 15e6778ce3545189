package inmemory

import (
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
)

var (
	// ErrEmptyQuery is returned when a query has no searchable terms.
	ErrEmptyQuery = errors.New("inmemory: empty query")

	// ErrInvalidQuery is returned when a query cannot be parsed.
	ErrInvalidQuery = errors.New("inmemory: invalid query")
)

// Clause is one independently evaluated part of a query. A document matches
// a query when any of its clauses matches.
type Clause interface {
	// FieldName returns the field the clause searches.
	FieldName() string
	// clause is a marker method to distinguish clauses from other types.
	clause()
}

// baseClause provides the clause marker method for all clause types.
type baseClause struct{}

func (baseClause) clause() {}

// TermClause matches every occurrence of a single term.
type TermClause struct {
	baseClause
	// Field is the name of the field to search.
	Field string
	// Term is the analyzed term to look for.
	Term string
}

// FieldName implements Clause.
func (t TermClause) FieldName() string {
	return t.Field
}

// Term creates a term clause. The term is lower-cased to match Analyze.
func Term(field, term string) Clause {
	return TermClause{Field: field, Term: strings.ToLower(term)}
}

// PhraseClause matches consecutive occurrences of its terms.
type PhraseClause struct {
	baseClause
	// Field is the name of the field to search.
	Field string
	// Terms are the analyzed terms, in order.
	Terms []string
}

// FieldName implements Clause.
func (p PhraseClause) FieldName() string {
	return p.Field
}

// Phrase creates a phrase clause from already separated terms.
func Phrase(field string, phraseTerms ...string) Clause {
	lowered := make([]string, len(phraseTerms))
	for i, t := range phraseTerms {
		lowered[i] = strings.ToLower(t)
	}
	return PhraseClause{Field: field, Terms: lowered}
}

// Query is a registered standing query.
type Query struct {
	// ID is the caller-assigned identifier reported in match results.
	ID string
	// Clauses are OR-ed together; each is evaluated as its own pass.
	Clauses []Clause
}

// ParseQuery parses text into a Query. Whitespace separates clauses; a
// double-quoted group is a phrase; a "field:" prefix overrides defaultField.
// A bare word that analyzes into several terms (such as "e-mail") is treated
// as a phrase.
func ParseQuery(id, text, defaultField string) (Query, error) {
	items, err := splitClauses(text)
	if err != nil {
		return Query{}, err
	}

	q := Query{ID: id}
	for _, item := range items {
		field := defaultField
		if idx := strings.IndexByte(item, ':'); idx > 0 && !strings.ContainsRune(item[:idx], '"') {
			field = item[:idx]
			item = item[idx+1:]
		}

		clauseTerms := terms(strings.Trim(item, `"`))
		switch {
		case len(clauseTerms) == 0:
			continue
		case len(clauseTerms) == 1:
			q.Clauses = append(q.Clauses, TermClause{Field: field, Term: clauseTerms[0]})
		default:
			q.Clauses = append(q.Clauses, PhraseClause{Field: field, Terms: clauseTerms})
		}
	}

	if len(q.Clauses) == 0 {
		return Query{}, errors.Wrapf(ErrEmptyQuery, "query %q", id)
	}
	return q, nil
}

// splitClauses splits on whitespace outside double quotes.
func splitClauses(text string) ([]string, error) {
	var items []string
	var cur strings.Builder
	inQuote := false

	flush := func() {
		if cur.Len() > 0 {
			items = append(items, cur.String())
			cur.Reset()
		}
	}

	for _, r := range text {
		switch {
		case r == '"':
			inQuote = !inQuote
			cur.WriteRune(r)
		case unicode.IsSpace(r) && !inQuote:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if inQuote {
		return nil, errors.Wrapf(ErrInvalidQuery, "unterminated phrase in %q", text)
	}
	flush()

	return items, nil
}
