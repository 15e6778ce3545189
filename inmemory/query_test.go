package inmemory

import (
	"reflect"
	"testing"

	"github.com/cockroachdb/errors"
)

func TestParseQuery(t *testing.T) {
	tests := map[string]struct {
		text     string
		expected []Clause
	}{
		"single_term": {
			text:     "Fox",
			expected: []Clause{TermClause{Field: "text", Term: "fox"}},
		},
		"terms_are_separate_clauses": {
			text: "fox dog",
			expected: []Clause{
				TermClause{Field: "text", Term: "fox"},
				TermClause{Field: "text", Term: "dog"},
			},
		},
		"quoted_phrase": {
			text: `"lazy dog" fox`,
			expected: []Clause{
				PhraseClause{Field: "text", Terms: []string{"lazy", "dog"}},
				TermClause{Field: "text", Term: "fox"},
			},
		},
		"field_prefix": {
			text: `title:news body:"breaking story"`,
			expected: []Clause{
				TermClause{Field: "title", Term: "news"},
				PhraseClause{Field: "body", Terms: []string{"breaking", "story"}},
			},
		},
		"quoted_single_word_is_a_term": {
			text:     `"fox"`,
			expected: []Clause{TermClause{Field: "text", Term: "fox"}},
		},
		"hyphenated_word_is_a_phrase": {
			text:     "e-mail",
			expected: []Clause{PhraseClause{Field: "text", Terms: []string{"e", "mail"}}},
		},
		"colon_inside_phrase_is_not_a_field": {
			text:     `"note: fox"`,
			expected: []Clause{PhraseClause{Field: "text", Terms: []string{"note", "fox"}}},
		},
		"punctuation_clauses_are_skipped": {
			text:     "fox --",
			expected: []Clause{TermClause{Field: "text", Term: "fox"}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			q, err := ParseQuery("q", tt.text, "text")
			if err != nil {
				t.Fatalf("ParseQuery(%q) failed: %v", tt.text, err)
			}
			if q.ID != "q" {
				t.Errorf("Expected ID q, got %q", q.ID)
			}
			if !reflect.DeepEqual(q.Clauses, tt.expected) {
				t.Errorf("ParseQuery(%q) clauses = %+v, expected %+v", tt.text, q.Clauses, tt.expected)
			}
		})
	}
}

func TestParseQueryErrors(t *testing.T) {
	tests := map[string]struct {
		text string
		err  error
	}{
		"empty":               {text: "", err: ErrEmptyQuery},
		"whitespace":          {text: "   ", err: ErrEmptyQuery},
		"punctuation":         {text: "!!", err: ErrEmptyQuery},
		"unterminated_phrase": {text: `"lazy dog`, err: ErrInvalidQuery},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseQuery("q", tt.text, "text")
			if !errors.Is(err, tt.err) {
				t.Errorf("Expected %v, got %v", tt.err, err)
			}
		})
	}
}

func TestClauseConstructors(t *testing.T) {
	if got := Term("body", "FOX"); !reflect.DeepEqual(got, TermClause{Field: "body", Term: "fox"}) {
		t.Errorf("Term() = %+v", got)
	}
	if got := Phrase("body", "Lazy", "DOG"); !reflect.DeepEqual(got, PhraseClause{Field: "body", Terms: []string{"lazy", "dog"}}) {
		t.Errorf("Phrase() = %+v", got)
	}
}
