package inmemory

import (
	"reflect"
	"testing"
)

func TestAnalyze(t *testing.T) {
	tests := map[string]struct {
		text     string
		expected []Token
	}{
		"empty": {
			text:     "",
			expected: []Token{},
		},
		"punctuation_only": {
			text:     " -- !? ",
			expected: []Token{},
		},
		"simple_sentence": {
			text: "The quick fox",
			expected: []Token{
				{Term: "the", Position: 0, StartOffset: 0, EndOffset: 3},
				{Term: "quick", Position: 1, StartOffset: 4, EndOffset: 9},
				{Term: "fox", Position: 2, StartOffset: 10, EndOffset: 13},
			},
		},
		"mixed_case_and_punctuation": {
			text: "Hello, World-42!",
			expected: []Token{
				{Term: "hello", Position: 0, StartOffset: 0, EndOffset: 5},
				{Term: "world", Position: 1, StartOffset: 7, EndOffset: 12},
				{Term: "42", Position: 2, StartOffset: 13, EndOffset: 15},
			},
		},
		"offsets_count_runes": {
			text: "café au lait",
			expected: []Token{
				{Term: "café", Position: 0, StartOffset: 0, EndOffset: 4},
				{Term: "au", Position: 1, StartOffset: 5, EndOffset: 7},
				{Term: "lait", Position: 2, StartOffset: 8, EndOffset: 12},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := Analyze(tt.text)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Analyze(%q) = %+v, expected %+v", tt.text, got, tt.expected)
			}
		})
	}
}
