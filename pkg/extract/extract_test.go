package extract

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name: "unigrams and bigrams",
			text: "Precision oncology uses molecular profiling.",
			expected: []string{
				"precision",
				"oncology",
				"precision oncology",
				"molecular",
				"profiling",
				"molecular profiling",
			},
		},
		{
			name:     "stop words filtered",
			text:     "the treatment of the patient",
			expected: []string{"treatment", "patient"},
		},
		{
			name:     "punctuation stripped and case folded",
			text:     "Chemo-therapy, RADIATION!",
			expected: []string{"chemo", "therapy", "chemo therapy", "radiation", "therapy radiation"},
		},
		{
			name:     "all stop words falls back to longest token",
			text:     "it was because of the",
			expected: []string{"because"},
		},
		{
			name:     "empty text",
			text:     "",
			expected: nil,
		},
		{
			name:     "whitespace only",
			text:     "   \n\t  ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Fatalf("Extract(%q) = %v, expected %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestExtractDeterministic(t *testing.T) {
	text := "Immunotherapy harnesses the immune system to fight cancer."

	first := Extract(text)
	second := Extract(text)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical sequences, got %v and %v", first, second)
	}
}
