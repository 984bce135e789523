package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractQuestions(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			"Mixed Lines",
			"I hear you.\nQ1: What helped today?\nQ2: What's next?\nnot a question line",
			[]string{"What helped today?", "What's next?"},
		},
		{
			"No Questions",
			"Just a reflection with no labels.",
			[]string{},
		},
		{
			"Empty Text",
			"",
			[]string{},
		},
		{
			"Case Insensitive Label",
			"q1: lower case works\nQ2 : spaced colon works",
			[]string{"lower case works", "spaced colon works"},
		},
		{
			"Label With Empty Body Dropped",
			"Q1:\nQ2: kept",
			[]string{"kept"},
		},
		{
			"Leading Whitespace Trimmed",
			"   Q1: indented question   ",
			[]string{"indented question"},
		},
		{
			"Label Mid Line Ignored",
			"this mentions Q1: inline and is not a question line",
			[]string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ExtractQuestions(tc.text))
		})
	}
}

func TestExtractQuestionsTruncatesAtThree(t *testing.T) {
	text := "Q1: one\nQ2: two\nQ3: three\nQ4: four\nQ5: five"
	got := ExtractQuestions(text)
	assert.Equal(t, []string{"one", "two", "three"}, got)
}

func TestExtractQuestionsKeepsOriginalOrder(t *testing.T) {
	text := "Q3: third label first\nQ1: then the first"
	got := ExtractQuestions(text)
	assert.Equal(t, []string{"third label first", "then the first"}, got)
}
