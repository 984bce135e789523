package services

import (
	"regexp"
	"strings"
)

// questionLabelRe matches the "Q<n>:" label the prompt asks the model to put
// in front of each follow-up question, with optional whitespace around the
// colon. Case-insensitive.
var questionLabelRe = regexp.MustCompile(`(?i)^q\d+\s*:\s*`)

// ExtractQuestions pulls the labeled follow-up questions out of the raw
// assistant text: split into lines, trim, keep lines starting with Q<n>:,
// strip the label, drop empties, cap at 3 in original order. The caller
// keeps the full text verbatim as content; the Q-lines are not removed
// from it.
func ExtractQuestions(text string) []string {
	questions := make([]string, 0, 3)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !questionLabelRe.MatchString(line) {
			continue
		}
		q := questionLabelRe.ReplaceAllString(line, "")
		if q == "" {
			continue
		}
		questions = append(questions, q)
		if len(questions) == 3 {
			break
		}
	}
	return questions
}
