package handlers

import (
	"strings"
	"unicode/utf8"

	"github.com/homi-app/homi-backend/internal/apperrors"
)

// MaxEntryLength bounds a journal entry, matching the UI-side limit.
const MaxEntryLength = 4000

// JournalRequest is the write-path payload.
type JournalRequest struct {
	Entry string `json:"entry"`
	Tone  string `json:"tone,omitempty"`
}

// UpdateEntryRequest is the edit payload.
type UpdateEntryRequest struct {
	Entry string `json:"entry"`
}

// validateEntryText enforces the 1–4000 char bound. Whitespace-only text is
// invalid; length is counted in runes. Returns the trimmed text.
func validateEntryText(entry string) (string, error) {
	trimmed := strings.TrimSpace(entry)
	if trimmed == "" {
		return "", apperrors.ErrInvalidInput
	}
	if utf8.RuneCountInString(entry) > MaxEntryLength {
		return "", apperrors.ErrInvalidInput
	}
	return trimmed, nil
}
