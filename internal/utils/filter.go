package utils

import (
	"strings"
	"unicode"
)

// NormalizeQuery trims a raw query and collapses internal whitespace runs
// into single spaces. The service treats "12  Main" and "12 Main" the same,
// and collapsing up front keeps the debounce layer from firing on
// whitespace-only edits.
func NormalizeQuery(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ContainsControlChars checks if a string contains control characters
func ContainsControlChars(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// IsRepetitive checks if a string consists of repetitive characters
// Simple version that checks for repeated characters (e.g., "aaa", "bbb")
func IsRepetitive(s string) bool {
	if len(s) <= 2 {
		return false
	}

	firstChar := s[0]
	for i := 1; i < len(s); i++ {
		if s[i] != firstChar {
			return false
		}
	}
	return true
}

// IsValidQuery checks if input should be forwarded to the places service.
// Returns false for blank strings, control characters, repetitive keystroke
// noise, and strings without a single letter or digit. Punctuation like
// commas and hyphens stays allowed since street addresses carry them.
func IsValidQuery(s string) bool {
	s = NormalizeQuery(s)
	if len(s) == 0 {
		return false
	}
	if ContainsControlChars(s) {
		return false
	}
	if IsRepetitive(s) {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
