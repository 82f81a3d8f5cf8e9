package service

import (
	"strings"
	"unicode/utf8"

	"two-doc-checker/internal/models"
)

const truncationMarker = "\n\n[TRUNCATED DUE TO LENGTH]\n"

// sanitizeUTF8 removes invalid UTF-8 sequences from string
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size == 1 {
			// Invalid UTF-8 sequence, skip this byte
			s = s[1:]
			continue
		}
		result.WriteRune(r)
		s = s[size:]
	}

	return result.String()
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// capText keeps the first maxChars characters and appends a visible marker
// when anything was cut.
func capText(s string, maxChars int) (string, bool) {
	if utf8.RuneCountInString(s) <= maxChars {
		return s, false
	}
	return string([]rune(s)[:maxChars]) + truncationMarker, true
}

// clipRunes shortens s to at most n characters.
func clipRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// inferGoverningType is lexical only: a governing document that mentions
// "purchase order" anywhere is treated as a PO.
func inferGoverningType(governingText string) models.GoverningDocType {
	if strings.Contains(strings.ToLower(governingText), "purchase order") {
		return models.GoverningPO
	}
	return models.GoverningContract
}
