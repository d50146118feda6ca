package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases text, replaces every rune that is not a letter, number,
// underscore or whitespace with a space, collapses whitespace runs and trims.
// Input is NFC-composed first so decomposed accents match lexicon entries.
func Normalize(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	composed := strings.ToLower(norm.NFC.String(trimmed))

	var b strings.Builder
	b.Grow(len(composed))
	lastSpace := true
	for _, r := range composed {
		if !isWordRune(r) {
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}
	return strings.TrimSpace(b.String())
}

// Words returns the normalized text split on whitespace.
func Words(input string) []string {
	normalized := Normalize(input)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
