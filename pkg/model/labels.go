package model

import (
	"regexp"
	"strings"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)

// DefaultLabeler converts a key into a human-friendly label, splitting on
// underscores, dashes and camelCase boundaries ("invoiceEmail" becomes
// "Invoice Email"). Definitions that omit a label fall back to it.
func DefaultLabeler(key string) string {
	if key == "" {
		return ""
	}

	var segments []string
	for _, word := range splitWordsPattern.Split(key, -1) {
		if word == "" {
			continue
		}
		segments = append(segments, splitCamel(word)...)
	}
	for idx, segment := range segments {
		segments[idx] = titleCase(segment)
	}
	return strings.Join(segments, " ")
}

func splitCamel(input string) []string {
	var (
		words   []string
		current strings.Builder
	)
	for i, r := range input {
		if i > 0 && isBoundary(input, i, r) {
			words = append(words, current.String())
			current.Reset()
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

func isBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	return (isLower(prev) && isUpper(r)) || (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
