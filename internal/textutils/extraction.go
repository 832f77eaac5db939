// Package textutils provides text extraction and manipulation utilities.
package textutils

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseLeadingInt parses the integer before the first "-" in s, as found in
// account codes like "41500 - Kantoorkosten". Whitespace around the number
// is ignored. ok is false when there is no parsable number.
func ParseLeadingInt(s string) (n int, ok bool) {
	head, _, _ := strings.Cut(s, "-")
	head = strings.TrimSpace(head)
	if head == "" {
		return 0, false
	}
	n, err := strconv.Atoi(head)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NormalizeWhitespace collapses runs of whitespace into single spaces and
// trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate shortens s to at most max runes, ending with "..." when cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	if max <= 3 {
		return string(runes[:max])
	}
	return strings.TrimRightFunc(string(runes[:max-3]), unicode.IsSpace) + "..."
}

// IsDigitsOnly reports whether s, ignoring spaces, is a non-empty run of digits.
func IsDigitsOnly(s string) bool {
	seen := false
	for _, r := range s {
		switch {
		case r == ' ':
			continue
		case unicode.IsDigit(r):
			seen = true
		default:
			return false
		}
	}
	return seen
}

// IsNumericToken reports whether s contains digits and otherwise only
// punctuation, such as "2024-001" or "#12".
func IsNumericToken(s string) bool {
	digits := false
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			digits = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
		default:
			return false
		}
	}
	return digits
}

// KeepRunes returns s with every rune for which keep returns false removed.
func KeepRunes(s string, keep func(rune) bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
