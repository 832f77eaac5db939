// Package party extracts counterparty names from free-text bank descriptions,
// decides whether a counterparty is a customer or a supplier, and builds the
// display names used for imported parties.
package party

import (
	"fmt"
	"strings"

	"nvv/ebh-import/internal/logging"
	"nvv/ebh-import/internal/rules"
	"nvv/ebh-import/internal/textutils"
)

// Extractor pulls a counterparty name out of a transaction description.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	rules  *rules.Compiled
	logger logging.Logger
}

// NewExtractor creates an Extractor over compiled rule tables. A nil logger
// discards log output.
func NewExtractor(compiled *rules.Compiled, logger logging.Logger) *Extractor {
	return &Extractor{rules: compiled, logger: logging.OrNop(logger)}
}

// Extract returns the counterparty named in description. The description
// is cleaned of boilerplate, the extraction patterns are tried in order, and
// the first candidate that survives cleanup and validation wins. ok is false
// when no pattern yields a valid name. Extract never panics: an internal
// fault is logged and reported as no party.
func (e *Extractor) Extract(description string) (name string, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Party extraction failed",
				logging.Field{Key: logging.FieldError, Value: fmt.Sprint(r)},
				logging.Field{Key: "description", Value: description})
			name, ok = "", false
		}
	}()

	cleaned := e.Cleanup(description)
	if cleaned == "" {
		return "", false
	}

	for i, re := range e.rules.ExtractionPatterns() {
		m := re.FindStringSubmatchIndex(cleaned)
		if m == nil || m[2] < 0 {
			continue
		}
		// A connector inside an organisation name does not start a party.
		if e.rules.ContainsOrganizationWord(cleaned[:m[2]]) {
			continue
		}
		candidate := e.cleanCandidate(cleaned[m[2]:m[3]])
		if !e.valid(candidate) {
			e.logger.Debug("Rejected party candidate",
				logging.Field{Key: logging.FieldPattern, Value: i},
				logging.Field{Key: logging.FieldParty, Value: candidate})
			continue
		}
		e.logger.Debug("Extracted party name",
			logging.Field{Key: logging.FieldPattern, Value: i},
			logging.Field{Key: logging.FieldParty, Value: candidate})
		return candidate, true
	}
	return "", false
}

// Name is Extract with SEPA-formatted descriptions handled first.
func (e *Extractor) Name(description string) (string, bool) {
	if name, ok := ExtractFromSEPA(description); ok {
		return name, true
	}
	return e.Extract(description)
}

// Cleanup strips boilerplate prefixes and suffixes from description. When
// the result would be shorter than the minimum name length the normalized
// original is returned instead. Cleanup is idempotent.
func (e *Extractor) Cleanup(description string) string {
	original := textutils.NormalizeWhitespace(description)
	cleaned := original
	for _, re := range e.rules.CleanupPatterns() {
		cleaned = strings.TrimSpace(re.ReplaceAllString(cleaned, ""))
	}
	cleaned = textutils.NormalizeWhitespace(cleaned)
	if len([]rune(cleaned)) < e.rules.MinNameLength() {
		return original
	}
	return cleaned
}

// Accept cleans a name obtained elsewhere, such as a model suggestion, and
// applies the same validation as extracted candidates.
func (e *Extractor) Accept(candidate string) (string, bool) {
	candidate = e.cleanCandidate(candidate)
	if !e.valid(candidate) {
		return "", false
	}
	return candidate, true
}

func (e *Extractor) cleanCandidate(candidate string) string {
	candidate = textutils.NormalizeWhitespace(candidate)
	candidate = e.rules.StripPurpose(candidate)
	candidate = e.rules.StripArticle(candidate)
	if head, _, found := strings.Cut(candidate, ","); found {
		candidate = head
	}
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(candidate), ":;-"))
}

// valid rejects candidates that are too short, purely numeric, or made up
// only of generic terms, connectors, articles and numbers. A name that
// merely contains a generic word, like "ABN AMRO Bank", is accepted.
func (e *Extractor) valid(candidate string) bool {
	if len([]rune(candidate)) < e.rules.MinNameLength() {
		return false
	}
	if textutils.IsDigitsOnly(candidate) {
		return false
	}
	if e.rules.IsGenericTerm(candidate) {
		return false
	}
	for _, word := range strings.Fields(candidate) {
		if !e.rules.IsGenericTerm(word) && !e.rules.IsNoiseWord(word) && !textutils.IsNumericToken(word) {
			return true
		}
	}
	return false
}
