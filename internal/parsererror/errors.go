// Package parsererror defines the typed errors returned while reading
// mutation exports and rule tables.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrEmptyInput is returned when an export contains no mutations.
var ErrEmptyInput = errors.New("no mutations found in input")

// ParseError represents a field of an input row that could not be parsed.
type ParseError struct {
	Source string
	Row    int
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s: row %d: failed to parse %s='%s': %v",
			e.Source, e.Row, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Source, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RuleError reports an invalid entry in a rule table.
type RuleError struct {
	Table  string
	Index  int
	Reason string
	Err    error
}

func (e *RuleError) Error() string {
	msg := fmt.Sprintf("invalid rule %s[%d]: %s", e.Table, e.Index, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RuleError) Unwrap() error {
	return e.Err
}

// ValidationError represents a validation failure of an input file.
type ValidationError struct {
	FilePath string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.FilePath, e.Reason)
}

// InvalidFormatError represents an input file that does not have the
// expected format.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}
