// Package dateutils provides common date and time operations used throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO       = "2006-01-02"
	DateLayoutISOTime   = "2006-01-02T15:04:05"
	DateLayoutFull      = "2006-01-02 15:04:05"
	DateLayoutDutch     = "02-01-2006"
	DateLayoutEuropean  = "02.01.2006"
	DateLayoutSlashed   = "02/01/2006"
	DateLayoutShortDash = "2-1-2006"
)

// CommonFormats is a list of standard formats to try when parsing dates.
// Day-first layouts are tried before any other, as exports use Dutch dates.
var CommonFormats = []string{
	DateLayoutISO,
	DateLayoutISOTime,
	DateLayoutFull,
	time.RFC3339,
	DateLayoutDutch,
	DateLayoutEuropean,
	DateLayoutSlashed,
	DateLayoutShortDash,
	"2006/01/02",
}

var spaces = regexp.MustCompile(`\s+`)

// ParseDate attempts to parse a date string using multiple common formats
// Returns the parsed time and the detected format
func ParseDate(dateStr string) (time.Time, string, error) {
	dateStr = CleanDateString(dateStr)

	for _, format := range CommonFormats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, format, nil
		}
	}

	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", dateStr)
}

// FormatDate formats a time.Time value according to the specified layout
// If no layout is provided, DateLayoutISO is used
func FormatDate(date time.Time, layout string) string {
	if date.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DateLayoutISO
	}
	return date.Format(layout)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return FormatDate(date, DateLayoutISO)
}

// CleanDateString removes unwanted characters and normalizes a date string
func CleanDateString(dateStr string) string {
	return spaces.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}
