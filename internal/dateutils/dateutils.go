// Package dateutils parses the calendar dates found in bank statement exports.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayoutISO is the canonical output layout.
const DateLayoutISO = "2006-01-02"

// StatementLayouts are tried in order by ParseStatementDate. Day and month
// accept one or two digits. An ambiguous value such as "03/01/2024" resolves
// to the first layout that accepts it, so day/month/year wins over
// month/day/year; this is list order, not locale detection.
var StatementLayouts = []string{
	"2/1/2006",
	"2006-1-2",
	"2-1-2006",
	"1/2/2006",
	"2006/1/2",
}

var whitespace = regexp.MustCompile(`\s+`)

// ParseStatementDate parses s with the first matching layout in
// StatementLayouts and returns midnight UTC of that day.
func ParseStatementDate(s string) (time.Time, error) {
	t, _, err := ParseWithLayouts(s, StatementLayouts)
	return t, err
}

// ParseWithLayouts tries layouts in order and returns the parsed date with the
// layout that matched.
func ParseWithLayouts(s string, layouts []string) (time.Time, string, error) {
	s = CleanDateString(s)
	if s == "" {
		return time.Time{}, "", fmt.Errorf("unable to parse date: empty value")
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), layout, nil
		}
	}
	return time.Time{}, "", fmt.Errorf("unable to parse date: %s", s)
}

// ToISODate formats date as YYYY-MM-DD.
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}

// CleanDateString trims s and collapses internal whitespace.
func CleanDateString(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}
