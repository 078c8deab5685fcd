package jpholiday

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/width"
)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"20060102",
}

// ParseError reports a date string that could not be parsed.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jpholiday: invalid date %q: %v", e.Input, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseDate parses a calendar date written as "2024-01-01", "2024/1/1" or
// "20240101". Full-width digits and separators ("２０２４／１／１") are
// accepted. The result is midnight UTC, the same form used by [Holiday.Date].
// Malformed input returns a *ParseError.
func ParseDate(s string) (time.Time, error) {
	norm := strings.TrimSpace(width.Narrow.String(s))
	if norm == "" {
		return time.Time{}, &ParseError{Input: s, Err: fmt.Errorf("empty string")}
	}

	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, norm)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, &ParseError{Input: s, Err: firstErr}
}
