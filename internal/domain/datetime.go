package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are the accepted input formats for event dates, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"01/02/2006",
	"2006/01/02",
	"2 January 2006",
}

// NormalizeDate parses a heterogeneous date string and returns the canonical
// YYYY-MM-DD form. It wraps ErrInvalidFormat when the input does not parse
// into a valid calendar date. Pure and deterministic.
func NormalizeDate(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", fmt.Errorf("%w: empty date", ErrInvalidFormat)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("%w: unrecognized date %q", ErrInvalidFormat, input)
}

// timeRe matches H:MM or HH:MM with an optional AM/PM suffix (case-insensitive).
var timeRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s*([AaPp][Mm]))?$`)

// NormalizeTime parses a 24-hour (H:MM, hours 0-23) or 12-hour
// (H:MM AM|PM, hours 1-12) time string and returns the canonical zero-padded
// 24-hour HH:MM form. 12:00 AM maps to 00:00 and 12:00 PM to 12:00. It wraps
// ErrInvalidFormat for anything else. Pure and deterministic.
func NormalizeTime(input string) (string, error) {
	m := timeRe.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return "", fmt.Errorf("%w: unrecognized time %q", ErrInvalidFormat, input)
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 {
		return "", fmt.Errorf("%w: minute out of range in %q", ErrInvalidFormat, input)
	}
	meridiem := strings.ToUpper(m[3])
	switch meridiem {
	case "":
		if hour > 23 {
			return "", fmt.Errorf("%w: hour out of range in %q", ErrInvalidFormat, input)
		}
	case "AM":
		if hour < 1 || hour > 12 {
			return "", fmt.Errorf("%w: hour out of 12-hour range in %q", ErrInvalidFormat, input)
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return "", fmt.Errorf("%w: hour out of 12-hour range in %q", ErrInvalidFormat, input)
		}
		if hour != 12 {
			hour += 12
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}
