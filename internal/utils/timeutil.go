package utils

import (
	"time"
)

// DateLayout is the fixed-width, most-significant-first form every period
// date uses. Lexicographic order on it equals calendar order.
const DateLayout = "2006-01-02"

// DateOnly drops the time of day and formats t in DateLayout.
func DateOnly(t time.Time) string {
	return t.Format(DateLayout)
}

// Today returns the current wall-clock date in DateLayout.
func Today() string {
	return DateOnly(time.Now())
}

// DateInRange checks if a date lies between two boundaries (inclusive).
// All three values must be in DateLayout.
func DateInRange(date, start, end string) bool {
	return start <= date && date <= end
}

// ParseDate parses s as a DateLayout date. It rejects values that are not
// exactly ten characters, which keeps lexicographic comparison valid.
func ParseDate(s string) (time.Time, error) {
	if len(s) != len(DateLayout) {
		return time.Time{}, &time.ParseError{Layout: DateLayout, Value: s, Message: ": not a fixed-width date"}
	}
	return time.Parse(DateLayout, s)
}

// NextDay returns the DateLayout date following s.
func NextDay(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return DateOnly(t.AddDate(0, 0, 1)), nil
}
