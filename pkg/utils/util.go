package utils

import (
	"strings"
	"time"
	"unicode"
)

// Date layouts used in reports
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04"
)

// DigitsOnly strips every non-digit rune
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatDate renders t as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateTime renders t as YYYY-MM-DD HH:MM
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// ParseDayRange turns inclusive YYYY-MM-DD bounds into a [from, to] time window.
// Empty bounds come back nil.
func ParseDayRange(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if start != "" {
		t, err := time.Parse(DateLayout, start)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if end != "" {
		t, err := time.Parse(DateLayout, end)
		if err != nil {
			return nil, nil, err
		}
		t = t.Add(24*time.Hour - time.Nanosecond)
		to = &t
	}
	return from, to, nil
}
