package model

import (
	"errors"
	"strings"
	"time"
)

// ErrBadTimestamp is returned when a timestamp matches none of the known layouts.
var ErrBadTimestamp = errors.New("unrecognized timestamp")

// Scrapers disagree on timestamp shape: tweet providers emit
// "2011-04-25 16:55:15+00:00" while the reddit scraper emits
// "2011-04-25T16:55:15.000Z".
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RubyDate,
	time.RFC1123Z,
}

// ParseTimestamp parses a source-native timestamp into UTC.
// Timestamps without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrBadTimestamp
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrBadTimestamp
}

// TimestampPrefix returns the first n bytes of a timestamp string, or the whole string if shorter.
func TimestampPrefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
