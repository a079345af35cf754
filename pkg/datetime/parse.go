// Package datetime provides date and time utility functions.
package datetime

import (
	"time"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
)

const (
	// MonthLayout is the format of month keys, e.g. "2024-06".
	MonthLayout = constants.MonthLayout

	// DateLayout is the format of calendar dates, e.g. "2024-06-01".
	DateLayout = constants.DateLayout
)

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseAsOf parses a CLI or query-string reference date. An empty string
// yields the fallback.
func ParseAsOf(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse(DateLayout, value)
}
