package timecalc

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ISODate formats t as an ISO calendar day (YYYY-MM-DD) in UTC.
func ISODate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Today returns the current local calendar day as an ISO date string.
func Today() string {
	return time.Now().Format("2006-01-02")
}

// ParseISODate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseISODate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// UTCMidnight truncates t to the start of its UTC calendar day.
func UTCMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// PreviousDay returns the same time one calendar day earlier.
func PreviousDay(t time.Time) time.Time {
	return t.AddDate(0, 0, -1)
}

// NextDay returns the same time one calendar day later.
func NextDay(t time.Time) time.Time {
	return t.AddDate(0, 0, 1)
}

// FormatDateWithWeekday returns a label like "Sat 2026-08-30".
func FormatDateWithWeekday(t time.Time) string {
	return t.UTC().Format("Mon 2006-01-02")
}

// FormatDuration formats seconds as HH:MM. Stray seconds of half a
// minute or more round the minute up, so 1h 30m 30s renders as 01:31.
func FormatDuration(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if seconds%60 >= 30 {
		minutes++
		if minutes == 60 {
			minutes = 0
			hours++
		}
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

// ParseDuration parses a duration entered as "H" or "H:MM" into seconds.
// A blank string parses to zero. Anything else is an error.
func ParseDuration(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}

	components := strings.Split(s, ":")
	if len(components) > 2 {
		return 0, fmt.Errorf("invalid duration %q (want H or H:MM)", s)
	}

	values := make([]int64, len(components))
	for i, c := range components {
		v, err := strconv.ParseInt(strings.TrimSpace(c), 10, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid duration %q (want H or H:MM)", s)
		}
		values[i] = v
	}

	seconds := values[0] * 3600
	if len(values) > 1 {
		seconds += values[1] * 60
	}
	return seconds, nil
}
