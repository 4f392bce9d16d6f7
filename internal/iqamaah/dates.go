package iqamaah

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

var (
	isoDateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	usDateRE  = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
	clockRE   = regexp.MustCompile(`^([01]?\d|2[0-3]):([0-5]\d)$`)
)

// ParseFlexibleDate parses YYYY-MM-DD or M/D/YYYY into a UTC-midnight day
// value. Anything else fails with ErrInvalidDateFormat.
func ParseFlexibleDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty date", ErrInvalidDateFormat)
	}

	var layout string
	switch {
	case isoDateRE.MatchString(s):
		layout = dayLayout
	case usDateRE.MatchString(s):
		layout = "1/2/2006"
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}

	d, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, s)
	}
	return d, nil
}

// FormatDay renders a day value as YYYY-MM-DD, the only output form.
func FormatDay(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// AddDays shifts a UTC day value by whole days.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// NormalizeClock pads a matching H:mm value to HH:mm. Non-matching input is
// returned trimmed but otherwise untouched; the strict check that actually
// rejects malformed times is ValidClock.
func NormalizeClock(s string) string {
	s = strings.TrimSpace(s)
	m := clockRE.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	if len(m[1]) == 1 {
		return "0" + m[1] + ":" + m[2]
	}
	return s
}

// ValidClock reports whether s is an H:mm or HH:mm 24-hour clock string.
func ValidClock(s string) bool {
	return clockRE.MatchString(s)
}

func todayUTC(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// monthBounds returns the first and last UTC day of a calendar month.
func monthBounds(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}
