// Package timeutil holds the minute-of-day arithmetic shared by the
// schedule fetcher, the notifier and the bot texts. All times are
// region-local wall clock, no timezone conversion happens here.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesToClock converts minutes from midnight (0–1440) to "HH:MM".
func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ClockToMinutes converts "HH:MM" back to minutes from midnight.
// Malformed input yields 0.
func ClockToMinutes(clock string) int {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return hours*60 + minutes
}

// MinutesOfDay returns the minute-of-day for t in its own location.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// DateString formats t as an ISO calendar date, e.g. "2026-01-11".
func DateString(t time.Time) string {
	return t.Format("2006-01-02")
}

// FormatDurationUK renders a minute count the way the bot speaks,
// e.g. "2 год 15 хв", "2 год", "45 хв".
func FormatDurationUK(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%d год %d хв", h, m)
	case h > 0:
		return fmt.Sprintf("%d год", h)
	default:
		return fmt.Sprintf("%d хв", m)
	}
}
