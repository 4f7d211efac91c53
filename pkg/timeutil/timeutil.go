// Package timeutil implements the logical-day bucketing used across the API:
// a day runs from a configurable cutoff hour (local time) to the same cutoff
// on the next calendar day, so late-night activity counts toward the previous
// date.
package timeutil

import (
	"fmt"
	"time"

	dErrors "github.com/JosephStocks/toggl-entry-annotator/pkg/domain-errors"
)

// DayWindow is the [Start, End) absolute-time interval of one logical day.
// Both bounds are UTC instants.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the window.
func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// ResolveDayWindow returns the logical-day window containing t.
//
// The anchor date is t's local calendar date in loc, rolled back one day when
// the local hour is before cutoffHour. Windows span 24 local-clock hours:
// Start is cutoffHour:00:00 on the anchor date and End the same construction
// one calendar day later, so the absolute duration is 23, 24, or 25 hours on
// DST transition days. Nonexistent or ambiguous local cutoff instants resolve
// per time.Date normalization (ambiguous wall times take the first
// occurrence). When that normalization leaves t outside the candidate window
// — possible for instants in the shadow of a spring-forward gap — the window
// shifts by one anchor day so Start <= t < End always holds.
//
// The zone is passed in explicitly; this function performs no environment
// lookups.
func ResolveDayWindow(t time.Time, cutoffHour int, loc *time.Location) (DayWindow, error) {
	if cutoffHour < 0 || cutoffHour > 23 {
		return DayWindow{}, dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("cutoff hour must be in [0,23], got %d", cutoffHour))
	}
	if loc == nil {
		return DayWindow{}, dErrors.New(dErrors.CodeBadRequest, "timezone must be provided")
	}

	local := t.In(loc)
	anchor := local
	if local.Hour() < cutoffHour {
		anchor = local.AddDate(0, 0, -1)
	}
	year, month, day := anchor.Date()

	start := time.Date(year, month, day, cutoffHour, 0, 0, 0, loc)
	end := time.Date(year, month, day+1, cutoffHour, 0, 0, 0, loc)

	switch {
	case t.Before(start):
		end = start
		start = time.Date(year, month, day-1, cutoffHour, 0, 0, 0, loc)
	case !t.Before(end):
		start = end
		end = time.Date(year, month, day+2, cutoffHour, 0, 0, 0, loc)
	}

	return DayWindow{Start: start.UTC(), End: end.UTC()}, nil
}

// WindowForDate returns the window anchored on the given civil date, i.e. the
// interval [cutoff on date, cutoff on date+1) in loc. Used when a client asks
// for a specific calendar day rather than the day containing an instant.
func WindowForDate(year int, month time.Month, day int, cutoffHour int, loc *time.Location) (DayWindow, error) {
	if cutoffHour < 0 || cutoffHour > 23 {
		return DayWindow{}, dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("cutoff hour must be in [0,23], got %d", cutoffHour))
	}
	if loc == nil {
		return DayWindow{}, dErrors.New(dErrors.CodeBadRequest, "timezone must be provided")
	}
	start := time.Date(year, month, day, cutoffHour, 0, 0, 0, loc)
	end := time.Date(year, month, day+1, cutoffHour, 0, 0, 0, loc)
	return DayWindow{Start: start.UTC(), End: end.UTC()}, nil
}

// FormatRange renders a start/stop pair for display, e.g. "4:00 AM - 6:30 AM".
// A nil stop marks a running entry: "4:00 AM - running".
func FormatRange(start time.Time, stop *time.Time, loc *time.Location) string {
	const layout = "3:04 PM"
	s := start.In(loc).Format(layout)
	if stop == nil {
		return s + " - running"
	}
	return s + " - " + stop.In(loc).Format(layout)
}
