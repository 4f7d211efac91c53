package sync

import "time"

// maxSpanDays caps one reports API request span. The detailed reports API
// rejects date ranges longer than a year, so full backfills are chunked.
const maxSpanDays = 365

// DateSpan is an inclusive calendar date range.
type DateSpan struct {
	Start time.Time
	End   time.Time
}

// SplitDateSpans chunks the inclusive [start, end] date range into spans of
// at most maxSpanDays calendar dates each. Consecutive spans abut: each
// starts the day after the previous span ends.
func SplitDateSpans(start, end time.Time) []DateSpan {
	var spans []DateSpan
	for !start.After(end) {
		spanEnd := start.AddDate(0, 0, maxSpanDays-1)
		if spanEnd.After(end) {
			spanEnd = end
		}
		spans = append(spans, DateSpan{Start: start, End: spanEnd})
		start = spanEnd.AddDate(0, 0, 1)
	}
	return spans
}
