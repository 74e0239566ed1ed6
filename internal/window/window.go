// Package window selects the records that fall inside a named dashboard window.
// "Now" is always passed in; nothing here reads the wall clock.
package window

import (
	"time"

	"agent-insights-go/internal/types"
)

type Window string

const (
	Today      Window = "today"
	Last7Days  Window = "7days"
	Last30Days Window = "30days"

	// Calendar granularities, also accepted by the series bucketizer.
	Day   Window = "day"
	Week  Window = "week"
	Month Window = "month"
	Year  Window = "year"
)

const day = 24 * time.Hour

// All lists every recognised window in display order.
var All = []Window{Today, Last7Days, Last30Days, Day, Week, Month, Year}

// Parse returns the window for s. Unknown names are returned as-is with ok=false
// so callers can still run the pipeline and get empty results.
func Parse(s string) (Window, bool) {
	w := Window(s)
	return w, w.Known()
}

func (w Window) Known() bool {
	for _, k := range All {
		if w == k {
			return true
		}
	}
	return false
}

// Since is the earliest instant the window can contain, used by record sources
// to narrow a fetch. Unknown windows start at now.
func (w Window) Since(now time.Time) time.Time {
	switch w {
	case Today, Day:
		return StartOfDay(now)
	case Last7Days, Week:
		return now.Add(-7 * day)
	case Last30Days:
		return now.Add(-30 * day)
	case Month:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case Year:
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	}
	return now
}

// Contains reports whether t lies inside w evaluated at now, in now's location.
func (w Window) Contains(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	lt := t.In(now.Location())
	switch w {
	case Today, Day:
		return sameDate(lt, now)
	case Last7Days, Week:
		return trailing(lt, now, 7)
	case Last30Days:
		return trailing(lt, now, 30)
	case Month:
		return lt.Year() == now.Year() && lt.Month() == now.Month()
	case Year:
		return lt.Year() == now.Year()
	}
	return false
}

// Filter returns the records inside w. The result is never nil and the
// input is not modified.
func Filter[R types.Record](records []R, w Window, now time.Time) []R {
	out := make([]R, 0, len(records))
	if !w.Known() {
		return out
	}
	for _, r := range records {
		if w.Contains(r.OccurredAt(), now) {
			out = append(out, r)
		}
	}
	return out
}

// StartOfDay truncates t to local midnight, DST-safe.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// trailing is a sliding N*24h window ending at now; future records are out.
func trailing(t, now time.Time, days int) bool {
	start := now.Add(-time.Duration(days) * day)
	return !t.Before(start) && !t.After(now)
}
