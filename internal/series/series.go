// Package series turns records into gap-filled, time-ordered chart points.
package series

import (
	"sort"
	"time"

	"agent-insights-go/internal/types"
	"agent-insights-go/internal/window"
)

type Granularity string

const (
	Hour  Granularity = "hour"
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

// Metric selects what a bucket sums.
type Metric string

const (
	MetricCount Metric = "count"
	MetricValue Metric = "value" // sum of estimated value
)

func ParseMetric(s string) (Metric, bool) {
	switch Metric(s) {
	case MetricCount, MetricValue:
		return Metric(s), true
	case "":
		return MetricCount, true
	}
	return "", false
}

// Plan is a contiguous run of Count calendar buckets starting at Start.
// Bucket boundaries are computed in Start's location.
type Plan struct {
	Start       time.Time
	Count       int
	Granularity Granularity
}

// PlanFor maps a dashboard window to its bucket plan:
// today/day → one bucket per hour of today (23 or 25 on DST days),
// 7days/week → 7 days, 30days → 30 days,
// month → every day of the current month, year → 12 months.
func PlanFor(w window.Window, now time.Time) (Plan, bool) {
	today := window.StartOfDay(now)
	switch w {
	case window.Today, window.Day:
		hours := int(today.AddDate(0, 0, 1).Sub(today) / time.Hour)
		return Plan{Start: today, Count: hours, Granularity: Hour}, true
	case window.Last7Days, window.Week:
		return Plan{Start: today.AddDate(0, 0, -6), Count: 7, Granularity: Day}, true
	case window.Last30Days:
		return Plan{Start: today.AddDate(0, 0, -29), Count: 30, Granularity: Day}, true
	case window.Month:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Plan{Start: first, Count: first.AddDate(0, 1, -1).Day(), Granularity: Day}, true
	case window.Year:
		return Plan{Start: time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), Count: 12, Granularity: Month}, true
	}
	return Plan{}, false
}

// BucketStart returns the start of bucket i. Hours are elapsed time, so a
// DST transition skips or repeats a label but never a start. Days and months
// use time.Date so they stay calendar-correct across DST and month ends.
func (p Plan) BucketStart(i int) time.Time {
	y, m, d := p.Start.Date()
	loc := p.Start.Location()
	switch p.Granularity {
	case Hour:
		return p.Start.Add(time.Duration(i) * time.Hour)
	case Day:
		return time.Date(y, m, d+i, 0, 0, 0, 0, loc)
	case Week:
		return time.Date(y, m, d+7*i, 0, 0, 0, 0, loc)
	case Month:
		return time.Date(y, m+time.Month(i), 1, 0, 0, 0, 0, loc)
	}
	return p.Start
}

// Label formats a bucket start for display.
func (p Plan) Label(start time.Time) string {
	switch p.Granularity {
	case Hour:
		return start.Format("15:04")
	case Month:
		return start.Format("Jan")
	}
	return start.Format("2006-01-02")
}

// Range buckets records along p. Every bucket is emitted, empty ones as 0;
// records outside the plan and malformed records are ignored. Input order
// does not matter.
func Range[R types.Record](records []R, p Plan, metric Metric) []types.SeriesPoint {
	if p.Count <= 0 {
		return []types.SeriesPoint{}
	}
	bounds := make([]time.Time, p.Count+1)
	for i := range bounds {
		bounds[i] = p.BucketStart(i)
	}
	points := make([]types.SeriesPoint, p.Count)
	for i := 0; i < p.Count; i++ {
		points[i] = types.SeriesPoint{BucketLabel: p.Label(bounds[i]), BucketStart: bounds[i]}
	}

	for _, r := range records {
		if !r.Valid() {
			continue
		}
		t := r.OccurredAt()
		idx := sort.Search(len(bounds), func(i int) bool { return bounds[i].After(t) }) - 1
		if idx < 0 || idx >= p.Count {
			continue
		}
		switch metric {
		case MetricValue:
			points[idx].Value += r.Value()
		default:
			points[idx].Value++
		}
	}
	return points
}

// Bucketize is Range over the plan for w. Unknown windows yield an empty series.
func Bucketize[R types.Record](records []R, w window.Window, now time.Time, metric Metric) []types.SeriesPoint {
	p, ok := PlanFor(w, now)
	if !ok {
		return []types.SeriesPoint{}
	}
	return Range(records, p, metric)
}
