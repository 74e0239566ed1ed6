package aggregator

import (
	"fmt"
	"math"

	"agent-insights-go/internal/types"
)

// Options carries the constants the KPI tiles depend on.
type Options struct {
	QualifyingOutcomes []string
	ResponseTime       string
}

// Aggregate reduces a record set to the KPI tiles. Malformed records are skipped.
func Aggregate[R types.Record](records []R, opts Options) types.KPIs {
	qualifying := make(map[string]struct{}, len(opts.QualifyingOutcomes))
	for _, o := range opts.QualifyingOutcomes {
		qualifying[o] = struct{}{}
	}

	k := types.KPIs{ResponseTime: opts.ResponseTime}
	totalSeconds := 0
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		k.Total++
		switch r.Disposition() {
		case types.DispositionHandled:
			k.Handled++
		case types.DispositionMissed:
			k.Missed++
		case types.DispositionPending:
			k.Pending++
		}
		if _, ok := qualifying[r.OutcomeLabel()]; ok {
			k.QualifiedLeads++
		}
		totalSeconds += r.DurationSeconds()
		k.TotalValue += r.Value()
	}

	k.AnsweredRate = Percent(k.Handled, k.Total)
	if k.Total > 0 {
		k.AvgDurationSeconds = int(math.Round(float64(totalSeconds) / float64(k.Total)))
	}
	k.AvgDuration = FormatDuration(k.AvgDurationSeconds)
	return k
}

// Percent is round(100*part/total), 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// FormatDuration renders seconds as zero-padded MM:SS. Minutes are not capped at 59.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
