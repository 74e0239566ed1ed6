// Package impact estimates the business value of an agent from its KPIs.
package impact

import (
	"math"

	"agent-insights-go/internal/aggregator"
	"agent-insights-go/internal/config"
	"agent-insights-go/internal/types"
)

// Baseline holds optional calculator inputs supplied by the client. A nil
// field means "derive from the record set"; an explicit zero is kept.
type Baseline struct {
	MissedBefore     *int     `json:"missed_before,omitempty"`
	HoursSaved       *float64 `json:"hours_saved,omitempty"`
	DailySavingsRate *float64 `json:"daily_savings_rate,omitempty"`
}

// Estimate combines aggregate counts with the configured assumptions.
func Estimate(k types.KPIs, dist []types.DistributionPoint, b Baseline, c config.Impact) types.ImpactSnapshot {
	s := types.ImpactSnapshot{MissedBefore: k.Missed}
	if b.MissedBefore != nil {
		s.MissedBefore = max(*b.MissedBefore, 0)
	}
	s.PotentialLeadsLost = int(math.Round(float64(s.MissedBefore) * c.LossConversionRate))
	s.EstimatedRevenueLoss = float64(s.PotentialLeadsLost) * c.AvgLeadValue

	missed := make(map[string]struct{}, len(c.MissedOutcomes))
	for _, o := range c.MissedOutcomes {
		missed[o] = struct{}{}
	}
	for _, p := range dist {
		if _, ok := missed[p.CategoryName]; ok {
			continue
		}
		s.CapturedCount += p.Count
	}
	// Outcome labels only name misses for voice; escalated or unread email
	// carries its category, so cap at what the agent actually handled.
	s.CapturedCount = min(s.CapturedCount, k.Handled)
	s.CapturedValue = k.TotalValue

	if b.HoursSaved != nil {
		s.HoursSaved = math.Max(*b.HoursSaved, 0)
	} else {
		s.HoursSaved = math.Round(float64(s.CapturedCount) * c.MinutesSavedPerEvent / 60)
	}

	if b.DailySavingsRate != nil {
		s.DailySavingsRate = math.Max(*b.DailySavingsRate, 0)
	} else if c.PeriodDays > 0 {
		s.DailySavingsRate = s.HoursSaved * c.HourlyStaffCost / float64(c.PeriodDays)
	}
	s.CostSavings = s.DailySavingsRate * float64(c.SavingsProjectionDays)

	s.CaptureRatePct = aggregator.Percent(k.Handled, k.Total)
	s.AIHandledPct = aggregator.Percent(k.Handled, k.Total-k.Pending)

	if c.HoursPerFTE > 0 {
		s.FTEEquivalent = math.Round(100*s.HoursSaved/c.HoursPerFTE) / 100
		if c.TeamSize > 0 {
			s.ProductivityBoostPct = int(math.Round(100 * s.HoursSaved / (float64(c.TeamSize) * c.HoursPerFTE)))
		}
	}
	return s
}
