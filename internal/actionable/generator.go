package actionable

import (
	"fmt"
	"math"

	"agent-insights-go/internal/config"
	"agent-insights-go/internal/types"
)

// Rule identifiers, stable for the frontend and for tests.
const (
	RuleTimeSaved          = "time_saved"
	RuleLowAnswerRate      = "low_answer_rate"
	RuleHighAnswerRate     = "high_answer_rate"
	RuleAfterHoursCoverage = "after_hours_coverage"
)

type input struct {
	kpis   types.KPIs
	impact types.ImpactSnapshot
	t      config.Thresholds
}

type rule func(in input) (types.Insight, bool)

// rules run in priority order; each decides on its own whether to emit.
var rules = []rule{
	timeSaved,
	answerRate,
	afterHoursCoverage,
}

// Evaluate runs every rule over the KPIs and impact snapshot.
func Evaluate(k types.KPIs, s types.ImpactSnapshot, t config.Thresholds) []types.Insight {
	in := input{kpis: k, impact: s, t: t}
	out := make([]types.Insight, 0, len(rules))
	for _, r := range rules {
		if ins, ok := r(in); ok {
			out = append(out, ins)
		}
	}
	return out
}

func timeSaved(in input) (types.Insight, bool) {
	hours := in.impact.HoursSaved
	if hours <= 0 || in.t.HoursPerPartTimeStaff <= 0 {
		return types.Insight{}, false
	}
	amount := trimFloat(hours)
	unit := "hours"
	if amount == "1" {
		unit = "hour"
	}
	msg := fmt.Sprintf("Your AI agent saved %s %s.", amount, unit)
	// Below 0.05 staff the one-decimal equivalent would read as 0.0.
	if hours/in.t.HoursPerPartTimeStaff >= 0.05 {
		msg = fmt.Sprintf("Your AI agent saved %s %s, the equivalent of %s.", amount, unit, PartTimeEquivalent(hours, in.t.HoursPerPartTimeStaff))
	}
	return types.Insight{
		Kind:    types.KindInsight,
		Rule:    RuleTimeSaved,
		Title:   "Time saved",
		Message: msg,
	}, true
}

// answerRate emits the low-rate alert or the high-rate praise, never both.
// A rate in [low, high) emits neither; an empty record set emits nothing.
func answerRate(in input) (types.Insight, bool) {
	if in.kpis.Total == 0 {
		return types.Insight{}, false
	}
	rate := in.kpis.AnsweredRate
	switch {
	case rate < in.t.LowAnswerRate:
		return types.Insight{
			Kind:            types.KindAlert,
			Rule:            RuleLowAnswerRate,
			Title:           "Answer rate below target",
			Message:         fmt.Sprintf("Only %d%% of inbound events were handled. The target is %d%%.", rate, in.t.LowAnswerRate),
			SuggestedAction: "Review agent availability and routing for peak periods.",
		}, true
	case rate >= in.t.HighAnswerRate:
		return types.Insight{
			Kind:    types.KindInsight,
			Rule:    RuleHighAnswerRate,
			Title:   "Excellent answer rate",
			Message: fmt.Sprintf("%d%% of inbound events were handled without a human.", rate),
		}, true
	}
	return types.Insight{}, false
}

func afterHoursCoverage(in input) (types.Insight, bool) {
	if in.impact.MissedBefore <= 0 {
		return types.Insight{}, false
	}
	return types.Insight{
		Kind:            types.KindRecommendation,
		Rule:            RuleAfterHoursCoverage,
		Title:           "Extend after-hours coverage",
		Message:         fmt.Sprintf("%d events went unanswered, putting an estimated %d leads at risk.", in.impact.MissedBefore, in.impact.PotentialLeadsLost),
		SuggestedAction: "Enable 24/7 coverage so evening and weekend enquiries are captured.",
	}, true
}

// PartTimeEquivalent phrases hours as part-time staff. Singular only at exactly 1.0.
func PartTimeEquivalent(hours, hoursPerStaff float64) string {
	ratio := hours / hoursPerStaff
	noun := "receptionists"
	if ratio == 1 {
		noun = "receptionist"
	}
	return fmt.Sprintf("%.1f part-time %s", ratio, noun)
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}
