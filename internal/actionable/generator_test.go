package actionable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agent-insights-go/internal/config"
	"agent-insights-go/internal/types"
)

var thresholds = config.DefaultConstants().Thresholds

func rulesOf(insights []types.Insight) []string {
	out := []string{}
	for _, i := range insights {
		out = append(out, i.Rule)
	}
	return out
}

func TestEvaluate_EmptyInputFiresNothing(t *testing.T) {
	got := Evaluate(types.KPIs{}, types.ImpactSnapshot{}, thresholds)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestEvaluate_AnswerRateBoundaries(t *testing.T) {
	tests := []struct {
		rate int
		want []string
	}{
		{0, []string{RuleLowAnswerRate}},
		{89, []string{RuleLowAnswerRate}},
		{90, []string{}},
		{94, []string{}},
		{95, []string{RuleHighAnswerRate}},
		{100, []string{RuleHighAnswerRate}},
	}
	for _, tt := range tests {
		got := Evaluate(types.KPIs{Total: 100, AnsweredRate: tt.rate}, types.ImpactSnapshot{}, thresholds)
		assert.Equal(t, tt.want, rulesOf(got), "rate=%d", tt.rate)
	}
}

func TestEvaluate_AlertAndPraiseMutuallyExclusive(t *testing.T) {
	for rate := 0; rate <= 100; rate++ {
		got := rulesOf(Evaluate(types.KPIs{Total: 10, AnsweredRate: rate}, types.ImpactSnapshot{HoursSaved: 3, MissedBefore: 1}, thresholds))
		assert.False(t, contains(got, RuleLowAnswerRate) && contains(got, RuleHighAnswerRate), "rate=%d", rate)
	}
}

func TestEvaluate_FixedOrder(t *testing.T) {
	got := Evaluate(
		types.KPIs{Total: 50, AnsweredRate: 80},
		types.ImpactSnapshot{HoursSaved: 40, MissedBefore: 12, PotentialLeadsLost: 4},
		thresholds,
	)

	require.Len(t, got, 3)
	assert.Equal(t, []string{RuleTimeSaved, RuleLowAnswerRate, RuleAfterHoursCoverage}, rulesOf(got))
	assert.Equal(t, types.KindInsight, got[0].Kind)
	assert.Equal(t, types.KindAlert, got[1].Kind)
	assert.Equal(t, types.KindRecommendation, got[2].Kind)
	assert.NotEmpty(t, got[2].SuggestedAction)
	assert.Contains(t, got[2].Message, "12 events")
}

func TestEvaluate_TimeSavedWording(t *testing.T) {
	got := Evaluate(types.KPIs{}, types.ImpactSnapshot{HoursSaved: 160}, thresholds)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "160 hours")
	assert.Contains(t, got[0].Message, "1.0 part-time receptionist.")

	got = Evaluate(types.KPIs{}, types.ImpactSnapshot{HoursSaved: 161}, thresholds)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "1.0 part-time receptionists.")
}

func TestEvaluate_TimeSavedSmallAmounts(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		want  string
	}{
		{name: "one hour is singular", hours: 1, want: "Your AI agent saved 1 hour."},
		{name: "fractional hour stays plural", hours: 1.5, want: "Your AI agent saved 1.5 hours."},
		{name: "just below a tenth of staff", hours: 7, want: "Your AI agent saved 7 hours."},
		{name: "first visible equivalent", hours: 8, want: "Your AI agent saved 8 hours, the equivalent of 0.1 part-time receptionists."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(types.KPIs{}, types.ImpactSnapshot{HoursSaved: tt.hours}, thresholds)

			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Message)
			assert.NotContains(t, got[0].Message, "0.0 part-time")
		})
	}
}

func TestPartTimeEquivalent(t *testing.T) {
	assert.Equal(t, "1.0 part-time receptionist", PartTimeEquivalent(160, 160))
	assert.Equal(t, "1.0 part-time receptionists", PartTimeEquivalent(161, 160))
	assert.Equal(t, "0.5 part-time receptionists", PartTimeEquivalent(80, 160))
	assert.Equal(t, "2.0 part-time receptionists", PartTimeEquivalent(320, 160))
}

func TestEvaluate_MisconfiguredThresholdsDoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		got := Evaluate(types.KPIs{Total: 1, AnsweredRate: 92}, types.ImpactSnapshot{HoursSaved: 10}, config.Thresholds{})
		assert.Equal(t, []string{RuleHighAnswerRate}, rulesOf(got))
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
