package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agent-insights-go/internal/types"
)

var palette = []string{"violet", "green", "amber", "red"}

func emails(categories ...string) []types.EmailRecord {
	out := make([]types.EmailRecord, 0, len(categories))
	for i, c := range categories {
		out = append(out, types.EmailRecord{
			ID:        string(rune('a' + i)),
			Timestamp: ts,
			Status:    types.EmailAutoReplied,
			Category:  c,
		})
	}
	return out
}

func TestDistribute_FirstAppearanceColors(t *testing.T) {
	got := Distribute(emails("Sales", "Support", "Sales", "Urgent"), FieldOutcome, nil, palette)

	require.Len(t, got, 3)
	assert.Equal(t, types.DistributionPoint{CategoryName: "Sales", Count: 2, Color: "violet"}, got[0])
	assert.Equal(t, types.DistributionPoint{CategoryName: "Support", Count: 1, Color: "green"}, got[1])
	assert.Equal(t, types.DistributionPoint{CategoryName: "Urgent", Count: 1, Color: "amber"}, got[2])
}

func TestDistribute_CanonicalReference(t *testing.T) {
	reference := []string{"Sales", "Support", "Urgent", "Billing"}

	got := Distribute(emails("Urgent", "Sales", "Newsletter", "Sales"), FieldOutcome, reference, palette)

	require.Len(t, got, 3)
	assert.Equal(t, "Sales", got[0].CategoryName)
	assert.Equal(t, "violet", got[0].Color)
	assert.Equal(t, "Urgent", got[1].CategoryName)
	assert.Equal(t, "amber", got[1].Color, "color follows reference index, not position in output")
	assert.Equal(t, "Newsletter", got[2].CategoryName)
	assert.Equal(t, "violet", got[2].Color, "unlisted categories continue after the reference and wrap")
}

func TestDistribute_ColorStableAcrossSubsets(t *testing.T) {
	reference := []string{"Sales", "Support", "Urgent"}

	all := Distribute(emails("Sales", "Support", "Urgent"), FieldOutcome, reference, palette)
	subset := Distribute(emails("Urgent"), FieldOutcome, reference, palette)

	require.Len(t, subset, 1)
	assert.Equal(t, all[2].Color, subset[0].Color)
}

func TestDistribute_CountsAndUniqueness(t *testing.T) {
	records := emails("Sales", "", "Support", "Sales", "", "Spam")
	records = append(records, types.EmailRecord{ID: "", Timestamp: ts, Status: types.EmailReceived, Category: "Sales"})

	got := Distribute(records, FieldOutcome, nil, palette)

	names := map[string]bool{}
	sum := 0
	for _, p := range got {
		assert.False(t, names[p.CategoryName], "duplicate category %q", p.CategoryName)
		names[p.CategoryName] = true
		assert.Positive(t, p.Count)
		sum += p.Count
	}
	assert.Equal(t, 4, sum, "empty categories and malformed records are not counted")
}

func TestDistribute_ByStatus(t *testing.T) {
	records := []types.CallRecord{
		{ID: "1", Timestamp: ts, Status: types.CallAnswered},
		{ID: "2", Timestamp: ts, Status: types.CallMissed},
		{ID: "3", Timestamp: ts, Status: types.CallAnswered},
	}

	got := Distribute(records, FieldStatus, []string{"answered", "missed", "in-progress"}, palette)

	require.Len(t, got, 2)
	assert.Equal(t, "answered", got[0].CategoryName)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, "missed", got[1].CategoryName)
}

func TestDistribute_EmptyAndUnknownField(t *testing.T) {
	got := Distribute([]types.EmailRecord{}, FieldOutcome, nil, palette)
	require.NotNil(t, got)
	assert.Empty(t, got)

	got = Distribute(emails("Sales"), Field("priority"), nil, palette)
	assert.Empty(t, got)

	got = Distribute(emails("Sales"), FieldOutcome, nil, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].Color)
}

func TestDistribute_Idempotent(t *testing.T) {
	records := emails("Billing", "Sales", "Billing", "Spam")
	assert.Equal(t,
		Distribute(records, FieldOutcome, []string{"Sales"}, palette),
		Distribute(records, FieldOutcome, []string{"Sales"}, palette))
}
