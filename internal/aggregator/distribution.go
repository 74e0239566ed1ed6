package aggregator

import "agent-insights-go/internal/types"

// Field names the categorical attribute a distribution groups by.
type Field string

const (
	FieldOutcome Field = "outcome" // call outcome, email category
	FieldStatus  Field = "status"
)

func (f Field) value(r types.Record) (string, bool) {
	switch f {
	case FieldOutcome:
		return r.OutcomeLabel(), true
	case FieldStatus:
		return r.StatusLabel(), true
	}
	return "", false
}

// Distribute counts records per category value.
//
// Categories found in reference are emitted first, in reference order, and
// colored by their index in reference so a category keeps its color whatever
// else is present. Unlisted categories follow in order of first appearance.
// Empty values and malformed records are not counted.
func Distribute[R types.Record](records []R, field Field, reference, palette []string) []types.DistributionPoint {
	counts := map[string]int{}
	var seen []string
	for _, r := range records {
		if !r.Valid() {
			continue
		}
		v, ok := field.value(r)
		if !ok || v == "" {
			continue
		}
		if counts[v] == 0 {
			seen = append(seen, v)
		}
		counts[v]++
	}

	out := make([]types.DistributionPoint, 0, len(counts))
	listed := make(map[string]bool, len(reference))
	for i, name := range reference {
		if listed[name] {
			continue
		}
		listed[name] = true
		if n := counts[name]; n > 0 {
			out = append(out, types.DistributionPoint{CategoryName: name, Count: n, Color: colorAt(palette, i)})
		}
	}
	next := len(reference)
	for _, name := range seen {
		if listed[name] {
			continue
		}
		out = append(out, types.DistributionPoint{CategoryName: name, Count: counts[name], Color: colorAt(palette, next)})
		next++
	}
	return out
}

func colorAt(palette []string, i int) string {
	if len(palette) == 0 {
		return ""
	}
	return palette[i%len(palette)]
}
