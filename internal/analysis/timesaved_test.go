package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateTimeSaved(t *testing.T) {
	tests := []struct {
		name    string
		pages   int
		clauses int
		want    string
	}{
		{name: "zero input", pages: 0, clauses: 0, want: "1 hr 0 min"},
		{name: "default page count with ten clauses", pages: 24, clauses: 10, want: "1 hr 33 min"},
		{name: "half way", pages: 10, clauses: 20, want: "1 hr 30 min"},
		{name: "single page", pages: 1, clauses: 0, want: "1 hr 2 min"},
		{name: "just under the rounding edge", pages: 2900, clauses: 0, want: "1 hr 59 min"},
		{name: "minutes round up to sixty without carrying", pages: 5000, clauses: 0, want: "1 hr 60 min"},
		{name: "negative input clamps to zero", pages: -5, clauses: -1, want: "1 hr 0 min"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateTimeSaved(tt.pages, tt.clauses))
		})
	}
}

func TestTimeSavedHours_Bounds(t *testing.T) {
	assert.Equal(t, 1.0, TimeSavedHours(0, 0))
	assert.InDelta(t, 1.5575, TimeSavedHours(24, 10), 0.0001)

	for _, clauses := range []int{0, 5, 40} {
		prev := TimeSavedHours(0, clauses)
		for pages := 1; pages <= 500; pages++ {
			got := TimeSavedHours(pages, clauses)
			assert.GreaterOrEqual(t, got, prev)
			assert.GreaterOrEqual(t, got, 1.0)
			assert.Less(t, got, 2.0)
			prev = got
		}
	}
}
