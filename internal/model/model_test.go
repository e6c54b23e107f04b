package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRiskLevel(t *testing.T) {
	for _, l := range RiskLevels {
		got, err := ParseRiskLevel(string(l))
		require.NoError(t, err)
		assert.Equal(t, l, got)
	}

	for _, s := range []string{"", "High", "critical", " low"} {
		_, err := ParseRiskLevel(s)
		assert.Error(t, err, s)
	}
}

func TestRiskLevelPresentation(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2, 3}, []int{RiskHigh.Order(), RiskMedium.Order(), RiskLow.Order(), RiskLevel("x").Order()})
	assert.Equal(t, "Medium", RiskMedium.BucketName())
	assert.Equal(t, "yellow", RiskMedium.Color())
	assert.Empty(t, RiskLevel("x").Color())
}

func TestDocumentAnalysis_Clone(t *testing.T) {
	a := DocumentAnalysis{
		RiskBuckets:     []RiskBucket{{Name: "High", Value: 1, Impacts: []Impact{{ID: "high-0"}}}},
		Clauses:         []Clause{{ID: "clause-1", Issues: []string{"one-sided"}}},
		Recommendations: []string{},
	}

	c := a.Clone()
	c.RiskBuckets[0].Impacts[0].ID = "changed"
	c.Clauses[0].Issues[0] = "changed"

	assert.Equal(t, "high-0", a.RiskBuckets[0].Impacts[0].ID)
	assert.Equal(t, "one-sided", a.Clauses[0].Issues[0])

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"recommendations":[]`)
	assert.NotContains(t, string(b), `"warnings"`)
}

func TestDocumentAnalysis_Bucket(t *testing.T) {
	a := DocumentAnalysis{RiskBuckets: []RiskBucket{{Name: "High", Value: 2}, {Name: "Low", Value: 5}}}

	assert.Equal(t, 2, a.Bucket(RiskHigh).Value)
	assert.Equal(t, 0, a.Bucket(RiskMedium).Value)
	assert.Equal(t, 5, a.Bucket(RiskLow).Value)
}
