// Package analysis derives document metrics from the analysis backend's
// payload: risk buckets, flagged counts, the time-saved estimate and the
// ranked clause list. Everything here is pure and safe for concurrent use.
package analysis

import (
	"fmt"
	"strings"

	"clauselens/internal/model"
)

var defaultDescriptions = map[model.RiskLevel]string{
	model.RiskHigh:   "High risk clause identified",
	model.RiskMedium: "Medium risk clause identified",
	model.RiskLow:    "Low risk clause identified",
}

// Aggregate groups clause assessments into exactly three buckets ordered
// High, Medium, Low. Impact ids are unique within a bucket only. Clauses with
// an unrecognized level are left out of every bucket.
func Aggregate(clauses []model.ClauseAssessment) []model.RiskBucket {
	buckets := emptyBuckets()
	for i, c := range clauses {
		idx := bucketIndex(c.RiskLevel)
		if idx < 0 {
			continue
		}
		b := &buckets[idx]
		desc := c.Reasoning
		if strings.TrimSpace(desc) == "" {
			desc = defaultDescriptions[c.RiskLevel]
		}
		b.Impacts = append(b.Impacts, model.Impact{
			ID:          fmt.Sprintf("%s-%d", c.RiskLevel, len(b.Impacts)),
			Name:        fmt.Sprintf("Clause %d", i+1),
			Description: desc,
			Risk:        c.RiskLevel,
		})
		b.Value++
	}
	return buckets
}

// FlaggedClauses is the number of high and medium risk clauses.
func FlaggedClauses(buckets []model.RiskBucket) int {
	var n int
	for _, b := range buckets {
		if b.Name == model.RiskHigh.BucketName() || b.Name == model.RiskMedium.BucketName() {
			n += b.Value
		}
	}
	return n
}

// bucketsFromCounts builds value-only buckets for payloads that report counts
// without per-clause detail.
func bucketsFromCounts(high, medium, low int) []model.RiskBucket {
	buckets := emptyBuckets()
	buckets[0].Value = high
	buckets[1].Value = medium
	buckets[2].Value = low
	return buckets
}

func emptyBuckets() []model.RiskBucket {
	out := make([]model.RiskBucket, 0, len(model.RiskLevels))
	for _, l := range model.RiskLevels {
		out = append(out, model.RiskBucket{
			Name:    l.BucketName(),
			Color:   l.Color(),
			Impacts: []model.Impact{},
		})
	}
	return out
}

func bucketIndex(l model.RiskLevel) int {
	for i, known := range model.RiskLevels {
		if l == known {
			return i
		}
	}
	return -1
}
