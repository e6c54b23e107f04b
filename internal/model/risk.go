package model

import "fmt"

// RiskLevel is the backend's per-clause risk classification.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// RiskLevels lists the recognized levels in display order.
var RiskLevels = []RiskLevel{RiskHigh, RiskMedium, RiskLow}

// ParseRiskLevel accepts only the three recognized values. Unknown values are
// reported, never coerced.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(s) {
	case RiskHigh, RiskMedium, RiskLow:
		return RiskLevel(s), nil
	}
	return "", fmt.Errorf("unknown risk level %q", s)
}

// Order is the sort rank used when listing clauses: high first.
func (l RiskLevel) Order() int {
	switch l {
	case RiskHigh:
		return 0
	case RiskMedium:
		return 1
	case RiskLow:
		return 2
	}
	return 3
}

// BucketName is the display name of the bucket holding this level ("High").
func (l RiskLevel) BucketName() string {
	switch l {
	case RiskHigh:
		return "High"
	case RiskMedium:
		return "Medium"
	case RiskLow:
		return "Low"
	}
	return ""
}

// Color is the fixed presentation hint for the level's bucket.
func (l RiskLevel) Color() string {
	switch l {
	case RiskHigh:
		return "red"
	case RiskMedium:
		return "yellow"
	case RiskLow:
		return "green"
	}
	return ""
}
