package model

import (
	"encoding/json"
	"time"
)

// ClauseAssessment is one backend-produced risk evaluation of a single clause.
type ClauseAssessment struct {
	ClauseText      string    `json:"clause_text"`
	RiskLevel       RiskLevel `json:"risk_level"`
	ConfidenceScore float64   `json:"confidence_score"`
	Reasoning       string    `json:"reasoning"`
	PotentialIssues []string  `json:"potential_issues"`
}

// Impact is one clause entry inside a RiskBucket.
type Impact struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Risk        RiskLevel `json:"risk"`
}

// RiskBucket groups the clauses of one risk level.
type RiskBucket struct {
	Name    string   `json:"name"`
	Value   int      `json:"value"`
	Color   string   `json:"color"`
	Impacts []Impact `json:"impacts"`
}

// Clause is the list/search view of an assessed clause.
type Clause struct {
	ID         string    `json:"id"`
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Impact     string    `json:"impact"`
	Risk       RiskLevel `json:"risk"`
	Confidence float64   `json:"confidence"`
	Issues     []string  `json:"issues"`
}

// DocumentAnalysis is the canonical record derived from one upload and analysis
// round trip. It is replaced as a whole, never merged.
type DocumentAnalysis struct {
	ID               string       `json:"id"`
	DocumentName     string       `json:"document_name"`
	TotalClauses     int          `json:"total_clauses"`
	FlaggedClauses   int          `json:"flagged_clauses"`
	TimeSaved        string       `json:"time_saved"`
	RiskBuckets      []RiskBucket `json:"risk_buckets"`
	PageCount        int          `json:"page_count"`
	UploadTime       string       `json:"upload_time"`
	AnalyzedAt       time.Time    `json:"analyzed_at"`
	OverallRiskLevel string       `json:"overall_risk_level,omitempty"`
	Summary          string       `json:"summary,omitempty"`
	Recommendations  []string     `json:"recommendations"`
	SourceURI        string       `json:"source_uri,omitempty"`
	StoragePath      string       `json:"storage_path,omitempty"`
	Clauses          []Clause     `json:"clauses"`
	Partial          bool         `json:"partial"`
	Warnings         []string     `json:"warnings,omitempty"`
}

// Bucket returns the bucket for level, or the zero value when absent.
func (a *DocumentAnalysis) Bucket(level RiskLevel) RiskBucket {
	name := level.BucketName()
	for _, b := range a.RiskBuckets {
		if b.Name == name {
			return b
		}
	}
	return RiskBucket{}
}

// Clone returns a deep copy so callers can hand out snapshots safely.
func (a DocumentAnalysis) Clone() DocumentAnalysis {
	out := a
	if a.RiskBuckets != nil {
		out.RiskBuckets = make([]RiskBucket, len(a.RiskBuckets))
		for i, b := range a.RiskBuckets {
			b.Impacts = append([]Impact(nil), b.Impacts...)
			if b.Impacts == nil {
				b.Impacts = []Impact{}
			}
			out.RiskBuckets[i] = b
		}
	}
	if a.Clauses != nil {
		out.Clauses = make([]Clause, len(a.Clauses))
		for i, c := range a.Clauses {
			c.Issues = cloneStrings(c.Issues)
			out.Clauses[i] = c
		}
	}
	out.Recommendations = cloneStrings(a.Recommendations)
	out.Warnings = cloneStrings(a.Warnings)
	return out
}

// cloneStrings keeps nil and empty distinct so JSON output is unchanged.
func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

// DocumentDetails describes the generated audio explanation.
type DocumentDetails struct {
	DocumentType   string   `json:"document_type,omitempty"`
	Style          string   `json:"style,omitempty"`
	WordCount      int      `json:"word_count,omitempty"`
	TargetAudience string   `json:"target_audience,omitempty"`
	TopicsCovered  []string `json:"topics_covered,omitempty"`
}

// Explanation is the backend's audio explanation of a document.
type Explanation struct {
	AudioURL string          `json:"audio_url"`
	Message  string          `json:"message"`
	Details  DocumentDetails `json:"document_details"`
}

// AnalysisRecord is the persisted history entry for a completed analysis.
type AnalysisRecord struct {
	ID             string    `json:"id"`
	DocumentName   string    `json:"document_name"`
	StoragePath    string    `json:"storage_path"`
	SourceURI      string    `json:"source_uri"`
	PageCount      int       `json:"page_count"`
	TotalClauses   int       `json:"total_clauses"`
	FlaggedClauses int       `json:"flagged_clauses"`
	HighCount      int       `json:"high_count"`
	MediumCount    int       `json:"medium_count"`
	LowCount       int       `json:"low_count"`
	TimeSaved      string    `json:"time_saved"`
	Partial        bool      `json:"partial"`
	CreatedAt      time.Time `json:"created_at"`

	// Analysis is the full DocumentAnalysis as stored; only loaded by id.
	Analysis json.RawMessage `json:"analysis,omitempty"`
}
