package analysis

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"clauselens/internal/model"
)

// DefaultPageCount is used when the backend reports no usable page count.
const DefaultPageCount = 24

// UploadTimeLayout formats DocumentAnalysis.UploadTime.
const UploadTimeLayout = "Jan 2, 2006 3:04 PM MST"

// NormalizationError lists the schema problems absorbed while normalizing a
// payload. The analysis returned alongside it is still usable but partial.
type NormalizationError struct {
	Issues []string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize: %d issue(s): %s", len(e.Issues), strings.Join(e.Issues, "; "))
}

type options struct {
	defaultPageCount int
	now              func() time.Time
	loc              *time.Location
}

// Option configures Normalize.
type Option func(*options)

// WithDefaultPageCount overrides DefaultPageCount. Non-positive values are ignored.
func WithDefaultPageCount(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.defaultPageCount = n
		}
	}
}

// WithClock sets the clock used for the upload timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLocation sets the timezone used to format the upload timestamp.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		if loc != nil {
			o.loc = loc
		}
	}
}

type normalizer struct {
	issues []string
}

func (n *normalizer) issuef(format string, args ...any) {
	n.issues = append(n.issues, fmt.Sprintf(format, args...))
}

// Normalize maps a raw backend payload to a DocumentAnalysis. It never fails to
// produce a record: missing or malformed fields fall back to defaults, and every
// such fallback is reported through a *NormalizationError. The returned record
// has Partial set whenever the error is non-nil.
func Normalize(raw []byte, originalFileName string, opts ...Option) (model.DocumentAnalysis, error) {
	o := options{defaultPageCount: DefaultPageCount, now: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(&o)
	}

	n := &normalizer{}
	root := n.root(raw)
	assessment := n.object(root, "risk_assessment")
	summary := n.object(root, "risk_summary")

	if summary.Get("assessment_failed").Bool() {
		n.issuef("backend risk assessment failed: %s", summary.Get("error").String())
	}
	if r := root.Get("has_risk_assessment"); r.Exists() && r.Type == gjson.False {
		n.issuef("backend reported no risk assessment")
	}

	assessments, itemCount, present := n.clauseAssessments(assessment)

	var buckets []model.RiskBucket
	high := n.count(summary, "high_risk_clauses")
	medium := n.count(summary, "medium_risk_clauses")
	low := n.count(summary, "low_risk_clauses")
	if present {
		buckets = Aggregate(assessments)
		n.compareCounts(summary, buckets)
	} else {
		buckets = bucketsFromCounts(high, medium, low)
		if high+medium+low > 0 {
			n.issuef("clause_assessments missing; bucket counts taken from risk_summary")
		}
	}

	var bucketed int
	for _, b := range buckets {
		bucketed += b.Value
	}
	total := max(itemCount, n.count(summary, "total_clauses_assessed"), bucketed)

	pageCount := n.pageCount(root, o.defaultPageCount)

	out := model.DocumentAnalysis{
		DocumentName:     n.documentName(root, assessment, originalFileName),
		TotalClauses:     total,
		FlaggedClauses:   FlaggedClauses(buckets),
		TimeSaved:        EstimateTimeSaved(pageCount, total),
		RiskBuckets:      buckets,
		PageCount:        pageCount,
		AnalyzedAt:       o.now().In(o.loc),
		OverallRiskLevel: firstString(assessment.Get("overall_risk_level"), summary.Get("overall_risk_level")),
		Summary:          assessment.Get("summary").String(),
		Recommendations:  n.stringList(assessment, "recommendations"),
		SourceURI:        firstString(assessment.Get("gcs_uri"), root.Get("gcs_uri")),
		Clauses:          clausesFrom(assessments),
	}
	out.UploadTime = out.AnalyzedAt.Format(UploadTimeLayout)

	if len(n.issues) == 0 {
		return out, nil
	}
	out.Partial = true
	out.Warnings = append([]string(nil), n.issues...)
	return out, &NormalizationError{Issues: n.issues}
}

func (n *normalizer) root(raw []byte) gjson.Result {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		n.issuef("payload is not valid JSON")
		return gjson.Parse("{}")
	}
	r := gjson.ParseBytes(raw)
	if !r.IsObject() {
		n.issuef("payload is not a JSON object")
		return gjson.Parse("{}")
	}
	return r
}

func (n *normalizer) object(parent gjson.Result, key string) gjson.Result {
	r := parent.Get(key)
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		n.issuef("%s missing", key)
	case !r.IsObject():
		n.issuef("%s is not an object", key)
	default:
		return r
	}
	return gjson.Parse("{}")
}

// clauseAssessments returns the well-formed assessments, the number of array
// items seen, and whether the array was present at all.
func (n *normalizer) clauseAssessments(assessment gjson.Result) ([]model.ClauseAssessment, int, bool) {
	r := assessment.Get("clause_assessments")
	if !r.Exists() || r.Type == gjson.Null {
		return nil, 0, false
	}
	if !r.IsArray() {
		n.issuef("clause_assessments is not an array")
		return nil, 0, false
	}

	items := r.Array()
	out := make([]model.ClauseAssessment, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			n.issuef("clause_assessments[%d] is not an object", i)
			out = append(out, model.ClauseAssessment{})
			continue
		}
		raw := item.Get("risk_level").String()
		level, err := model.ParseRiskLevel(raw)
		if err != nil {
			n.issuef("clause_assessments[%d]: %v", i, err)
			level = model.RiskLevel(raw)
		}
		out = append(out, model.ClauseAssessment{
			ClauseText:      item.Get("clause_text").String(),
			RiskLevel:       level,
			ConfidenceScore: item.Get("confidence_score").Float(),
			Reasoning:       item.Get("reasoning").String(),
			PotentialIssues: n.stringList(item, "potential_issues"),
		})
	}
	return out, len(items), true
}

func (n *normalizer) count(parent gjson.Result, key string) int {
	r := parent.Get(key)
	if !r.Exists() || r.Type == gjson.Null {
		return 0
	}
	if r.Type != gjson.Number {
		n.issuef("%s is not a number", key)
		return 0
	}
	if v := r.Int(); v >= 0 {
		return int(v)
	}
	n.issuef("%s is negative", key)
	return 0
}

func (n *normalizer) compareCounts(summary gjson.Result, buckets []model.RiskBucket) {
	keys := []string{"high_risk_clauses", "medium_risk_clauses", "low_risk_clauses"}
	for i, key := range keys {
		r := summary.Get(key)
		if r.Type != gjson.Number {
			continue
		}
		if got := int(r.Int()); got != buckets[i].Value {
			n.issuef("risk_summary.%s=%d disagrees with %d assessed clauses", key, got, buckets[i].Value)
		}
	}
}

func (n *normalizer) pageCount(root gjson.Result, def int) int {
	r := root.Get("page_count")
	switch {
	case !r.Exists() || r.Type == gjson.Null:
		n.issuef("page_count missing; defaulted to %d", def)
	case r.Type != gjson.Number:
		n.issuef("page_count is not a number; defaulted to %d", def)
	case r.Int() <= 0:
		n.issuef("page_count %d is not positive; defaulted to %d", r.Int(), def)
	default:
		return int(r.Int())
	}
	return def
}

func (n *normalizer) documentName(root, assessment gjson.Result, fallback string) string {
	if name := firstString(assessment.Get("document_name"), root.Get("filename")); name != "" {
		return name
	}
	return fallback
}

func (n *normalizer) stringList(parent gjson.Result, key string) []string {
	r := parent.Get(key)
	if !r.Exists() || r.Type == gjson.Null {
		return []string{}
	}
	if !r.IsArray() {
		n.issuef("%s is not an array", key)
		return []string{}
	}
	out := make([]string, 0, len(r.Array()))
	for _, item := range r.Array() {
		if item.Type == gjson.String {
			out = append(out, item.String())
		}
	}
	return out
}

func firstString(candidates ...gjson.Result) string {
	for _, c := range candidates {
		if c.Type == gjson.String && strings.TrimSpace(c.String()) != "" {
			return c.String()
		}
	}
	return ""
}

func clausesFrom(assessments []model.ClauseAssessment) []model.Clause {
	out := make([]model.Clause, 0, len(assessments))
	for i, a := range assessments {
		if bucketIndex(a.RiskLevel) < 0 {
			continue
		}
		impact := a.Reasoning
		if strings.TrimSpace(impact) == "" {
			impact = defaultDescriptions[a.RiskLevel]
		}
		out = append(out, model.Clause{
			ID:         fmt.Sprintf("clause-%d", i+1),
			Number:     i + 1,
			Title:      fmt.Sprintf("Clause %d", i+1),
			Summary:    a.ClauseText,
			Impact:     impact,
			Risk:       a.RiskLevel,
			Confidence: a.ConfidenceScore,
			Issues:     a.PotentialIssues,
		})
	}
	return out
}
