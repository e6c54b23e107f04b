package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Upload outcomes recorded on clauselens_analyses_total.
const (
	OutcomeSuccess      = "success"
	OutcomePartial      = "partial"
	OutcomeRejected     = "rejected"
	OutcomeBackendError = "backend_error"
	OutcomeStale        = "stale"
	OutcomeError        = "error"
)

// Metrics are the domain counters exported next to the HTTP metrics.
// A nil *Metrics records nothing.
type Metrics struct {
	analyses *prometheus.CounterVec
	stale    prometheus.Counter
	issues   prometheus.Counter
}

// NewMetrics creates the domain counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "clauselens_analyses_total",
				Help: "Document uploads by outcome.",
			},
			[]string{"outcome"},
		),
		stale: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clauselens_stale_responses_total",
			Help: "Backend responses discarded because a newer upload or a reset superseded them.",
		}),
		issues: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clauselens_normalization_issues_total",
			Help: "Schema problems absorbed while normalizing backend payloads.",
		}),
	}

	for _, c := range []prometheus.Collector{m.analyses, m.stale, m.issues} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) outcome(o string) {
	if m == nil {
		return
	}
	m.analyses.WithLabelValues(o).Inc()
	if o == OutcomeStale {
		m.stale.Inc()
	}
}

func (m *Metrics) normalizationIssues(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.issues.Add(float64(n))
}
