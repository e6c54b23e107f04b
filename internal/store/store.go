// Package store holds the current document analysis. Writes are ordered by a
// monotonic version: only the most recently issued upload may replace the
// analysis, so a slow response can never overwrite a newer one.
package store

import (
	"context"
	"errors"
	"sync"

	"clauselens/internal/model"
)

var (
	// ErrStale is returned when a response arrives for a request that has been
	// superseded by a newer upload or a reset.
	ErrStale = errors.New("stale analysis response")
	// ErrNoAnalysis is returned when an operation needs a loaded analysis.
	ErrNoAnalysis = errors.New("no analysis loaded")
)

// Status is the lifecycle state exposed to clients.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusAnalyzing Status = "analyzing"
	StatusPending   Status = "pending"
	StatusReady     Status = "ready"
	StatusError     Status = "error"
)

// Ticket identifies one upload. It is issued by Begin and must be presented
// to Commit or Fail.
type Ticket struct {
	Version   uint64
	RequestID string
}

// ExplainTicket identifies one explanation request for a given analysis.
type ExplainTicket struct {
	AnalysisVersion uint64
	Seq             uint64
	SourceURI       string
}

// ExplanationState is the audio explanation attached to the current analysis.
type ExplanationState struct {
	Status      Status             `json:"status"`
	Explanation *model.Explanation `json:"explanation,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// Snapshot is a deep copy of the store contents.
type Snapshot struct {
	Version     uint64                  `json:"version"`
	Status      Status                  `json:"status"`
	RequestID   string                  `json:"request_id,omitempty"`
	Analysis    *model.DocumentAnalysis `json:"analysis,omitempty"`
	Error       string                  `json:"error,omitempty"`
	Explanation ExplanationState        `json:"explanation"`
}

// Store is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	issued    uint64
	requestID string
	cancel    context.CancelFunc

	status          Status
	errMsg          string
	analysis        *model.DocumentAnalysis
	analysisVersion uint64

	explanation ExplanationState
	explainSeq  uint64
}

// New returns an empty store in the idle state.
func New() *Store {
	return &Store{
		status:      StatusIdle,
		explanation: ExplanationState{Status: StatusIdle},
	}
}

// Begin issues a ticket for a new upload. Any upload still in flight has its
// context cancelled and its eventual result will be rejected as stale. The
// previous analysis is cleared.
func (s *Store) Begin(ctx context.Context, requestID string) (Ticket, context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.issued++
	cctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.requestID = requestID

	s.status = StatusAnalyzing
	s.errMsg = ""
	s.clearAnalysisLocked()

	return Ticket{Version: s.issued, RequestID: requestID}, cctx
}

// Commit replaces the current analysis if t is the latest ticket.
func (s *Store) Commit(t Ticket, a model.DocumentAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Version != s.issued {
		return ErrStale
	}
	s.releaseLocked()

	c := a.Clone()
	s.analysis = &c
	s.analysisVersion = t.Version
	s.status = StatusReady
	s.errMsg = ""
	s.explanation = ExplanationState{Status: StatusIdle}
	return nil
}

// Fail records a failed upload if t is the latest ticket.
func (s *Store) Fail(t Ticket, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Version != s.issued {
		return ErrStale
	}
	s.releaseLocked()

	s.status = StatusError
	if err != nil {
		s.errMsg = err.Error()
	}
	s.clearAnalysisLocked()
	return nil
}

// Reset discards the analysis and invalidates every outstanding ticket.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.issued++
	s.requestID = ""
	s.status = StatusIdle
	s.errMsg = ""
	s.clearAnalysisLocked()
}

// Current returns a copy of the loaded analysis.
func (s *Store) Current() (model.DocumentAnalysis, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.analysis == nil {
		return model.DocumentAnalysis{}, false
	}
	return s.analysis.Clone(), true
}

// Snapshot returns a deep copy of the whole store.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Version:     s.issued,
		Status:      s.status,
		RequestID:   s.requestID,
		Error:       s.errMsg,
		Explanation: s.explanation,
	}
	if s.analysis != nil {
		c := s.analysis.Clone()
		snap.Analysis = &c
	}
	if e := s.explanation.Explanation; e != nil {
		cp := *e
		cp.Details.TopicsCovered = append([]string(nil), e.Details.TopicsCovered...)
		snap.Explanation.Explanation = &cp
	}
	return snap
}

// BeginExplanation starts an explanation request for the loaded analysis.
func (s *Store) BeginExplanation() (ExplainTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.analysis == nil {
		return ExplainTicket{}, ErrNoAnalysis
	}
	s.explainSeq++
	s.explanation = ExplanationState{Status: StatusPending}
	return ExplainTicket{
		AnalysisVersion: s.analysisVersion,
		Seq:             s.explainSeq,
		SourceURI:       s.analysis.SourceURI,
	}, nil
}

// CommitExplanation stores e if t still refers to the loaded analysis and is
// the latest explanation request.
func (s *Store) CommitExplanation(t ExplainTicket, e model.Explanation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.explainCurrentLocked(t) {
		return ErrStale
	}
	s.explanation = ExplanationState{Status: StatusReady, Explanation: &e}
	return nil
}

// FailExplanation keeps err as an inline message; the client may retry.
func (s *Store) FailExplanation(t ExplainTicket, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.explainCurrentLocked(t) {
		return ErrStale
	}
	s.explanation = ExplanationState{Status: StatusError}
	if err != nil {
		s.explanation.Error = err.Error()
	}
	return nil
}

func (s *Store) explainCurrentLocked(t ExplainTicket) bool {
	return s.analysis != nil && t.AnalysisVersion == s.analysisVersion && t.Seq == s.explainSeq
}

func (s *Store) releaseLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Store) clearAnalysisLocked() {
	s.analysis = nil
	s.analysisVersion = 0
	s.explanation = ExplanationState{Status: StatusIdle}
}
