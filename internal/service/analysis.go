package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"clauselens/internal/analysis"
	"clauselens/internal/backend"
	"clauselens/internal/letter"
	"clauselens/internal/model"
	"clauselens/internal/repository"
	"clauselens/internal/storage"
	"clauselens/internal/store"
)

const (
	pdfMIME = "application/pdf"

	// DefaultMaxUploadBytes is the upload cap when Options.MaxBytes is unset.
	DefaultMaxUploadBytes int64 = 50 << 20
)

// AnalysisListResult is the service-level DTO for paginated history.
type AnalysisListResult struct {
	Items []model.AnalysisRecord `json:"data"`
	Total int                    `json:"total"`
}

// AnalysisService defines the use cases around the current analysis and its history.
type AnalysisService interface {
	// Upload validates a PDF, sends it to the backend, normalizes the answer,
	// archives and records it, and makes it the current analysis.
	// A newer upload or a reset while the backend is working yields store.ErrStale.
	Upload(ctx context.Context, r io.Reader, fileName string, contentType string, size int64) (*model.DocumentAnalysis, error)

	// Snapshot returns a copy of the store including status and explanation.
	Snapshot(ctx context.Context) store.Snapshot
	// Current returns the loaded analysis or store.ErrNoAnalysis.
	Current(ctx context.Context) (*model.DocumentAnalysis, error)
	// Reset clears the current analysis; in-flight uploads become stale.
	Reset(ctx context.Context)
	// Clauses ranks the clauses of the current analysis, filtered by query.
	Clauses(ctx context.Context, query string) ([]model.Clause, error)

	// Explain requests an audio explanation for the current analysis. Backend
	// failures are also kept on the explanation state so a client can retry.
	Explain(ctx context.Context, voice string) (*model.Explanation, error)
	// Explanation returns the explanation state of the current analysis.
	Explanation(ctx context.Context) store.ExplanationState

	// Letter renders a negotiation letter for the current analysis.
	Letter(ctx context.Context, req letter.Request) (*letter.Letter, error)

	// History lists persisted analyses, newest first.
	History(ctx context.Context, limit, offset int) (*AnalysisListResult, error)
	// Get returns a persisted analysis including its full payload.
	Get(ctx context.Context, id string) (*model.AnalysisRecord, error)
	// Delete removes the record, then its archived PDF.
	Delete(ctx context.Context, id string) error
	// DocumentURL returns a presigned download URL for the archived PDF.
	DocumentURL(ctx context.Context, id string, expiry time.Duration) (string, error)
}

// Options tune the service. Zero values fall back to defaults.
type Options struct {
	MaxBytes         int64
	DefaultPageCount int
	Voice            string
	Location         *time.Location
	Clock            func() time.Time
}

// Deps are the collaborators of the service.
type Deps struct {
	Store   *store.Store
	Storage storage.Storage
	Repo    repository.AnalysisRepository
	Backend backend.Client
	Letters *letter.Renderer
	Metrics *Metrics
	Logger  *slog.Logger
}

type analysisService struct {
	Deps
	opts Options
}

// NewAnalysisService constructs a new AnalysisService.
func NewAnalysisService(d Deps, opts Options) AnalysisService {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxUploadBytes
	}
	if opts.DefaultPageCount <= 0 {
		opts.DefaultPageCount = analysis.DefaultPageCount
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if d.Store == nil {
		d.Store = store.New()
	}
	if d.Letters == nil {
		d.Letters = letter.NewRenderer()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &analysisService{Deps: d, opts: opts}
}

var tracer trace.Tracer = otel.Tracer("clauselens/internal/service")

type requestIDKey struct{}

// WithRequestID attaches the HTTP request id so the store and logs can refer to it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *analysisService) Upload(ctx context.Context, r io.Reader, fileName string, contentType string, size int64) (*model.DocumentAnalysis, error) {
	ctx, span := tracer.Start(ctx, "AnalysisService.Upload", trace.WithAttributes(
		attribute.String("document.name", fileName),
		attribute.Int64("document.size", size),
	))
	defer span.End()

	out, err := s.upload(ctx, r, fileName, contentType, size)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("analysis.id", out.ID),
		attribute.Int("analysis.total_clauses", out.TotalClauses),
		attribute.Bool("analysis.partial", out.Partial),
	)
	return out, nil
}

func (s *analysisService) upload(ctx context.Context, r io.Reader, fileName string, contentType string, size int64) (*model.DocumentAnalysis, error) {
	content, err := s.readPDF(r, fileName, size)
	if err != nil {
		if !errors.Is(err, ErrReaderNil) {
			s.Metrics.outcome(OutcomeRejected)
		}
		return nil, err
	}

	rid := requestIDFrom(ctx)
	log := s.Logger.With("request_id", rid, "document_name", fileName)

	ticket, tctx := s.Store.Begin(ctx, rid)
	log.Info("analysis_started", "version", ticket.Version, "size", len(content), "content_type", contentType)

	raw, err := s.Backend.Analyze(tctx, fileName, content)
	if err != nil {
		if s.Store.Fail(ticket, err) != nil {
			return nil, s.stale(log, ticket)
		}
		s.Metrics.outcome(OutcomeBackendError)
		log.Error("analysis_backend_failed", "error", err.Error())
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}
	if tctx.Err() != nil {
		_ = s.Store.Fail(ticket, tctx.Err())
		return nil, s.stale(log, ticket)
	}

	out, err := analysis.Normalize(raw, fileName,
		analysis.WithDefaultPageCount(s.opts.DefaultPageCount),
		analysis.WithClock(s.opts.Clock),
		analysis.WithLocation(s.opts.Location),
	)
	var nerr *analysis.NormalizationError
	if errors.As(err, &nerr) {
		s.Metrics.normalizationIssues(len(nerr.Issues))
		log.Warn("analysis_partial", "issues", nerr.Issues)
	}

	out.ID = uuid.New().String()
	out.StoragePath = filepath.ToSlash(filepath.Join("uploads", out.ID+".pdf"))

	if err := s.persist(ctx, &out, fileName, content); err != nil {
		_ = s.Store.Fail(ticket, err)
		s.Metrics.outcome(OutcomeError)
		log.Error("analysis_persist_failed", "error", err.Error())
		return nil, err
	}

	if err := s.Store.Commit(ticket, out); err != nil {
		return nil, s.stale(log, ticket)
	}

	if out.Partial {
		s.Metrics.outcome(OutcomePartial)
	} else {
		s.Metrics.outcome(OutcomeSuccess)
	}
	log.Info("analysis_committed",
		"analysis_id", out.ID,
		"version", ticket.Version,
		"total_clauses", out.TotalClauses,
		"flagged_clauses", out.FlaggedClauses,
		"partial", out.Partial,
	)
	return &out, nil
}

func (s *analysisService) stale(log *slog.Logger, t store.Ticket) error {
	s.Metrics.outcome(OutcomeStale)
	log.Warn("analysis_discarded", "version", t.Version, "reason", store.ErrStale.Error())
	return store.ErrStale
}

// readPDF enforces the upload rules before anything leaves the process.
func (s *analysisService) readPDF(r io.Reader, fileName string, size int64) ([]byte, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext != ".pdf" {
		if ext == "" {
			ext = "no extension"
		}
		return nil, fmt.Errorf("%w: %s, only PDF documents are accepted", ErrUnsupportedType, ext)
	}
	if size > s.opts.MaxBytes {
		return nil, s.tooLarge(size)
	}

	content, err := io.ReadAll(io.LimitReader(r, s.opts.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(content)) > s.opts.MaxBytes {
		return nil, s.tooLarge(int64(len(content)))
	}
	if mt := mimetype.Detect(content); !mt.Is(pdfMIME) {
		return nil, fmt.Errorf("%w: content is %s, only PDF documents are accepted", ErrUnsupportedType, mt.String())
	}
	return content, nil
}

func (s *analysisService) tooLarge(size int64) error {
	return fmt.Errorf("%w: %s exceeds the %s limit", ErrFileTooLarge,
		humanize.IBytes(uint64(size)), humanize.IBytes(uint64(s.opts.MaxBytes)))
}

// persist archives the PDF and records the analysis, removing the archived
// object again if the record cannot be saved.
func (s *analysisService) persist(ctx context.Context, a *model.DocumentAnalysis, fileName string, content []byte) error {
	if _, err := s.Storage.Put(ctx, a.StoragePath, bytes.NewReader(content), storage.PutObjectOptions{
		Size:        int64(len(content)),
		ContentType: pdfMIME,
		Metadata:    map[string]string{"original-filename": fileName},
	}); err != nil {
		return fmt.Errorf("upload to storage: %w", err)
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	rec := &model.AnalysisRecord{
		ID:             a.ID,
		DocumentName:   a.DocumentName,
		StoragePath:    a.StoragePath,
		SourceURI:      a.SourceURI,
		PageCount:      a.PageCount,
		TotalClauses:   a.TotalClauses,
		FlaggedClauses: a.FlaggedClauses,
		HighCount:      a.Bucket(model.RiskHigh).Value,
		MediumCount:    a.Bucket(model.RiskMedium).Value,
		LowCount:       a.Bucket(model.RiskLow).Value,
		TimeSaved:      a.TimeSaved,
		Partial:        a.Partial,
		CreatedAt:      a.AnalyzedAt.UTC(),
		Analysis:       payload,
	}
	if _, err := s.Repo.Create(ctx, rec); err != nil {
		// Rollback: delete the object from storage
		if delErr := s.Storage.Delete(ctx, a.StoragePath); delErr != nil {
			return fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return fmt.Errorf("db save failed: %w", err)
	}
	return nil
}

func (s *analysisService) Snapshot(ctx context.Context) store.Snapshot {
	return s.Store.Snapshot()
}

func (s *analysisService) Current(ctx context.Context) (*model.DocumentAnalysis, error) {
	a, ok := s.Store.Current()
	if !ok {
		return nil, store.ErrNoAnalysis
	}
	return &a, nil
}

func (s *analysisService) Reset(ctx context.Context) {
	s.Store.Reset()
	s.Logger.Info("analysis_reset", "request_id", requestIDFrom(ctx))
}

func (s *analysisService) Clauses(ctx context.Context, query string) ([]model.Clause, error) {
	a, ok := s.Store.Current()
	if !ok {
		return nil, store.ErrNoAnalysis
	}
	return analysis.Rank(a.Clauses, query), nil
}

func (s *analysisService) Explain(ctx context.Context, voice string) (*model.Explanation, error) {
	t, err := s.Store.BeginExplanation()
	if err != nil {
		return nil, err
	}
	if t.SourceURI == "" {
		if err := s.Store.FailExplanation(t, ErrNoSourceURI); err != nil {
			return nil, err
		}
		return nil, ErrNoSourceURI
	}
	if voice == "" {
		voice = s.opts.Voice
	}

	log := s.Logger.With("request_id", requestIDFrom(ctx), "source_uri", t.SourceURI)
	e, err := s.Backend.Explain(ctx, backend.ExplainRequest{FileURI: t.SourceURI, VoicePreference: voice})
	if err != nil {
		if serr := s.Store.FailExplanation(t, err); serr != nil {
			return nil, serr
		}
		log.Error("explanation_failed", "error", err.Error())
		return nil, fmt.Errorf("%w: %w", ErrBackend, err)
	}
	if err := s.Store.CommitExplanation(t, *e); err != nil {
		return nil, err
	}
	log.Info("explanation_ready", "audio_url", e.AudioURL)
	return e, nil
}

func (s *analysisService) Explanation(ctx context.Context) store.ExplanationState {
	return s.Store.Snapshot().Explanation
}

func (s *analysisService) Letter(ctx context.Context, req letter.Request) (*letter.Letter, error) {
	a, ok := s.Store.Current()
	if !ok {
		return nil, store.ErrNoAnalysis
	}
	if req.Date.IsZero() {
		req.Date = s.opts.Clock().In(s.opts.Location)
	}
	return s.Letters.Render(a, req)
}

// History returns paginated analyses without exposing repository types.
func (s *analysisService) History(ctx context.Context, limit, offset int) (*AnalysisListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.Repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &AnalysisListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *analysisService) Get(ctx context.Context, id string) (*model.AnalysisRecord, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	// Postgres rejects malformed UUIDs with a syntax error; treat them as absent.
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	rec, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Delete removes the record before the archived PDF so a record never points at
// a missing object. A failed object delete is logged and leaves an orphan.
func (s *analysisService) Delete(ctx context.Context, id string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if rec.StoragePath != "" {
		if err := s.Storage.Delete(ctx, rec.StoragePath); err != nil {
			s.Logger.Warn("archive_delete_failed", "analysis_id", id, "key", rec.StoragePath, "error", err.Error())
		}
	}
	return nil
}

func (s *analysisService) DocumentURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if rec.StoragePath == "" {
		return "", ErrNotFound
	}
	return s.Storage.PresignGet(ctx, rec.StoragePath, expiry)
}
