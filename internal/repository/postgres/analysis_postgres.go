package postgres

import (
	"context"
	"database/sql"

	"clauselens/internal/model"
	"clauselens/internal/repository"
)

// AnalysisPostgres is a PostgreSQL implementation of repository.AnalysisRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type AnalysisPostgres struct {
	db *sql.DB
}

// NewAnalysisPostgres creates a new AnalysisPostgres repository.
func NewAnalysisPostgres(db *sql.DB) *AnalysisPostgres {
	return &AnalysisPostgres{db: db}
}

var _ repository.AnalysisRepository = (*AnalysisPostgres)(nil)

const summaryColumns = `id, document_name, storage_path, source_uri, page_count, total_clauses,
	flagged_clauses, high_count, medium_count, low_count, time_saved, partial, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(s scanner, rec *model.AnalysisRecord, extra ...any) error {
	dest := []any{
		&rec.ID,
		&rec.DocumentName,
		&rec.StoragePath,
		&rec.SourceURI,
		&rec.PageCount,
		&rec.TotalClauses,
		&rec.FlaggedClauses,
		&rec.HighCount,
		&rec.MediumCount,
		&rec.LowCount,
		&rec.TimeSaved,
		&rec.Partial,
		&rec.CreatedAt,
	}
	return s.Scan(append(dest, extra...)...)
}

// Create inserts a new analysis row and returns the stored record.
func (r *AnalysisPostgres) Create(ctx context.Context, rec *model.AnalysisRecord) (*model.AnalysisRecord, error) {
	const q = `
		INSERT INTO analyses (id, document_name, storage_path, source_uri, page_count, total_clauses,
			flagged_clauses, high_count, medium_count, low_count, time_saved, partial, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + summaryColumns
	payload := "{}"
	if len(rec.Analysis) > 0 {
		payload = string(rec.Analysis)
	}
	row := r.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.DocumentName,
		rec.StoragePath,
		rec.SourceURI,
		rec.PageCount,
		rec.TotalClauses,
		rec.FlaggedClauses,
		rec.HighCount,
		rec.MediumCount,
		rec.LowCount,
		rec.TimeSaved,
		rec.Partial,
		payload,
		rec.CreatedAt,
	)
	var out model.AnalysisRecord
	if err := scanSummary(row, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single analysis with its payload.
func (r *AnalysisPostgres) FindByID(ctx context.Context, id string) (*model.AnalysisRecord, error) {
	const q = `SELECT ` + summaryColumns + `, payload FROM analyses WHERE id = $1`
	var (
		rec     model.AnalysisRecord
		payload []byte
	)
	if err := scanSummary(r.db.QueryRowContext(ctx, q, id), &rec, &payload); err != nil {
		return nil, err
	}
	rec.Analysis = payload
	return &rec, nil
}

// List returns analyses using LIMIT/OFFSET pagination and a total count.
func (r *AnalysisPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.AnalysisRecord], error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses`).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `SELECT ` + summaryColumns + `
		FROM analyses
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.AnalysisRecord, 0)
	for rows.Next() {
		var rec model.AnalysisRecord
		if err := scanSummary(rows, &rec); err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.AnalysisRecord]{Items: items, Total: total}, nil
}

// Delete removes an analysis by ID.
func (r *AnalysisPostgres) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
