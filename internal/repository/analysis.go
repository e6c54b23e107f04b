package repository

import (
	"context"

	"clauselens/internal/model"
)

// AnalysisRepository persists completed analyses.
type AnalysisRepository interface {
	// Create inserts a record, including its serialized Analysis payload.
	Create(ctx context.Context, rec *model.AnalysisRecord) (*model.AnalysisRecord, error)

	// FindByID returns a record with its payload, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.AnalysisRecord, error)

	// List returns a page of records, newest first, without payloads.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.AnalysisRecord], error)

	// Delete removes a record, returning sql.ErrNoRows when none matched.
	Delete(ctx context.Context, id string) error
}
