package mocks

import (
	"context"
	"io"
	"time"

	"clauselens/internal/letter"
	"clauselens/internal/model"
	"clauselens/internal/service"
	"clauselens/internal/store"
	"github.com/stretchr/testify/mock"
)

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Upload(ctx context.Context, r io.Reader, fileName string, contentType string, size int64) (*model.DocumentAnalysis, error) {
	args := m.Called(ctx, r, fileName, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentAnalysis), args.Error(1)
}

func (m *MockAnalysisService) Snapshot(ctx context.Context) store.Snapshot {
	args := m.Called(ctx)
	return args.Get(0).(store.Snapshot)
}

func (m *MockAnalysisService) Current(ctx context.Context) (*model.DocumentAnalysis, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentAnalysis), args.Error(1)
}

func (m *MockAnalysisService) Reset(ctx context.Context) {
	m.Called(ctx)
}

func (m *MockAnalysisService) Clauses(ctx context.Context, query string) ([]model.Clause, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Clause), args.Error(1)
}

func (m *MockAnalysisService) Explain(ctx context.Context, voice string) (*model.Explanation, error) {
	args := m.Called(ctx, voice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Explanation), args.Error(1)
}

func (m *MockAnalysisService) Explanation(ctx context.Context) store.ExplanationState {
	args := m.Called(ctx)
	return args.Get(0).(store.ExplanationState)
}

func (m *MockAnalysisService) Letter(ctx context.Context, req letter.Request) (*letter.Letter, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*letter.Letter), args.Error(1)
}

func (m *MockAnalysisService) History(ctx context.Context, limit, offset int) (*service.AnalysisListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnalysisListResult), args.Error(1)
}

func (m *MockAnalysisService) Get(ctx context.Context, id string) (*model.AnalysisRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AnalysisRecord), args.Error(1)
}

func (m *MockAnalysisService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAnalysisService) DocumentURL(ctx context.Context, id string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, id, expiry)
	return args.String(0), args.Error(1)
}

var _ service.AnalysisService = (*MockAnalysisService)(nil)
