package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"clauselens/internal/backend"
	"clauselens/internal/model"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Analyze(ctx context.Context, fileName string, content []byte) ([]byte, error) {
	args := m.Called(ctx, fileName, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockClient) Explain(ctx context.Context, req backend.ExplainRequest) (*model.Explanation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Explanation), args.Error(1)
}
