package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vendido/internal/domain"
)

// MockDocumentSource is a mock implementation of port.DocumentSource.
type MockDocumentSource struct {
	mock.Mock
}

func (m *MockDocumentSource) ListDocuments(ctx context.Context, kind domain.DocKind, startEpoch, endEpoch int64) ([]domain.Record, error) {
	args := m.Called(ctx, kind, startEpoch, endEpoch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Record), args.Error(1)
}

func (m *MockDocumentSource) GetDocument(ctx context.Context, kind domain.DocKind, id string) (domain.Record, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Record), args.Error(1)
}
