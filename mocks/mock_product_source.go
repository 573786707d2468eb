package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vendido/internal/domain"
)

// MockProductSource is a mock implementation of port.ProductSource.
type MockProductSource struct {
	mock.Mock
}

func (m *MockProductSource) GetProduct(ctx context.Context, id string) (domain.Record, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.Record), args.Error(1)
}
