package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"vendido/internal/domain"
)

// MockLedgerStore is a mock implementation of port.LedgerStore.
type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) Load(ctx context.Context) (domain.ProcessedSet, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.ProcessedSet), args.Error(1)
}

func (m *MockLedgerStore) Save(ctx context.Context, set domain.ProcessedSet) error {
	args := m.Called(ctx, set)
	return args.Error(0)
}
