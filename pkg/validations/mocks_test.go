package validations_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/dmitrymomot/validations/pkg/validations"
)

// MockPersister is a mock implementation of validations.Persister.
type MockPersister struct {
	mock.Mock
}

func (m *MockPersister) Persist(ctx context.Context, op validations.Operation, target any) error {
	args := m.Called(ctx, op, target)
	return args.Error(0)
}

// MockUniquenessChecker is a mock implementation of validations.UniquenessChecker.
type MockUniquenessChecker struct {
	mock.Mock
}

func (m *MockUniquenessChecker) Exists(ctx context.Context, q validations.UniquenessQuery) (bool, error) {
	args := m.Called(ctx, q)
	return args.Bool(0), args.Error(1)
}
