package mocks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

// MockAccessLogUseCase is a mock implementation of AccessLogUseCase.
type MockAccessLogUseCase struct {
	mock.Mock
}

// NewMockAccessLogUseCase creates a MockAccessLogUseCase that asserts its
// expectations when the test finishes.
func NewMockAccessLogUseCase(t *testing.T) *MockAccessLogUseCase {
	m := &MockAccessLogUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAccessLogUseCase) Record(
	ctx context.Context,
	resource vaultDomain.Resource,
	principalID uuid.UUID,
	action vaultDomain.Action,
) error {
	args := m.Called(ctx, resource, principalID, action)
	return args.Error(0)
}

func (m *MockAccessLogUseCase) ListByResource(
	ctx context.Context,
	resourceID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.AccessLogEntry, error) {
	args := m.Called(ctx, resourceID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.AccessLogEntry), args.Error(1)
}

func (m *MockAccessLogUseCase) PurgeResource(ctx context.Context, resourceID uuid.UUID) error {
	args := m.Called(ctx, resourceID)
	return args.Error(0)
}

func (m *MockAccessLogUseCase) CleanOlderThan(
	ctx context.Context,
	retentionDays int,
	dryRun bool,
) (int64, error) {
	args := m.Called(ctx, retentionDays, dryRun)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccessLogUseCase) VerifySignatures(
	ctx context.Context,
	batchSize int,
) (*vaultDomain.VerificationReport, error) {
	args := m.Called(ctx, batchSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.VerificationReport), args.Error(1)
}
