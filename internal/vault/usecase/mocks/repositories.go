// Package mocks provides mock implementations for vault use case interfaces.
package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

// MockSecretRecordRepository is a mock implementation of SecretRecordRepository.
type MockSecretRecordRepository struct {
	mock.Mock
}

// NewMockSecretRecordRepository creates a MockSecretRecordRepository that
// asserts its expectations when the test finishes.
func NewMockSecretRecordRepository(t *testing.T) *MockSecretRecordRepository {
	m := &MockSecretRecordRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSecretRecordRepository) Create(ctx context.Context, record *vaultDomain.SecretRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSecretRecordRepository) Get(ctx context.Context, recordID uuid.UUID) (*vaultDomain.SecretRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.SecretRecord), args.Error(1)
}

func (m *MockSecretRecordRepository) Update(ctx context.Context, record *vaultDomain.SecretRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSecretRecordRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	args := m.Called(ctx, recordID)
	return args.Error(0)
}

func (m *MockSecretRecordRepository) ListForPrincipal(
	ctx context.Context,
	principalID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.SecretRecord, error) {
	args := m.Called(ctx, principalID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.SecretRecord), args.Error(1)
}

func (m *MockSecretRecordRepository) TouchLastAccessed(
	ctx context.Context,
	recordID uuid.UUID,
	accessedAt time.Time,
) error {
	args := m.Called(ctx, recordID, accessedAt)
	return args.Error(0)
}

func (m *MockSecretRecordRepository) DetachFolder(ctx context.Context, folderID uuid.UUID) error {
	args := m.Called(ctx, folderID)
	return args.Error(0)
}

// MockFolderRepository is a mock implementation of FolderRepository.
type MockFolderRepository struct {
	mock.Mock
}

// NewMockFolderRepository creates a MockFolderRepository that asserts its
// expectations when the test finishes.
func NewMockFolderRepository(t *testing.T) *MockFolderRepository {
	m := &MockFolderRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockFolderRepository) Create(ctx context.Context, folder *vaultDomain.Folder) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *MockFolderRepository) Get(ctx context.Context, folderID uuid.UUID) (*vaultDomain.Folder, error) {
	args := m.Called(ctx, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Folder), args.Error(1)
}

func (m *MockFolderRepository) Update(ctx context.Context, folder *vaultDomain.Folder) error {
	args := m.Called(ctx, folder)
	return args.Error(0)
}

func (m *MockFolderRepository) Delete(ctx context.Context, folderID uuid.UUID) error {
	args := m.Called(ctx, folderID)
	return args.Error(0)
}

func (m *MockFolderRepository) ListForPrincipal(
	ctx context.Context,
	principalID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Folder, error) {
	args := m.Called(ctx, principalID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Folder), args.Error(1)
}

// MockShareGrantRepository is a mock implementation of ShareGrantRepository.
type MockShareGrantRepository struct {
	mock.Mock
}

// NewMockShareGrantRepository creates a MockShareGrantRepository that asserts
// its expectations when the test finishes.
func NewMockShareGrantRepository(t *testing.T) *MockShareGrantRepository {
	m := &MockShareGrantRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockShareGrantRepository) Upsert(ctx context.Context, grant *vaultDomain.ShareGrant) error {
	args := m.Called(ctx, grant)
	return args.Error(0)
}

func (m *MockShareGrantRepository) Get(
	ctx context.Context,
	resourceID, granteeID uuid.UUID,
) (*vaultDomain.ShareGrant, error) {
	args := m.Called(ctx, resourceID, granteeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.ShareGrant), args.Error(1)
}

func (m *MockShareGrantRepository) ListByResource(
	ctx context.Context,
	resourceID uuid.UUID,
) ([]*vaultDomain.ShareGrant, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.ShareGrant), args.Error(1)
}

func (m *MockShareGrantRepository) Delete(ctx context.Context, resourceID, granteeID uuid.UUID) error {
	args := m.Called(ctx, resourceID, granteeID)
	return args.Error(0)
}

func (m *MockShareGrantRepository) DeleteByResource(ctx context.Context, resourceID uuid.UUID) error {
	args := m.Called(ctx, resourceID)
	return args.Error(0)
}

// MockAccessLogRepository is a mock implementation of AccessLogRepository.
type MockAccessLogRepository struct {
	mock.Mock
}

// NewMockAccessLogRepository creates a MockAccessLogRepository that asserts
// its expectations when the test finishes.
func NewMockAccessLogRepository(t *testing.T) *MockAccessLogRepository {
	m := &MockAccessLogRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAccessLogRepository) Create(ctx context.Context, entry *vaultDomain.AccessLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAccessLogRepository) ListByResource(
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

func (m *MockAccessLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*vaultDomain.AccessLogEntry, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.AccessLogEntry), args.Error(1)
}

func (m *MockAccessLogRepository) DeleteByResource(ctx context.Context, resourceID uuid.UUID) error {
	args := m.Called(ctx, resourceID)
	return args.Error(0)
}

func (m *MockAccessLogRepository) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccessLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}
