package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/adminsuite/vault/internal/metrics"
	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

// secretRecordUseCaseWithMetrics decorates SecretRecordUseCase with metrics
// instrumentation.
type secretRecordUseCaseWithMetrics struct {
	next    SecretRecordUseCase
	metrics metrics.BusinessMetrics
}

// NewSecretRecordUseCaseWithMetrics wraps a SecretRecordUseCase with metrics recording.
func NewSecretRecordUseCaseWithMetrics(useCase SecretRecordUseCase, m metrics.BusinessMetrics) SecretRecordUseCase {
	return &secretRecordUseCaseWithMetrics{next: useCase, metrics: m}
}

func (s *secretRecordUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	s.metrics.RecordOperation(ctx, "secret_records", operation, status)
	s.metrics.RecordDuration(ctx, "secret_records", operation, time.Since(start), status)
}

func (s *secretRecordUseCaseWithMetrics) Create(
	ctx context.Context,
	input *CreateSecretRecordInput,
) (*vaultDomain.SecretRecord, error) {
	start := time.Now()
	record, err := s.next.Create(ctx, input)
	s.record(ctx, "secret_create", start, err)
	return record, err
}

func (s *secretRecordUseCaseWithMetrics) Get(
	ctx context.Context,
	principalID, recordID uuid.UUID,
) (*vaultDomain.SecretRecord, error) {
	start := time.Now()
	record, err := s.next.Get(ctx, principalID, recordID)
	s.record(ctx, "secret_get", start, err)
	return record, err
}

func (s *secretRecordUseCaseWithMetrics) Update(
	ctx context.Context,
	principalID, recordID uuid.UUID,
	input *UpdateSecretRecordInput,
) (*vaultDomain.SecretRecord, error) {
	start := time.Now()
	record, err := s.next.Update(ctx, principalID, recordID, input)
	s.record(ctx, "secret_update", start, err)
	return record, err
}

func (s *secretRecordUseCaseWithMetrics) Delete(ctx context.Context, principalID, recordID uuid.UUID) error {
	start := time.Now()
	err := s.next.Delete(ctx, principalID, recordID)
	s.record(ctx, "secret_delete", start, err)
	return err
}

func (s *secretRecordUseCaseWithMetrics) Share(
	ctx context.Context,
	principalID, recordID, granteeID uuid.UUID,
	perms vaultDomain.PermissionSet,
) (*vaultDomain.ShareGrant, error) {
	start := time.Now()
	grant, err := s.next.Share(ctx, principalID, recordID, granteeID, perms)
	s.record(ctx, "secret_share", start, err)
	return grant, err
}

func (s *secretRecordUseCaseWithMetrics) Unshare(
	ctx context.Context,
	principalID, recordID, granteeID uuid.UUID,
) error {
	start := time.Now()
	err := s.next.Unshare(ctx, principalID, recordID, granteeID)
	s.record(ctx, "secret_unshare", start, err)
	return err
}

func (s *secretRecordUseCaseWithMetrics) List(
	ctx context.Context,
	principalID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.SecretRecord, error) {
	start := time.Now()
	records, err := s.next.List(ctx, principalID, offset, limit)
	s.record(ctx, "secret_list", start, err)
	return records, err
}

func (s *secretRecordUseCaseWithMetrics) ListAccessLog(
	ctx context.Context,
	principalID, recordID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.AccessLogEntry, error) {
	start := time.Now()
	entries, err := s.next.ListAccessLog(ctx, principalID, recordID, offset, limit)
	s.record(ctx, "secret_access_log", start, err)
	return entries, err
}

// folderUseCaseWithMetrics decorates FolderUseCase with metrics instrumentation.
type folderUseCaseWithMetrics struct {
	next    FolderUseCase
	metrics metrics.BusinessMetrics
}

// NewFolderUseCaseWithMetrics wraps a FolderUseCase with metrics recording.
func NewFolderUseCaseWithMetrics(useCase FolderUseCase, m metrics.BusinessMetrics) FolderUseCase {
	return &folderUseCaseWithMetrics{next: useCase, metrics: m}
}

func (f *folderUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	f.metrics.RecordOperation(ctx, "folders", operation, status)
	f.metrics.RecordDuration(ctx, "folders", operation, time.Since(start), status)
}

func (f *folderUseCaseWithMetrics) Create(ctx context.Context, input *CreateFolderInput) (*vaultDomain.Folder, error) {
	start := time.Now()
	folder, err := f.next.Create(ctx, input)
	f.record(ctx, "folder_create", start, err)
	return folder, err
}

func (f *folderUseCaseWithMetrics) Get(ctx context.Context, principalID, folderID uuid.UUID) (*vaultDomain.Folder, error) {
	start := time.Now()
	folder, err := f.next.Get(ctx, principalID, folderID)
	f.record(ctx, "folder_get", start, err)
	return folder, err
}

func (f *folderUseCaseWithMetrics) Update(
	ctx context.Context,
	principalID, folderID uuid.UUID,
	input *UpdateFolderInput,
) (*vaultDomain.Folder, error) {
	start := time.Now()
	folder, err := f.next.Update(ctx, principalID, folderID, input)
	f.record(ctx, "folder_update", start, err)
	return folder, err
}

func (f *folderUseCaseWithMetrics) Delete(ctx context.Context, principalID, folderID uuid.UUID) error {
	start := time.Now()
	err := f.next.Delete(ctx, principalID, folderID)
	f.record(ctx, "folder_delete", start, err)
	return err
}

func (f *folderUseCaseWithMetrics) Share(
	ctx context.Context,
	principalID, folderID, granteeID uuid.UUID,
	perms vaultDomain.PermissionSet,
) (*vaultDomain.ShareGrant, error) {
	start := time.Now()
	grant, err := f.next.Share(ctx, principalID, folderID, granteeID, perms)
	f.record(ctx, "folder_share", start, err)
	return grant, err
}

func (f *folderUseCaseWithMetrics) Unshare(ctx context.Context, principalID, folderID, granteeID uuid.UUID) error {
	start := time.Now()
	err := f.next.Unshare(ctx, principalID, folderID, granteeID)
	f.record(ctx, "folder_unshare", start, err)
	return err
}

func (f *folderUseCaseWithMetrics) List(
	ctx context.Context,
	principalID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Folder, error) {
	start := time.Now()
	folders, err := f.next.List(ctx, principalID, offset, limit)
	f.record(ctx, "folder_list", start, err)
	return folders, err
}

func (f *folderUseCaseWithMetrics) ListAccessLog(
	ctx context.Context,
	principalID, folderID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.AccessLogEntry, error) {
	start := time.Now()
	entries, err := f.next.ListAccessLog(ctx, principalID, folderID, offset, limit)
	f.record(ctx, "folder_access_log", start, err)
	return entries, err
}
