package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/adminsuite/vault/internal/crypto/domain"
	apperrors "github.com/adminsuite/vault/internal/errors"
	"github.com/adminsuite/vault/internal/testutil"
	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
	vaultService "github.com/adminsuite/vault/internal/vault/service"
	usecaseMocks "github.com/adminsuite/vault/internal/vault/usecase/mocks"
)

type accessLogFixture struct {
	logRepo   *usecaseMocks.MockAccessLogRepository
	signer    vaultService.AccessLogSigner
	masterKey *cryptoDomain.MasterKey
	useCase   AccessLogUseCase
}

func newAccessLogFixture(t *testing.T) *accessLogFixture {
	masterKey, err := cryptoDomain.NewMasterKey(testutil.RandomBytes(t, cryptoDomain.MasterKeySize))
	require.NoError(t, err)

	f := &accessLogFixture{
		logRepo:   usecaseMocks.NewMockAccessLogRepository(t),
		signer:    vaultService.NewAccessLogSigner(),
		masterKey: masterKey,
	}
	f.useCase = NewAccessLogUseCase(f.logRepo, f.signer, f.masterKey, testLogger())
	return f
}

func TestAccessLogUseCase_Record(t *testing.T) {
	t.Run("Success_SignedEntry", func(t *testing.T) {
		f := newAccessLogFixture(t)
		owner := uuid.Must(uuid.NewV7())
		record := testutil.NewSecretRecord(t, owner)

		var stored *vaultDomain.AccessLogEntry
		f.logRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *vaultDomain.AccessLogEntry) bool {
			stored = e
			return e.ResourceID == record.ID &&
				e.ResourceKind == vaultDomain.SecretRecordKind &&
				e.PrincipalID == owner &&
				e.Action == vaultDomain.ActionView &&
				len(e.Signature) > 0
		})).Return(nil)

		err := f.useCase.Record(context.Background(), record, owner, vaultDomain.ActionView)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.NoError(t, f.signer.Verify(f.masterKey.Key, stored))
		// The stored timestamp must not carry precision the database columns
		// would drop, or the signature dies on the first round trip.
		assert.True(t, stored.CreatedAt.Equal(stored.CreatedAt.Truncate(time.Microsecond)))
	})

	t.Run("Success_MetadataFromContext", func(t *testing.T) {
		f := newAccessLogFixture(t)
		owner := uuid.Must(uuid.NewV7())
		record := testutil.NewSecretRecord(t, owner)
		ctx := WithAccessMetadata(context.Background(), map[string]any{
			"remote_addr": "192.0.2.10",
			"user_agent":  "cli/1.0",
		})

		f.logRepo.On("Create", mock.Anything, mock.MatchedBy(func(e *vaultDomain.AccessLogEntry) bool {
			return e.Metadata["remote_addr"] == "192.0.2.10" && e.Metadata["user_agent"] == "cli/1.0"
		})).Return(nil)

		require.NoError(t, f.useCase.Record(ctx, record, owner, vaultDomain.ActionView))
	})
}

func TestAccessLogUseCase_CleanOlderThan(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newAccessLogFixture(t)

		f.logRepo.On("DeleteOlderThan", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
			// A 90 day retention puts the cutoff about 90 days in the past.
			expected := time.Now().UTC().AddDate(0, 0, -90)
			return cutoff.Sub(expected).Abs() < time.Minute
		})).Return(int64(42), nil)

		deleted, err := f.useCase.CleanOlderThan(ctx, 90, false)
		require.NoError(t, err)
		assert.Equal(t, int64(42), deleted)
	})

	t.Run("DryRunOnlyCounts", func(t *testing.T) {
		f := newAccessLogFixture(t)

		f.logRepo.On("CountOlderThan", mock.Anything, mock.Anything).Return(int64(7), nil)

		count, err := f.useCase.CleanOlderThan(ctx, 30, true)
		require.NoError(t, err)
		assert.Equal(t, int64(7), count)
		f.logRepo.AssertNotCalled(t, "DeleteOlderThan", mock.Anything, mock.Anything)
	})

	t.Run("InvalidRetention", func(t *testing.T) {
		f := newAccessLogFixture(t)

		_, err := f.useCase.CleanOlderThan(ctx, 0, false)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestAccessLogUseCase_VerifySignatures(t *testing.T) {
	ctx := context.Background()

	signEntry := func(t *testing.T, f *accessLogFixture, entry *vaultDomain.AccessLogEntry) *vaultDomain.AccessLogEntry {
		t.Helper()
		signature, err := f.signer.Sign(f.masterKey.Key, entry)
		require.NoError(t, err)
		entry.Signature = signature
		return entry
	}

	t.Run("AllValid", func(t *testing.T) {
		f := newAccessLogFixture(t)
		owner := uuid.Must(uuid.NewV7())
		record := testutil.NewSecretRecord(t, owner)
		entries := []*vaultDomain.AccessLogEntry{
			signEntry(t, f, testutil.NewAccessLogEntry(t, record, owner, vaultDomain.ActionView)),
			signEntry(t, f, testutil.NewAccessLogEntry(t, record, owner, vaultDomain.ActionEdit)),
		}

		f.logRepo.On("List", mock.Anything, 0, 500).Return(entries, nil)
		f.logRepo.On("List", mock.Anything, 2, 500).Return([]*vaultDomain.AccessLogEntry{}, nil)

		report, err := f.useCase.VerifySignatures(ctx, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), report.Checked)
		assert.Equal(t, int64(0), report.Invalid)
		assert.Empty(t, report.InvalidIDs)
	})

	t.Run("DetectsTampering", func(t *testing.T) {
		f := newAccessLogFixture(t)
		owner := uuid.Must(uuid.NewV7())
		record := testutil.NewSecretRecord(t, owner)
		valid := signEntry(t, f, testutil.NewAccessLogEntry(t, record, owner, vaultDomain.ActionView))
		tampered := signEntry(t, f, testutil.NewAccessLogEntry(t, record, owner, vaultDomain.ActionView))
		tampered.Action = vaultDomain.ActionDelete

		f.logRepo.On("List", mock.Anything, 0, 2).Return([]*vaultDomain.AccessLogEntry{valid, tampered}, nil)
		f.logRepo.On("List", mock.Anything, 2, 2).Return([]*vaultDomain.AccessLogEntry{}, nil)

		report, err := f.useCase.VerifySignatures(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(2), report.Checked)
		assert.Equal(t, int64(1), report.Invalid)
		assert.Equal(t, []uuid.UUID{tampered.ID}, report.InvalidIDs)
	})

	t.Run("RepositoryErrorAborts", func(t *testing.T) {
		f := newAccessLogFixture(t)

		f.logRepo.On("List", mock.Anything, 0, 500).Return(nil, apperrors.New("db down"))

		_, err := f.useCase.VerifySignatures(ctx, 0)
		assert.Error(t, err)
	})
}

func TestAccessLogUseCase_PurgeResource(t *testing.T) {
	f := newAccessLogFixture(t)
	resourceID := uuid.Must(uuid.NewV7())

	f.logRepo.On("DeleteByResource", mock.Anything, resourceID).Return(nil)

	require.NoError(t, f.useCase.PurgeResource(context.Background(), resourceID))
}
