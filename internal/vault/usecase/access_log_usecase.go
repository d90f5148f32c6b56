package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/adminsuite/vault/internal/crypto/domain"
	apperrors "github.com/adminsuite/vault/internal/errors"
	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
	vaultService "github.com/adminsuite/vault/internal/vault/service"
)

// accessLogUseCase implements AccessLogUseCase. Entries are signed with a key
// derived from the master key so offline tampering is detectable.
type accessLogUseCase struct {
	logRepo   AccessLogRepository
	signer    vaultService.AccessLogSigner
	masterKey *cryptoDomain.MasterKey
	logger    *slog.Logger
}

// NewAccessLogUseCase creates an AccessLogUseCase.
func NewAccessLogUseCase(
	logRepo AccessLogRepository,
	signer vaultService.AccessLogSigner,
	masterKey *cryptoDomain.MasterKey,
	logger *slog.Logger,
) AccessLogUseCase {
	return &accessLogUseCase{
		logRepo:   logRepo,
		signer:    signer,
		masterKey: masterKey,
		logger:    logger,
	}
}

// Record signs and stores one access log entry.
func (a *accessLogUseCase) Record(
	ctx context.Context,
	resource vaultDomain.Resource,
	principalID uuid.UUID,
	action vaultDomain.Action,
) error {
	entry := &vaultDomain.AccessLogEntry{
		ID:           uuid.Must(uuid.NewV7()),
		ResourceID:   resource.ResourceID(),
		ResourceKind: resource.Kind(),
		PrincipalID:  principalID,
		Action:       action,
		Metadata:     AccessMetadataFrom(ctx),
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}

	signature, err := a.signer.Sign(a.masterKey.Key, entry)
	if err != nil {
		return apperrors.Wrap(err, "failed to sign access log entry")
	}
	entry.Signature = signature

	return a.logRepo.Create(ctx, entry)
}

// ListByResource returns a resource's entries, newest first.
func (a *accessLogUseCase) ListByResource(
	ctx context.Context,
	resourceID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.AccessLogEntry, error) {
	return a.logRepo.ListByResource(ctx, resourceID, offset, limit)
}

// PurgeResource removes a resource's entries.
func (a *accessLogUseCase) PurgeResource(ctx context.Context, resourceID uuid.UUID) error {
	return a.logRepo.DeleteByResource(ctx, resourceID)
}

// CleanOlderThan removes entries older than the retention window. With dryRun
// it only counts what would be removed.
func (a *accessLogUseCase) CleanOlderThan(
	ctx context.Context,
	retentionDays int,
	dryRun bool,
) (int64, error) {
	if retentionDays <= 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "retention days must be positive")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)

	if dryRun {
		return a.logRepo.CountOlderThan(ctx, cutoff)
	}

	deleted, err := a.logRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	a.logger.Info("cleaned old access log entries",
		slog.Int64("deleted", deleted),
		slog.Time("cutoff", cutoff),
	)

	return deleted, nil
}

// VerifySignatures recomputes every entry's signature in batches.
func (a *accessLogUseCase) VerifySignatures(ctx context.Context, batchSize int) (*vaultDomain.VerificationReport, error) {
	if batchSize <= 0 {
		batchSize = 500
	}

	report := &vaultDomain.VerificationReport{}
	offset := 0

	for {
		entries, err := a.logRepo.List(ctx, offset, batchSize)
		if err != nil {
			return nil, err
		}
		if len(entries) == 0 {
			return report, nil
		}

		for _, entry := range entries {
			report.Checked++
			if err := a.signer.Verify(a.masterKey.Key, entry); err != nil {
				if !apperrors.Is(err, vaultDomain.ErrSignatureInvalid) {
					return nil, err
				}
				report.Invalid++
				report.InvalidIDs = append(report.InvalidIDs, entry.ID)
				a.logger.Warn("access log entry failed signature verification",
					slog.String("entry_id", entry.ID.String()),
					slog.String("resource_id", entry.ResourceID.String()),
				)
			}
		}

		offset += len(entries)
	}
}
