package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoService "github.com/adminsuite/vault/internal/crypto/service"
	"github.com/adminsuite/vault/internal/database"
	apperrors "github.com/adminsuite/vault/internal/errors"
	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
	vaultService "github.com/adminsuite/vault/internal/vault/service"
)

// secretRecordUseCase implements SecretRecordUseCase.
type secretRecordUseCase struct {
	txManager  database.TxManager
	recordRepo SecretRecordRepository
	folderRepo FolderRepository
	grantRepo  ShareGrantRepository
	cipher     cryptoService.SecretCipher
	authorizer vaultService.Authorizer
	accessLog  AccessLogUseCase
	logger     *slog.Logger
}

// NewSecretRecordUseCase creates a SecretRecordUseCase.
func NewSecretRecordUseCase(
	txManager database.TxManager,
	recordRepo SecretRecordRepository,
	folderRepo FolderRepository,
	grantRepo ShareGrantRepository,
	cipher cryptoService.SecretCipher,
	authorizer vaultService.Authorizer,
	accessLog AccessLogUseCase,
	logger *slog.Logger,
) SecretRecordUseCase {
	return &secretRecordUseCase{
		txManager:  txManager,
		recordRepo: recordRepo,
		folderRepo: folderRepo,
		grantRepo:  grantRepo,
		cipher:     cipher,
		authorizer: authorizer,
		accessLog:  accessLog,
		logger:     logger,
	}
}

// Create encrypts the value and stores a new secret record, copying the
// folder's share grants onto the record when it is created inside a folder.
func (s *secretRecordUseCase) Create(
	ctx context.Context,
	input *CreateSecretRecordInput,
) (*vaultDomain.SecretRecord, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	// Resolve the folder and its grants before touching the cipher: a denial
	// must short-circuit the expensive key derivation.
	var folderGrants []*vaultDomain.ShareGrant
	if input.FolderID != nil {
		folder, err := s.getFolder(ctx, *input.FolderID)
		if err != nil {
			return nil, err
		}
		if err := s.authorizeOn(ctx, input.OwnerID, folder, vaultDomain.AddSecretsCapability); err != nil {
			return nil, err
		}
		folderGrants, err = s.grantRepo.ListByResource(ctx, folder.ID)
		if err != nil {
			return nil, err
		}
	}

	encrypted, err := s.cipher.Encrypt(ctx, input.Value)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record := &vaultDomain.SecretRecord{
		ID:        uuid.Must(uuid.NewV7()),
		Title:     input.Title,
		Username:  input.Username,
		URL:       input.URL,
		Notes:     input.Notes,
		OwnerID:   input.OwnerID,
		FolderID:  input.FolderID,
		Tags:      input.Tags,
		Favorite:  input.Favorite,
		Secret:    encrypted,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.recordRepo.Create(txCtx, record); err != nil {
			return err
		}

		// The folder's grants are copied at creation time, restricted to the
		// capabilities a record grant may carry. Later changes to the
		// folder's grants do not propagate.
		for _, folderGrant := range folderGrants {
			perms := folderGrant.Permissions.RestrictTo(vaultDomain.SecretRecordKind)
			if perms.Empty() || folderGrant.GranteeID == record.OwnerID {
				continue
			}
			grant := &vaultDomain.ShareGrant{
				ID:           uuid.Must(uuid.NewV7()),
				ResourceID:   record.ID,
				ResourceKind: vaultDomain.SecretRecordKind,
				GranteeID:    folderGrant.GranteeID,
				GrantedBy:    folderGrant.GrantedBy,
				Permissions:  perms,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			if err := s.grantRepo.Upsert(txCtx, grant); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAccess(ctx, record, input.OwnerID, vaultDomain.ActionCreate)

	return record, nil
}

// Get retrieves and decrypts a secret record.
func (s *secretRecordUseCase) Get(
	ctx context.Context,
	principalID, recordID uuid.UUID,
) (*vaultDomain.SecretRecord, error) {
	record, err := s.getRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeOn(ctx, principalID, record, vaultDomain.ViewCapability); err != nil {
		return nil, err
	}

	plaintext, err := s.cipher.Decrypt(ctx, record.Secret)
	if err != nil {
		return nil, err
	}
	record.Plaintext = plaintext

	now := time.Now().UTC()
	if err := s.recordRepo.TouchLastAccessed(ctx, record.ID, now); err != nil {
		s.logger.Warn("failed to update last accessed time",
			slog.String("record_id", record.ID.String()),
			slog.Any("error", err),
		)
	} else {
		record.LastAccessedAt = &now
	}

	s.recordAccess(ctx, record, principalID, vaultDomain.ActionView)

	return record, nil
}

// Update applies a partial update, re-encrypting when the value changes.
func (s *secretRecordUseCase) Update(
	ctx context.Context,
	principalID, recordID uuid.UUID,
	input *UpdateSecretRecordInput,
) (*vaultDomain.SecretRecord, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	record, err := s.getRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeOn(ctx, principalID, record, vaultDomain.EditCapability); err != nil {
		return nil, err
	}

	if input.FolderID != nil && (record.FolderID == nil || *record.FolderID != *input.FolderID) {
		// Moving into a folder needs the addSecrets capability there.
		folder, err := s.getFolder(ctx, *input.FolderID)
		if err != nil {
			return nil, err
		}
		if err := s.authorizeOn(ctx, principalID, folder, vaultDomain.AddSecretsCapability); err != nil {
			return nil, err
		}
		record.FolderID = input.FolderID
	}

	if input.Title != nil {
		record.Title = *input.Title
	}
	if input.Username != nil {
		record.Username = *input.Username
	}
	if input.URL != nil {
		record.URL = *input.URL
	}
	if input.Notes != nil {
		record.Notes = *input.Notes
	}
	if input.Tags != nil {
		record.Tags = input.Tags
	}
	if input.Favorite != nil {
		record.Favorite = *input.Favorite
	}
	if input.Value != nil {
		// A fresh salt and IV every time, even for an identical value.
		encrypted, err := s.cipher.Encrypt(ctx, *input.Value)
		if err != nil {
			return nil, err
		}
		record.Secret = encrypted
	}
	record.UpdatedAt = time.Now().UTC()

	if err := s.recordRepo.Update(ctx, record); err != nil {
		return nil, err
	}

	s.recordAccess(ctx, record, principalID, vaultDomain.ActionEdit)

	return record, nil
}

// Delete removes the record, its share grants and its access log entries in
// one transaction, then emits a delete entry best-effort. That entry outlives
// the resource it references.
func (s *secretRecordUseCase) Delete(ctx context.Context, principalID, recordID uuid.UUID) error {
	record, err := s.getRecord(ctx, recordID)
	if err != nil {
		return err
	}

	if err := s.authorizeOn(ctx, principalID, record, vaultDomain.DeleteCapability); err != nil {
		return err
	}

	err = s.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.grantRepo.DeleteByResource(txCtx, record.ID); err != nil {
			return err
		}
		if err := s.accessLog.PurgeResource(txCtx, record.ID); err != nil {
			return err
		}
		return s.recordRepo.Delete(txCtx, record.ID)
	})
	if err != nil {
		return err
	}

	s.recordAccess(ctx, record, principalID, vaultDomain.ActionDelete)

	return nil
}

// Share grants capabilities on the record to another principal.
func (s *secretRecordUseCase) Share(
	ctx context.Context,
	principalID, recordID, granteeID uuid.UUID,
	perms vaultDomain.PermissionSet,
) (*vaultDomain.ShareGrant, error) {
	if perms.Empty() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "share grant needs at least one capability")
	}
	if err := perms.Validate(vaultDomain.SecretRecordKind); err != nil {
		return nil, err
	}

	record, err := s.getRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if granteeID == record.OwnerID {
		return nil, vaultDomain.ErrGranteeIsOwner
	}

	if err := s.authorizeOn(ctx, principalID, record, vaultDomain.ShareCapability); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	grant := &vaultDomain.ShareGrant{
		ID:           uuid.Must(uuid.NewV7()),
		ResourceID:   record.ID,
		ResourceKind: vaultDomain.SecretRecordKind,
		GranteeID:    granteeID,
		GrantedBy:    principalID,
		Permissions:  perms,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.grantRepo.Upsert(ctx, grant); err != nil {
		return nil, err
	}

	s.recordAccess(ctx, record, principalID, vaultDomain.ActionShare)

	return grant, nil
}

// Unshare revokes the grantee's access to the record.
func (s *secretRecordUseCase) Unshare(ctx context.Context, principalID, recordID, granteeID uuid.UUID) error {
	record, err := s.getRecord(ctx, recordID)
	if err != nil {
		return err
	}

	if err := s.authorizeOn(ctx, principalID, record, vaultDomain.ShareCapability); err != nil {
		return err
	}

	if err := s.grantRepo.Delete(ctx, record.ID, granteeID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return vaultDomain.ErrShareGrantNotFound
		}
		return err
	}

	s.recordAccess(ctx, record, principalID, vaultDomain.ActionShare)

	return nil
}

// List returns the records the principal owns or has been granted access to.
func (s *secretRecordUseCase) List(
	ctx context.Context,
	principalID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.SecretRecord, error) {
	return s.recordRepo.ListForPrincipal(ctx, principalID, offset, limit)
}

// ListAccessLog returns the record's access history, newest first.
func (s *secretRecordUseCase) ListAccessLog(
	ctx context.Context,
	principalID, recordID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.AccessLogEntry, error) {
	record, err := s.getRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeOn(ctx, principalID, record, vaultDomain.ViewCapability); err != nil {
		return nil, err
	}

	return s.accessLog.ListByResource(ctx, record.ID, offset, limit)
}

// getRecord maps the repository's not-found to the domain error.
func (s *secretRecordUseCase) getRecord(ctx context.Context, recordID uuid.UUID) (*vaultDomain.SecretRecord, error) {
	record, err := s.recordRepo.Get(ctx, recordID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, vaultDomain.ErrSecretRecordNotFound
		}
		return nil, err
	}
	return record, nil
}

func (s *secretRecordUseCase) getFolder(ctx context.Context, folderID uuid.UUID) (*vaultDomain.Folder, error) {
	folder, err := s.folderRepo.Get(ctx, folderID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, vaultDomain.ErrFolderNotFound
		}
		return nil, err
	}
	return folder, nil
}

// authorizeOn looks up the principal's grant on the resource and runs the
// authorization decision. Owners skip the grant lookup.
func (s *secretRecordUseCase) authorizeOn(
	ctx context.Context,
	principalID uuid.UUID,
	resource vaultDomain.Resource,
	capability vaultDomain.Capability,
) error {
	grant, err := s.lookupGrant(ctx, resource, principalID)
	if err != nil {
		return err
	}
	return s.authorizer.Authorize(principalID, resource, capability, grant).Err()
}

func (s *secretRecordUseCase) lookupGrant(
	ctx context.Context,
	resource vaultDomain.Resource,
	principalID uuid.UUID,
) (*vaultDomain.ShareGrant, error) {
	if resource.ResourceOwnerID() == principalID {
		return nil, nil
	}
	grant, err := s.grantRepo.Get(ctx, resource.ResourceID(), principalID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return grant, nil
}

// recordAccess writes the audit entry best-effort: the operation itself has
// already succeeded and is not rolled back when the log write fails.
func (s *secretRecordUseCase) recordAccess(
	ctx context.Context,
	resource vaultDomain.Resource,
	principalID uuid.UUID,
	action vaultDomain.Action,
) {
	if err := s.accessLog.Record(ctx, resource, principalID, action); err != nil {
		s.logger.Warn("failed to record access log entry",
			slog.String("resource_id", resource.ResourceID().String()),
			slog.String("action", string(action)),
			slog.Any("error", err),
		)
	}
}
