package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/adminsuite/vault/internal/database"
	apperrors "github.com/adminsuite/vault/internal/errors"
	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
	vaultService "github.com/adminsuite/vault/internal/vault/service"
)

// folderUseCase implements FolderUseCase.
type folderUseCase struct {
	txManager  database.TxManager
	folderRepo FolderRepository
	recordRepo SecretRecordRepository
	grantRepo  ShareGrantRepository
	authorizer vaultService.Authorizer
	accessLog  AccessLogUseCase
	logger     *slog.Logger
}

// NewFolderUseCase creates a FolderUseCase.
func NewFolderUseCase(
	txManager database.TxManager,
	folderRepo FolderRepository,
	recordRepo SecretRecordRepository,
	grantRepo ShareGrantRepository,
	authorizer vaultService.Authorizer,
	accessLog AccessLogUseCase,
	logger *slog.Logger,
) FolderUseCase {
	return &folderUseCase{
		txManager:  txManager,
		folderRepo: folderRepo,
		recordRepo: recordRepo,
		grantRepo:  grantRepo,
		authorizer: authorizer,
		accessLog:  accessLog,
		logger:     logger,
	}
}

// Create stores a new folder, checking edit access on the parent when nested.
func (f *folderUseCase) Create(ctx context.Context, input *CreateFolderInput) (*vaultDomain.Folder, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := f.getFolder(ctx, *input.ParentID)
		if err != nil {
			return nil, err
		}
		if err := f.authorizeOn(ctx, input.OwnerID, parent, vaultDomain.EditCapability); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	folder := &vaultDomain.Folder{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      input.Name,
		OwnerID:   input.OwnerID,
		ParentID:  input.ParentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := f.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	f.recordAccess(ctx, folder, input.OwnerID, vaultDomain.ActionCreate)

	return folder, nil
}

// Get retrieves a folder.
func (f *folderUseCase) Get(ctx context.Context, principalID, folderID uuid.UUID) (*vaultDomain.Folder, error) {
	folder, err := f.getFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	if err := f.authorizeOn(ctx, principalID, folder, vaultDomain.ViewCapability); err != nil {
		return nil, err
	}

	f.recordAccess(ctx, folder, principalID, vaultDomain.ActionView)

	return folder, nil
}

// Update renames a folder.
func (f *folderUseCase) Update(
	ctx context.Context,
	principalID, folderID uuid.UUID,
	input *UpdateFolderInput,
) (*vaultDomain.Folder, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	folder, err := f.getFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	if err := f.authorizeOn(ctx, principalID, folder, vaultDomain.EditCapability); err != nil {
		return nil, err
	}

	folder.Name = input.Name
	folder.UpdatedAt = time.Now().UTC()

	if err := f.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	f.recordAccess(ctx, folder, principalID, vaultDomain.ActionEdit)

	return folder, nil
}

// Delete removes the folder, detaching its records so they survive as loose
// records. Grants and log entries attached to the folder go with it; a delete
// entry is emitted best-effort after the transaction commits.
func (f *folderUseCase) Delete(ctx context.Context, principalID, folderID uuid.UUID) error {
	folder, err := f.getFolder(ctx, folderID)
	if err != nil {
		return err
	}

	if err := f.authorizeOn(ctx, principalID, folder, vaultDomain.DeleteCapability); err != nil {
		return err
	}

	err = f.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := f.recordRepo.DetachFolder(txCtx, folder.ID); err != nil {
			return err
		}
		if err := f.grantRepo.DeleteByResource(txCtx, folder.ID); err != nil {
			return err
		}
		if err := f.accessLog.PurgeResource(txCtx, folder.ID); err != nil {
			return err
		}
		return f.folderRepo.Delete(txCtx, folder.ID)
	})
	if err != nil {
		return err
	}

	f.recordAccess(ctx, folder, principalID, vaultDomain.ActionDelete)

	return nil
}

// Share grants capabilities on the folder to another principal. The grant
// applies to records created in the folder afterwards, not to existing ones.
func (f *folderUseCase) Share(
	ctx context.Context,
	principalID, folderID, granteeID uuid.UUID,
	perms vaultDomain.PermissionSet,
) (*vaultDomain.ShareGrant, error) {
	if perms.Empty() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "share grant needs at least one capability")
	}
	if err := perms.Validate(vaultDomain.FolderKind); err != nil {
		return nil, err
	}

	folder, err := f.getFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if granteeID == folder.OwnerID {
		return nil, vaultDomain.ErrGranteeIsOwner
	}

	if err := f.authorizeOn(ctx, principalID, folder, vaultDomain.ShareCapability); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	grant := &vaultDomain.ShareGrant{
		ID:           uuid.Must(uuid.NewV7()),
		ResourceID:   folder.ID,
		ResourceKind: vaultDomain.FolderKind,
		GranteeID:    granteeID,
		GrantedBy:    principalID,
		Permissions:  perms,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := f.grantRepo.Upsert(ctx, grant); err != nil {
		return nil, err
	}

	f.recordAccess(ctx, folder, principalID, vaultDomain.ActionShare)

	return grant, nil
}

// Unshare revokes the grantee's access to the folder.
func (f *folderUseCase) Unshare(ctx context.Context, principalID, folderID, granteeID uuid.UUID) error {
	folder, err := f.getFolder(ctx, folderID)
	if err != nil {
		return err
	}

	if err := f.authorizeOn(ctx, principalID, folder, vaultDomain.ShareCapability); err != nil {
		return err
	}

	if err := f.grantRepo.Delete(ctx, folder.ID, granteeID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return vaultDomain.ErrShareGrantNotFound
		}
		return err
	}

	f.recordAccess(ctx, folder, principalID, vaultDomain.ActionShare)

	return nil
}

// List returns the folders the principal owns or has been granted access to.
func (f *folderUseCase) List(
	ctx context.Context,
	principalID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Folder, error) {
	return f.folderRepo.ListForPrincipal(ctx, principalID, offset, limit)
}

// ListAccessLog returns the folder's access history, newest first.
func (f *folderUseCase) ListAccessLog(
	ctx context.Context,
	principalID, folderID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.AccessLogEntry, error) {
	folder, err := f.getFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	if err := f.authorizeOn(ctx, principalID, folder, vaultDomain.ViewCapability); err != nil {
		return nil, err
	}

	return f.accessLog.ListByResource(ctx, folder.ID, offset, limit)
}

func (f *folderUseCase) getFolder(ctx context.Context, folderID uuid.UUID) (*vaultDomain.Folder, error) {
	folder, err := f.folderRepo.Get(ctx, folderID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, vaultDomain.ErrFolderNotFound
		}
		return nil, err
	}
	return folder, nil
}

func (f *folderUseCase) authorizeOn(
	ctx context.Context,
	principalID uuid.UUID,
	resource vaultDomain.Resource,
	capability vaultDomain.Capability,
) error {
	var grant *vaultDomain.ShareGrant
	if resource.ResourceOwnerID() != principalID {
		found, err := f.grantRepo.Get(ctx, resource.ResourceID(), principalID)
		if err != nil && !apperrors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		grant = found
	}
	return f.authorizer.Authorize(principalID, resource, capability, grant).Err()
}

func (f *folderUseCase) recordAccess(
	ctx context.Context,
	resource vaultDomain.Resource,
	principalID uuid.UUID,
	action vaultDomain.Action,
) {
	if err := f.accessLog.Record(ctx, resource, principalID, action); err != nil {
		f.logger.Warn("failed to record access log entry",
			slog.String("resource_id", resource.ResourceID().String()),
			slog.String("action", string(action)),
			slog.Any("error", err),
		)
	}
}
