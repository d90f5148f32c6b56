package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	databaseMocks "github.com/adminsuite/vault/internal/database/mocks"
	apperrors "github.com/adminsuite/vault/internal/errors"
	"github.com/adminsuite/vault/internal/testutil"
	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
	vaultService "github.com/adminsuite/vault/internal/vault/service"
	usecaseMocks "github.com/adminsuite/vault/internal/vault/usecase/mocks"
)

type folderFixture struct {
	txManager  *databaseMocks.MockTxManager
	folderRepo *usecaseMocks.MockFolderRepository
	recordRepo *usecaseMocks.MockSecretRecordRepository
	grantRepo  *usecaseMocks.MockShareGrantRepository
	accessLog  *usecaseMocks.MockAccessLogUseCase
	useCase    FolderUseCase
}

func newFolderFixture(t *testing.T) *folderFixture {
	f := &folderFixture{
		txManager:  databaseMocks.NewMockTxManager(t),
		folderRepo: usecaseMocks.NewMockFolderRepository(t),
		recordRepo: usecaseMocks.NewMockSecretRecordRepository(t),
		grantRepo:  usecaseMocks.NewMockShareGrantRepository(t),
		accessLog:  usecaseMocks.NewMockAccessLogUseCase(t),
	}
	f.useCase = NewFolderUseCase(
		f.txManager,
		f.folderRepo,
		f.recordRepo,
		f.grantRepo,
		vaultService.NewAuthorizer(nil),
		f.accessLog,
		testLogger(),
	)
	return f
}

func TestFolderUseCase_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFolderFixture(t)
		ownerID := uuid.Must(uuid.NewV7())

		f.folderRepo.On("Create", mock.Anything, mock.MatchedBy(func(folder *vaultDomain.Folder) bool {
			return folder.Name == "infrastructure" && folder.OwnerID == ownerID && folder.ParentID == nil
		})).Return(nil)
		f.accessLog.On("Record", mock.Anything, mock.Anything, ownerID, vaultDomain.ActionCreate).Return(nil)

		folder, err := f.useCase.Create(ctx, &CreateFolderInput{OwnerID: ownerID, Name: "infrastructure"})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, folder.ID)
		assert.False(t, folder.CreatedAt.IsZero())
	})

	t.Run("Success_Nested", func(t *testing.T) {
		f := newFolderFixture(t)
		ownerID := uuid.Must(uuid.NewV7())
		parent := testutil.NewFolder(t, ownerID)

		f.folderRepo.On("Get", mock.Anything, parent.ID).Return(parent, nil)
		f.folderRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.accessLog.On("Record", mock.Anything, mock.Anything, ownerID, vaultDomain.ActionCreate).Return(nil)

		folder, err := f.useCase.Create(ctx, &CreateFolderInput{
			OwnerID:  ownerID,
			Name:     "databases",
			ParentID: &parent.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, folder.ParentID)
		assert.Equal(t, parent.ID, *folder.ParentID)
	})

	t.Run("DeniedInForeignParent", func(t *testing.T) {
		f := newFolderFixture(t)
		alice := uuid.Must(uuid.NewV7())
		bob := uuid.Must(uuid.NewV7())
		parent := testutil.NewFolder(t, alice)

		f.folderRepo.On("Get", mock.Anything, parent.ID).Return(parent, nil)
		f.grantRepo.On("Get", mock.Anything, parent.ID, bob).Return(nil, apperrors.ErrNotFound)

		_, err := f.useCase.Create(ctx, &CreateFolderInput{
			OwnerID:  bob,
			Name:     "databases",
			ParentID: &parent.ID,
		})
		assert.ErrorIs(t, err, vaultDomain.ErrAccessDenied)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		f := newFolderFixture(t)

		_, err := f.useCase.Create(ctx, &CreateFolderInput{OwnerID: uuid.Must(uuid.NewV7()), Name: ""})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestFolderUseCase_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFolderFixture(t)
		owner := uuid.Must(uuid.NewV7())
		folder := testutil.NewFolder(t, owner)

		f.folderRepo.On("Get", mock.Anything, folder.ID).Return(folder, nil)
		f.accessLog.On("Record", mock.Anything, mock.Anything, owner, vaultDomain.ActionView).Return(nil)

		got, err := f.useCase.Get(ctx, owner, folder.ID)
		require.NoError(t, err)
		assert.Equal(t, folder, got)
	})

	t.Run("NotFound", func(t *testing.T) {
		f := newFolderFixture(t)
		folderID := uuid.Must(uuid.NewV7())

		f.folderRepo.On("Get", mock.Anything, folderID).Return(nil, apperrors.ErrNotFound)

		_, err := f.useCase.Get(ctx, uuid.Must(uuid.NewV7()), folderID)
		assert.ErrorIs(t, err, vaultDomain.ErrFolderNotFound)
	})
}

func TestFolderUseCase_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFolderFixture(t)
		owner := uuid.Must(uuid.NewV7())
		folder := testutil.NewFolder(t, owner)

		f.folderRepo.On("Get", mock.Anything, folder.ID).Return(folder, nil)
		f.folderRepo.On("Update", mock.Anything, mock.Anything).Return(nil)
		f.accessLog.On("Record", mock.Anything, mock.Anything, owner, vaultDomain.ActionEdit).Return(nil)

		got, err := f.useCase.Update(ctx, owner, folder.ID, &UpdateFolderInput{Name: "renamed"})
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Name)
	})

	t.Run("DeniedForViewOnlyGrantee", func(t *testing.T) {
		f := newFolderFixture(t)
		owner := uuid.Must(uuid.NewV7())
		bob := uuid.Must(uuid.NewV7())
		folder := testutil.NewFolder(t, owner)
		grant := testutil.NewShareGrant(t, folder, bob, vaultDomain.PermissionSet{View: true})

		f.folderRepo.On("Get", mock.Anything, folder.ID).Return(folder, nil)
		f.grantRepo.On("Get", mock.Anything, folder.ID, bob).Return(grant, nil)

		_, err := f.useCase.Update(ctx, bob, folder.ID, &UpdateFolderInput{Name: "renamed"})
		assert.ErrorIs(t, err, vaultDomain.ErrAccessDenied)
	})
}

func TestFolderUseCase_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_DetachesRecords", func(t *testing.T) {
		f := newFolderFixture(t)
		owner := uuid.Must(uuid.NewV7())
		folder := testutil.NewFolder(t, owner)

		f.folderRepo.On("Get", mock.Anything, folder.ID).Return(folder, nil)
		f.txManager.On("WithTx", mock.Anything).Return(nil)
		f.recordRepo.On("DetachFolder", mock.Anything, folder.ID).Return(nil)
		f.grantRepo.On("DeleteByResource", mock.Anything, folder.ID).Return(nil)
		f.accessLog.On("PurgeResource", mock.Anything, folder.ID).Return(nil)
		f.folderRepo.On("Delete", mock.Anything, folder.ID).Return(nil)
		f.accessLog.On("Record", mock.Anything, mock.Anything, owner, vaultDomain.ActionDelete).Return(nil)

		require.NoError(t, f.useCase.Delete(ctx, owner, folder.ID))
	})

	t.Run("AllowedForGranteeWithDelete", func(t *testing.T) {
		// Unlike records, the delete capability is grantable on folders.
		f := newFolderFixture(t)
		owner := uuid.Must(uuid.NewV7())
		bob := uuid.Must(uuid.NewV7())
		folder := testutil.NewFolder(t, owner)
		grant := testutil.NewShareGrant(t, folder, bob, vaultDomain.PermissionSet{Delete: true})

		f.folderRepo.On("Get", mock.Anything, folder.ID).Return(folder, nil)
		f.grantRepo.On("Get", mock.Anything, folder.ID, bob).Return(grant, nil)
		f.txManager.On("WithTx", mock.Anything).Return(nil)
		f.recordRepo.On("DetachFolder", mock.Anything, folder.ID).Return(nil)
		f.grantRepo.On("DeleteByResource", mock.Anything, folder.ID).Return(nil)
		f.accessLog.On("PurgeResource", mock.Anything, folder.ID).Return(nil)
		f.folderRepo.On("Delete", mock.Anything, folder.ID).Return(nil)
		f.accessLog.On("Record", mock.Anything, mock.Anything, bob, vaultDomain.ActionDelete).Return(nil)

		require.NoError(t, f.useCase.Delete(ctx, bob, folder.ID))
	})

	t.Run("Denied", func(t *testing.T) {
		f := newFolderFixture(t)
		owner := uuid.Must(uuid.NewV7())
		stranger := uuid.Must(uuid.NewV7())
		folder := testutil.NewFolder(t, owner)

		f.folderRepo.On("Get", mock.Anything, folder.ID).Return(folder, nil)
		f.grantRepo.On("Get", mock.Anything, folder.ID, stranger).Return(nil, apperrors.ErrNotFound)

		err := f.useCase.Delete(ctx, stranger, folder.ID)
		assert.ErrorIs(t, err, vaultDomain.ErrAccessDenied)
		f.folderRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestFolderUseCase_Share(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AddSecretsGrantable", func(t *testing.T) {
		f := newFolderFixture(t)
		owner := uuid.Must(uuid.NewV7())
		bob := uuid.Must(uuid.NewV7())
		folder := testutil.NewFolder(t, owner)

		f.folderRepo.On("Get", mock.Anything, folder.ID).Return(folder, nil)
		f.grantRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(g *vaultDomain.ShareGrant) bool {
			return g.ResourceKind == vaultDomain.FolderKind && g.Permissions.AddSecrets
		})).Return(nil)
		f.accessLog.On("Record", mock.Anything, mock.Anything, owner, vaultDomain.ActionShare).Return(nil)

		grant, err := f.useCase.Share(ctx, owner, folder.ID, bob, vaultDomain.PermissionSet{View: true, AddSecrets: true})
		require.NoError(t, err)
		assert.Equal(t, bob, grant.GranteeID)
	})

	t.Run("DeleteGrantableOnFolders", func(t *testing.T) {
		f := newFolderFixture(t)
		owner := uuid.Must(uuid.NewV7())
		bob := uuid.Must(uuid.NewV7())
		folder := testutil.NewFolder(t, owner)

		f.folderRepo.On("Get", mock.Anything, folder.ID).Return(folder, nil)
		f.grantRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
		f.accessLog.On("Record", mock.Anything, mock.Anything, owner, vaultDomain.ActionShare).Return(nil)

		grant, err := f.useCase.Share(ctx, owner, folder.ID, bob, vaultDomain.PermissionSet{Delete: true})
		require.NoError(t, err)
		assert.True(t, grant.Permissions.Delete)
	})

	t.Run("GranteeIsOwner", func(t *testing.T) {
		f := newFolderFixture(t)
		owner := uuid.Must(uuid.NewV7())
		folder := testutil.NewFolder(t, owner)

		f.folderRepo.On("Get", mock.Anything, folder.ID).Return(folder, nil)

		_, err := f.useCase.Share(ctx, owner, folder.ID, owner, vaultDomain.PermissionSet{View: true})
		assert.ErrorIs(t, err, vaultDomain.ErrGranteeIsOwner)
	})

	t.Run("EmptyPermissions", func(t *testing.T) {
		f := newFolderFixture(t)

		_, err := f.useCase.Share(ctx, uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()), uuid.Must(uuid.NewV7()), vaultDomain.PermissionSet{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})
}

func TestFolderUseCase_Unshare(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFolderFixture(t)
		owner := uuid.Must(uuid.NewV7())
		bob := uuid.Must(uuid.NewV7())
		folder := testutil.NewFolder(t, owner)

		f.folderRepo.On("Get", mock.Anything, folder.ID).Return(folder, nil)
		f.grantRepo.On("Delete", mock.Anything, folder.ID, bob).Return(nil)
		f.accessLog.On("Record", mock.Anything, mock.Anything, owner, vaultDomain.ActionShare).Return(nil)

		require.NoError(t, f.useCase.Unshare(ctx, owner, folder.ID, bob))
	})

	t.Run("GrantNotFound", func(t *testing.T) {
		f := newFolderFixture(t)
		owner := uuid.Must(uuid.NewV7())
		bob := uuid.Must(uuid.NewV7())
		folder := testutil.NewFolder(t, owner)

		f.folderRepo.On("Get", mock.Anything, folder.ID).Return(folder, nil)
		f.grantRepo.On("Delete", mock.Anything, folder.ID, bob).Return(apperrors.ErrNotFound)

		err := f.useCase.Unshare(ctx, owner, folder.ID, bob)
		assert.ErrorIs(t, err, vaultDomain.ErrShareGrantNotFound)
	})
}

func TestFolderUseCase_List(t *testing.T) {
	f := newFolderFixture(t)
	principalID := uuid.Must(uuid.NewV7())
	folders := []*vaultDomain.Folder{testutil.NewFolder(t, principalID)}

	f.folderRepo.On("ListForPrincipal", mock.Anything, principalID, 0, 50).Return(folders, nil)

	got, err := f.useCase.List(context.Background(), principalID, 0, 50)
	require.NoError(t, err)
	assert.Equal(t, folders, got)
}

func TestFolderUseCase_ListAccessLog(t *testing.T) {
	f := newFolderFixture(t)
	owner := uuid.Must(uuid.NewV7())
	folder := testutil.NewFolder(t, owner)
	entries := []*vaultDomain.AccessLogEntry{
		testutil.NewAccessLogEntry(t, folder, owner, vaultDomain.ActionView),
	}

	f.folderRepo.On("Get", mock.Anything, folder.ID).Return(folder, nil)
	f.accessLog.On("ListByResource", mock.Anything, folder.ID, 0, 10).Return(entries, nil)

	got, err := f.useCase.ListAccessLog(context.Background(), owner, folder.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}
