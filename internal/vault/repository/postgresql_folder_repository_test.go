package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/adminsuite/vault/internal/errors"
	"github.com/adminsuite/vault/internal/testutil"
)

var folderColumns = []string{"id", "name", "owner_id", "parent_id", "created_at", "updated_at"}

func TestPostgreSQLFolderRepository_Create(t *testing.T) {
	db, mock := testutil.NewSQLMockDB(t)
	repo := NewPostgreSQLFolderRepository(db)

	folder := testutil.NewFolder(t, uuid.Must(uuid.NewV7()))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO folders`)).
		WithArgs(folder.ID, folder.Name, folder.OwnerID, nil, folder.CreatedAt, folder.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), folder))
}

func TestPostgreSQLFolderRepository_Get(t *testing.T) {
	db, mock := testutil.NewSQLMockDB(t)
	repo := NewPostgreSQLFolderRepository(db)

	folder := testutil.NewFolder(t, uuid.Must(uuid.NewV7()))

	rows := sqlmock.NewRows(folderColumns).AddRow(
		folder.ID.String(),
		folder.Name,
		folder.OwnerID.String(),
		nil,
		folder.CreatedAt,
		folder.UpdatedAt,
	)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM folders`)).
		WithArgs(folder.ID).
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), folder.ID)
	require.NoError(t, err)
	assert.Equal(t, folder.ID, got.ID)
	assert.Equal(t, folder.Name, got.Name)
	assert.Nil(t, got.ParentID)
}

func TestPostgreSQLFolderRepository_Get_NotFound(t *testing.T) {
	db, mock := testutil.NewSQLMockDB(t)
	repo := NewPostgreSQLFolderRepository(db)

	folderID := uuid.Must(uuid.NewV7())

	mock.ExpectQuery(regexp.QuoteMeta(`FROM folders`)).
		WithArgs(folderID).
		WillReturnRows(sqlmock.NewRows(folderColumns))

	got, err := repo.Get(context.Background(), folderID)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPostgreSQLFolderRepository_Update(t *testing.T) {
	db, mock := testutil.NewSQLMockDB(t)
	repo := NewPostgreSQLFolderRepository(db)

	folder := testutil.NewFolder(t, uuid.Must(uuid.NewV7()))
	folder.Name = "renamed"

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE folders`)).
		WithArgs(folder.Name, nil, folder.UpdatedAt, folder.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), folder))
}

func TestPostgreSQLFolderRepository_Delete(t *testing.T) {
	db, mock := testutil.NewSQLMockDB(t)
	repo := NewPostgreSQLFolderRepository(db)

	folderID := uuid.Must(uuid.NewV7())

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM folders WHERE id = $1`)).
		WithArgs(folderID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), folderID))
}

func TestPostgreSQLFolderRepository_ListForPrincipal(t *testing.T) {
	db, mock := testutil.NewSQLMockDB(t)
	repo := NewPostgreSQLFolderRepository(db)

	ownerID := uuid.Must(uuid.NewV7())
	folder := testutil.NewFolder(t, ownerID)

	rows := sqlmock.NewRows(folderColumns).AddRow(
		folder.ID.String(),
		folder.Name,
		folder.OwnerID.String(),
		nil,
		folder.CreatedAt,
		folder.UpdatedAt,
	)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM folders f`)).
		WithArgs(ownerID, 20, 0).
		WillReturnRows(rows)

	folders, err := repo.ListForPrincipal(context.Background(), ownerID, 0, 20)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, folder.ID, folders[0].ID)
}
