package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/adminsuite/vault/internal/errors"
	"github.com/adminsuite/vault/internal/testutil"
)

func TestMySQLSecretRecordRepository_Create(t *testing.T) {
	db, mock := testutil.NewSQLMockDB(t)
	repo := NewMySQLSecretRecordRepository(db)

	record := testutil.NewSecretRecord(t, uuid.Must(uuid.NewV7()))

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO secret_records`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), record))
}

func TestMySQLSecretRecordRepository_Get(t *testing.T) {
	db, mock := testutil.NewSQLMockDB(t)
	repo := NewMySQLSecretRecordRepository(db)

	record := testutil.NewSecretRecord(t, uuid.Must(uuid.NewV7()))
	folderID := uuid.Must(uuid.NewV7())
	record.FolderID = &folderID

	tagsJSON, err := json.Marshal(record.Tags)
	require.NoError(t, err)
	envelope, err := record.Secret.Serialize()
	require.NoError(t, err)

	rows := sqlmock.NewRows(secretRecordColumns).AddRow(
		binaryUUID(t, record.ID),
		record.Title,
		record.Username,
		record.URL,
		record.Notes,
		binaryUUID(t, record.OwnerID),
		binaryUUID(t, folderID),
		tagsJSON,
		record.Favorite,
		envelope,
		record.CreatedAt,
		record.UpdatedAt,
		record.LastAccessedAt,
	)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM secret_records`)).
		WithArgs(binaryUUID(t, record.ID)).
		WillReturnRows(rows)

	got, err := repo.Get(context.Background(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.OwnerID, got.OwnerID)
	require.NotNil(t, got.FolderID)
	assert.Equal(t, folderID, *got.FolderID)
	assert.Equal(t, record.Secret, got.Secret)
}

func TestMySQLSecretRecordRepository_Get_NotFound(t *testing.T) {
	db, mock := testutil.NewSQLMockDB(t)
	repo := NewMySQLSecretRecordRepository(db)

	recordID := uuid.Must(uuid.NewV7())

	mock.ExpectQuery(regexp.QuoteMeta(`FROM secret_records`)).
		WithArgs(binaryUUID(t, recordID)).
		WillReturnRows(sqlmock.NewRows(secretRecordColumns))

	got, err := repo.Get(context.Background(), recordID)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMySQLSecretRecordRepository_DetachFolder(t *testing.T) {
	db, mock := testutil.NewSQLMockDB(t)
	repo := NewMySQLSecretRecordRepository(db)

	folderID := uuid.Must(uuid.NewV7())

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE secret_records SET folder_id = NULL WHERE folder_id = ?`)).
		WithArgs(binaryUUID(t, folderID)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.DetachFolder(context.Background(), folderID))
}
