package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/adminsuite/vault/internal/database"
	apperrors "github.com/adminsuite/vault/internal/errors"
	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

// MySQLSecretRecordRepository implements SecretRecord persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLSecretRecordRepository struct {
	db *sql.DB
}

// Create inserts a new secret record into the MySQL database.
func (m *MySQLSecretRecordRepository) Create(ctx context.Context, record *vaultDomain.SecretRecord) error {
	querier := database.GetTx(ctx, m.db)

	tagsJSON, err := marshalTags(record.Tags)
	if err != nil {
		return err
	}
	envelope, err := record.Secret.Serialize()
	if err != nil {
		return apperrors.Wrap(err, "failed to serialize secret envelope")
	}

	id, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret record id")
	}
	ownerID, err := record.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret record owner id")
	}
	folderID, err := marshalNullableUUID(record.FolderID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret record folder id")
	}

	query := `INSERT INTO secret_records (id, title, username, url, notes, owner_id, folder_id, tags, favorite, secret, created_at, updated_at, last_accessed_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		record.Title,
		record.Username,
		record.URL,
		record.Notes,
		ownerID,
		folderID,
		tagsJSON,
		record.Favorite,
		envelope,
		record.CreatedAt,
		record.UpdatedAt,
		record.LastAccessedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create secret record")
	}
	return nil
}

// Get retrieves a secret record by ID from the MySQL database.
func (m *MySQLSecretRecordRepository) Get(
	ctx context.Context,
	recordID uuid.UUID,
) (*vaultDomain.SecretRecord, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := recordID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal secret record id")
	}

	query := `SELECT id, title, username, url, notes, owner_id, folder_id, tags, favorite, secret, created_at, updated_at, last_accessed_at
			  FROM secret_records
			  WHERE id = ?`

	record, err := scanMySQLSecretRecord(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret record")
	}

	return record, nil
}

// Update modifies an existing secret record in the MySQL database.
func (m *MySQLSecretRecordRepository) Update(ctx context.Context, record *vaultDomain.SecretRecord) error {
	querier := database.GetTx(ctx, m.db)

	tagsJSON, err := marshalTags(record.Tags)
	if err != nil {
		return err
	}
	envelope, err := record.Secret.Serialize()
	if err != nil {
		return apperrors.Wrap(err, "failed to serialize secret envelope")
	}

	id, err := record.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret record id")
	}
	folderID, err := marshalNullableUUID(record.FolderID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret record folder id")
	}

	query := `UPDATE secret_records
			  SET title = ?,
			  	  username = ?,
				  url = ?,
				  notes = ?,
				  folder_id = ?,
				  tags = ?,
				  favorite = ?,
				  secret = ?,
				  updated_at = ?
			  WHERE id = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		record.Title,
		record.Username,
		record.URL,
		record.Notes,
		folderID,
		tagsJSON,
		record.Favorite,
		envelope,
		record.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret record")
	}

	return nil
}

// Delete removes a secret record from the MySQL database.
func (m *MySQLSecretRecordRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := recordID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret record id")
	}

	query := `DELETE FROM secret_records WHERE id = ?`

	_, err = querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret record")
	}

	return nil
}

// ListForPrincipal retrieves secret records the principal owns or has a share
// grant on, newest first, with pagination.
func (m *MySQLSecretRecordRepository) ListForPrincipal(
	ctx context.Context,
	principalID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.SecretRecord, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := principalID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal principal id")
	}

	query := `SELECT sr.id, sr.title, sr.username, sr.url, sr.notes, sr.owner_id, sr.folder_id, sr.tags, sr.favorite, sr.secret, sr.created_at, sr.updated_at, sr.last_accessed_at
			  FROM secret_records sr
			  WHERE sr.owner_id = ?
			     OR EXISTS (
			        SELECT 1 FROM share_grants sg
			        WHERE sg.resource_id = sr.id AND sg.grantee_id = ?
			     )
			  ORDER BY sr.id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, id, id, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secret records")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*vaultDomain.SecretRecord, 0)
	for rows.Next() {
		record, err := scanMySQLSecretRecord(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret record")
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secret records")
	}

	return records, nil
}

// TouchLastAccessed stamps the record's last accessed time.
func (m *MySQLSecretRecordRepository) TouchLastAccessed(
	ctx context.Context,
	recordID uuid.UUID,
	accessedAt time.Time,
) error {
	querier := database.GetTx(ctx, m.db)

	id, err := recordID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal secret record id")
	}

	query := `UPDATE secret_records SET last_accessed_at = ? WHERE id = ?`

	_, err = querier.ExecContext(ctx, query, accessedAt, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to touch secret record")
	}

	return nil
}

// DetachFolder clears the folder reference on every record inside the folder.
func (m *MySQLSecretRecordRepository) DetachFolder(ctx context.Context, folderID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := folderID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal folder id")
	}

	query := `UPDATE secret_records SET folder_id = NULL WHERE folder_id = ?`

	_, err = querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to detach secret records from folder")
	}

	return nil
}

func scanMySQLSecretRecord(row rowScanner) (*vaultDomain.SecretRecord, error) {
	var record vaultDomain.SecretRecord
	var id, ownerID, folderID []byte
	var tagsJSON []byte
	var envelope string

	err := row.Scan(
		&id,
		&record.Title,
		&record.Username,
		&record.URL,
		&record.Notes,
		&ownerID,
		&folderID,
		&tagsJSON,
		&record.Favorite,
		&envelope,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.LastAccessedAt,
	)
	if err != nil {
		return nil, err
	}

	if record.ID, err = uuid.FromBytes(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal secret record id")
	}
	if record.OwnerID, err = uuid.FromBytes(ownerID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal secret record owner id")
	}
	if record.FolderID, err = unmarshalNullableUUID(folderID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal secret record folder id")
	}

	if err := decodeSecretRecordFields(&record, tagsJSON, envelope); err != nil {
		return nil, err
	}

	return &record, nil
}

// marshalNullableUUID converts an optional UUID to BINARY(16) bytes, mapping
// nil to database NULL.
func marshalNullableUUID(id *uuid.UUID) ([]byte, error) {
	if id == nil {
		return nil, nil
	}
	return id.MarshalBinary()
}

func unmarshalNullableUUID(data []byte) (*uuid.UUID, error) {
	if data == nil {
		return nil, nil
	}
	id, err := uuid.FromBytes(data)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// NewMySQLSecretRecordRepository creates a new MySQL SecretRecord repository.
func NewMySQLSecretRecordRepository(db *sql.DB) *MySQLSecretRecordRepository {
	return &MySQLSecretRecordRepository{db: db}
}
