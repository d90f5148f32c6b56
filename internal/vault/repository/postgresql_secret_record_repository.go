// Package repository implements data persistence for vault entities.
//
// Provides PostgreSQL and MySQL implementations with transaction support via
// database.GetTx(). PostgreSQL uses native UUID types, MySQL uses BINARY(16).
// Encrypted envelopes are stored in their serialized form and tags as JSON.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/adminsuite/vault/internal/crypto/domain"
	"github.com/adminsuite/vault/internal/database"
	apperrors "github.com/adminsuite/vault/internal/errors"
	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

// PostgreSQLSecretRecordRepository implements SecretRecord persistence for PostgreSQL.
type PostgreSQLSecretRecordRepository struct {
	db *sql.DB
}

// Create inserts a new secret record into the PostgreSQL database.
func (p *PostgreSQLSecretRecordRepository) Create(ctx context.Context, record *vaultDomain.SecretRecord) error {
	querier := database.GetTx(ctx, p.db)

	tagsJSON, err := marshalTags(record.Tags)
	if err != nil {
		return err
	}
	envelope, err := record.Secret.Serialize()
	if err != nil {
		return apperrors.Wrap(err, "failed to serialize secret envelope")
	}

	query := `INSERT INTO secret_records (id, title, username, url, notes, owner_id, folder_id, tags, favorite, secret, created_at, updated_at, last_accessed_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.Title,
		record.Username,
		record.URL,
		record.Notes,
		record.OwnerID,
		record.FolderID,
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

// Get retrieves a secret record by ID from the PostgreSQL database.
func (p *PostgreSQLSecretRecordRepository) Get(
	ctx context.Context,
	recordID uuid.UUID,
) (*vaultDomain.SecretRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, title, username, url, notes, owner_id, folder_id, tags, favorite, secret, created_at, updated_at, last_accessed_at
			  FROM secret_records
			  WHERE id = $1`

	var record vaultDomain.SecretRecord
	var tagsJSON []byte
	var envelope string
	err := querier.QueryRowContext(ctx, query, recordID).Scan(
		&record.ID,
		&record.Title,
		&record.Username,
		&record.URL,
		&record.Notes,
		&record.OwnerID,
		&record.FolderID,
		&tagsJSON,
		&record.Favorite,
		&envelope,
		&record.CreatedAt,
		&record.UpdatedAt,
		&record.LastAccessedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get secret record")
	}

	if err := decodeSecretRecordFields(&record, tagsJSON, envelope); err != nil {
		return nil, err
	}

	return &record, nil
}

// Update modifies an existing secret record in the PostgreSQL database.
func (p *PostgreSQLSecretRecordRepository) Update(ctx context.Context, record *vaultDomain.SecretRecord) error {
	querier := database.GetTx(ctx, p.db)

	tagsJSON, err := marshalTags(record.Tags)
	if err != nil {
		return err
	}
	envelope, err := record.Secret.Serialize()
	if err != nil {
		return apperrors.Wrap(err, "failed to serialize secret envelope")
	}

	query := `UPDATE secret_records
			  SET title = $1,
			  	  username = $2,
				  url = $3,
				  notes = $4,
				  folder_id = $5,
				  tags = $6,
				  favorite = $7,
				  secret = $8,
				  updated_at = $9
			  WHERE id = $10`

	_, err = querier.ExecContext(
		ctx,
		query,
		record.Title,
		record.Username,
		record.URL,
		record.Notes,
		record.FolderID,
		tagsJSON,
		record.Favorite,
		envelope,
		record.UpdatedAt,
		record.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update secret record")
	}

	return nil
}

// Delete removes a secret record from the PostgreSQL database.
func (p *PostgreSQLSecretRecordRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM secret_records WHERE id = $1`

	_, err := querier.ExecContext(ctx, query, recordID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete secret record")
	}

	return nil
}

// ListForPrincipal retrieves secret records the principal owns or has a share
// grant on, newest first, with pagination.
func (p *PostgreSQLSecretRecordRepository) ListForPrincipal(
	ctx context.Context,
	principalID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.SecretRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT sr.id, sr.title, sr.username, sr.url, sr.notes, sr.owner_id, sr.folder_id, sr.tags, sr.favorite, sr.secret, sr.created_at, sr.updated_at, sr.last_accessed_at
			  FROM secret_records sr
			  WHERE sr.owner_id = $1
			     OR EXISTS (
			        SELECT 1 FROM share_grants sg
			        WHERE sg.resource_id = sr.id AND sg.grantee_id = $1
			     )
			  ORDER BY sr.id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, principalID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list secret records")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*vaultDomain.SecretRecord, 0)
	for rows.Next() {
		var record vaultDomain.SecretRecord
		var tagsJSON []byte
		var envelope string

		err := rows.Scan(
			&record.ID,
			&record.Title,
			&record.Username,
			&record.URL,
			&record.Notes,
			&record.OwnerID,
			&record.FolderID,
			&tagsJSON,
			&record.Favorite,
			&envelope,
			&record.CreatedAt,
			&record.UpdatedAt,
			&record.LastAccessedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan secret record")
		}

		if err := decodeSecretRecordFields(&record, tagsJSON, envelope); err != nil {
			return nil, err
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate secret records")
	}

	return records, nil
}

// TouchLastAccessed stamps the record's last accessed time.
func (p *PostgreSQLSecretRecordRepository) TouchLastAccessed(
	ctx context.Context,
	recordID uuid.UUID,
	accessedAt time.Time,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE secret_records SET last_accessed_at = $1 WHERE id = $2`

	_, err := querier.ExecContext(ctx, query, accessedAt, recordID)
	if err != nil {
		return apperrors.Wrap(err, "failed to touch secret record")
	}

	return nil
}

// DetachFolder clears the folder reference on every record inside the folder.
// Used when a folder is deleted so its records survive as loose records.
func (p *PostgreSQLSecretRecordRepository) DetachFolder(ctx context.Context, folderID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE secret_records SET folder_id = NULL WHERE folder_id = $1`

	_, err := querier.ExecContext(ctx, query, folderID)
	if err != nil {
		return apperrors.Wrap(err, "failed to detach secret records from folder")
	}

	return nil
}

// marshalTags encodes tags as JSON for storage. Nil tags become database NULL.
func marshalTags(tags []string) ([]byte, error) {
	if tags == nil {
		return nil, nil
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal secret record tags")
	}
	return tagsJSON, nil
}

// decodeSecretRecordFields restores the tags and the encrypted envelope from
// their stored representations.
func decodeSecretRecordFields(record *vaultDomain.SecretRecord, tagsJSON []byte, envelope string) error {
	if tagsJSON != nil {
		if err := json.Unmarshal(tagsJSON, &record.Tags); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal secret record tags")
		}
	}

	secret, err := cryptoDomain.DeserializeSecret(envelope)
	if err != nil {
		return apperrors.Wrap(err, "failed to deserialize secret envelope")
	}
	record.Secret = secret

	return nil
}

// NewPostgreSQLSecretRecordRepository creates a new PostgreSQL SecretRecord repository.
func NewPostgreSQLSecretRecordRepository(db *sql.DB) *PostgreSQLSecretRecordRepository {
	return &PostgreSQLSecretRecordRepository{db: db}
}
