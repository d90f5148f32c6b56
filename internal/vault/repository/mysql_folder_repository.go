package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/adminsuite/vault/internal/database"
	apperrors "github.com/adminsuite/vault/internal/errors"
	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

// MySQLFolderRepository implements Folder persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLFolderRepository struct {
	db *sql.DB
}

// Create inserts a new folder into the MySQL database.
func (m *MySQLFolderRepository) Create(ctx context.Context, folder *vaultDomain.Folder) error {
	querier := database.GetTx(ctx, m.db)

	id, err := folder.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal folder id")
	}
	ownerID, err := folder.OwnerID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal folder owner id")
	}
	parentID, err := marshalNullableUUID(folder.ParentID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal folder parent id")
	}

	query := `INSERT INTO folders (id, name, owner_id, parent_id, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		folder.Name,
		ownerID,
		parentID,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create folder")
	}
	return nil
}

// Get retrieves a folder by ID from the MySQL database.
func (m *MySQLFolderRepository) Get(ctx context.Context, folderID uuid.UUID) (*vaultDomain.Folder, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := folderID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal folder id")
	}

	query := `SELECT id, name, owner_id, parent_id, created_at, updated_at
			  FROM folders
			  WHERE id = ?`

	folder, err := scanMySQLFolder(querier.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get folder")
	}

	return folder, nil
}

// Update modifies an existing folder in the MySQL database.
func (m *MySQLFolderRepository) Update(ctx context.Context, folder *vaultDomain.Folder) error {
	querier := database.GetTx(ctx, m.db)

	id, err := folder.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal folder id")
	}
	parentID, err := marshalNullableUUID(folder.ParentID)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal folder parent id")
	}

	query := `UPDATE folders
			  SET name = ?,
			  	  parent_id = ?,
				  updated_at = ?
			  WHERE id = ?`

	_, err = querier.ExecContext(
		ctx,
		query,
		folder.Name,
		parentID,
		folder.UpdatedAt,
		id,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update folder")
	}

	return nil
}

// Delete removes a folder from the MySQL database.
func (m *MySQLFolderRepository) Delete(ctx context.Context, folderID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	id, err := folderID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal folder id")
	}

	query := `DELETE FROM folders WHERE id = ?`

	_, err = querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete folder")
	}

	return nil
}

// ListForPrincipal retrieves folders the principal owns or has a share grant
// on, newest first, with pagination.
func (m *MySQLFolderRepository) ListForPrincipal(
	ctx context.Context,
	principalID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Folder, error) {
	querier := database.GetTx(ctx, m.db)

	id, err := principalID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal principal id")
	}

	query := `SELECT f.id, f.name, f.owner_id, f.parent_id, f.created_at, f.updated_at
			  FROM folders f
			  WHERE f.owner_id = ?
			     OR EXISTS (
			        SELECT 1 FROM share_grants sg
			        WHERE sg.resource_id = f.id AND sg.grantee_id = ?
			     )
			  ORDER BY f.id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, id, id, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list folders")
	}
	defer func() {
		_ = rows.Close()
	}()

	folders := make([]*vaultDomain.Folder, 0)
	for rows.Next() {
		folder, err := scanMySQLFolder(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan folder")
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate folders")
	}

	return folders, nil
}

func scanMySQLFolder(row rowScanner) (*vaultDomain.Folder, error) {
	var folder vaultDomain.Folder
	var id, ownerID, parentID []byte

	err := row.Scan(
		&id,
		&folder.Name,
		&ownerID,
		&parentID,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if folder.ID, err = uuid.FromBytes(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal folder id")
	}
	if folder.OwnerID, err = uuid.FromBytes(ownerID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal folder owner id")
	}
	if folder.ParentID, err = unmarshalNullableUUID(parentID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal folder parent id")
	}

	return &folder, nil
}

// NewMySQLFolderRepository creates a new MySQL Folder repository.
func NewMySQLFolderRepository(db *sql.DB) *MySQLFolderRepository {
	return &MySQLFolderRepository{db: db}
}
