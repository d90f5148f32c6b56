package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/adminsuite/vault/internal/database"
	apperrors "github.com/adminsuite/vault/internal/errors"
	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

// PostgreSQLFolderRepository implements Folder persistence for PostgreSQL.
type PostgreSQLFolderRepository struct {
	db *sql.DB
}

// Create inserts a new folder into the PostgreSQL database.
func (p *PostgreSQLFolderRepository) Create(ctx context.Context, folder *vaultDomain.Folder) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO folders (id, name, owner_id, parent_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := querier.ExecContext(
		ctx,
		query,
		folder.ID,
		folder.Name,
		folder.OwnerID,
		folder.ParentID,
		folder.CreatedAt,
		folder.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create folder")
	}
	return nil
}

// Get retrieves a folder by ID from the PostgreSQL database.
func (p *PostgreSQLFolderRepository) Get(ctx context.Context, folderID uuid.UUID) (*vaultDomain.Folder, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, name, owner_id, parent_id, created_at, updated_at
			  FROM folders
			  WHERE id = $1`

	var folder vaultDomain.Folder
	err := querier.QueryRowContext(ctx, query, folderID).Scan(
		&folder.ID,
		&folder.Name,
		&folder.OwnerID,
		&folder.ParentID,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get folder")
	}

	return &folder, nil
}

// Update modifies an existing folder in the PostgreSQL database.
func (p *PostgreSQLFolderRepository) Update(ctx context.Context, folder *vaultDomain.Folder) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE folders
			  SET name = $1,
			  	  parent_id = $2,
				  updated_at = $3
			  WHERE id = $4`

	_, err := querier.ExecContext(
		ctx,
		query,
		folder.Name,
		folder.ParentID,
		folder.UpdatedAt,
		folder.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update folder")
	}

	return nil
}

// Delete removes a folder from the PostgreSQL database.
func (p *PostgreSQLFolderRepository) Delete(ctx context.Context, folderID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM folders WHERE id = $1`

	_, err := querier.ExecContext(ctx, query, folderID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete folder")
	}

	return nil
}

// ListForPrincipal retrieves folders the principal owns or has a share grant
// on, newest first, with pagination.
func (p *PostgreSQLFolderRepository) ListForPrincipal(
	ctx context.Context,
	principalID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Folder, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT f.id, f.name, f.owner_id, f.parent_id, f.created_at, f.updated_at
			  FROM folders f
			  WHERE f.owner_id = $1
			     OR EXISTS (
			        SELECT 1 FROM share_grants sg
			        WHERE sg.resource_id = f.id AND sg.grantee_id = $1
			     )
			  ORDER BY f.id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, principalID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list folders")
	}
	defer func() {
		_ = rows.Close()
	}()

	folders := make([]*vaultDomain.Folder, 0)
	for rows.Next() {
		var folder vaultDomain.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.Name,
			&folder.OwnerID,
			&folder.ParentID,
			&folder.CreatedAt,
			&folder.UpdatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan folder")
		}
		folders = append(folders, &folder)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate folders")
	}

	return folders, nil
}

// NewPostgreSQLFolderRepository creates a new PostgreSQL Folder repository.
func NewPostgreSQLFolderRepository(db *sql.DB) *PostgreSQLFolderRepository {
	return &PostgreSQLFolderRepository{db: db}
}
