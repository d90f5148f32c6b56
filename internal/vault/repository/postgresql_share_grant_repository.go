package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/adminsuite/vault/internal/database"
	apperrors "github.com/adminsuite/vault/internal/errors"
	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

// PostgreSQLShareGrantRepository implements ShareGrant persistence for PostgreSQL.
type PostgreSQLShareGrantRepository struct {
	db *sql.DB
}

// Upsert inserts a share grant or, when one already exists for the same
// resource and grantee, replaces its permissions. Sharing twice with the same
// principal is therefore idempotent at the row level.
func (p *PostgreSQLShareGrantRepository) Upsert(ctx context.Context, grant *vaultDomain.ShareGrant) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO share_grants (id, resource_id, resource_kind, grantee_id, granted_by, can_view, can_edit, can_delete, can_share, can_add_secrets, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			  ON CONFLICT (resource_id, grantee_id) DO UPDATE
			  SET granted_by = EXCLUDED.granted_by,
			      can_view = EXCLUDED.can_view,
			      can_edit = EXCLUDED.can_edit,
			      can_delete = EXCLUDED.can_delete,
			      can_share = EXCLUDED.can_share,
			      can_add_secrets = EXCLUDED.can_add_secrets,
			      updated_at = EXCLUDED.updated_at`

	_, err := querier.ExecContext(
		ctx,
		query,
		grant.ID,
		grant.ResourceID,
		string(grant.ResourceKind),
		grant.GranteeID,
		grant.GrantedBy,
		grant.Permissions.View,
		grant.Permissions.Edit,
		grant.Permissions.Delete,
		grant.Permissions.Share,
		grant.Permissions.AddSecrets,
		grant.CreatedAt,
		grant.UpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to upsert share grant")
	}
	return nil
}

// Get retrieves the share grant for a resource and grantee pair.
func (p *PostgreSQLShareGrantRepository) Get(
	ctx context.Context,
	resourceID, granteeID uuid.UUID,
) (*vaultDomain.ShareGrant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, resource_id, resource_kind, grantee_id, granted_by, can_view, can_edit, can_delete, can_share, can_add_secrets, created_at, updated_at
			  FROM share_grants
			  WHERE resource_id = $1 AND grantee_id = $2`

	grant, err := scanShareGrant(querier.QueryRowContext(ctx, query, resourceID, granteeID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get share grant")
	}

	return grant, nil
}

// ListByResource retrieves every share grant attached to a resource.
func (p *PostgreSQLShareGrantRepository) ListByResource(
	ctx context.Context,
	resourceID uuid.UUID,
) ([]*vaultDomain.ShareGrant, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, resource_id, resource_kind, grantee_id, granted_by, can_view, can_edit, can_delete, can_share, can_add_secrets, created_at, updated_at
			  FROM share_grants
			  WHERE resource_id = $1
			  ORDER BY id`

	rows, err := querier.QueryContext(ctx, query, resourceID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list share grants")
	}
	defer func() {
		_ = rows.Close()
	}()

	grants := make([]*vaultDomain.ShareGrant, 0)
	for rows.Next() {
		grant, err := scanShareGrant(rows)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan share grant")
		}
		grants = append(grants, grant)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate share grants")
	}

	return grants, nil
}

// Delete removes the share grant for a resource and grantee pair.
func (p *PostgreSQLShareGrantRepository) Delete(ctx context.Context, resourceID, granteeID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM share_grants WHERE resource_id = $1 AND grantee_id = $2`

	result, err := querier.ExecContext(ctx, query, resourceID, granteeID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete share grant")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to check share grant deletion")
	}
	if affected == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// DeleteByResource removes every share grant attached to a resource.
func (p *PostgreSQLShareGrantRepository) DeleteByResource(ctx context.Context, resourceID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM share_grants WHERE resource_id = $1`

	_, err := querier.ExecContext(ctx, query, resourceID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete share grants for resource")
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanShareGrant(row rowScanner) (*vaultDomain.ShareGrant, error) {
	var grant vaultDomain.ShareGrant
	var kind string

	err := row.Scan(
		&grant.ID,
		&grant.ResourceID,
		&kind,
		&grant.GranteeID,
		&grant.GrantedBy,
		&grant.Permissions.View,
		&grant.Permissions.Edit,
		&grant.Permissions.Delete,
		&grant.Permissions.Share,
		&grant.Permissions.AddSecrets,
		&grant.CreatedAt,
		&grant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	grant.ResourceKind = vaultDomain.ResourceKind(kind)
	return &grant, nil
}

// NewPostgreSQLShareGrantRepository creates a new PostgreSQL ShareGrant repository.
func NewPostgreSQLShareGrantRepository(db *sql.DB) *PostgreSQLShareGrantRepository {
	return &PostgreSQLShareGrantRepository{db: db}
}
