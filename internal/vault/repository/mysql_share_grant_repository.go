package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/adminsuite/vault/internal/database"
	apperrors "github.com/adminsuite/vault/internal/errors"
	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

// MySQLShareGrantRepository implements ShareGrant persistence for MySQL.
// Uses BINARY(16) for UUID storage with transaction support via database.GetTx().
type MySQLShareGrantRepository struct {
	db *sql.DB
}

// Upsert inserts a share grant or, when one already exists for the same
// resource and grantee, replaces its permissions.
func (m *MySQLShareGrantRepository) Upsert(ctx context.Context, grant *vaultDomain.ShareGrant) error {
	querier := database.GetTx(ctx, m.db)

	id, err := grant.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal share grant id")
	}
	resourceID, err := grant.ResourceID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal share grant resource id")
	}
	granteeID, err := grant.GranteeID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal share grant grantee id")
	}
	grantedBy, err := grant.GrantedBy.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal share grant granted by")
	}

	query := `INSERT INTO share_grants (id, resource_id, resource_kind, grantee_id, granted_by, can_view, can_edit, can_delete, can_share, can_add_secrets, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE
			      granted_by = VALUES(granted_by),
			      can_view = VALUES(can_view),
			      can_edit = VALUES(can_edit),
			      can_delete = VALUES(can_delete),
			      can_share = VALUES(can_share),
			      can_add_secrets = VALUES(can_add_secrets),
			      updated_at = VALUES(updated_at)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		resourceID,
		string(grant.ResourceKind),
		granteeID,
		grantedBy,
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
func (m *MySQLShareGrantRepository) Get(
	ctx context.Context,
	resourceID, granteeID uuid.UUID,
) (*vaultDomain.ShareGrant, error) {
	querier := database.GetTx(ctx, m.db)

	resource, err := resourceID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal share grant resource id")
	}
	grantee, err := granteeID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal share grant grantee id")
	}

	query := `SELECT id, resource_id, resource_kind, grantee_id, granted_by, can_view, can_edit, can_delete, can_share, can_add_secrets, created_at, updated_at
			  FROM share_grants
			  WHERE resource_id = ? AND grantee_id = ?`

	grant, err := scanMySQLShareGrant(querier.QueryRowContext(ctx, query, resource, grantee))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get share grant")
	}

	return grant, nil
}

// ListByResource retrieves every share grant attached to a resource.
func (m *MySQLShareGrantRepository) ListByResource(
	ctx context.Context,
	resourceID uuid.UUID,
) ([]*vaultDomain.ShareGrant, error) {
	querier := database.GetTx(ctx, m.db)

	resource, err := resourceID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal share grant resource id")
	}

	query := `SELECT id, resource_id, resource_kind, grantee_id, granted_by, can_view, can_edit, can_delete, can_share, can_add_secrets, created_at, updated_at
			  FROM share_grants
			  WHERE resource_id = ?
			  ORDER BY id`

	rows, err := querier.QueryContext(ctx, query, resource)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list share grants")
	}
	defer func() {
		_ = rows.Close()
	}()

	grants := make([]*vaultDomain.ShareGrant, 0)
	for rows.Next() {
		grant, err := scanMySQLShareGrant(rows)
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
func (m *MySQLShareGrantRepository) Delete(ctx context.Context, resourceID, granteeID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	resource, err := resourceID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal share grant resource id")
	}
	grantee, err := granteeID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal share grant grantee id")
	}

	query := `DELETE FROM share_grants WHERE resource_id = ? AND grantee_id = ?`

	result, err := querier.ExecContext(ctx, query, resource, grantee)
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
func (m *MySQLShareGrantRepository) DeleteByResource(ctx context.Context, resourceID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	resource, err := resourceID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal share grant resource id")
	}

	query := `DELETE FROM share_grants WHERE resource_id = ?`

	_, err = querier.ExecContext(ctx, query, resource)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete share grants for resource")
	}

	return nil
}

func scanMySQLShareGrant(row rowScanner) (*vaultDomain.ShareGrant, error) {
	var grant vaultDomain.ShareGrant
	var id, resourceID, granteeID, grantedBy []byte
	var kind string

	err := row.Scan(
		&id,
		&resourceID,
		&kind,
		&granteeID,
		&grantedBy,
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

	if grant.ID, err = uuid.FromBytes(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal share grant id")
	}
	if grant.ResourceID, err = uuid.FromBytes(resourceID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal share grant resource id")
	}
	if grant.GranteeID, err = uuid.FromBytes(granteeID); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal share grant grantee id")
	}
	if grant.GrantedBy, err = uuid.FromBytes(grantedBy); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal share grant granted by")
	}

	grant.ResourceKind = vaultDomain.ResourceKind(kind)
	return &grant, nil
}

// NewMySQLShareGrantRepository creates a new MySQL ShareGrant repository.
func NewMySQLShareGrantRepository(db *sql.DB) *MySQLShareGrantRepository {
	return &MySQLShareGrantRepository{db: db}
}
