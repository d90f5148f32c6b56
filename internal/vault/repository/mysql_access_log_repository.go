package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/adminsuite/vault/internal/database"
	apperrors "github.com/adminsuite/vault/internal/errors"
	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

// MySQLAccessLogRepository implements AccessLogEntry persistence for MySQL.
// Uses BINARY(16) for UUID storage; the table is append-only.
type MySQLAccessLogRepository struct {
	db *sql.DB
}

// Create inserts a new access log entry. Nil metadata is stored as NULL.
func (m *MySQLAccessLogRepository) Create(ctx context.Context, entry *vaultDomain.AccessLogEntry) error {
	querier := database.GetTx(ctx, m.db)

	var metadataJSON []byte
	var err error
	if entry.Metadata != nil {
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal access log metadata")
		}
	}

	id, err := entry.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal access log id")
	}
	resourceID, err := entry.ResourceID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal access log resource id")
	}
	principalID, err := entry.PrincipalID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal access log principal id")
	}

	query := `INSERT INTO access_log_entries (id, resource_id, resource_kind, principal_id, action, metadata, signature, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
		resourceID,
		string(entry.ResourceKind),
		principalID,
		string(entry.Action),
		metadataJSON,
		entry.Signature,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create access log entry")
	}

	return nil
}

// ListByResource retrieves access log entries for a resource, newest first,
// with pagination.
func (m *MySQLAccessLogRepository) ListByResource(
	ctx context.Context,
	resourceID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.AccessLogEntry, error) {
	querier := database.GetTx(ctx, m.db)

	resource, err := resourceID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal access log resource id")
	}

	query := `SELECT id, resource_id, resource_kind, principal_id, action, metadata, signature, created_at
			  FROM access_log_entries
			  WHERE resource_id = ?
			  ORDER BY id DESC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, resource, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access log entries")
	}
	return collectMySQLAccessLogEntries(rows)
}

// List retrieves access log entries across all resources, oldest first, with
// pagination. Used by the signature verification sweep.
func (m *MySQLAccessLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*vaultDomain.AccessLogEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, resource_id, resource_kind, principal_id, action, metadata, signature, created_at
			  FROM access_log_entries
			  ORDER BY id
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access log entries")
	}
	return collectMySQLAccessLogEntries(rows)
}

// DeleteByResource removes every access log entry for a resource.
func (m *MySQLAccessLogRepository) DeleteByResource(ctx context.Context, resourceID uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	resource, err := resourceID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal access log resource id")
	}

	query := `DELETE FROM access_log_entries WHERE resource_id = ?`

	_, err = querier.ExecContext(ctx, query, resource)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete access log entries for resource")
	}

	return nil
}

// CountOlderThan returns the number of entries created before the cutoff.
func (m *MySQLAccessLogRepository) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT COUNT(*) FROM access_log_entries WHERE created_at < ?`

	var count int64
	if err := querier.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count old access log entries")
	}

	return count, nil
}

// DeleteOlderThan removes entries created before the cutoff and returns how
// many were removed.
func (m *MySQLAccessLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM access_log_entries WHERE created_at < ?`

	result, err := querier.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete old access log entries")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted access log entries")
	}

	return affected, nil
}

func collectMySQLAccessLogEntries(rows *sql.Rows) ([]*vaultDomain.AccessLogEntry, error) {
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*vaultDomain.AccessLogEntry, 0)
	for rows.Next() {
		var entry vaultDomain.AccessLogEntry
		var id, resourceID, principalID []byte
		var kind, action string
		var metadataJSON []byte

		err := rows.Scan(
			&id,
			&resourceID,
			&kind,
			&principalID,
			&action,
			&metadataJSON,
			&entry.Signature,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access log entry")
		}

		if entry.ID, err = uuid.FromBytes(id); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal access log id")
		}
		if entry.ResourceID, err = uuid.FromBytes(resourceID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal access log resource id")
		}
		if entry.PrincipalID, err = uuid.FromBytes(principalID); err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal access log principal id")
		}

		entry.ResourceKind = vaultDomain.ResourceKind(kind)
		entry.Action = vaultDomain.Action(action)

		if metadataJSON != nil {
			if err := json.Unmarshal(metadataJSON, &entry.Metadata); err != nil {
				return nil, apperrors.Wrap(err, "failed to unmarshal access log metadata")
			}
		}

		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate access log entries")
	}

	return entries, nil
}

// NewMySQLAccessLogRepository creates a new MySQL AccessLog repository.
func NewMySQLAccessLogRepository(db *sql.DB) *MySQLAccessLogRepository {
	return &MySQLAccessLogRepository{db: db}
}
