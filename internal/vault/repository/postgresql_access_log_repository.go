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

// PostgreSQLAccessLogRepository implements AccessLogEntry persistence for PostgreSQL.
// The table is append-only; entries are never updated after insertion.
type PostgreSQLAccessLogRepository struct {
	db *sql.DB
}

// Create inserts a new access log entry. Nil metadata is stored as NULL.
func (p *PostgreSQLAccessLogRepository) Create(ctx context.Context, entry *vaultDomain.AccessLogEntry) error {
	querier := database.GetTx(ctx, p.db)

	var metadataJSON []byte
	var err error
	if entry.Metadata != nil {
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal access log metadata")
		}
	}

	query := `INSERT INTO access_log_entries (id, resource_id, resource_kind, principal_id, action, metadata, signature, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = querier.ExecContext(
		ctx,
		query,
		entry.ID,
		entry.ResourceID,
		string(entry.ResourceKind),
		entry.PrincipalID,
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
func (p *PostgreSQLAccessLogRepository) ListByResource(
	ctx context.Context,
	resourceID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.AccessLogEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, resource_id, resource_kind, principal_id, action, metadata, signature, created_at
			  FROM access_log_entries
			  WHERE resource_id = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`

	rows, err := querier.QueryContext(ctx, query, resourceID, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access log entries")
	}
	return collectAccessLogEntries(rows)
}

// List retrieves access log entries across all resources, oldest first, with
// pagination. Used by the signature verification sweep.
func (p *PostgreSQLAccessLogRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*vaultDomain.AccessLogEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, resource_id, resource_kind, principal_id, action, metadata, signature, created_at
			  FROM access_log_entries
			  ORDER BY id
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list access log entries")
	}
	return collectAccessLogEntries(rows)
}

// DeleteByResource removes every access log entry for a resource. Called in
// the same transaction that deletes the resource itself.
func (p *PostgreSQLAccessLogRepository) DeleteByResource(ctx context.Context, resourceID uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM access_log_entries WHERE resource_id = $1`

	_, err := querier.ExecContext(ctx, query, resourceID)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete access log entries for resource")
	}

	return nil
}

// CountOlderThan returns the number of entries created before the cutoff.
func (p *PostgreSQLAccessLogRepository) CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT COUNT(*) FROM access_log_entries WHERE created_at < $1`

	var count int64
	if err := querier.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
		return 0, apperrors.Wrap(err, "failed to count old access log entries")
	}

	return count, nil
}

// DeleteOlderThan removes entries created before the cutoff and returns how
// many were removed.
func (p *PostgreSQLAccessLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM access_log_entries WHERE created_at < $1`

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

func collectAccessLogEntries(rows *sql.Rows) ([]*vaultDomain.AccessLogEntry, error) {
	defer func() {
		_ = rows.Close()
	}()

	entries := make([]*vaultDomain.AccessLogEntry, 0)
	for rows.Next() {
		var entry vaultDomain.AccessLogEntry
		var kind, action string
		var metadataJSON []byte

		err := rows.Scan(
			&entry.ID,
			&entry.ResourceID,
			&kind,
			&entry.PrincipalID,
			&action,
			&metadataJSON,
			&entry.Signature,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan access log entry")
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

// NewPostgreSQLAccessLogRepository creates a new PostgreSQL AccessLog repository.
func NewPostgreSQLAccessLogRepository(db *sql.DB) *PostgreSQLAccessLogRepository {
	return &PostgreSQLAccessLogRepository{db: db}
}
