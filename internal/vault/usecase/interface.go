// Package usecase implements business logic orchestration for the vault.
// Use cases coordinate the authorizer, the secret cipher, repositories and the
// access log so that every operation is authorized before any cryptographic
// or persistence work happens.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

// SecretRecordRepository defines the interface for SecretRecord persistence operations.
type SecretRecordRepository interface {
	Create(ctx context.Context, record *vaultDomain.SecretRecord) error
	Get(ctx context.Context, recordID uuid.UUID) (*vaultDomain.SecretRecord, error)
	Update(ctx context.Context, record *vaultDomain.SecretRecord) error
	Delete(ctx context.Context, recordID uuid.UUID) error
	ListForPrincipal(ctx context.Context, principalID uuid.UUID, offset, limit int) ([]*vaultDomain.SecretRecord, error)
	TouchLastAccessed(ctx context.Context, recordID uuid.UUID, accessedAt time.Time) error
	DetachFolder(ctx context.Context, folderID uuid.UUID) error
}

// FolderRepository defines the interface for Folder persistence operations.
type FolderRepository interface {
	Create(ctx context.Context, folder *vaultDomain.Folder) error
	Get(ctx context.Context, folderID uuid.UUID) (*vaultDomain.Folder, error)
	Update(ctx context.Context, folder *vaultDomain.Folder) error
	Delete(ctx context.Context, folderID uuid.UUID) error
	ListForPrincipal(ctx context.Context, principalID uuid.UUID, offset, limit int) ([]*vaultDomain.Folder, error)
}

// ShareGrantRepository defines the interface for ShareGrant persistence operations.
type ShareGrantRepository interface {
	Upsert(ctx context.Context, grant *vaultDomain.ShareGrant) error
	Get(ctx context.Context, resourceID, granteeID uuid.UUID) (*vaultDomain.ShareGrant, error)
	ListByResource(ctx context.Context, resourceID uuid.UUID) ([]*vaultDomain.ShareGrant, error)
	Delete(ctx context.Context, resourceID, granteeID uuid.UUID) error
	DeleteByResource(ctx context.Context, resourceID uuid.UUID) error
}

// AccessLogRepository defines the interface for AccessLogEntry persistence operations.
type AccessLogRepository interface {
	Create(ctx context.Context, entry *vaultDomain.AccessLogEntry) error
	ListByResource(ctx context.Context, resourceID uuid.UUID, offset, limit int) ([]*vaultDomain.AccessLogEntry, error)
	List(ctx context.Context, offset, limit int) ([]*vaultDomain.AccessLogEntry, error)
	DeleteByResource(ctx context.Context, resourceID uuid.UUID) error
	CountOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// SecretRecordUseCase defines the interface for secret record business logic.
// Every method authorizes the principal before doing any cipher or
// persistence work.
type SecretRecordUseCase interface {
	// Create encrypts the value and stores a new secret record. When the
	// record is created inside a folder, the caller needs the addSecrets
	// capability on that folder and the folder's share grants are copied
	// onto the new record, restricted to record capabilities.
	Create(ctx context.Context, input *CreateSecretRecordInput) (*vaultDomain.SecretRecord, error)

	// Get retrieves and decrypts a secret record.
	//
	// Security Note: The returned record carries the decrypted value in the
	// Plaintext field. Callers must not retain it longer than needed.
	Get(ctx context.Context, principalID, recordID uuid.UUID) (*vaultDomain.SecretRecord, error)

	// Update applies a partial update. A new value is re-encrypted under a
	// fresh salt and IV.
	Update(ctx context.Context, principalID, recordID uuid.UUID, input *UpdateSecretRecordInput) (*vaultDomain.SecretRecord, error)

	// Delete removes the record together with its share grants and access
	// log entries in one transaction. Only the owner (or a super-admin) may
	// delete a secret record.
	Delete(ctx context.Context, principalID, recordID uuid.UUID) error

	// Share grants capabilities on the record to another principal. Sharing
	// twice with the same grantee replaces the previous permissions.
	Share(ctx context.Context, principalID, recordID, granteeID uuid.UUID, perms vaultDomain.PermissionSet) (*vaultDomain.ShareGrant, error)

	// Unshare revokes the grantee's access to the record.
	Unshare(ctx context.Context, principalID, recordID, granteeID uuid.UUID) error

	// List returns the records the principal owns or has been granted access
	// to. Values stay encrypted.
	List(ctx context.Context, principalID uuid.UUID, offset, limit int) ([]*vaultDomain.SecretRecord, error)

	// ListAccessLog returns the record's access history, newest first.
	ListAccessLog(ctx context.Context, principalID, recordID uuid.UUID, offset, limit int) ([]*vaultDomain.AccessLogEntry, error)
}

// FolderUseCase defines the interface for folder business logic.
type FolderUseCase interface {
	// Create stores a new folder. Creating inside a parent folder requires
	// the edit capability on the parent.
	Create(ctx context.Context, input *CreateFolderInput) (*vaultDomain.Folder, error)

	// Get retrieves a folder.
	Get(ctx context.Context, principalID, folderID uuid.UUID) (*vaultDomain.Folder, error)

	// Update renames a folder.
	Update(ctx context.Context, principalID, folderID uuid.UUID, input *UpdateFolderInput) (*vaultDomain.Folder, error)

	// Delete removes the folder, its share grants and its access log entries
	// in one transaction. Records inside the folder are detached, not
	// deleted.
	Delete(ctx context.Context, principalID, folderID uuid.UUID) error

	// Share grants capabilities on the folder to another principal.
	Share(ctx context.Context, principalID, folderID, granteeID uuid.UUID, perms vaultDomain.PermissionSet) (*vaultDomain.ShareGrant, error)

	// Unshare revokes the grantee's access to the folder. Grants already
	// copied onto records inside the folder are left in place.
	Unshare(ctx context.Context, principalID, folderID, granteeID uuid.UUID) error

	// List returns the folders the principal owns or has been granted access to.
	List(ctx context.Context, principalID uuid.UUID, offset, limit int) ([]*vaultDomain.Folder, error)

	// ListAccessLog returns the folder's access history, newest first.
	ListAccessLog(ctx context.Context, principalID, folderID uuid.UUID, offset, limit int) ([]*vaultDomain.AccessLogEntry, error)
}

// AccessLogUseCase defines the interface for the signed audit trail.
type AccessLogUseCase interface {
	// Record signs and stores one access log entry. Request metadata
	// attached to the context via WithAccessMetadata is included and
	// covered by the signature.
	Record(ctx context.Context, resource vaultDomain.Resource, principalID uuid.UUID, action vaultDomain.Action) error

	// ListByResource returns a resource's entries, newest first. Callers
	// are responsible for authorizing access to the resource.
	ListByResource(ctx context.Context, resourceID uuid.UUID, offset, limit int) ([]*vaultDomain.AccessLogEntry, error)

	// PurgeResource removes a resource's entries. Called in the same
	// transaction that deletes the resource.
	PurgeResource(ctx context.Context, resourceID uuid.UUID) error

	// CleanOlderThan removes entries older than the retention window and
	// returns how many were (or, with dryRun, would be) removed.
	CleanOlderThan(ctx context.Context, retentionDays int, dryRun bool) (int64, error)

	// VerifySignatures recomputes every entry's signature in batches and
	// reports tampered entries.
	VerifySignatures(ctx context.Context, batchSize int) (*vaultDomain.VerificationReport, error)
}
