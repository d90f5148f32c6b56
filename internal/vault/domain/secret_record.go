package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/adminsuite/vault/internal/crypto/domain"
)

// SecretRecord is one stored credential: an encrypted secret value plus the
// metadata the vault UI lists and filters on.
//
// The secret value only ever exists at rest as an EncryptedSecret; Plaintext
// is populated in memory by the read path after a successful authorization
// and decryption, and is never persisted.
type SecretRecord struct {
	// ID is the unique identifier of the record.
	ID uuid.UUID
	// Title is the display name of the entry.
	Title string
	// Username is the account name stored alongside the secret.
	Username string
	// URL is the address the credential belongs to.
	URL string
	// Notes is free-form text attached to the entry.
	Notes string
	// OwnerID is the principal that created and owns the record.
	OwnerID uuid.UUID
	// FolderID references the containing folder (nil when the record is loose).
	FolderID *uuid.UUID
	// Tags are free-form labels for filtering.
	Tags []string
	// Favorite marks the entry as pinned in list views.
	Favorite bool
	// Secret is the encrypted value with its per-record salt, IV, and auth tag.
	Secret cryptoDomain.EncryptedSecret
	// Plaintext holds the decrypted value in memory only; never persisted.
	Plaintext string `json:"-"`
	// CreatedAt is the UTC timestamp when the record was created.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last mutation.
	UpdatedAt time.Time
	// LastAccessedAt is the UTC timestamp of the last successful read (nil if never read).
	LastAccessedAt *time.Time
}

// ResourceID returns the record id for authorization decisions.
func (s *SecretRecord) ResourceID() uuid.UUID { return s.ID }

// ResourceOwnerID returns the owning principal for authorization decisions.
func (s *SecretRecord) ResourceOwnerID() uuid.UUID { return s.OwnerID }

// Kind returns SecretRecordKind.
func (s *SecretRecord) Kind() ResourceKind { return SecretRecordKind }
