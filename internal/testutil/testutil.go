// Package testutil provides shared helpers for tests: an sqlmock-backed
// database handle and fixture builders for vault domain entities.
package testutil

import (
	"crypto/rand"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/adminsuite/vault/internal/crypto/domain"
	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

// NewSQLMockDB creates an sqlmock-backed *sql.DB. The handle is closed and
// the expectations are checked when the test finishes.
func NewSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return db, mock
}

// RandomBytes returns n cryptographically random bytes.
func RandomBytes(t *testing.T, n int) []byte {
	t.Helper()

	b := make([]byte, n)
	_, err := rand.Read(b)
	require.NoError(t, err)
	return b
}

// NewEncryptedSecret builds a structurally valid encrypted envelope with
// random contents. The ciphertext does not decrypt to anything.
func NewEncryptedSecret(t *testing.T) cryptoDomain.EncryptedSecret {
	t.Helper()

	return cryptoDomain.EncryptedSecret{
		Ciphertext: RandomBytes(t, 24),
		IV:         RandomBytes(t, cryptoDomain.IVSize),
		Salt:       RandomBytes(t, cryptoDomain.SaltSize),
		AuthTag:    RandomBytes(t, cryptoDomain.AuthTagSize),
	}
}

// NewSecretRecord builds a secret record owned by ownerID with a valid
// encrypted envelope and both timestamps set.
func NewSecretRecord(t *testing.T, ownerID uuid.UUID) *vaultDomain.SecretRecord {
	t.Helper()

	now := time.Now().UTC()
	return &vaultDomain.SecretRecord{
		ID:        uuid.Must(uuid.NewV7()),
		Title:     "staging db password",
		Username:  "admin",
		URL:       "https://db.staging.example.com",
		Notes:     "rotated quarterly",
		OwnerID:   ownerID,
		Tags:      []string{"database", "staging"},
		Secret:    NewEncryptedSecret(t),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewFolder builds a folder owned by ownerID.
func NewFolder(t *testing.T, ownerID uuid.UUID) *vaultDomain.Folder {
	t.Helper()

	now := time.Now().UTC()
	return &vaultDomain.Folder{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      "infrastructure",
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewShareGrant builds a share grant from the resource owner to granteeID.
func NewShareGrant(
	t *testing.T,
	resource vaultDomain.Resource,
	granteeID uuid.UUID,
	perms vaultDomain.PermissionSet,
) *vaultDomain.ShareGrant {
	t.Helper()

	now := time.Now().UTC()
	return &vaultDomain.ShareGrant{
		ID:           uuid.Must(uuid.NewV7()),
		ResourceID:   resource.ResourceID(),
		ResourceKind: resource.Kind(),
		GranteeID:    granteeID,
		GrantedBy:    resource.ResourceOwnerID(),
		Permissions:  perms,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewAccessLogEntry builds an unsigned access log entry.
func NewAccessLogEntry(
	t *testing.T,
	resource vaultDomain.Resource,
	principalID uuid.UUID,
	action vaultDomain.Action,
) *vaultDomain.AccessLogEntry {
	t.Helper()

	return &vaultDomain.AccessLogEntry{
		ID:           uuid.Must(uuid.NewV7()),
		ResourceID:   resource.ResourceID(),
		ResourceKind: resource.Kind(),
		PrincipalID:  principalID,
		Action:       action,
		Metadata:     map[string]any{"remote_addr": "192.0.2.10"},
		CreatedAt:    time.Now().UTC(),
	}
}
