package service

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

func testMasterKey(t *testing.T) []byte {
	t.Helper()

	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func testEntry() *vaultDomain.AccessLogEntry {
	return &vaultDomain.AccessLogEntry{
		ID:           uuid.Must(uuid.NewV7()),
		ResourceID:   uuid.Must(uuid.NewV7()),
		ResourceKind: vaultDomain.SecretRecordKind,
		PrincipalID:  uuid.Must(uuid.NewV7()),
		Action:       vaultDomain.ActionView,
		Metadata:     map[string]any{"remote_addr": "10.1.2.3"},
		CreatedAt:    time.Now().UTC(),
	}
}

func TestAccessLogSigner_SignAndVerify(t *testing.T) {
	signer := NewAccessLogSigner()
	key := testMasterKey(t)
	entry := testEntry()

	sig, err := signer.Sign(key, entry)
	require.NoError(t, err)
	assert.Len(t, sig, 32)

	entry.Signature = sig
	assert.NoError(t, signer.Verify(key, entry))
}

func TestAccessLogSigner_Deterministic(t *testing.T) {
	signer := NewAccessLogSigner()
	key := testMasterKey(t)
	entry := testEntry()

	first, err := signer.Sign(key, entry)
	require.NoError(t, err)
	second, err := signer.Sign(key, entry)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestAccessLogSigner_Verify_Tampered(t *testing.T) {
	signer := NewAccessLogSigner()
	key := testMasterKey(t)
	entry := testEntry()

	sig, err := signer.Sign(key, entry)
	require.NoError(t, err)
	entry.Signature = sig

	t.Run("ChangedAction", func(t *testing.T) {
		tampered := *entry
		tampered.Action = vaultDomain.ActionDelete
		assert.ErrorIs(t, signer.Verify(key, &tampered), vaultDomain.ErrSignatureInvalid)
	})

	t.Run("ChangedPrincipal", func(t *testing.T) {
		tampered := *entry
		tampered.PrincipalID = uuid.Must(uuid.NewV7())
		assert.ErrorIs(t, signer.Verify(key, &tampered), vaultDomain.ErrSignatureInvalid)
	})

	t.Run("ChangedMetadata", func(t *testing.T) {
		tampered := *entry
		tampered.Metadata = map[string]any{"remote_addr": "10.9.9.9"}
		assert.ErrorIs(t, signer.Verify(key, &tampered), vaultDomain.ErrSignatureInvalid)
	})

	t.Run("WrongKey", func(t *testing.T) {
		assert.ErrorIs(t, signer.Verify(testMasterKey(t), entry), vaultDomain.ErrSignatureInvalid)
	})
}

func TestAccessLogSigner_Verify_SurvivesMicrosecondRoundTrip(t *testing.T) {
	signer := NewAccessLogSigner()
	key := testMasterKey(t)

	// TIMESTAMPTZ and DATETIME(6) both drop sub-microsecond precision, so an
	// entry signed with a nanosecond timestamp must still verify after the
	// database truncates it.
	entry := testEntry()
	entry.CreatedAt = time.Date(2026, 8, 31, 12, 0, 0, 123456789, time.UTC)

	sig, err := signer.Sign(key, entry)
	require.NoError(t, err)

	stored := *entry
	stored.CreatedAt = entry.CreatedAt.Truncate(time.Microsecond)
	stored.Signature = sig

	assert.NoError(t, signer.Verify(key, &stored))
}

func TestAccessLogSigner_NilMetadata(t *testing.T) {
	signer := NewAccessLogSigner()
	key := testMasterKey(t)

	entry := testEntry()
	entry.Metadata = nil

	sig, err := signer.Sign(key, entry)
	require.NoError(t, err)

	entry.Signature = sig
	assert.NoError(t, signer.Verify(key, entry))
}
