package domain

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// MasterKey is the process-wide root key for per-record key derivation.
//
// The key is supplied through configuration at startup, read-only afterwards,
// and never mutated at runtime. Key rotation is not supported by this design:
// rotating would require re-encrypting every stored EncryptedSecret.
//
// Fields:
//   - Key: the raw 32-byte master key material
//   - Ephemeral: true when the key was generated at startup because none was
//     configured; data encrypted under an ephemeral key does not survive a restart
type MasterKey struct {
	Key       []byte
	Ephemeral bool
}

// NewMasterKey creates a MasterKey from raw key material.
// The key must be exactly MasterKeySize bytes.
func NewMasterKey(key []byte) (*MasterKey, error) {
	if len(key) != MasterKeySize {
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", ErrInvalidKeySize, MasterKeySize, len(key))
	}
	return &MasterKey{Key: key}, nil
}

// DecodeMasterKey creates a MasterKey from a base64-encoded string, the format
// used by the VAULT_MASTER_KEY environment variable.
func DecodeMasterKey(encoded string) (*MasterKey, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: master key is not valid base64", ErrInvalidKeySize)
	}
	return NewMasterKey(key)
}

// GenerateMasterKey creates a random one-time master key.
//
// This is the fallback when no key is configured. The caller is expected to
// warn loudly: the key lives only in process memory, so anything encrypted
// under it becomes unrecoverable after a restart. Failing visibly here beats
// failing silently insecurely.
func GenerateMasterKey() (*MasterKey, error) {
	key := make([]byte, MasterKeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	return &MasterKey{Key: key, Ephemeral: true}, nil
}

// Close zeros the key material. The master key is unusable afterwards.
func (m *MasterKey) Close() {
	Zero(m.Key)
	m.Key = nil
}

// KMSKeeper abstracts a gocloud.dev secrets keeper used to unwrap a
// KMS-encrypted master key at startup. *secrets.Keeper implements it.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
