// Package service provides the cryptographic services for the vault core:
// the per-record secret cipher, KMS master-key unwrapping, and the advisory
// password strength estimator.
package service

import (
	"context"

	cryptoDomain "github.com/adminsuite/vault/internal/crypto/domain"
)

// SecretCipher converts a plaintext string to an EncryptedSecret and back,
// under a single process-wide master key.
type SecretCipher interface {
	// Encrypt encrypts plaintext with a fresh random salt and IV.
	// The KDF makes this deliberately CPU-bound; expect tens of milliseconds.
	Encrypt(ctx context.Context, plaintext string) (cryptoDomain.EncryptedSecret, error)

	// Decrypt re-derives the per-record key and opens the ciphertext.
	// Fails with a generic error on tag mismatch or malformed fields and never
	// returns partial plaintext.
	Decrypt(ctx context.Context, secret cryptoDomain.EncryptedSecret) (string, error)
}

// KMSService opens gocloud.dev secrets keepers for master-key wrapping.
type KMSService interface {
	// OpenKeeper opens a secrets.Keeper for the configured KMS provider.
	// Returns an error if the KMS key URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}
