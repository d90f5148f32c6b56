package service

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha512"
	"runtime"

	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/sync/semaphore"

	cryptoDomain "github.com/adminsuite/vault/internal/crypto/domain"
)

// secretCipher implements SecretCipher using PBKDF2-SHA512 key derivation and
// AES-256-GCM authenticated encryption.
//
// Every encryption call draws a fresh 64-byte salt and 16-byte IV, derives a
// 32-byte key from (masterKey, salt), and seals the plaintext. The derived key
// is never cached: a cache keyed by salt would always miss, and caching any
// other way would defeat the per-record salt design.
//
// The KDF iteration count is the anti-brute-force control. Derivation is
// CPU-bound on purpose, so concurrent derivations are bounded by a semaphore
// sized to GOMAXPROCS to keep a burst of vault operations from starving the
// process.
//
// Thread safety: the cipher is stateless apart from the read-only master key
// and is safe for concurrent use from multiple goroutines.
type secretCipher struct {
	masterKey  *cryptoDomain.MasterKey
	iterations int
	sem        *semaphore.Weighted
}

// NewSecretCipher creates a SecretCipher bound to the given master key.
//
// iterations is the PBKDF2 iteration count; values <= 0 fall back to
// cryptoDomain.MinKDFIterations. Production configuration should never go
// below the floor; tests may pass a small count deliberately.
func NewSecretCipher(masterKey *cryptoDomain.MasterKey, iterations int) SecretCipher {
	if iterations <= 0 {
		iterations = cryptoDomain.MinKDFIterations
	}
	return &secretCipher{
		masterKey:  masterKey,
		iterations: iterations,
		sem:        semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// deriveKey stretches (masterKey, salt) into a 32-byte record key.
func (s *secretCipher) deriveKey(ctx context.Context, salt []byte) ([]byte, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer s.sem.Release(1)

	return pbkdf2.Key(s.masterKey.Key, salt, s.iterations, cryptoDomain.DerivedKeySize, sha512.New), nil
}

// newGCM builds an AES-256-GCM instance configured for the 16-byte IV used by
// the at-rest format.
func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, cryptoDomain.IVSize)
}

// Encrypt encrypts plaintext under a freshly derived per-record key.
//
// Underlying crypto failures are wrapped into a generic error; library error
// text never reaches the caller.
func (s *secretCipher) Encrypt(
	ctx context.Context,
	plaintext string,
) (cryptoDomain.EncryptedSecret, error) {
	salt := make([]byte, cryptoDomain.SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return cryptoDomain.EncryptedSecret{}, cryptoDomain.ErrEncryptionFailed
	}

	iv := make([]byte, cryptoDomain.IVSize)
	if _, err := rand.Read(iv); err != nil {
		return cryptoDomain.EncryptedSecret{}, cryptoDomain.ErrEncryptionFailed
	}

	key, err := s.deriveKey(ctx, salt)
	if err != nil {
		return cryptoDomain.EncryptedSecret{}, cryptoDomain.ErrEncryptionFailed
	}
	defer cryptoDomain.Zero(key)

	aead, err := newGCM(key)
	if err != nil {
		return cryptoDomain.EncryptedSecret{}, cryptoDomain.ErrEncryptionFailed
	}

	// Seal appends the auth tag to the ciphertext; store it as its own field.
	sealed := aead.Seal(nil, iv, []byte(plaintext), nil)
	tagStart := len(sealed) - cryptoDomain.AuthTagSize

	return cryptoDomain.EncryptedSecret{
		Ciphertext: sealed[:tagStart],
		IV:         iv,
		Salt:       salt,
		AuthTag:    sealed[tagStart:],
	}, nil
}

// Decrypt re-derives the record key from the stored salt and opens the
// ciphertext with the stored IV and auth tag.
//
// Tag verification happens before any plaintext is returned: a tampered
// ciphertext or wrong key yields ErrDecryptionFailed, never garbage output.
func (s *secretCipher) Decrypt(
	ctx context.Context,
	secret cryptoDomain.EncryptedSecret,
) (string, error) {
	if err := secret.Validate(); err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	key, err := s.deriveKey(ctx, secret.Salt)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}
	defer cryptoDomain.Zero(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	sealed := make([]byte, 0, len(secret.Ciphertext)+len(secret.AuthTag))
	sealed = append(sealed, secret.Ciphertext...)
	sealed = append(sealed, secret.AuthTag...)

	plaintext, err := aead.Open(nil, secret.IV, sealed, nil)
	if err != nil {
		return "", cryptoDomain.ErrDecryptionFailed
	}

	return string(plaintext), nil
}
