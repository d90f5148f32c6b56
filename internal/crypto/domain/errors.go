package domain

import (
	"github.com/adminsuite/vault/internal/errors"
)

// Cryptographic operation error definitions.
//
// Encryption and decryption failures are deliberately generic: the underlying
// crypto-library error text is never attached, so callers cannot distinguish a
// tampered ciphertext from a wrong key, and no key or ciphertext material can
// leak through error messages.
var (
	// ErrEncryptionFailed indicates an encryption operation failed.
	ErrEncryptionFailed = errors.New("failed to encrypt")

	// ErrDecryptionFailed indicates a decryption operation failed.
	//
	// This error can occur due to:
	//   - Wrong master key
	//   - Ciphertext or auth tag has been tampered with (authentication failure)
	//   - Malformed salt or IV
	ErrDecryptionFailed = errors.New("failed to decrypt")

	// ErrInvalidKeySize indicates the master key is not exactly MasterKeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrMalformedSecret indicates a serialized EncryptedSecret could not be
	// decoded into a fully-populated structure.
	ErrMalformedSecret = errors.Wrap(errors.ErrInvalidInput, "malformed encrypted secret")
)
