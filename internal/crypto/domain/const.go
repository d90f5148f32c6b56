// Package domain defines the core cryptographic domain models for the vault.
// Secret values are encrypted one record at a time: every encryption call draws
// a fresh random salt and IV, derives a per-record key from the master key with
// PBKDF2, and seals the value with AES-256-GCM.
package domain

const (
	// MasterKeySize is the required master key length in bytes (256 bits).
	MasterKeySize = 32

	// DerivedKeySize is the length of the per-record key derived from the master key.
	DerivedKeySize = 32

	// SaltSize is the length of the random salt drawn for each encryption call.
	SaltSize = 64

	// IVSize is the length of the random initialization vector drawn for each
	// encryption call. AES-GCM is configured with a matching nonce size.
	IVSize = 16

	// AuthTagSize is the length of the GCM authentication tag.
	AuthTagSize = 16

	// MinKDFIterations is the floor for the PBKDF2 iteration count. The KDF cost
	// is the anti-brute-force control; configured values below this are raised.
	MinKDFIterations = 100000
)
