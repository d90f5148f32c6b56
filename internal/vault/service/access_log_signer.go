package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/adminsuite/vault/internal/crypto/domain"
	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

type accessLogSigner struct{}

// NewAccessLogSigner creates an HMAC-based access log signer using HKDF-SHA256
// for key derivation and HMAC-SHA256 for signature generation.
func NewAccessLogSigner() AccessLogSigner {
	return &accessLogSigner{}
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key from the
// master key. Separates encryption key usage from signing key usage.
// Info parameter: "access-log-signing-v1" (versioned for future algorithm changes).
func (a *accessLogSigner) deriveSigningKey(masterKey []byte) ([]byte, error) {
	info := []byte("access-log-signing-v1")
	hash := sha256.New
	hkdf := hkdf.New(hash, masterKey, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// canonicalizeEntry converts an access log entry to canonical bytes for signing.
// Format: id || resource_id || principal_id || kind || action || metadata || created_at
// Uses length-prefixed encoding for variable-length fields to prevent ambiguity.
func (a *accessLogSigner) canonicalizeEntry(entry *vaultDomain.AccessLogEntry) ([]byte, error) {
	buf := make([]byte, 0, 256)

	// Append UUIDs (16 bytes each)
	buf = append(buf, entry.ID[:]...)
	buf = append(buf, entry.ResourceID[:]...)
	buf = append(buf, entry.PrincipalID[:]...)

	// Append kind and action strings (length-prefixed for safety)
	buf = appendLengthPrefixed(buf, []byte(string(entry.ResourceKind)))
	buf = appendLengthPrefixed(buf, []byte(string(entry.Action)))

	// Append metadata JSON (length-prefixed, deterministic serialization)
	if entry.Metadata != nil {
		metadataBytes, err := json.Marshal(entry.Metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		buf = appendLengthPrefixed(buf, metadataBytes)
	} else {
		buf = appendLengthPrefixed(buf, nil)
	}

	// Append timestamp at microsecond precision. Both TIMESTAMPTZ and
	// DATETIME(6) columns store microseconds, so signing the nanosecond value
	// would invalidate every signature after a database round trip.
	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(entry.CreatedAt.Truncate(time.Microsecond).UnixNano()))
	buf = append(buf, timeBytes...)

	return buf, nil
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 0xFFFFFFFF {
		panic("data length exceeds uint32 max")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(dataLen))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// Sign generates the HMAC-SHA256 signature for the entry.
func (a *accessLogSigner) Sign(masterKey []byte, entry *vaultDomain.AccessLogEntry) ([]byte, error) {
	signingKey, err := a.deriveSigningKey(masterKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer cryptoDomain.Zero(signingKey)

	canonical, err := a.canonicalizeEntry(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize entry: %w", err)
	}

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)
	return mac.Sum(nil), nil
}

// Verify checks the entry's signature.
// Returns nil if valid, ErrSignatureInvalid if tampered or invalid.
func (a *accessLogSigner) Verify(masterKey []byte, entry *vaultDomain.AccessLogEntry) error {
	expectedSig, err := a.Sign(masterKey, entry)
	if err != nil {
		return fmt.Errorf("failed to compute expected signature: %w", err)
	}

	if !hmac.Equal(entry.Signature, expectedSig) {
		return vaultDomain.ErrSignatureInvalid
	}

	return nil
}
