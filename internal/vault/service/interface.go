// Package service provides the vault's authorization and audit services.
//
// The authorizer is a pure decision function: it never touches storage and is
// handed the (already looked up) share grant, so "was this authorized" is unit
// testable without a database and without exception-style control flow.
package service

import (
	"github.com/google/uuid"

	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

// Decision is the typed result of an authorization check.
type Decision struct {
	// Allowed is true when the principal may perform the action.
	Allowed bool
	// Reason explains a denial; empty when Allowed.
	Reason string
}

// Err converts a denial into ErrAccessDenied carrying the reason.
// Returns nil when the decision allows the action.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return vaultDomain.ErrAccessDenied
}

// SuperAdminFunc reports whether a principal holds the system-wide
// super-admin role. The role store itself lives outside the vault core.
type SuperAdminFunc func(principalID uuid.UUID) bool

// Authorizer decides whether a principal may perform an action on a resource.
type Authorizer interface {
	// Authorize applies the decision algorithm: super-admin bypass, owner
	// omnipotence, then the explicit share grant (nil when none exists).
	// It must be called before any cipher or persistence work.
	Authorize(
		principalID uuid.UUID,
		resource vaultDomain.Resource,
		capability vaultDomain.Capability,
		grant *vaultDomain.ShareGrant,
	) Decision
}

// AccessLogSigner signs and verifies access log entries so offline tampering
// with the audit trail is detectable.
type AccessLogSigner interface {
	// Sign derives the signing key from the master key and computes the HMAC
	// signature for the entry.
	Sign(masterKey []byte, entry *vaultDomain.AccessLogEntry) ([]byte, error)

	// Verify checks the entry's signature. Returns nil if valid,
	// ErrSignatureInvalid if tampered or signed with a different key.
	Verify(masterKey []byte, entry *vaultDomain.AccessLogEntry) error
}
