package domain

import (
	"time"

	"github.com/google/uuid"
)

// AccessLogEntry records one vault operation for audit purposes.
//
// Entries are append-only: they are written on every create/view/edit/delete/
// share operation, never mutated afterwards, and never consulted for
// authorization decisions. Each entry carries an HMAC signature so offline
// tampering with the audit trail is detectable.
type AccessLogEntry struct {
	// ID is the unique identifier of the entry.
	ID uuid.UUID
	// ResourceID references the secret record or folder the operation touched.
	ResourceID uuid.UUID
	// ResourceKind distinguishes what ResourceID points at.
	ResourceKind ResourceKind
	// PrincipalID is the principal that performed the operation.
	PrincipalID uuid.UUID
	// Action is the operation performed.
	Action Action
	// Metadata holds optional network metadata (e.g. remote address, user agent).
	Metadata map[string]any
	// Signature is the HMAC-SHA256 signature over the canonical entry bytes.
	Signature []byte
	// CreatedAt is the UTC timestamp when the entry was written.
	CreatedAt time.Time
}

// VerificationReport summarizes an access log signature sweep.
type VerificationReport struct {
	// Checked is the number of entries whose signature was recomputed.
	Checked int64
	// Invalid is the number of entries that failed verification.
	Invalid int64
	// InvalidIDs identifies the failing entries.
	InvalidIDs []uuid.UUID
}
