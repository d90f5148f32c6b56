package domain

import (
	"time"

	"github.com/google/uuid"
)

// ShareGrant gives a non-owner principal explicit capabilities on a resource.
//
// Invariants:
//   - At most one grant exists per (resource, grantee) pair; re-sharing with
//     the same grantee updates the existing grant.
//   - The resource owner never appears as a grantee: ownership implies every
//     capability defined for the resource kind.
//   - Permissions only ever carry flags that are Grantable for ResourceKind.
type ShareGrant struct {
	// ID is the unique identifier of the grant.
	ID uuid.UUID
	// ResourceID references the shared secret record or folder.
	ResourceID uuid.UUID
	// ResourceKind distinguishes what ResourceID points at.
	ResourceKind ResourceKind
	// GranteeID is the principal receiving access.
	GranteeID uuid.UUID
	// GrantedBy is the principal that created (or last updated) the grant.
	GrantedBy uuid.UUID
	// Permissions is the capability set delegated to the grantee.
	Permissions PermissionSet
	// CreatedAt is the UTC timestamp when the grant was first created.
	CreatedAt time.Time
	// UpdatedAt is the UTC timestamp of the last permission change.
	UpdatedAt time.Time
}
