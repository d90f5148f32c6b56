package service

import (
	"fmt"

	"github.com/google/uuid"

	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

// authorizer implements Authorizer as a pure decision function over
// ownership, the explicit share grant, and the super-admin bypass.
type authorizer struct {
	isSuperAdmin SuperAdminFunc
}

// NewAuthorizer creates an Authorizer. isSuperAdmin may be nil when no
// super-admin role exists in the deployment.
func NewAuthorizer(isSuperAdmin SuperAdminFunc) Authorizer {
	if isSuperAdmin == nil {
		isSuperAdmin = func(uuid.UUID) bool { return false }
	}
	return &authorizer{isSuperAdmin: isSuperAdmin}
}

// Authorize decides allow/deny for one (principal, resource, capability) call.
//
// Order matters: the decision is made entirely before any decryption or
// mutation, and a denial prevents the cipher from ever being invoked.
func (a *authorizer) Authorize(
	principalID uuid.UUID,
	resource vaultDomain.Resource,
	capability vaultDomain.Capability,
	grant *vaultDomain.ShareGrant,
) Decision {
	// A capability the resource kind doesn't define is nonsense for anyone,
	// owners and super-admins included.
	if !resource.Kind().Defined(capability) {
		return Decision{Reason: fmt.Sprintf("action %q not defined for %s", capability, resource.Kind())}
	}

	if a.isSuperAdmin(principalID) {
		return Decision{Allowed: true}
	}

	// The owner implicitly holds every capability defined for the kind,
	// including delete, which non-owners can never be granted on secret records.
	if resource.ResourceOwnerID() == principalID {
		return Decision{Allowed: true}
	}

	if grant == nil {
		return Decision{Reason: "access denied"}
	}

	// Owner-only capabilities stay owner-only even if a stale grant row
	// nominally carries the flag.
	if !resource.Kind().Grantable(capability) {
		return Decision{Reason: fmt.Sprintf("access denied for action: %s", capability)}
	}

	if grant.GranteeID != principalID || grant.ResourceID != resource.ResourceID() {
		return Decision{Reason: "access denied"}
	}

	if !grant.Permissions.Has(capability) {
		return Decision{Reason: fmt.Sprintf("access denied for action: %s", capability)}
	}

	return Decision{Allowed: true}
}
