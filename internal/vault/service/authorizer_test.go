package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	vaultDomain "github.com/adminsuite/vault/internal/vault/domain"
)

func newSecretRecord(ownerID uuid.UUID) *vaultDomain.SecretRecord {
	return &vaultDomain.SecretRecord{
		ID:      uuid.Must(uuid.NewV7()),
		Title:   "prod db password",
		OwnerID: ownerID,
	}
}

func newFolder(ownerID uuid.UUID) *vaultDomain.Folder {
	return &vaultDomain.Folder{
		ID:      uuid.Must(uuid.NewV7()),
		Name:    "infrastructure",
		OwnerID: ownerID,
	}
}

func grantFor(resource vaultDomain.Resource, granteeID uuid.UUID, perms vaultDomain.PermissionSet) *vaultDomain.ShareGrant {
	return &vaultDomain.ShareGrant{
		ID:           uuid.Must(uuid.NewV7()),
		ResourceID:   resource.ResourceID(),
		ResourceKind: resource.Kind(),
		GranteeID:    granteeID,
		GrantedBy:    resource.ResourceOwnerID(),
		Permissions:  perms,
		CreatedAt:    time.Now().UTC(),
	}
}

func TestAuthorizer_OwnerOmnipotence(t *testing.T) {
	owner := uuid.Must(uuid.NewV7())
	auth := NewAuthorizer(nil)

	t.Run("SecretRecord", func(t *testing.T) {
		record := newSecretRecord(owner)
		for _, capability := range []vaultDomain.Capability{
			vaultDomain.ViewCapability,
			vaultDomain.EditCapability,
			vaultDomain.DeleteCapability,
			vaultDomain.ShareCapability,
		} {
			decision := auth.Authorize(owner, record, capability, nil)
			assert.True(t, decision.Allowed, "owner denied %s", capability)
		}
	})

	t.Run("Folder", func(t *testing.T) {
		folder := newFolder(owner)
		for _, capability := range []vaultDomain.Capability{
			vaultDomain.ViewCapability,
			vaultDomain.EditCapability,
			vaultDomain.DeleteCapability,
			vaultDomain.ShareCapability,
			vaultDomain.AddSecretsCapability,
		} {
			decision := auth.Authorize(owner, folder, capability, nil)
			assert.True(t, decision.Allowed, "owner denied %s", capability)
		}
	})
}

func TestAuthorizer_DefaultDeny(t *testing.T) {
	owner := uuid.Must(uuid.NewV7())
	stranger := uuid.Must(uuid.NewV7())
	auth := NewAuthorizer(nil)
	record := newSecretRecord(owner)

	for _, capability := range []vaultDomain.Capability{
		vaultDomain.ViewCapability,
		vaultDomain.EditCapability,
		vaultDomain.DeleteCapability,
		vaultDomain.ShareCapability,
	} {
		decision := auth.Authorize(stranger, record, capability, nil)
		assert.False(t, decision.Allowed, "stranger allowed %s", capability)
		assert.ErrorIs(t, decision.Err(), vaultDomain.ErrAccessDenied)
	}
}

func TestAuthorizer_GrantPrecision(t *testing.T) {
	owner := uuid.Must(uuid.NewV7())
	grantee := uuid.Must(uuid.NewV7())
	auth := NewAuthorizer(nil)
	record := newSecretRecord(owner)

	grant := grantFor(record, grantee, vaultDomain.PermissionSet{View: true})

	assert.True(t, auth.Authorize(grantee, record, vaultDomain.ViewCapability, grant).Allowed)
	assert.False(t, auth.Authorize(grantee, record, vaultDomain.EditCapability, grant).Allowed)
	assert.False(t, auth.Authorize(grantee, record, vaultDomain.ShareCapability, grant).Allowed)
}

func TestAuthorizer_DeleteRestrictedToOwner(t *testing.T) {
	owner := uuid.Must(uuid.NewV7())
	grantee := uuid.Must(uuid.NewV7())
	auth := NewAuthorizer(nil)
	record := newSecretRecord(owner)

	// Even a grant row with every flag set never yields delete on a secret record.
	grant := grantFor(record, grantee, vaultDomain.PermissionSet{
		View: true, Edit: true, Delete: true, Share: true, AddSecrets: true,
	})

	decision := auth.Authorize(grantee, record, vaultDomain.DeleteCapability, grant)
	assert.False(t, decision.Allowed)

	// On folders delete is grantable.
	folder := newFolder(owner)
	folderGrant := grantFor(folder, grantee, vaultDomain.PermissionSet{Delete: true})
	assert.True(t, auth.Authorize(grantee, folder, vaultDomain.DeleteCapability, folderGrant).Allowed)
}

func TestAuthorizer_SuperAdminBypass(t *testing.T) {
	owner := uuid.Must(uuid.NewV7())
	admin := uuid.Must(uuid.NewV7())
	auth := NewAuthorizer(func(id uuid.UUID) bool { return id == admin })

	record := newSecretRecord(owner)

	assert.True(t, auth.Authorize(admin, record, vaultDomain.DeleteCapability, nil).Allowed)
	assert.True(t, auth.Authorize(admin, record, vaultDomain.ViewCapability, nil).Allowed)

	// Bypass doesn't extend to undefined capabilities.
	assert.False(t, auth.Authorize(admin, record, vaultDomain.AddSecretsCapability, nil).Allowed)
}

func TestAuthorizer_UndefinedCapability(t *testing.T) {
	owner := uuid.Must(uuid.NewV7())
	auth := NewAuthorizer(nil)
	record := newSecretRecord(owner)

	// addSecrets isn't a secret record capability, even for the owner.
	decision := auth.Authorize(owner, record, vaultDomain.AddSecretsCapability, nil)
	assert.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "not defined")
}

func TestAuthorizer_MismatchedGrant(t *testing.T) {
	owner := uuid.Must(uuid.NewV7())
	grantee := uuid.Must(uuid.NewV7())
	other := uuid.Must(uuid.NewV7())
	auth := NewAuthorizer(nil)
	record := newSecretRecord(owner)

	grant := grantFor(record, grantee, vaultDomain.PermissionSet{View: true})

	// A grant for someone else never authorizes the caller.
	assert.False(t, auth.Authorize(other, record, vaultDomain.ViewCapability, grant).Allowed)

	// A grant for a different resource never authorizes either.
	otherRecord := newSecretRecord(owner)
	assert.False(t, auth.Authorize(grantee, otherRecord, vaultDomain.ViewCapability, grant).Allowed)
}

func TestAuthorizer_FolderScenario(t *testing.T) {
	// Owner alice shares folder F with bob as {view:true, addSecrets:false}.
	// S1 lives outside any folder; S2 was created inside F and inherited the grant.
	alice := uuid.Must(uuid.NewV7())
	bob := uuid.Must(uuid.NewV7())
	auth := NewAuthorizer(nil)

	s1 := newSecretRecord(alice)
	s2 := newSecretRecord(alice)
	s2Grant := grantFor(s2, bob, vaultDomain.PermissionSet{View: true})

	// No grant on S1: deny.
	assert.False(t, auth.Authorize(bob, s1, vaultDomain.ViewCapability, nil).Allowed)
	// Inherited grant on S2: allow view.
	assert.True(t, auth.Authorize(bob, s2, vaultDomain.ViewCapability, s2Grant).Allowed)
	// addSecrets was never granted and isn't a record capability anyway.
	assert.False(t, auth.Authorize(bob, s2, vaultDomain.AddSecretsCapability, s2Grant).Allowed)
}

func TestDecision_Err(t *testing.T) {
	assert.NoError(t, Decision{Allowed: true}.Err())
	assert.ErrorIs(t, Decision{Reason: "access denied"}.Err(), vaultDomain.ErrAccessDenied)
}
