// Package domain defines the vault's core domain models: encrypted secret
// records, folders, share grants, and access log entries, together with the
// closed capability model that authorization decisions are made against.
package domain

// Capability identifies one operation a principal may be granted on a resource.
//
// The set is closed per resource kind: ResourceKind.Grantable rejects
// capabilities that can never be delegated (a share grant can never carry
// delete for a secret record, only its owner may delete it).
type Capability string

const (
	// ViewCapability allows reading a resource, including decrypting a
	// secret record's value.
	ViewCapability Capability = "view"

	// EditCapability allows mutating a resource's fields.
	EditCapability Capability = "edit"

	// DeleteCapability allows destroying a resource. Grantable on folders
	// only; for secret records it is always owner-only.
	DeleteCapability Capability = "delete"

	// ShareCapability allows granting or updating other principals' access.
	ShareCapability Capability = "share"

	// AddSecretsCapability allows creating secret records inside a folder.
	// Meaningless for secret records themselves.
	AddSecretsCapability Capability = "addSecrets"
)

// ResourceKind distinguishes the two shareable resource types.
type ResourceKind string

const (
	// SecretRecordKind marks a resource as an individual secret record.
	SecretRecordKind ResourceKind = "secret_record"

	// FolderKind marks a resource as a folder.
	FolderKind ResourceKind = "folder"
)

// Grantable reports whether a capability may appear in a share grant for this
// resource kind. Owners implicitly hold every capability defined for the kind
// and never need a grant.
func (k ResourceKind) Grantable(c Capability) bool {
	switch k {
	case SecretRecordKind:
		return c == ViewCapability || c == EditCapability || c == ShareCapability
	case FolderKind:
		return c == ViewCapability || c == EditCapability || c == DeleteCapability ||
			c == ShareCapability || c == AddSecretsCapability
	default:
		return false
	}
}

// Defined reports whether a capability is meaningful at all for this resource
// kind. Unlike Grantable it includes owner-only capabilities.
func (k ResourceKind) Defined(c Capability) bool {
	if k == SecretRecordKind && c == DeleteCapability {
		return true
	}
	return k.Grantable(c)
}

// Action labels an access log entry with the operation that produced it.
type Action string

const (
	ActionCreate Action = "create"
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionShare  Action = "share"
)
